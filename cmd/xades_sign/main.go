// xades_sign firma con XAdES-EPES una factura DIAN para producir documentos de prueba.
//
// Sin -in arma la factura de ejemplo del set de pruebas con su CUFE; con -in firma el XML indicado.
// El certificado sale de -cert/-key/-password o de DIAN_CERT_PATH, DIAN_CERT_KEY_PATH y DIAN_CERT_PASSWORD.
//
// Uso: go run ./cmd/xades_sign -cert certificado.p12 -password 123456 -out factura_firmada.xml
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jhoicas/dian-xml-validator/internal/application/validator"
	infradian "github.com/jhoicas/dian-xml-validator/internal/infrastructure/dian"
	"github.com/jhoicas/dian-xml-validator/internal/infrastructure/dian/signer"
	"github.com/jhoicas/dian-xml-validator/pkg/config"
	"github.com/jhoicas/dian-xml-validator/pkg/dian"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	if err := run(os.Args[1:], cfg, clockwork.NewRealClock(), os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(args []string, cfg *config.Config, clock clockwork.Clock, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("xades_sign", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "XML a firmar (vacío = factura de ejemplo)")
	out := fs.String("out", "-", "archivo de salida (- = salida estándar)")
	certPath := fs.String("cert", cfg.DIAN.CertPath, "certificado .p12 o .pem")
	keyPath := fs.String("key", cfg.DIAN.CertKeyPath, "llave privada .pem (si -cert es PEM)")
	password := fs.String("password", cfg.DIAN.CertPassword, "contraseña del .p12")
	technicalKey := fs.String("technical-key", cfg.DIAN.TechnicalKey, "clave técnica para el CUFE de la factura de ejemplo")
	role := fs.String("role", dian.SignerRoleSupplier, "rol del firmante: supplier o third party")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *certPath == "" {
		return fmt.Errorf("el certificado es obligatorio (-cert o DIAN_CERT_PATH)")
	}

	loc := validator.BogotaLocation()
	var unsigned []byte
	if *in == "" {
		if *technicalKey == "" {
			return fmt.Errorf("la clave técnica es obligatoria para la factura de ejemplo (-technical-key o DIAN_TECHNICAL_KEY)")
		}
		res, err := infradian.NewXMLBuilderService().BuildWithCUFE(infradian.SampleInvoice(clock.Now().In(loc).Truncate(time.Second), *technicalKey))
		if err != nil {
			return fmt.Errorf("armar factura de ejemplo: %w", err)
		}
		fmt.Fprintf(stderr, "CUFE: %s\n", res.CUFE)
		unsigned = res.XML
	} else {
		b, err := os.ReadFile(*in)
		if err != nil {
			return fmt.Errorf("leer XML: %w", err)
		}
		unsigned = b
	}

	cert, err := signer.Load(*certPath, *keyPath, *password)
	if err != nil {
		return fmt.Errorf("certificado: %w", err)
	}

	var s dian.Signer = signer.NewDigitalSignatureService(clock, loc).WithRole(*role)
	signed, err := s.Sign(unsigned, cert)
	if err != nil {
		return fmt.Errorf("firmar: %w", err)
	}

	if *out == "-" {
		_, err = stdout.Write(signed)
		return err
	}
	if err := os.WriteFile(*out, signed, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", *out, err)
	}
	fmt.Fprintf(stderr, "Documento firmado: %s\n", *out)
	return nil
}
