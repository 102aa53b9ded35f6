package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	LogLevel  string
	HTTP      HTTPConfig
	Validator ValidatorConfig
	DIAN      DIANConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host           string
	Port           int
	RequestTimeout time.Duration // tiempo máximo de una validación
	BodyLimit      int           // bytes; el XML viaja dentro del JSON
	SwaggerFile    string        // swagger.json generado con swag; vacío o inexistente = sin /docs
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ValidatorConfig motor XSD y límites del cargador XML.
type ValidatorConfig struct {
	SchemaRoot   string // directorio con xsd/factura/... y xsd/documento-soporte/...
	SchemaEngine string // native | libxml2
	MaxXMLBytes  int64
	MaxDepth     int
	TimeZone     string // zona para "hoy" en las reglas de fecha

	CheckNITDigit bool // verifica el DV del NIT del emisor; apagado por defecto
}

// DIANConfig configuración para factura electrónica DIAN (Colombia).
type DIANConfig struct {
	TechnicalKey string // Clave técnica por defecto cuando la solicitud no envía una
	Environment  string // "1" = Producción, "2" = Pruebas (habilitación)
	CertPath     string // Ruta al certificado .pem o .p12 (solo para firmar documentos de prueba)
	CertKeyPath  string // Ruta a la llave privada .pem (si CertPath es solo el certificado)
	CertPassword string // Contraseña del .p12 (si CertPath es .p12)
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, XSD_ROOT, DIAN_TECHNICAL_KEY, etc.
func Load() (*Config, error) {
	// .env al entorno del proceso; no pisa variables ya definidas
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: leer .env: %w", err)
	}

	v := viper.New()

	// Opcional: config.env en el directorio actual o en ./config
	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return FromViper(v)
}

// FromViper construye la configuración desde una instancia ya preparada.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "dian-xml-validator"),
		},
		LogLevel: getString(v, "LOG_LEVEL", "info"),
		HTTP: HTTPConfig{
			Host:           getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:           getInt(v, "HTTP_PORT", 8080),
			RequestTimeout: time.Duration(getInt(v, "HTTP_REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
			BodyLimit:      getInt(v, "HTTP_BODY_LIMIT_BYTES", 12*1024*1024),
			SwaggerFile:    getString(v, "SWAGGER_FILE", "./docs/swagger.json"),
		},
		Validator: ValidatorConfig{
			SchemaRoot:   getString(v, "XSD_ROOT", "."),
			SchemaEngine: strings.ToLower(getString(v, "XSD_ENGINE", "native")),
			MaxXMLBytes:  int64(getInt(v, "XML_MAX_BYTES", 10*1024*1024)),
			MaxDepth:     getInt(v, "XML_MAX_DEPTH", 256),
			TimeZone:     getString(v, "VALIDATOR_TIMEZONE", "America/Bogota"),

			CheckNITDigit: getBool(v, "VALIDATOR_CHECK_NIT_DIGIT", false),
		},
		DIAN: DIANConfig{
			TechnicalKey: getString(v, "DIAN_TECHNICAL_KEY", ""),
			Environment:  getString(v, "DIAN_ENVIRONMENT", "2"),
			CertPath:     getString(v, "DIAN_CERT_PATH", ""),
			CertKeyPath:  getString(v, "DIAN_CERT_KEY_PATH", ""),
			CertPassword: getString(v, "DIAN_CERT_PASSWORD", ""),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Validator.SchemaEngine {
	case "native", "libxml2":
	default:
		return fmt.Errorf("config: XSD_ENGINE debe ser native o libxml2, recibido %q", c.Validator.SchemaEngine)
	}
	if c.HTTP.Port <= 0 {
		return fmt.Errorf("config: HTTP_PORT inválido: %d", c.HTTP.Port)
	}
	if c.Validator.MaxXMLBytes <= 0 || c.Validator.MaxDepth <= 0 {
		return errors.New("config: XML_MAX_BYTES y XML_MAX_DEPTH deben ser positivos")
	}
	if c.DIAN.Environment != "1" && c.DIAN.Environment != "2" {
		return fmt.Errorf("config: DIAN_ENVIRONMENT debe ser 1 o 2, recibido %q", c.DIAN.Environment)
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return b
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
