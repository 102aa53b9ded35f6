package xmldoc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/jhoicas/dian-xml-validator/internal/domain"
)

// Límites por defecto del cargador.
const (
	DefaultMaxBytes = 10 << 20 // 10 MiB
	DefaultMaxDepth = 256
)

// Errores del cargador (envueltos en domain.Error).
var (
	ErrTooLarge  = errors.New("xmldoc: el documento excede el tamaño máximo")
	ErrTooDeep   = errors.New("xmldoc: el documento excede la profundidad máxima")
	ErrDirective = errors.New("xmldoc: DOCTYPE/ENTITY no permitido")
	ErrMalformed = errors.New("xmldoc: XML mal formado")
)

// Limits endurecimiento del parser frente a entradas hostiles.
type Limits struct {
	MaxBytes int64
	MaxDepth int
}

// DefaultLimits 10 MiB y 256 niveles.
func DefaultLimits() Limits {
	return Limits{MaxBytes: DefaultMaxBytes, MaxDepth: DefaultMaxDepth}
}

// Document árbol de solo lectura. No debe modificarse después de Load.
type Document struct {
	tree *etree.Document
	raw  []byte
}

// Root elemento raíz.
func (d *Document) Root() *etree.Element { return d.tree.Root() }

// Tree documento etree completo (nodo documento); base de las consultas absolutas.
func (d *Document) Tree() *etree.Document { return d.tree }

// Raw bytes originales tal como llegaron.
func (d *Document) Raw() []byte { return d.raw }

// Scope elemento desde el que se evalúan consultas absolutas y //.
func (d *Document) Scope() *etree.Element { return &d.tree.Element }

// Loader carga documentos XML aplicando Limits.
type Loader struct {
	limits Limits
}

// NewLoader crea el cargador; valores <= 0 toman el límite por defecto.
func NewLoader(limits Limits) *Loader {
	if limits.MaxBytes <= 0 {
		limits.MaxBytes = DefaultMaxBytes
	}
	if limits.MaxDepth <= 0 {
		limits.MaxDepth = DefaultMaxDepth
	}
	return &Loader{limits: limits}
}

// Load valida límites y bien-formación y construye el árbol.
// Límites excedidos o DOCTYPE → error funcional; XML mal formado → error técnico.
func (l *Loader) Load(data []byte) (*Document, error) {
	if int64(len(data)) > l.limits.MaxBytes {
		return nil, &domain.Error{
			Kind:    domain.ErrFunctional,
			Message: fmt.Sprintf("El XML excede el tamaño máximo permitido (%d bytes)", l.limits.MaxBytes),
			Cause:   ErrTooLarge,
		}
	}
	if err := l.prescan(data); err != nil {
		return nil, err
	}

	tree := etree.NewDocument()
	tree.ReadSettings = etree.ReadSettings{CharsetReader: CharsetReader}
	if err := tree.ReadFromBytes(data); err != nil {
		return nil, domain.Technical("Error parseando XML: "+err.Error(), errors.Join(ErrMalformed, err))
	}
	if tree.Root() == nil {
		return nil, domain.Technical("Error parseando XML: documento sin elemento raíz", ErrMalformed)
	}
	return &Document{tree: tree, raw: data}, nil
}

// prescan recorre los tokens sin construir el árbol: rechaza directivas y controla la profundidad.
func (l *Loader) prescan(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	dec.CharsetReader = CharsetReader

	depth, roots := 0, 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.Technical("Error parseando XML: "+err.Error(), errors.Join(ErrMalformed, err))
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				roots++
			}
			if depth > l.limits.MaxDepth {
				return &domain.Error{
					Kind:    domain.ErrFunctional,
					Message: fmt.Sprintf("El XML excede la profundidad máxima permitida (%d niveles)", l.limits.MaxDepth),
					Cause:   ErrTooDeep,
				}
			}
		case xml.EndElement:
			depth--
		case xml.Directive:
			return &domain.Error{
				Kind:    domain.ErrFunctional,
				Message: "El XML no puede contener declaraciones DOCTYPE o ENTITY",
				Cause:   fmt.Errorf("%w: %.40s", ErrDirective, string(t)),
			}
		}
	}
	if roots != 1 {
		return domain.Technical("Error parseando XML: se esperaba un único elemento raíz", ErrMalformed)
	}
	return nil
}

// CharsetReader decodifica prólogos no UTF-8 (ISO-8859-1, Windows-1252 o cualquier nombre IANA).
func CharsetReader(charset string, input io.Reader) (io.Reader, error) {
	name := strings.TrimSpace(charset)
	switch {
	case name == "", strings.EqualFold(name, "UTF-8"), strings.EqualFold(name, "UTF8"):
		return input, nil
	case strings.EqualFold(name, "ISO-8859-1"), strings.EqualFold(name, "ISO8859-1"), strings.EqualFold(name, "LATIN1"):
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("xmldoc: codificación no soportada %q", charset)
	}
	if enc == encoding.Nop {
		return input, nil
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}
