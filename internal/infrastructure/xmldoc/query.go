package xmldoc

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Query expresión tipo XPath compilada a un etree.Path.
// Soporta pasos absolutos (/), descendientes (//), prefijos de la tabla Namespaces
// y un paso final @atributo.
type Query struct {
	expr string
	path etree.Path
	attr string
}

// Compile traduce expr a un etree.Path que compara nombre local y URI de namespace.
func Compile(expr string) (Query, error) {
	q := Query{expr: expr}
	body := strings.TrimSpace(expr)
	if body == "" {
		return q, fmt.Errorf("xmldoc: expresión vacía")
	}

	if i := strings.LastIndex(body, "/"); i >= 0 && strings.HasPrefix(body[i+1:], "@") {
		q.attr = body[i+2:]
		body = body[:i]
		if q.attr == "" {
			return q, fmt.Errorf("xmldoc: atributo vacío en %q", expr)
		}
		if body == "" || strings.HasSuffix(body, "/") {
			return q, fmt.Errorf("xmldoc: el atributo de %q debe aplicarse a un elemento", expr)
		}
	}

	var b strings.Builder
	for i, step := range strings.Split(body, "/") {
		if i > 0 {
			b.WriteByte('/')
		}
		translated, err := translateStep(step)
		if err != nil {
			return q, fmt.Errorf("xmldoc: %q: %w", expr, err)
		}
		b.WriteString(translated)
	}

	p, err := etree.CompilePath(b.String())
	if err != nil {
		return q, fmt.Errorf("xmldoc: %q: %w", expr, err)
	}
	q.path = p
	return q, nil
}

// MustCompile igual que Compile pero entra en pánico; para expresiones fijas.
func MustCompile(expr string) Query {
	q, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return q
}

func translateStep(step string) (string, error) {
	switch step {
	case "", ".", "..", "*":
		return step, nil
	}
	if strings.ContainsAny(step, "[]'\"@") {
		return "", fmt.Errorf("paso no soportado %q", step)
	}
	prefix, local, found := strings.Cut(step, ":")
	if !found {
		return fmt.Sprintf("*[local-name()='%s']", step), nil
	}
	uri, ok := NamespaceURI(prefix)
	if !ok {
		return "", fmt.Errorf("prefijo desconocido %q", prefix)
	}
	if local == "" {
		return "", fmt.Errorf("paso sin nombre local %q", step)
	}
	return fmt.Sprintf("*[local-name()='%s'][namespace-uri()='%s']", local, uri), nil
}

// String devuelve la expresión original.
func (q Query) String() string { return q.expr }

// Elements todos los elementos que coinciden, en orden de documento.
func (q Query) Elements(scope *etree.Element) []*etree.Element {
	if scope == nil {
		return nil
	}
	return scope.FindElementsPath(q.path)
}

// Element primer elemento que coincide o nil.
func (q Query) Element(scope *etree.Element) *etree.Element {
	if scope == nil {
		return nil
	}
	return scope.FindElementPath(q.path)
}

// Count número de coincidencias.
func (q Query) Count(scope *etree.Element) int {
	return len(q.Elements(scope))
}

// Text texto recortado del primer nodo (o valor del atributo). "" si no existe.
func (q Query) Text(scope *etree.Element) string {
	v, _ := q.Lookup(scope)
	return v
}

// Lookup como Text, pero informa si el nodo existe.
func (q Query) Lookup(scope *etree.Element) (string, bool) {
	el := q.Element(scope)
	if el == nil {
		return "", false
	}
	if q.attr != "" {
		a := el.SelectAttr(q.attr)
		if a == nil {
			return "", false
		}
		return strings.TrimSpace(a.Value), true
	}
	return strings.TrimSpace(el.Text()), true
}

// Values valores recortados de todas las coincidencias (atributos ausentes se omiten).
func (q Query) Values(scope *etree.Element) []string {
	var out []string
	for _, el := range q.Elements(scope) {
		if q.attr == "" {
			out = append(out, strings.TrimSpace(el.Text()))
			continue
		}
		if a := el.SelectAttr(q.attr); a != nil {
			out = append(out, strings.TrimSpace(a.Value))
		}
	}
	return out
}
