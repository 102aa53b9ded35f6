package xmldsig

import (
	"crypto"
	"encoding/base64"
	"fmt"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"
	"github.com/russellhaering/goxmldsig/etreeutils"
)

// Canonicalizer resuelve la URI de CanonicalizationMethod / Transform.
// prefixList solo aplica a exclusive C14N (InclusiveNamespaces/@PrefixList).
func Canonicalizer(alg, prefixList string) (dsig.Canonicalizer, error) {
	switch dsig.AlgorithmID(alg) {
	case dsig.CanonicalXML10RecAlgorithmId:
		return dsig.MakeC14N10RecCanonicalizer(), nil
	case dsig.CanonicalXML10WithCommentsAlgorithmId:
		return dsig.MakeC14N10WithCommentsCanonicalizer(), nil
	case dsig.CanonicalXML10ExclusiveAlgorithmId:
		return dsig.MakeC14N10ExclusiveCanonicalizerWithPrefixList(prefixList), nil
	case dsig.CanonicalXML10ExclusiveWithCommentsAlgorithmId:
		return dsig.MakeC14N10ExclusiveWithCommentsCanonicalizerWithPrefixList(prefixList), nil
	case dsig.CanonicalXML11AlgorithmId:
		return dsig.MakeC14N11Canonicalizer(), nil
	case dsig.CanonicalXML11WithCommentsAlgorithmId:
		return dsig.MakeC14N11WithCommentsCanonicalizer(), nil
	default:
		return nil, fmt.Errorf("%w: canonicalización %s", ErrUnsupportedAlgorithm, alg)
	}
}

// Canonicalize serializa el elemento (que sigue dentro de su árbol) en forma canónica.
// Los namespaces heredados de los ancestros se declaran en una copia separada del árbol;
// si exclude no es nil y es descendiente de el, se omite (transformación enveloped).
func Canonicalize(el *etree.Element, c dsig.Canonicalizer, exclude *etree.Element) ([]byte, error) {
	ctx, err := etreeutils.NSBuildParentContext(el)
	if err != nil {
		return nil, fmt.Errorf("xmldsig: contexto de namespaces: %w", err)
	}
	detached, err := etreeutils.NSDetatch(ctx, el)
	if err != nil {
		return nil, fmt.Errorf("xmldsig: separar elemento: %w", err)
	}
	if exclude != nil {
		removeAt(el, detached, exclude)
	}
	return c.Canonicalize(detached)
}

// removeAt quita de la copia el nodo que ocupa en ella la misma posición que exclude en el original.
func removeAt(original, copied, exclude *etree.Element) {
	var path []int
	for n := exclude; n != nil && n != original; n = n.Parent() {
		path = append(path, n.Index())
		if n.Parent() == nil {
			return // exclude no es descendiente
		}
	}
	if len(path) == 0 {
		return
	}
	cur := copied
	for i := len(path) - 1; i > 0; i-- {
		next, ok := cur.Child[path[i]].(*etree.Element)
		if !ok {
			return
		}
		cur = next
	}
	cur.RemoveChildAt(path[0])
}

// Digest resume data con el algoritmo de DigestMethod y lo devuelve en base64.
func Digest(alg string, data []byte) (string, error) {
	h, ok := DigestHash(alg)
	if !ok {
		return "", fmt.Errorf("%w: resumen %s", ErrUnsupportedAlgorithm, alg)
	}
	return base64.StdEncoding.EncodeToString(sum(h, data)), nil
}

func sum(h crypto.Hash, data []byte) []byte {
	w := h.New()
	w.Write(data)
	return w.Sum(nil)
}
