package feed

import "strings"

// DetectDialect classifies a raw document as Atom, RDF, or default RSS
// based on structural signatures. This is a substring heuristic, not a
// validating parse: real-world feeds are not schema-validated XML, and a
// hybrid document may be misclassified. RSS 2.0 is the assumed common case
// and the fallback.
func DetectDialect(raw []byte) Dialect {
	doc := strings.ToLower(string(raw))

	if hasElement(doc, "feed") && strings.Contains(doc, "xmlns") {
		return DialectAtom
	}

	if strings.Contains(doc, "<rdf:rdf") || strings.Contains(doc, "xmlns:rdf") {
		return DialectRDF
	}

	return DialectRSS
}

// hasElement reports whether doc contains an opening tag literally named
// name. A bare prefix match is not enough: namespaced extension elements
// like <feedburner:origLink> appear inside ordinary RSS 2.0 documents and
// must not trip the Atom signature.
func hasElement(doc, name string) bool {
	marker := "<" + name
	for i := 0; ; {
		idx := strings.Index(doc[i:], marker)
		if idx < 0 {
			return false
		}
		next := i + idx + len(marker)
		if next >= len(doc) {
			return false
		}
		switch doc[next] {
		case ' ', '\t', '\r', '\n', '>', '/':
			return true
		}
		i = next
	}
}
