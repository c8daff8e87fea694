package feed

import (
	"testing"
)

func TestDetectDialect(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Dialect
	}{
		{
			"atom skeleton",
			`<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"><title>t</title></feed>`,
			DialectAtom,
		},
		{
			"rdf root element",
			`<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"><channel/></rdf:RDF>`,
			DialectRDF,
		},
		{
			"xmlns:rdf declaration only",
			`<something xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"/>`,
			DialectRDF,
		},
		{
			"bare rss channel",
			`<rss version="2.0"><channel><title>t</title></channel></rss>`,
			DialectRSS,
		},
		{
			"unrecognized falls back to rss",
			`<html><body>not a feed</body></html>`,
			DialectRSS,
		},
		{
			"feed element without xmlns is not atom",
			`<feed><entry/></feed>`,
			DialectRSS,
		},
		{
			"rss with feedburner extension elements stays rss",
			`<?xml version="1.0"?><rss version="2.0" xmlns:feedburner="http://rssnamespace.org/feedburner/ext/1.0"><channel><title>t</title><item><title>a</title><link>https://example.org/a</link><feedburner:origLink>https://example.org/a</feedburner:origLink></item></channel></rss>`,
			DialectRSS,
		},
		{
			"atom with self-closing feed tag",
			`<feed xmlns="http://www.w3.org/2005/Atom"/>`,
			DialectAtom,
		},
		{
			"atom feed tag on its own line",
			"<?xml version=\"1.0\"?>\n<feed\n  xmlns=\"http://www.w3.org/2005/Atom\">\n</feed>",
			DialectAtom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDialect([]byte(tt.raw)); got != tt.expected {
				t.Errorf("Expected %s, got: %s", tt.expected, got)
			}
		})
	}
}
