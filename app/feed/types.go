package feed

// Dialect identifies one of the supported feed document formats.
type Dialect string

const (
	DialectRSS  Dialect = "rss"
	DialectAtom Dialect = "atom"
	DialectRDF  Dialect = "rdf"
)

// Placeholder titles used when a document yields no usable channel title.
// A placeholder surviving parsing signals a fundamentally malformed source
// to the ingestion layer.
const (
	PlaceholderTitleRSS  = "RSS Feed"
	PlaceholderTitleAtom = "Atom Feed"
	PlaceholderTitleRDF  = "RDF Feed"
)

// MaxItems caps the number of items taken from a single document,
// regardless of source size.
const MaxItems = 20

// Item is a single parsed feed entry, pre-persistence. PublishedAtRaw
// carries the source's date string untouched; parsing happens at insert
// time so a bad date never discards an item.
type Item struct {
	Title          string
	Description    string // possibly HTML-laden, kept as-is
	Link           string
	PublishedAtRaw string
	Author         string
}

// Parsed is the normalized output shared by all three dialect parsers.
type Parsed struct {
	Title       string
	Description string
	Dialect     Dialect
	Items       []Item
}

// HasPlaceholderTitle reports whether the parser fell back to the
// dialect placeholder because no title could be extracted.
func (p *Parsed) HasPlaceholderTitle() bool {
	switch p.Title {
	case PlaceholderTitleRSS, PlaceholderTitleAtom, PlaceholderTitleRDF:
		return true
	}
	return false
}

// PageMetadata is the result of a single-page scrape, a sibling consumer
// of the fetcher separate from feed ingestion.
type PageMetadata struct {
	Title       string
	Summary     string
	Author      string
	PublishedAt string // RFC 3339, empty when undetectable
	Keywords    []string
}
