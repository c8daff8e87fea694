package feed

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/gofeed/atom"
	"github.com/mmcdole/gofeed/rss"
	"golang.org/x/net/html/charset"
)

// Parser normalizes raw feed documents into the shared Parsed shape.
// Dialect detection selects one of three variant parsers; the actual XML
// handling is delegated to gofeed's tolerant dialect parsers, which cope
// with the malformed documents real feeds produce. An error is returned
// only when the entire document is unprocessable.
type Parser struct {
	rss  dialectParser
	atom dialectParser
	rdf  dialectParser
}

type dialectParser interface {
	parse(r io.Reader) (*Parsed, error)
}

func NewParser() *Parser {
	return &Parser{
		rss:  &rssParser{},
		atom: &atomParser{},
		rdf:  &rdfParser{},
	}
}

func (p *Parser) Run(data []byte) (*Parsed, error) {
	dialect := DetectDialect(data)

	var dp dialectParser
	switch dialect {
	case DialectAtom:
		dp = p.atom
	case DialectRDF:
		dp = p.rdf
	default:
		dp = p.rss
	}

	parsed, err := dp.parse(utf8Reader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s document: %w", dialect, err)
	}

	return parsed, nil
}

// utf8Reader sniffs the document encoding and converts to UTF-8.
// On sniff failure the raw bytes are passed through untouched.
func utf8Reader(data []byte) io.Reader {
	r, err := charset.NewReader(bytes.NewReader(data), "")
	if err != nil {
		return bytes.NewReader(data)
	}
	return r
}

// keepItem enforces the shared parser invariant: an item is emitted only
// when both title and link are non-empty.
func keepItem(item Item) bool {
	return item.Title != "" && item.Link != ""
}

type rssParser struct {
	inner rss.Parser
}

func (p *rssParser) parse(r io.Reader) (*Parsed, error) {
	src, err := p.inner.Parse(r)
	if err != nil {
		return nil, err
	}

	parsed := &Parsed{
		Title:       strings.TrimSpace(src.Title),
		Description: strings.TrimSpace(src.Description),
		Dialect:     DialectRSS,
	}
	if parsed.Title == "" {
		parsed.Title = PlaceholderTitleRSS
	}

	for _, it := range src.Items {
		if len(parsed.Items) >= MaxItems {
			break
		}

		item := Item{
			Title:          strings.TrimSpace(it.Title),
			Description:    strings.TrimSpace(it.Description),
			Link:           strings.TrimSpace(it.Link),
			PublishedAtRaw: strings.TrimSpace(it.PubDate),
			Author:         strings.TrimSpace(it.Author),
		}

		// <author> is optional in RSS 2.0; dc:creator is the common
		// substitute in the wild.
		if item.Author == "" && it.DublinCoreExt != nil && len(it.DublinCoreExt.Creator) > 0 {
			item.Author = strings.TrimSpace(it.DublinCoreExt.Creator[0])
		}

		if keepItem(item) {
			parsed.Items = append(parsed.Items, item)
		}
	}

	return parsed, nil
}

type atomParser struct {
	inner atom.Parser
}

func (p *atomParser) parse(r io.Reader) (*Parsed, error) {
	src, err := p.inner.Parse(r)
	if err != nil {
		return nil, err
	}

	parsed := &Parsed{
		Title:       strings.TrimSpace(src.Title),
		Description: strings.TrimSpace(src.Subtitle),
		Dialect:     DialectAtom,
	}
	if parsed.Title == "" {
		parsed.Title = PlaceholderTitleAtom
	}

	for _, entry := range src.Entries {
		if len(parsed.Items) >= MaxItems {
			break
		}

		item := Item{
			Title: strings.TrimSpace(entry.Title),
			Link:  entryLink(entry),
		}

		// Primary wins; fallback only when the primary extracts empty.
		item.Description = strings.TrimSpace(entry.Summary)
		if item.Description == "" && entry.Content != nil {
			item.Description = strings.TrimSpace(entry.Content.Value)
		}

		item.PublishedAtRaw = strings.TrimSpace(entry.Updated)
		if item.PublishedAtRaw == "" {
			item.PublishedAtRaw = strings.TrimSpace(entry.Published)
		}

		if len(entry.Authors) > 0 && entry.Authors[0] != nil {
			item.Author = strings.TrimSpace(entry.Authors[0].Name)
		}

		if keepItem(item) {
			parsed.Items = append(parsed.Items, item)
		}
	}

	return parsed, nil
}

// entryLink extracts the item link from the href attribute of an entry's
// <link> elements, preferring rel="alternate" per the Atom spec.
func entryLink(entry *atom.Entry) string {
	var first string
	for _, l := range entry.Links {
		if l == nil || l.Href == "" {
			continue
		}
		if first == "" {
			first = l.Href
		}
		if l.Rel == "" || l.Rel == "alternate" {
			return strings.TrimSpace(l.Href)
		}
	}
	return strings.TrimSpace(first)
}

// rdfParser handles RSS 1.0 documents. gofeed's rss parser understands the
// rdf:RDF root element; the dialect differences are in normalization: no
// native pubDate or author elements, so dates come from dc:date and
// authors from dc:creator.
type rdfParser struct {
	inner rss.Parser
}

func (p *rdfParser) parse(r io.Reader) (*Parsed, error) {
	src, err := p.inner.Parse(r)
	if err != nil {
		return nil, err
	}

	parsed := &Parsed{
		Title:       strings.TrimSpace(src.Title),
		Description: strings.TrimSpace(src.Description),
		Dialect:     DialectRDF,
	}
	if parsed.Title == "" {
		parsed.Title = PlaceholderTitleRDF
	}

	for _, it := range src.Items {
		if len(parsed.Items) >= MaxItems {
			break
		}

		item := Item{
			Title:       strings.TrimSpace(it.Title),
			Description: strings.TrimSpace(it.Description),
			Link:        strings.TrimSpace(it.Link),
		}

		if it.DublinCoreExt != nil {
			if len(it.DublinCoreExt.Date) > 0 {
				item.PublishedAtRaw = strings.TrimSpace(it.DublinCoreExt.Date[0])
			}
			if len(it.DublinCoreExt.Creator) > 0 {
				item.Author = strings.TrimSpace(it.DublinCoreExt.Creator[0])
			}
		}

		if keepItem(item) {
			parsed.Items = append(parsed.Items, item)
		}
	}

	return parsed, nil
}
