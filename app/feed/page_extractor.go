package feed

import (
	"bytes"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"strings"
	"time"

	readability "codeberg.org/readeck/go-readability"
	"github.com/araddon/dateparse"
)

// PageExtractor scrapes metadata from a single article page. Readability
// does the heavy lifting; raw tag extraction fills the gaps readability
// does not cover (meta keywords, published time).
type PageExtractor struct{}

func NewPageExtractor() *PageExtractor {
	return &PageExtractor{}
}

func (e *PageExtractor) Run(data []byte, pageURL *url.URL) (*PageMetadata, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("HTML data is empty")
	}

	markup := string(data)
	meta := &PageMetadata{}

	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err == nil {
		meta.Title = strings.TrimSpace(article.Title)
		meta.Author = strings.TrimSpace(article.Byline)
		meta.Summary = strings.TrimSpace(article.Excerpt)
		if meta.Summary == "" {
			meta.Summary = truncateText(StripTags(article.TextContent), 400)
		}
	} else {
		slog.Debug("Readability extraction failed, falling back to raw tags",
			"url", pageURL.String(), "error", err)
	}

	if meta.Title == "" {
		meta.Title = html.UnescapeString(ExtractTag(markup, "title"))
	}
	if meta.Summary == "" {
		meta.Summary = metaContent(markup, "name", "description")
	}
	if meta.Author == "" {
		meta.Author = metaContent(markup, "name", "author")
	}

	if raw := metaContent(markup, "property", "article:published_time"); raw != "" {
		if ts, err := dateparse.ParseAny(raw); err == nil {
			meta.PublishedAt = ts.UTC().Format(time.RFC3339)
		}
	}

	if raw := metaContent(markup, "name", "keywords"); raw != "" {
		for _, kw := range strings.Split(raw, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				meta.Keywords = append(meta.Keywords, kw)
			}
		}
	}

	return meta, nil
}

// metaContent returns the content attribute of the first <meta> tag whose
// attr (name or property) equals value.
func metaContent(markup, attr, value string) string {
	tag := FindTagWithAttr(markup, "meta", attr, value)
	if tag == "" {
		return ""
	}
	return ExtractAttr(tag, "meta", "content")
}

func truncateText(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
