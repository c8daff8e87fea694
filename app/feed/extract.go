package feed

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"sync"
)

// Tag extraction helpers for untrusted markup fragments. Feed documents and
// scraped pages in the wild are rarely well-formed, so these are total
// functions over arbitrary text: no error returns, empty string when a tag
// is absent.

var (
	tagPatternCache sync.Map // tag name -> *regexp.Regexp
	stripTagsRe     = regexp.MustCompile(`<[^>]*>`)
	cdataRe         = regexp.MustCompile(`(?s)^\s*<!\[CDATA\[(.*?)\]\]>\s*$`)
)

func tagPattern(tagName string) *regexp.Regexp {
	if cached, ok := tagPatternCache.Load(tagName); ok {
		return cached.(*regexp.Regexp)
	}
	quoted := regexp.QuoteMeta(tagName)
	re := regexp.MustCompile(fmt.Sprintf(`(?is)<%s(?:\s[^>]*)?>(.*?)</%s\s*>`, quoted, quoted))
	tagPatternCache.Store(tagName, re)
	return re
}

// ExtractTag returns the inner text of the first matching tag,
// case-insensitively and tolerating attributes on the opening tag. CDATA
// sections are unwrapped; otherwise any nested markup is stripped. Entity
// decoding is left to downstream cleanup (StripTags). Only the first match
// is considered: callers must pre-scope the fragment when a document
// carries the same tag at multiple levels.
func ExtractTag(markup, tagName string) string {
	match := tagPattern(tagName).FindStringSubmatch(markup)
	if match == nil {
		return ""
	}

	content := match[1]
	if cdata := cdataRe.FindStringSubmatch(content); cdata != nil {
		content = cdata[1]
	} else {
		content = stripTagsRe.ReplaceAllString(content, "")
	}

	return strings.TrimSpace(content)
}

// ExtractAttr returns the value of attr on the first occurrence of tag.
// Needed where values live in attributes rather than tag content: Atom
// <link href="...">, HTML <meta content="...">.
func ExtractAttr(markup, tagName, attr string) string {
	quoted := regexp.QuoteMeta(tagName)
	tagRe := regexp.MustCompile(fmt.Sprintf(`(?is)<%s\s[^>]*>|<%s\s[^>]*/>`, quoted, quoted))
	tag := tagRe.FindString(markup)
	if tag == "" {
		return ""
	}

	attrRe := regexp.MustCompile(fmt.Sprintf(`(?i)\b%s\s*=\s*["']([^"']*)["']`, regexp.QuoteMeta(attr)))
	match := attrRe.FindStringSubmatch(tag)
	if match == nil {
		return ""
	}

	return strings.TrimSpace(html.UnescapeString(match[1]))
}

// FindTagWithAttr returns the first occurrence of tag whose attr equals
// value, e.g. <meta property="article:published_time" content="...">.
func FindTagWithAttr(markup, tagName, attr, value string) string {
	quoted := regexp.QuoteMeta(tagName)
	tagRe := regexp.MustCompile(fmt.Sprintf(`(?is)<%s\s[^>]*/?>`, quoted))
	attrRe := regexp.MustCompile(fmt.Sprintf(`(?i)\b%s\s*=\s*["']%s["']`, regexp.QuoteMeta(attr), regexp.QuoteMeta(value)))

	for _, tag := range tagRe.FindAllString(markup, -1) {
		if attrRe.MatchString(tag) {
			return tag
		}
	}

	return ""
}

// StripTags removes all markup tags and decodes entities, leaving plain
// text. Used to sanitize HTML-laden descriptions before prompt building
// and fallback summaries.
func StripTags(s string) string {
	if cdata := cdataRe.FindStringSubmatch(s); cdata != nil {
		s = cdata[1]
	}
	s = stripTagsRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
