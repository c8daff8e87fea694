package feed

import (
	"fmt"
	"strings"
	"testing"
)

func TestParseRSS2(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/">
  <channel>
    <title>Oncology AI Digest</title>
    <link>https://example.com</link>
    <description>AI applications in cancer research</description>
    <item>
      <title>Deep learning for tumor segmentation</title>
      <link>https://example.com/item1</link>
      <description><![CDATA[A <b>new</b> model for MRI segmentation.]]></description>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
      <author>jane@example.com (Jane Doe)</author>
    </item>
    <item>
      <title>Radiomics review</title>
      <link>https://example.com/item2</link>
      <description>Survey of radiomics pipelines</description>
      <dc:creator>John Smith</dc:creator>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	parsed, err := parser.Run([]byte(rssData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if parsed.Dialect != DialectRSS {
		t.Errorf("Expected rss dialect, got: %s", parsed.Dialect)
	}
	if parsed.Title != "Oncology AI Digest" {
		t.Errorf("Expected title 'Oncology AI Digest', got: %s", parsed.Title)
	}
	if parsed.Description != "AI applications in cancer research" {
		t.Errorf("Expected channel description, got: %s", parsed.Description)
	}

	if len(parsed.Items) != 2 {
		t.Fatalf("Expected 2 items, got: %d", len(parsed.Items))
	}

	item1 := parsed.Items[0]
	if item1.Title != "Deep learning for tumor segmentation" {
		t.Errorf("Unexpected item title: %s", item1.Title)
	}
	if item1.Link != "https://example.com/item1" {
		t.Errorf("Unexpected item link: %s", item1.Link)
	}
	if item1.PublishedAtRaw != "Mon, 03 Jul 2023 10:00:00 GMT" {
		t.Errorf("Expected raw pubDate string, got: %s", item1.PublishedAtRaw)
	}
	if item1.Author == "" {
		t.Error("Expected author from <author> element")
	}

	// dc:creator fallback when <author> is absent
	if parsed.Items[1].Author != "John Smith" {
		t.Errorf("Expected dc:creator fallback 'John Smith', got: %s", parsed.Items[1].Author)
	}
}

func TestParseRSSDiscardsItemsWithoutTitleAndLink(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <item>
      <description>no title, no link</description>
    </item>
    <item>
      <title>Valid item</title>
      <link>https://example.com/valid</link>
    </item>
    <item>
      <title>Title but no link</title>
    </item>
  </channel>
</rss>`

	parsed, err := NewParser().Run([]byte(rssData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(parsed.Items) != 1 {
		t.Fatalf("Expected 1 item, got: %d", len(parsed.Items))
	}
	if parsed.Items[0].Title != "Valid item" {
		t.Errorf("Expected only the valid item, got: %s", parsed.Items[0].Title)
	}
}

func TestParseRSSItemCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel><title>Big Feed</title>`)
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&sb, `<item><title>Item %d</title><link>https://example.com/%d</link></item>`, i, i)
	}
	sb.WriteString(`</channel></rss>`)

	parsed, err := NewParser().Run([]byte(sb.String()))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(parsed.Items) != MaxItems {
		t.Fatalf("Expected %d items, got: %d", MaxItems, len(parsed.Items))
	}

	// The first 20 occurrences, in document order.
	if parsed.Items[0].Title != "Item 0" {
		t.Errorf("Expected 'Item 0' first, got: %s", parsed.Items[0].Title)
	}
	if parsed.Items[MaxItems-1].Title != fmt.Sprintf("Item %d", MaxItems-1) {
		t.Errorf("Expected 'Item %d' last, got: %s", MaxItems-1, parsed.Items[MaxItems-1].Title)
	}
}

func TestParseAtom(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>AI Oncology Preprints</title>
  <subtitle>Latest preprints</subtitle>
  <link href="https://example.com"/>
  <updated>2023-07-03T12:00:00Z</updated>
  <id>urn:uuid:feed-1</id>
  <entry>
    <title>Survival prediction with transformers</title>
    <link rel="alternate" href="https://example.com/entry1"/>
    <id>urn:uuid:entry-1</id>
    <updated>2023-07-03T10:00:00Z</updated>
    <summary>A transformer approach to survival analysis.</summary>
    <author><name>Ada Lovelace</name></author>
  </entry>
  <entry>
    <title>Content fallback entry</title>
    <link href="https://example.com/entry2"/>
    <id>urn:uuid:entry-2</id>
    <published>2023-07-02T09:00:00Z</published>
    <content type="html">Full content used as summary fallback</content>
  </entry>
</feed>`

	parsed, err := NewParser().Run([]byte(atomData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if parsed.Dialect != DialectAtom {
		t.Errorf("Expected atom dialect, got: %s", parsed.Dialect)
	}
	if parsed.Title != "AI Oncology Preprints" {
		t.Errorf("Unexpected feed title: %s", parsed.Title)
	}
	if parsed.Description != "Latest preprints" {
		t.Errorf("Expected subtitle as description, got: %s", parsed.Description)
	}

	if len(parsed.Items) != 2 {
		t.Fatalf("Expected 2 items, got: %d", len(parsed.Items))
	}

	entry1 := parsed.Items[0]
	if entry1.Link != "https://example.com/entry1" {
		t.Errorf("Expected link from href attribute, got: %s", entry1.Link)
	}
	if entry1.Description != "A transformer approach to survival analysis." {
		t.Errorf("Expected summary as description, got: %s", entry1.Description)
	}
	if entry1.PublishedAtRaw != "2023-07-03T10:00:00Z" {
		t.Errorf("Expected updated timestamp, got: %s", entry1.PublishedAtRaw)
	}
	if entry1.Author != "Ada Lovelace" {
		t.Errorf("Expected author from nested name element, got: %s", entry1.Author)
	}

	entry2 := parsed.Items[1]
	if entry2.Description != "Full content used as summary fallback" {
		t.Errorf("Expected content fallback, got: %s", entry2.Description)
	}
	if entry2.PublishedAtRaw != "2023-07-02T09:00:00Z" {
		t.Errorf("Expected published fallback, got: %s", entry2.PublishedAtRaw)
	}
}

func TestParseRDF(t *testing.T) {
	rdfData := `<?xml version="1.0"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns="http://purl.org/rss/1.0/"
         xmlns:dc="http://purl.org/dc/elements/1.1/">
  <channel rdf:about="https://example.com">
    <title>PubMed Oncology AI</title>
    <description>Database alerts</description>
    <link>https://example.com</link>
  </channel>
  <item rdf:about="https://example.com/item1">
    <title>Imaging biomarkers study</title>
    <link>https://example.com/item1</link>
    <description>Study description</description>
    <dc:date>2023-07-01T08:00:00Z</dc:date>
    <dc:creator>Grace Hopper</dc:creator>
  </item>
</rdf:RDF>`

	parsed, err := NewParser().Run([]byte(rdfData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if parsed.Dialect != DialectRDF {
		t.Errorf("Expected rdf dialect, got: %s", parsed.Dialect)
	}
	if parsed.Title != "PubMed Oncology AI" {
		t.Errorf("Unexpected feed title: %s", parsed.Title)
	}

	if len(parsed.Items) != 1 {
		t.Fatalf("Expected 1 item, got: %d", len(parsed.Items))
	}

	item := parsed.Items[0]
	if item.PublishedAtRaw != "2023-07-01T08:00:00Z" {
		t.Errorf("Expected dc:date, got: %s", item.PublishedAtRaw)
	}
	if item.Author != "Grace Hopper" {
		t.Errorf("Expected dc:creator, got: %s", item.Author)
	}
}

func TestParsePlaceholderTitle(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <item>
      <title>Item</title>
      <link>https://example.com/item</link>
    </item>
  </channel>
</rss>`

	parsed, err := NewParser().Run([]byte(rssData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if parsed.Title != PlaceholderTitleRSS {
		t.Errorf("Expected placeholder title, got: %s", parsed.Title)
	}
	if !parsed.HasPlaceholderTitle() {
		t.Error("Expected HasPlaceholderTitle to report true")
	}
}

func TestParseUnprocessableDocument(t *testing.T) {
	if _, err := NewParser().Run([]byte("this is not markup at all")); err == nil {
		t.Error("Expected error for unprocessable document")
	}
}

func TestParseRSSWithFeedburnerExtensions(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0" xmlns:feedburner="http://rssnamespace.org/feedburner/ext/1.0">
  <channel>
    <title>Oncology Updates</title>
    <item>
      <title>First study</title>
      <link>https://example.com/1</link>
      <feedburner:origLink>https://example.com/orig/1</feedburner:origLink>
    </item>
    <item>
      <title>Second study</title>
      <link>https://example.com/2</link>
      <feedburner:origLink>https://example.com/orig/2</feedburner:origLink>
    </item>
  </channel>
</rss>`

	parsed, err := NewParser().Run([]byte(rssData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if parsed.Dialect != DialectRSS {
		t.Errorf("Expected rss dialect, got: %s", parsed.Dialect)
	}
	if len(parsed.Items) != 2 {
		t.Errorf("Expected 2 items, got: %d", len(parsed.Items))
	}
}
