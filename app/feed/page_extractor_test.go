package feed

import (
	"net/url"
	"testing"
)

func TestPageExtractorMetadata(t *testing.T) {
	html := `<!DOCTYPE html>
<html>
<head>
	<title>AI Spots Tumors Earlier</title>
	<meta name="description" content="A study shows deep learning models detect tumors months earlier.">
	<meta name="author" content="Jane Roe">
	<meta name="keywords" content="oncology, deep learning, imaging">
	<meta property="article:published_time" content="2024-03-05T09:30:00Z">
</head>
<body>
	<article>
		<p>A study published this week shows deep learning models can detect tumors months earlier than radiologists working alone. The researchers trained on a multi-site imaging cohort.</p>
		<p>The model flagged subtle density changes that are easy to miss during routine review, and the authors argue for prospective validation before clinical use.</p>
	</article>
</body>
</html>`

	pageURL, _ := url.Parse("https://example.com/articles/ai-tumors")
	meta, err := NewPageExtractor().Run([]byte(html), pageURL)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if meta.Title != "AI Spots Tumors Earlier" {
		t.Errorf("Unexpected title: %s", meta.Title)
	}
	if meta.Summary == "" {
		t.Error("Expected a non-empty summary")
	}
	if meta.Author != "Jane Roe" {
		t.Errorf("Expected author 'Jane Roe', got: %s", meta.Author)
	}
	if meta.PublishedAt != "2024-03-05T09:30:00Z" {
		t.Errorf("Expected RFC 3339 published time, got: %s", meta.PublishedAt)
	}
	if len(meta.Keywords) != 3 || meta.Keywords[0] != "oncology" {
		t.Errorf("Unexpected keywords: %v", meta.Keywords)
	}
}

func TestPageExtractorEmptyInput(t *testing.T) {
	pageURL, _ := url.Parse("https://example.com")
	if _, err := NewPageExtractor().Run(nil, pageURL); err == nil {
		t.Error("Expected error for empty HTML data")
	}
}

func TestPageExtractorFallsBackToRawTags(t *testing.T) {
	// Too little content for readability; the raw tag path still yields
	// the title and meta description.
	html := `<html><head><title>Bare Page</title>
<meta name="description" content="Minimal page."></head><body></body></html>`

	pageURL, _ := url.Parse("https://example.com/bare")
	meta, err := NewPageExtractor().Run([]byte(html), pageURL)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if meta.Title != "Bare Page" {
		t.Errorf("Expected title from <title> tag, got: %s", meta.Title)
	}
	if meta.Summary != "Minimal page." {
		t.Errorf("Expected meta description fallback, got: %s", meta.Summary)
	}
}
