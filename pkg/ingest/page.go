package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/wordsift/wordsift/pkg/words"
)

var pageClient = &http.Client{Timeout: 30 * time.Second}

// IngestURL fetches the page, extracts its readable text, and ingests that
// text. The page markup never reaches the tokenizer.
func (ig *Ingester) IngestURL(ctx context.Context, pageURL string) (*Result, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &words.TransportError{Op: "fetch page", Err: err}
	}
	// Some hosts reject requests without a browser-ish User-Agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := pageClient.Do(req)
	if err != nil {
		return nil, &words.TransportError{Op: "fetch page", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &words.TransportError{Op: "fetch page", Status: resp.StatusCode}
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return nil, fmt.Errorf("extract readable text: %w", err)
	}

	ig.Log.Infow("page extracted", "url", pageURL, "title", article.Title, "chars", len(article.TextContent))
	return ig.IngestText(ctx, article.TextContent)
}
