package dictapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wordsift/wordsift/pkg/words"
)

func serveEntries(t *testing.T, entries []apiEntry) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			t.Errorf("encode: %v", err)
		}
	}))
}

func TestLookupNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"title":"No Definitions Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	details, found, err := c.Lookup(context.Background(), "zzzzz")
	if err != nil {
		t.Fatalf("expected no error on 404, got %v", err)
	}
	if found || details != nil {
		t.Fatalf("expected not-found outcome, got found=%v details=%+v", found, details)
	}
}

func TestLookupServerErrorIsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, _, err := NewClient(srv.URL, 0, nil).Lookup(context.Background(), "cat")
	var te *words.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.Status != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", te.Status)
	}
}

func TestLookupNormalizesWord(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode([]apiEntry{{Word: "cat"}})
	}))
	defer srv.Close()

	if _, _, err := NewClient(srv.URL, 0, nil).Lookup(context.Background(), "  CaT "); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !strings.HasSuffix(gotPath, "/cat") {
		t.Fatalf("expected lowercased path, got %q", gotPath)
	}
}

func TestLookupPronunciationPreference(t *testing.T) {
	srv := serveEntries(t, []apiEntry{{
		Word:     "cat",
		Phonetic: "/top-level/",
		Phonetics: []apiPhonetic{
			{Audio: "https://example.com/empty.mp3"},
			{Text: "/kæt/", Audio: "https://example.com/kat.mp3"},
			{Text: "/kat/"},
		},
	}})
	defer srv.Close()

	details, found, err := NewClient(srv.URL, 0, nil).Lookup(context.Background(), "cat")
	if err != nil || !found {
		t.Fatalf("lookup: found=%v err=%v", found, err)
	}
	if details.Pronunciation != "/kæt/" {
		t.Fatalf("expected first phonetic with text as primary, got %q", details.Pronunciation)
	}
	if len(details.Pronunciations) != 2 {
		t.Fatalf("expected 2 variants with text, got %+v", details.Pronunciations)
	}
	if details.Pronunciations[0].Audio != "https://example.com/kat.mp3" {
		t.Fatalf("expected audio carried over, got %+v", details.Pronunciations[0])
	}
}

func TestLookupPronunciationFallbacks(t *testing.T) {
	// Top-level phonetic when the list has no text.
	srv := serveEntries(t, []apiEntry{{Word: "dog", Phonetic: "/dɒɡ/", Phonetics: []apiPhonetic{{Audio: "x"}}}})
	details, _, err := NewClient(srv.URL, 0, nil).Lookup(context.Background(), "dog")
	srv.Close()
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if details.Pronunciation != "/dɒɡ/" {
		t.Fatalf("expected top-level fallback, got %q", details.Pronunciation)
	}

	// Synthesized placeholder when nothing is available.
	srv = serveEntries(t, []apiEntry{{Word: "dog"}})
	details, _, err = NewClient(srv.URL, 0, nil).Lookup(context.Background(), "dog")
	srv.Close()
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if details.Pronunciation != "/dog/" {
		t.Fatalf("expected /dog/ placeholder, got %q", details.Pronunciation)
	}
}

func TestLookupDefinitionCaps(t *testing.T) {
	// 4 meanings x 4 definitions: at most 3 kept per meaning, 5 total.
	var meanings []apiMeaning
	for _, pos := range []string{"noun", "verb", "adjective", "adverb"} {
		m := apiMeaning{PartOfSpeech: pos}
		for i := 0; i < 4; i++ {
			m.Definitions = append(m.Definitions, apiDefinition{Definition: pos + " definition"})
		}
		meanings = append(meanings, m)
	}
	srv := serveEntries(t, []apiEntry{{Word: "set", Meanings: meanings}})
	defer srv.Close()

	details, _, err := NewClient(srv.URL, 0, nil).Lookup(context.Background(), "set")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(details.Definitions) != 5 {
		t.Fatalf("expected 5 definitions, got %d", len(details.Definitions))
	}
	perPOS := map[string]int{}
	for _, d := range details.Definitions {
		perPOS[d.PartOfSpeech]++
		if perPOS[d.PartOfSpeech] > 3 {
			t.Fatalf("more than 3 definitions for %q", d.PartOfSpeech)
		}
	}
}

func TestLookupExamples(t *testing.T) {
	srv := serveEntries(t, []apiEntry{{
		Word: "run",
		Meanings: []apiMeaning{{
			PartOfSpeech: "verb",
			Definitions: []apiDefinition{
				{Definition: "d1", Example: "e1"},
				{Definition: "d2", Example: "e2"},
				{Definition: "d3", Example: "e3"},
			},
		}, {
			PartOfSpeech: "noun",
			Definitions:  []apiDefinition{{Definition: "d4", Example: "e4"}},
		}},
	}})
	defer srv.Close()

	details, _, err := NewClient(srv.URL, 0, nil).Lookup(context.Background(), "run")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(details.Examples) != 3 {
		t.Fatalf("expected examples capped at 3, got %v", details.Examples)
	}
}

func TestLookupSynthesizesExample(t *testing.T) {
	srv := serveEntries(t, []apiEntry{{
		Word: "cat",
		Meanings: []apiMeaning{{PartOfSpeech: "noun", Definitions: []apiDefinition{{Definition: "a small feline"}}}},
	}})
	defer srv.Close()

	details, _, err := NewClient(srv.URL, 0, nil).Lookup(context.Background(), "cat")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(details.Examples) != 1 || !strings.Contains(details.Examples[0], "cat") {
		t.Fatalf("expected one synthesized example containing the word, got %v", details.Examples)
	}
}

func TestLookupUsesCache(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode([]apiEntry{{Word: "cat", Phonetic: "/kæt/"}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Minute, nil)
	for i := 0; i < 3; i++ {
		if _, _, err := c.Lookup(context.Background(), "cat"); err != nil {
			t.Fatalf("lookup %d: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected 1 upstream call, got %d", got)
	}
}

func TestLookupBatchSkipsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/bad"):
			http.Error(w, "boom", http.StatusInternalServerError)
		case strings.HasSuffix(r.URL.Path, "/missing"):
			http.Error(w, "no entry", http.StatusNotFound)
		default:
			json.NewEncoder(w).Encode([]apiEntry{{Word: "cat", Phonetic: "/kæt/"}})
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	got := c.LookupBatch(context.Background(), []string{"cat", "bad", "missing"}, 0)
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if _, ok := got["cat"]; !ok {
		t.Fatalf("expected cat in results, got %v", got)
	}
}

func TestLookupBatchPacing(t *testing.T) {
	srv := serveEntries(t, []apiEntry{{Word: "cat", Phonetic: "/kæt/"}})
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	start := time.Now()
	c.LookupBatch(context.Background(), []string{"one", "two", "three"}, 30*time.Millisecond)
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Fatalf("expected at least 60ms of pacing, took %v", elapsed)
	}
}
