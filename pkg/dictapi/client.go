// Package dictapi fetches pronunciation, definition, and example data for a
// word from a free dictionary lookup service and reduces the loosely shaped
// response to the fixed internal schema in pkg/words.
package dictapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/wordsift/wordsift/pkg/words"
)

// DefaultBaseURL is the public dictionaryapi.dev entries endpoint.
const DefaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

// Caps applied when reducing the service response.
const (
	maxDefinitionsPerMeaning = 3
	maxDefinitionsTotal      = 5
	maxExamplesCollected     = 5
	maxExamplesReturned      = 3
)

// Boundary types for the service response. The API returns an array of
// entries (one per etymology); only the first is used. Unknown fields are
// ignored by the decoder.
type apiEntry struct {
	Word      string        `json:"word"`
	Phonetic  string        `json:"phonetic"`
	Phonetics []apiPhonetic `json:"phonetics"`
	Meanings  []apiMeaning  `json:"meanings"`
}

type apiPhonetic struct {
	Text  string `json:"text"`
	Audio string `json:"audio"`
}

type apiMeaning struct {
	PartOfSpeech string          `json:"partOfSpeech"`
	Definitions  []apiDefinition `json:"definitions"`
}

type apiDefinition struct {
	Definition string `json:"definition"`
	Example    string `json:"example"`
}

// Client queries the lookup service with an in-process TTL cache in front,
// so repeated clicks on the same word within the TTL cost no network call.
type Client struct {
	baseURL string
	httpc   *http.Client
	cache   *cache.Cache
	log     *zap.SugaredLogger
}

// NewClient returns a Client for the given base URL (DefaultBaseURL when
// empty). Successful lookups are cached for cacheTTL; zero disables caching.
func NewClient(baseURL string, cacheTTL time.Duration, log *zap.SugaredLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	var c *cache.Cache
	if cacheTTL > 0 {
		c = cache.New(cacheTTL, 2*cacheTTL)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 10 * time.Second},
		cache:   c,
		log:     log,
	}
}

// Lookup fetches details for one word. A service 404 ("no entry") returns
// found=false with no error; any other non-success response is a transport
// failure.
func (c *Client) Lookup(ctx context.Context, word string) (*words.Details, bool, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return nil, false, fmt.Errorf("word must be non-empty")
	}

	if c.cache != nil {
		if hit, ok := c.cache.Get(word); ok {
			d := hit.(words.Details)
			return &d, true, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+url.PathEscape(word), nil)
	if err != nil {
		return nil, false, &words.TransportError{Op: "lookup " + word, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, false, &words.TransportError{Op: "lookup " + word, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, &words.TransportError{Op: "lookup " + word, Status: resp.StatusCode}
	}

	var entries []apiEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, false, &words.TransportError{Op: "lookup " + word, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(entries) == 0 {
		return nil, false, nil
	}

	details := reduceEntry(word, entries[0])
	if c.cache != nil {
		c.cache.Set(word, *details, cache.DefaultExpiration)
	}
	return details, true, nil
}

// reduceEntry flattens one service entry into the internal Details shape,
// applying the pronunciation preference order and the definition and example
// caps.
func reduceEntry(word string, e apiEntry) *words.Details {
	d := &words.Details{}

	for _, p := range e.Phonetics {
		if p.Text == "" {
			continue
		}
		d.Pronunciations = append(d.Pronunciations, words.Pronunciation{Text: p.Text, Audio: p.Audio})
	}
	switch {
	case len(d.Pronunciations) > 0:
		d.Pronunciation = d.Pronunciations[0].Text
	case e.Phonetic != "":
		d.Pronunciation = e.Phonetic
	default:
		d.Pronunciation = "/" + word + "/"
	}

	var examples []string
	for _, m := range e.Meanings {
		for i, def := range m.Definitions {
			if i == maxDefinitionsPerMeaning {
				break
			}
			if def.Definition != "" {
				d.Definitions = append(d.Definitions, words.Definition{
					PartOfSpeech: m.PartOfSpeech,
					Definition:   def.Definition,
				})
			}
			if def.Example != "" && len(examples) < maxExamplesCollected {
				examples = append(examples, def.Example)
			}
		}
	}
	if len(d.Definitions) > maxDefinitionsTotal {
		d.Definitions = d.Definitions[:maxDefinitionsTotal]
	}

	if len(examples) > maxExamplesReturned {
		examples = examples[:maxExamplesReturned]
	}
	if len(examples) == 0 {
		examples = []string{fmt.Sprintf("An example sentence using the word %q.", word)}
	}
	d.Examples = examples

	return d
}
