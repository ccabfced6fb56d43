package words

import "time"

// Pronunciation is one phonetic rendering of a word. Audio is a URL to a
// recording when the lookup service provides one.
type Pronunciation struct {
	Text  string `json:"text"`
	Audio string `json:"audio,omitempty"`
}

// Definition pairs a part-of-speech tag with a single definition text.
type Definition struct {
	PartOfSpeech string `json:"partOfSpeech"`
	Definition   string `json:"definition"`
}

// Details is the enrichment block fetched from the dictionary service.
// Stores replace it wholesale; there is no field-level merge.
type Details struct {
	Pronunciation  string          `json:"pronunciation"`
	Pronunciations []Pronunciation `json:"pronunciations"`
	Definitions    []Definition    `json:"definitions"`
	Examples       []string        `json:"examples"`
}

// Record is one persisted word with its sighting count and optional
// enrichment fields. Detail fields are nil until the first successful
// enrichment.
type Record struct {
	ID               string          `json:"id"`
	Word             string          `json:"word"`
	Frequency        int             `json:"frequency"`
	CreatedAt        time.Time       `json:"created_at"`
	Pronunciation    string          `json:"pronunciation,omitempty"`
	Pronunciations   []Pronunciation `json:"pronunciations,omitempty"`
	Definitions      []Definition    `json:"definitions,omitempty"`
	Examples         []string        `json:"examples,omitempty"`
	DetailsFetchedAt *time.Time      `json:"details_fetched_at,omitempty"`
}
