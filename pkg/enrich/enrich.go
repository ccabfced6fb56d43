// Package enrich glues the dictionary fetcher and the word store: it decides
// when a record's details are stale, fetches fresh ones, and writes them back
// wholesale.
package enrich

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wordsift/wordsift/pkg/dictapi"
	"github.com/wordsift/wordsift/pkg/words"
)

// Outcome classifies a non-error enrichment result.
type Outcome int

const (
	// OutcomeUpdated: details were fetched and written back.
	OutcomeUpdated Outcome = iota
	// OutcomeFresh: existing details are within the staleness window and the
	// caller did not force a refresh.
	OutcomeFresh
	// OutcomeNoEntry: the lookup service has no entry for the word. Not an
	// error; there is simply nothing to show.
	OutcomeNoEntry
)

// Fetcher is the slice of the dictionary client the enricher needs.
type Fetcher interface {
	Lookup(ctx context.Context, word string) (*words.Details, bool, error)
	LookupBatch(ctx context.Context, list []string, delay time.Duration) map[string]*words.Details
}

// Enricher coordinates fetch-then-update for stored words.
type Enricher struct {
	Store       words.Store
	Dict        Fetcher
	MaxAgeHours int
	Log         *zap.SugaredLogger
}

// NewEnricher creates an Enricher with the default staleness window.
func NewEnricher(store words.Store, dict Fetcher, log *zap.SugaredLogger) *Enricher {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Enricher{
		Store:       store,
		Dict:        dict,
		MaxAgeHours: dictapi.DefaultMaxAgeHours,
		Log:         log,
	}
}

// Enrich refreshes one record's details when they are stale, or always when
// force is set (the user's explicit refresh action). Transport failures are
// returned to the caller, who may retry by invoking Enrich again; nothing
// retries automatically.
func (e *Enricher) Enrich(ctx context.Context, rec *words.Record, force bool) (*words.Record, Outcome, error) {
	if !force && !dictapi.NeedsRefresh(rec.DetailsFetchedAt, e.MaxAgeHours) {
		return rec, OutcomeFresh, nil
	}

	details, found, err := e.Dict.Lookup(ctx, rec.Word)
	if err != nil {
		return nil, 0, err
	}
	if !found {
		e.Log.Infow("no dictionary entry", "word", rec.Word)
		return rec, OutcomeNoEntry, nil
	}

	updated, err := e.Store.UpdateDetails(ctx, rec.ID, *details)
	if err != nil {
		return nil, 0, err
	}
	e.Log.Infow("word enriched", "word", rec.Word, "definitions", len(updated.Definitions))
	return updated, OutcomeUpdated, nil
}

// EnrichByID loads the record, then enriches it.
func (e *Enricher) EnrichByID(ctx context.Context, id string, force bool) (*words.Record, Outcome, error) {
	rec, err := e.Store.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return e.Enrich(ctx, rec, force)
}

// RefreshAll re-fetches details for every stored word whose details are
// stale, pacing the lookups with delay to stay under the service's rate
// limits. Per-word failures are logged and skipped.
func (e *Enricher) RefreshAll(ctx context.Context, delay time.Duration) (int, error) {
	recs, err := e.Store.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	byWord := make(map[string]string, len(recs))
	var stale []string
	for _, rec := range recs {
		if !dictapi.NeedsRefresh(rec.DetailsFetchedAt, e.MaxAgeHours) {
			continue
		}
		byWord[rec.Word] = rec.ID
		stale = append(stale, rec.Word)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	updated := 0
	for word, details := range e.Dict.LookupBatch(ctx, stale, delay) {
		if _, err := e.Store.UpdateDetails(ctx, byWord[word], *details); err != nil {
			e.Log.Warnw("writing details failed, skipping word", "word", word, "error", err)
			continue
		}
		updated++
	}
	e.Log.Infow("bulk refresh finished", "stale", len(stale), "updated", updated)
	return updated, nil
}
