// Package ingest turns raw text into word sightings: tokenize, deduplicate,
// then fan out one store upsert per distinct word.
package ingest

import (
	"context"

	"go.uber.org/zap"

	"github.com/wordsift/wordsift/pkg/tokenizer"
	"github.com/wordsift/wordsift/pkg/words"
)

// Result partitions one ingestion call. A failed word never aborts or rolls
// back the others.
type Result struct {
	Succeeded []words.Record `json:"succeeded"`
	Failed    []string       `json:"failed"`
}

// Ingester orchestrates text ingestion against a word store.
type Ingester struct {
	Store   words.Store
	Workers int
	Log     *zap.SugaredLogger
}

// NewIngester creates an Ingester with the default worker count.
func NewIngester(store words.Store, log *zap.SugaredLogger) *Ingester {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Ingester{
		Store:   store,
		Workers: 4,
		Log:     log,
	}
}

// IngestText tokenizes text, collapses repeated occurrences to one distinct
// word each, and upserts every distinct word concurrently. Each succeeding
// word's frequency grows by exactly 1 per call, regardless of how many times
// it appeared in the text.
func (ig *Ingester) IngestText(ctx context.Context, text string) (*Result, error) {
	distinct := tokenizer.Distinct(tokenizer.Tokenize(text))
	if len(distinct) == 0 {
		return &Result{}, nil
	}

	type outcome struct {
		word string
		rec  *words.Record
		err  error
	}
	results := make(chan outcome, len(distinct))

	pool := NewWorkerPool(ig.Workers, len(distinct))
	pool.Start(ctx)

	submitted := 0
	for _, w := range distinct {
		word := w
		err := pool.SubmitCtx(ctx, func(ctx context.Context) error {
			rec, err := ig.Store.UpsertBySighting(ctx, word)
			results <- outcome{word: word, rec: rec, err: err}
			return err
		})
		if err != nil {
			pool.Close()
			return nil, err
		}
		submitted++
	}

	// Close waits for all queued upserts to run, so every submitted word has
	// a result after it returns.
	pool.Close()

	res := &Result{}
	for i := 0; i < submitted; i++ {
		var o outcome
		select {
		case o = <-results:
		case <-ctx.Done():
			// Canceled workers exit without running queued jobs, so their
			// results will never arrive.
			return nil, ctx.Err()
		}
		if o.err != nil {
			ig.Log.Warnw("word ingestion failed", "word", o.word, "error", o.err)
			res.Failed = append(res.Failed, o.word)
			continue
		}
		res.Succeeded = append(res.Succeeded, *o.rec)
	}
	return res, nil
}
