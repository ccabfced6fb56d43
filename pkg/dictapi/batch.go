package dictapi

import (
	"context"
	"time"

	"github.com/wordsift/wordsift/pkg/words"
)

// LookupBatch fetches details for each word strictly sequentially, sleeping
// delay between requests so the external service's rate limits are
// respected. Words that fail or have no entry are logged and skipped; the
// returned map contains only successful lookups.
func (c *Client) LookupBatch(ctx context.Context, list []string, delay time.Duration) map[string]*words.Details {
	out := make(map[string]*words.Details, len(list))
	for i, word := range list {
		if i > 0 && delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				c.log.Warnw("batch lookup canceled", "remaining", len(list)-i)
				return out
			}
		}
		details, found, err := c.Lookup(ctx, word)
		if err != nil {
			c.log.Warnw("batch lookup failed, skipping word", "word", word, "error", err)
			continue
		}
		if !found {
			c.log.Infow("no dictionary entry, skipping word", "word", word)
			continue
		}
		out[word] = details
	}
	return out
}
