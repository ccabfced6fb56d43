package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wordsift/wordsift/pkg/enrich"
	"github.com/wordsift/wordsift/pkg/ingest"
	"github.com/wordsift/wordsift/pkg/words"
)

type handler struct {
	store      words.Store
	ingester   *ingest.Ingester
	enricher   *enrich.Enricher
	batchDelay time.Duration
	log        *zap.SugaredLogger
}

type ingestRequest struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Ingest accepts pasted text or a page URL and returns the per-word
// success/failure partition. Failed words come back so the client can offer
// a manual retry; nothing is retried server-side.
func (h *handler) Ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Text == "" && req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide text or url"})
		return
	}

	var (
		res *ingest.Result
		err error
	)
	if req.URL != "" {
		res, err = h.ingester.IngestURL(c.Request.Context(), req.URL)
	} else {
		res, err = h.ingester.IngestText(c.Request.Context(), req.Text)
	}
	if err != nil {
		h.fail(c, "ingest", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListWords returns every record, frequency descending.
func (h *handler) ListWords(c *gin.Context) {
	recs, err := h.store.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, "list words", err)
		return
	}
	if recs == nil {
		recs = []words.Record{}
	}
	c.JSON(http.StatusOK, recs)
}

// GetWord returns one record or 404.
func (h *handler) GetWord(c *gin.Context) {
	rec, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "get word", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// EnrichWord fetches details for a stored word. ?force=true is the user's
// explicit refresh and bypasses the staleness gate.
func (h *handler) EnrichWord(c *gin.Context) {
	force := c.Query("force") == "true"
	rec, outcome, err := h.enricher.EnrichByID(c.Request.Context(), c.Param("id"), force)
	if err != nil {
		h.fail(c, "enrich word", err)
		return
	}
	switch outcome {
	case enrich.OutcomeNoEntry:
		c.JSON(http.StatusOK, gin.H{"status": "no_entry", "record": rec})
	case enrich.OutcomeFresh:
		c.JSON(http.StatusOK, gin.H{"status": "fresh", "record": rec})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "updated", "record": rec})
	}
}

// RefreshAll re-fetches details for every stale word, paced to respect the
// lookup service's rate limits.
func (h *handler) RefreshAll(c *gin.Context) {
	updated, err := h.enricher.RefreshAll(c.Request.Context(), h.batchDelay)
	if err != nil {
		h.fail(c, "refresh all", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// fail maps domain errors onto status codes: absent records are 404, upstream
// transport trouble is 502 (the client may retry), everything else is 500.
func (h *handler) fail(c *gin.Context, op string, err error) {
	var te *words.TransportError
	switch {
	case errors.Is(err, words.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &te):
		h.log.Warnw(op+" failed upstream", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "retryable": true})
	default:
		h.log.Errorw(op+" failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
