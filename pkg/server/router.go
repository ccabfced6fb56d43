// Package server exposes the word-tally operations to the single-page app
// over JSON HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wordsift/wordsift/pkg/enrich"
	"github.com/wordsift/wordsift/pkg/ingest"
	"github.com/wordsift/wordsift/pkg/words"
)

// RouterConfig wires the orchestrators into the router.
type RouterConfig struct {
	Store    words.Store
	Ingester *ingest.Ingester
	Enricher *enrich.Enricher
	// BatchDelay paces the bulk-refresh dictionary lookups.
	BatchDelay time.Duration
	Log        *zap.SugaredLogger
}

// NewRouter builds the gin engine. The dataset is a single shared anonymous
// one, so CORS is wide open for the SPA.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Content-Type"}
	router.Use(cors.New(corsCfg))

	h := &handler{store: cfg.Store, ingester: cfg.Ingester, enricher: cfg.Enricher, batchDelay: cfg.BatchDelay, log: cfg.Log}

	router.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/ingest", h.Ingest)
		api.GET("/words", h.ListWords)
		api.GET("/words/:id", h.GetWord)
		api.POST("/words/:id/enrich", h.EnrichWord)
		api.POST("/refresh", h.RefreshAll)
	}

	return router
}
