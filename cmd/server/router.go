package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-lancers-notifier/internal/models"
	"go-lancers-notifier/internal/pipeline"
	"go-lancers-notifier/internal/record"
)

type previewer interface {
	Preview(ctx context.Context, candidates []models.Candidate) (pipeline.Result, error)
}

type recordStore interface {
	Latest() (record.Record, error)
}

type runLister interface {
	RecentRuns(ctx context.Context, limit int) ([]models.RunRow, error)
}

type handlers struct {
	previewer previewer
	records   recordStore
	// nil without a database
	runs runLister
}

type previewRequest struct {
	Candidates []models.StaticCandidate `json:"candidates" binding:"required,min=1,max=500"`
}

func newRouter(h *handlers, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.POST("/preview", h.preview)
	r.GET("/records/latest", h.latestRecord)
	r.GET("/runs", h.recentRuns)
	return r
}

func (h *handlers) preview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	candidates := make([]models.Candidate, len(req.Candidates))
	for i, sc := range req.Candidates {
		candidates[i] = sc
	}

	res, err := h.previewer.Preview(c.Request.Context(), candidates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"listings":     res.Listings,
		"card":         res.Payload,
		"displayed":    res.Payload.Displayed,
		"skipped":      res.Payload.Skipped,
		"stats":        res.Stats,
		"distribution": res.Record.Distribution,
	})
}

func (h *handlers) latestRecord(c *gin.Context) {
	rec, err := h.records.Latest()
	if errors.Is(err, record.ErrNoRecords) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *handlers) recentRuns(c *gin.Context) {
	if h.runs == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "database is not configured"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
		return
	}
	runs, err := h.runs.RecentRuns(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}
