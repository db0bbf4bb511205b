package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Endawoke47/Neo-sub000/engine"
	"github.com/Endawoke47/Neo-sub000/middleware"
	"github.com/Endawoke47/Neo-sub000/model"
	"github.com/Endawoke47/Neo-sub000/pkg/logger"
	"github.com/Endawoke47/Neo-sub000/service"
)

type AnalysisHandler struct {
	pipeline *engine.Pipeline
	store    *service.AnalysisStore
	cache    *service.ResultCache
	archive  *service.ArchiveService // nil when archival is disabled
}

func NewAnalysisHandler(pipeline *engine.Pipeline, cache *service.ResultCache, archive *service.ArchiveService) *AnalysisHandler {
	return &AnalysisHandler{
		pipeline: pipeline,
		store:    service.GetAnalysisStore(),
		cache:    cache,
		archive:  archive,
	}
}

// Analyze runs the contract analysis pipeline for the posted request
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	tenant := middleware.GetTenant(c)

	var req model.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.analyzeWithCache(c.Request.Context(), &req)
	if err != nil {
		switch {
		case engine.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, engine.ErrCancelled):
			c.JSON(http.StatusRequestTimeout, gin.H{"error": "Analysis cancelled"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed: " + err.Error()})
		}
		return
	}

	result.Tenant = tenant
	h.store.Save(result)

	if h.archive != nil {
		go h.archiveResult(tenant, req.Document, result)
	}

	c.JSON(http.StatusOK, result)
}

// analyzeWithCache short-circuits identical requests. Findings are
// deterministic per rule-set version, so a hit replays them with a fresh
// run identifier.
func (h *AnalysisHandler) analyzeWithCache(ctx context.Context, req *model.AnalysisRequest) (*model.AnalysisResult, error) {
	key := h.cache.Key(req)
	if cached, ok := h.cache.Get(key); ok {
		replay := *cached
		replay.ID = engine.NewAnalysisID()
		replay.CreatedAt = time.Now()
		replay.Summary.ExecutionTimeMS = 0
		logger.Debug(ctx, "analysis served from cache", "analysis_id", replay.ID)
		return &replay, nil
	}

	result, err := h.pipeline.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}
	h.cache.Set(key, result)
	return result, nil
}

// archiveResult ships the document and result to object storage. Best
// effort: archival failures never affect the response.
func (h *AnalysisHandler) archiveResult(tenant string, doc model.Document, result *model.AnalysisResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := h.archive.StoreAnalysis(ctx, tenant, doc, result); err != nil {
		logger.Error(ctx, "failed to archive analysis", "analysis_id", result.ID, "error", err)
	}
}

// List returns all analyses for the current tenant
func (h *AnalysisHandler) List(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	analyses := h.store.GetByTenant(tenant)

	// Return a light listing without full collections
	result := make([]gin.H, len(analyses))
	for i, a := range analyses {
		result[i] = gin.H{
			"id":            a.ID,
			"filename":      a.Document.FileName,
			"contract_type": a.ContractType,
			"score":         a.Score.Overall,
			"risk_count":    len(a.Risks),
			"red_flags":     len(a.RedFlags),
			"created_at":    a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	c.JSON(http.StatusOK, gin.H{"analyses": result})
}

// Get returns a single stored analysis result
func (h *AnalysisHandler) Get(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	id := c.Param("id")

	result := h.store.Get(id)
	if result == nil || result.Tenant != tenant {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSummary returns just the summary block of a stored analysis
func (h *AnalysisHandler) GetSummary(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	id := c.Param("id")

	result := h.store.Get(id)
	if result == nil || result.Tenant != tenant {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      result.ID,
		"score":   result.Score.Overall,
		"summary": result.Summary,
	})
}

// Delete deletes a stored analysis
func (h *AnalysisHandler) Delete(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	id := c.Param("id")

	result := h.store.Get(id)
	if result == nil || result.Tenant != tenant {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}

	h.store.Delete(id)

	if h.archive != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := h.archive.DeleteAnalysis(ctx, tenant, id); err != nil {
				logger.Error(ctx, "failed to delete archived analysis", "analysis_id", id, "error", err)
			}
		}()
	}

	c.JSON(http.StatusOK, gin.H{"message": "Analysis deleted"})
}
