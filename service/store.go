package service

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/Endawoke47/Neo-sub000/config"
	"github.com/Endawoke47/Neo-sub000/model"
)

// AnalysisStore is an in-memory store for completed analysis results
// In production, this should be replaced with a database
type AnalysisStore struct {
	analyses    map[string]*model.AnalysisResult
	mu          sync.RWMutex
	maxAnalyses int // Maximum results to keep, 0 = unlimited
}

var (
	globalStore *AnalysisStore
	storeOnce   sync.Once
)

// InitAnalysisStore initializes the global analysis store with configuration
func InitAnalysisStore(cfg *config.StoreConfig) {
	storeOnce.Do(func() {
		maxAnalyses := cfg.MaxAnalyses
		if maxAnalyses < 0 {
			maxAnalyses = 0
		}
		globalStore = &AnalysisStore{
			analyses:    make(map[string]*model.AnalysisResult),
			maxAnalyses: maxAnalyses,
		}
		slog.Info("analysis store initialized", "max_analyses", maxAnalyses)
	})
}

// GetAnalysisStore returns the global analysis store
func GetAnalysisStore() *AnalysisStore {
	if globalStore == nil {
		// Fallback initialization with default settings
		globalStore = &AnalysisStore{
			analyses:    make(map[string]*model.AnalysisResult),
			maxAnalyses: 200,
		}
	}
	return globalStore
}

func (s *AnalysisStore) Save(result *model.AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.analyses[result.ID] = result

	// Cleanup if exceeds max
	s.cleanupIfNeeded()
}

func (s *AnalysisStore) Get(id string) *model.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analyses[id]
}

// GetByTenant returns the tenant's results ordered newest first
func (s *AnalysisStore) GetByTenant(tenant string) []*model.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*model.AnalysisResult
	for _, a := range s.analyses {
		if a.Tenant == tenant {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (s *AnalysisStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.analyses, id)
}

// cleanupIfNeeded removes oldest results if store exceeds maxAnalyses
// Must be called with lock held
func (s *AnalysisStore) cleanupIfNeeded() {
	if s.maxAnalyses <= 0 {
		return // Unlimited
	}

	if len(s.analyses) <= s.maxAnalyses {
		return
	}

	// Sort results by creation time
	analyses := make([]*model.AnalysisResult, 0, len(s.analyses))
	for _, a := range s.analyses {
		analyses = append(analyses, a)
	}
	sort.Slice(analyses, func(i, j int) bool {
		return analyses[i].CreatedAt.Before(analyses[j].CreatedAt)
	})

	// Remove oldest results
	removeCount := len(analyses) - s.maxAnalyses
	for i := 0; i < removeCount; i++ {
		slog.Info("auto-cleaning old analysis",
			"analysis_id", analyses[i].ID,
			"created_at", analyses[i].CreatedAt,
		)
		delete(s.analyses, analyses[i].ID)
	}
}

// Count returns the number of results in the store
func (s *AnalysisStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.analyses)
}
