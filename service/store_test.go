package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/Endawoke47/Neo-sub000/config"
	"github.com/Endawoke47/Neo-sub000/model"
)

func newTestStore(maxAnalyses int) *AnalysisStore {
	return &AnalysisStore{
		analyses:    make(map[string]*model.AnalysisResult),
		maxAnalyses: maxAnalyses,
	}
}

func TestAnalysisStoreSaveAndGet(t *testing.T) {
	store := newTestStore(100)

	result := &model.AnalysisResult{
		ID:           "contract_1_abc",
		Tenant:       "tenant1",
		ContractType: model.ContractEmployment,
		CreatedAt:    time.Now(),
	}

	store.Save(result)

	// Test Get
	retrieved := store.Get("contract_1_abc")
	if retrieved == nil {
		t.Fatal("Expected to retrieve analysis result")
	}
	if retrieved.ContractType != model.ContractEmployment {
		t.Errorf("Expected contract type EMPLOYMENT, got %s", retrieved.ContractType)
	}

	// Test Get non-existent
	notFound := store.Get("non-existent")
	if notFound != nil {
		t.Error("Expected nil for non-existent analysis")
	}
}

func TestAnalysisStoreGetByTenant(t *testing.T) {
	store := newTestStore(100)

	// Add results for different tenants
	store.Save(&model.AnalysisResult{ID: "1", Tenant: "tenant1", CreatedAt: time.Now()})
	store.Save(&model.AnalysisResult{ID: "2", Tenant: "tenant1", CreatedAt: time.Now().Add(time.Second)})
	store.Save(&model.AnalysisResult{ID: "3", Tenant: "tenant2", CreatedAt: time.Now()})

	// Test GetByTenant
	tenant1Results := store.GetByTenant("tenant1")
	if len(tenant1Results) != 2 {
		t.Errorf("Expected 2 results for tenant1, got %d", len(tenant1Results))
	}

	// Newest first
	if tenant1Results[0].ID != "2" {
		t.Errorf("Expected newest result first, got %s", tenant1Results[0].ID)
	}

	tenant2Results := store.GetByTenant("tenant2")
	if len(tenant2Results) != 1 {
		t.Errorf("Expected 1 result for tenant2, got %d", len(tenant2Results))
	}

	tenant3Results := store.GetByTenant("tenant3")
	if len(tenant3Results) != 0 {
		t.Errorf("Expected 0 results for tenant3, got %d", len(tenant3Results))
	}
}

func TestAnalysisStoreDelete(t *testing.T) {
	store := newTestStore(100)

	store.Save(&model.AnalysisResult{ID: "delete-me", CreatedAt: time.Now()})

	if store.Get("delete-me") == nil {
		t.Fatal("Expected result to exist before delete")
	}

	store.Delete("delete-me")

	if store.Get("delete-me") != nil {
		t.Error("Expected result to be deleted")
	}
}

func TestAnalysisStoreAutoCleanup(t *testing.T) {
	store := newTestStore(3) // Max 3 results

	// Add 5 results
	for i := 0; i < 5; i++ {
		store.Save(&model.AnalysisResult{
			ID:        fmt.Sprintf("contract_%d_x", i),
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		})
	}

	// Should only have 3 results (newest)
	if store.Count() != 3 {
		t.Errorf("Expected 3 results after cleanup, got %d", store.Count())
	}

	// Oldest results should be removed
	if store.Get("contract_0_x") != nil {
		t.Error("Expected oldest result to be removed")
	}
	if store.Get("contract_1_x") != nil {
		t.Error("Expected second oldest result to be removed")
	}
}

func TestAnalysisStoreUnlimited(t *testing.T) {
	store := newTestStore(0) // Unlimited

	// Add 10 results
	for i := 0; i < 10; i++ {
		store.Save(&model.AnalysisResult{
			ID:        fmt.Sprintf("contract_%d_y", i),
			CreatedAt: time.Now(),
		})
	}

	// All should be present
	if store.Count() != 10 {
		t.Errorf("Expected 10 results, got %d", store.Count())
	}
}

func TestAnalysisStoreCount(t *testing.T) {
	store := newTestStore(100)

	if store.Count() != 0 {
		t.Error("Expected 0 results initially")
	}

	store.Save(&model.AnalysisResult{ID: "1", CreatedAt: time.Now()})
	store.Save(&model.AnalysisResult{ID: "2", CreatedAt: time.Now()})

	if store.Count() != 2 {
		t.Errorf("Expected 2 results, got %d", store.Count())
	}
}

func TestGetAnalysisStore(t *testing.T) {
	// Just test that GetAnalysisStore returns a non-nil store
	store := GetAnalysisStore()
	if store == nil {
		t.Fatal("Expected non-nil store")
	}
}

func TestInitAnalysisStoreConfig(t *testing.T) {
	// Test InitAnalysisStore with config
	cfg := &config.StoreConfig{MaxAnalyses: 50}
	InitAnalysisStore(cfg)
	// Should not panic
}
