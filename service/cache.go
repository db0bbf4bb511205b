package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Endawoke47/Neo-sub000/model"
)

// ResultCache memoizes analysis results for identical requests. Analysis is
// deterministic for a given rule-set version, so a cache hit returns the
// same findings the pipeline would recompute; callers re-stamp the analysis
// ID and timing per run.
type ResultCache struct {
	cache          *gocache.Cache
	rulesetVersion string
}

func NewResultCache(ttl time.Duration, rulesetVersion string) *ResultCache {
	return &ResultCache{
		cache:          gocache.New(ttl, 2*ttl),
		rulesetVersion: rulesetVersion,
	}
}

// Key derives a stable digest of the request and the rule-set version.
func (c *ResultCache) Key(req *model.AnalysisRequest) string {
	data, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(append(data, []byte(c.rulesetVersion)...))
	return hex.EncodeToString(sum[:])
}

func (c *ResultCache) Get(key string) (*model.AnalysisResult, bool) {
	if key == "" {
		return nil, false
	}
	if v, ok := c.cache.Get(key); ok {
		if result, ok := v.(*model.AnalysisResult); ok {
			return result, true
		}
	}
	return nil, false
}

func (c *ResultCache) Set(key string, result *model.AnalysisResult) {
	if key == "" {
		return
	}
	c.cache.SetDefault(key, result)
}
