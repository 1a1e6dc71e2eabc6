package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/models"
	"github.com/roronoazoero/ML-Project-F1-prediction-2025/services"
)

// RunStore is the part of services.FeatureSink the handlers read.
type RunStore interface {
	LatestRun(ctx context.Context) (models.FeatureRun, error)
}

type FeaturesHandler struct {
	db    *gorm.DB
	cache *services.CacheService
	runs  RunStore
}

func NewFeaturesHandler(db *gorm.DB, cache *services.CacheService, runs RunStore) *FeaturesHandler {
	return &FeaturesHandler{db: db, cache: cache, runs: runs}
}

// GetFeatures pages through the stored feature table in (season, round,
// driver) order.
func (h *FeaturesHandler) GetFeatures(c *gin.Context) {
	p, err := ParsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	split := c.Query("split")
	if split != "" && split != "train" && split != "validation" && split != "test" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "split must be train, validation or test"})
		return
	}
	season := 0
	if s := c.Query("season"); s != "" {
		if season, err = strconv.Atoi(s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "season must be a number"})
			return
		}
	}
	driver := c.Query("driver")

	after := ""
	if p.After != nil {
		after = p.After.String()
	}
	cacheKey := fmt.Sprintf("%s%d:%s:%s:%d:%s", services.FeaturesCachePrefix, season, split, driver, p.Limit, after)

	var cached CursorResponse
	switch err := h.cache.Get(c.Request.Context(), cacheKey, &cached); {
	case err == nil && cached.Data != nil:
		c.JSON(http.StatusOK, cached)
		return
	case err != nil && !services.IsMiss(err):
		log.Printf("features cache read failed: %v", err)
	}

	query := h.db.Model(&models.FeatureRow{}).
		Order("season, round, driver_code").
		Limit(p.Limit + 1)
	if season != 0 {
		query = query.Where("season = ?", season)
	}
	if split != "" {
		query = query.Where("split = ?", split)
	}
	if driver != "" {
		query = query.Where("driver_code = ?", driver)
	}
	if p.After != nil {
		query = query.Where("(season, round, driver_code) > (?, ?, ?)", p.After.Season, p.After.Round, p.After.Driver)
	}

	var rows []models.FeatureRow
	if err := query.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	hasMore := len(rows) > p.Limit
	if hasMore {
		rows = rows[:p.Limit]
	}

	var nextCursor string
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		nextCursor = Cursor{Season: last.Season, Round: last.Round, Driver: last.DriverCode}.String()
	}

	resp := CursorResponse{Data: rows, NextCursor: nextCursor, HasMore: hasMore}
	go h.cache.Set(context.Background(), cacheKey, resp, 30*time.Second)

	c.JSON(http.StatusOK, resp)
}

// GetManifest returns the manifest of the latest run, from Redis when the
// pipeline published one and from feature_runs otherwise.
func (h *FeaturesHandler) GetManifest(c *gin.Context) {
	var cached json.RawMessage
	switch err := h.cache.Get(c.Request.Context(), services.ManifestKey, &cached); {
	case err == nil && len(cached) > 0:
		c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
		return
	case err != nil && !services.IsMiss(err):
		log.Printf("manifest cache read failed: %v", err)
	}

	run, err := h.runs.LatestRun(c.Request.Context())
	if errors.Is(err, services.ErrNoRuns) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no feature table has been built yet"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(run.Manifest))
}
