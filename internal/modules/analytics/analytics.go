package analytics

import (
	"time"

	"github.com/asl-dict/core/internal/models"
	"github.com/asl-dict/core/internal/pkg/iphash"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service is the usage recorder: an append-only event log plus on-demand
// aggregation queries. No aggregate is ever materialized.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Event is the input for one recorded usage event. IP is the raw client
// address; only its hash is persisted.
type Event struct {
	EventType      string
	IP             string
	Query          string
	CacheHit       *bool
	UserAgent      string
	Endpoint       string
	ResponseTimeMS *int64
}

// Record appends one event. Duplicates are allowed; there is no dedup key.
func (s *Service) Record(evt Event) error {
	row := models.AnalyticsEventModel{
		EventType:      evt.EventType,
		IPHash:         iphash.Hash(evt.IP),
		CacheHit:       evt.CacheHit,
		ResponseTimeMS: evt.ResponseTimeMS,
		Timestamp:      time.Now().UTC(),
	}
	if evt.Query != "" {
		row.Query = &evt.Query
	}
	if evt.UserAgent != "" {
		row.UserAgent = &evt.UserAgent
	}
	if evt.Endpoint != "" {
		row.Endpoint = &evt.Endpoint
	}
	return s.db.Create(&row).Error
}

// RecordAsync appends one event on a detached goroutine so recording can
// never delay or fail the response path.
func (s *Service) RecordAsync(evt Event) {
	go func() {
		if err := s.Record(evt); err != nil {
			s.logger.Warn("analytics event recording failed",
				zap.String("event_type", evt.EventType),
				zap.Error(err))
		}
	}()
}

// UniqueUsers counts distinct identity hashes, optionally bounded by a
// date range.
func (s *Service) UniqueUsers(start, end *time.Time) (int64, error) {
	tx := s.db.Model(&models.AnalyticsEventModel{}).Where("ip_hash <> ''")
	if start != nil {
		tx = tx.Where("timestamp >= ?", *start)
	}
	if end != nil {
		tx = tx.Where("timestamp <= ?", *end)
	}

	var count int64
	err := tx.Distinct("ip_hash").Count(&count).Error
	return count, err
}

// TranslationStats summarizes translation volume and cache effectiveness.
type TranslationStats struct {
	Total        int64   `json:"total"`
	CacheHits    int64   `json:"cache_hits"`
	CacheMisses  int64   `json:"cache_misses"`
	CacheHitRate float64 `json:"cache_hit_rate"`
}

// TranslationsCount computes translation totals and the cache hit rate.
func (s *Service) TranslationsCount() (TranslationStats, error) {
	var stats TranslationStats
	base := s.db.Model(&models.AnalyticsEventModel{}).
		Where("event_type = ?", models.EventTypeTranslation)

	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := base.Session(&gorm.Session{}).Where("cache_hit = ?", true).Count(&stats.CacheHits).Error; err != nil {
		return stats, err
	}
	if err := base.Session(&gorm.Session{}).Where("cache_hit = ?", false).Count(&stats.CacheMisses).Error; err != nil {
		return stats, err
	}

	if counted := stats.CacheHits + stats.CacheMisses; counted > 0 {
		stats.CacheHitRate = float64(stats.CacheHits) / float64(counted) * 100
	}
	return stats, nil
}

// SearchCount is one ranked entry in the popular-searches report.
type SearchCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// PopularSearches ranks translation queries by frequency, descending.
func (s *Service) PopularSearches(limit int) ([]SearchCount, error) {
	if limit <= 0 {
		limit = 10
	}
	results := make([]SearchCount, 0, limit)
	err := s.db.Model(&models.AnalyticsEventModel{}).
		Select("query, COUNT(*) as count").
		Where("event_type = ?", models.EventTypeTranslation).
		Where("query IS NOT NULL AND query <> ''").
		Group("query").
		Order("count DESC").
		Limit(limit).
		Scan(&results).Error
	return results, err
}

// DailyUsers is the unique-identity count for one calendar day (UTC).
type DailyUsers struct {
	Date        string `json:"date"`
	UniqueUsers int64  `json:"unique_users"`
}

type eventLite struct {
	IPHash    string    `gorm:"column:ip_hash"`
	Timestamp time.Time `gorm:"column:timestamp"`
}

// DailyActiveUsers buckets unique identities per UTC day over the last N
// days. Bucketing happens in Go to stay portable across SQL dialects.
func (s *Service) DailyActiveUsers(days int) ([]DailyUsers, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	var rows []eventLite
	if err := s.db.Model(&models.AnalyticsEventModel{}).
		Select("ip_hash, timestamp").
		Where("timestamp >= ?", since).
		Where("ip_hash <> ''").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	byDay := map[string]map[string]struct{}{}
	for _, row := range rows {
		day := row.Timestamp.UTC().Format("2006-01-02")
		set, ok := byDay[day]
		if !ok {
			set = map[string]struct{}{}
			byDay[day] = set
		}
		set[row.IPHash] = struct{}{}
	}

	out := make([]DailyUsers, 0, len(byDay))
	for day, set := range byDay {
		out = append(out, DailyUsers{Date: day, UniqueUsers: int64(len(set))})
	}
	sortDailyUsers(out)
	return out, nil
}

func sortDailyUsers(items []DailyUsers) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j].Date < items[j-1].Date; j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}

// HourlyUsage counts events per hour of day (0-23, UTC) over the last N
// days. All 24 buckets are always present.
func (s *Service) HourlyUsage(days int) (map[int]int64, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	var rows []eventLite
	if err := s.db.Model(&models.AnalyticsEventModel{}).
		Select("ip_hash, timestamp").
		Where("timestamp >= ?", since).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	pattern := make(map[int]int64, 24)
	for hour := 0; hour < 24; hour++ {
		pattern[hour] = 0
	}
	for _, row := range rows {
		pattern[row.Timestamp.UTC().Hour()]++
	}
	return pattern, nil
}

// CountTranslationsSince counts translation events for one identity hash
// at or after the given instant.
func (s *Service) CountTranslationsSince(identityHash string, since time.Time) (int64, error) {
	var count int64
	err := s.db.Model(&models.AnalyticsEventModel{}).
		Where("event_type = ?", models.EventTypeTranslation).
		Where("ip_hash = ?", identityHash).
		Where("timestamp >= ?", since).
		Count(&count).Error
	return count, err
}

// PurgeOlderThan deletes events recorded before the cutoff. Used by the
// retention job.
func (s *Service) PurgeOlderThan(cutoff time.Time) (int64, error) {
	result := s.db.Where("timestamp < ?", cutoff).Delete(&models.AnalyticsEventModel{})
	return result.RowsAffected, result.Error
}
