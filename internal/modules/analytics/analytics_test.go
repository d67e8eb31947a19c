package analytics

import (
	"testing"
	"time"

	"github.com/asl-dict/core/internal/database"
	"github.com/asl-dict/core/internal/models"
	"github.com/asl-dict/core/internal/pkg/iphash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return NewService(db, zap.NewNop()), db
}

func boolPtr(v bool) *bool { return &v }

func seedTranslation(t *testing.T, svc *Service, ip, query string, cacheHit bool) {
	t.Helper()
	require.NoError(t, svc.Record(Event{
		EventType: models.EventTypeTranslation,
		IP:        ip,
		Query:     query,
		CacheHit:  boolPtr(cacheHit),
	}))
}

func TestRecordHashesIP(t *testing.T) {
	svc, db := newTestService(t)
	seedTranslation(t, svc, "203.0.113.7", "hello", false)

	var row models.AnalyticsEventModel
	require.NoError(t, db.First(&row).Error)
	assert.Len(t, row.IPHash, 64)
	assert.NotContains(t, row.IPHash, "203.0.113.7")
	assert.Equal(t, iphash.Hash("203.0.113.7"), row.IPHash)
}

func TestUniqueUsers(t *testing.T) {
	svc, _ := newTestService(t)
	seedTranslation(t, svc, "1.1.1.1", "hello", false)
	seedTranslation(t, svc, "1.1.1.1", "world", false)
	seedTranslation(t, svc, "2.2.2.2", "hello", true)

	count, err := svc.UniqueUsers(nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	// A range in the future excludes everything.
	future := time.Now().UTC().Add(time.Hour)
	count, err = svc.UniqueUsers(&future, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestTranslationsCountAndHitRate(t *testing.T) {
	svc, _ := newTestService(t)
	seedTranslation(t, svc, "1.1.1.1", "hello", true)
	seedTranslation(t, svc, "1.1.1.1", "hello", true)
	seedTranslation(t, svc, "1.1.1.1", "hello", true)
	seedTranslation(t, svc, "2.2.2.2", "world", false)

	// Page views never count as translations.
	require.NoError(t, svc.Record(Event{EventType: models.EventTypePageView, IP: "1.1.1.1"}))

	stats, err := svc.TranslationsCount()
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.Total)
	assert.EqualValues(t, 3, stats.CacheHits)
	assert.EqualValues(t, 1, stats.CacheMisses)
	assert.InDelta(t, 75.0, stats.CacheHitRate, 0.001)
}

func TestPopularSearchesOrdering(t *testing.T) {
	svc, _ := newTestService(t)
	for i := 0; i < 3; i++ {
		seedTranslation(t, svc, "1.1.1.1", "hello", false)
	}
	for i := 0; i < 2; i++ {
		seedTranslation(t, svc, "1.1.1.1", "world", false)
	}
	seedTranslation(t, svc, "1.1.1.1", "test", false)

	popular, err := svc.PopularSearches(10)
	require.NoError(t, err)
	require.Len(t, popular, 3)
	assert.Equal(t, SearchCount{Query: "hello", Count: 3}, popular[0])
	assert.Equal(t, SearchCount{Query: "world", Count: 2}, popular[1])
	assert.Equal(t, SearchCount{Query: "test", Count: 1}, popular[2])

	popular, err = svc.PopularSearches(2)
	require.NoError(t, err)
	assert.Len(t, popular, 2)
}

func TestHourlyUsageAlwaysHas24Buckets(t *testing.T) {
	svc, _ := newTestService(t)
	seedTranslation(t, svc, "1.1.1.1", "hello", false)

	pattern, err := svc.HourlyUsage(7)
	require.NoError(t, err)
	require.Len(t, pattern, 24)

	var total int64
	for hour := 0; hour < 24; hour++ {
		count, ok := pattern[hour]
		require.True(t, ok, "missing hour bucket %d", hour)
		total += count
	}
	assert.EqualValues(t, 1, total)
}

func TestDailyActiveUsers(t *testing.T) {
	svc, _ := newTestService(t)
	seedTranslation(t, svc, "1.1.1.1", "hello", false)
	seedTranslation(t, svc, "1.1.1.1", "world", false)
	seedTranslation(t, svc, "2.2.2.2", "hello", false)

	daily, err := svc.DailyActiveUsers(7)
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), daily[0].Date)
	assert.EqualValues(t, 2, daily[0].UniqueUsers)
}

func TestCheckQuota(t *testing.T) {
	svc, _ := newTestService(t)
	hashed := iphash.Hash("1.2.3.4")

	status, err := svc.CheckQuota(hashed, 3)
	require.NoError(t, err)
	assert.True(t, status.Allowed)
	assert.EqualValues(t, 0, status.Used)
	assert.EqualValues(t, 3, status.Remaining)

	for i := 0; i < 3; i++ {
		seedTranslation(t, svc, "1.2.3.4", "hello", false)
	}

	status, err = svc.CheckQuota(hashed, 3)
	require.NoError(t, err)
	assert.False(t, status.Allowed)
	assert.EqualValues(t, 3, status.Used)
	assert.EqualValues(t, 0, status.Remaining)
	assert.True(t, status.ResetsAt.After(time.Now().UTC()))

	// Other identities keep their own window.
	status, err = svc.CheckQuota(iphash.Hash("5.6.7.8"), 3)
	require.NoError(t, err)
	assert.True(t, status.Allowed)
}

func TestQuotaIgnoresYesterday(t *testing.T) {
	svc, db := newTestService(t)
	hashed := iphash.Hash("1.2.3.4")

	require.NoError(t, db.Create(&models.AnalyticsEventModel{
		EventType: models.EventTypeTranslation,
		IPHash:    hashed,
		Timestamp: time.Now().UTC().Add(-25 * time.Hour),
	}).Error)

	status, err := svc.CheckQuota(hashed, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 0, status.Used)
}

func TestPurgeOlderThan(t *testing.T) {
	svc, db := newTestService(t)
	seedTranslation(t, svc, "1.1.1.1", "fresh", false)
	require.NoError(t, db.Create(&models.AnalyticsEventModel{
		EventType: models.EventTypeTranslation,
		IPHash:    iphash.Hash("1.1.1.1"),
		Timestamp: time.Now().UTC().AddDate(0, 0, -120),
	}).Error)

	deleted, err := svc.PurgeOlderThan(time.Now().UTC().AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	var remaining int64
	require.NoError(t, db.Model(&models.AnalyticsEventModel{}).Count(&remaining).Error)
	assert.EqualValues(t, 1, remaining)
}
