package models

import "time"

// Analytics event types.
const (
	EventTypeTranslation = "translation"
	EventTypePageView    = "page_view"
)

// AnalyticsEventModel is the append-only usage log. One row per tracked
// request; aggregate reports are computed on demand, never materialized.
// Client IPs are stored only as a SHA-256 hash.
type AnalyticsEventModel struct {
	Base
	EventType      string    `json:"event_type"       gorm:"size:20;not null;index;index:idx_type_ip_ts,composite:1"`
	IPHash         string    `json:"-"                gorm:"size:64;index;index:idx_type_ip_ts,composite:2"`
	Query          *string   `json:"query"            gorm:"size:500"`
	CacheHit       *bool     `json:"cache_hit"`
	UserAgent      *string   `json:"user_agent"       gorm:"size:500"`
	Endpoint       *string   `json:"endpoint"         gorm:"size:255"`
	ResponseTimeMS *int64    `json:"response_time_ms"`
	Timestamp      time.Time `json:"timestamp"        gorm:"index;not null;index:idx_type_ip_ts,composite:3"`
}

func (AnalyticsEventModel) TableName() string { return "analytics_events" }
