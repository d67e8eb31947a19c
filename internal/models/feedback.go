package models

import "time"

// Feedback types.
const (
	FeedbackTypeTranslation = "translation"
	FeedbackTypeGeneral     = "general"
)

// Ratings for translation feedback.
const (
	RatingUp   = "up"
	RatingDown = "down"
)

// FeedbackModel stores user ratings for translations and general feedback
// (bug reports, feature requests). Entries are append-only; the only
// mutation is deletion by an administrator.
//
// A "translation" entry always carries Query and Rating; a "general" entry
// never carries a rating and always carries FeedbackText.
type FeedbackModel struct {
	Base
	Query        *string   `json:"query"         gorm:"size:500"`
	Rating       *string   `json:"rating"        gorm:"size:10"`
	FeedbackText *string   `json:"feedback_text" gorm:"type:text"`
	IPHash       *string   `json:"-"             gorm:"size:64;index"`
	Timestamp    time.Time `json:"timestamp"     gorm:"index;not null"`
	FeedbackType string    `json:"feedback_type" gorm:"size:20;not null;default:translation;index"`
	Category     *string   `json:"category"      gorm:"size:50"`
	Email        *string   `json:"email"         gorm:"size:255"`
}

func (FeedbackModel) TableName() string { return "feedback" }
