package feedback

import (
	"time"

	"github.com/asl-dict/core/internal/models"
	"github.com/asl-dict/core/internal/pkg/iphash"
	"github.com/asl-dict/core/internal/pkg/pagination"
	"github.com/asl-dict/core/internal/pkg/response"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateTranslation records a thumbs-up/down rating for one translation.
func (s *Service) CreateTranslation(query, rating, text, ip string) (*models.FeedbackModel, error) {
	row := models.FeedbackModel{
		Query:        &query,
		Rating:       &rating,
		FeedbackType: models.FeedbackTypeTranslation,
		Timestamp:    time.Now().UTC(),
	}
	if text != "" {
		row.FeedbackText = &text
	}
	if hashed := iphash.Hash(ip); hashed != "" {
		row.IPHash = &hashed
	}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateGeneral records a bug report or feature request. General entries
// never carry a rating.
func (s *Service) CreateGeneral(category, text, email, ip string) (*models.FeedbackModel, error) {
	row := models.FeedbackModel{
		Category:     &category,
		FeedbackText: &text,
		FeedbackType: models.FeedbackTypeGeneral,
		Timestamp:    time.Now().UTC(),
	}
	if email != "" {
		row.Email = &email
	}
	if hashed := iphash.Hash(ip); hashed != "" {
		row.IPHash = &hashed
	}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Stats is the public feedback summary.
type Stats struct {
	Total      int64 `json:"total_feedback"`
	ThumbsUp   int64 `json:"thumbs_up"`
	ThumbsDown int64 `json:"thumbs_down"`
	WithText   int64 `json:"with_text"`
}

func (s *Service) Stats() (Stats, error) {
	var stats Stats
	base := s.db.Model(&models.FeedbackModel{})

	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := base.Session(&gorm.Session{}).Where("rating = ?", models.RatingUp).Count(&stats.ThumbsUp).Error; err != nil {
		return stats, err
	}
	if err := base.Session(&gorm.Session{}).Where("rating = ?", models.RatingDown).Count(&stats.ThumbsDown).Error; err != nil {
		return stats, err
	}
	err := base.Session(&gorm.Session{}).
		Where("feedback_text IS NOT NULL AND feedback_text <> ''").
		Count(&stats.WithText).Error
	return stats, err
}

// List returns feedback entries newest first, optionally filtered by
// feedback type.
func (s *Service) List(q pagination.Query, feedbackType string) ([]models.FeedbackModel, response.Pagination, error) {
	tx := s.db.Model(&models.FeedbackModel{}).Order("timestamp DESC")
	if feedbackType != "" {
		tx = tx.Where("feedback_type = ?", feedbackType)
	}

	var rows []models.FeedbackModel
	page, err := pagination.Paginate(tx, q, &rows)
	return rows, page, err
}

// Delete removes one entry by id. gorm.ErrRecordNotFound when absent.
func (s *Service) Delete(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.FeedbackModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CategoryCount is one slice of the detailed stats breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// DetailedStats is the admin-facing breakdown.
type DetailedStats struct {
	Stats
	ByCategory []CategoryCount        `json:"by_category"`
	Recent     []models.FeedbackModel `json:"recent"`
}

func (s *Service) Detailed() (DetailedStats, error) {
	var detailed DetailedStats

	base, err := s.Stats()
	if err != nil {
		return detailed, err
	}
	detailed.Stats = base

	detailed.ByCategory = make([]CategoryCount, 0)
	if err := s.db.Model(&models.FeedbackModel{}).
		Select("category, COUNT(*) as count").
		Where("feedback_type = ?", models.FeedbackTypeGeneral).
		Where("category IS NOT NULL AND category <> ''").
		Group("category").
		Order("count DESC").
		Scan(&detailed.ByCategory).Error; err != nil {
		return detailed, err
	}

	detailed.Recent = make([]models.FeedbackModel, 0, 10)
	err = s.db.Model(&models.FeedbackModel{}).
		Order("timestamp DESC").
		Limit(10).
		Find(&detailed.Recent).Error
	return detailed, err
}
