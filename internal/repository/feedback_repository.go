package repository

import (
	"gorm.io/gorm"

	"vintervu/internal/model"
)

type FeedbackRepository interface {
	Create(feedback *model.Feedback) error
	FindAllByEmail(email string) ([]model.Feedback, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(feedback *model.Feedback) error {
	return r.db.Create(feedback).Error
}

// FindAllByEmail returns the identity's history, most recent first.
func (r *feedbackRepository) FindAllByEmail(email string) ([]model.Feedback, error) {
	var records []model.Feedback
	if err := r.db.Where("email = ?", email).Order("timestamp desc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
