package model

import (
	"time"
)

// Feedback is one completed (or early-terminated) interview run.
// Rows are append-only and never updated after creation.
type Feedback struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Email        string    `json:"email" gorm:"not null;index"`
	TotalScore   int       `json:"total_score" gorm:"not null"`
	MaxScore     int       `json:"max_score" gorm:"not null"`
	Percentage   float64   `json:"percentage" gorm:"not null"`
	FeedbackData string    `json:"feedback_data,omitempty" gorm:"type:text"`
	Timestamp    time.Time `json:"timestamp" gorm:"autoCreateTime;index"`
}
