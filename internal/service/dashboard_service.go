package service

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"vintervu/internal/dto"
	"vintervu/internal/model"
	"vintervu/internal/repository"
)

// DashboardService aggregates an identity's stored interview results.
type DashboardService interface {
	Summary(email string) (*dto.DashboardSummaryDTO, error)
	History(email string) ([]dto.FeedbackRecordDTO, error)
}

type dashboardService struct {
	feedbackRepo repository.FeedbackRepository
}

func NewDashboardService(feedbackRepo repository.FeedbackRepository) DashboardService {
	return &dashboardService{feedbackRepo: feedbackRepo}
}

// Summary computes headline numbers from the full history. Records arrive
// newest first; the trend is reversed into chronological order so the
// interview index counts upward from the first session.
func (s *dashboardService) Summary(email string) (*dto.DashboardSummaryDTO, error) {
	records, err := s.feedbackRepo.FindAllByEmail(email)
	if err != nil {
		return nil, err
	}

	summary := &dto.DashboardSummaryDTO{
		TotalInterviews: len(records),
		Trend:           make([]dto.TrendPointDTO, 0, len(records)),
	}
	if len(records) == 0 {
		return summary, nil
	}

	summary.LatestPercentage = records[0].Percentage
	var sum float64
	for _, r := range records {
		sum += r.Percentage
	}
	summary.AveragePercentage = sum / float64(len(records))
	if len(records) > 1 {
		summary.Improvement = records[0].Percentage - records[1].Percentage
	}
	if snapshot := parseSnapshot(records[0]); snapshot != nil {
		summary.LatestSkills = snapshot.Skills
	}

	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		summary.Trend = append(summary.Trend, dto.TrendPointDTO{
			Interview:  len(records) - i,
			Percentage: r.Percentage,
			Date:       r.Timestamp.Format("2006-01-02"),
		})
	}
	return summary, nil
}

// History returns the stored records newest first, each with its parsed
// feedback snapshot. A record whose payload no longer parses is returned
// without a snapshot rather than dropped.
func (s *dashboardService) History(email string) ([]dto.FeedbackRecordDTO, error) {
	records, err := s.feedbackRepo.FindAllByEmail(email)
	if err != nil {
		return nil, err
	}

	out := make([]dto.FeedbackRecordDTO, 0, len(records))
	for _, r := range records {
		view := dto.FeedbackRecordDTO{
			ID:         r.ID,
			TotalScore: r.TotalScore,
			MaxScore:   r.MaxScore,
			Percentage: r.Percentage,
			Timestamp:  r.Timestamp,
		}
		if snapshot := parseSnapshot(r); snapshot != nil {
			view.Snapshot = snapshot
			view.QuestionsAnswered = len(snapshot.Feedback)
		}
		out = append(out, view)
	}
	return out, nil
}

func parseSnapshot(record model.Feedback) *dto.FeedbackSnapshotDTO {
	if record.FeedbackData == "" {
		return nil
	}
	var snapshot dto.FeedbackSnapshotDTO
	if err := json.Unmarshal([]byte(record.FeedbackData), &snapshot); err != nil {
		log.Warn().Err(err).Uint("recordID", record.ID).Msg("Unparseable feedback snapshot")
		return nil
	}
	return &snapshot
}
