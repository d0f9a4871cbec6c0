package service

import (
	"testing"
	"time"

	"vintervu/internal/model"
)

// stubFeedbackRepo serves a fixed history, newest first, as the real
// repository does.
type stubFeedbackRepo struct {
	records []model.Feedback
	created []*model.Feedback
	err     error
}

func (s *stubFeedbackRepo) Create(feedback *model.Feedback) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, feedback)
	return nil
}

func (s *stubFeedbackRepo) FindAllByEmail(email string) ([]model.Feedback, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func day(n int) time.Time {
	return time.Date(2026, time.August, n, 12, 0, 0, 0, time.UTC)
}

func TestDashboardSummary(t *testing.T) {
	repo := &stubFeedbackRepo{records: []model.Feedback{
		{ID: 3, Percentage: 80, Timestamp: day(3)},
		{ID: 2, Percentage: 60, Timestamp: day(2), FeedbackData: `{"skills": ["Go", "SQL"]}`},
		{ID: 1, Percentage: 40, Timestamp: day(1)},
	}}
	repo.records[0].FeedbackData = `{"skills": ["Go", "SQL", "Docker"]}`
	svc := NewDashboardService(repo)

	summary, err := svc.Summary("a@example.com")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.TotalInterviews != 3 {
		t.Errorf("TotalInterviews = %d, want 3", summary.TotalInterviews)
	}
	if summary.LatestPercentage != 80 {
		t.Errorf("LatestPercentage = %v, want 80", summary.LatestPercentage)
	}
	if summary.AveragePercentage != 60 {
		t.Errorf("AveragePercentage = %v, want 60", summary.AveragePercentage)
	}
	if summary.Improvement != 20 {
		t.Errorf("Improvement = %v, want 20", summary.Improvement)
	}
	if len(summary.LatestSkills) != 3 {
		t.Errorf("LatestSkills = %v, want the newest record's skills", summary.LatestSkills)
	}

	if len(summary.Trend) != 3 {
		t.Fatalf("Trend length = %d, want 3", len(summary.Trend))
	}
	// Chronological order, counting up from the first interview.
	for i, want := range []float64{40, 60, 80} {
		point := summary.Trend[i]
		if point.Interview != i+1 || point.Percentage != want {
			t.Errorf("Trend[%d] = %+v, want interview %d at %v%%", i, point, i+1, want)
		}
	}
	if summary.Trend[0].Date != "2026-08-01" {
		t.Errorf("Trend[0].Date = %q, want 2026-08-01", summary.Trend[0].Date)
	}
}

func TestDashboardSummary_Empty(t *testing.T) {
	svc := NewDashboardService(&stubFeedbackRepo{})
	summary, err := svc.Summary("a@example.com")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.TotalInterviews != 0 || summary.LatestPercentage != 0 || len(summary.Trend) != 0 {
		t.Errorf("empty history should produce a zeroed summary, got %+v", summary)
	}
}

func TestDashboardSummary_SingleRecordNoImprovement(t *testing.T) {
	svc := NewDashboardService(&stubFeedbackRepo{records: []model.Feedback{
		{ID: 1, Percentage: 70, Timestamp: day(1)},
	}})
	summary, err := svc.Summary("a@example.com")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.Improvement != 0 {
		t.Errorf("Improvement = %v, want 0 for a single record", summary.Improvement)
	}
}

func TestDashboardHistory(t *testing.T) {
	repo := &stubFeedbackRepo{records: []model.Feedback{
		{
			ID: 2, TotalScore: 21, MaxScore: 30, Percentage: 70, Timestamp: day(2),
			FeedbackData: `{"feedback": [{"question": "Q1", "response": "A1", "evaluation": {"score": 7}}], "skills": ["Go"], "branch": "Computer Science"}`,
		},
		{ID: 1, TotalScore: 10, MaxScore: 20, Percentage: 50, Timestamp: day(1), FeedbackData: "{not json"},
	}}
	svc := NewDashboardService(repo)

	records, err := svc.History("a@example.com")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("History() returned %d records, want 2", len(records))
	}

	first := records[0]
	if first.Snapshot == nil {
		t.Fatal("newest record should carry a parsed snapshot")
	}
	if first.QuestionsAnswered != 1 || first.Snapshot.Branch != "Computer Science" {
		t.Errorf("parsed snapshot = %+v", first.Snapshot)
	}
	if first.Snapshot.Feedback[0].Evaluation.Score != 7 {
		t.Errorf("snapshot score = %d, want 7", first.Snapshot.Feedback[0].Evaluation.Score)
	}

	// A corrupt payload is kept, just without its snapshot.
	if records[1].Snapshot != nil {
		t.Error("corrupt payload should not produce a snapshot")
	}
	if records[1].Percentage != 50 {
		t.Errorf("corrupt record's scores should survive, got %+v", records[1])
	}
}
