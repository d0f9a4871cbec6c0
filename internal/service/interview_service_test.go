package service

import (
	"context"
	"encoding/json"
	"testing"

	"vintervu/internal/dto"
	"vintervu/internal/session"
)

func newTestInterviewService(gateway GeminiService, repo *stubFeedbackRepo) (InterviewService, ResumeService) {
	resumes := NewResumeService(stubExtractor{text: "resume text"}, gateway)
	return NewInterviewService(session.NewManager(), gateway, resumes, repo), resumes
}

func TestInterviewFlow_EndToEnd(t *testing.T) {
	gateway := stubGateway{
		profile:   Profile{Skills: []string{"Python", "SQL"}},
		questions: []string{"Q1", "Q2"},
		projectQs: []string{"P1"},
		followUp:  "F1",
		eval:      session.Evaluation{Score: 7, TechnicalStrengths: "solid"},
	}
	repo := &stubFeedbackRepo{}
	svc, resumes := newTestInterviewService(gateway, repo)
	ctx := context.Background()

	if _, err := svc.Start(ctx, "a@example.com"); err != ErrProfileNotFound {
		t.Fatalf("Start() without profile error = %v, want ErrProfileNotFound", err)
	}
	if _, err := resumes.ProcessResume(ctx, "a@example.com", []byte("x"), "pdf"); err != nil {
		t.Fatalf("ProcessResume() error = %v", err)
	}

	first, err := svc.Start(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if first.Question != "Q1" || first.TotalQuestions != 3 {
		t.Errorf("first question = %+v, want Q1 of 3", first)
	}

	// Q1 answered, Q2 skipped, P1 answered. The list then runs out below the
	// ceiling, so a follow-up is injected.
	resp, err := svc.Submit(ctx, "a@example.com", "answer one")
	if err != nil {
		t.Fatalf("Submit(Q1) error = %v", err)
	}
	if resp.Evaluation.Score != 7 || resp.Complete || resp.Next == nil || resp.Next.Question != "Q2" {
		t.Errorf("Submit(Q1) response = %+v", resp)
	}

	next, err := svc.Skip("a@example.com")
	if err != nil {
		t.Fatalf("Skip() error = %v", err)
	}
	if next.Question != "P1" {
		t.Errorf("question after skip = %q, want P1", next.Question)
	}

	resp, err = svc.Submit(ctx, "a@example.com", "answer project")
	if err != nil {
		t.Fatalf("Submit(P1) error = %v", err)
	}
	if !resp.FollowUpAdded || resp.Complete {
		t.Fatalf("exhausting the list below the ceiling should inject a follow-up, got %+v", resp)
	}
	if resp.Next == nil || resp.Next.Question != "F1" {
		t.Errorf("next question = %+v, want the follow-up F1", resp.Next)
	}

	summary, err := svc.End("a@example.com")
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}
	// Two answered questions at 7 points each, the skip unscored.
	if summary.TotalScore != 14 || summary.MaxScore != 20 || summary.Percentage != 70 {
		t.Errorf("summary = %+v, want 14/20 at 70%%", summary)
	}
	if summary.QuestionsAnswered != 2 {
		t.Errorf("QuestionsAnswered = %d, want 2", summary.QuestionsAnswered)
	}

	if len(repo.created) != 1 {
		t.Fatalf("persisted %d feedback records, want exactly 1", len(repo.created))
	}
	record := repo.created[0]
	if record.Email != "a@example.com" || record.TotalScore != 14 || record.MaxScore != 20 {
		t.Errorf("persisted record = %+v", record)
	}
	var snapshot dto.FeedbackSnapshotDTO
	if err := json.Unmarshal([]byte(record.FeedbackData), &snapshot); err != nil {
		t.Fatalf("persisted snapshot is not valid JSON: %v", err)
	}
	if len(snapshot.Feedback) != 2 || snapshot.Branch != "Computer Science" {
		t.Errorf("persisted snapshot = %+v", snapshot)
	}

	// The session is gone; a new one can start.
	if _, err := svc.Current("a@example.com"); err == nil {
		t.Error("Current() should fail once the session is finalized")
	}
	if _, err := svc.Start(ctx, "a@example.com"); err != nil {
		t.Errorf("Start() after finalize error = %v", err)
	}
}

func TestSubmit_BlankAnswer(t *testing.T) {
	gateway := stubGateway{
		profile:   Profile{Skills: []string{"Python"}},
		questions: []string{"Q1"},
	}
	svc, resumes := newTestInterviewService(gateway, &stubFeedbackRepo{})
	ctx := context.Background()

	if _, err := resumes.ProcessResume(ctx, "a@example.com", []byte("x"), "pdf"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Start(ctx, "a@example.com"); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Submit(ctx, "a@example.com", "   \n "); err != session.ErrEmptyResponse {
		t.Errorf("Submit(blank) error = %v, want ErrEmptyResponse", err)
	}
	// The rejected submit must not have advanced the session.
	current, err := svc.Current("a@example.com")
	if err != nil || current.Question != "Q1" {
		t.Errorf("Current() after blank submit = (%+v, %v), want Q1", current, err)
	}
}

func TestInterview_NoActiveSession(t *testing.T) {
	svc, _ := newTestInterviewService(stubGateway{}, &stubFeedbackRepo{})
	ctx := context.Background()

	if _, err := svc.Current("nobody@example.com"); err != session.ErrNotActive {
		t.Errorf("Current() error = %v, want ErrNotActive", err)
	}
	if _, err := svc.Submit(ctx, "nobody@example.com", "hi"); err != session.ErrNotActive {
		t.Errorf("Submit() error = %v, want ErrNotActive", err)
	}
	if _, err := svc.Skip("nobody@example.com"); err != session.ErrNotActive {
		t.Errorf("Skip() error = %v, want ErrNotActive", err)
	}
	if _, err := svc.End("nobody@example.com"); err != session.ErrNotActive {
		t.Errorf("End() error = %v, want ErrNotActive", err)
	}
}

func TestEnd_BeforeAnyAnswer(t *testing.T) {
	gateway := stubGateway{
		profile:   Profile{Skills: []string{"Python"}},
		questions: []string{"Q1"},
	}
	svc, resumes := newTestInterviewService(gateway, &stubFeedbackRepo{})
	ctx := context.Background()

	if _, err := resumes.ProcessResume(ctx, "a@example.com", []byte("x"), "pdf"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Start(ctx, "a@example.com"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.End("a@example.com"); err != session.ErrNoAnswersYet {
		t.Errorf("End() before answers error = %v, want ErrNoAnswersYet", err)
	}
}

func TestStart_WhileSessionActive(t *testing.T) {
	gateway := stubGateway{
		profile:   Profile{Skills: []string{"Python"}},
		questions: []string{"Q1"},
	}
	svc, resumes := newTestInterviewService(gateway, &stubFeedbackRepo{})
	ctx := context.Background()

	if _, err := resumes.ProcessResume(ctx, "a@example.com", []byte("x"), "pdf"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Start(ctx, "a@example.com"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Start(ctx, "a@example.com"); err != session.ErrSessionActive {
		t.Errorf("second Start() error = %v, want ErrSessionActive", err)
	}
}
