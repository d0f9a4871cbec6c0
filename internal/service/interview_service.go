package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"vintervu/internal/dto"
	"vintervu/internal/model"
	"vintervu/internal/repository"
	"vintervu/internal/session"
)

// InterviewService is the command-dispatch layer over interview sessions:
// each user action maps to exactly one method, and rendering is a pure
// projection of the returned state.
type InterviewService interface {
	Start(ctx context.Context, email string) (*dto.QuestionResponseDTO, error)
	Current(email string) (*dto.QuestionResponseDTO, error)
	Submit(ctx context.Context, email, text string) (*dto.SubmitResponseDTO, error)
	Skip(email string) (*dto.QuestionResponseDTO, error)
	End(email string) (*dto.InterviewSummaryDTO, error)
}

type interviewService struct {
	sessions     *session.Manager
	gateway      GeminiService
	resumes      ResumeService
	feedbackRepo repository.FeedbackRepository
}

func NewInterviewService(
	sessions *session.Manager,
	gateway GeminiService,
	resumes ResumeService,
	feedbackRepo repository.FeedbackRepository,
) InterviewService {
	return &interviewService{
		sessions:     sessions,
		gateway:      gateway,
		resumes:      resumes,
		feedbackRepo: feedbackRepo,
	}
}

// Start seeds a session from the identity's processed resume profile. The
// gateway guarantees a non-empty question list via its fallbacks, so
// initialization can only fail on a missing profile or an active session.
func (s *interviewService) Start(ctx context.Context, email string) (*dto.QuestionResponseDTO, error) {
	profile, ok := s.resumes.ProfileFor(email)
	if !ok {
		return nil, ErrProfileNotFound
	}
	// Check before generating questions; a live session would reject the
	// initialization anyway and the gateway calls are not free.
	if _, active := s.sessions.Active(email); active {
		return nil, session.ErrSessionActive
	}

	technical := s.gateway.GenerateQuestions(ctx, profile.Skills, profile.Projects, profile.Branch, nil)
	project := s.gateway.GenerateProjectQuestions(ctx, profile.Projects, profile.Skills)
	questions := append(technical, project...)

	sess := s.sessions.GetOrCreate(email)
	if err := sess.Initialize(profile.Skills, profile.Projects, profile.Branch, questions); err != nil {
		return nil, err
	}

	log.Info().Str("email", email).Str("sessionID", sess.ID()).
		Int("questions", len(questions)).Str("branch", profile.Branch).
		Msg("Interview session started")
	return questionView(sess), nil
}

func (s *interviewService) Current(email string) (*dto.QuestionResponseDTO, error) {
	sess, ok := s.sessions.Active(email)
	if !ok {
		return nil, session.ErrNotActive
	}
	return questionView(sess), nil
}

// Submit scores the answer against the current question, advances the
// session, and injects a follow-up question when the list is exhausted
// below the ceiling. When the submission completes the session, the
// summary is finalized and persisted in the same pass.
func (s *interviewService) Submit(ctx context.Context, email, text string) (*dto.SubmitResponseDTO, error) {
	sess, ok := s.sessions.Active(email)
	if !ok {
		return nil, session.ErrNotActive
	}
	question, ok := sess.CurrentQuestion()
	if !ok {
		return nil, session.ErrNotActive
	}
	// Reject blank answers before spending a gateway call on them.
	if strings.TrimSpace(text) == "" {
		return nil, session.ErrEmptyResponse
	}

	eval := s.gateway.EvaluateAnswer(ctx, question, text)
	followUpDue, err := sess.SubmitAnswer(text, eval)
	if err != nil {
		return nil, err
	}

	resp := &dto.SubmitResponseDTO{}
	copier.Copy(&resp.Evaluation, &eval)

	if followUpDue {
		followUp := s.gateway.GenerateFollowUp(ctx, text, sess.Skills())
		if err := sess.AppendFollowUp(followUp); err != nil {
			log.Warn().Err(err).Str("email", email).Msg("Follow-up injection rejected by session")
		} else if sess.State() == session.StateAwaitingAnswer {
			resp.FollowUpAdded = true
		}
	}

	if sess.State() == session.StateComplete {
		resp.Complete = true
		summary, err := s.finalize(email, sess)
		if err != nil && summary == nil {
			return nil, err
		}
		resp.Summary = summary
	} else {
		resp.Next = questionView(sess)
	}
	return resp, nil
}

func (s *interviewService) Skip(email string) (*dto.QuestionResponseDTO, error) {
	sess, ok := s.sessions.Active(email)
	if !ok {
		return nil, session.ErrNotActive
	}
	if err := sess.Skip(); err != nil {
		return nil, err
	}
	return questionView(sess), nil
}

// End is the early-termination path. Natural exhaustion is handled inside
// Submit; both paths write exactly one feedback record.
func (s *interviewService) End(email string) (*dto.InterviewSummaryDTO, error) {
	sess, ok := s.sessions.Active(email)
	if !ok {
		return nil, session.ErrNotActive
	}
	return s.finalize(email, sess)
}

// finalize computes the summary, persists it, and resets the session. A
// storage failure is logged and reported alongside the summary: the session
// is already reset and its results belong to the caller either way.
func (s *interviewService) finalize(email string, sess *session.Session) (*dto.InterviewSummaryDTO, error) {
	summary, err := sess.Finalize()
	if err != nil {
		return nil, err
	}

	view := summaryView(summary)

	payload, err := json.Marshal(feedbackSnapshot(summary))
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to serialize feedback snapshot")
		return view, fmt.Errorf("serializing feedback snapshot: %w", err)
	}
	record := &model.Feedback{
		Email:        email,
		TotalScore:   summary.TotalScore,
		MaxScore:     summary.MaxScore,
		Percentage:   summary.Percentage,
		FeedbackData: string(payload),
	}
	if err := s.feedbackRepo.Create(record); err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to persist feedback record")
		return view, fmt.Errorf("saving feedback record: %w", err)
	}

	log.Info().Str("email", email).Int("totalScore", summary.TotalScore).
		Int("maxScore", summary.MaxScore).Float64("percentage", summary.Percentage).
		Msg("Interview session finalized")
	return view, nil
}

func feedbackSnapshot(summary session.Summary) dto.FeedbackSnapshotDTO {
	var snapshot dto.FeedbackSnapshotDTO
	copier.Copy(&snapshot.Feedback, &summary.Feedback)
	copier.Copy(&snapshot.Projects, &summary.Projects)
	snapshot.Skills = summary.Skills
	snapshot.Branch = summary.Branch
	return snapshot
}

func summaryView(summary session.Summary) *dto.InterviewSummaryDTO {
	view := &dto.InterviewSummaryDTO{
		TotalScore:        summary.TotalScore,
		MaxScore:          summary.MaxScore,
		Percentage:        summary.Percentage,
		QuestionsAnswered: len(summary.Feedback),
		Branch:            summary.Branch,
	}
	copier.Copy(&view.Feedback, &summary.Feedback)
	return view
}

func questionView(sess *session.Session) *dto.QuestionResponseDTO {
	view := &dto.QuestionResponseDTO{
		SessionID:       sess.ID(),
		Branch:          sess.Branch(),
		QuestionNumber:  sess.QuestionNumber(),
		TotalQuestions:  sess.TotalQuestions(),
		QuestionCeiling: session.DefaultQuestionCeiling,
		AnsweredCount:   sess.AnsweredCount(),
		Complete:        sess.IsComplete(),
	}
	if question, ok := sess.CurrentQuestion(); ok {
		view.Question = question
	} else {
		view.QuestionNumber = sess.TotalQuestions()
	}
	return view
}
