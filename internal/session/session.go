package session

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// DefaultQuestionCeiling is the hard cap on total questions per session,
// counting both the initial set and injected follow-ups.
const DefaultQuestionCeiling = 12

// PointsPerQuestion is the maximum score a single answer can receive.
const PointsPerQuestion = 10

var (
	ErrSessionActive = errors.New("a session is already active")
	ErrNotActive     = errors.New("no active session")
	ErrNoQuestions   = errors.New("initial question list must not be empty")
	ErrEmptyResponse = errors.New("response must not be empty")
	ErrNoAnswersYet  = errors.New("no answers have been recorded yet")
	ErrNoFollowUpDue = errors.New("no follow-up question is due")
)

type State int

const (
	StateUninitialized State = iota
	StateAwaitingAnswer
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateAwaitingAnswer:
		return "awaiting_answer"
	case StateComplete:
		return "complete"
	default:
		return "uninitialized"
	}
}

// Project is the normalized shape for an extracted resume project. The
// technologies list may be empty but the field is always present, so
// consumers never branch on representation.
type Project struct {
	Title        string   `json:"title"`
	Technologies []string `json:"technologies"`
}

// Evaluation is the structured critique for one answer.
type Evaluation struct {
	Score                  int    `json:"score"`
	TechnicalStrengths     string `json:"technical_strengths"`
	CommunicationQuality   string `json:"communication_quality"`
	KnowledgeGaps          string `json:"knowledge_gaps"`
	ImplementationInsights string `json:"implementation_insights"`
	DetailedSuggestions    string `json:"detailed_suggestions"`
	IndustryRelevance      string `json:"industry_relevance"`
	NextLearningSteps      string `json:"next_learning_steps"`
}

// QuestionFeedback pairs a question with the recorded answer and its critique.
type QuestionFeedback struct {
	Question   string     `json:"question"`
	Response   string     `json:"response"`
	Evaluation Evaluation `json:"evaluation"`
}

// Summary is the aggregate handed to the feedback store when a session ends.
type Summary struct {
	TotalScore int                `json:"total_score"`
	MaxScore   int                `json:"max_score"`
	Percentage float64            `json:"percentage"`
	Feedback   []QuestionFeedback `json:"feedback"`
	Skills     []string           `json:"skills"`
	Projects   []Project          `json:"projects"`
	Branch     string             `json:"branch"`
}

// Session is a single bounded question/answer/score run. It performs no I/O;
// scoring results and follow-up questions are supplied by the caller.
//
// Invariants: len(answers) == len(scores) == len(feedback) == number of
// answered questions; currentIndex never exceeds len(questions); questions
// are append-only and never exceed the ceiling.
type Session struct {
	id           string
	state        State
	branch       string
	skills       []string
	projects     []Project
	questions    []string
	currentIndex int
	answers      []string
	scores       []int
	feedback     []QuestionFeedback
	ceiling      int
	followUpDue  bool
}

func New() *Session {
	return &Session{ceiling: DefaultQuestionCeiling}
}

// NewWithCeiling is used by tests and callers that need a non-default cap.
func NewWithCeiling(ceiling int) *Session {
	if ceiling <= 0 {
		ceiling = DefaultQuestionCeiling
	}
	return &Session{ceiling: ceiling}
}

func (s *Session) ID() string     { return s.id }
func (s *Session) State() State   { return s.state }
func (s *Session) Branch() string { return s.branch }

func (s *Session) Skills() []string    { return s.skills }
func (s *Session) Projects() []Project { return s.projects }

// Initialize starts a new run. Fails if a run is already in progress.
func (s *Session) Initialize(skills []string, projects []Project, branch string, questions []string) error {
	if s.state != StateUninitialized {
		return ErrSessionActive
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	s.id = uuid.NewString()
	s.branch = branch
	s.skills = append([]string(nil), skills...)
	s.projects = append([]Project(nil), projects...)
	s.questions = append([]string(nil), questions...)
	if len(s.questions) > s.ceiling {
		s.questions = s.questions[:s.ceiling]
	}
	s.currentIndex = 0
	s.answers = nil
	s.scores = nil
	s.feedback = nil
	s.followUpDue = false
	s.state = StateAwaitingAnswer
	return nil
}

// CurrentQuestion returns the question at the current position. The second
// return value is false when the list is exhausted.
func (s *Session) CurrentQuestion() (string, bool) {
	if s.state != StateAwaitingAnswer || s.currentIndex >= len(s.questions) {
		return "", false
	}
	return s.questions[s.currentIndex], true
}

// QuestionNumber is the 1-based position of the current question.
func (s *Session) QuestionNumber() int { return s.currentIndex + 1 }

// TotalQuestions is the current length of the (growing) question list.
func (s *Session) TotalQuestions() int { return len(s.questions) }

// AnsweredCount is the number of scored answers. It diverges from the
// current position when questions were skipped.
func (s *Session) AnsweredCount() int { return len(s.scores) }

// IsComplete reports whether the question list is exhausted. Observational
// only; it never triggers follow-up generation.
func (s *Session) IsComplete() bool {
	return s.state != StateUninitialized && s.currentIndex >= len(s.questions)
}

// SubmitAnswer records text and its evaluation against the current question
// and advances the position. The returned flag is true when the list is now
// exhausted but the ceiling has not been reached, meaning the caller should
// inject exactly one follow-up question via AppendFollowUp.
func (s *Session) SubmitAnswer(text string, eval Evaluation) (bool, error) {
	if s.state != StateAwaitingAnswer || s.currentIndex >= len(s.questions) {
		return false, ErrNotActive
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false, ErrEmptyResponse
	}
	if eval.Score < 0 {
		eval.Score = 0
	}
	if eval.Score > PointsPerQuestion {
		eval.Score = PointsPerQuestion
	}

	question := s.questions[s.currentIndex]
	s.answers = append(s.answers, trimmed)
	s.scores = append(s.scores, eval.Score)
	s.feedback = append(s.feedback, QuestionFeedback{
		Question:   question,
		Response:   trimmed,
		Evaluation: eval,
	})
	s.currentIndex++

	if s.currentIndex == len(s.questions) {
		if s.currentIndex < s.ceiling {
			s.followUpDue = true
			return true, nil
		}
		s.state = StateComplete
	}
	return false, nil
}

// AppendFollowUp injects one follow-up question. Valid only immediately
// after SubmitAnswer reported a follow-up as due.
func (s *Session) AppendFollowUp(question string) error {
	if !s.followUpDue {
		return ErrNoFollowUpDue
	}
	s.followUpDue = false
	question = strings.TrimSpace(question)
	if question == "" || len(s.questions) >= s.ceiling {
		s.state = StateComplete
		return nil
	}
	s.questions = append(s.questions, question)
	return nil
}

// Skip advances past the current question without recording an answer and
// without triggering follow-up generation.
func (s *Session) Skip() error {
	if s.state != StateAwaitingAnswer || s.currentIndex >= len(s.questions) {
		return ErrNotActive
	}
	s.currentIndex++
	if s.currentIndex == len(s.questions) {
		s.state = StateComplete
	}
	return nil
}

// Finalize computes the aggregate summary and resets the session to its
// uninitialized state. Fails when nothing has been answered.
func (s *Session) Finalize() (Summary, error) {
	if s.state == StateUninitialized {
		return Summary{}, ErrNotActive
	}
	if len(s.scores) == 0 {
		return Summary{}, ErrNoAnswersYet
	}

	total := 0
	for _, score := range s.scores {
		total += score
	}
	maxScore := PointsPerQuestion * len(s.scores)
	percentage := 0.0
	if maxScore > 0 {
		percentage = 100 * float64(total) / float64(maxScore)
	}

	summary := Summary{
		TotalScore: total,
		MaxScore:   maxScore,
		Percentage: percentage,
		Feedback:   s.feedback,
		Skills:     s.skills,
		Projects:   s.projects,
		Branch:     s.branch,
	}

	*s = Session{ceiling: s.ceiling}
	return summary, nil
}
