package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type AuthResponse struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type ProjectDTO struct {
	Title        string   `json:"title"`
	Technologies []string `json:"technologies"`
}

// ProfileResponseDTO is the extracted resume profile shown after upload.
type ProfileResponseDTO struct {
	Skills   []string     `json:"skills"`
	Projects []ProjectDTO `json:"projects"`
	Domains  []string     `json:"domains,omitempty"`
	Branch   string       `json:"branch"`
}

// QuestionResponseDTO describes the interview position after any command.
type QuestionResponseDTO struct {
	SessionID       string `json:"session_id"`
	Branch          string `json:"branch"`
	Question        string `json:"question,omitempty"`
	QuestionNumber  int    `json:"question_number"`
	TotalQuestions  int    `json:"total_questions"`
	QuestionCeiling int    `json:"question_ceiling"`
	AnsweredCount   int    `json:"answered_count"`
	Complete        bool   `json:"complete"`
}

type EvaluationDTO struct {
	Score                  int    `json:"score"`
	TechnicalStrengths     string `json:"technical_strengths"`
	CommunicationQuality   string `json:"communication_quality"`
	KnowledgeGaps          string `json:"knowledge_gaps"`
	ImplementationInsights string `json:"implementation_insights"`
	DetailedSuggestions    string `json:"detailed_suggestions"`
	IndustryRelevance      string `json:"industry_relevance"`
	NextLearningSteps      string `json:"next_learning_steps"`
}

type QuestionFeedbackDTO struct {
	Question   string        `json:"question"`
	Response   string        `json:"response"`
	Evaluation EvaluationDTO `json:"evaluation"`
}

// InterviewSummaryDTO is the aggregate result of a finished session.
type InterviewSummaryDTO struct {
	TotalScore        int                   `json:"total_score"`
	MaxScore          int                   `json:"max_score"`
	Percentage        float64               `json:"percentage"`
	QuestionsAnswered int                   `json:"questions_answered"`
	Branch            string                `json:"branch"`
	Feedback          []QuestionFeedbackDTO `json:"feedback"`
}

// SubmitResponseDTO is returned after an answer is scored. Summary is set
// only when the submission completed the session.
type SubmitResponseDTO struct {
	Evaluation    EvaluationDTO        `json:"evaluation"`
	FollowUpAdded bool                 `json:"follow_up_added"`
	Complete      bool                 `json:"complete"`
	Next          *QuestionResponseDTO `json:"next,omitempty"`
	Summary       *InterviewSummaryDTO `json:"summary,omitempty"`
}

type RoleAnalysisDTO struct {
	Role            string   `json:"role"`
	Score           float64  `json:"score"`
	FoundKeywords   []string `json:"found_keywords"`
	MissingKeywords []string `json:"missing_keywords"`
	Suggestions     []string `json:"suggestions"`
}

type TrendPointDTO struct {
	Interview  int     `json:"interview"`
	Percentage float64 `json:"percentage"`
	Date       string  `json:"date"`
}

// DashboardSummaryDTO aggregates the identity's interview history.
type DashboardSummaryDTO struct {
	LatestPercentage  float64         `json:"latest_percentage"`
	AveragePercentage float64         `json:"average_percentage"`
	TotalInterviews   int             `json:"total_interviews"`
	Improvement       float64         `json:"improvement"`
	LatestSkills      []string        `json:"latest_skills,omitempty"`
	Trend             []TrendPointDTO `json:"trend"`
}

// FeedbackSnapshotDTO is the deserialized feedback payload of one record.
type FeedbackSnapshotDTO struct {
	Feedback []QuestionFeedbackDTO `json:"feedback"`
	Skills   []string              `json:"skills"`
	Projects []ProjectDTO          `json:"projects"`
	Branch   string                `json:"branch"`
}

type FeedbackRecordDTO struct {
	ID                uint                 `json:"id"`
	TotalScore        int                  `json:"total_score"`
	MaxScore          int                  `json:"max_score"`
	Percentage        float64              `json:"percentage"`
	QuestionsAnswered int                  `json:"questions_answered"`
	Timestamp         time.Time            `json:"timestamp"`
	Snapshot          *FeedbackSnapshotDTO `json:"snapshot,omitempty"`
}
