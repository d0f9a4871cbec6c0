package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"vintervu/internal/dto"
	"vintervu/internal/middleware"
	"vintervu/internal/service"
	"vintervu/internal/session"
)

type InterviewController struct {
	interviewSvc service.InterviewService
}

func NewInterviewController(interviewSvc service.InterviewService) *InterviewController {
	return &InterviewController{interviewSvc: interviewSvc}
}

func (ctrl *InterviewController) RegisterRoutes(rg *gin.RouterGroup) {
	interview := rg.Group("/interview")
	interview.POST("/start", ctrl.StartHandler)
	interview.GET("/question", ctrl.CurrentQuestionHandler)
	interview.POST("/answer", ctrl.SubmitAnswerHandler)
	interview.POST("/skip", ctrl.SkipQuestionHandler)
	interview.POST("/end", ctrl.EndInterviewHandler)
}

// StartHandler godoc
// @Summary Start an interview session
// @Description Seed a new session with questions generated from the user's processed resume profile
// @Tags interview
// @Produce json
// @Success 201 {object} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse "No resume processed yet"
// @Failure 409 {object} dto.ErrorResponse "A session is already active"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /interview/start [post]
func (ctrl *InterviewController) StartHandler(c *gin.Context) {
	email := middleware.Email(c)
	question, err := ctrl.interviewSvc.Start(c.Request.Context(), email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNotFound):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Upload and process a resume before starting an interview"})
		case errors.Is(err, session.ErrSessionActive):
			c.JSON(http.StatusConflict, dto.ErrorResponse{Message: "An interview session is already in progress"})
		default:
			log.Error().Err(err).Str("email", email).Msg("Failed to start interview")
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to start interview", Details: []string{err.Error()}})
		}
		return
	}
	c.JSON(http.StatusCreated, question)
}

// CurrentQuestionHandler godoc
// @Summary Get the current question
// @Tags interview
// @Produce json
// @Success 200 {object} dto.QuestionResponseDTO
// @Failure 404 {object} dto.ErrorResponse "No active session"
// @Router /interview/question [get]
func (ctrl *InterviewController) CurrentQuestionHandler(c *gin.Context) {
	question, err := ctrl.interviewSvc.Current(middleware.Email(c))
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "No active interview session"})
		return
	}
	c.JSON(http.StatusOK, question)
}

// SubmitAnswerHandler godoc
// @Summary Submit an answer to the current question
// @Description Score the answer, advance the session, and return either the next question or the final summary
// @Tags interview
// @Accept json
// @Produce json
// @Param answer body dto.AnswerSubmitDTO true "Answer text"
// @Success 200 {object} dto.SubmitResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Blank answer or invalid body"
// @Failure 404 {object} dto.ErrorResponse "No active session"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /interview/answer [post]
func (ctrl *InterviewController) SubmitAnswerHandler(c *gin.Context) {
	var req dto.AnswerSubmitDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	email := middleware.Email(c)
	resp, err := ctrl.interviewSvc.Submit(c.Request.Context(), email, req.Response)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrEmptyResponse):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Answer cannot be blank"})
		case errors.Is(err, session.ErrNotActive):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "No active interview session"})
		default:
			log.Error().Err(err).Str("email", email).Msg("Failed to submit answer")
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to submit answer", Details: []string{err.Error()}})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SkipQuestionHandler godoc
// @Summary Skip the current question
// @Description Advance past the current question without recording an answer or a score
// @Tags interview
// @Produce json
// @Success 200 {object} dto.QuestionResponseDTO
// @Failure 404 {object} dto.ErrorResponse "No active session"
// @Router /interview/skip [post]
func (ctrl *InterviewController) SkipQuestionHandler(c *gin.Context) {
	question, err := ctrl.interviewSvc.Skip(middleware.Email(c))
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "No active interview session"})
		return
	}
	c.JSON(http.StatusOK, question)
}

// EndInterviewHandler godoc
// @Summary End the interview early
// @Description Finalize the session with the answers recorded so far and persist the feedback record
// @Tags interview
// @Produce json
// @Success 200 {object} dto.InterviewSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "No answers recorded yet"
// @Failure 404 {object} dto.ErrorResponse "No active session"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /interview/end [post]
func (ctrl *InterviewController) EndInterviewHandler(c *gin.Context) {
	email := middleware.Email(c)
	summary, err := ctrl.interviewSvc.End(email)
	if err != nil {
		// A summary alongside an error means finalization succeeded but the
		// record could not be stored. The results still belong to the user.
		if summary != nil {
			log.Warn().Err(err).Str("email", email).Msg("Summary returned despite storage failure")
			c.JSON(http.StatusOK, summary)
			return
		}
		switch {
		case errors.Is(err, session.ErrNoAnswersYet):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Answer at least one question before ending the interview"})
		case errors.Is(err, session.ErrNotActive):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "No active interview session"})
		default:
			log.Error().Err(err).Str("email", email).Msg("Failed to end interview")
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to end interview", Details: []string{err.Error()}})
		}
		return
	}
	c.JSON(http.StatusOK, summary)
}
