package controller

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"vintervu/internal/dto"
	"vintervu/internal/middleware"
	"vintervu/internal/service"
)

// Uploads beyond this size are rejected before extraction.
const maxResumeBytes = 10 << 20

type ResumeController struct {
	resumeSvc service.ResumeService
}

func NewResumeController(resumeSvc service.ResumeService) *ResumeController {
	return &ResumeController{resumeSvc: resumeSvc}
}

func (ctrl *ResumeController) RegisterRoutes(rg *gin.RouterGroup) {
	resume := rg.Group("/resume")
	resume.POST("/upload", ctrl.UploadResumeHandler)
	resume.GET("/profile", ctrl.GetProfileHandler)
	resume.DELETE("/profile", ctrl.ClearProfileHandler)
	resume.POST("/analyze", ctrl.AnalyzeRoleHandler)
}

// UploadResumeHandler godoc
// @Summary Upload a resume
// @Description Extract text from a PDF or DOCX resume and build the interview profile for the authenticated user
// @Tags resume
// @Accept multipart/form-data
// @Produce json
// @Param resume formData file true "Resume file (PDF or DOCX)"
// @Success 200 {object} dto.ProfileResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Missing or oversized file"
// @Failure 422 {object} dto.ErrorResponse "No text could be extracted"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /resume/upload [post]
func (ctrl *ResumeController) UploadResumeHandler(c *gin.Context) {
	email := middleware.Email(c)
	content, format, ok := readUpload(c)
	if !ok {
		return
	}

	profile, err := ctrl.resumeSvc.ProcessResume(c.Request.Context(), email, content, format)
	if err != nil {
		if errors.Is(err, service.ErrExtractionFailed) {
			c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Message: "Could not extract any text from the uploaded file"})
			return
		}
		log.Error().Err(err).Str("email", email).Msg("Failed to process resume")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to process resume", Details: []string{err.Error()}})
		return
	}

	var resp dto.ProfileResponseDTO
	copier.Copy(&resp, &profile)
	c.JSON(http.StatusOK, resp)
}

// GetProfileHandler godoc
// @Summary Get the current resume profile
// @Tags resume
// @Produce json
// @Success 200 {object} dto.ProfileResponseDTO
// @Failure 404 {object} dto.ErrorResponse "No resume processed yet"
// @Router /resume/profile [get]
func (ctrl *ResumeController) GetProfileHandler(c *gin.Context) {
	profile, ok := ctrl.resumeSvc.ProfileFor(middleware.Email(c))
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "No resume processed yet"})
		return
	}
	var resp dto.ProfileResponseDTO
	copier.Copy(&resp, &profile)
	c.JSON(http.StatusOK, resp)
}

// ClearProfileHandler godoc
// @Summary Discard the current resume profile
// @Tags resume
// @Success 204 "No Content"
// @Router /resume/profile [delete]
func (ctrl *ResumeController) ClearProfileHandler(c *gin.Context) {
	ctrl.resumeSvc.ClearProfile(middleware.Email(c))
	c.Status(http.StatusNoContent)
}

// AnalyzeRoleHandler godoc
// @Summary Analyze a resume against a target role
// @Description Score how well the resume's skills cover a named role and suggest what to learn next
// @Tags resume
// @Accept multipart/form-data
// @Produce json
// @Param resume formData file true "Resume file (PDF or DOCX)"
// @Param role formData string true "Target role name"
// @Success 200 {object} dto.RoleAnalysisDTO
// @Failure 400 {object} dto.ErrorResponse "Missing file or role"
// @Failure 422 {object} dto.ErrorResponse "No text could be extracted"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /resume/analyze [post]
func (ctrl *ResumeController) AnalyzeRoleHandler(c *gin.Context) {
	role := strings.TrimSpace(c.PostForm("role"))
	if role == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Form field 'role' is required"})
		return
	}
	content, format, ok := readUpload(c)
	if !ok {
		return
	}

	analysis, err := ctrl.resumeSvc.AnalyzeForRole(c.Request.Context(), content, format, role)
	if err != nil {
		if errors.Is(err, service.ErrExtractionFailed) {
			c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Message: "Could not extract any text from the uploaded file"})
			return
		}
		log.Error().Err(err).Str("role", role).Msg("Failed to analyze resume for role")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to analyze resume", Details: []string{err.Error()}})
		return
	}

	var resp dto.RoleAnalysisDTO
	copier.Copy(&resp, &analysis)
	c.JSON(http.StatusOK, resp)
}

// readUpload pulls the "resume" form file and returns its bytes and format.
// It writes the error response itself when the upload is unusable.
func readUpload(c *gin.Context) ([]byte, string, bool) {
	header, err := c.FormFile("resume")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Form file 'resume' is required"})
		return nil, "", false
	}
	if header.Size > maxResumeBytes {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Resume file is too large (10 MB limit)"})
		return nil, "", false
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to read uploaded file", Details: []string{err.Error()}})
		return nil, "", false
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to read uploaded file", Details: []string{err.Error()}})
		return nil, "", false
	}

	format := strings.TrimPrefix(filepath.Ext(header.Filename), ".")
	if format == "" {
		format = header.Header.Get("Content-Type")
	}
	return content, format, true
}
