package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"vintervu/internal/dto"
	"vintervu/internal/service"
)

type AuthController struct {
	authSvc service.AuthService
}

func NewAuthController(authSvc service.AuthService) *AuthController {
	return &AuthController{authSvc: authSvc}
}

func (ctrl *AuthController) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/signup", ctrl.SignupHandler)
	auth.POST("/login", ctrl.LoginHandler)
}

// SignupHandler godoc
// @Summary Register a new account
// @Description Create an account and return a bearer token for it
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.SignupRequest true "New account credentials"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/signup [post]
func (ctrl *AuthController) SignupHandler(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind SignupRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	if _, err := ctrl.authSvc.Register(req.Username, req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyRegistered):
			c.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Email already registered"})
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Username, email and password are required"})
		default:
			log.Error().Err(err).Msg("Failed to register user")
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to register", Details: []string{err.Error()}})
		}
		return
	}

	user, token, err := ctrl.authSvc.Login(req.Email, req.Password)
	if err != nil {
		log.Error().Err(err).Msg("Failed to issue token after signup")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Account created, but token issuance failed. Please log in."})
		return
	}
	c.JSON(http.StatusCreated, dto.AuthResponse{Token: token, Email: user.Email, Username: user.Username})
}

// LoginHandler godoc
// @Summary Log in
// @Description Exchange email and password for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Account credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (ctrl *AuthController) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	user, token, err := ctrl.authSvc.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid email or password"})
			return
		}
		log.Error().Err(err).Msg("Failed to log user in")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to log in", Details: []string{err.Error()}})
		return
	}
	c.JSON(http.StatusOK, dto.AuthResponse{Token: token, Email: user.Email, Username: user.Username})
}
