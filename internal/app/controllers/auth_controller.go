package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/models/dto"
	"github.com/yigit/hostelhub/internal/app/services"
	"github.com/yigit/hostelhub/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// RegisterStudent handles student self-registration
// @Summary Register a new student
// @Description Creates a pending student account, emails the generated student ID and returns a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.StudentRegisterRequest true "Student registration information"
// @Success 201 {object} dto.APIResponse{data=dto.StudentAuthResponse} "Registration successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or validation error"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/register [post]
func (c *AuthController) RegisterStudent(ctx *gin.Context) {
	var req dto.StudentRegisterRequest
	if !bindJSON(ctx, &req) {
		c.logger.Warn().Msg("Invalid registration request payload")
		return
	}

	resp, err := c.authService.RegisterStudent(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, resp.Message))
}

// LoginStudent handles student login
// @Summary Student login
// @Description Authenticates a student by email and password and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.StudentLoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.StudentAuthResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/login [post]
func (c *AuthController) LoginStudent(ctx *gin.Context) {
	var req dto.StudentLoginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.LoginStudent(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Str("email", req.Email).Msg("Student login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, resp.Message))
}

// LoginAdmin handles administrator login
// @Summary Admin login
// @Description Authenticates an administrator by username and password and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AdminAuthResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/login [post]
func (c *AuthController) LoginAdmin(ctx *gin.Context) {
	var req dto.AdminLoginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.LoginAdmin(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Str("username", req.Username).Msg("Admin login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, resp.Message))
}
