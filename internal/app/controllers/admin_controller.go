package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/models/dto"
	"github.com/yigit/hostelhub/internal/app/services"
	"github.com/yigit/hostelhub/internal/middleware"
)

// AdminController handles the admin console
type AdminController struct {
	adminService services.AdminService
	logger       zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService services.AdminService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		logger:       logger,
	}
}

// RegisterAdmin creates another administrator
// @Summary Register an administrator
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AdminRegisterRequest true "Administrator information"
// @Success 201 {object} dto.APIResponse{data=models.Admin} "Administrator created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 409 {object} dto.ErrorResponse "Username or email already exists"
// @Router /admin/register [post]
func (c *AdminController) RegisterAdmin(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.AdminRegisterRequest
	if !bindJSON(ctx, &req) {
		return
	}

	admin, err := c.adminService.RegisterAdmin(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("username", admin.Username).Msg("Administrator registered")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(admin, "Admin registered successfully"))
}

// ChangePassword changes the caller's password
// @Summary Change password
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} dto.APIResponse "Password changed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 401 {object} dto.ErrorResponse "Current password is incorrect"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Router /admin/change-password [post]
func (c *AdminController) ChangePassword(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.adminService.ChangePassword(ctx.Request.Context(), p, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Password changed successfully"))
}

// Dashboard returns the console counters
// @Summary Admin dashboard
// @Description Student, room and pending request counters
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse} "Dashboard retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Router /admin/dashboard [get]
func (c *AdminController) Dashboard(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	stats, err := c.adminService.Dashboard(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats, ""))
}
