package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/models/dto"
	"github.com/yigit/hostelhub/internal/app/services"
	"github.com/yigit/hostelhub/internal/middleware"
	"github.com/yigit/hostelhub/internal/pkg/helpers"
)

// MaintenanceController handles maintenance tickets
type MaintenanceController struct {
	maintenanceService services.MaintenanceService
	logger             zerolog.Logger
}

// NewMaintenanceController creates a new MaintenanceController
func NewMaintenanceController(maintenanceService services.MaintenanceService, logger zerolog.Logger) *MaintenanceController {
	return &MaintenanceController{
		maintenanceService: maintenanceService,
		logger:             logger,
	}
}

// ListMaintenanceRequests lists every ticket
// @Summary List maintenance requests
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(pending, in_progress, completed, rejected)
// @Success 200 {object} dto.APIResponse{data=[]models.MaintenanceRequest} "Maintenance requests retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid status filter"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Router /maintenance-requests [get]
func (c *MaintenanceController) ListMaintenanceRequests(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var query dto.RequestListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	requests, err := c.maintenanceService.ListAll(ctx.Request.Context(), p, query.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(requests, ""))
}

// CreateMaintenanceRequest files a ticket for the calling student
// @Summary Submit a maintenance request
// @Description The room defaults to the student's own. Priority defaults to medium.
// @Tags maintenance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateMaintenanceRequest true "Ticket"
// @Success 201 {object} dto.APIResponse{data=models.MaintenanceRequest} "Maintenance request submitted"
// @Failure 400 {object} dto.ErrorResponse "No room assigned or invalid room"
// @Failure 403 {object} dto.ErrorResponse "Student access required"
// @Router /maintenance-requests [post]
func (c *MaintenanceController) CreateMaintenanceRequest(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.CreateMaintenanceRequest
	if !bindJSON(ctx, &req) {
		return
	}

	ticket, err := c.maintenanceService.CreateRequest(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(ticket, "Maintenance request submitted successfully"))
}

// UpdateMaintenanceStatus records the admin decision
// @Summary Update maintenance status
// @Tags maintenance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Maintenance request ID"
// @Param request body dto.UpdateMaintenanceStatusRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=models.MaintenanceRequest} "Maintenance request updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 404 {object} dto.ErrorResponse "Maintenance request not found"
// @Router /maintenance-requests/{id} [put]
func (c *MaintenanceController) UpdateMaintenanceStatus(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateMaintenanceStatusRequest
	if !bindJSON(ctx, &req) {
		return
	}

	ticket, err := c.maintenanceService.SetStatus(ctx.Request.Context(), p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(ticket, "Maintenance request updated successfully"))
}

// DeleteMaintenanceRequest withdraws a ticket
// @Summary Delete a maintenance request
// @Description Owners may delete only while the request is pending. Admins may delete any request.
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Maintenance request ID"
// @Success 200 {object} dto.APIResponse "Maintenance request deleted"
// @Failure 400 {object} dto.ErrorResponse "Request is no longer pending"
// @Failure 403 {object} dto.ErrorResponse "Not your request"
// @Failure 404 {object} dto.ErrorResponse "Maintenance request not found"
// @Router /maintenance-requests/{id} [delete]
func (c *MaintenanceController) DeleteMaintenanceRequest(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.maintenanceService.DeleteRequest(ctx.Request.Context(), p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Maintenance request deleted successfully"))
}

// ListStudentMaintenanceRequests lists one student's tickets
// @Summary List a student's maintenance requests
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.MaintenanceRequest} "Maintenance requests retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Not your record"
// @Router /maintenance-requests/student/{id} [get]
func (c *MaintenanceController) ListStudentMaintenanceRequests(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	requests, err := c.maintenanceService.ListForStudent(ctx.Request.Context(), p, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(requests, ""))
}
