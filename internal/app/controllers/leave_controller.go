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

// LeaveController handles leave requests
type LeaveController struct {
	leaveService services.LeaveService
	logger       zerolog.Logger
}

// NewLeaveController creates a new LeaveController
func NewLeaveController(leaveService services.LeaveService, logger zerolog.Logger) *LeaveController {
	return &LeaveController{
		leaveService: leaveService,
		logger:       logger,
	}
}

// ListLeaveRequests lists every leave request
// @Summary List leave requests
// @Tags leave
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(pending, approved, rejected)
// @Success 200 {object} dto.APIResponse{data=[]models.LeaveRequest} "Leave requests retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid status filter"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Router /leave-requests [get]
func (c *LeaveController) ListLeaveRequests(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var query dto.RequestListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	requests, err := c.leaveService.ListAll(ctx.Request.Context(), p, query.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(requests, ""))
}

// CreateLeaveRequest files a leave request for the calling student
// @Summary Request leave
// @Description The interval may not overlap another pending or approved request of the same student
// @Tags leave
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateLeaveRequest true "Leave interval"
// @Success 201 {object} dto.APIResponse{data=models.LeaveRequest} "Leave request submitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid dates"
// @Failure 403 {object} dto.ErrorResponse "Student access required"
// @Failure 409 {object} dto.ErrorResponse "Overlapping leave request"
// @Router /leave-requests [post]
func (c *LeaveController) CreateLeaveRequest(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.CreateLeaveRequest
	if !bindJSON(ctx, &req) {
		return
	}

	leave, err := c.leaveService.CreateLeave(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(leave, "Leave request submitted successfully"))
}

// UpdateLeaveStatus records the admin decision
// @Summary Update leave status
// @Tags leave
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave request ID"
// @Param request body dto.UpdateLeaveStatusRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=models.LeaveRequest} "Leave request updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 404 {object} dto.ErrorResponse "Leave request not found"
// @Failure 409 {object} dto.ErrorResponse "Overlapping leave request"
// @Router /leave-requests/{id} [put]
func (c *LeaveController) UpdateLeaveStatus(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateLeaveStatusRequest
	if !bindJSON(ctx, &req) {
		return
	}

	leave, err := c.leaveService.SetStatus(ctx.Request.Context(), p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(leave, "Leave request updated successfully"))
}

// DeleteLeaveRequest withdraws a leave request
// @Summary Delete a leave request
// @Description Owners may delete only while the request is pending. Admins may delete any request.
// @Tags leave
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave request ID"
// @Success 200 {object} dto.APIResponse "Leave request deleted"
// @Failure 400 {object} dto.ErrorResponse "Request is no longer pending"
// @Failure 403 {object} dto.ErrorResponse "Not your request"
// @Failure 404 {object} dto.ErrorResponse "Leave request not found"
// @Router /leave-requests/{id} [delete]
func (c *LeaveController) DeleteLeaveRequest(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.leaveService.DeleteLeave(ctx.Request.Context(), p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Leave request deleted successfully"))
}

// ListStudentLeaveRequests lists one student's leave requests
// @Summary List a student's leave requests
// @Tags leave
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.LeaveRequest} "Leave requests retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Not your record"
// @Router /leave-requests/student/{id} [get]
func (c *LeaveController) ListStudentLeaveRequests(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	requests, err := c.leaveService.ListForStudent(ctx.Request.Context(), p, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(requests, ""))
}
