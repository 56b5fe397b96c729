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

// NoticeController handles the notice board
type NoticeController struct {
	noticeService services.NoticeService
	logger        zerolog.Logger
}

// NewNoticeController creates a new NoticeController
func NewNoticeController(noticeService services.NoticeService, logger zerolog.Logger) *NoticeController {
	return &NoticeController{
		noticeService: noticeService,
		logger:        logger,
	}
}

// ListNotices lists all notices
// @Summary List notices
// @Description Lists notices newest first with the author's name
// @Tags notices
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Notice} "Notices retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /notices [get]
func (c *NoticeController) ListNotices(ctx *gin.Context) {
	notices, err := c.noticeService.ListNotices(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(notices, ""))
}

// GetNotice returns one notice
// @Summary Get a notice
// @Tags notices
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notice ID"
// @Success 200 {object} dto.APIResponse{data=models.Notice} "Notice retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Notice not found"
// @Router /notices/{id} [get]
func (c *NoticeController) GetNotice(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	notice, err := c.noticeService.GetNotice(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(notice, ""))
}

// CreateNotice publishes a notice
// @Summary Create a notice
// @Description Publishes a notice and pushes notice.created to WebSocket subscribers
// @Tags notices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateNoticeRequest true "Notice"
// @Success 201 {object} dto.APIResponse{data=models.Notice} "Notice created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Router /notices [post]
func (c *NoticeController) CreateNotice(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.CreateNoticeRequest
	if !bindJSON(ctx, &req) {
		return
	}

	notice, err := c.noticeService.CreateNotice(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(notice, "Notice created successfully"))
}

// UpdateNotice edits a notice
// @Summary Update a notice
// @Tags notices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notice ID"
// @Param request body dto.UpdateNoticeRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Notice} "Notice updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 404 {object} dto.ErrorResponse "Notice not found"
// @Router /notices/{id} [put]
func (c *NoticeController) UpdateNotice(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateNoticeRequest
	if !bindJSON(ctx, &req) {
		return
	}

	notice, err := c.noticeService.UpdateNotice(ctx.Request.Context(), p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(notice, "Notice updated successfully"))
}

// DeleteNotice removes a notice
// @Summary Delete a notice
// @Tags notices
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notice ID"
// @Success 200 {object} dto.APIResponse "Notice deleted"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 404 {object} dto.ErrorResponse "Notice not found"
// @Router /notices/{id} [delete]
func (c *NoticeController) DeleteNotice(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.noticeService.DeleteNotice(ctx.Request.Context(), p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Notice deleted successfully"))
}
