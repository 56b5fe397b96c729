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

// AttendanceController handles the attendance ledger
type AttendanceController struct {
	attendanceService services.AttendanceService
	logger            zerolog.Logger
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendanceService services.AttendanceService, logger zerolog.Logger) *AttendanceController {
	return &AttendanceController{
		attendanceService: attendanceService,
		logger:            logger,
	}
}

// UploadAttendance replaces a day's attendance
// @Summary Upload attendance for a date
// @Description Replaces every mark recorded for the date. Unknown or repeated students abort the whole upload.
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AttendanceUploadRequest true "Marks for one date"
// @Success 201 {object} dto.APIResponse{data=dto.AttendanceUploadResponse} "Attendance recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid upload"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Router /attendance/upload [post]
func (c *AttendanceController) UploadAttendance(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.AttendanceUploadRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.attendanceService.RecordForDate(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("date", resp.Date).Int("inserted", resp.Inserted).Msg("Attendance uploaded")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Attendance recorded successfully"))
}

// ListAttendanceByDate lists the marks of one day
// @Summary List attendance for a date
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=[]models.AttendanceRecord} "Attendance retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid date"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Router /attendance/date/{date} [get]
func (c *AttendanceController) ListAttendanceByDate(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	records, err := c.attendanceService.ListForDate(ctx.Request.Context(), p, ctx.Param("date"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(records, ""))
}

// ListStudentAttendance lists one student's marks
// @Summary List a student's attendance
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.AttendanceRecord} "Attendance retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Not your record"
// @Router /attendance/student/{id} [get]
func (c *AttendanceController) ListStudentAttendance(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	records, err := c.attendanceService.ListForStudent(ctx.Request.Context(), p, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(records, ""))
}

// AttendanceStats returns per-day totals
// @Summary Attendance statistics
// @Description Per-day totals for the last N days, newest first
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param days query int false "Window in days (1-365)" default(30)
// @Success 200 {object} dto.APIResponse{data=[]models.AttendanceDayStats} "Statistics retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid window"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Router /attendance/stats [get]
func (c *AttendanceController) AttendanceStats(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	days, err := helpers.ParseIntQuery(ctx, "days", services.DefaultStatsDays)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	stats, err := c.attendanceService.Stats(ctx.Request.Context(), p, days)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats, ""))
}
