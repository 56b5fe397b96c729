package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/models/dto"
	"github.com/yigit/hostelhub/internal/app/services"
	"github.com/yigit/hostelhub/internal/middleware"
)

// RoomController handles room inventory and assignment
type RoomController struct {
	roomService services.RoomService
	logger      zerolog.Logger
}

// NewRoomController creates a new RoomController
func NewRoomController(roomService services.RoomService, logger zerolog.Logger) *RoomController {
	return &RoomController{
		roomService: roomService,
		logger:      logger,
	}
}

// ListRooms lists all rooms
// @Summary List rooms
// @Description Lists every room ordered by room number with derived occupancy
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.RoomOccupancy} "Rooms retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /rooms [get]
func (c *RoomController) ListRooms(ctx *gin.Context) {
	rooms, err := c.roomService.ListRooms(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(rooms, ""))
}

// ListAvailableRooms lists rooms that can take another student
// @Summary List available rooms
// @Description Lists rooms flagged available that still have a free bed
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.RoomOccupancy} "Rooms retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /rooms/available [get]
func (c *RoomController) ListAvailableRooms(ctx *gin.Context) {
	rooms, err := c.roomService.ListAvailableRooms(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(rooms, ""))
}

// GetRoom returns a room with its occupants
// @Summary Get a room
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param roomNumber path string true "Room number"
// @Success 200 {object} dto.APIResponse{data=dto.RoomDetailResponse} "Room retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Room not found"
// @Router /rooms/{roomNumber} [get]
func (c *RoomController) GetRoom(ctx *gin.Context) {
	room, err := c.roomService.GetRoom(ctx.Request.Context(), ctx.Param("roomNumber"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(room, ""))
}

// ListRoomStudents lists the students assigned to a room
// @Summary List room occupants
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param roomNumber path string true "Room number"
// @Success 200 {object} dto.APIResponse{data=[]models.Student} "Students retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Room not found"
// @Router /rooms/{roomNumber}/students [get]
func (c *RoomController) ListRoomStudents(ctx *gin.Context) {
	students, err := c.roomService.ListRoomStudents(ctx.Request.Context(), ctx.Param("roomNumber"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(students, ""))
}

// CreateRoom registers a new room
// @Summary Create a room
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRoomRequest true "Room information"
// @Success 201 {object} dto.APIResponse{data=models.RoomOccupancy} "Room created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 409 {object} dto.ErrorResponse "Room number already exists"
// @Router /rooms [post]
func (c *RoomController) CreateRoom(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.CreateRoomRequest
	if !bindJSON(ctx, &req) {
		return
	}

	room, err := c.roomService.CreateRoom(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(room, "Room created successfully"))
}

// UpdateRoom applies a partial room update
// @Summary Update a room
// @Description Capacity cannot drop below the current number of occupants
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param roomNumber path string true "Room number"
// @Param request body dto.UpdateRoomRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.RoomOccupancy} "Room updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 404 {object} dto.ErrorResponse "Room not found"
// @Failure 409 {object} dto.ErrorResponse "Capacity below occupancy"
// @Router /rooms/{roomNumber} [put]
func (c *RoomController) UpdateRoom(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.UpdateRoomRequest
	if !bindJSON(ctx, &req) {
		return
	}

	room, err := c.roomService.UpdateRoom(ctx.Request.Context(), p, ctx.Param("roomNumber"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(room, "Room updated successfully"))
}

// DeleteRoom removes an empty room
// @Summary Delete a room
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param roomNumber path string true "Room number"
// @Success 200 {object} dto.APIResponse "Room deleted"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 404 {object} dto.ErrorResponse "Room not found"
// @Failure 409 {object} dto.ErrorResponse "Room still has occupants"
// @Router /rooms/{roomNumber} [delete]
func (c *RoomController) DeleteRoom(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	if err := c.roomService.DeleteRoom(ctx.Request.Context(), p, ctx.Param("roomNumber")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Room deleted successfully"))
}

// AssignStudent places a student in a room
// @Summary Assign a student to a room
// @Description Fails when the room is full or not available, or when the student already has a room
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param roomNumber path string true "Room number"
// @Param request body dto.RoomStudentRequest true "Student to assign"
// @Success 200 {object} dto.APIResponse{data=models.RoomOccupancy} "Student assigned"
// @Failure 400 {object} dto.ErrorResponse "Room not available"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 404 {object} dto.ErrorResponse "Room or student not found"
// @Failure 409 {object} dto.ErrorResponse "Room full or student already assigned"
// @Router /rooms/{roomNumber}/assign [post]
func (c *RoomController) AssignStudent(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.RoomStudentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	room, err := c.roomService.AssignStudent(ctx.Request.Context(), p, ctx.Param("roomNumber"), req.ID())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(room, "Student assigned successfully"))
}

// RemoveStudent takes a student out of a room
// @Summary Remove a student from a room
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param roomNumber path string true "Room number"
// @Param request body dto.RoomStudentRequest true "Student to remove"
// @Success 200 {object} dto.APIResponse{data=models.RoomOccupancy} "Student removed"
// @Failure 400 {object} dto.ErrorResponse "Student is not in this room"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 404 {object} dto.ErrorResponse "Room or student not found"
// @Router /rooms/{roomNumber}/remove [post]
func (c *RoomController) RemoveStudent(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.RoomStudentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	room, err := c.roomService.RemoveStudent(ctx.Request.Context(), p, ctx.Param("roomNumber"), req.ID())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(room, "Student removed successfully"))
}
