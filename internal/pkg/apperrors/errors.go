package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrUnauthorized       = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Throttling
	ErrRateLimited = errors.New("too many requests")
)

// Machine-readable codes surfaced to clients alongside the HTTP status.
const (
	CodeNoRoomAssigned  = "NO_ROOM_ASSIGNED"
	CodeInvalidRoom     = "INVALID_ROOM"
	CodeRoomFull        = "ROOM_FULL"
	CodeRoomUnavailable = "ROOM_NOT_AVAILABLE"
	CodeAlreadyAssigned = "ALREADY_ASSIGNED"
	CodeLeaveOverlap    = "LEAVE_OVERLAP"
)

// Student errors
var (
	ErrStudentNotFound    = NewResourceNotFoundError("Student not found")
	ErrEmailAlreadyExists = NewConflictError("Email already registered")
)

// Room errors
var (
	ErrRoomNotFound           = NewResourceNotFoundError("Room not found")
	ErrRoomAlreadyExists      = NewConflictError("Room with this number already exists")
	ErrRoomHasStudents        = NewConflictError("Cannot delete room with assigned students")
	ErrRoomNotAvailable       = NewBadRequestError("Room is not available").WithCode(CodeRoomUnavailable)
	ErrRoomFull               = NewConflictError("Room is already full").WithCode(CodeRoomFull)
	ErrAlreadyAssigned        = NewConflictError("Student is already assigned to a room").WithCode(CodeAlreadyAssigned)
	ErrCapacityBelowOccupancy = NewConflictError("Capacity cannot be lower than the number of assigned students")
	ErrStudentNotInRoom       = NewBadRequestError("Student is not assigned to the specified room")
)

// Request workflow errors
var (
	ErrLeaveRequestNotFound       = NewResourceNotFoundError("Leave request not found")
	ErrMaintenanceRequestNotFound = NewResourceNotFoundError("Maintenance request not found")
	ErrRequestNotPending          = NewBadRequestError("Only pending requests can be deleted")
	ErrNoRoomAssigned             = NewBadRequestError("You are not assigned to any room").WithCode(CodeNoRoomAssigned)
	ErrInvalidRoom                = NewBadRequestError("Room does not exist").WithCode(CodeInvalidRoom)
	ErrLeaveOverlap               = NewConflictError("You already have a leave request for these dates").WithCode(CodeLeaveOverlap)
)

// Notice and admin errors
var (
	ErrNoticeNotFound       = NewResourceNotFoundError("Notice not found")
	ErrAdminNotFound        = NewResourceNotFoundError("Admin not found")
	ErrAdminAlreadyExists   = NewConflictError("Username or email already exists")
	ErrWrongCurrentPassword = &CustomError{Err: ErrInvalidCredentials, Message: "Current password is incorrect"}
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) *CustomError {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) *CustomError {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) *CustomError {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) *CustomError {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError creates a validation error carrying a user-facing message
func NewValidationError(message string) *CustomError {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// Is returns whether err matches target or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails returns a copy of the error carrying context details.
// Sentinels are shared, so the receiver is never mutated.
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithCode returns a copy of the error carrying a machine-readable code
func (e *CustomError) WithCode(code string) *CustomError {
	cp := *e
	cp.Code = code
	return &cp
}

// WithMessage returns a copy of the error with a different user-facing message
func (e *CustomError) WithMessage(message string) *CustomError {
	cp := *e
	cp.Message = message
	return &cp
}

// Is lets copies made by the With* helpers still match the sentinel they came from.
// Coded sentinels match on category and code, the rest on category and message.
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	if !ok || e.Err != t.Err {
		return false
	}
	if t.Code != "" {
		return e.Code == t.Code
	}
	return e.Message == t.Message
}
