package auth

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
)

// Authorization errors
var (
	ErrAdminOnly    = apperrors.NewForbiddenError("Admin access required")
	ErrStudentOnly  = apperrors.NewForbiddenError("Only students can perform this action")
	ErrNotOwner     = apperrors.NewForbiddenError("You can only access your own records")
	ErrNoPrincipal  = &apperrors.CustomError{Err: apperrors.ErrUnauthorized, Message: "Authentication required"}
	principalCtxKey = principalKey{}
)

type principalKey struct{}

// ContextKey is the gin context key the auth middleware stores the principal under
const ContextKey = "principal"

// Principal is the authenticated caller of a request
type Principal struct {
	ID         string
	Role       models.Role
	Email      string
	Name       string
	RoomNumber *string
}

// IsAdmin reports whether the caller is an administrator
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == models.RoleAdmin
}

// IsStudent reports whether the caller is a student
func (p *Principal) IsStudent() bool {
	return p != nil && p.Role == models.RoleStudent
}

// AdminID returns the numeric id of an admin principal
func (p *Principal) AdminID() (int64, error) {
	if !p.IsAdmin() {
		return 0, ErrAdminOnly
	}
	id, err := strconv.ParseInt(p.ID, 10, 64)
	if err != nil {
		return 0, ErrNoPrincipal
	}
	return id, nil
}

// RequireAdmin allows administrators only
func RequireAdmin(p *Principal) error {
	if p == nil {
		return ErrNoPrincipal
	}
	if !p.IsAdmin() {
		return ErrAdminOnly
	}
	return nil
}

// RequireStudent allows students only
func RequireStudent(p *Principal) error {
	if p == nil {
		return ErrNoPrincipal
	}
	if !p.IsStudent() {
		return ErrStudentOnly
	}
	return nil
}

// CanAccessStudent allows administrators and the student themself
func CanAccessStudent(p *Principal, studentID string) error {
	if p == nil {
		return ErrNoPrincipal
	}
	if p.IsAdmin() || (p.IsStudent() && p.ID == studentID) {
		return nil
	}
	return ErrNotOwner
}

// CanDeleteRequest decides whether p may delete a leave or maintenance
// request owned by ownerID. Admins always may; owners only while the
// request is still pending.
func CanDeleteRequest(p *Principal, ownerID string, pending bool) error {
	if p == nil {
		return ErrNoPrincipal
	}
	if p.IsAdmin() {
		return nil
	}
	if !p.IsStudent() || p.ID != ownerID {
		return ErrNotOwner
	}
	if !pending {
		return apperrors.ErrRequestNotPending
	}
	return nil
}

// SetPrincipal stores the caller on the gin context
func SetPrincipal(c *gin.Context, p *Principal) {
	c.Set(ContextKey, p)
	c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))
}

// PrincipalFrom returns the caller stored by the auth middleware
func PrincipalFrom(c *gin.Context) (*Principal, error) {
	v, ok := c.Get(ContextKey)
	if !ok {
		return nil, ErrNoPrincipal
	}
	p, ok := v.(*Principal)
	if !ok || p == nil {
		return nil, ErrNoPrincipal
	}
	return p, nil
}

// WithPrincipal returns a context carrying p
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, p)
}

// FromContext returns the principal carried by ctx, if any
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalCtxKey).(*Principal)
	return p, ok && p != nil
}
