package auth

import (
	"errors"
	"testing"

	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
)

var (
	admin   = &Principal{ID: "1", Role: models.RoleAdmin, Name: "admin"}
	ann     = &Principal{ID: "PFX2025001", Role: models.RoleStudent, Name: "Ann"}
	bob     = &Principal{ID: "PFX2025002", Role: models.RoleStudent, Name: "Bob"}
	unknown = &Principal{ID: "x", Role: models.Role("guest")}
)

func TestRequireRole(t *testing.T) {
	if err := RequireAdmin(admin); err != nil {
		t.Errorf("admin rejected: %v", err)
	}
	if err := RequireAdmin(ann); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("student passed admin check: %v", err)
	}
	if err := RequireStudent(ann); err != nil {
		t.Errorf("student rejected: %v", err)
	}
	if err := RequireStudent(admin); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("admin passed student check: %v", err)
	}
	if err := RequireAdmin(nil); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("nil principal: %v", err)
	}
}

func TestCanAccessStudent(t *testing.T) {
	tests := []struct {
		name    string
		p       *Principal
		target  string
		allowed bool
	}{
		{"admin", admin, "PFX2025001", true},
		{"self", ann, "PFX2025001", true},
		{"other student", bob, "PFX2025001", false},
		{"unknown role", unknown, "x", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanAccessStudent(tt.p, tt.target)
			if (err == nil) != tt.allowed {
				t.Errorf("CanAccessStudent() = %v, allowed %v", err, tt.allowed)
			}
		})
	}
}

func TestCanDeleteRequest(t *testing.T) {
	tests := []struct {
		name    string
		p       *Principal
		pending bool
		want    error
	}{
		{"admin pending", admin, true, nil},
		{"admin decided", admin, false, nil},
		{"owner pending", ann, true, nil},
		{"owner decided", ann, false, apperrors.ErrBadRequest},
		{"stranger", bob, true, apperrors.ErrPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanDeleteRequest(tt.p, ann.ID, tt.pending)
			if tt.want == nil {
				if err != nil {
					t.Errorf("unexpected error %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAdminID(t *testing.T) {
	id, err := admin.AdminID()
	if err != nil || id != 1 {
		t.Errorf("AdminID() = %d, %v", id, err)
	}
	if _, err := ann.AdminID(); err == nil {
		t.Error("student has no admin id")
	}
}
