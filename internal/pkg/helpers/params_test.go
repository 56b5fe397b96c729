package helpers

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
)

func testContext(target string, params gin.Params) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	c.Params = params
	return c
}

func TestParseIDParam(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"42", 42, false},
		{" 7 ", 7, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"12abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c := testContext("/", gin.Params{{Key: "id", Value: tt.raw}})
			got, err := ParseIDParam(c, "id")
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrValidationFailed) {
					t.Errorf("err = %v, want validation error", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("got %d, %v; want %d", got, err, tt.want)
			}
		})
	}
}

func TestParseIntQuery(t *testing.T) {
	if v, err := ParseIntQuery(testContext("/stats", nil), "days", 30); err != nil || v != 30 {
		t.Errorf("absent: got %d, %v", v, err)
	}
	if v, err := ParseIntQuery(testContext("/stats?days=7", nil), "days", 30); err != nil || v != 7 {
		t.Errorf("present: got %d, %v", v, err)
	}
	if _, err := ParseIntQuery(testContext("/stats?days=week", nil), "days", 30); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("garbage: got %v", err)
	}
}
