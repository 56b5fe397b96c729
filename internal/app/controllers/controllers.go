// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appAuth "github.com/yigit/hostelhub/internal/app/auth"
	"github.com/yigit/hostelhub/internal/app/models/dto"
	"github.com/yigit/hostelhub/internal/middleware"
)

// bindJSON decodes the request body into req and writes a 400 on failure
func bindJSON(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return false
	}
	return true
}

// principal returns the authenticated caller, writing a 401 when there is none
func principal(ctx *gin.Context) (*appAuth.Principal, bool) {
	p, err := appAuth.PrincipalFrom(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return nil, false
	}
	return p, true
}
