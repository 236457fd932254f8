// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/oguzk/campdir/internal/app/auth"
	"github.com/oguzk/campdir/internal/app/models/dto"
	"github.com/oguzk/campdir/internal/middleware"
)

// parseIDParam reads a positive integer path parameter. It writes the
// 400 response itself; the caller only checks ok.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id < 1 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid "+name+" parameter"))
		return 0, false
	}
	return id, true
}

// requireIdentity returns the authenticated caller. Reaching a guarded
// handler without one means the route is miswired, so this responds 401
// rather than panicking.
func requireIdentity(ctx *gin.Context) (auth.Identity, bool) {
	ident, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("authentication required"))
		return auth.Identity{}, false
	}
	return ident, true
}
