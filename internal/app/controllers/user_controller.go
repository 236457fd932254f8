package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/oguzk/campdir/internal/app/models/dto"
	"github.com/oguzk/campdir/internal/app/query"
	"github.com/oguzk/campdir/internal/app/services"
	"github.com/oguzk/campdir/internal/middleware"
)

// UserController handles administrative user operations
type UserController struct {
	userService services.UserService
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService, logger zerolog.Logger) *UserController {
	return &UserController{
		userService: userService,
		logger:      logger,
	}
}

// List returns users matching the request query. Admin only.
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} query.Envelope
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /users [get]
func (c *UserController) List(ctx *gin.Context) {
	ident, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	users, total, d, err := c.userService.List(ctx.Request.Context(), ident, ctx.Request.URL.Query())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	data := d.Project(users)
	ctx.JSON(http.StatusOK, query.Wrap(data, len(users), d.Page, d.Limit, total))
}

// Get returns one user. Admin only.
// @Summary Get a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (c *UserController) Get(ctx *gin.Context) {
	ident, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	user, err := c.userService.Get(ctx.Request.Context(), ident, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(user))
}

// Create provisions a user with any role. Admin only.
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateUserRequest true "User fields"
// @Success 201 {object} dto.APIResponse
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /users [post]
func (c *UserController) Create(ctx *gin.Context) {
	ident, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	user, err := c.userService.Create(ctx.Request.Context(), ident, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User created by admin")
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(user))
}

// Update patches a user. Admin only.
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.UpdateUserRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [put]
func (c *UserController) Update(ctx *gin.Context) {
	ident, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	user, err := c.userService.Update(ctx.Request.Context(), ident, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(user))
}

// Delete removes a user. Admin only.
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [delete]
func (c *UserController) Delete(ctx *gin.Context) {
	ident, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.userService.Delete(ctx.Request.Context(), ident, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", id).Msg("User deleted by admin")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{}))
}
