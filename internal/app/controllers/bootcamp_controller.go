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

// BootcampController handles bootcamp related operations
type BootcampController struct {
	bootcampService services.BootcampService
	logger          zerolog.Logger
}

// NewBootcampController creates a new BootcampController
func NewBootcampController(bootcampService services.BootcampService, logger zerolog.Logger) *BootcampController {
	return &BootcampController{
		bootcampService: bootcampService,
		logger:          logger,
	}
}

// List returns bootcamps matching the request query
// @Summary List bootcamps
// @Description Supports filtering (field[op]=value), select, sort, page and limit parameters
// @Tags bootcamps
// @Produce json
// @Success 200 {object} query.Envelope
// @Failure 400 {object} dto.ErrorResponse "Unknown filter field or operator"
// @Router /bootcamps [get]
func (c *BootcampController) List(ctx *gin.Context) {
	bootcamps, total, d, err := c.bootcampService.List(ctx.Request.Context(), ctx.Request.URL.Query())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	data := d.Project(bootcamps)
	ctx.JSON(http.StatusOK, query.Wrap(data, len(bootcamps), d.Page, d.Limit, total))
}

// Get returns one bootcamp with its courses and participants
// @Summary Get a bootcamp
// @Tags bootcamps
// @Produce json
// @Param bootcampId path int true "Bootcamp ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Bootcamp not found"
// @Router /bootcamps/{bootcampId} [get]
func (c *BootcampController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "bootcampId")
	if !ok {
		return
	}

	b, err := c.bootcampService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(b))
}

// Create publishes a new bootcamp
// @Summary Create a bootcamp
// @Description Publishers may own one bootcamp; admins may create any number
// @Tags bootcamps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBootcampRequest true "Bootcamp fields"
// @Success 201 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Role not allowed to publish"
// @Failure 409 {object} dto.ErrorResponse "Caller already owns a bootcamp"
// @Router /bootcamps [post]
func (c *BootcampController) Create(ctx *gin.Context) {
	ident, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	var req dto.CreateBootcampRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	b, err := c.bootcampService.Create(ctx.Request.Context(), ident, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("bootcampID", b.ID).Int64("ownerID", ident.UserID).Msg("Bootcamp created")
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(b))
}

// Update patches a bootcamp
// @Summary Update a bootcamp
// @Tags bootcamps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param bootcampId path int true "Bootcamp ID"
// @Param request body dto.UpdateBootcampRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Caller does not own this bootcamp"
// @Failure 404 {object} dto.ErrorResponse "Bootcamp not found"
// @Router /bootcamps/{bootcampId} [put]
func (c *BootcampController) Update(ctx *gin.Context) {
	ident, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "bootcampId")
	if !ok {
		return
	}

	var req dto.UpdateBootcampRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	b, err := c.bootcampService.Update(ctx.Request.Context(), ident, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(b))
}

// Delete removes a bootcamp and everything under it
// @Summary Delete a bootcamp
// @Tags bootcamps
// @Produce json
// @Security BearerAuth
// @Param bootcampId path int true "Bootcamp ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Caller does not own this bootcamp"
// @Failure 404 {object} dto.ErrorResponse "Bootcamp not found"
// @Router /bootcamps/{bootcampId} [delete]
func (c *BootcampController) Delete(ctx *gin.Context) {
	ident, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "bootcampId")
	if !ok {
		return
	}

	if err := c.bootcampService.Delete(ctx.Request.Context(), ident, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("bootcampID", id).Msg("Bootcamp deleted")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{}))
}

// RegisterParticipant registers a user for a bootcamp
// @Summary Register a participant
// @Description Admin only. Duplicate registration is a conflict.
// @Tags bootcamps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param bootcampId path int true "Bootcamp ID"
// @Param request body dto.RegisterParticipantRequest true "User to register"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 409 {object} dto.ErrorResponse "User already registered"
// @Router /bootcamps/{bootcampId}/participants [post]
func (c *BootcampController) RegisterParticipant(ctx *gin.Context) {
	ident, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "bootcampId")
	if !ok {
		return
	}

	var req dto.RegisterParticipantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	b, err := c.bootcampService.RegisterParticipant(ctx.Request.Context(), ident, id, req.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("bootcampID", id).Int64("userID", req.UserID).Msg("Participant registered")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(b))
}
