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

// ReviewController handles review related operations
type ReviewController struct {
	reviewService services.ReviewService
	logger        zerolog.Logger
}

// NewReviewController creates a new ReviewController
func NewReviewController(reviewService services.ReviewService, logger zerolog.Logger) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
		logger:        logger,
	}
}

// List returns reviews, optionally scoped to one bootcamp
// @Summary List reviews
// @Tags reviews
// @Produce json
// @Param bootcampId path int false "Bootcamp ID when nested"
// @Success 200 {object} query.Envelope
// @Router /reviews [get]
func (c *ReviewController) List(ctx *gin.Context) {
	var bootcampID *int64
	if ctx.Param("bootcampId") != "" {
		id, ok := parseIDParam(ctx, "bootcampId")
		if !ok {
			return
		}
		bootcampID = &id
	}

	reviews, total, d, err := c.reviewService.List(ctx.Request.Context(), ctx.Request.URL.Query(), bootcampID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	data := d.Project(reviews)
	ctx.JSON(http.StatusOK, query.Wrap(data, len(reviews), d.Page, d.Limit, total))
}

// Get returns one review
// @Summary Get a review
// @Tags reviews
// @Produce json
// @Param id path int true "Review ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Review not found"
// @Router /reviews/{id} [get]
func (c *ReviewController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	review, err := c.reviewService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(review))
}

// Create adds a review for a bootcamp
// @Summary Create a review
// @Description The author must be a participant of the bootcamp unless they are an admin
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param bootcampId path int true "Bootcamp ID"
// @Param request body dto.CreateReviewRequest true "Review fields"
// @Success 201 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Caller is not a participant"
// @Failure 409 {object} dto.ErrorResponse "Caller already reviewed this bootcamp"
// @Router /bootcamps/{bootcampId}/reviews [post]
func (c *ReviewController) Create(ctx *gin.Context) {
	ident, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	bootcampID, ok := parseIDParam(ctx, "bootcampId")
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	review, err := c.reviewService.Create(ctx.Request.Context(), ident, bootcampID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("reviewID", review.ID).Int64("bootcampID", bootcampID).Msg("Review created")
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(review))
}

// Update patches a review
// @Summary Update a review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Param request body dto.UpdateReviewRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Caller is not the author"
// @Failure 404 {object} dto.ErrorResponse "Review not found"
// @Router /reviews/{id} [put]
func (c *ReviewController) Update(ctx *gin.Context) {
	ident, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	review, err := c.reviewService.Update(ctx.Request.Context(), ident, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(review))
}

// Delete removes a review
// @Summary Delete a review
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Caller is not the author"
// @Failure 404 {object} dto.ErrorResponse "Review not found"
// @Router /reviews/{id} [delete]
func (c *ReviewController) Delete(ctx *gin.Context) {
	ident, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.reviewService.Delete(ctx.Request.Context(), ident, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{}))
}
