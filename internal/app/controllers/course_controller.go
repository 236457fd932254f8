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

// CourseController handles course related operations
type CourseController struct {
	courseService services.CourseService
	logger        zerolog.Logger
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService, logger zerolog.Logger) *CourseController {
	return &CourseController{
		courseService: courseService,
		logger:        logger,
	}
}

// List returns courses, optionally scoped to one bootcamp
// @Summary List courses
// @Tags courses
// @Produce json
// @Param bootcampId path int false "Bootcamp ID when nested"
// @Success 200 {object} query.Envelope
// @Router /courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	var bootcampID *int64
	if ctx.Param("bootcampId") != "" {
		id, ok := parseIDParam(ctx, "bootcampId")
		if !ok {
			return
		}
		bootcampID = &id
	}

	courses, total, d, err := c.courseService.List(ctx.Request.Context(), ctx.Request.URL.Query(), bootcampID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	data := d.Project(courses)
	ctx.JSON(http.StatusOK, query.Wrap(data, len(courses), d.Page, d.Limit, total))
}

// Get returns one course
// @Summary Get a course
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(course))
}

// Create adds a course under a bootcamp
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param bootcampId path int true "Bootcamp ID"
// @Param request body dto.CreateCourseRequest true "Course fields"
// @Success 201 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Caller does not own the bootcamp"
// @Failure 404 {object} dto.ErrorResponse "Bootcamp not found"
// @Router /bootcamps/{bootcampId}/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	ident, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	bootcampID, ok := parseIDParam(ctx, "bootcampId")
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	course, err := c.courseService.Create(ctx.Request.Context(), ident, bootcampID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("courseID", course.ID).Int64("bootcampID", bootcampID).Msg("Course created")
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(course))
}

// Update patches a course
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Caller does not own this course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	ident, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	course, err := c.courseService.Update(ctx.Request.Context(), ident, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(course))
}

// Delete removes a course
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Caller does not own this course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	ident, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.Delete(ctx.Request.Context(), ident, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{}))
}
