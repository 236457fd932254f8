package controllers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/oguzk/campdir/internal/app/auth"
	"github.com/oguzk/campdir/internal/app/models"
	"github.com/oguzk/campdir/internal/app/models/dto"
	"github.com/oguzk/campdir/internal/app/query"
)

// ---- mock implementation ----

type mockCourseService struct {
	listFn   func(ctx context.Context, raw url.Values, bootcampID *int64) ([]*models.Course, int64, *query.Descriptor, error)
	getFn    func(ctx context.Context, id int64) (*models.Course, error)
	createFn func(ctx context.Context, ident auth.Identity, bootcampID int64, req *dto.CreateCourseRequest) (*models.Course, error)
	updateFn func(ctx context.Context, ident auth.Identity, id int64, req *dto.UpdateCourseRequest) (*models.Course, error)
	deleteFn func(ctx context.Context, ident auth.Identity, id int64) error
}

func (m *mockCourseService) List(ctx context.Context, raw url.Values, bootcampID *int64) ([]*models.Course, int64, *query.Descriptor, error) {
	if m.listFn != nil {
		return m.listFn(ctx, raw, bootcampID)
	}
	return nil, 0, nil, fmt.Errorf("not configured")
}

func (m *mockCourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockCourseService) Create(ctx context.Context, ident auth.Identity, bootcampID int64, req *dto.CreateCourseRequest) (*models.Course, error) {
	if m.createFn != nil {
		return m.createFn(ctx, ident, bootcampID, req)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockCourseService) Update(ctx context.Context, ident auth.Identity, id int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, ident, id, req)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockCourseService) Delete(ctx context.Context, ident auth.Identity, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, ident, id)
	}
	return fmt.Errorf("not configured")
}

func newCourseTestRouter(svc *mockCourseService, ident *auth.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ctrl := NewCourseController(svc, zerolog.Nop())

	g := r.Group("/api/v1")
	if ident != nil {
		g.Use(fakeIdentity(*ident))
	}
	g.POST("/bootcamps/:bootcampId/courses", ctrl.Create)
	return r
}

// ---- tests ----

func TestCourseCreate(t *testing.T) {
	publisher := auth.Identity{UserID: 7, Role: models.RolePublisher}

	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
	}{
		{
			name: "success",
			body: map[string]interface{}{
				"title": "Full Stack Web Dev", "description": "Front and back",
				"weeks": 12, "tuition": 10000, "minimumSkill": "intermediate",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "free course is valid",
			body: map[string]interface{}{
				"title": "Intro Workshop", "description": "Open evening",
				"weeks": 1, "tuition": 0, "minimumSkill": "beginner",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "missing title",
			body: map[string]interface{}{
				"description": "Front and back",
				"weeks":       12, "tuition": 10000, "minimumSkill": "intermediate",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "negative tuition",
			body: map[string]interface{}{
				"title": "Full Stack Web Dev", "description": "Front and back",
				"weeks": 12, "tuition": -1, "minimumSkill": "intermediate",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown skill level",
			body: map[string]interface{}{
				"title": "Full Stack Web Dev", "description": "Front and back",
				"weeks": 12, "tuition": 10000, "minimumSkill": "wizard",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCourseService{
				createFn: func(ctx context.Context, ident auth.Identity, bootcampID int64, req *dto.CreateCourseRequest) (*models.Course, error) {
					return &models.Course{ID: 1, Title: req.Title, Tuition: req.Tuition, BootcampID: bootcampID, OwnerID: ident.UserID}, nil
				},
			}
			router := newCourseTestRouter(svc, &publisher)

			w := doRequest(router, http.MethodPost, "/api/v1/bootcamps/11/courses", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected %d, got %d; body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
