package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/oguzk/campdir/internal/app/auth"
	"github.com/oguzk/campdir/internal/app/models"
	"github.com/oguzk/campdir/internal/app/models/dto"
	"github.com/oguzk/campdir/internal/app/query"
	"github.com/oguzk/campdir/internal/pkg/apperrors"
)

// ---- mock implementation ----

type mockBootcampService struct {
	listFn   func(ctx context.Context, raw url.Values) ([]*models.Bootcamp, int64, *query.Descriptor, error)
	getFn    func(ctx context.Context, id int64) (*models.Bootcamp, error)
	createFn func(ctx context.Context, ident auth.Identity, req *dto.CreateBootcampRequest) (*models.Bootcamp, error)
	updateFn func(ctx context.Context, ident auth.Identity, id int64, req *dto.UpdateBootcampRequest) (*models.Bootcamp, error)
	deleteFn func(ctx context.Context, ident auth.Identity, id int64) error
}

func (m *mockBootcampService) List(ctx context.Context, raw url.Values) ([]*models.Bootcamp, int64, *query.Descriptor, error) {
	if m.listFn != nil {
		return m.listFn(ctx, raw)
	}
	return nil, 0, nil, fmt.Errorf("not configured")
}

func (m *mockBootcampService) Get(ctx context.Context, id int64) (*models.Bootcamp, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockBootcampService) Create(ctx context.Context, ident auth.Identity, req *dto.CreateBootcampRequest) (*models.Bootcamp, error) {
	if m.createFn != nil {
		return m.createFn(ctx, ident, req)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockBootcampService) Update(ctx context.Context, ident auth.Identity, id int64, req *dto.UpdateBootcampRequest) (*models.Bootcamp, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, ident, id, req)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockBootcampService) Delete(ctx context.Context, ident auth.Identity, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, ident, id)
	}
	return fmt.Errorf("not configured")
}

func (m *mockBootcampService) RegisterParticipant(ctx context.Context, ident auth.Identity, bootcampID, userID int64) (*models.Bootcamp, error) {
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

// fakeIdentity mimics the auth middleware for routes under test
func fakeIdentity(ident auth.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("identity", ident)
		c.Next()
	}
}

func newBootcampTestRouter(svc *mockBootcampService, ident *auth.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ctrl := NewBootcampController(svc, zerolog.Nop())

	g := r.Group("/api/v1/bootcamps")
	if ident != nil {
		g.Use(fakeIdentity(*ident))
	}
	g.GET("", ctrl.List)
	g.GET("/:bootcampId", ctrl.Get)
	g.POST("", ctrl.Create)
	g.DELETE("/:bootcampId", ctrl.Delete)
	return r
}

func doRequest(router *gin.Engine, method, target string, body interface{}) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, target, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, target, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ---- tests ----

func TestBootcampList(t *testing.T) {
	svc := &mockBootcampService{
		listFn: func(ctx context.Context, raw url.Values) ([]*models.Bootcamp, int64, *query.Descriptor, error) {
			d := &query.Descriptor{Page: 1, Limit: 100}
			return []*models.Bootcamp{{ID: 1, Name: "Devworks"}}, 250, d, nil
		},
	}
	router := newBootcampTestRouter(svc, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/bootcamps?averageCost[lte]=10000", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", w.Code, w.Body.String())
	}

	var env struct {
		Success    bool `json:"success"`
		Count      int  `json:"count"`
		Pagination struct {
			Next *query.PageRef `json:"next"`
			Prev *query.PageRef `json:"prev"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if !env.Success || env.Count != 1 {
		t.Errorf("unexpected envelope: %+v", env)
	}
	if env.Pagination.Next == nil || env.Pagination.Next.Page != 2 {
		t.Errorf("expected next page 2, got %+v", env.Pagination.Next)
	}
	if env.Pagination.Prev != nil {
		t.Errorf("expected no prev on first page, got %+v", env.Pagination.Prev)
	}
}

func TestBootcampListRejectsBadFilter(t *testing.T) {
	svc := &mockBootcampService{
		listFn: func(ctx context.Context, raw url.Values) ([]*models.Bootcamp, int64, *query.Descriptor, error) {
			return nil, 0, nil, apperrors.NewValidationError(`unknown filter field "secret"`)
		},
	}
	router := newBootcampTestRouter(svc, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/bootcamps?secret=1", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestBootcampGet(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		getFn          func(ctx context.Context, id int64) (*models.Bootcamp, error)
		expectedStatus int
	}{
		{
			name:   "found",
			target: "/api/v1/bootcamps/1",
			getFn: func(ctx context.Context, id int64) (*models.Bootcamp, error) {
				return &models.Bootcamp{ID: id, Name: "Devworks"}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "missing",
			target: "/api/v1/bootcamps/99",
			getFn: func(ctx context.Context, id int64) (*models.Bootcamp, error) {
				return nil, apperrors.ErrBootcampNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "non-numeric id",
			target:         "/api/v1/bootcamps/abc",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newBootcampTestRouter(&mockBootcampService{getFn: tt.getFn}, nil)
			w := doRequest(router, http.MethodGet, tt.target, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected %d, got %d; body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestBootcampCreate(t *testing.T) {
	publisher := auth.Identity{UserID: 7, Role: models.RolePublisher}
	body := map[string]interface{}{"name": "Devworks", "description": "Learn to build"}

	tests := []struct {
		name           string
		ident          *auth.Identity
		body           interface{}
		createFn       func(ctx context.Context, ident auth.Identity, req *dto.CreateBootcampRequest) (*models.Bootcamp, error)
		expectedStatus int
	}{
		{
			name:  "success",
			ident: &publisher,
			body:  body,
			createFn: func(ctx context.Context, ident auth.Identity, req *dto.CreateBootcampRequest) (*models.Bootcamp, error) {
				return &models.Bootcamp{ID: 1, Name: req.Name, OwnerID: ident.UserID}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:  "second bootcamp conflicts",
			ident: &publisher,
			body:  body,
			createFn: func(ctx context.Context, ident auth.Identity, req *dto.CreateBootcampRequest) (*models.Bootcamp, error) {
				return nil, apperrors.ErrBootcampAlreadyOwned
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:  "role denied",
			ident: &auth.Identity{UserID: 8, Role: models.RoleUser},
			body:  body,
			createFn: func(ctx context.Context, ident auth.Identity, req *dto.CreateBootcampRequest) (*models.Bootcamp, error) {
				return nil, auth.Authorize(ident, auth.ActionBootcampPublish)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "missing body fields",
			ident:          &publisher,
			body:           map[string]interface{}{"name": "Devworks"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unauthenticated",
			ident:          nil,
			body:           body,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newBootcampTestRouter(&mockBootcampService{createFn: tt.createFn}, tt.ident)
			w := doRequest(router, http.MethodPost, "/api/v1/bootcamps", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected %d, got %d; body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestBootcampDeleteOwnership(t *testing.T) {
	owner := auth.Identity{UserID: 7, Role: models.RolePublisher}
	router := newBootcampTestRouter(&mockBootcampService{
		deleteFn: func(ctx context.Context, ident auth.Identity, id int64) error {
			return auth.AuthorizeOwnership(ident, 99)
		},
	}, &owner)

	w := doRequest(router, http.MethodDelete, "/api/v1/bootcamps/1", nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-owner, got %d; body: %s", w.Code, w.Body.String())
	}
}
