package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
	"github.com/softdevglobal/bms-pro-sub000/internal/service/facets"
)

type MockFacetUseCase struct {
	mock.Mock
}

func (m *MockFacetUseCase) Facets(ctx context.Context, ownerID string) (*facets.Facets, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*facets.Facets), args.Error(1)
}

func TestFacetHandler_get(t *testing.T) {
	mockService := &MockFacetUseCase{}
	handler := NewFacetHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/owners/owner-1/facets", nil)
	c.Params = gin.Params{{Key: "ownerId", Value: "owner-1"}}

	mockService.On("Facets", c.Request.Context(), "owner-1").Return(&facets.Facets{Resources: []string{"Garden", "Main Hall"}}, nil)

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"resources":["Garden","Main Hall"]`)
	mockService.AssertExpectations(t)
}

func TestFacetHandler_get_Upstream(t *testing.T) {
	mockService := &MockFacetUseCase{}
	handler := NewFacetHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/owners/owner-1/facets", nil)
	c.Params = gin.Params{{Key: "ownerId", Value: "owner-1"}}

	mockService.On("Facets", mock.Anything, "owner-1").Return(nil, domain.ErrUpstream)

	handler.get(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
