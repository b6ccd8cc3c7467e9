package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"swapMarket/domain"
	"swapMarket/internal/repository/postgres"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCategoryService struct {
	mock.Mock
}

func (m *mockCategoryService) GetAllCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *mockCategoryService) GetCategoryByID(ctx context.Context, id uint64) (domain.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Category), args.Error(1)
}

func TestCategoryHandler_GetCategoryByID(t *testing.T) {
	tests := []struct {
		name     string
		param    string
		setup    func(m *mockCategoryService)
		wantCode int
	}{
		{
			name:     "invalid id",
			param:    "x",
			setup:    func(m *mockCategoryService) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name:  "not found",
			param: "3",
			setup: func(m *mockCategoryService) {
				m.On("GetCategoryByID", mock.Anything, uint64(3)).
					Return(domain.Category{}, fmt.Errorf("failed to find category: %w", postgres.ErrCategoryNotFound))
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:  "found",
			param: "1",
			setup: func(m *mockCategoryService) {
				m.On("GetCategoryByID", mock.Anything, uint64(1)).
					Return(domain.Category{CategoryID: 1, Name: "books"}, nil)
			},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockCategoryService)
			tt.setup(svc)
			h := NewCategoryHandler(svc)

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/categories/"+tt.param, nil), rec)
			c.SetParamNames("id")
			c.SetParamValues(tt.param)

			require.NoError(t, h.GetCategoryByID(c))
			assert.Equal(t, tt.wantCode, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
