package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rentzy/internal/common"
	"rentzy/internal/models"
	"rentzy/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TenantHandlersTestSuite struct {
	suite.Suite
	echo         *echo.Echo
	mockUserRepo *MockUserRepository
	mockPropRepo *MockPropertyRepository
	mockAppRepo  *MockApplicationRepository
	mockPropSvc  *MockPropertyService
	mockDashSvc  *MockDashboardService
	handlers     *TenantHandlers
	tenant       *models.User
}

func (suite *TenantHandlersTestSuite) SetupTest() {
	suite.echo = echo.New()
	suite.mockUserRepo = &MockUserRepository{}
	suite.mockPropRepo = &MockPropertyRepository{}
	suite.mockAppRepo = &MockApplicationRepository{}
	suite.mockPropSvc = &MockPropertyService{}
	suite.mockDashSvc = &MockDashboardService{}
	suite.mockUserRepo.Test(suite.T())
	suite.mockPropRepo.Test(suite.T())
	suite.mockAppRepo.Test(suite.T())
	suite.mockPropSvc.Test(suite.T())
	suite.mockDashSvc.Test(suite.T())

	suite.handlers = NewTenantHandlers(suite.mockUserRepo, suite.mockPropRepo,
		suite.mockAppRepo, suite.mockPropSvc, suite.mockDashSvc)

	suite.tenant = &models.User{
		ID:              uuid.New(),
		Name:            "Jamie Rivera",
		Email:           "jamie@example.com",
		Role:            models.RoleTenant,
		IsEmailVerified: true,
	}
}

func (suite *TenantHandlersTestSuite) TearDownTest() {
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockPropRepo.AssertExpectations(suite.T())
	suite.mockAppRepo.AssertExpectations(suite.T())
	suite.mockPropSvc.AssertExpectations(suite.T())
	suite.mockDashSvc.AssertExpectations(suite.T())
}

func TestTenantHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(TenantHandlersTestSuite))
}

func (suite *TenantHandlersTestSuite) request(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	authUser := &common.AuthUser{
		ID:              suite.tenant.ID,
		Email:           suite.tenant.Email,
		Role:            suite.tenant.Role,
		IsEmailVerified: true,
	}
	req = req.WithContext(common.WithAuthUser(req.Context(), authUser))
	rec := httptest.NewRecorder()
	return suite.echo.NewContext(req, rec), rec
}

func (suite *TenantHandlersTestSuite) savedPropertyContext(method, propertyID string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := suite.request(method, "/api/tenant/saved-properties/"+propertyID, "")
	c.SetParamNames("propertyId")
	c.SetParamValues(propertyID)
	return c, rec
}

func (suite *TenantHandlersTestSuite) TestDashboard_Success() {
	suite.mockUserRepo.On("GetByID", mock.Anything, suite.tenant.ID).Return(suite.tenant, nil)
	suite.mockDashSvc.On("TenantDashboard", mock.Anything, suite.tenant).Return(&models.TenantDashboard{
		RecentApplications: []*models.Application{},
		SavedProperties:    []*models.Property{},
		Stats:              models.TenantStats{TotalApplications: 2},
		Profile:            suite.tenant.Public(),
	}, nil)

	c, rec := suite.request(http.MethodGet, "/api/tenant/dashboard", "")
	assert.NoError(suite.T(), suite.handlers.Dashboard(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), `"totalApplications":2`)
}

func (suite *TenantHandlersTestSuite) TestDashboard_DeletedUser() {
	suite.mockUserRepo.On("GetByID", mock.Anything, suite.tenant.ID).
		Return(nil, repositories.ErrNotFound)

	c, rec := suite.request(http.MethodGet, "/api/tenant/dashboard", "")
	assert.NoError(suite.T(), suite.handlers.Dashboard(c))
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}

func (suite *TenantHandlersTestSuite) TestApplications_EmptyListNotNull() {
	suite.mockAppRepo.On("ListByTenant", mock.Anything, suite.tenant.ID).
		Return([]*models.Application(nil), nil)

	c, rec := suite.request(http.MethodGet, "/api/tenant/applications", "")
	assert.NoError(suite.T(), suite.handlers.Applications(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), `"applications":[]`)
}

func (suite *TenantHandlersTestSuite) TestSavedProperties_Success() {
	suite.mockPropSvc.On("ListSavedByTenant", mock.Anything, suite.tenant.ID).
		Return([]*models.Property{{ID: uuid.New(), Title: "Sunny 2BR Apartment"}}, nil)

	c, rec := suite.request(http.MethodGet, "/api/tenant/saved-properties", "")
	assert.NoError(suite.T(), suite.handlers.SavedProperties(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "Sunny 2BR Apartment")
}

func (suite *TenantHandlersTestSuite) TestSaveProperty_Success() {
	propertyID := uuid.New()
	suite.mockPropRepo.On("GetByID", mock.Anything, propertyID).
		Return(&models.Property{ID: propertyID}, nil)
	suite.mockPropRepo.On("SaveForTenant", mock.Anything, suite.tenant.ID, propertyID).Return(nil)

	c, rec := suite.savedPropertyContext(http.MethodPost, propertyID.String())
	assert.NoError(suite.T(), suite.handlers.SaveProperty(c))
	assert.Equal(suite.T(), http.StatusCreated, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "Property saved successfully")
}

func (suite *TenantHandlersTestSuite) TestSaveProperty_UnknownProperty() {
	propertyID := uuid.New()
	suite.mockPropRepo.On("GetByID", mock.Anything, propertyID).
		Return(nil, repositories.ErrNotFound)

	c, rec := suite.savedPropertyContext(http.MethodPost, propertyID.String())
	assert.NoError(suite.T(), suite.handlers.SaveProperty(c))
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "Property not found")
}

func (suite *TenantHandlersTestSuite) TestSaveProperty_BadID() {
	c, rec := suite.savedPropertyContext(http.MethodPost, "not-a-uuid")
	assert.NoError(suite.T(), suite.handlers.SaveProperty(c))
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *TenantHandlersTestSuite) TestUnsaveProperty_Success() {
	propertyID := uuid.New()
	suite.mockPropRepo.On("UnsaveForTenant", mock.Anything, suite.tenant.ID, propertyID).Return(nil)

	c, rec := suite.savedPropertyContext(http.MethodDelete, propertyID.String())
	assert.NoError(suite.T(), suite.handlers.UnsaveProperty(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "Property removed from saved list")
}

func (suite *TenantHandlersTestSuite) TestApplyProperty_Success() {
	propertyID := uuid.New()
	suite.mockPropRepo.On("GetByID", mock.Anything, propertyID).
		Return(&models.Property{ID: propertyID}, nil)
	suite.mockAppRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Application")).
		Return(nil).
		Run(func(args mock.Arguments) {
			application := args.Get(1).(*models.Application)
			assert.Equal(suite.T(), suite.tenant.ID, application.TenantID)
			assert.Equal(suite.T(), models.ApplicationStatusPending, application.Status)
			assert.Equal(suite.T(), "Looking forward to viewing", application.Message)
		})

	body := fmt.Sprintf(`{"propertyId":%q,"message":"Looking forward to viewing"}`, propertyID)
	c, rec := suite.request(http.MethodPost, "/api/tenant/applications", body)
	assert.NoError(suite.T(), suite.handlers.ApplyProperty(c))
	assert.Equal(suite.T(), http.StatusCreated, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "Application submitted successfully")
}

func (suite *TenantHandlersTestSuite) TestApplyProperty_Duplicate() {
	propertyID := uuid.New()
	suite.mockPropRepo.On("GetByID", mock.Anything, propertyID).
		Return(&models.Property{ID: propertyID}, nil)
	suite.mockAppRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Application")).
		Return(repositories.ErrDuplicateApplication)

	body := fmt.Sprintf(`{"propertyId":%q}`, propertyID)
	c, rec := suite.request(http.MethodPost, "/api/tenant/applications", body)
	assert.NoError(suite.T(), suite.handlers.ApplyProperty(c))
	assert.Equal(suite.T(), http.StatusConflict, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "You have already applied for this property")
}

func (suite *TenantHandlersTestSuite) TestApplyProperty_UnknownProperty() {
	propertyID := uuid.New()
	suite.mockPropRepo.On("GetByID", mock.Anything, propertyID).
		Return(nil, repositories.ErrNotFound)

	body := fmt.Sprintf(`{"propertyId":%q}`, propertyID)
	c, rec := suite.request(http.MethodPost, "/api/tenant/applications", body)
	assert.NoError(suite.T(), suite.handlers.ApplyProperty(c))
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}
