package handlers

import (
	"errors"
	"log"
	"net/http"

	"rentzy/internal/common"
	"rentzy/internal/models"
	"rentzy/internal/repositories"
	"rentzy/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TenantHandlers serves the tenant-facing routes: dashboard, applications and
// saved-property bookmarks.
type TenantHandlers struct {
	userRepo        repositories.UserRepository
	propertyRepo    repositories.PropertyRepository
	applicationRepo repositories.ApplicationRepository
	propertySvc     services.PropertyService
	dashboardSvc    services.DashboardService
}

func NewTenantHandlers(userRepo repositories.UserRepository, propertyRepo repositories.PropertyRepository,
	applicationRepo repositories.ApplicationRepository, propertySvc services.PropertyService,
	dashboardSvc services.DashboardService) *TenantHandlers {
	return &TenantHandlers{
		userRepo:        userRepo,
		propertyRepo:    propertyRepo,
		applicationRepo: applicationRepo,
		propertySvc:     propertySvc,
		dashboardSvc:    dashboardSvc,
	}
}

func (h *TenantHandlers) Dashboard(c echo.Context) error {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return nil
	}

	dashboard, err := h.dashboardSvc.TenantDashboard(c.Request().Context(), user)
	if err != nil {
		log.Printf("Tenant dashboard error: %v", err)
		return common.SendServerError(c, "Failed to fetch tenant dashboard data")
	}

	return common.SendData(c, http.StatusOK, "", map[string]interface{}{
		"data": dashboard,
	})
}

func (h *TenantHandlers) Profile(c echo.Context) error {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return nil
	}
	return common.SendData(c, http.StatusOK, "", map[string]interface{}{
		"user": user.Public(),
	})
}

func (h *TenantHandlers) Applications(c echo.Context) error {
	ctx := c.Request().Context()

	authUser, ok := common.GetAuthUserFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusUnauthorized, "User not authenticated")
	}

	applications, err := h.applicationRepo.ListByTenant(ctx, authUser.ID)
	if err != nil {
		log.Printf("Tenant applications error: %v", err)
		return common.SendServerError(c, "Failed to fetch applications")
	}
	if applications == nil {
		applications = []*models.Application{}
	}

	return common.SendData(c, http.StatusOK, "", map[string]interface{}{
		"applications": applications,
	})
}

func (h *TenantHandlers) SavedProperties(c echo.Context) error {
	ctx := c.Request().Context()

	authUser, ok := common.GetAuthUserFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusUnauthorized, "User not authenticated")
	}

	properties, err := h.propertySvc.ListSavedByTenant(ctx, authUser.ID)
	if err != nil {
		log.Printf("Saved properties error: %v", err)
		return common.SendServerError(c, "Failed to fetch saved properties")
	}
	if properties == nil {
		properties = []*models.Property{}
	}

	return common.SendData(c, http.StatusOK, "", map[string]interface{}{
		"savedProperties": properties,
	})
}

func (h *TenantHandlers) SaveProperty(c echo.Context) error {
	ctx := c.Request().Context()

	authUser, ok := common.GetAuthUserFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusUnauthorized, "User not authenticated")
	}

	propertyID, err := uuid.Parse(c.Param("propertyId"))
	if err != nil {
		return common.SendValidationError(c, "Invalid property id")
	}

	if _, err := h.propertyRepo.GetByID(ctx, propertyID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendError(c, http.StatusNotFound, "Property not found")
		}
		log.Printf("Save property lookup error: %v", err)
		return common.SendServerError(c, "Failed to save property")
	}

	if err := h.propertyRepo.SaveForTenant(ctx, authUser.ID, propertyID); err != nil {
		log.Printf("Save property error: %v", err)
		return common.SendServerError(c, "Failed to save property")
	}

	return common.SendSuccess(c, http.StatusCreated, "Property saved successfully")
}

func (h *TenantHandlers) UnsaveProperty(c echo.Context) error {
	ctx := c.Request().Context()

	authUser, ok := common.GetAuthUserFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusUnauthorized, "User not authenticated")
	}

	propertyID, err := uuid.Parse(c.Param("propertyId"))
	if err != nil {
		return common.SendValidationError(c, "Invalid property id")
	}

	if err := h.propertyRepo.UnsaveForTenant(ctx, authUser.ID, propertyID); err != nil {
		log.Printf("Unsave property error: %v", err)
		return common.SendServerError(c, "Failed to remove saved property")
	}

	return common.SendSuccess(c, http.StatusOK, "Property removed from saved list")
}

type ApplyPropertyRequest struct {
	PropertyID string `json:"propertyId"`
	Message    string `json:"message"`
}

// ApplyProperty files a pending application; one per property per tenant.
func (h *TenantHandlers) ApplyProperty(c echo.Context) error {
	ctx := c.Request().Context()

	authUser, ok := common.GetAuthUserFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusUnauthorized, "User not authenticated")
	}

	var req ApplyPropertyRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}

	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		return common.SendValidationError(c, "Invalid property id")
	}

	if _, err := h.propertyRepo.GetByID(ctx, propertyID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendError(c, http.StatusNotFound, "Property not found")
		}
		log.Printf("Application lookup error: %v", err)
		return common.SendServerError(c, "Failed to submit application")
	}

	application := &models.Application{
		ID:         uuid.New(),
		PropertyID: propertyID,
		TenantID:   authUser.ID,
		Message:    req.Message,
		Status:     models.ApplicationStatusPending,
	}
	if err := h.applicationRepo.Create(ctx, application); err != nil {
		if errors.Is(err, repositories.ErrDuplicateApplication) {
			return common.SendError(c, http.StatusConflict, "You have already applied for this property")
		}
		log.Printf("Property application error: %v", err)
		return common.SendServerError(c, "Failed to submit application")
	}

	return common.SendData(c, http.StatusCreated, "Application submitted successfully", map[string]interface{}{
		"application": application,
	})
}
