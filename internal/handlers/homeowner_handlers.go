package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"rentzy/internal/common"
	"rentzy/internal/models"
	"rentzy/internal/repositories"
	"rentzy/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HomeownerHandlers serves the homeowner-facing routes: dashboard, property
// listings with image uploads, and application decisions.
type HomeownerHandlers struct {
	userRepo        repositories.UserRepository
	applicationRepo repositories.ApplicationRepository
	propertySvc     services.PropertyService
	dashboardSvc    services.DashboardService
}

func NewHomeownerHandlers(userRepo repositories.UserRepository, applicationRepo repositories.ApplicationRepository,
	propertySvc services.PropertyService, dashboardSvc services.DashboardService) *HomeownerHandlers {
	return &HomeownerHandlers{
		userRepo:        userRepo,
		applicationRepo: applicationRepo,
		propertySvc:     propertySvc,
		dashboardSvc:    dashboardSvc,
	}
}

func (h *HomeownerHandlers) Dashboard(c echo.Context) error {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return nil
	}

	dashboard, err := h.dashboardSvc.HomeownerDashboard(c.Request().Context(), user)
	if err != nil {
		log.Printf("Homeowner dashboard error: %v", err)
		return common.SendServerError(c, "Failed to fetch homeowner dashboard data")
	}

	return common.SendData(c, http.StatusOK, "", map[string]interface{}{
		"data": dashboard,
	})
}

func (h *HomeownerHandlers) Profile(c echo.Context) error {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return nil
	}
	return common.SendData(c, http.StatusOK, "", map[string]interface{}{
		"user": user.Public(),
	})
}

func (h *HomeownerHandlers) Properties(c echo.Context) error {
	ctx := c.Request().Context()

	authUser, ok := common.GetAuthUserFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusUnauthorized, "User not authenticated")
	}

	properties, err := h.propertySvc.ListByOwner(ctx, authUser.ID)
	if err != nil {
		log.Printf("Property listing error: %v", err)
		return common.SendServerError(c, "Failed to fetch properties")
	}
	if properties == nil {
		properties = []*models.Property{}
	}

	return common.SendData(c, http.StatusOK, "", map[string]interface{}{
		"properties": properties,
	})
}

func (h *HomeownerHandlers) CreateProperty(c echo.Context) error {
	ctx := c.Request().Context()

	authUser, ok := common.GetAuthUserFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusUnauthorized, "User not authenticated")
	}

	var req services.CreatePropertyRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}

	property, err := h.propertySvc.Create(ctx, authUser.ID, &req)
	if err != nil {
		if errors.Is(err, services.ErrPropertyValidation) {
			return common.SendValidationError(c, err.Error())
		}
		log.Printf("Property creation error: %v", err)
		return common.SendServerError(c, "Failed to create property")
	}

	return common.SendData(c, http.StatusCreated, "Property created successfully", map[string]interface{}{
		"property": property,
	})
}

func (h *HomeownerHandlers) UpdateProperty(c echo.Context) error {
	ctx := c.Request().Context()

	authUser, ok := common.GetAuthUserFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusUnauthorized, "User not authenticated")
	}

	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "Invalid property id")
	}

	var req services.UpdatePropertyRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}

	property, err := h.propertySvc.Update(ctx, authUser.ID, propertyID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyValidation):
			return common.SendValidationError(c, err.Error())
		case errors.Is(err, repositories.ErrNotFound):
			return common.SendError(c, http.StatusNotFound, "Property not found")
		default:
			log.Printf("Property update error: %v", err)
			return common.SendServerError(c, "Failed to update property")
		}
	}

	return common.SendData(c, http.StatusOK, "Property updated successfully", map[string]interface{}{
		"property": property,
	})
}

func (h *HomeownerHandlers) DeleteProperty(c echo.Context) error {
	ctx := c.Request().Context()

	authUser, ok := common.GetAuthUserFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusUnauthorized, "User not authenticated")
	}

	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "Invalid property id")
	}

	if err := h.propertySvc.Delete(ctx, authUser.ID, propertyID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendError(c, http.StatusNotFound, "Property not found")
		}
		log.Printf("Property deletion error: %v", err)
		return common.SendServerError(c, "Failed to delete property")
	}

	return common.SendSuccess(c, http.StatusOK, "Property deleted successfully")
}

// UploadPropertyImage accepts a multipart "image" field and stores it against
// the listing.
func (h *HomeownerHandlers) UploadPropertyImage(c echo.Context) error {
	ctx := c.Request().Context()

	authUser, ok := common.GetAuthUserFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusUnauthorized, "User not authenticated")
	}

	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "Invalid property id")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return common.SendValidationError(c, "Image file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Image open error: %v", err)
		return common.SendServerError(c, "Failed to upload image")
	}
	defer file.Close()

	url, err := h.propertySvc.UploadImage(ctx, authUser.ID, propertyID, fileHeader.Filename,
		file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendError(c, http.StatusNotFound, "Property not found")
		}
		log.Printf("Image upload error: %v", err)
		return common.SendServerError(c, "Failed to upload image")
	}

	return common.SendData(c, http.StatusCreated, "Image uploaded successfully", map[string]interface{}{
		"imageUrl": url,
	})
}

func (h *HomeownerHandlers) Applications(c echo.Context) error {
	ctx := c.Request().Context()

	authUser, ok := common.GetAuthUserFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusUnauthorized, "User not authenticated")
	}

	applications, err := h.applicationRepo.ListByOwner(ctx, authUser.ID)
	if err != nil {
		log.Printf("Owner applications error: %v", err)
		return common.SendServerError(c, "Failed to fetch applications")
	}
	if applications == nil {
		applications = []*models.Application{}
	}

	return common.SendData(c, http.StatusOK, "", map[string]interface{}{
		"applications": applications,
	})
}

type DecideApplicationRequest struct {
	Status models.ApplicationStatus `json:"status"`
}

// DecideApplication approves or rejects a pending application. Ownership is
// enforced at the store level, so a foreign application reads as missing.
func (h *HomeownerHandlers) DecideApplication(c echo.Context) error {
	ctx := c.Request().Context()

	authUser, ok := common.GetAuthUserFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusUnauthorized, "User not authenticated")
	}

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "Invalid application id")
	}

	var req DecideApplicationRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}
	if req.Status != models.ApplicationStatusApproved && req.Status != models.ApplicationStatusRejected {
		return common.SendValidationError(c, "Status must be approved or rejected")
	}

	if err := h.applicationRepo.UpdateStatus(ctx, authUser.ID, applicationID, req.Status, time.Now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendError(c, http.StatusNotFound, "Application not found")
		}
		log.Printf("Application decision error: %v", err)
		return common.SendServerError(c, "Failed to update application")
	}

	return common.SendSuccess(c, http.StatusOK, "Application "+string(req.Status)+" successfully")
}
