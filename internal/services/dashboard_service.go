package services

import (
	"context"
	"fmt"
	"time"

	"rentzy/internal/models"
	"rentzy/internal/repositories"

	"github.com/google/uuid"
)

const recentApplicationLimit = 5

// DashboardService assembles the role-specific dashboard payloads from the
// property and application stores.
type DashboardService interface {
	TenantDashboard(ctx context.Context, user *models.User) (*models.TenantDashboard, error)
	HomeownerDashboard(ctx context.Context, user *models.User) (*models.HomeownerDashboard, error)
}

type dashboardService struct {
	applicationRepo repositories.ApplicationRepository
	propertySvc     PropertyService
}

func NewDashboardService(applicationRepo repositories.ApplicationRepository, propertySvc PropertyService) DashboardService {
	return &dashboardService{
		applicationRepo: applicationRepo,
		propertySvc:     propertySvc,
	}
}

func (s *dashboardService) TenantDashboard(ctx context.Context, user *models.User) (*models.TenantDashboard, error) {
	applications, err := s.applicationRepo.ListByTenant(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	saved, err := s.propertySvc.ListSavedByTenant(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	stats := models.TenantStats{
		TotalApplications: len(applications),
		SavedProperties:   len(saved),
	}
	var notifications []*models.Notification
	for _, app := range applications {
		switch app.Status {
		case models.ApplicationStatusPending:
			stats.PendingApplications++
			notifications = append(notifications, applicationNotification(app.ID,
				fmt.Sprintf("Your application for %s is under review", app.PropertyTitle), app.AppliedAt))
		case models.ApplicationStatusApproved, models.ApplicationStatusRejected:
			if app.DecidedAt != nil {
				notifications = append(notifications, applicationNotification(app.ID,
					fmt.Sprintf("Your application for %s was %s", app.PropertyTitle, app.Status), *app.DecidedAt))
			}
		}
	}

	recent := applications
	if len(recent) > recentApplicationLimit {
		recent = recent[:recentApplicationLimit]
	}

	return &models.TenantDashboard{
		RecentApplications: recent,
		SavedProperties:    saved,
		Notifications:      notifications,
		Stats:              stats,
		Profile:            user.Public(),
	}, nil
}

func (s *dashboardService) HomeownerDashboard(ctx context.Context, user *models.User) (*models.HomeownerDashboard, error) {
	properties, err := s.propertySvc.ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	applications, err := s.applicationRepo.ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	stats := models.HomeownerStats{TotalProperties: len(properties)}
	for _, property := range properties {
		if property.Status == models.PropertyStatusOccupied {
			stats.OccupiedProperties++
		} else {
			stats.VacantProperties++
		}
	}

	var pending []*models.Application
	var notifications []*models.Notification
	for _, app := range applications {
		if app.Status == models.ApplicationStatusPending {
			stats.PendingApplications++
			pending = append(pending, app)
			notifications = append(notifications, applicationNotification(app.ID,
				fmt.Sprintf("New application received for %s", app.PropertyTitle), app.AppliedAt))
		}
	}

	return &models.HomeownerDashboard{
		Properties:         properties,
		TenantApplications: pending,
		Notifications:      notifications,
		Stats:              stats,
		Profile:            user.Public(),
	}, nil
}

func applicationNotification(id uuid.UUID, message string, at time.Time) *models.Notification {
	return &models.Notification{
		ID:      id.String(),
		Message: message,
		Type:    "info",
		Date:    at,
	}
}
