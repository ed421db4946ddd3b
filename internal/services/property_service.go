package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"rentzy/internal/models"
	"rentzy/internal/repositories"

	"github.com/google/uuid"
)

const imageURLExpiry = time.Hour

var ErrPropertyValidation = errors.New("invalid property input")

type CreatePropertyRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Rent        float64  `json:"rent"`
	Deposit     float64  `json:"deposit"`
	Amenities   []string `json:"amenities"`
}

type UpdatePropertyRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Location    string                `json:"location"`
	Rent        float64               `json:"rent"`
	Deposit     float64               `json:"deposit"`
	Status      models.PropertyStatus `json:"status"`
	Amenities   []string              `json:"amenities"`
}

// PropertyService manages homeowner listings and their stored images.
type PropertyService interface {
	Create(ctx context.Context, ownerID uuid.UUID, req *CreatePropertyRequest) (*models.Property, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, req *UpdatePropertyRequest) (*models.Property, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Property, error)
	ListSavedByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Property, error)
	// UploadImage stores one photo and returns its presigned URL.
	UploadImage(ctx context.Context, ownerID, propertyID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error)
}

type propertyService struct {
	propertyRepo repositories.PropertyRepository
	mediaSvc     MediaService
}

func NewPropertyService(propertyRepo repositories.PropertyRepository, mediaSvc MediaService) PropertyService {
	return &propertyService{
		propertyRepo: propertyRepo,
		mediaSvc:     mediaSvc,
	}
}

func validateListing(title, location string, rent, deposit float64) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", ErrPropertyValidation)
	}
	if strings.TrimSpace(location) == "" {
		return fmt.Errorf("%w: location is required", ErrPropertyValidation)
	}
	if rent <= 0 {
		return fmt.Errorf("%w: rent must be positive", ErrPropertyValidation)
	}
	if deposit < 0 {
		return fmt.Errorf("%w: deposit cannot be negative", ErrPropertyValidation)
	}
	return nil
}

func (s *propertyService) Create(ctx context.Context, ownerID uuid.UUID, req *CreatePropertyRequest) (*models.Property, error) {
	if err := validateListing(req.Title, req.Location, req.Rent, req.Deposit); err != nil {
		return nil, err
	}

	property := &models.Property{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Location:     strings.TrimSpace(req.Location),
		Rent:         req.Rent,
		Deposit:      req.Deposit,
		Status:       models.PropertyStatusVacant,
		Amenities:    req.Amenities,
		ImageObjects: []string{},
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if property.Amenities == nil {
		property.Amenities = []string{}
	}

	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

func (s *propertyService) Update(ctx context.Context, ownerID, id uuid.UUID, req *UpdatePropertyRequest) (*models.Property, error) {
	if err := validateListing(req.Title, req.Location, req.Rent, req.Deposit); err != nil {
		return nil, err
	}
	if !req.Status.Valid() {
		return nil, fmt.Errorf("%w: status must be vacant or occupied", ErrPropertyValidation)
	}

	property := &models.Property{
		ID:          id,
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		Rent:        req.Rent,
		Deposit:     req.Deposit,
		Status:      req.Status,
		Amenities:   req.Amenities,
	}
	if property.Amenities == nil {
		property.Amenities = []string{}
	}

	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return nil, err
	}
	return s.getWithImages(ctx, id)
}

func (s *propertyService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if property.OwnerID != ownerID {
		return repositories.ErrNotFound
	}

	if err := s.propertyRepo.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	// Stored images are cleaned up best-effort after the row is gone.
	for _, object := range property.ImageObjects {
		if err := s.mediaSvc.DeleteImage(ctx, object); err != nil {
			log.Printf("Failed to delete image %s: %v", object, err)
		}
	}
	return nil
}

func (s *propertyService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Property, error) {
	properties, err := s.propertyRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	s.attachImageURLs(properties)
	return properties, nil
}

func (s *propertyService) ListSavedByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Property, error) {
	properties, err := s.propertyRepo.ListSavedByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	s.attachImageURLs(properties)
	return properties, nil
}

func (s *propertyService) UploadImage(ctx context.Context, ownerID, propertyID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return "", err
	}
	if property.OwnerID != ownerID {
		return "", repositories.ErrNotFound
	}

	objectName := fmt.Sprintf("properties/%s/%s-%s", propertyID, uuid.NewString(), filename)
	if err := s.mediaSvc.UploadPropertyImage(ctx, objectName, reader, size, contentType); err != nil {
		return "", err
	}

	if err := s.propertyRepo.AddImageObject(ctx, ownerID, propertyID, objectName); err != nil {
		return "", err
	}

	return s.mediaSvc.GetPresignedURL(objectName, imageURLExpiry)
}

func (s *propertyService) getWithImages(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachImageURLs([]*models.Property{property})
	return property, nil
}

func (s *propertyService) attachImageURLs(properties []*models.Property) {
	for _, property := range properties {
		for _, object := range property.ImageObjects {
			url, err := s.mediaSvc.GetPresignedURL(object, imageURLExpiry)
			if err != nil {
				log.Printf("Failed to presign image %s: %v", object, err)
				continue
			}
			property.ImageURLs = append(property.ImageURLs, url)
		}
	}
}
