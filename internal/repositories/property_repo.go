package repositories

import (
	"context"
	"errors"

	"rentzy/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Property, error)
	Update(ctx context.Context, property *models.Property) error
	// Delete is owner-scoped so a homeowner cannot remove another owner's listing.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	AddImageObject(ctx context.Context, ownerID, id uuid.UUID, objectName string) error

	// Saved-property bookmarks for tenants.
	SaveForTenant(ctx context.Context, tenantID, propertyID uuid.UUID) error
	UnsaveForTenant(ctx context.Context, tenantID, propertyID uuid.UUID) error
	ListSavedByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Property, error)
}

type propertyRepo struct {
	db Database
}

func NewPropertyRepo(db Database) PropertyRepository {
	return &propertyRepo{db: db}
}

const propertyColumns = `id, owner_id, title, description, location, rent, deposit, status, amenities, image_objects, created_at, updated_at`

func scanProperty(row pgx.Row) (*models.Property, error) {
	p := &models.Property{}
	err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Location,
		&p.Rent, &p.Deposit, &p.Status, &p.Amenities, &p.ImageObjects, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *propertyRepo) Create(ctx context.Context, property *models.Property) error {
	query := `
		INSERT INTO properties (id, owner_id, title, description, location, rent, deposit, status, amenities, image_objects, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, property.ID, property.OwnerID, property.Title, property.Description,
		property.Location, property.Rent, property.Deposit, property.Status, property.Amenities, property.ImageObjects)
	return err
}

func (r *propertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	property, err := scanProperty(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return property, nil
}

func (r *propertyRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []*models.Property
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, property)
	}
	return properties, rows.Err()
}

func (r *propertyRepo) Update(ctx context.Context, property *models.Property) error {
	query := `
		UPDATE properties
		SET title = $1, description = $2, location = $3, rent = $4, deposit = $5,
		    status = $6, amenities = $7, updated_at = NOW()
		WHERE owner_id = $8 AND id = $9
	`
	tag, err := r.db.Exec(ctx, query, property.Title, property.Description, property.Location,
		property.Rent, property.Deposit, property.Status, property.Amenities, property.OwnerID, property.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *propertyRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM properties WHERE owner_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, ownerID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *propertyRepo) AddImageObject(ctx context.Context, ownerID, id uuid.UUID, objectName string) error {
	query := `
		UPDATE properties
		SET image_objects = array_append(image_objects, $1), updated_at = NOW()
		WHERE owner_id = $2 AND id = $3
	`
	tag, err := r.db.Exec(ctx, query, objectName, ownerID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *propertyRepo) SaveForTenant(ctx context.Context, tenantID, propertyID uuid.UUID) error {
	query := `
		INSERT INTO saved_properties (tenant_id, property_id, saved_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (tenant_id, property_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, tenantID, propertyID)
	return err
}

func (r *propertyRepo) UnsaveForTenant(ctx context.Context, tenantID, propertyID uuid.UUID) error {
	query := `DELETE FROM saved_properties WHERE tenant_id = $1 AND property_id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, propertyID)
	return err
}

func (r *propertyRepo) ListSavedByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Property, error) {
	query := `
		SELECT p.id, p.owner_id, p.title, p.description, p.location, p.rent, p.deposit, p.status, p.amenities, p.image_objects, p.created_at, p.updated_at
		FROM properties p
		JOIN saved_properties s ON s.property_id = p.id
		WHERE s.tenant_id = $1
		ORDER BY s.saved_at DESC
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []*models.Property
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, property)
	}
	return properties, rows.Err()
}
