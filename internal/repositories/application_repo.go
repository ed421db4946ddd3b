package repositories

import (
	"context"
	"errors"
	"time"

	"rentzy/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ApplicationRepository interface {
	Create(ctx context.Context, application *models.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Application, error)
	// ListByOwner returns applications against any property owned by ownerID.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Application, error)
	// UpdateStatus is owner-scoped: only the owner of the applied-for property
	// can decide an application.
	UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, status models.ApplicationStatus, decidedAt time.Time) error
}

type applicationRepo struct {
	db Database
}

func NewApplicationRepo(db Database) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, application *models.Application) error {
	query := `
		INSERT INTO applications (id, property_id, tenant_id, message, status, applied_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, application.ID, application.PropertyID, application.TenantID,
		application.Message, application.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateApplication
		}
		return err
	}
	return nil
}

func (r *applicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	app := &models.Application{}
	query := `
		SELECT id, property_id, tenant_id, message, status, applied_at, decided_at
		FROM applications
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&app.ID, &app.PropertyID, &app.TenantID,
		&app.Message, &app.Status, &app.AppliedAt, &app.DecidedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *applicationRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Application, error) {
	query := `
		SELECT a.id, a.property_id, a.tenant_id, a.message, a.status, a.applied_at, a.decided_at,
		       p.title, p.location
		FROM applications a
		JOIN properties p ON p.id = a.property_id
		WHERE a.tenant_id = $1
		ORDER BY a.applied_at DESC
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		app := &models.Application{}
		if err := rows.Scan(&app.ID, &app.PropertyID, &app.TenantID, &app.Message, &app.Status,
			&app.AppliedAt, &app.DecidedAt, &app.PropertyTitle, &app.PropertyLocation); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func (r *applicationRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Application, error) {
	query := `
		SELECT a.id, a.property_id, a.tenant_id, a.message, a.status, a.applied_at, a.decided_at,
		       p.title, p.location, u.name, u.email
		FROM applications a
		JOIN properties p ON p.id = a.property_id
		JOIN users u ON u.id = a.tenant_id
		WHERE p.owner_id = $1
		ORDER BY a.applied_at DESC
	`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		app := &models.Application{}
		if err := rows.Scan(&app.ID, &app.PropertyID, &app.TenantID, &app.Message, &app.Status,
			&app.AppliedAt, &app.DecidedAt, &app.PropertyTitle, &app.PropertyLocation,
			&app.TenantName, &app.TenantEmail); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, status models.ApplicationStatus, decidedAt time.Time) error {
	query := `
		UPDATE applications a
		SET status = $1, decided_at = $2
		FROM properties p
		WHERE a.id = $3 AND a.property_id = p.id AND p.owner_id = $4
	`
	tag, err := r.db.Exec(ctx, query, status, decidedAt, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
