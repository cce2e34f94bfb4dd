package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/bizlink/directory-backend/internal/domain/entities"
	"github.com/bizlink/directory-backend/internal/domain/repositories"
	"github.com/bizlink/directory-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/bizlink/directory-backend/pkg/errors"
)

const businessesTable = "businesses"

var businessColumns = []any{
	"id", "name", "brief", "description", "profile_photo",
	"categories", "addresses",
	"user_id", "created_by", "updated_by", "created_at", "updated_at",
}

// BusinessAdapter implements the BusinessRepository interface against
// PostgreSQL. Nested structures (categories, addresses) are stored as JSONB.
type BusinessAdapter struct {
	conn *sql.DB
	db   *goqu.Database
}

// NewBusinessAdapter creates a new business adapter
func NewBusinessAdapter(client *postgres.Client) repositories.BusinessRepository {
	return NewBusinessAdapterForDB(client.DB())
}

// NewBusinessAdapterForDB creates a business adapter over an existing
// connection pool. Used directly in tests.
func NewBusinessAdapterForDB(conn *sql.DB) repositories.BusinessRepository {
	return &BusinessAdapter{
		conn: conn,
		db:   goqu.New("postgres", conn),
	}
}

// Create inserts a new business. Timestamps are assigned here, not by the
// caller.
func (a *BusinessAdapter) Create(ctx context.Context, business *entities.Business) error {
	now := time.Now().UTC()
	business.CreatedAt = now
	business.UpdatedAt = now

	record, err := businessRecord(business)
	if err != nil {
		return err
	}
	record["id"] = business.ID
	record["created_at"] = business.CreatedAt

	query, args, err := a.db.Insert(businessesTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.conn.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create business", err)
	}

	return nil
}

// GetAll retrieves every business in the directory
func (a *BusinessAdapter) GetAll(ctx context.Context) ([]*entities.Business, error) {
	return a.list(ctx, a.db.Select(businessColumns...).From(businessesTable).Order(goqu.I("name").Asc()))
}

// GetByID retrieves a business by ID
func (a *BusinessAdapter) GetByID(ctx context.Context, id string) (*entities.Business, error) {
	query, args, err := a.db.Select(businessColumns...).
		From(businessesTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	business, err := scanBusiness(a.conn.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("business with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get business", err)
	}

	return business, nil
}

// GetByCity retrieves businesses with at least one address in the city.
// Cities live inside the addresses JSONB document, so the containment check
// runs on a jsonb_path expression.
func (a *BusinessAdapter) GetByCity(ctx context.Context, city string) ([]*entities.Business, error) {
	return a.list(ctx, a.db.Select(businessColumns...).
		From(businessesTable).
		Where(goqu.L("addresses @> ?", fmt.Sprintf(`[{"city": %q}]`, city))).
		Order(goqu.I("name").Asc()))
}

// GetByCategory retrieves businesses carrying the category
func (a *BusinessAdapter) GetByCategory(ctx context.Context, category string) ([]*entities.Business, error) {
	return a.list(ctx, a.db.Select(businessColumns...).
		From(businessesTable).
		Where(goqu.L("categories @> ?", fmt.Sprintf(`[%q]`, category))).
		Order(goqu.I("name").Asc()))
}

// GetRecent retrieves the most recently created businesses, newest first
func (a *BusinessAdapter) GetRecent(ctx context.Context, limit int) ([]*entities.Business, error) {
	if limit <= 0 {
		limit = 5
	}
	return a.list(ctx, a.db.Select(businessColumns...).
		From(businessesTable).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)))
}

// Update replaces the stored record and refreshes updated_at
func (a *BusinessAdapter) Update(ctx context.Context, business *entities.Business) error {
	business.UpdatedAt = time.Now().UTC()

	record, err := businessRecord(business)
	if err != nil {
		return err
	}

	query, args, err := a.db.Update(businessesTable).
		Set(record).
		Where(goqu.Ex{"id": business.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update business", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("business with id %s not found", business.ID))
	}

	return nil
}

// Delete removes a business by ID
func (a *BusinessAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete(businessesTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete business", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("business with id %s not found", id))
	}

	return nil
}

func (a *BusinessAdapter) list(ctx context.Context, ds *goqu.SelectDataset) ([]*entities.Business, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list businesses", err)
	}
	defer rows.Close()

	businesses := []*entities.Business{}
	for rows.Next() {
		business, err := scanBusiness(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan business", err)
		}
		businesses = append(businesses, business)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate businesses", err)
	}

	return businesses, nil
}

func businessRecord(business *entities.Business) (goqu.Record, error) {
	categories, err := json.Marshal(business.Categories)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to marshal categories", err)
	}
	addresses, err := json.Marshal(business.Addresses)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to marshal addresses", err)
	}

	return goqu.Record{
		"name":          business.Name,
		"brief":         business.Brief,
		"description":   business.Description,
		"profile_photo": sql.NullString{String: business.ProfilePhoto, Valid: business.ProfilePhoto != ""},
		"categories":    categories,
		"addresses":     addresses,
		"user_id":       business.UserID,
		"created_by":    business.CreatedBy,
		"updated_by":    business.UpdatedBy,
		"updated_at":    business.UpdatedAt,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBusiness(row rowScanner) (*entities.Business, error) {
	business := &entities.Business{}
	var profilePhoto sql.NullString
	var categories, addresses []byte

	err := row.Scan(
		&business.ID,
		&business.Name,
		&business.Brief,
		&business.Description,
		&profilePhoto,
		&categories,
		&addresses,
		&business.UserID,
		&business.CreatedBy,
		&business.UpdatedBy,
		&business.CreatedAt,
		&business.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	business.ProfilePhoto = profilePhoto.String
	if err := json.Unmarshal(categories, &business.Categories); err != nil {
		return nil, fmt.Errorf("malformed categories document: %w", err)
	}
	if err := json.Unmarshal(addresses, &business.Addresses); err != nil {
		return nil, fmt.Errorf("malformed addresses document: %w", err)
	}

	return business, nil
}
