package properties

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dkhrunov/propkeeper/internal/client/models"
	"github.com/dkhrunov/propkeeper/internal/common"
	"github.com/dkhrunov/propkeeper/internal/dbx"
)

const propertyColumns = `id, user_id, name, street, city, state, postal_code, country,
	latitude, longitude, type, sync_status, created_at, updated_at`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, p *models.Property) error {
	query := `INSERT INTO properties (` + propertyColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.UserID, p.Name,
		p.Address.Street, p.Address.City, p.Address.State, p.Address.PostalCode, p.Address.Country,
		p.Address.Latitude, p.Address.Longitude,
		p.Type, p.SyncStatus, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert property: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, p *models.Property) error {
	query := `UPDATE properties SET
		name = ?, street = ?, city = ?, state = ?, postal_code = ?, country = ?,
		latitude = ?, longitude = ?, type = ?, sync_status = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Address.Street, p.Address.City, p.Address.State, p.Address.PostalCode, p.Address.Country,
		p.Address.Latitude, p.Address.Longitude,
		p.Type, p.SyncStatus, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}
	return requireOneRow(res)
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	return requireOneRow(res)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	p, err := scanProperty(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) GetAllByUser(ctx context.Context, userID string) ([]models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE user_id = ?`
	return r.queryProperties(ctx, query, userID)
}

func (r *SQLiteRepository) Search(ctx context.Context, userID, query string) ([]models.Property, error) {
	q := `SELECT ` + propertyColumns + ` FROM properties
		WHERE user_id = ? AND (
			LOWER(name) LIKE ? OR LOWER(street) LIKE ? OR LOWER(city) LIKE ?
			OR LOWER(state) LIKE ? OR LOWER(postal_code) LIKE ? OR LOWER(country) LIKE ?
		)`
	pattern := "%" + strings.ToLower(query) + "%"
	return r.queryProperties(ctx, q, userID, pattern, pattern, pattern, pattern, pattern, pattern)
}

func (r *SQLiteRepository) GetNeedingSync(ctx context.Context, userID string) ([]models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties
		WHERE user_id = ? AND sync_status IN (?, ?)
		ORDER BY updated_at DESC`
	return r.queryProperties(ctx, query, userID, models.SyncPending, models.SyncFailed)
}

func (r *SQLiteRepository) SetSyncStatus(ctx context.Context, id string, status models.SyncStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE properties SET sync_status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to set sync status: %w", err)
	}
	return requireOneRow(res)
}

func (r *SQLiteRepository) queryProperties(ctx context.Context, query string, args ...any) ([]models.Property, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select properties: %w", err)
	}
	defer rows.Close()

	var result []models.Property
	for rows.Next() {
		p, err := scanProperty(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanProperty(scan func(dest ...any) error) (*models.Property, error) {
	p := &models.Property{}
	err := scan(
		&p.ID, &p.UserID, &p.Name,
		&p.Address.Street, &p.Address.City, &p.Address.State, &p.Address.PostalCode, &p.Address.Country,
		&p.Address.Latitude, &p.Address.Longitude,
		&p.Type, &p.SyncStatus, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func requireOneRow(res sql.Result) error {
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}
