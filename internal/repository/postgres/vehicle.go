package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/repository"
)

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

const vehicleColumns = `id, user_id, registration_no, created_on, updated_on`

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	err := row.Scan(&v.ID, &v.UserID, &v.RegistrationNo, &v.CreatedOn, &v.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return v, err
}

func (r *vehicleRepository) GetByRegistration(ctx context.Context, registrationNo string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE registration_no = $1`
	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, registrationNo))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return v, err
}

func (r *vehicleRepository) List(ctx context.Context) ([]domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY created_on`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, rows.Err()
}

func (r *vehicleRepository) GetDocuments(ctx context.Context, vehicleID string) (map[domain.DocumentKind]domain.VehicleDocument, error) {
	query := `SELECT kind, expiry_date, COALESCE(document_ref, '')
	          FROM vehicle_documents WHERE vehicle_id = $1`
	rows, err := r.db.QueryContext(ctx, query, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make(map[domain.DocumentKind]domain.VehicleDocument)
	for rows.Next() {
		var doc domain.VehicleDocument
		var expiry sql.NullTime
		if err := rows.Scan(&doc.Kind, &expiry, &doc.DocumentRef); err != nil {
			return nil, err
		}
		if expiry.Valid {
			t := expiry.Time
			doc.ExpiryDate = &t
		}
		docs[doc.Kind] = doc
	}
	return docs, rows.Err()
}

func (r *vehicleRepository) ListExpiringDocuments(ctx context.Context, before time.Time) ([]domain.ExpiringDocument, error) {
	query := `SELECT d.vehicle_id, v.registration_no, v.user_id, d.kind, d.expiry_date
	          FROM vehicle_documents d
	          JOIN vehicles v ON v.id = d.vehicle_id
	          WHERE d.expiry_date IS NOT NULL AND d.expiry_date <= $1
	          ORDER BY d.expiry_date`
	rows, err := r.db.QueryContext(ctx, query, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.ExpiringDocument
	for rows.Next() {
		var doc domain.ExpiringDocument
		if err := rows.Scan(&doc.VehicleID, &doc.RegistrationNo, &doc.UserID, &doc.Kind, &doc.ExpiryDate); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
