package postgres

import (
	"context"
	"database/sql"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/logger"
	"fleetdesk-backend/internal/repository"

	"github.com/lib/pq"
)

type challanRepository struct {
	db *sql.DB
}

func NewChallanRepository(db *sql.DB) repository.ChallanRepository {
	return &challanRepository{db: db}
}

const challanColumns = `id, registration_no, challan_no, status, amount, state_code, challan_date, court_routing, paid, created_on, updated_on`

func scanChallan(row rowScanner) (*domain.Challan, error) {
	c := &domain.Challan{}
	err := row.Scan(&c.ID, &c.RegistrationNo, &c.ChallanNo, &c.Status, &c.Amount,
		&c.StateCode, &c.ChallanDate, &c.CourtRouting, &c.Paid, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Upsert refreshes a challan from the external feed, keyed by the provider's
// challan number. The paid flag is local state and is never overwritten.
func (r *challanRepository) Upsert(ctx context.Context, c *domain.Challan) error {
	query := `INSERT INTO challans (registration_no, challan_no, status, amount, state_code, challan_date, court_routing, paid, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, now(), now())
	          ON CONFLICT (challan_no) DO UPDATE
	          SET status = EXCLUDED.status, amount = EXCLUDED.amount,
	              state_code = EXCLUDED.state_code, challan_date = EXCLUDED.challan_date,
	              court_routing = EXCLUDED.court_routing, updated_on = now()
	          RETURNING id, paid, created_on, updated_on`
	logger.DatabaseCall("UPSERT", "challans", "challanNo", c.ChallanNo, "registrationNo", c.RegistrationNo)
	err := r.db.QueryRowContext(ctx, query,
		c.RegistrationNo, c.ChallanNo, c.Status, c.Amount,
		c.StateCode, c.ChallanDate, c.CourtRouting,
	).Scan(&c.ID, &c.Paid, &c.CreatedOn, &c.UpdatedOn)
	logger.DatabaseResult("UPSERT", 1, err, "challanID", c.ID)
	return err
}

func (r *challanRepository) ListByRegistration(ctx context.Context, registrationNo string) ([]domain.Challan, error) {
	query := `SELECT ` + challanColumns + ` FROM challans WHERE registration_no = $1 ORDER BY challan_date DESC`
	rows, err := r.db.QueryContext(ctx, query, registrationNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challans []domain.Challan
	for rows.Next() {
		c, err := scanChallan(rows)
		if err != nil {
			return nil, err
		}
		challans = append(challans, *c)
	}
	return challans, rows.Err()
}

func (r *challanRepository) GetByIDs(ctx context.Context, ids []int32) ([]domain.Challan, error) {
	query := `SELECT ` + challanColumns + ` FROM challans WHERE id = ANY($1) ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challans []domain.Challan
	for rows.Next() {
		c, err := scanChallan(rows)
		if err != nil {
			return nil, err
		}
		challans = append(challans, *c)
	}
	return challans, rows.Err()
}
