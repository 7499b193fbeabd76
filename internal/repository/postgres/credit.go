package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/repository"
)

type creditRepository struct {
	db *sql.DB
}

func NewCreditRepository(db *sql.DB) repository.CreditRepository {
	return &creditRepository{db: db}
}

// GetBalance reads the materialized balance. A user with no account row has
// never been credited, so the balance is zero rather than an error.
func (r *creditRepository) GetBalance(ctx context.Context, userID int32) (int64, error) {
	var balance int64
	query := `SELECT COALESCE(balance, 0) FROM credit_accounts WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return balance, err
}

func (r *creditRepository) ListEntries(ctx context.Context, userID int32, limit, offset int32) ([]domain.CreditEntry, int32, error) {
	query := `SELECT id, user_id, amount, kind, settlement_id, COALESCE(description, ''), created_on
	          FROM credit_entries WHERE user_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var count int32
	countQuery := `SELECT count(*) FROM credit_entries WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	var entries []domain.CreditEntry
	for rows.Next() {
		var e domain.CreditEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Kind, &e.SettlementID, &e.Description, &e.CreatedOn); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, count, rows.Err()
}
