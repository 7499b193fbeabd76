package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/logger"
	"fleetdesk-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type settlementRepository struct {
	db *sql.DB
}

func NewSettlementRepository(db *sql.DB) repository.SettlementRepository {
	return &settlementRepository{db: db}
}

// Settle is the one place challan paid flags and the credit balance change.
// Everything happens inside a single transaction: the selected challans are
// locked and re-checked, totals are recomputed from the locked rows, the
// debit is a conditional write that cannot take the balance negative, and
// the ledger entry plus audit record ride the same commit.
func (r *settlementRepository) Settle(ctx context.Context, userID int32, challanIDs []int32, schedule domain.FeeSchedule, idempotencyKey *string) (*domain.SettlementRecord, error) {
	logger.EnterMethod("settlementRepository.Settle", "userID", userID, "challans", len(challanIDs))

	if len(challanIDs) == 0 {
		return nil, domain.NewValidationError("challans", "at least one challan required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if idempotencyKey != nil && *idempotencyKey != "" {
		rec, err := r.getByKey(ctx, tx, *idempotencyKey)
		if err == nil {
			// A replay is only honored for the same caller retrying the
			// same batch; a key reused across users or batches is rejected
			// rather than leaking someone else's record.
			if rec.UserID != userID || !coversChallans(rec.Items, challanIDs) {
				logger.ExitMethodWithError("settlementRepository.Settle", domain.ErrConflict, "userID", userID, "op", "key-reuse")
				return nil, domain.ErrConflict
			}
			logger.ExitMethod("settlementRepository.Settle", "settlementID", rec.ID, "replayed", true)
			return rec, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	challans, err := r.lockChallans(ctx, tx, challanIDs)
	if err != nil {
		logger.ExitMethodWithError("settlementRepository.Settle", err, "userID", userID)
		return nil, err
	}

	quote := schedule.Price(challans)

	// Conditional debit: matches only while the balance covers the total.
	result, err := tx.ExecContext(ctx,
		`UPDATE credit_accounts SET balance = balance - $1 WHERE user_id = $2 AND balance >= $1`,
		quote.GrandTotal, userID)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		var available int64
		err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(balance, 0) FROM credit_accounts WHERE user_id = $1`, userID).Scan(&available)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		insufficient := &domain.InsufficientCreditsError{Required: quote.GrandTotal, Available: available}
		logger.ExitMethodWithError("settlementRepository.Settle", insufficient, "userID", userID)
		return nil, insufficient
	}

	rec := &domain.SettlementRecord{
		ID:             uuid.NewString(),
		UserID:         userID,
		RegistrationNo: challans[0].RegistrationNo,
		Items:          quote.Items,
		FineTotal:      quote.FineTotal,
		FeeTotal:       quote.FeeTotal,
		TaxTotal:       quote.TaxTotal,
		GrandTotal:     quote.GrandTotal,
		IdempotencyKey: idempotencyKey,
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO credit_entries (user_id, amount, kind, settlement_id, description, created_on)
		 VALUES ($1, $2, $3, $4, $5, now()) RETURNING id`,
		userID, -quote.GrandTotal, domain.CreditEntrySettlementDebit, rec.ID,
		fmt.Sprintf("settlement of %d challan(s) for %s", len(challans), rec.RegistrationNo),
	).Scan(new(int32))
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE challans SET paid = TRUE, updated_on = now() WHERE id = ANY($1)`,
		pq.Array(challanIDs)); err != nil {
		return nil, err
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO settlements (id, user_id, registration_no, fine_total, fee_total, tax_total, grand_total, idempotency_key, created_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now()) RETURNING created_on`,
		rec.ID, rec.UserID, rec.RegistrationNo, rec.FineTotal, rec.FeeTotal, rec.TaxTotal, rec.GrandTotal, idempotencyKey,
	).Scan(&rec.CreatedOn)
	if err != nil {
		return nil, err
	}

	for _, item := range rec.Items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO settlement_items (settlement_id, challan_id, fine_amount, service_fee, tax)
			 VALUES ($1, $2, $3, $4, $5)`,
			rec.ID, item.ChallanID, item.FineAmount, item.ServiceFee, item.Tax); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	logger.ExitMethod("settlementRepository.Settle", "settlementID", rec.ID, "grandTotal", rec.GrandTotal)
	return rec, nil
}

// coversChallans reports whether the recorded items settle exactly the
// requested challan set.
func coversChallans(items []domain.SettlementItem, ids []int32) bool {
	recorded := make(map[int32]bool, len(items))
	for _, item := range items {
		recorded[item.ChallanID] = true
	}
	requested := make(map[int32]bool, len(ids))
	for _, id := range ids {
		requested[id] = true
	}
	if len(recorded) != len(requested) {
		return false
	}
	for id := range requested {
		if !recorded[id] {
			return false
		}
	}
	return true
}

// lockChallans selects the batch FOR UPDATE and re-checks existence and paid
// state against the locked rows.
func (r *settlementRepository) lockChallans(ctx context.Context, tx *sql.Tx, ids []int32) ([]domain.Challan, error) {
	query := `SELECT ` + challanColumns + ` FROM challans WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	rows, err := tx.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := make(map[int32]bool)
	var challans []domain.Challan
	for rows.Next() {
		c, err := scanChallan(rows)
		if err != nil {
			return nil, err
		}
		if c.Paid {
			return nil, domain.ErrAlreadyPaid
		}
		seen[c.ID] = true
		challans = append(challans, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, id := range ids {
		if !seen[id] {
			return nil, domain.ErrNotFound
		}
	}
	return challans, nil
}

func (r *settlementRepository) GetByID(ctx context.Context, id string) (*domain.SettlementRecord, error) {
	return r.get(ctx, r.db, `WHERE s.id = $1`, id)
}

func (r *settlementRepository) getByKey(ctx context.Context, tx *sql.Tx, key string) (*domain.SettlementRecord, error) {
	return r.get(ctx, tx, `WHERE s.idempotency_key = $1`, key)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func (r *settlementRepository) get(ctx context.Context, q queryer, where string, arg interface{}) (*domain.SettlementRecord, error) {
	query := `SELECT s.id, s.user_id, s.registration_no, s.fine_total, s.fee_total, s.tax_total, s.grand_total, s.idempotency_key, s.created_on,
	                 i.challan_id, c.challan_no, i.fine_amount, i.service_fee, i.tax
	          FROM settlements s
	          JOIN settlement_items i ON i.settlement_id = s.id
	          JOIN challans c ON c.id = i.challan_id ` + where + ` ORDER BY i.challan_id`
	rows, err := q.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rec *domain.SettlementRecord
	for rows.Next() {
		var item domain.SettlementItem
		row := &domain.SettlementRecord{}
		err := rows.Scan(&row.ID, &row.UserID, &row.RegistrationNo,
			&row.FineTotal, &row.FeeTotal, &row.TaxTotal, &row.GrandTotal,
			&row.IdempotencyKey, &row.CreatedOn,
			&item.ChallanID, &item.ChallanNo, &item.FineAmount, &item.ServiceFee, &item.Tax)
		if err != nil {
			return nil, err
		}
		item.Total = item.FineAmount + item.ServiceFee + item.Tax
		if rec == nil {
			rec = row
		}
		rec.Items = append(rec.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}
