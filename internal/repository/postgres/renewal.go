package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/logger"
	"fleetdesk-backend/internal/repository"
)

type renewalRepository struct {
	db *sql.DB
}

func NewRenewalRepository(db *sql.DB) repository.RenewalRepository {
	return &renewalRepository{db: db}
}

// stageColumns maps each recognized stage to its flag and timestamp columns.
// This is the only place stage names touch SQL; anything outside this map
// never reaches a query.
var stageColumns = map[domain.Stage]struct {
	done    string
	stamped string
}{
	domain.StageGovtFees:          {"govt_fees_done", "govt_fees_on"},
	domain.StageRTOApproval:       {"rto_approval_done", "rto_approval_on"},
	domain.StageInspection:        {"inspection_done", "inspection_on"},
	domain.StageCertificate:       {"certificate_done", "certificate_on"},
	domain.StageDocumentDelivered: {"document_delivered_done", "document_delivered_on"},
}

const renewalColumns = `id, user_id, vehicle_id, vehicle_no, services, govt_fees, service_charge, price,
	is_assigned_service, status,
	govt_fees_done, govt_fees_on, rto_approval_done, rto_approval_on,
	inspection_done, inspection_on, certificate_done, certificate_on,
	document_delivered_done, document_delivered_on, created_on, updated_on`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRenewalService(row rowScanner) (*domain.RenewalService, error) {
	svc := &domain.RenewalService{Progress: make(map[domain.Stage]domain.StageProgress)}
	flags := make([]bool, len(domain.Stages))
	stamps := make([]sql.NullTime, len(domain.Stages))
	err := row.Scan(
		&svc.ID, &svc.UserID, &svc.VehicleID, &svc.VehicleNo, &svc.Services,
		&svc.GovtFees, &svc.ServiceCharge, &svc.Price,
		&svc.IsAssignedService, &svc.Status,
		&flags[0], &stamps[0], &flags[1], &stamps[1],
		&flags[2], &stamps[2], &flags[3], &stamps[3],
		&flags[4], &stamps[4], &svc.CreatedOn, &svc.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	for i, stage := range domain.Stages {
		progress := domain.StageProgress{Done: flags[i]}
		if stamps[i].Valid {
			t := stamps[i].Time
			progress.CompletedOn = &t
		}
		svc.Progress[stage] = progress
	}
	return svc, nil
}

func (r *renewalRepository) Create(ctx context.Context, svc *domain.RenewalService) error {
	query := `INSERT INTO renewal_services (user_id, vehicle_id, vehicle_no, services, govt_fees, service_charge, price, is_assigned_service, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10) RETURNING id, created_on, updated_on`
	logger.DatabaseCall("INSERT", "renewal_services", "userID", svc.UserID, "vehicleNo", svc.VehicleNo)
	err := r.db.QueryRowContext(ctx, query,
		svc.UserID, svc.VehicleID, svc.VehicleNo, svc.Services,
		svc.GovtFees, svc.ServiceCharge, svc.Price,
		svc.IsAssignedService, svc.Status, time.Now(),
	).Scan(&svc.ID, &svc.CreatedOn, &svc.UpdatedOn)
	logger.DatabaseResult("INSERT", 1, err, "serviceID", svc.ID)
	if svc.Progress == nil {
		svc.Progress = make(map[domain.Stage]domain.StageProgress)
	}
	return err
}

func (r *renewalRepository) GetByID(ctx context.Context, id int32) (*domain.RenewalService, error) {
	query := `SELECT ` + renewalColumns + ` FROM renewal_services WHERE id = $1`
	svc, err := scanRenewalService(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return svc, err
}

func (r *renewalRepository) ListByUser(ctx context.Context, userID int32, status domain.ServiceStatus) ([]domain.RenewalService, error) {
	query := `SELECT ` + renewalColumns + ` FROM renewal_services WHERE user_id = $1`
	args := []interface{}{userID}
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
	}
	query += " ORDER BY created_on DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []domain.RenewalService
	for rows.Next() {
		svc, err := scanRenewalService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, *svc)
	}
	return services, rows.Err()
}

func (r *renewalRepository) Summary(ctx context.Context, userID int32) (*domain.ServiceSummary, error) {
	summary := &domain.ServiceSummary{
		StatusCount: make(map[domain.ServiceStatus]int32),
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT status, count(*) FROM renewal_services WHERE user_id = $1 GROUP BY status`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status domain.ServiceStatus
		var count int32
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		summary.StatusCount[status] = count
		summary.Total += count
	}
	return summary, rows.Err()
}

// Assign performs the compare-and-swap: the WHERE clause only matches while
// the record is still unassigned, so concurrent callers race on a single
// conditional write and at most one sees a row change.
func (r *renewalRepository) Assign(ctx context.Context, id int32) (*domain.RenewalService, error) {
	query := `UPDATE renewal_services
	          SET is_assigned_service = TRUE, status = $1, updated_on = $2
	          WHERE id = $3 AND is_assigned_service = FALSE`
	logger.DatabaseCall("UPDATE", "renewal_services", "serviceID", id, "op", "assign")
	result, err := r.db.ExecContext(ctx, query, domain.ServiceStatusPending, time.Now(), id)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Either the record is gone or another caller won the race.
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, domain.ErrAlreadyAssigned
	}
	return r.GetByID(ctx, id)
}

func (r *renewalRepository) MarkStage(ctx context.Context, id int32, stage domain.Stage) (*domain.RenewalService, error) {
	cols, ok := stageColumns[stage]
	if !ok {
		return nil, domain.NewValidationError("field", fmt.Sprintf("unrecognized stage %q", stage))
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `SELECT ` + renewalColumns + ` FROM renewal_services WHERE id = $1 FOR UPDATE`
	svc, err := scanRenewalService(tx.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	// Completed records are terminal; touching them is a no-op.
	if svc.Status == domain.ServiceStatusCompleted {
		return svc, nil
	}

	now := time.Now()
	alreadyDone := svc.Progress[stage].Done
	if !alreadyDone {
		svc.Progress[stage] = domain.StageProgress{Done: true, CompletedOn: &now}
	}
	newStatus := svc.DeriveStatus()
	// Re-marking a done stage is a no-op unless the derived status moved,
	// which happens when all stages finished before assignment.
	if alreadyDone && newStatus == svc.Status {
		return svc, nil
	}
	if !domain.CanTransitionStatus(svc.Status, newStatus) {
		return nil, domain.ErrConflict
	}

	// Column names come from the closed stageColumns map above, never from
	// caller input.
	update := fmt.Sprintf(
		`UPDATE renewal_services SET %s = TRUE, %s = COALESCE(%s, $1), status = $2, updated_on = $1 WHERE id = $3`,
		cols.done, cols.stamped, cols.stamped)
	logger.DatabaseCall("UPDATE", "renewal_services", "serviceID", id, "stage", stage)
	if _, err := tx.ExecContext(ctx, update, now, newStatus, id); err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "serviceID", id)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	svc.Status = newStatus
	svc.UpdatedOn = now
	return svc, nil
}
