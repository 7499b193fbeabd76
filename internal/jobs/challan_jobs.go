package jobs

import (
	"context"

	"fleetdesk-backend/internal/logger"
)

// SyncChallanLedgers refreshes the local challan ledger for every registered
// vehicle. Provider failures are logged per vehicle and never abort the run.
func (jr *JobRunner) SyncChallanLedgers() {
	jr.runWithRecovery("SyncChallanLedgers", func() {
		ctx := context.Background()

		vehicles, err := jr.store.VehicleRepository.List(ctx)
		if err != nil {
			logger.Error("Failed to list vehicles", "error", err)
			return
		}

		count := 0
		for _, v := range vehicles {
			if _, err := jr.services.Challan.Refresh(ctx, v.RegistrationNo); err != nil {
				logger.Error("Failed to sync challan ledger",
					"vehicle_id", v.ID,
					"registration_no", v.RegistrationNo,
					"error", err)
				continue
			}
			count++
			logger.Debug("Synced challan ledger",
				"vehicle_id", v.ID,
				"registration_no", v.RegistrationNo)
		}

		logger.Info("Challan ledgers synced", "count", count, "vehicles", len(vehicles))
	})
}
