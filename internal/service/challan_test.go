package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/provider"
)

func TestChallanService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		challanRepo := new(MockChallanRepo)
		client := new(MockChallanClient)
		svc := NewChallanService(challanRepo, client)

		client.On("FetchChallans", ctx, "KA01AB1234").Return(&provider.ChallanFeed{
			Pending: []provider.PendingRecord{{
				ChallanNo:          "CH-11",
				Amount:             "200.00",
				StateCode:          "KA",
				ChallanDateTime:    "2026-05-01 10:30:00",
				SentToVirtualCourt: "Yes",
			}},
			Disposed: []provider.DisposedRecord{{
				ChallanNo:   "CH-09",
				Amount:      "500",
				StateCode:   "KA",
				ChallanDate: "2026-03-12",
				ReceiptNo:   "R-77",
			}},
		}, nil)
		challanRepo.On("Upsert", ctx, mock.AnythingOfType("*domain.Challan")).Return(nil).Twice()
		challanRepo.On("ListByRegistration", ctx, "KA01AB1234").
			Return([]domain.Challan{{ID: 11, ChallanNo: "CH-11", Amount: 200}}, nil)

		challans, err := svc.Refresh(ctx, " ka01ab1234 ")
		assert.NoError(t, err)
		assert.Len(t, challans, 1)
		challanRepo.AssertExpectations(t)
	})

	t.Run("NormalizesFeedRecords", func(t *testing.T) {
		challanRepo := new(MockChallanRepo)
		client := new(MockChallanClient)
		svc := NewChallanService(challanRepo, client)

		client.On("FetchChallans", ctx, "KA01AB1234").Return(&provider.ChallanFeed{
			Pending: []provider.PendingRecord{{
				ChallanNo:          "CH-11",
				Amount:             "200.00",
				StateCode:          "KA",
				ChallanDateTime:    "2026-05-01 10:30:00",
				SentToVirtualCourt: "Yes",
			}},
		}, nil)

		var upserted *domain.Challan
		challanRepo.On("Upsert", ctx, mock.AnythingOfType("*domain.Challan")).
			Run(func(args mock.Arguments) {
				upserted = args.Get(1).(*domain.Challan)
			}).
			Return(nil)
		challanRepo.On("ListByRegistration", ctx, "KA01AB1234").Return([]domain.Challan{}, nil)

		_, err := svc.Refresh(ctx, "KA01AB1234")
		assert.NoError(t, err)
		assert.Equal(t, int64(200), upserted.Amount)
		assert.Equal(t, domain.ChallanStatusPending, upserted.Status)
		assert.Equal(t, domain.CourtRoutingVirtual, upserted.CourtRouting)
		assert.Equal(t, 2026, upserted.ChallanDate.Year())
	})

	t.Run("SkipsMalformedRecords", func(t *testing.T) {
		challanRepo := new(MockChallanRepo)
		client := new(MockChallanClient)
		svc := NewChallanService(challanRepo, client)

		client.On("FetchChallans", ctx, "KA01AB1234").Return(&provider.ChallanFeed{
			Pending: []provider.PendingRecord{
				{ChallanNo: "CH-BAD", Amount: "not-a-number", ChallanDateTime: "2026-05-01"},
				{ChallanNo: "CH-OK", Amount: "150", StateCode: "KA", ChallanDateTime: "2026-05-01"},
			},
		}, nil)
		challanRepo.On("Upsert", ctx, mock.AnythingOfType("*domain.Challan")).Return(nil).Once()
		challanRepo.On("ListByRegistration", ctx, "KA01AB1234").
			Return([]domain.Challan{{ChallanNo: "CH-OK"}}, nil)

		challans, err := svc.Refresh(ctx, "KA01AB1234")
		assert.NoError(t, err)
		assert.Len(t, challans, 1)
		challanRepo.AssertExpectations(t)
	})

	t.Run("ProviderDownServesCache", func(t *testing.T) {
		challanRepo := new(MockChallanRepo)
		client := new(MockChallanClient)
		svc := NewChallanService(challanRepo, client)

		client.On("FetchChallans", ctx, "KA01AB1234").Return(nil, domain.ErrUpstreamUnavailable)
		challanRepo.On("ListByRegistration", ctx, "KA01AB1234").
			Return([]domain.Challan{{ID: 11, ChallanNo: "CH-11"}}, nil)

		challans, err := svc.Refresh(ctx, "KA01AB1234")
		assert.NoError(t, err)
		assert.Len(t, challans, 1)
	})

	t.Run("ProviderDownEmptyCacheFails", func(t *testing.T) {
		challanRepo := new(MockChallanRepo)
		client := new(MockChallanClient)
		svc := NewChallanService(challanRepo, client)

		client.On("FetchChallans", ctx, "KA01AB1234").Return(nil, domain.ErrUpstreamUnavailable)
		challanRepo.On("ListByRegistration", ctx, "KA01AB1234").Return([]domain.Challan{}, nil)

		_, err := svc.Refresh(ctx, "KA01AB1234")
		assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	})

	t.Run("EmptyRegistration", func(t *testing.T) {
		svc := NewChallanService(new(MockChallanRepo), new(MockChallanClient))

		_, err := svc.Refresh(ctx, "   ")
		var validation *domain.ValidationError
		assert.ErrorAs(t, err, &validation)
		assert.Equal(t, "rc_no", validation.Field)
	})

	t.Run("MalformedRegistration", func(t *testing.T) {
		svc := NewChallanService(new(MockChallanRepo), new(MockChallanClient))

		_, err := svc.Refresh(ctx, "KA-01!!")
		var validation *domain.ValidationError
		assert.ErrorAs(t, err, &validation)
	})
}
