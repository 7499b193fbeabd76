package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fleetdesk-backend/internal/domain"
)

// mockRenewalService
type mockRenewalService struct {
	mock.Mock
}

func (m *mockRenewalService) CreateRequest(ctx context.Context, userID int32, req *domain.RenewalService) (*domain.RenewalService, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RenewalService), args.Error(1)
}
func (m *mockRenewalService) GetRequest(ctx context.Context, userID, serviceID int32) (*domain.RenewalService, error) {
	args := m.Called(ctx, userID, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RenewalService), args.Error(1)
}
func (m *mockRenewalService) ListRequests(ctx context.Context, userID int32, status domain.ServiceStatus) ([]domain.RenewalService, *domain.ServiceSummary, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.RenewalService), args.Get(1).(*domain.ServiceSummary), args.Error(2)
}
func (m *mockRenewalService) Assign(ctx context.Context, serviceID int32) (*domain.RenewalService, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RenewalService), args.Error(1)
}
func (m *mockRenewalService) MarkStage(ctx context.Context, serviceID int32, stage domain.Stage) (*domain.RenewalService, int, error) {
	args := m.Called(ctx, serviceID, stage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*domain.RenewalService), args.Int(1), args.Error(2)
}

// mockChallanService
type mockChallanService struct {
	mock.Mock
}

func (m *mockChallanService) Refresh(ctx context.Context, registrationNo string) ([]domain.Challan, error) {
	args := m.Called(ctx, registrationNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Challan), args.Error(1)
}

// mockSettlementService
type mockSettlementService struct {
	mock.Mock
}

func (m *mockSettlementService) Quote(ctx context.Context, challanIDs []int32) (*domain.Quote, error) {
	args := m.Called(ctx, challanIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}
func (m *mockSettlementService) Pay(ctx context.Context, userID int32, challanIDs []int32, idempotencyKey string) (*domain.SettlementRecord, error) {
	args := m.Called(ctx, userID, challanIDs, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementRecord), args.Error(1)
}
func (m *mockSettlementService) GetSettlement(ctx context.Context, userID int32, id string) (*domain.SettlementRecord, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementRecord), args.Error(1)
}

func authenticated(r *http.Request, userID int32, role domain.UserRole) *http.Request {
	ctx := context.WithValue(r.Context(), contextKeyUserID, userID)
	ctx = context.WithValue(ctx, contextKeyRole, role)
	return r.WithContext(ctx)
}

func decodeError(t *testing.T, body *bytes.Buffer) errorBody {
	t.Helper()
	var wrapper map[string]errorBody
	if err := json.Unmarshal(body.Bytes(), &wrapper); err != nil {
		t.Fatalf("malformed error body: %v", err)
	}
	return wrapper["error"]
}

func TestChallanHandler_HandleList(t *testing.T) {
	t.Run("MissingRegistration", func(t *testing.T) {
		handler := NewChallanHandler(new(mockChallanService))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/challans", nil)
		rec := httptest.NewRecorder()
		handler.HandleList(rec, authenticated(req, 9, domain.UserRoleMember))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec.Body).Code)
	})

	t.Run("SplitsPendingAndDisposed", func(t *testing.T) {
		svc := new(mockChallanService)
		handler := NewChallanHandler(svc)

		svc.On("Refresh", mock.Anything, "KA01AB1234").Return([]domain.Challan{
			{ID: 11, Status: domain.ChallanStatusPending},
			{ID: 12, Status: domain.ChallanStatusDisposed},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/challans?rc_no=KA01AB1234", nil)
		rec := httptest.NewRecorder()
		handler.HandleList(rec, authenticated(req, 9, domain.UserRoleMember))

		assert.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Pending  []domain.Challan `json:"pending"`
			Disposed []domain.Challan `json:"disposed"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body.Pending, 1)
		assert.Len(t, body.Disposed, 1)
	})

	t.Run("ProviderDown", func(t *testing.T) {
		svc := new(mockChallanService)
		handler := NewChallanHandler(svc)

		svc.On("Refresh", mock.Anything, "KA01AB1234").Return(nil, domain.ErrUpstreamUnavailable)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/challans?rc_no=KA01AB1234", nil)
		rec := httptest.NewRecorder()
		handler.HandleList(rec, authenticated(req, 9, domain.UserRoleMember))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestPaymentHandler_HandlePay(t *testing.T) {
	payload := `{"challans":[{"id":11,"total":318}],"rc_no":"KA01AB1234","total_amount":318}`

	t.Run("Success", func(t *testing.T) {
		svc := new(mockSettlementService)
		handler := NewPaymentHandler(svc)

		svc.On("Pay", mock.Anything, int32(9), []int32{11}, "retry-abc").
			Return(&domain.SettlementRecord{ID: "settle-1", UserID: 9, GrandTotal: 318}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/payment", bytes.NewBufferString(payload))
		req.Header.Set("Idempotency-Key", "retry-abc")
		rec := httptest.NewRecorder()
		handler.HandlePay(rec, authenticated(req, 9, domain.UserRoleMember))

		assert.Equal(t, http.StatusCreated, rec.Code)
		var got domain.SettlementRecord
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "settle-1", got.ID)
	})

	t.Run("InsufficientCredits", func(t *testing.T) {
		svc := new(mockSettlementService)
		handler := NewPaymentHandler(svc)

		svc.On("Pay", mock.Anything, int32(9), []int32{11}, "").
			Return(nil, &domain.InsufficientCreditsError{Required: 318, Available: 100})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/payment", bytes.NewBufferString(payload))
		rec := httptest.NewRecorder()
		handler.HandlePay(rec, authenticated(req, 9, domain.UserRoleMember))

		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
		errBody := decodeError(t, rec.Body)
		assert.Equal(t, "INSUFFICIENT_CREDITS", errBody.Code)
		assert.Equal(t, float64(318), errBody.Details["required"])
		assert.Equal(t, float64(100), errBody.Details["available"])
	})

	t.Run("AlreadyPaid", func(t *testing.T) {
		svc := new(mockSettlementService)
		handler := NewPaymentHandler(svc)

		svc.On("Pay", mock.Anything, int32(9), []int32{11}, "").
			Return(nil, domain.ErrAlreadyPaid)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/payment", bytes.NewBufferString(payload))
		rec := httptest.NewRecorder()
		handler.HandlePay(rec, authenticated(req, 9, domain.UserRoleMember))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "ALREADY_PAID", decodeError(t, rec.Body).Code)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		handler := NewPaymentHandler(new(mockSettlementService))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/payment", bytes.NewBufferString(payload))
		rec := httptest.NewRecorder()
		handler.HandlePay(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRenewalHandler_HandleMarkStage(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(mockRenewalService)
		handler := NewRenewalHandler(svc)

		updated := &domain.RenewalService{
			ID: 1, UserID: 9, Status: domain.ServiceStatusProcessing,
			Progress: map[domain.Stage]domain.StageProgress{domain.StageGovtFees: {Done: true}},
		}
		svc.On("MarkStage", mock.Anything, int32(1), domain.StageGovtFees).Return(updated, 20, nil)

		req := httptest.NewRequest(http.MethodPatch, "/api/v1/services/1", bytes.NewBufferString(`{"field":"govtFees"}`))
		req = mux.SetURLVars(req, map[string]string{"id": "1"})
		rec := httptest.NewRecorder()
		handler.HandleMarkStage(rec, authenticated(req, 9, domain.UserRoleAdmin))

		assert.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Status         domain.ServiceStatus `json:"status"`
			OverallPercent int                  `json:"overall_percent"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, domain.ServiceStatusProcessing, body.Status)
		assert.Equal(t, 20, body.OverallPercent)
	})

	t.Run("UnrecognizedField", func(t *testing.T) {
		svc := new(mockRenewalService)
		handler := NewRenewalHandler(svc)

		svc.On("MarkStage", mock.Anything, int32(1), domain.Stage("price")).
			Return(nil, 0, domain.NewValidationError("field", `unrecognized stage "price"`))

		req := httptest.NewRequest(http.MethodPatch, "/api/v1/services/1", bytes.NewBufferString(`{"field":"price"}`))
		req = mux.SetURLVars(req, map[string]string{"id": "1"})
		rec := httptest.NewRecorder()
		handler.HandleMarkStage(rec, authenticated(req, 9, domain.UserRoleAdmin))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("BadID", func(t *testing.T) {
		handler := NewRenewalHandler(new(mockRenewalService))

		req := httptest.NewRequest(http.MethodPatch, "/api/v1/services/abc", bytes.NewBufferString(`{"field":"govtFees"}`))
		req = mux.SetURLVars(req, map[string]string{"id": "abc"})
		rec := httptest.NewRecorder()
		handler.HandleMarkStage(rec, authenticated(req, 9, domain.UserRoleAdmin))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRenewalHandler_HandleAssign(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(mockRenewalService)
		handler := NewRenewalHandler(svc)

		svc.On("Assign", mock.Anything, int32(1)).Return(&domain.RenewalService{
			ID: 1, IsAssignedService: true, Status: domain.ServiceStatusPending,
		}, nil)

		req := httptest.NewRequest(http.MethodPatch, "/api/v1/services/1/assign", nil)
		req = mux.SetURLVars(req, map[string]string{"id": "1"})
		rec := httptest.NewRecorder()
		handler.HandleAssign(rec, authenticated(req, 9, domain.UserRoleAdmin))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("SecondAssignConflicts", func(t *testing.T) {
		svc := new(mockRenewalService)
		handler := NewRenewalHandler(svc)

		svc.On("Assign", mock.Anything, int32(1)).Return(nil, domain.ErrAlreadyAssigned)

		req := httptest.NewRequest(http.MethodPatch, "/api/v1/services/1/assign", nil)
		req = mux.SetURLVars(req, map[string]string{"id": "1"})
		rec := httptest.NewRecorder()
		handler.HandleAssign(rec, authenticated(req, 9, domain.UserRoleAdmin))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "ALREADY_ASSIGNED", decodeError(t, rec.Body).Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	next := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	t.Run("MemberForbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/services/1/assign", nil)
		rec := httptest.NewRecorder()
		RequireAdmin(next)(rec, authenticated(req, 9, domain.UserRoleMember))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("AdminAllowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/services/1/assign", nil)
		rec := httptest.NewRecorder()
		RequireAdmin(next)(rec, authenticated(req, 9, domain.UserRoleAdmin))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
