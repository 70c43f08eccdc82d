package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/pratik-mahalle/bizlytic/internal/pkg/errors"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/validator"
	"github.com/pratik-mahalle/bizlytic/internal/services"
	"github.com/pratik-mahalle/bizlytic/internal/testutil"
)

func newSaleHandler() (*SaleHandler, *testutil.MockSaleRepository, *testutil.RecordingPublisher) {
	repo := testutil.NewMockSaleRepository()
	pub := &testutil.RecordingPublisher{}
	log := testLogger()
	return NewSaleHandler(services.NewSaleService(repo, pub, log), nil, log, validator.New()), repo, pub
}

func TestSaleHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantFields []string
		wantTotal  string
	}{
		{
			name: "total derived from quantity and price",
			body: map[string]interface{}{
				"customerName": "Ada", "productName": "Widget", "category": "retail",
				"quantity": 2, "unitPrice": "10.00", "totalAmount": "999",
			},
			wantStatus: http.StatusCreated,
			wantTotal:  "20",
		},
		{
			name: "numeric price accepted",
			body: map[string]interface{}{
				"customerName": "Ada", "productName": "Widget", "category": "retail",
				"quantity": 3, "unitPrice": 0.333,
			},
			wantStatus: http.StatusCreated,
			wantTotal:  "0.99",
		},
		{
			name: "zero quantity",
			body: map[string]interface{}{
				"customerName": "Ada", "productName": "Widget", "category": "retail",
				"quantity": 0, "unitPrice": "10",
			},
			wantStatus: http.StatusBadRequest,
			wantFields: []string{"quantity"},
		},
		{
			name: "missing price and customer",
			body: map[string]interface{}{
				"productName": "Widget", "category": "retail", "quantity": 1,
			},
			wantStatus: http.StatusBadRequest,
			wantFields: []string{"customerName", "unitPrice"},
		},
		{
			name: "unknown payment method and bad date",
			body: map[string]interface{}{
				"customerName": "Ada", "productName": "Widget", "category": "retail",
				"quantity": 1, "unitPrice": "1", "paymentMethod": "bitcoin", "saleDate": "yesterday",
			},
			wantStatus: http.StatusBadRequest,
			wantFields: []string{"paymentMethod", "saleDate"},
		},
		{
			name: "total past the storable range",
			body: map[string]interface{}{
				"customerName": "Ada", "productName": "Widget", "category": "retail",
				"quantity": 1000000000, "unitPrice": "100000000000",
			},
			wantStatus: http.StatusBadRequest,
			wantFields: []string{"unitPrice"},
		},
		{
			name:       "malformed body",
			body:       "{not json",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, repo, pub := newSaleHandler()
			rr := httptest.NewRecorder()

			handler.Create(rr, newRequest(http.MethodPost, "/api/v1/sales", "u1", tt.body, nil))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
			env := decodeEnvelope(t, rr)
			if tt.wantStatus != http.StatusCreated {
				if len(repo.Sales) != 0 {
					t.Error("rejected sale was persisted")
				}
				if tt.wantFields != nil {
					if env.Error.Code != errors.ErrCodeValidation {
						t.Errorf("code = %s, want %s", env.Error.Code, errors.ErrCodeValidation)
					}
					got := env.fields()
					if len(got) != len(tt.wantFields) {
						t.Fatalf("fields = %v, want %v", got, tt.wantFields)
					}
					for i := range got {
						if got[i] != tt.wantFields[i] {
							t.Errorf("fields = %v, want %v", got, tt.wantFields)
						}
					}
				}
				return
			}

			var created struct {
				ID            string          `json:"id"`
				TotalAmount   decimal.Decimal `json:"totalAmount"`
				PaymentMethod string          `json:"paymentMethod"`
			}
			if err := json.Unmarshal(env.Data, &created); err != nil {
				t.Fatalf("failed to decode sale: %v", err)
			}
			if !created.TotalAmount.Equal(decimal.RequireFromString(tt.wantTotal)) {
				t.Errorf("totalAmount = %s, want %s", created.TotalAmount, tt.wantTotal)
			}
			if created.PaymentMethod != "cash" {
				t.Errorf("paymentMethod = %q, want cash", created.PaymentMethod)
			}
			if names := pub.Names(); len(names) != 1 || names[0] != "sale-added" {
				t.Errorf("published = %v, want [sale-added]", names)
			}
		})
	}
}

func TestSaleHandler_OwnershipAndPaging(t *testing.T) {
	handler, _, _ := newSaleHandler()

	var id string
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		handler.Create(rr, newRequest(http.MethodPost, "/api/v1/sales", "u1", map[string]interface{}{
			"customerName": "Ada", "productName": "Widget", "category": "retail",
			"quantity": 1, "unitPrice": "5", "saleDate": "2024-12-0" + string(rune('1'+i)),
		}, nil))
		if rr.Code != http.StatusCreated {
			t.Fatalf("seed status = %d", rr.Code)
		}
		var created struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(decodeEnvelope(t, rr).Data, &created)
		id = created.ID
	}

	t.Run("other user cannot read", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.Get(rr, newRequest(http.MethodGet, "/api/v1/sales/"+id, "u2", nil, map[string]string{"id": id}))
		if rr.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rr.Code)
		}
	})

	t.Run("other user cannot delete", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.Delete(rr, newRequest(http.MethodDelete, "/api/v1/sales/"+id, "u2", nil, map[string]string{"id": id}))
		if rr.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rr.Code)
		}
	})

	t.Run("paged list", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.List(rr, newRequest(http.MethodGet, "/api/v1/sales?page=2&limit=2", "u1", nil, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		var page struct {
			Items      []map[string]interface{} `json:"items"`
			Pagination struct {
				Page  int   `json:"page"`
				Total int64 `json:"total"`
				Pages int   `json:"pages"`
			} `json:"pagination"`
		}
		if err := json.Unmarshal(decodeEnvelope(t, rr).Data, &page); err != nil {
			t.Fatalf("failed to decode page: %v", err)
		}
		if len(page.Items) != 1 || page.Pagination.Total != 3 || page.Pagination.Pages != 2 || page.Pagination.Page != 2 {
			t.Errorf("page = %d items, pagination %+v", len(page.Items), page.Pagination)
		}
	})

	t.Run("invalid date filter", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.List(rr, newRequest(http.MethodGet, "/api/v1/sales?startDate=soon", "u1", nil, nil))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})
}

func TestExpenseHandler_Recurrence(t *testing.T) {
	tests := []struct {
		name          string
		body          map[string]interface{}
		wantStatus    int
		wantField     string
		wantRecurring bool
	}{
		{
			name:       "recurring without period",
			body:       map[string]interface{}{"description": "Rent", "amount": "1200", "category": "office", "isRecurring": true},
			wantStatus: http.StatusBadRequest,
			wantField:  "recurringPeriod",
		},
		{
			name:       "unknown period",
			body:       map[string]interface{}{"description": "Rent", "amount": "1200", "category": "office", "isRecurring": true, "recurringPeriod": "daily"},
			wantStatus: http.StatusBadRequest,
			wantField:  "recurringPeriod",
		},
		{
			name:       "zero amount",
			body:       map[string]interface{}{"description": "Rent", "amount": "0", "category": "office"},
			wantStatus: http.StatusBadRequest,
			wantField:  "amount",
		},
		{
			name:       "amount past the storable range",
			body:       map[string]interface{}{"description": "Yacht", "amount": "92233720368547758.08", "category": "office"},
			wantStatus: http.StatusBadRequest,
			wantField:  "amount",
		},
		{
			name:          "monthly",
			body:          map[string]interface{}{"description": "Rent", "amount": "1200", "category": "office", "isRecurring": true, "recurringPeriod": "monthly"},
			wantStatus:    http.StatusCreated,
			wantRecurring: true,
		},
		{
			name:       "one-off ignores period",
			body:       map[string]interface{}{"description": "Desk", "amount": "300", "category": "office", "recurringPeriod": "monthly"},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewMockExpenseRepository()
			log := testLogger()
			handler := NewExpenseHandler(services.NewExpenseService(repo, &testutil.RecordingPublisher{}, log), nil, log, validator.New())
			rr := httptest.NewRecorder()

			handler.Create(rr, newRequest(http.MethodPost, "/api/v1/expenses", "u1", tt.body, nil))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
			env := decodeEnvelope(t, rr)
			if tt.wantField != "" {
				if got := env.fields(); len(got) != 1 || got[0] != tt.wantField {
					t.Errorf("fields = %v, want [%s]", got, tt.wantField)
				}
				return
			}
			var created struct {
				IsRecurring     bool   `json:"isRecurring"`
				RecurringPeriod string `json:"recurringPeriod"`
			}
			if err := json.Unmarshal(env.Data, &created); err != nil {
				t.Fatalf("failed to decode expense: %v", err)
			}
			if created.IsRecurring != tt.wantRecurring {
				t.Errorf("isRecurring = %v, want %v", created.IsRecurring, tt.wantRecurring)
			}
			if !tt.wantRecurring && created.RecurringPeriod != "" {
				t.Errorf("recurringPeriod = %q on a one-off expense", created.RecurringPeriod)
			}
		})
	}
}

func TestExpenseHandler_ListRejectsBadAmount(t *testing.T) {
	log := testLogger()
	handler := NewExpenseHandler(services.NewExpenseService(testutil.NewMockExpenseRepository(), &testutil.RecordingPublisher{}, log), nil, log, validator.New())
	rr := httptest.NewRecorder()

	handler.List(rr, newRequest(http.MethodGet, "/api/v1/expenses?minAmount=ten", "u1", nil, nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if got := decodeEnvelope(t, rr).fields(); len(got) != 1 || got[0] != "minAmount" {
		t.Errorf("fields = %v, want [minAmount]", got)
	}
}

func TestCalendarHandler_Create(t *testing.T) {
	tests := []struct {
		name         string
		body         map[string]interface{}
		wantStatus   int
		wantType     string
		wantPriority string
	}{
		{
			name:         "defaults applied",
			body:         map[string]interface{}{"title": "Stand-up", "startDate": "2025-01-10T09:00:00Z", "endDate": "2025-01-10T09:15:00Z"},
			wantStatus:   http.StatusCreated,
			wantType:     "other",
			wantPriority: "medium",
		},
		{
			name:       "end before start",
			body:       map[string]interface{}{"title": "Stand-up", "startDate": "2025-01-10T09:00:00Z", "endDate": "2025-01-10T08:00:00Z"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "equal bounds",
			body:       map[string]interface{}{"title": "Stand-up", "startDate": "2025-01-10T09:00:00Z", "endDate": "2025-01-10T09:00:00Z"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bounds within the same second",
			body:       map[string]interface{}{"title": "Stand-up", "startDate": "2025-01-10T09:00:00.1Z", "endDate": "2025-01-10T09:00:00.9Z"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:         "fractional bounds a second apart",
			body:         map[string]interface{}{"title": "Stand-up", "startDate": "2025-01-10T09:00:00.1Z", "endDate": "2025-01-10T09:00:01.2Z"},
			wantStatus:   http.StatusCreated,
			wantType:     "other",
			wantPriority: "medium",
		},
		{
			name:       "unknown type",
			body:       map[string]interface{}{"title": "Stand-up", "type": "party", "startDate": "2025-01-10T09:00:00Z", "endDate": "2025-01-10T10:00:00Z"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewMockCalendarRepository()
			log := testLogger()
			handler := NewCalendarHandler(services.NewCalendarService(repo, &testutil.RecordingPublisher{}, log), log, validator.New())
			rr := httptest.NewRecorder()

			handler.Create(rr, newRequest(http.MethodPost, "/api/v1/calendar", "u1", tt.body, nil))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if tt.wantStatus != http.StatusCreated {
				if len(repo.Events) != 0 {
					t.Error("rejected event was persisted")
				}
				return
			}
			var created struct {
				Type     string `json:"type"`
				Priority string `json:"priority"`
			}
			if err := json.Unmarshal(decodeEnvelope(t, rr).Data, &created); err != nil {
				t.Fatalf("failed to decode event: %v", err)
			}
			if created.Type != tt.wantType || created.Priority != tt.wantPriority {
				t.Errorf("type/priority = %s/%s, want %s/%s", created.Type, created.Priority, tt.wantType, tt.wantPriority)
			}
		})
	}
}
