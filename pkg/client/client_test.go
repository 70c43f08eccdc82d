package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/"})
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestClient_LoginStoresToken(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			var req LoginRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email != "a@b.co" {
				writeJSON(w, http.StatusBadRequest, `{"success":false,"error":{"code":"BAD_REQUEST","message":"bad"}}`)
				return
			}
			writeJSON(w, http.StatusOK, `{"success":true,"message":"Login successful","data":{"accessToken":"tok","refreshToken":"ref","expiresIn":3600,"user":{"id":"u1","email":"a@b.co","plan":"basic"}}}`)
		case "/api/v1/auth/me":
			gotAuth = r.Header.Get("Authorization")
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"id":"u1","email":"a@b.co","firstName":"Ada","plan":"basic"}}`)
		default:
			http.NotFound(w, r)
		}
	})

	resp, err := c.Login(context.Background(), "a@b.co", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.User == nil || resp.User.ID != "u1" {
		t.Fatalf("Login() user = %+v", resp.User)
	}
	if c.GetToken() != "tok" {
		t.Errorf("token = %q, want tok", c.GetToken())
	}

	u, err := c.GetCurrentUser(context.Background())
	if err != nil {
		t.Fatalf("GetCurrentUser() error = %v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if u.FullName() != "Ada" {
		t.Errorf("FullName() = %q", u.FullName())
	}
}

func TestClient_ErrorEnvelope(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantCode   string
		wantFields []string
		check      func(*APIError) bool
	}{
		{
			name:       "validation",
			status:     http.StatusBadRequest,
			body:       `{"success":false,"error":{"code":"VALIDATION_ERROR","message":"Validation failed","details":[{"field":"unitPrice","tag":"required","message":"unitPrice is required"}]}}`,
			wantCode:   "VALIDATION_ERROR",
			wantFields: []string{"unitPrice"},
			check:      (*APIError).IsValidationError,
		},
		{
			name:     "plan required",
			status:   http.StatusForbidden,
			body:     `{"success":false,"error":{"code":"PLAN_REQUIRED","message":"This feature requires a pro plan subscription."}}`,
			wantCode: "PLAN_REQUIRED",
			check:    (*APIError).IsPlanRequired,
		},
		{
			name:   "non-json body",
			status: http.StatusBadGateway,
			body:   "upstream down",
			check:  (*APIError).IsServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := c.Sales().Get(context.Background(), "s1")
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *APIError", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", apiErr.Code, tt.wantCode)
			}
			if len(apiErr.Details) != len(tt.wantFields) {
				t.Fatalf("Details = %+v, want fields %v", apiErr.Details, tt.wantFields)
			}
			for i, f := range tt.wantFields {
				if apiErr.Details[i].Field != f {
					t.Errorf("Details[%d].Field = %q, want %q", i, apiErr.Details[i].Field, f)
				}
			}
			if !tt.check(apiErr) {
				t.Errorf("classification failed for %+v", apiErr)
			}
		})
	}
}

func TestSaleService_ListQueryAndDecimals(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/api/v1/sales" || q.Get("page") != "2" || q.Get("limit") != "5" || q.Get("category") != "hardware" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		if q.Has("customerName") {
			t.Errorf("empty filters must not be sent")
		}
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"items":[{"id":"s1","quantity":3,"unitPrice":"19.99","totalAmount":"59.97"}],"pagination":{"page":2,"limit":5,"total":6,"pages":2}}}`)
	})

	list, err := c.Sales().List(context.Background(), &SaleListOptions{
		ListOptions: ListOptions{Page: 2, Limit: 5},
		Category:    "hardware",
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list.Items) != 1 || list.Pagination.Pages != 2 {
		t.Fatalf("List() = %+v", list)
	}
	if !list.Items[0].TotalAmount.Equal(decimal.RequireFromString("59.97")) {
		t.Errorf("TotalAmount = %s", list.Items[0].TotalAmount)
	}
}

func TestReportService_Export(t *testing.T) {
	tests := []struct {
		name         string
		handler      http.HandlerFunc
		wantFilename string
		wantURL      string
		wantBody     string
	}{
		{
			name: "inline csv",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/csv")
				w.Header().Set("Content-Disposition", `attachment; filename="sales_2024-01-01_2024-01-31.csv"`)
				_, _ = w.Write([]byte("Date,Customer\n"))
			},
			wantFilename: "sales_2024-01-01_2024-01-31.csv",
			wantBody:     "Date,Customer\n",
		},
		{
			name: "stored link",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, `{"success":true,"data":{"filename":"sales.csv","url":"https://s3/x","expiresAt":"2024-01-01T00:15:00Z"}}`)
			},
			wantFilename: "sales.csv",
			wantURL:      "https://s3/x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("reportType") != "sales" {
					t.Errorf("reportType = %q", r.URL.Query().Get("reportType"))
				}
				tt.handler(w, r)
			})

			export, err := c.Reports().Export(context.Background(), "sales", "2024-01-01", "2024-01-31")
			if err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			if export.Filename != tt.wantFilename {
				t.Errorf("Filename = %q, want %q", export.Filename, tt.wantFilename)
			}
			if export.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", export.URL, tt.wantURL)
			}
			if string(export.Body) != tt.wantBody {
				t.Errorf("Body = %q, want %q", export.Body, tt.wantBody)
			}
		})
	}
}

func TestClient_DeleteIgnoresEmptyData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		writeJSON(w, http.StatusOK, `{"success":true,"message":"Event deleted successfully"}`)
	})

	if err := c.Calendar().Delete(context.Background(), "e1"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}
