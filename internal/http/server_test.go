package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"finctl/internal/services"
	"finctl/internal/storage"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	srv := NewServer(":0",
		services.NewCategoryService(repo),
		services.NewLedgerService(repo, nil),
		services.NewRecurringService(repo),
		nil)
	return srv.Handler
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-User-ID", "1")
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var envelope map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("%s %s: invalid JSON response %q: %v", method, path, rec.Body.String(), err)
	}
	return rec.Code, envelope
}

func dataField(t *testing.T, envelope map[string]any, keys ...string) any {
	t.Helper()
	var cur any = envelope["data"]
	for _, key := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			t.Fatalf("data path %v: not an object at %q", keys, key)
		}
		cur = m[key]
	}
	return cur
}

func TestMissingUserHeaderIsRejected(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", rec.Code)
	}
}

func TestCategoryEndpoints(t *testing.T) {
	h := newTestServer(t)

	status, envelope := doJSON(t, h, http.MethodGet, "/api/categories", "")
	if status != http.StatusOK {
		t.Fatalf("list categories status = %d; want 200", status)
	}
	defaults, ok := dataField(t, envelope, "categories", "expense").([]any)
	if !ok || len(defaults) == 0 {
		t.Fatal("expected seeded default expense categories")
	}

	status, envelope = doJSON(t, h, http.MethodPost, "/api/categories",
		`{"name":"Pets","icon":"X","color":"#aabbcc","type":"expense"}`)
	if status != http.StatusCreated {
		t.Fatalf("create category status = %d (%v); want 201", status, envelope)
	}

	// same normalized name and type conflicts
	status, _ = doJSON(t, h, http.MethodPost, "/api/categories",
		`{"name":"  pets ","icon":"X","color":"#aabbcc","type":"expense"}`)
	if status != http.StatusConflict {
		t.Fatalf("duplicate category status = %d; want 409", status)
	}

	// same name on the other type is allowed
	status, _ = doJSON(t, h, http.MethodPost, "/api/categories",
		`{"name":"Pets","icon":"X","color":"#aabbcc","type":"income"}`)
	if status != http.StatusCreated {
		t.Fatalf("same-name other-type status = %d; want 201", status)
	}

	status, _ = doJSON(t, h, http.MethodPost, "/api/categories",
		`{"name":"","icon":"X","color":"#aabbcc","type":"expense"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("empty name status = %d; want 400", status)
	}
}

func TestTransactionAndSummaryFlow(t *testing.T) {
	h := newTestServer(t)

	_, envelope := doJSON(t, h, http.MethodGet, "/api/categories", "")
	expenseCats := dataField(t, envelope, "categories", "expense").([]any)
	incomeCats := dataField(t, envelope, "categories", "income").([]any)
	expenseCat := int64(expenseCats[0].(map[string]any)["id"].(float64))
	incomeCat := int64(incomeCats[0].(map[string]any)["id"].(float64))

	post := func(body string, want int) {
		t.Helper()
		status, env := doJSON(t, h, http.MethodPost, "/api/transactions", body)
		if status != want {
			t.Fatalf("create transaction status = %d (%v); want %d", status, env, want)
		}
	}

	post(`{"description":"salary","amount":"3000.00","type":"income","category_id":`+itoa(incomeCat)+`,"date":"2024-03-01"}`, http.StatusCreated)
	post(`{"description":"groceries","amount":"120.50","type":"expense","category_id":`+itoa(expenseCat)+`,"date":"2024-03-10"}`, http.StatusCreated)
	// outside the march window
	post(`{"description":"old","amount":"40.00","type":"expense","category_id":`+itoa(expenseCat)+`,"date":"2024-02-10"}`, http.StatusCreated)

	// type/category mismatch rejected
	post(`{"description":"bad","amount":"10.00","type":"income","category_id":`+itoa(expenseCat)+`,"date":"2024-03-10"}`, http.StatusBadRequest)

	// zero-based month: March travels as month=2
	status, envelope := doJSON(t, h, http.MethodGet, "/api/transactions/summary/overview?month=2&year=2024", "")
	if status != http.StatusOK {
		t.Fatalf("summary status = %d; want 200", status)
	}
	if got := dataField(t, envelope, "total_income"); got != "3000.00" {
		t.Fatalf("total_income = %v; want 3000.00", got)
	}
	if got := dataField(t, envelope, "total_expense"); got != "120.50" {
		t.Fatalf("total_expense = %v; want 120.50", got)
	}
	if got := dataField(t, envelope, "balance"); got != "2879.50" {
		t.Fatalf("balance = %v; want 2879.50", got)
	}

	// unscoped overview includes the february row
	status, envelope = doJSON(t, h, http.MethodGet, "/api/transactions/summary/overview", "")
	if status != http.StatusOK {
		t.Fatalf("overview status = %d; want 200", status)
	}
	if got := dataField(t, envelope, "total_expense"); got != "160.50" {
		t.Fatalf("unscoped total_expense = %v; want 160.50", got)
	}

	status, _ = doJSON(t, h, http.MethodGet, "/api/transactions/9999", "")
	if status != http.StatusNotFound {
		t.Fatalf("missing transaction status = %d; want 404", status)
	}
}

func TestRecurringStatsFlow(t *testing.T) {
	h := newTestServer(t)

	_, envelope := doJSON(t, h, http.MethodGet, "/api/categories", "")
	expenseCats := dataField(t, envelope, "categories", "expense").([]any)
	incomeCats := dataField(t, envelope, "categories", "income").([]any)
	expenseCat := int64(expenseCats[0].(map[string]any)["id"].(float64))
	incomeCat := int64(incomeCats[0].(map[string]any)["id"].(float64))

	status, env := doJSON(t, h, http.MethodPost, "/api/recurring",
		`{"description":"salary","amount":"3000.00","type":"income","category_id":`+itoa(incomeCat)+`,"frequency":"monthly","start_date":"2024-01-01"}`)
	if status != http.StatusCreated {
		t.Fatalf("create recurring status = %d (%v); want 201", status, env)
	}
	status, env = doJSON(t, h, http.MethodPost, "/api/recurring",
		`{"description":"groceries","amount":"130.00","type":"expense","category_id":`+itoa(expenseCat)+`,"frequency":"weekly","start_date":"2024-01-01"}`)
	if status != http.StatusCreated {
		t.Fatalf("create recurring status = %d (%v); want 201", status, env)
	}

	// unknown frequency rejected up front
	status, _ = doJSON(t, h, http.MethodPost, "/api/recurring",
		`{"description":"odd","amount":"10.00","type":"expense","category_id":`+itoa(expenseCat)+`,"frequency":"daily","start_date":"2024-01-01"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("unknown frequency status = %d; want 400", status)
	}

	status, envelope = doJSON(t, h, http.MethodGet, "/api/recurring/stats", "")
	if status != http.StatusOK {
		t.Fatalf("stats status = %d; want 200", status)
	}
	// weekly 130.00 normalizes to 562.90
	if got := dataField(t, envelope, "monthly_totals", "expenses"); got != "562.90" {
		t.Fatalf("monthly expenses = %v; want 562.90", got)
	}
	if got := dataField(t, envelope, "monthly_totals", "income"); got != "3000.00" {
		t.Fatalf("monthly income = %v; want 3000.00", got)
	}
	if got := dataField(t, envelope, "monthly_totals", "balance"); got != "2437.10" {
		t.Fatalf("monthly balance = %v; want 2437.10", got)
	}
}

func itoa(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
