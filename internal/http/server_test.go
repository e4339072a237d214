package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"recibos/internal/services"
	"recibos/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "recibos.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	svc := services.NewReceiptService(repo, nil)
	processor := services.NewRecurringProcessor(repo, svc)
	return NewServer(":0", repo, svc, processor)
}

func doJSON(t *testing.T, s *Server, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			// list endpoints return arrays; callers decode those themselves
			decoded = nil
		}
	}
	return rec, decoded
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec, _ := doJSON(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCreateAndListContracts(t *testing.T) {
	s := newTestServer(t)

	rec, created := doJSON(t, s, http.MethodPost, "/api/contracts", `{
		"number": "CONT-001",
		"client_name": "Acme Ltda",
		"client_document": "12.345.678/0001-90",
		"description": "consultoria mensal",
		"amount": "1.500,00",
		"recurrence_enabled": true,
		"recurrence_day": 17
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if created["amount"] != "1.500,00" {
		t.Fatalf("expected normalized amount, got %v", created["amount"])
	}
	if created["id"] == nil {
		t.Fatalf("expected assigned id, got %v", created)
	}

	rec, _ = doJSON(t, s, http.MethodGet, "/api/contracts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0]["client_name"] != "Acme Ltda" {
		t.Fatalf("unexpected contract list: %v", list)
	}
}

func TestCreateContractRejectsBadBody(t *testing.T) {
	s := newTestServer(t)

	rec, _ := doJSON(t, s, http.MethodPost, "/api/contracts", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad JSON, got %d", rec.Code)
	}

	// Unparseable amount degrades to zero, which fails validation.
	rec, _ = doJSON(t, s, http.MethodPost, "/api/contracts", `{
		"client_name": "Acme",
		"description": "d",
		"amount": "garbage"
	}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero amount, got %d", rec.Code)
	}
}

func TestAmountPreview(t *testing.T) {
	s := newTestServer(t)

	rec, body := doJSON(t, s, http.MethodGet, "/api/preview/amount?digits=123456", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["display"] != "1.234,56" {
		t.Fatalf("expected display 1.234,56, got %v", body["display"])
	}
	if body["brl"] != "R$ 1.234,56" {
		t.Fatalf("expected brl format, got %v", body["brl"])
	}
	if !strings.Contains(body["in_words"].(string), "reais") {
		t.Fatalf("expected spelled-out amount, got %v", body["in_words"])
	}

	// Empty digit stream: nothing typed yet.
	rec, body = doJSON(t, s, http.MethodGet, "/api/preview/amount?digits=abc", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["display"] != "" {
		t.Fatalf("expected empty display, got %v", body["display"])
	}
}

func TestRecurrenceRunEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec, _ := doJSON(t, s, http.MethodPost, "/api/contracts", `{
		"number": "CONT-001",
		"client_name": "Acme Ltda",
		"description": "consultoria mensal",
		"amount": "1.500,00",
		"recurrence_enabled": true,
		"recurrence_day": 17
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("contract create failed: %d", rec.Code)
	}

	rec, body := doJSON(t, s, http.MethodPost, "/api/recurrence/run?date=2025-09-07", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body["created"] != float64(1) {
		t.Fatalf("expected 1 created, got %v", body["created"])
	}

	// Second run is a no-op thanks to the month dedup.
	rec, body = doJSON(t, s, http.MethodPost, "/api/recurrence/run?date=2025-09-07", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["created"] != float64(0) {
		t.Fatalf("expected 0 created on rerun, got %v", body["created"])
	}

	rec, _ = doJSON(t, s, http.MethodGet, "/api/receipts?year=2025&month=9", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var receipts []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &receipts); err != nil {
		t.Fatalf("decode receipts: %v", err)
	}
	if len(receipts) != 1 {
		t.Fatalf("expected 1 receipt, got %d", len(receipts))
	}
	r := receipts[0]
	if !strings.Contains(r["number"].(string), "RB-AUTO-") {
		t.Fatalf("unexpected number %v", r["number"])
	}
	if r["status"] != "issued" {
		t.Fatalf("unexpected status %v", r["status"])
	}
	if r["issue_date"] != "2025-09-17" {
		t.Fatalf("unexpected issue date %v", r["issue_date"])
	}
	if !strings.Contains(r["amount_in_words"].(string), "um mil e quinhentos reais") {
		t.Fatalf("unexpected words %v", r["amount_in_words"])
	}
}

func TestCreateReceiptInvalidatesMonthCache(t *testing.T) {
	s := newTestServer(t)

	// Warm the cache with an empty month.
	rec, _ := doJSON(t, s, http.MethodGet, "/api/receipts?year=2025&month=9", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec, _ = doJSON(t, s, http.MethodPost, "/api/receipts", `{
		"number": "RB-001",
		"client_name": "Acme Ltda",
		"description": "avulso",
		"amount": "250,00",
		"issue_date": "2025-09-03"
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec, _ = doJSON(t, s, http.MethodGet, "/api/receipts?year=2025&month=9", "")
	var receipts []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &receipts); err != nil {
		t.Fatalf("decode receipts: %v", err)
	}
	if len(receipts) != 1 {
		t.Fatalf("expected fresh listing after create, got %d", len(receipts))
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	rec, _ := doJSON(t, s, http.MethodDelete, "/api/contracts", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	rec, _ = doJSON(t, s, http.MethodGet, "/api/recurrence/run", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
