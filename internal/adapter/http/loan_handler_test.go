package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dasarathijena330-bit/hamara/internal/adapter/repository/sqldb"
	domain "github.com/dasarathijena330-bit/hamara/internal/domain/loan"
	"github.com/dasarathijena330-bit/hamara/internal/testutil/loanmock"
	uc "github.com/dasarathijena330-bit/hamara/internal/usecase/loan"
)

// -------- helpers --------

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Loan{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return newServerWith(uc.NewUsecase(sqldb.NewLoanRepository(db)))
}

func newServerWith(u *uc.Usecase) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	NewLoanHandler(u).Register(e)
	return e
}

func mustJSON(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func do(t *testing.T, e *echo.Echo, method, target string, body *bytes.Reader) *httptest.ResponseRecorder {
	t.Helper()
	var req *stdhttp.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
}

func createAlice(t *testing.T, e *echo.Echo) domain.Loan {
	t.Helper()
	rec := do(t, e, stdhttp.MethodPost, "/loans", mustJSON(t, map[string]any{
		"borrowerName": "Alice",
		"amount":       100000,
		"interestRate": 12,
		"startDate":    "2024-01-01",
	}))
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("create status = %d, body=%s", rec.Code, rec.Body.String())
	}
	var l domain.Loan
	decode(t, rec, &l)
	return l
}

// -------- tests --------

func TestCreateThenGet_RoundTrip(t *testing.T) {
	e := newServer(t)

	rec := do(t, e, stdhttp.MethodPost, "/loans", mustJSON(t, map[string]any{
		"borrowerName": "  Alice  ",
		"amount":       100000,
		"interestRate": 12,
		"startDate":    "2024-01-01",
		"notes":        "  first loan  ",
	}))
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201; body=%s", rec.Code, rec.Body.String())
	}
	var created domain.Loan
	decode(t, rec, &created)
	if created.ID == 0 {
		t.Fatal("created loan has no id")
	}
	if created.BorrowerName != "Alice" {
		t.Errorf("borrower not trimmed: %q", created.BorrowerName)
	}
	if created.Status != domain.StatusActive {
		t.Errorf("status = %s, want active default", created.Status)
	}
	if created.Notes == nil || *created.Notes != "first loan" {
		t.Errorf("notes not trimmed: %v", created.Notes)
	}

	rec = do(t, e, stdhttp.MethodGet, "/loans?id=1", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var got domain.Loan
	decode(t, rec, &got)
	if got.BorrowerName != "Alice" || got.Amount != 100000 || got.InterestRate != 12 || got.StartDate != "2024-01-01" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.CreatedAt == "" || got.CreatedAt != got.UpdatedAt {
		t.Fatalf("stamps wrong: %+v", got)
	}
}

func TestGetLoan_InvalidAndMissingID(t *testing.T) {
	e := newServer(t)
	createAlice(t, e)

	rec := do(t, e, stdhttp.MethodGet, "/loans?id=abc", nil)
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["code"] != domain.CodeInvalidID {
		t.Fatalf("code = %q, want INVALID_ID", body["code"])
	}

	rec = do(t, e, stdhttp.MethodGet, "/loans?id=999", nil)
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	decode(t, rec, &body)
	if body["code"] != domain.CodeNotFound {
		t.Fatalf("code = %q, want LOAN_NOT_FOUND", body["code"])
	}
}

func TestCreateLoan_ValidationCodes(t *testing.T) {
	e := newServer(t)

	cases := []struct {
		name string
		body map[string]any
		code string
	}{
		{"no borrower", map[string]any{"amount": 1000, "interestRate": 5, "startDate": "2024-01-01"}, domain.CodeMissingBorrowerName},
		{"zero amount", map[string]any{"borrowerName": "A", "amount": 0, "interestRate": 5, "startDate": "2024-01-01"}, domain.CodeInvalidAmount},
		{"negative amount", map[string]any{"borrowerName": "A", "amount": -10, "interestRate": 5, "startDate": "2024-01-01"}, domain.CodeInvalidAmount},
		{"rate out of range", map[string]any{"borrowerName": "A", "amount": 1000, "interestRate": 120, "startDate": "2024-01-01"}, domain.CodeInvalidInterestRate},
		{"no start date", map[string]any{"borrowerName": "A", "amount": 1000, "interestRate": 5}, domain.CodeMissingStartDate},
		{"bad start date", map[string]any{"borrowerName": "A", "amount": 1000, "interestRate": 5, "startDate": "whenever"}, domain.CodeInvalidStartDate},
		{"amount wrong type", map[string]any{"borrowerName": "A", "amount": "heaps", "interestRate": 5, "startDate": "2024-01-01"}, domain.CodeInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, e, stdhttp.MethodPost, "/loans", mustJSON(t, tc.body))
			if rec.Code != stdhttp.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body=%s", rec.Code, rec.Body.String())
			}
			var body map[string]string
			decode(t, rec, &body)
			if body["code"] != tc.code {
				t.Fatalf("code = %q, want %q", body["code"], tc.code)
			}
		})
	}

	// nothing was created along the way
	rec := do(t, e, stdhttp.MethodGet, "/loans", nil)
	var rows []domain.Loan
	decode(t, rec, &rows)
	if len(rows) != 0 {
		t.Fatalf("invalid payloads created rows: %+v", rows)
	}
}

func TestCreateLoan_BrokenJSON(t *testing.T) {
	e := newServer(t)

	req := httptest.NewRequest(stdhttp.MethodPost, "/loans", strings.NewReader(`{"borrowerName":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["error"] != "invalid body" {
		t.Fatalf("error = %q", body["error"])
	}
}

func TestListLoans_FilterSortPaginate(t *testing.T) {
	e := newServer(t)

	seed := []map[string]any{
		{"borrowerName": "Alice", "amount": 100000, "interestRate": 12, "startDate": "2024-01-01"},
		{"borrowerName": "Alina", "amount": 50000, "interestRate": 8, "startDate": "2024-02-01", "status": "completed"},
		{"borrowerName": "Bob", "amount": 75000, "interestRate": 10, "startDate": "2024-03-01"},
	}
	for _, b := range seed {
		if rec := do(t, e, stdhttp.MethodPost, "/loans", mustJSON(t, b)); rec.Code != stdhttp.StatusCreated {
			t.Fatalf("seed failed: %s", rec.Body.String())
		}
	}

	// search + status ANDed
	rec := do(t, e, stdhttp.MethodGet, "/loans?search=Ali&status=active", nil)
	var rows []domain.Loan
	decode(t, rec, &rows)
	if len(rows) != 1 || rows[0].BorrowerName != "Alice" {
		t.Fatalf("search+status: %+v", rows)
	}

	// sort by amount ascending
	rec = do(t, e, stdhttp.MethodGet, "/loans?sort=amount&order=asc", nil)
	decode(t, rec, &rows)
	if len(rows) != 3 || rows[0].Amount != 50000 || rows[2].Amount != 100000 {
		t.Fatalf("amount asc: %+v", rows)
	}

	// limit and offset walk the same order
	rec = do(t, e, stdhttp.MethodGet, "/loans?sort=amount&order=asc&limit=2", nil)
	decode(t, rec, &rows)
	if len(rows) != 2 {
		t.Fatalf("limit=2 returned %d rows", len(rows))
	}
	rec = do(t, e, stdhttp.MethodGet, "/loans?sort=amount&order=asc&limit=2&offset=2", nil)
	decode(t, rec, &rows)
	if len(rows) != 1 || rows[0].Amount != 100000 {
		t.Fatalf("offset page: %+v", rows)
	}

	// no match is an empty array, not an error
	rec = do(t, e, stdhttp.MethodGet, "/loans?search=Zed", nil)
	if rec.Code != stdhttp.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("empty list: code=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestUpdateLoan(t *testing.T) {
	e := newServer(t)
	created := createAlice(t, e)

	rec := do(t, e, stdhttp.MethodPut, "/loans?id=1", mustJSON(t, map[string]any{"status": "completed"}))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d; body=%s", rec.Code, rec.Body.String())
	}
	var updated domain.Loan
	decode(t, rec, &updated)
	if updated.Status != domain.StatusCompleted {
		t.Fatalf("status = %s, want completed", updated.Status)
	}
	if updated.Amount != created.Amount || updated.BorrowerName != created.BorrowerName {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Fatalf("createdAt changed on update")
	}

	// PATCH goes through the same handler
	rec = do(t, e, stdhttp.MethodPatch, "/loans?id=1", mustJSON(t, map[string]any{"amount": 60000}))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("patch status = %d", rec.Code)
	}
	decode(t, rec, &updated)
	if updated.Amount != 60000 || updated.Status != domain.StatusCompleted {
		t.Fatalf("patch result: %+v", updated)
	}
}

func TestUpdateLoan_NotFoundAndValidation(t *testing.T) {
	e := newServer(t)
	createAlice(t, e)

	rec := do(t, e, stdhttp.MethodPut, "/loans?id=999", mustJSON(t, map[string]any{"status": "completed"}))
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["code"] != domain.CodeNotFound {
		t.Fatalf("code = %q, want LOAN_NOT_FOUND", body["code"])
	}

	rec = do(t, e, stdhttp.MethodPut, "/loans?id=1", mustJSON(t, map[string]any{"interestRate": 500}))
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	decode(t, rec, &body)
	if body["code"] != domain.CodeInvalidInterestRate {
		t.Fatalf("code = %q", body["code"])
	}

	rec = do(t, e, stdhttp.MethodPut, "/loans?id=nope", mustJSON(t, map[string]any{}))
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for invalid id", rec.Code)
	}
}

func TestDeleteLoan(t *testing.T) {
	e := newServer(t)
	createAlice(t, e)

	rec := do(t, e, stdhttp.MethodDelete, "/loans?id=1", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Message     string      `json:"message"`
		DeletedLoan domain.Loan `json:"deletedLoan"`
	}
	decode(t, rec, &resp)
	if resp.Message != "Loan deleted successfully" || resp.DeletedLoan.BorrowerName != "Alice" {
		t.Fatalf("delete response: %+v", resp)
	}

	if rec = do(t, e, stdhttp.MethodGet, "/loans?id=1", nil); rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("deleted loan still readable: %d", rec.Code)
	}
	if rec = do(t, e, stdhttp.MethodDelete, "/loans?id=1", nil); rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("second delete = %d, want 404", rec.Code)
	}
}

func TestDelete_MissingIDLeavesOthersAlone(t *testing.T) {
	e := newServer(t)
	createAlice(t, e)

	if rec := do(t, e, stdhttp.MethodDelete, "/loans?id=42", nil); rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	rec := do(t, e, stdhttp.MethodGet, "/loans", nil)
	var rows []domain.Loan
	decode(t, rec, &rows)
	if len(rows) != 1 {
		t.Fatalf("row count changed: %d", len(rows))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	e := newServer(t)
	createAlice(t, e)

	rec := do(t, e, stdhttp.MethodGet, "/loans/metrics?id=1", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var m uc.LoanMetrics
	decode(t, rec, &m)
	if m.TotalPayable != 112000 {
		t.Fatalf("totalPayable = %v, want 112000", m.TotalPayable)
	}
	if m.MonthlyEMI <= 100000.0/12 {
		t.Fatalf("monthlyEMI = %v, want above zero-rate baseline", m.MonthlyEMI)
	}
	// 2024-01-01 is more than a year back from any run date of this suite
	if m.ProgressPercent != 100 {
		t.Fatalf("progressPercent = %v, want 100", m.ProgressPercent)
	}

	if rec = do(t, e, stdhttp.MethodGet, "/loans/metrics?id=9", nil); rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("missing loan metrics = %d, want 404", rec.Code)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	e := newServer(t)
	createAlice(t, e)
	do(t, e, stdhttp.MethodPost, "/loans", mustJSON(t, map[string]any{
		"borrowerName": "Bob", "amount": 50000, "interestRate": 8,
		"startDate": "2024-02-01", "status": "completed",
	}))

	rec := do(t, e, stdhttp.MethodGet, "/loans/summary", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var s struct {
		TotalLoans      int            `json:"totalLoans"`
		TotalAmount     float64        `json:"totalAmount"`
		AvgInterestRate float64        `json:"avgInterestRate"`
		CountsByStatus  map[string]int `json:"countsByStatus"`
	}
	decode(t, rec, &s)
	if s.TotalLoans != 2 || s.TotalAmount != 150000 || s.AvgInterestRate != 10 {
		t.Fatalf("summary = %+v", s)
	}
	if s.CountsByStatus["active"] != 1 || s.CountsByStatus["completed"] != 1 {
		t.Fatalf("counts = %+v", s.CountsByStatus)
	}
}

func TestInternalError_DoesNotLeakDetails(t *testing.T) {
	boom := errors.New("dial tcp 10.0.0.5:3306: connection refused")
	e := newServerWith(uc.NewUsecase(&loanmock.Repo{
		GetByIDFn: func(ctx context.Context, id int64) (*domain.Loan, error) { return nil, boom },
	}))

	rec := do(t, e, stdhttp.MethodGet, "/loans?id=1", nil)
	if rec.Code != stdhttp.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["error"] != "Internal server error" {
		t.Fatalf("error = %q, want fixed message", body["error"])
	}
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Fatal("internal details leaked to the client")
	}
}
