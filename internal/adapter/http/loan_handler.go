package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	domain "github.com/dasarathijena330-bit/hamara/internal/domain/loan"
	"github.com/dasarathijena330-bit/hamara/internal/usecase/loan"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

// Register wires the loan routes onto e.
func (h *LoanHandler) Register(e *echo.Echo) {
	e.GET("/loans", h.GetLoans)
	e.POST("/loans", h.CreateLoan)
	e.PUT("/loans", h.UpdateLoan)
	e.PATCH("/loans", h.UpdateLoan)
	e.DELETE("/loans", h.DeleteLoan)
	e.GET("/loans/summary", h.Summary)
	e.GET("/loans/metrics", h.Metrics)
}

// GetLoans serves both the point lookup (?id=N) and the filtered list.
func (h *LoanHandler) GetLoans(c echo.Context) error {
	if id := c.QueryParam("id"); id != "" {
		l, err := h.uc.Get(c.Request().Context(), id)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, l)
	}

	rows, err := h.uc.List(c.Request().Context(), listInput(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req loan.CreateLoanInput
	if err := c.Bind(&req); err != nil {
		return writeBindError(c, err)
	}
	created, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *LoanHandler) UpdateLoan(c echo.Context) error {
	var req loan.UpdateLoanInput
	if err := c.Bind(&req); err != nil {
		return writeBindError(c, err)
	}
	updated, err := h.uc.Update(c.Request().Context(), c.QueryParam("id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *LoanHandler) DeleteLoan(c echo.Context) error {
	deleted, err := h.uc.Delete(c.Request().Context(), c.QueryParam("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message":     "Loan deleted successfully",
		"deletedLoan": deleted,
	})
}

func (h *LoanHandler) Summary(c echo.Context) error {
	s, err := h.uc.Summary(c.Request().Context(), listInput(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *LoanHandler) Metrics(c echo.Context) error {
	m, err := h.uc.Metrics(c.Request().Context(), c.QueryParam("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func listInput(c echo.Context) loan.ListLoansInput {
	return loan.ListLoansInput{
		Search: c.QueryParam("search"),
		Status: c.QueryParam("status"),
		Sort:   c.QueryParam("sort"),
		Order:  c.QueryParam("order"),
		Limit:  c.QueryParam("limit"),
		Offset: c.QueryParam("offset"),
	}
}

func errBody(msg, code string) map[string]string {
	return map[string]string{"error": msg, "code": code}
}

// writeError maps the error taxonomy onto statuses. Anything unexpected is a
// 500 with a fixed body; details stay in the server log.
func writeError(c echo.Context, err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		return c.JSON(http.StatusBadRequest, errBody("Valid ID is required", domain.CodeInvalidID))
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, errBody("Loan not found", domain.CodeNotFound))
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, errBody(ve.Message, ve.Code))
	}
	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}

// wrong JSON type on a known field keeps its stable per-field code
var typeMismatch = map[string]fieldError{
	"borrowerName": {domain.CodeMissingBorrowerName, "Borrower name is required"},
	"amount":       {domain.CodeInvalidAmount, "Amount must be a positive number"},
	"interestRate": {domain.CodeInvalidInterestRate, "Interest rate must be between 0 and 100"},
	"startDate":    {domain.CodeInvalidStartDate, "Start date must be a valid date string"},
	"status":       {domain.CodeInvalidStatus, "Status must be a string"},
}

type fieldError struct{ code, message string }

func writeBindError(c echo.Context, err error) error {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		if fe, ok := typeMismatch[ute.Field]; ok {
			return c.JSON(http.StatusBadRequest, errBody(fe.message, fe.code))
		}
	}
	return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
}
