package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Domain errors returned by the fulfillment and ledger services. Handlers map
// these to HTTP responses with SendDomainError; services wrap them with
// fmt.Errorf("...: %w", err) so errors.Is still matches.
var (
	ErrNotFound                = errors.New("record not found")
	ErrInvalidTransition       = errors.New("invalid status transition")
	ErrPreconditionFailed      = errors.New("precondition failed: record changed concurrently")
	ErrAlreadyFinalized        = errors.New("record already finalized")
	ErrNoPayableInvoice        = errors.New("no paid invoice found for survey")
	ErrMultiplePayableInvoices = errors.New("multiple paid invoices found for survey")
	ErrSurveyNotDone           = errors.New("survey is not in done status")
	ErrSurveyWithoutPartner    = errors.New("survey has no partner attached")
	ErrNotWithdrawal           = errors.New("transaction is not a withdrawal")
	ErrProofRequired           = errors.New("payment proof is required")
	ErrInsufficientBalance     = errors.New("insufficient partner balance")
)

// TransitionError reports a rejected survey status transition including the
// edge that was requested, so the caller knows not to retry it.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// SendDomainError maps a domain error to the standardized error response.
// Unrecognized errors become a 500 with a generic message.
func SendDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", err.Error(), nil))
	case errors.Is(err, ErrInvalidTransition):
		return c.JSON(http.StatusConflict, CreateErrorResponse("INVALID_TRANSITION", err.Error(), nil))
	case errors.Is(err, ErrPreconditionFailed):
		return c.JSON(http.StatusConflict, CreateErrorResponse("PRECONDITION_FAILED", err.Error(), nil))
	case errors.Is(err, ErrAlreadyFinalized):
		return c.JSON(http.StatusConflict, CreateErrorResponse("ALREADY_FINALIZED", err.Error(), nil))
	case errors.Is(err, ErrNoPayableInvoice):
		return c.JSON(http.StatusConflict, CreateErrorResponse("NO_PAYABLE_INVOICE", err.Error(), nil))
	case errors.Is(err, ErrMultiplePayableInvoices):
		return c.JSON(http.StatusConflict, CreateErrorResponse("MULTIPLE_PAYABLE_INVOICES", err.Error(), nil))
	case errors.Is(err, ErrSurveyNotDone):
		return c.JSON(http.StatusConflict, CreateErrorResponse("SURVEY_NOT_DONE", err.Error(), nil))
	case errors.Is(err, ErrSurveyWithoutPartner):
		return c.JSON(http.StatusConflict, CreateErrorResponse("SURVEY_WITHOUT_PARTNER", err.Error(), nil))
	case errors.Is(err, ErrNotWithdrawal):
		return c.JSON(http.StatusBadRequest, CreateErrorResponse("NOT_WITHDRAWAL", err.Error(), nil))
	case errors.Is(err, ErrProofRequired):
		return c.JSON(http.StatusBadRequest, CreateErrorResponse("PROOF_REQUIRED", err.Error(), nil))
	case errors.Is(err, ErrInsufficientBalance):
		return c.JSON(http.StatusUnprocessableEntity, CreateErrorResponse("INSUFFICIENT_BALANCE", err.Error(), nil))
	default:
		return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", "internal server error", nil))
	}
}
