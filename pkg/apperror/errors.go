package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error carrying a stable code for the ops API and
// logs. User-facing chat text is derived by the engine, never from Err.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // wrapped internal error (not exposed)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Policy rejections (POL) ----

// ErrPolicyRejected carries the human reason a policy refused an operation.
func ErrPolicyRejected(reason string) *AppError {
	return New("POL_001", reason, http.StatusForbidden)
}

func ErrConsentRequired() *AppError {
	return New("POL_002", "Terms of service approval required", http.StatusForbidden)
}

func ErrSenderIgnored() *AppError {
	return New("POL_003", "Sender is not served", http.StatusForbidden)
}

// ---- Wallet backend failures (WAL) ----

func ErrWalletFailure(op string, err error) *AppError {
	return Wrap("WAL_001", fmt.Sprintf("Wallet %s failed", op), http.StatusBadGateway, err)
}

func ErrWalletNotReady(reason string) *AppError {
	msg := "Wallet is not ready"
	if reason != "" {
		msg = fmt.Sprintf("Wallet is not ready: %s", reason)
	}
	return New("WAL_002", msg, http.StatusServiceUnavailable)
}

// ---- Ledger invariants (LED) ----

// ErrInvariantViolation flags an adjustment that would drive a balance
// bucket negative. It indicates a sequencing bug, so callers must abort and
// log it at high severity rather than clamp.
func ErrInvariantViolation(userID int64) *AppError {
	return New("LED_001", fmt.Sprintf("Balance adjustment for user %d would go negative", userID), http.StatusConflict)
}

func ErrLedgerNotInitialized(userID int64) *AppError {
	return New("LED_002", fmt.Sprintf("No ledger record for user %d", userID), http.StatusNotFound)
}

func ErrLedgerExists(userID int64) *AppError {
	return New("LED_003", fmt.Sprintf("Ledger record for user %d already exists", userID), http.StatusConflict)
}

// ---- Transaction registry (REG) ----

func ErrAlreadyAssigned(txID string) *AppError {
	return New("REG_001", fmt.Sprintf("Transaction %s is already assigned", txID), http.StatusConflict)
}

func ErrUnknownTransaction(txID string) *AppError {
	return New("REG_002", fmt.Sprintf("Unknown transaction %s", txID), http.StatusNotFound)
}

func ErrInvalidTransactionID(txID string) *AppError {
	return New("REG_003", fmt.Sprintf("Malformed transaction id %q", txID), http.StatusBadRequest)
}

// ---- Request validation (REQ) ----

func ErrInvalidAmount(raw string) *AppError {
	return New("REQ_001", fmt.Sprintf("Invalid amount %q", raw), http.StatusBadRequest)
}

func ErrInvalidUserID(raw string) *AppError {
	return New("REQ_002", fmt.Sprintf("Invalid user id %q", raw), http.StatusBadRequest)
}

func ErrMalformedChatEvent() *AppError {
	return New("REQ_003", "Malformed chat event", http.StatusBadRequest)
}

// ---- Ops authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- System & infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// IsCode reports whether err is (or wraps) an *AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}
