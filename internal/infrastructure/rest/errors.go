package rest

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hrmslite/hrms/internal/core/domain"
)

// codeUniqueViolation is the Postgres code for a unique constraint violation.
const codeUniqueViolation = "23505"

// errorBody covers both the PostgREST shape ({code, message, details}) and
// the gateway shape ({error, message, statusCode}).
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Details string `json:"details"`
}

// decodeError maps a non-2xx response to a *domain.StoreError.
func decodeError(status int, body []byte) error {
	se := &domain.StoreError{Kind: kindOf(status, ""), Status: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		se.Message = strings.TrimSpace(string(body))
		if se.Message == "" {
			se.Message = http.StatusText(status)
		}
		return se
	}

	se.Code = eb.Code
	se.Kind = kindOf(status, eb.Code)
	switch {
	case eb.Message != "":
		se.Message = eb.Message
	case eb.Error != "":
		se.Message = eb.Error
	default:
		se.Message = http.StatusText(status)
	}
	return se
}

func kindOf(status int, code string) error {
	switch {
	case status == http.StatusConflict || code == codeUniqueViolation:
		return domain.ErrConflict
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.ErrUnauthorized
	default:
		return domain.ErrStoreFailure
	}
}
