package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/triptales/internal/common"
)

const internalMessage = "internal server error"

// errorStatus maps service errors onto HTTP status codes. Anything not listed
// is a 500.
var errorStatus = []struct {
	err    error
	status int
}{
	{common.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge},
	{common.ErrInvalidArgument, http.StatusBadRequest},
	{common.ErrInvalidCredentials, http.StatusUnauthorized},
	{common.ErrUnauthenticated, http.StatusUnauthorized},
	{common.ErrForbidden, http.StatusForbidden},
	{common.ErrNotFound, http.StatusNotFound},
	{common.ErrAlreadyExists, http.StatusConflict},
	{common.ErrRateLimited, http.StatusTooManyRequests},
}

func statusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// publicMessage strips the sentinel prefixes added by fmt.Errorf("%w: ...")
// so clients see only the detail, e.g. "title is required".
func publicMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return internalMessage
	}
	msg := err.Error()
	for trimmed := true; trimmed; {
		trimmed = false
		for _, e := range errorStatus {
			if rest, ok := strings.CutPrefix(msg, e.err.Error()+": "); ok {
				msg, trimmed = rest, true
			}
		}
	}
	return msg
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	writeJSON(w, status, errorResponse{Error: publicMessage(err, status)})
}
