package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/msomdec/jobboard/internal/domain"
)

const maxJSONBody = 1 << 20 // 1MB

const bannedMessage = "This user is banned from this platform."

// writeJSON sends a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

// writeError sends a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeBanned(w http.ResponseWriter) {
	writeJSON(w, http.StatusForbidden, map[string]string{"banned": bannedMessage})
}

// readJSON decodes the request body into the given destination.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.Invalid("content", "Invalid request body.")
	}
	return nil
}

// writeServiceError maps a service error onto the response. Unexpected errors
// are logged under op and hidden from the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *domain.ValidationError
	var rerr *domain.RateLimitError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{verr.Field: verr.Message})
	case errors.As(err, &rerr):
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(rerr.RetryAfter.Seconds()))))
		writeError(w, http.StatusTooManyRequests, "Too many requests, please try again later.")
	case errors.Is(err, domain.ErrBanned):
		writeBanned(w)
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "Unauthorised access.")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "Unauthorised access.")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found.")
	default:
		slog.ErrorContext(r.Context(), op, "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// pathID parses a numeric path parameter. Malformed ids are reported as not
// found.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

func queryPage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// flexID accepts an id sent either as a JSON number or a numeric string.
type flexID int64

func (id *flexID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			*id = 0
			return nil
		}
		*id = flexID(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		*id = 0
		return nil
	}
	*id = flexID(n)
	return nil
}
