package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aniketri/real-insights-data/internal/application/usecase"
	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/pkg/auth"
)

const maxBodyBytes = 1 << 20

var errUnauthenticated = errors.New("missing credentials")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps domain and application errors to HTTP status codes.
func statusFor(err error) int {
	var invalid *model.InvalidInputError
	switch {
	case errors.Is(err, errUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrLoanNotFound),
		errors.Is(err, model.ErrNoteNotFound),
		errors.Is(err, model.ErrReportNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrNotNoteAuthor):
		return http.StatusForbidden
	case errors.Is(err, model.ErrOptimisticLock):
		return http.StatusConflict
	case errors.As(err, &invalid),
		errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, model.ErrInvalidLoan),
		errors.Is(err, model.ErrInvalidReport),
		errors.Is(err, model.ErrEmptyNoteContent),
		errors.Is(err, model.ErrPropertyNotFound),
		errors.Is(err, usecase.ErrInvalidPage):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// failWith writes the mapped error. Internal errors are logged and hidden.
func failWith(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}

// decodeJSON reads a JSON body of at most maxBodyBytes, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("%w: request body is empty", model.ErrInvalidInput)
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", model.ErrInvalidInput)
		}
		return fmt.Errorf("%w: malformed JSON: %v", model.ErrInvalidInput, err)
	}
	return nil
}

// principal returns the caller's claims set by auth.HTTPMiddleware.
func principal(r *http.Request) (*auth.Claims, error) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok || claims.OrganizationID == uuid.Nil {
		return nil, errUnauthenticated
	}
	return claims, nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return parseID(chi.URLParam(r, name), name)
}

// Date accepts either YYYY-MM-DD or RFC 3339 in request bodies.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
}

func (d *Date) ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

func parseID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s %q is not a valid id", model.ErrInvalidInput, name, raw)
	}
	return id, nil
}
