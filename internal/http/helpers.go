package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"finctl/internal/core"
	"finctl/internal/report"
)

// envelope is the JSON response shape shared by every endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Message: message, Data: data})
}

// respondError maps the core error taxonomy to status codes: validation
// errors are 400, integrity violations 409, missing rows 404, everything
// else a logged 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case core.IsValidation(err):
		status = http.StatusBadRequest
		message = err.Error()
	case core.IsIntegrity(err):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
		message = "not found"
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err, "method", r.Method, "path", r.URL.Path)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: message})
}

// userID reads the caller identity injected by the upstream gateway.
// Authentication itself happens before requests reach this service.
func userID(r *http.Request) (int64, error) {
	v := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if v == "" {
		return 0, &core.ValidationError{Field: "user", Reason: "missing X-User-ID header"}
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, &core.ValidationError{Field: "user", Reason: "invalid X-User-ID header"}
	}
	return id, nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &core.ValidationError{Field: "id", Reason: "invalid id"}
	}
	return id, nil
}

// parseScope builds the aggregation scope from query parameters. The wire
// format uses zero-based months (0-11, the JavaScript Date convention);
// the engine works one-based, so the window converts here and nowhere else.
// Both month and year must be present to form a window.
func parseScope(r *http.Request) (report.Scope, error) {
	var scope report.Scope
	q := r.URL.Query()

	monthStr := strings.TrimSpace(q.Get("month"))
	yearStr := strings.TrimSpace(q.Get("year"))
	if monthStr != "" && yearStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil || month < 0 || month > 11 {
			return report.Scope{}, &core.ValidationError{Field: "month", Reason: "month must be between 0 and 11"}
		}
		year, err := strconv.Atoi(yearStr)
		if err != nil || year < 1 {
			return report.Scope{}, &core.ValidationError{Field: "year", Reason: "invalid year"}
		}
		scope.Year = year
		scope.Month = time.Month(month + 1)
	}

	if v := strings.TrimSpace(q.Get("category_id")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return report.Scope{}, &core.ValidationError{Field: "category_id", Reason: "invalid category_id"}
		}
		scope.CategoryID = id
	}

	if v := strings.TrimSpace(q.Get("type")); v != "" {
		t := core.ItemType(v)
		if !t.Valid() {
			return report.Scope{}, &core.ValidationError{Field: "type", Reason: `type must be "expense" or "income"`}
		}
		scope.Type = t
	}

	return scope, nil
}

// parseDate parses a date string in YYYY-MM-DD format.
func parseDate(dateStr string) (core.Date, error) {
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(dateStr))
	if err != nil {
		return core.Date{}, &core.ValidationError{Field: "date", Reason: "date must be YYYY-MM-DD"}
	}
	return core.Date{Time: parsed}, nil
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return &core.ValidationError{Field: "body", Reason: "invalid JSON body"}
	}
	return nil
}

func summaryCacheKey(userID int64) string {
	return "summary:" + strconv.FormatInt(userID, 10)
}
