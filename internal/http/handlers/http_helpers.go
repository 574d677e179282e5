package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rogerio-castellano/kitchen-stock/internal/auth"
	"github.com/rogerio-castellano/kitchen-stock/internal/kitchen"
	"github.com/rogerio-castellano/kitchen-stock/internal/models"
	repo "github.com/rogerio-castellano/kitchen-stock/internal/repo"
)

// actorID returns the authenticated user id, or 0 for anonymous requests.
func actorID(r *http.Request) int {
	if id, ok := auth.FromContext(r.Context()); ok {
		return id.UserID
	}
	return 0
}

func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) {
	out, err := json.Marshal(data)
	if err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(out); err != nil {
		zap.L().Warn("failed to write response", zap.Error(err))
	}
}

// writeError maps domain errors to status codes. Anything unrecognised is
// logged and reported as 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var shortage *kitchen.InsufficientStockError
	if errors.As(err, &shortage) {
		writeJSON(w, http.StatusConflict, InsufficientStockResponse{
			Error:     "insufficient stock",
			MealID:    shortage.MealID,
			Shortages: shortage.Shortages,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, kitchen.ErrInvalidPortionCount),
		errors.Is(err, kitchen.ErrInvalidQuantity):
		status = http.StatusBadRequest
	case errors.Is(err, kitchen.ErrMealNotFound),
		errors.Is(err, repo.ErrMealNotFound),
		errors.Is(err, repo.ErrProductNotFound),
		errors.Is(err, repo.ErrServingNotFound),
		errors.Is(err, repo.ErrRequirementNotFound),
		errors.Is(err, repo.ErrAllergenNotFound),
		errors.Is(err, repo.ErrSupplierNotFound):
		status = http.StatusNotFound
	case errors.Is(err, kitchen.ErrNoRecipeDefined):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, kitchen.ErrInsufficientStock),
		errors.Is(err, repo.ErrInvalidQuantityChange),
		errors.Is(err, repo.ErrDuplicateRequirement),
		errors.Is(err, repo.ErrDuplicatedValueUnique),
		errors.Is(err, repo.ErrSupplierInactive):
		status = http.StatusConflict
	case errors.Is(err, kitchen.ErrTransientConflict):
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()},
			http.Header{"Retry-After": []string{"1"}})
		return
	}

	if status == http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, status, ErrorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// timeQuery parses an RFC3339 query parameter. An absent parameter yields nil.
func timeQuery(r *http.Request, name string) (*time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}

	// Reverse the substitution from + for space in the date parameters, otherwise
	// time.Parse will fail with an error.
	// Example: 2025-07-03T17:44:03+02:00 becomes 2025-07-03T17:44:03 02:00 on r.URL.Query().Get()
	if len(s) == len(time.RFC3339) && s[len(s)-6] == ' ' {
		s = s[:len(s)-6] + "+" + s[len(s)-5:]
	}

	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date format", name)
	}
	return &ts, nil
}

func intQuery(r *http.Request, name string) (*int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &v, nil
}

func pagination(r *http.Request) (offset, limit *int, err error) {
	if offset, err = intQuery(r, "offset"); err != nil {
		return nil, nil, err
	}
	if limit, err = intQuery(r, "limit"); err != nil {
		return nil, nil, err
	}
	return offset, limit, nil
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		Id:        p.ID,
		Name:      p.Name,
		Quantity:  p.Quantity,
		Threshold: p.Threshold,
		Unit:      p.Unit,
		Active:    p.Active,
		LowStock:  p.LowStock(),
	}
}
