package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/usecase"
)

const maxBodyBytes = 1 << 20

const genericErrorMessage = "An error occurred. Please try again."

type ErrorResponse struct {
	Code   string                    `json:"code"`
	Error  string                    `json:"error"`
	Fields []usecase.ValidationError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to 4xx responses. Anything else is logged
// and answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		writeJSON(w, statusFor(de.Code), ErrorResponse{Code: de.Code, Error: de.Message, Fields: de.Fields})
		return
	}

	fields := []zap.Field{zap.Error(err), zap.String("method", r.Method), zap.String("path", r.URL.Path)}
	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		fields = append(fields, zap.String("code", te.Code))
	}
	logger.Error("request failed", fields...)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Code: "INTERNAL_ERROR", Error: genericErrorMessage})
}

func statusFor(code string) int {
	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case code == "FORM_SLUG_TAKEN":
		return http.StatusConflict
	case code == "FORM_DISABLED":
		return http.StatusGone
	case code == "VALIDATION_ERROR":
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: "BAD_REQUEST", Error: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "Invalid JSON")
		return false
	}
	return true
}

func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
