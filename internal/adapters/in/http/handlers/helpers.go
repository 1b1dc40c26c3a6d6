// internal/adapters/in/http/handlers/helpers.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"karwaan/internal/application/usecase"
	orderdom "karwaan/internal/domain/order"
	productdom "karwaan/internal/domain/product"
	userdom "karwaan/internal/domain/user"
)

// Envelope is the uniform response body for every route.
type Envelope struct {
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
}

func writeSuccess(w http.ResponseWriter, code int, message string, data any) {
	writeEnvelope(w, Envelope{
		Status:     "success",
		StatusCode: code,
		Message:    message,
		Data:       data,
	})
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeEnvelope(w, Envelope{
		Status:     "error",
		StatusCode: code,
		Message:    message,
	})
}

func writeEnvelope(w http.ResponseWriter, e Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.StatusCode)
	if err := json.NewEncoder(w).Encode(e); err != nil {
		log.Printf("[http] encode response FAILED err=%v", err)
	}
}

// writeDomainErr maps domain and usecase sentinels onto HTTP status codes.
// Anything unrecognized becomes a 500 with a generic message.
func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, productdom.ErrNotFound),
		errors.Is(err, orderdom.ErrNotFound),
		errors.Is(err, userdom.ErrNotFound),
		errors.Is(err, productdom.ErrMetadataNotFound):
		writeError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, productdom.ErrUnsupportedMediaType):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())

	case errors.Is(err, productdom.ErrTooManyFiles):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())

	case errors.Is(err, orderdom.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())

	case errors.Is(err, productdom.ErrConflict),
		errors.Is(err, orderdom.ErrConflict),
		errors.Is(err, productdom.ErrMetadataConflict):
		writeError(w, http.StatusConflict, err.Error())

	case errors.Is(err, usecase.ErrGatewayUnavailable):
		writeError(w, http.StatusBadGateway, err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "request timed out")

	case errors.Is(err, productdom.ErrInvalidPayload),
		errors.Is(err, usecase.ErrInvalidPaymentID),
		errors.Is(err, orderdom.ErrInvalidStatus),
		errors.Is(err, orderdom.ErrInvalidProducts),
		errors.Is(err, orderdom.ErrInvalidUserID),
		errors.Is(err, orderdom.ErrInvalidAmount),
		errors.Is(err, orderdom.ErrInvalidID):
		writeError(w, http.StatusBadRequest, err.Error())

	default:
		log.Printf("[http] internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
