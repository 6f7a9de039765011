package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, map[string]string{"error": message})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondUseCaseError переводит ошибку use case в HTTP-статус
func respondUseCaseError(w http.ResponseWriter, logger port.LoggerPort, useCase string, err error) {
	if errors.Is(err, domain.ErrPropertyNotFound) {
		WriteJSONError(w, http.StatusNotFound, "Property not found")
		return
	}
	logger.Error("Use case failed", err, port.Fields{"use_case": useCase})
	WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
}
