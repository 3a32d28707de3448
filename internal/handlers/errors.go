package handlers

import (
	"errors"
	"net/http"

	"followupTracker/internal/logger"
	"followupTracker/internal/service"

	"go.uber.org/zap"
)

// handleBusinessError переводит тегированную ошибку сервиса в HTTP-ответ.
// Клиенту уходит только message, внутренние причины остаются в логах
func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) {
		statusCode := mapBusinessErrorToHTTP(businessErr.Code)

		logger.Warn("HTTP: Бизнес-ошибка",
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode))

		responseWithError(w, statusCode, businessErr.Message)
		return true
	}
	return false
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case "VALIDATION_ERROR", "INVALID_REFERENCE":
		return http.StatusBadRequest
	case "NOT_FOUND":
		return http.StatusNotFound
	case "STORAGE_ERROR":
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
