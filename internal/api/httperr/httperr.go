package httperr

import (
	"errors"
	"net/http"

	"minigames_backend/internal/model"
	"minigames_backend/pkg/resp"

	"go.uber.org/zap"
)

const (
	msgIllegalTransition = "not your turn or game already resolved"
	msgSessionInUse      = "finish or quit your current game first"
	msgInternal          = "internal error"
)

// Status - HTTP статус и текст ответа для ошибки сервиса
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrInvalidStake),
		errors.Is(err, model.ErrInvalidAmount),
		errors.Is(err, model.ErrInvalidOpponent):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, model.ErrIllegalTransition):
		return http.StatusConflict, msgIllegalTransition
	case errors.Is(err, model.ErrSessionInUse):
		return http.StatusConflict, msgSessionInUse
	case errors.Is(err, model.ErrAccountExists):
		return http.StatusConflict, err.Error()
	case errors.Is(err, model.ErrSessionNotFound),
		errors.Is(err, model.ErrAccountNotFound):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// Write пишет ошибку клиенту. Внутренние ошибки логируются, наружу уходит общий текст
func Write(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	status, msg := Status(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	resp.WriteError(w, status, msg)
}
