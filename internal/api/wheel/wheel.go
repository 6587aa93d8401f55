package wheel

import (
	"net/http"

	dto "minigames_backend/internal/api/dto/wheel"
	"minigames_backend/internal/api/httperr"
	"minigames_backend/internal/converter"
	"minigames_backend/internal/service"
	"minigames_backend/pkg/req"
	"minigames_backend/pkg/resp"

	"go.uber.org/zap"
)

type HandlerDeps struct {
	Serv service.GameSessionService
	Log  *zap.Logger
}

type Handler struct {
	serv service.GameSessionService
	log  *zap.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv, log: deps.Log}
}

func (h *Handler) Spin(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.SpinRequest](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.serv.SpinWheel(r.Context(), payload.AccountID, payload.Stake)
	if err != nil {
		httperr.Write(w, r, h.log, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToWheelSpinResponse(*result))
}

func (h *Handler) Segments(w http.ResponseWriter, r *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSegmentsResponse(h.serv.Segments()))
}
