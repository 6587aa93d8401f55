package elimination

import (
	"net/http"

	dto "minigames_backend/internal/api/dto/elimination"
	"minigames_backend/internal/api/httperr"
	"minigames_backend/internal/converter"
	"minigames_backend/internal/service"
	"minigames_backend/pkg/req"
	"minigames_backend/pkg/resp"

	"github.com/go-chi/chi/v5"
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

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.StartRequest](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.serv.StartElimination(r.Context(), payload.AccountID, payload.Stake, payload.OpponentID)
	if err != nil {
		httperr.Write(w, r, h.log, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusCreated, converter.ToEliminationState(*sess))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.serv.GetElimination(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		httperr.Write(w, r, h.log, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToEliminationState(*sess))
}

func (h *Handler) SpinBarrel(w http.ResponseWriter, r *http.Request) {
	sess, err := h.serv.SpinBarrel(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		httperr.Write(w, r, h.log, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToEliminationState(*sess))
}

func (h *Handler) PullTrigger(w http.ResponseWriter, r *http.Request) {
	result, err := h.serv.PullTrigger(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		httperr.Write(w, r, h.log, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToPullResponse(*result))
}

func (h *Handler) Quit(w http.ResponseWriter, r *http.Request) {
	if err := h.serv.QuitElimination(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		httperr.Write(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
