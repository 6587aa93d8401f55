package account

import (
	"fmt"
	"net/http"

	dto "minigames_backend/internal/api/dto/account"
	"minigames_backend/internal/api/httperr"
	"minigames_backend/internal/converter"
	"minigames_backend/internal/model"
	"minigames_backend/internal/service"
	"minigames_backend/pkg/req"
	"minigames_backend/pkg/resp"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type HandlerDeps struct {
	Ledger         service.LedgerService
	Games          service.GameSessionService
	InitialBalance int64
	Log            *zap.Logger
}

type Handler struct {
	ledger         service.LedgerService
	games          service.GameSessionService
	initialBalance int64
	log            *zap.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		ledger:         deps.Ledger,
		games:          deps.Games,
		initialBalance: deps.InitialBalance,
		log:            deps.Log,
	}
}

func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.OpenRequest](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	balance := h.initialBalance
	if payload.InitialBalance != nil {
		balance = *payload.InitialBalance
	}

	acc, err := h.ledger.OpenAccount(r.Context(), payload.AccountID, balance)
	if err != nil {
		httperr.Write(w, r, h.log, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusCreated, dto.BalanceResponse{AccountID: acc.ID, Balance: acc.Balance})
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	payload, err := req.Decode[dto.DepositRequest](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.Amount <= 0 {
		httperr.Write(w, r, h.log, fmt.Errorf("deposit %d: %w", payload.Amount, model.ErrInvalidAmount))
		return
	}

	balance, err := h.ledger.Credit(r.Context(), accountID, payload.Amount)
	if err != nil {
		httperr.Write(w, r, h.log, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, dto.BalanceResponse{AccountID: accountID, Balance: balance})
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	balance, err := h.ledger.GetBalance(r.Context(), accountID)
	if err != nil {
		httperr.Write(w, r, h.log, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, dto.BalanceResponse{AccountID: accountID, Balance: balance})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	entries, err := h.ledger.GetHistory(r.Context(), accountID)
	if err != nil {
		httperr.Write(w, r, h.log, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToHistoryResponse(accountID, entries))
}

func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.ClearHistory(r.Context(), chi.URLParam(r, "accountID")); err != nil {
		httperr.Write(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToStatsResponse(h.games.Stats()))
}
