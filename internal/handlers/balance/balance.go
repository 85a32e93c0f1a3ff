package balance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/marketplace/internal/domain"
	"github.com/GlebRadaev/marketplace/internal/dto"
	"github.com/GlebRadaev/marketplace/pkg/auth"
	"github.com/GlebRadaev/marketplace/pkg/utils"
)

type Service interface {
	Current(ctx context.Context, sessionID string) (*domain.User, error)
	Deposit(ctx context.Context, sessionID string, amount decimal.Decimal) (*domain.User, error)
}

type BalanceHandler struct {
	identityService Service
}

func New(identityService Service) *BalanceHandler {
	return &BalanceHandler{
		identityService: identityService,
	}
}

// GetBalance godoc
//
//	@Summary		Get current cash balance
//	@Description	Retrieve the cash balance of the authenticated user.
//	@Tags			Balance
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.BalanceResponseDTO	"Current balance"
//	@Failure		401	{object}	utils.Response			"User not authorized"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/user/balance [get]
func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := auth.SessionIDFromContext(r.Context())

	user, err := h.identityService.Current(r.Context(), sessionID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{
		CashBalance: user.CashBalance.InexactFloat64(),
	})
}

// Deposit godoc
//
//	@Summary		Deposit cash
//	@Description	Add a positive amount to the cash balance of the authenticated user.
//	@Tags			Balance
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.DepositRequestDTO	true	"Deposit payload"
//	@Success		200		{object}	dto.BalanceResponseDTO	"Balance after the deposit"
//	@Failure		400		{object}	utils.Response			"Invalid request body"
//	@Failure		401		{object}	utils.Response			"User not authorized"
//	@Failure		422		{object}	utils.Response			"Amount must be positive"
//	@Failure		500		{object}	utils.Response			"Internal server error"
//	@Router			/api/user/balance/deposit [post]
func (h *BalanceHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := auth.SessionIDFromContext(r.Context())

	var req dto.DepositRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.identityService.Deposit(r.Context(), sessionID, req.Amount)
	if err != nil {
		respondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{
		CashBalance: user.CashBalance.InexactFloat64(),
	})
}

func respondWithError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrInvalidAmount):
		utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
