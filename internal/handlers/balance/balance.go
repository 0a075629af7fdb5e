package balance

import (
	"context"
	"net/http"

	"github.com/tiply/tiply/internal/domain"
	"github.com/tiply/tiply/internal/dto"
	"github.com/tiply/tiply/pkg/auth"
	"github.com/tiply/tiply/pkg/utils"
)

type Service interface {
	GetBalance(ctx context.Context, userID int) (*domain.Balance, error)
	GetTransactions(ctx context.Context, userID int) ([]domain.Transaction, error)
}

type BalanceHandler struct {
	ledgerService Service
}

func New(ledgerService Service) *BalanceHandler {
	return &BalanceHandler{
		ledgerService: ledgerService,
	}
}

// GetBalance godoc
//
//	@Summary		Get current user balance
//	@Description	Recompute the spendable balance, total received tips and total withdrawn amount for the authenticated user. All values are minor currency units.
//	@Tags			Balance
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.BalanceResponseDTO	"Derived balance"
//	@Failure		401	{object}	utils.Response			"User not authorized"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/user/balance [get]
func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	balance, err := h.ledgerService.GetBalance(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{
		Balance:   balance.Balance,
		Received:  balance.Received,
		Withdrawn: balance.Withdrawn,
	})
}

// GetTransactions godoc
//
//	@Summary		Get tip transactions history
//	@Description	List the authenticated user's tip transactions, newest first
//	@Tags			Balance
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.GetTransactionsResponseDTO	"Transactions history"
//	@Success		204	{object}	utils.Response					"No transactions"
//	@Failure		401	{object}	utils.Response					"User not authorized"
//	@Failure		500	{object}	utils.Response					"Internal server error"
//	@Router			/api/user/transactions [get]
func (h *BalanceHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	transactions, err := h.ledgerService.GetTransactions(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	if len(transactions) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "Transactions not found")
		return
	}

	response := make([]dto.GetTransactionsResponseDTO, len(transactions))
	for i, t := range transactions {
		response[i] = dto.GetTransactionsResponseDTO{
			ID:        t.ID,
			Amount:    t.Amount,
			Fee:       t.Fee,
			Status:    t.Status,
			CreatedAt: t.CreatedAt,
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}
