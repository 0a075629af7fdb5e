package payout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tiply/tiply/internal/domain"
	"github.com/tiply/tiply/internal/dto"
	"github.com/tiply/tiply/internal/service/limitservice"
	"github.com/tiply/tiply/internal/service/payoutservice"
	"github.com/tiply/tiply/pkg/auth"
	"github.com/tiply/tiply/pkg/lock"
	"github.com/tiply/tiply/pkg/utils"
	"github.com/tiply/tiply/pkg/validate"
)

type Service interface {
	Create(ctx context.Context, userID int, amount int64, details string) (*domain.PayoutRequest, error)
	GetPayouts(ctx context.Context, userID int) ([]domain.PayoutRequest, error)
	CompleteFromGateway(ctx context.Context, payoutID int, success bool) (*domain.PayoutRequest, bool, error)
}

type PayoutHandler struct {
	payoutService Service
}

func New(payoutService Service) *PayoutHandler {
	return &PayoutHandler{
		payoutService: payoutService,
	}
}

// Create godoc
//
//	@Summary		Request a payout
//	@Description	Create a withdrawal request to a card or phone number. The amount is minor currency units; the fee is computed server-side and checked against the balance together with the amount.
//	@Tags			Payouts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.PayoutCreateRequestDTO	true	"Payout request payload"
//	@Success		200		{object}	dto.PayoutResponseDTO		"Created payout request"
//	@Failure		401		{object}	utils.Response				"User not authorized"
//	@Failure		402		{object}	utils.Response				"Insufficient balance"
//	@Failure		409		{object}	utils.Response				"Another payout is in flight"
//	@Failure		422		{object}	utils.Response				"Invalid amount or destination"
//	@Failure		429		{object}	utils.Response				"Withdrawal limit exceeded"
//	@Failure		502		{object}	utils.Response				"Gateway rejected the request"
//	@Failure		503		{object}	utils.Response				"Gateway unavailable"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Router			/api/user/payouts [post]
func (h *PayoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.PayoutCreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !validate.IsCardNumber(req.Details) && !validate.IsPhoneNumber(req.Details) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Invalid payout destination")
		return
	}

	payout, err := h.payoutService.Create(r.Context(), userID, req.Amount, req.Details)
	if err != nil {
		respondCreateError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toPayoutDTO(payout))
}

func respondCreateError(w http.ResponseWriter, err error) {
	var gwErr *payoutservice.GatewayError
	switch {
	case errors.Is(err, payoutservice.ErrAmountOutOfRange),
		errors.Is(err, payoutservice.ErrBadDestination):
		utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, payoutservice.ErrInsufficientBalance):
		utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, limitservice.ErrDailyCountExceeded),
		errors.Is(err, limitservice.ErrDailyAmountExceeded),
		errors.Is(err, limitservice.ErrMonthlyCountExceeded),
		errors.Is(err, limitservice.ErrMonthlyAmountExceeded):
		utils.RespondWithError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, lock.ErrLockBusy):
		utils.RespondWithError(w, http.StatusConflict, "another payout request is being processed")
	case errors.Is(err, payoutservice.ErrGatewayUnavailable):
		utils.RespondWithError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &gwErr):
		utils.RespondWithError(w, http.StatusBadGateway, gwErr.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// GetPayouts godoc
//
//	@Summary		Get payout requests history
//	@Description	List the authenticated user's payout requests, newest first
//	@Tags			Payouts
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.PayoutResponseDTO	"Payout requests"
//	@Success		204	{object}	utils.Response			"No payout requests"
//	@Failure		401	{object}	utils.Response			"User not authorized"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/user/payouts [get]
func (h *PayoutHandler) GetPayouts(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	payouts, err := h.payoutService.GetPayouts(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch payouts")
		return
	}

	if len(payouts) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "Payout requests not found")
		return
	}

	response := make([]dto.PayoutResponseDTO, len(payouts))
	for i := range payouts {
		response[i] = toPayoutDTO(&payouts[i])
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}

// Return godoc
//
//	@Summary		Gateway redirect completion
//	@Description	Apply the outcome the gateway reported via the payer redirect. Idempotent: a payout already resolved is reported back unchanged with alreadyProcessed=true.
//	@Tags			Payouts
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id		path		int		true	"Payout request id"
//	@Param			success	query		bool	true	"Gateway outcome flag"
//	@Success		200		{object}	dto.PayoutReturnResponseDTO
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"Payout request not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/payouts/{id}/return [get]
func (h *PayoutHandler) Return(w http.ResponseWriter, r *http.Request) {
	payoutID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payout id")
		return
	}
	success := r.URL.Query().Get("success") == "true"

	payout, alreadyProcessed, err := h.payoutService.CompleteFromGateway(r.Context(), payoutID, success)
	if err != nil {
		if errors.Is(err, payoutservice.ErrPayoutNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.PayoutReturnResponseDTO{
		ID:               payout.ID,
		Status:           payout.Status,
		AlreadyProcessed: alreadyProcessed,
	})
}

func toPayoutDTO(p *domain.PayoutRequest) dto.PayoutResponseDTO {
	return dto.PayoutResponseDTO{
		ID:           p.ID,
		Amount:       p.Amount,
		Fee:          p.Fee,
		Status:       p.Status,
		Details:      p.Details,
		RejectReason: p.RejectReason,
		CreatedAt:    p.CreatedAt,
	}
}
