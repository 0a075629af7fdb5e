package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tiply/tiply/internal/domain"
	"github.com/tiply/tiply/internal/dto"
	"github.com/tiply/tiply/internal/reconcile"
	"github.com/tiply/tiply/internal/service/limitservice"
	"github.com/tiply/tiply/internal/service/payoutservice"
	"github.com/tiply/tiply/pkg/auth"
	"github.com/tiply/tiply/pkg/utils"
)

type PayoutService interface {
	SendToCard(ctx context.Context, adminID, payoutID int) (*domain.PayoutRequest, error)
}

type LimitService interface {
	EffectiveLimits(ctx context.Context, userID int) (*limitservice.Limits, error)
	UpdateUserLimits(ctx context.Context, userID int, limits *domain.User) error
}

type Reconciler interface {
	ReconcilePayouts(ctx context.Context) (*reconcile.Report, error)
	ReconcileTransactions(ctx context.Context) (*reconcile.Report, error)
}

type AdminHandler struct {
	payoutService PayoutService
	limitService  LimitService
	reconciler    Reconciler
}

func New(payoutService PayoutService, limitService LimitService, reconciler Reconciler) *AdminHandler {
	return &AdminHandler{
		payoutService: payoutService,
		limitService:  limitService,
		reconciler:    reconciler,
	}
}

// SendToCard godoc
//
//	@Summary		Execute a payout manually
//	@Description	Push the payout to the recipient's card or phone through the gateway B2B transfer API. Allowed for CREATED and PROCESSING requests, and for COMPLETED ones the gateway has no order for (manual re-send after an external failure).
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int						true	"Payout request id"
//	@Success		200	{object}	dto.PayoutResponseDTO	"Executed payout"
//	@Failure		401	{object}	utils.Response			"User not authorized"
//	@Failure		402	{object}	utils.Response			"Insufficient balance"
//	@Failure		403	{object}	utils.Response			"Missing capability"
//	@Failure		404	{object}	utils.Response			"Payout request not found"
//	@Failure		409	{object}	utils.Response			"Payout not in a sendable state"
//	@Failure		502	{object}	utils.Response			"Gateway rejected the transfer"
//	@Failure		503	{object}	utils.Response			"Gateway unavailable"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/admin/payouts/{id}/send [post]
func (h *AdminHandler) SendToCard(w http.ResponseWriter, r *http.Request) {
	adminID := r.Context().Value(auth.UserIDKey).(int)
	payoutID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payout id")
		return
	}

	payout, err := h.payoutService.SendToCard(r.Context(), adminID, payoutID)
	if err != nil {
		var gwErr *payoutservice.GatewayError
		switch {
		case errors.Is(err, payoutservice.ErrPayoutNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, payoutservice.ErrInvalidState):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, payoutservice.ErrInsufficientBalance):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, payoutservice.ErrBadDestination):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, payoutservice.ErrGatewayUnavailable):
			utils.RespondWithError(w, http.StatusServiceUnavailable, err.Error())
		case errors.As(err, &gwErr):
			utils.RespondWithError(w, http.StatusBadGateway, gwErr.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.PayoutResponseDTO{
		ID:           payout.ID,
		Amount:       payout.Amount,
		Fee:          payout.Fee,
		Status:       payout.Status,
		Details:      payout.Details,
		RejectReason: payout.RejectReason,
		CreatedAt:    payout.CreatedAt,
	})
}

// Reconcile godoc
//
//	@Summary		Run reconciliation now
//	@Description	Poll the gateway for every unresolved payout and pending transaction and settle them, same as the background sweep
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.ReconcileResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Missing capability"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/reconcile [post]
func (h *AdminHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	payouts, err := h.reconciler.ReconcilePayouts(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "payout reconciliation failed")
		return
	}
	transactions, err := h.reconciler.ReconcileTransactions(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "transaction reconciliation failed")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.ReconcileResponseDTO{
		Payouts:      toReportDTO(payouts),
		Transactions: toReportDTO(transactions),
	})
}

func toReportDTO(r *reconcile.Report) dto.ReconcileReportDTO {
	return dto.ReconcileReportDTO{
		Total:     r.Total,
		Completed: r.Completed,
		Rejected:  r.Rejected,
		Errors:    r.Errors,
	}
}

// GetLimits godoc
//
//	@Summary		Get effective user limits
//	@Description	Resolve the withdrawal ceilings for a user: per-user override, then system defaults, then hardcoded fallbacks. Absent monthly values mean uncapped.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"User id"
//	@Success		200	{object}	dto.LimitsResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Missing capability"
//	@Failure		404	{object}	utils.Response	"User not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/users/{id}/limits [get]
func (h *AdminHandler) GetLimits(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	limits, err := h.limitService.EffectiveLimits(r.Context(), userID)
	if err != nil {
		if errors.Is(err, limitservice.ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.LimitsResponseDTO{
		DailyCount:    limits.DailyCount,
		DailyAmount:   limits.DailyAmount,
		MonthlyCount:  limits.MonthlyCount,
		MonthlyAmount: limits.MonthlyAmount,
	})
}

// UpdateLimits godoc
//
//	@Summary		Set per-user limit overrides
//	@Description	Overwrite a user's withdrawal limit overrides. A null field clears the override back to the system default.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"User id"
//	@Param			request	body		dto.UpdateLimitsRequestDTO	true	"Limit overrides"
//	@Success		200		{object}	dto.LimitsResponseDTO		"Resulting effective limits"
//	@Failure		401		{object}	utils.Response				"User not authorized"
//	@Failure		403		{object}	utils.Response				"Missing capability"
//	@Failure		404		{object}	utils.Response				"User not found"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Router			/api/admin/users/{id}/limits [put]
func (h *AdminHandler) UpdateLimits(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req dto.UpdateLimitsRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	overrides := &domain.User{
		DailyLimitCount:    req.DailyLimitCount,
		DailyLimitAmount:   req.DailyLimitAmount,
		MonthlyLimitCount:  req.MonthlyLimitCount,
		MonthlyLimitAmount: req.MonthlyLimitAmount,
	}
	if err := h.limitService.UpdateUserLimits(r.Context(), userID, overrides); err != nil {
		if errors.Is(err, limitservice.ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	limits, err := h.limitService.EffectiveLimits(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.LimitsResponseDTO{
		DailyCount:    limits.DailyCount,
		DailyAmount:   limits.DailyAmount,
		MonthlyCount:  limits.MonthlyCount,
		MonthlyAmount: limits.MonthlyAmount,
	})
}
