package tip

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tiply/tiply/internal/domain"
	"github.com/tiply/tiply/internal/dto"
	"github.com/tiply/tiply/internal/service/tipservice"
	"github.com/tiply/tiply/pkg/utils"
)

type Service interface {
	Create(ctx context.Context, recipientID int, amount int64) (*domain.Transaction, string, error)
}

type TipHandler struct {
	tipService Service
}

func New(tipService Service) *TipHandler {
	return &TipHandler{
		tipService: tipService,
	}
}

// Create godoc
//
//	@Summary		Start a tip payment
//	@Description	Register a tip for a recipient and return the hosted payment page URL. Public endpoint: the payer needs no account.
//	@Tags			Tips
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.TipCreateRequestDTO	true	"Tip payload"
//	@Success		200		{object}	dto.TipCreateResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		404		{object}	utils.Response	"Recipient not found"
//	@Failure		422		{object}	utils.Response	"Invalid amount"
//	@Failure		503		{object}	utils.Response	"Gateway unavailable"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/tips [post]
func (h *TipHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TipCreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, paymentURL, err := h.tipService.Create(r.Context(), req.RecipientID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, tipservice.ErrAmountInvalid):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, tipservice.ErrRecipientNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, tipservice.ErrGatewayUnavailable):
			utils.RespondWithError(w, http.StatusServiceUnavailable, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.TipCreateResponseDTO{
		ID:         t.ID,
		PaymentURL: paymentURL,
	})
}
