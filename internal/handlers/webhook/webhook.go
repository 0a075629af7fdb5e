package webhook

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/tiply/tiply/internal/domain"
	"github.com/tiply/tiply/internal/paygine"
	"go.uber.org/zap"
)

type PayoutService interface {
	CompleteFromGateway(ctx context.Context, payoutID int, success bool) (*domain.PayoutRequest, bool, error)
}

type TipService interface {
	Settle(ctx context.Context, orderID string, success bool) (*domain.Transaction, bool, error)
}

type Parser interface {
	ParseWebhook(form url.Values) (*paygine.WebhookEvent, error)
}

type WebhookHandler struct {
	parser        Parser
	payoutService PayoutService
	tipService    TipService
}

func New(parser Parser, payoutService PayoutService, tipService TipService) *WebhookHandler {
	return &WebhookHandler{
		parser:        parser,
		payoutService: payoutService,
		tipService:    tipService,
	}
}

// Notify godoc
//
//	@Summary		Gateway callback
//	@Description	Accept a signed order-state notification from the payment gateway and settle the referenced payout or tip. Responds 200 OK whenever the notification is authentic, even if it was already applied, so the gateway stops retrying.
//	@Tags			Webhooks
//	@Accept			x-www-form-urlencoded
//	@Produce		plain
//	@Success		200	{string}	string	"OK"
//	@Failure		400	{string}	string	"Bad signature or malformed form"
//	@Router			/api/paygine/notify [post]
func (h *WebhookHandler) Notify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	event, err := h.parser.ParseWebhook(r.PostForm)
	if err != nil {
		if errors.Is(err, paygine.ErrBadSignature) {
			zap.L().Warn("webhook with bad signature", zap.String("orderID", r.PostForm.Get("order_id")))
		}
		http.Error(w, "bad notification", http.StatusBadRequest)
		return
	}

	// Apply errors are logged and swallowed: the gateway side is
	// authoritative here, and reconciliation will pick up anything we
	// fail to apply now. A non-200 only makes the gateway retry.
	if payoutID := event.PayoutID(); payoutID != 0 {
		_, already, err := h.payoutService.CompleteFromGateway(r.Context(), payoutID, event.Completed())
		if err != nil {
			zap.L().Error("can't apply payout webhook",
				zap.Int("payoutID", payoutID), zap.Error(err))
		} else if already {
			zap.L().Info("payout webhook replay ignored", zap.Int("payoutID", payoutID))
		}
	} else if event.TipID() != 0 {
		_, already, err := h.tipService.Settle(r.Context(), event.OrderID, event.Completed())
		if err != nil {
			zap.L().Error("can't apply tip webhook",
				zap.String("orderID", event.OrderID), zap.Error(err))
		} else if already {
			zap.L().Info("tip webhook replay ignored", zap.String("orderID", event.OrderID))
		}
	} else {
		zap.L().Warn("webhook with unrecognized reference",
			zap.String("reference", event.Reference), zap.String("orderID", event.OrderID))
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
