package paygine

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tiply/tiply/internal/config"
	"github.com/tiply/tiply/pkg/clients"
	"go.uber.org/zap"
)

// Order states reported by the gateway. Only OrderStateCompleted is
// treated as settled; everything else is non-terminal or failed.
const (
	OrderStateCompleted  = "COMPLETED"
	OrderStateRegistered = "REGISTERED"
)

var (
	// ErrNotConfigured means sector/password are absent for this
	// environment. Callers surface it as "service unavailable", never as
	// a gateway rejection.
	ErrNotConfigured = errors.New("paygine credentials are not configured")

	ErrBadResponse = errors.New("can't parse paygine response")
)

// Result is the uniform outcome of any gateway call. OK discriminates
// business success from business rejection; transport and parse problems
// are returned as plain errors instead.
type Result struct {
	OK          bool
	Code        int
	Description string
	OrderID     string
	OperationID string
	OrderState  string
	Amount      int64
}

type RegisterOrderParams struct {
	Amount        int64
	Reference     string
	Description   string
	Fee           int64
	SuccessURL    string
	FailURL       string
	NotifyURL     string
	SubAccountRef string
}

type PayoutParams struct {
	SubAccountRef string
	Destination   string
	Amount        int64
	Fee           int64
	Description   string
}

type Client struct {
	baseURL  string
	sector   string
	password string
	currency string
	client   clients.HTTPClientI
}

func New(cfg *config.Config, client clients.HTTPClientI) *Client {
	return &Client{
		baseURL:  cfg.PaygineURL,
		sector:   cfg.PaygineSector,
		password: cfg.PayginePassword,
		currency: cfg.PaygineCurrency,
		client:   client,
	}
}

func (c *Client) Configured() bool {
	return c.sector != "" && c.password != ""
}

// sign is base64(hex(md5(join(parts) + password))), the gateway's scheme.
func (c *Client) sign(parts ...string) string {
	data := ""
	for _, p := range parts {
		data += p
	}
	sum := md5.Sum([]byte(data + c.password))
	return base64.StdEncoding.EncodeToString([]byte(hex.EncodeToString(sum[:])))
}

type apiResponse struct {
	XMLName     xml.Name
	ID          string `xml:"id"`
	OrderID     string `xml:"order_id"`
	OrderState  string `xml:"order_state"`
	State       string `xml:"state"`
	Code        int    `xml:"code"`
	Description string `xml:"description"`
	Amount      int64  `xml:"amount"`
}

func parseResponse(body []byte) (*Result, error) {
	var raw apiResponse
	if err := xml.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	if raw.XMLName.Local == "error" {
		return &Result{
			OK:          false,
			Code:        raw.Code,
			Description: raw.Description,
		}, nil
	}

	res := &Result{
		OK:          true,
		OrderID:     raw.OrderID,
		OperationID: raw.ID,
		OrderState:  raw.OrderState,
		Amount:      raw.Amount,
	}
	if res.OrderID == "" {
		res.OrderID = raw.ID
	}
	if res.OrderState == "" {
		res.OrderState = raw.State
	}
	return res, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values) (*Result, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	form.Set("sector", c.sector)
	statusCode, body, err := c.client.PostForm(c.baseURL+path, form)
	if err != nil {
		return nil, fmt.Errorf("paygine call %s failed: %w", path, err)
	}
	if statusCode >= 500 {
		return nil, fmt.Errorf("paygine call %s: unexpected status %d", path, statusCode)
	}

	res, err := parseResponse(body)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		zap.L().Info("paygine rejected operation",
			zap.String("path", path),
			zap.Int("code", res.Code),
			zap.String("description", res.Description),
		)
	}
	return res, nil
}

// RegisterOrder registers a redirect-based order (tip payment or payout)
// and returns the gateway order id.
func (c *Client) RegisterOrder(ctx context.Context, p RegisterOrderParams) (*Result, error) {
	amount := strconv.FormatInt(p.Amount, 10)
	form := url.Values{}
	form.Set("amount", amount)
	form.Set("currency", c.currency)
	form.Set("reference", p.Reference)
	form.Set("description", p.Description)
	form.Set("fee", strconv.FormatInt(p.Fee, 10))
	form.Set("url", p.SuccessURL)
	form.Set("failurl", p.FailURL)
	form.Set("notify_url", p.NotifyURL)
	form.Set("shop_sub_number", p.SubAccountRef)
	form.Set("signature", c.sign(c.sector, amount, c.currency))

	return c.post(ctx, "/webapi/Register", form)
}

// OrderStatus queries the authoritative state of an order.
func (c *Client) OrderStatus(ctx context.Context, orderID string) (*Result, error) {
	form := url.Values{}
	form.Set("id", orderID)
	form.Set("signature", c.sign(c.sector, orderID))

	return c.post(ctx, "/webapi/Order", form)
}

// PayOutToCard transfers funds from a sub-account to a bank card in a
// single synchronous call.
func (c *Client) PayOutToCard(ctx context.Context, p PayoutParams) (*Result, error) {
	amount := strconv.FormatInt(p.Amount, 10)
	form := url.Values{}
	form.Set("shop_sub_number", p.SubAccountRef)
	form.Set("pan", p.Destination)
	form.Set("amount", amount)
	form.Set("currency", c.currency)
	form.Set("fee", strconv.FormatInt(p.Fee, 10))
	form.Set("description", p.Description)
	form.Set("signature", c.sign(c.sector, amount, c.currency, p.SubAccountRef))

	return c.post(ctx, "/webapi/b2puser/PayOutSDToCard", form)
}

// PayOutToPhone is a two-step transfer: the gateway pre-checks the
// destination and returns an operation id, then the execute call confirms
// it. A failed pre-check surfaces as Result{OK:false}.
func (c *Client) PayOutToPhone(ctx context.Context, p PayoutParams) (*Result, error) {
	amount := strconv.FormatInt(p.Amount, 10)
	form := url.Values{}
	form.Set("shop_sub_number", p.SubAccountRef)
	form.Set("phone", p.Destination)
	form.Set("amount", amount)
	form.Set("currency", c.currency)
	form.Set("signature", c.sign(c.sector, amount, c.currency, p.SubAccountRef))

	check, err := c.post(ctx, "/webapi/b2puser/PayOutSDToPhoneCheck", form)
	if err != nil {
		return nil, err
	}
	if !check.OK {
		return check, nil
	}

	execForm := url.Values{}
	execForm.Set("shop_sub_number", p.SubAccountRef)
	execForm.Set("id", check.OperationID)
	execForm.Set("fee", strconv.FormatInt(p.Fee, 10))
	execForm.Set("description", p.Description)
	execForm.Set("signature", c.sign(c.sector, check.OperationID, p.SubAccountRef))

	return c.post(ctx, "/webapi/b2puser/PayOutSDToPhone", execForm)
}

// PaymentURL is the hosted payment page for a registered order; the
// payer is redirected there to complete a tip.
func (c *Client) PaymentURL(orderID string) string {
	form := url.Values{}
	form.Set("sector", c.sector)
	form.Set("id", orderID)
	form.Set("signature", c.sign(c.sector, orderID))
	return c.baseURL + "/webapi/Purchase?" + form.Encode()
}

// SubAccountBalance reads the gateway-side balance of a user's
// sub-account. Informational only; never authoritative for the ledger.
func (c *Client) SubAccountBalance(ctx context.Context, subAccountRef string) (*Result, error) {
	form := url.Values{}
	form.Set("shop_sub_number", subAccountRef)
	form.Set("signature", c.sign(c.sector, subAccountRef))

	return c.post(ctx, "/webapi/b2puser/GetSDBalance", form)
}
