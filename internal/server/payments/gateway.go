// Package payments wraps the Razorpay order API and its signature checks.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"

	"github.com/dmitrijs2005/folio/internal/common"
)

// Gateway creates and looks up orders at the payment provider. Orders are
// returned exactly as the provider sent them.
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (map[string]any, error)
	FetchOrder(ctx context.Context, orderID string) (map[string]any, error)
}

// RazorpayGateway talks to Razorpay with a key id and key secret.
type RazorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

// CreateOrder creates an order for amountMinor (paise for INR). The SDK
// call is not context aware.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (map[string]any, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}
	return g.client.Order.Create(data, nil)
}

func (g *RazorpayGateway) FetchOrder(ctx context.Context, orderID string) (map[string]any, error) {
	return g.client.Order.Fetch(orderID, nil, nil)
}

// MaxAmount is the largest order accepted, in major units.
const MaxAmount = 10_000_000

// ToMinorUnits converts a major-unit amount to minor units, rounding to the
// nearest unit. Non-positive amounts and amounts above MaxAmount are rejected.
func ToMinorUnits(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 || amount > MaxAmount {
		return 0, fmt.Errorf("%w: %v", common.ErrorInvalidAmount, amount)
	}
	minor := int64(math.Round(amount * 100))
	if minor <= 0 {
		return 0, fmt.Errorf("%w: %v", common.ErrorInvalidAmount, amount)
	}
	return minor, nil
}

// NewReceipt returns "receipt_" followed by random hex.
func NewReceipt() (string, error) {
	s, err := common.MakeRandHexString(6)
	if err != nil {
		return "", err
	}
	return "receipt_" + s, nil
}

// VerifyPayment checks the checkout signature for orderID|paymentID.
func VerifyPayment(orderID, paymentID, signature, keySecret string) error {
	if orderID == "" || paymentID == "" || signature == "" {
		return common.ErrorInvalidSignature
	}
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	if !utils.VerifyPaymentSignature(params, signature, keySecret) {
		return common.ErrorInvalidSignature
	}
	return nil
}

// VerifyWebhook checks the X-Razorpay-Signature of a raw webhook body.
func VerifyWebhook(body []byte, signature, webhookSecret string) error {
	if signature == "" || webhookSecret == "" {
		return common.ErrorInvalidSignature
	}
	if !utils.VerifyWebhookSignature(string(body), signature, webhookSecret) {
		return common.ErrorInvalidSignature
	}
	return nil
}

// Payment is the part of a captured payment a donation is built from.
type Payment struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Event is a webhook notification.
type Event struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity Payment `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

const EventPaymentCaptured = "payment.captured"

func ParseEvent(body []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return Event{}, fmt.Errorf("%w: webhook body: %v", common.ErrorValidation, err)
	}
	return e, nil
}

// OrderAmount reads the amount and currency of an order object. The amount
// comes back in minor units.
func OrderAmount(order map[string]any) (float64, string) {
	currency, _ := order["currency"].(string)
	switch v := order["amount"].(type) {
	case float64:
		return v / 100, currency
	case json.Number:
		f, _ := v.Float64()
		return f / 100, currency
	case int64:
		return float64(v) / 100, currency
	case int:
		return float64(v) / 100, currency
	}
	return 0, currency
}
