package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/folio/internal/common"
	"github.com/dmitrijs2005/folio/internal/logging"
	"github.com/dmitrijs2005/folio/internal/server/config"
	"github.com/dmitrijs2005/folio/internal/server/content"
	"github.com/dmitrijs2005/folio/internal/server/payments"
)

// PaymentService creates donation orders and records donations once the
// payment has been verified server side.
type PaymentService struct {
	gateway       payments.Gateway
	site          *SiteService
	logger        logging.Logger
	keyID         string
	keySecret     string
	webhookSecret string
	currency      string
}

func NewPaymentService(g payments.Gateway, site *SiteService, cfg *config.Config, logger logging.Logger) *PaymentService {
	return &PaymentService{
		gateway:       g,
		site:          site,
		logger:        logger.With("module", "payments"),
		keyID:         cfg.RazorpayKeyID,
		keySecret:     cfg.RazorpayKeySecret,
		webhookSecret: cfg.RazorpayWebhookSecret,
		currency:      cfg.Currency,
	}
}

// KeyID is the public key the checkout widget is opened with.
func (s *PaymentService) KeyID() string {
	return s.keyID
}

// CreateOrder creates a gateway order for amount in major units and returns
// the gateway's order object as is. Gateway errors are returned unwrapped so
// their message can be shown to the donor.
func (s *PaymentService) CreateOrder(ctx context.Context, amount float64) (map[string]any, error) {
	minor, err := payments.ToMinorUnits(amount)
	if err != nil {
		return nil, err
	}
	receipt, err := payments.NewReceipt()
	if err != nil {
		return nil, fmt.Errorf("receipt: %w", err)
	}
	order, err := s.gateway.CreateOrder(ctx, minor, s.currency, receipt)
	if err != nil {
		s.logger.Error(ctx, "order creation failed", "amount", minor, "error", err)
		return nil, err
	}
	s.logger.Info(ctx, "order created", "receipt", receipt, "amount", minor)
	return order, nil
}

// VerifyPayment checks the checkout signature, looks the order up to learn
// the paid amount and records the donation. It returns the donation id.
func (s *PaymentService) VerifyPayment(ctx context.Context, orderID, paymentID, signature string) (string, error) {
	if err := payments.VerifyPayment(orderID, paymentID, signature, s.keySecret); err != nil {
		s.logger.Warn(ctx, "payment signature rejected", "order", orderID, "payment", paymentID)
		return "", err
	}
	order, err := s.gateway.FetchOrder(ctx, orderID)
	if err != nil {
		return "", fmt.Errorf("fetch order %s: %w", orderID, err)
	}
	amount, currency := payments.OrderAmount(order)
	if currency == "" {
		currency = s.currency
	}
	id, created, err := s.site.RecordDonation(ctx, content.Donation{
		PaymentID: paymentID,
		OrderID:   orderID,
		Amount:    amount,
		Currency:  currency,
	})
	if err != nil {
		return "", err
	}
	s.logger.Info(ctx, "payment verified", "payment", paymentID, "donation", id, "new", created)
	return id, nil
}

// HandleWebhook processes a signed gateway notification. Only captured
// payments are recorded; other events are acknowledged and ignored.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if err := payments.VerifyWebhook(body, signature, s.webhookSecret); err != nil {
		s.logger.Warn(ctx, "webhook signature rejected")
		return err
	}
	ev, err := payments.ParseEvent(body)
	if err != nil {
		return err
	}
	if ev.Event != payments.EventPaymentCaptured {
		s.logger.Debug(ctx, "webhook ignored", "event", ev.Event)
		return nil
	}
	p := ev.Payload.Payment.Entity
	if p.ID == "" {
		return fmt.Errorf("%w: captured payment without id", common.ErrorValidation)
	}
	currency := p.Currency
	if currency == "" {
		currency = s.currency
	}
	id, created, err := s.site.RecordDonation(ctx, content.Donation{
		PaymentID: p.ID,
		OrderID:   p.OrderID,
		Amount:    float64(p.Amount) / 100,
		Currency:  currency,
	})
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "webhook recorded", "payment", p.ID, "donation", id, "new", created)
	return nil
}
