package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront_billing/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/refund"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
var ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")

type paymentGetter interface {
	Get(ctx context.Context, id int) (*payment.Response, error)
}

type refundCreator interface {
	Create(ctx context.Context, paymentID int) (*refund.Response, error)
	CreatePartialRefund(ctx context.Context, paymentID int, amount float64) (*refund.Response, error)
}

type MercadoPagoGateway struct {
	payments paymentGetter
	refunds  refundCreator
	mockMode bool
	logger   *zap.Logger
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

// NewMercadoPagoGateway builds the SDK clients. In mock mode no token is needed and every
// payment reads as approved.
func NewMercadoPagoGateway(accessToken string, mockMode bool, logger *zap.Logger) (*MercadoPagoGateway, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("mercadopago")

	if mockMode {
		logger.Info("mock mode enabled")
		return &MercadoPagoGateway{mockMode: true, logger: logger}, nil
	}
	if accessToken == "" {
		logger.Warn("missing access token")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		logger.Error("failed creating sdk config", zap.Error(err))
		return nil, err
	}
	logger.Info("client initialized")

	return &MercadoPagoGateway{
		payments: payment.NewClient(cfg),
		refunds:  refund.NewClient(cfg),
		logger:   logger,
	}, nil
}

func (g *MercadoPagoGateway) GetPayment(ctx context.Context, providerPaymentID string) (string, decimal.Decimal, json.RawMessage, error) {
	id, err := parseProviderID(providerPaymentID)
	if err != nil {
		return "", decimal.Zero, nil, err
	}

	if g != nil && g.mockMode {
		resp, _ := json.Marshal(map[string]any{
			"id":            id,
			"status":        "approved",
			"status_detail": "accredited",
			"date_approved": time.Now().UTC().Format(time.RFC3339Nano),
		})
		g.logger.Debug("mock payment read", zap.Int("provider_payment_id", id))
		return "approved", decimal.Zero, resp, nil
	}
	if g == nil || g.payments == nil {
		return "", decimal.Zero, nil, ErrMercadoPagoGatewayNotConfigured
	}

	resp, err := g.payments.Get(ctx, id)
	if err != nil {
		g.logger.Error("sdk get failed", zap.Int("provider_payment_id", id), zap.Error(err))
		return "", decimal.Zero, nil, err
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return "", decimal.Zero, nil, err
	}
	g.logger.Info("payment read",
		zap.Int("provider_payment_id", resp.ID),
		zap.String("provider_status", resp.Status),
	)
	return resp.Status, decimal.NewFromFloat(resp.TransactionAmount), b, nil
}

func (g *MercadoPagoGateway) Refund(ctx context.Context, providerPaymentID string, amount decimal.Decimal, full bool) (string, json.RawMessage, error) {
	id, err := parseProviderID(providerPaymentID)
	if err != nil {
		return "", nil, err
	}

	if g != nil && g.mockMode {
		refundID := strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
		resp, _ := json.Marshal(map[string]any{
			"id":         refundID,
			"payment_id": id,
			"amount":     amount.String(),
			"status":     "approved",
		})
		g.logger.Info("mock refund", zap.Int("provider_payment_id", id), zap.String("refund_id", refundID))
		return refundID, resp, nil
	}
	if g == nil || g.refunds == nil {
		return "", nil, ErrMercadoPagoGatewayNotConfigured
	}

	var resp *refund.Response
	if full {
		resp, err = g.refunds.Create(ctx, id)
	} else {
		resp, err = g.refunds.CreatePartialRefund(ctx, id, amount.InexactFloat64())
	}
	if err != nil {
		g.logger.Error("sdk refund failed", zap.Int("provider_payment_id", id), zap.Bool("full", full), zap.Error(err))
		return "", nil, err
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return "", nil, err
	}
	g.logger.Info("refund created", zap.Int("provider_payment_id", id), zap.Int("refund_id", resp.ID))
	return strconv.Itoa(resp.ID), b, nil
}

func parseProviderID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: mercado pago payment id %q", interfaces.ErrMalformedPayload, raw)
	}
	return id, nil
}
