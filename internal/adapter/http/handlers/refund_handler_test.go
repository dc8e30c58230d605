package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"storefront_billing/internal/adapter/http/handlers/mocks"
	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func TestRefundHandler_CreateRefund(t *testing.T) {
	setup := func(t *testing.T) (*mocks.MockIRefundUseCase, http.Handler) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIRefundUseCase(ctrl)
		r := newTestRouter()
		r.POST("/v1/admin/payments/:id/refunds", withActor(admin), NewRefundHandler(uc).CreateRefund)
		return uc, r
	}

	t.Run("success", func(t *testing.T) {
		uc, r := setup(t)
		uc.EXPECT().Refund(gomock.Any(), admin, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ entities.Actor, cmd usecase.RefundCommand) (entities.RefundInfo, error) {
				if cmd.PaymentID != "pay-1" || !cmd.Amount.Equal(decimal.RequireFromString("150000.5")) ||
					cmd.Reason != "broken" || cmd.Method != entities.RefundMethodBankTransfer {
					t.Fatalf("unexpected command %+v", cmd)
				}
				return entities.RefundInfo{RefundPaymentID: "ref-1", IsFullRefund: true}, nil
			})

		w := doJSON(r, http.MethodPost, "/v1/admin/payments/pay-1/refunds", `{"amount":"150000.50","reason":" broken ","method":"BANK_TRANSFER"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), `"refund_payment_id":"ref-1"`) {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("missing reason", func(t *testing.T) {
		_, r := setup(t)
		w := doJSON(r, http.MethodPost, "/v1/admin/payments/pay-1/refunds", `{"amount":10}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("remaining amount travels in the message", func(t *testing.T) {
		uc, r := setup(t)
		uc.EXPECT().Refund(gomock.Any(), admin, gomock.Any()).Return(entities.RefundInfo{},
			&usecase.RefundLimitError{Remaining: decimal.RequireFromString("40"), Requested: decimal.RequireFromString("50")})

		w := doJSON(r, http.MethodPost, "/v1/admin/payments/pay-1/refunds", `{"amount":50,"reason":"x"}`)
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", w.Code)
		}
		env := decodeEnvelope(t, w)
		if env.Code != "REFUND_EXCEEDS_REMAINING" || !strings.Contains(env.Error, "40.00") || env.Kind != "domain_error" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{usecase.ErrNotAdmin, http.StatusForbidden, "NOT_ADMIN"},
		{usecase.ErrPaymentNotFound, http.StatusNotFound, "PAYMENT_NOT_FOUND"},
		{usecase.ErrPaymentNotRefundable, http.StatusUnprocessableEntity, "PAYMENT_NOT_REFUNDABLE"},
		{usecase.ErrInvalidRefundAmount, http.StatusBadRequest, "INVALID_REFUND_AMOUNT"},
		{usecase.ErrRefundAmountExceedsPayment, http.StatusBadRequest, "REFUND_EXCEEDS_PAYMENT"},
		{usecase.ErrInvalidRefundMethod, http.StatusBadRequest, "INVALID_REFUND_METHOD"},
		{usecase.ErrGatewayRefundFailed, http.StatusUnprocessableEntity, "GATEWAY_REFUND_FAILED"},
		{usecase.ErrRefundConflict, http.StatusConflict, "REFUND_CONFLICT"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			uc, r := setup(t)
			uc.EXPECT().Refund(gomock.Any(), admin, gomock.Any()).Return(entities.RefundInfo{}, tc.err)

			w := doJSON(r, http.MethodPost, "/v1/admin/payments/pay-1/refunds", `{"amount":1,"reason":"x"}`)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, w.Code)
			}
			if env := decodeEnvelope(t, w); env.Code != tc.code {
				t.Fatalf("expected %s, got %s", tc.code, env.Code)
			}
		})
	}
}

func TestRefundHandler_ListRefunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIRefundUseCase(ctrl)
	r := newTestRouter()
	r.GET("/v1/admin/payments/:id/refunds", withActor(admin), NewRefundHandler(uc).ListRefunds)

	uc.EXPECT().ListRefunds(gomock.Any(), admin, "pay-1").Return([]entities.Payment{
		{ID: "ref-1", OrderID: "o1", Amount: decimal.NewFromInt(10), Status: entities.PaymentStatusCompleted, RefundOfPaymentID: "pay-1"},
	}, nil)

	w := doJSON(r, http.MethodGet, "/v1/admin/payments/pay-1/refunds", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"id":"ref-1"`) || !strings.Contains(body, `"is_refund":true`) || !strings.Contains(body, `"amount":"10.00"`) {
		t.Fatalf("unexpected body: %s", body)
	}
}
