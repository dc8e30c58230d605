package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"storefront_billing/internal/adapter/http/handlers/mocks"
	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase"

	"go.uber.org/mock/gomock"
)

func TestOrderHandler_UpdateStatus(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		expect bool
		order  entities.Order
		err    error
		status int
	}{
		{name: "forward move", body: `{"status":"Processing","note":"packed"}`, expect: true,
			order: entities.Order{ID: "o1", Status: entities.OrderStatusProcessing}, status: http.StatusOK},
		{name: "missing status", body: `{"note":"x"}`, status: http.StatusBadRequest},
		{name: "backwards", body: `{"status":"processing","note":"packed"}`, expect: true, err: usecase.ErrInvalidOrderTransition, status: http.StatusUnprocessableEntity},
		{name: "raced", body: `{"status":"processing","note":"packed"}`, expect: true, err: usecase.ErrOrderConflict, status: http.StatusConflict},
		{name: "unknown order", body: `{"status":"processing","note":"packed"}`, expect: true, err: usecase.ErrOrderNotFound, status: http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			uc := mocks.NewMockIOrderUseCase(ctrl)
			r := newTestRouter()
			r.PATCH("/v1/admin/orders/:id/status", withActor(admin), NewOrderHandler(uc).UpdateStatus)

			if tc.expect {
				uc.EXPECT().UpdateStatus(gomock.Any(), admin, "o1", entities.OrderStatusProcessing, "packed").Return(tc.order, tc.err)
			}

			w := doJSON(r, http.MethodPatch, "/v1/admin/orders/o1/status", tc.body)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
		})
	}
}

func TestOrderHandler_Cancel(t *testing.T) {
	t.Run("success without body", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIOrderUseCase(ctrl)
		r := newTestRouter()
		r.POST("/v1/admin/orders/:id/cancel", withActor(admin), NewOrderHandler(uc).Cancel)

		uc.EXPECT().Cancel(gomock.Any(), admin, "o1", "").Return(entities.Order{ID: "o1", Status: entities.OrderStatusCancelled}, nil)

		w := doJSON(r, http.MethodPost, "/v1/admin/orders/o1/cancel", "")
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"cancelled"`) {
			t.Fatalf("unexpected response %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("stock restore incomplete still returns the order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIOrderUseCase(ctrl)
		r := newTestRouter()
		r.POST("/v1/admin/orders/:id/cancel", withActor(admin), NewOrderHandler(uc).Cancel)

		uc.EXPECT().Cancel(gomock.Any(), admin, "o1", "oos").Return(
			entities.Order{ID: "o1", Status: entities.OrderStatusCancelled},
			fmt.Errorf("%w: throttled", usecase.ErrStockRestoreIncomplete))

		w := doJSON(r, http.MethodPost, "/v1/admin/orders/o1/cancel", `{"note":"oos"}`)
		if w.Code != http.StatusMultiStatus || !strings.Contains(w.Body.String(), `"success":true`) {
			t.Fatalf("unexpected response %d: %s", w.Code, w.Body.String())
		}
	})
}
