package handlers

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"storefront_billing/internal/adapter/http/handlers/mocks"
	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase"

	"go.uber.org/mock/gomock"
)

func TestAddressHandler_SetDefault(t *testing.T) {
	cases := []struct {
		name   string
		addr   entities.Address
		err    error
		status int
	}{
		{name: "success", addr: entities.Address{ID: "a-2", UserID: customer.UserID, City: "HCMC", IsDefault: true}, status: http.StatusOK},
		{name: "not found", err: usecase.ErrAddressNotFound, status: http.StatusNotFound},
		{name: "store failure", err: errors.New("throttled"), status: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			uc := mocks.NewMockIAddressUseCase(ctrl)
			r := newTestRouter()
			r.PUT("/v1/me/addresses/:id/default", withActor(customer), NewAddressHandler(uc).SetDefault)

			uc.EXPECT().SetDefault(gomock.Any(), customer, "a-2").Return(tc.addr, tc.err)

			w := doJSON(r, http.MethodPut, "/v1/me/addresses/a-2/default", "")
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, w.Code)
			}
			if tc.err == nil && !strings.Contains(w.Body.String(), `"is_default":true`) {
				t.Fatalf("unexpected body: %s", w.Body.String())
			}
		})
	}
}
