package handlers

import (
	"net/http"
	"testing"

	"storefront_billing/internal/adapter/http/handlers/mocks"
	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase"

	"go.uber.org/mock/gomock"
)

func TestReconciliationHandler_Reconcile(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantCmd *usecase.ReconcileCommand
		err     error
		status  int
	}{
		{
			name:    "explicit options",
			body:    `{"date":" 2025-03-14 ","include_partial":true,"auto_fix":true}`,
			wantCmd: &usecase.ReconcileCommand{Date: "2025-03-14", IncludePartial: true, AutoFix: true},
			status:  http.StatusOK,
		},
		{
			name:    "empty body means today",
			wantCmd: &usecase.ReconcileCommand{},
			status:  http.StatusOK,
		},
		{
			name:   "malformed json",
			body:   `{"date":`,
			status: http.StatusBadRequest,
		},
		{
			name:    "bad date",
			body:    `{"date":"14/03/2025"}`,
			wantCmd: &usecase.ReconcileCommand{Date: "14/03/2025"},
			err:     usecase.ErrInvalidReconciliationDate,
			status:  http.StatusBadRequest,
		},
		{
			name:    "not admin",
			body:    `{}`,
			wantCmd: &usecase.ReconcileCommand{},
			err:     usecase.ErrNotAdmin,
			status:  http.StatusForbidden,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			uc := mocks.NewMockIReconciliationUseCase(ctrl)
			r := newTestRouter()
			r.POST("/v1/admin/reconciliation", withActor(admin), NewReconciliationHandler(uc).Reconcile)

			if tc.wantCmd != nil {
				uc.EXPECT().Reconcile(gomock.Any(), admin, *tc.wantCmd).Return(entities.ReconciliationReport{Date: "2025-03-14"}, tc.err)
			}

			w := doJSON(r, http.MethodPost, "/v1/admin/reconciliation", tc.body)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
		})
	}
}
