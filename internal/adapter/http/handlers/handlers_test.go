package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront_billing/internal/adapter/http/middleware"
	"storefront_billing/internal/domain/entities"

	"github.com/gin-gonic/gin"
)

var (
	admin    = entities.Actor{UserID: "admin-1", Roles: []entities.Role{entities.RoleAdmin}}
	customer = entities.Actor{UserID: "cust-1", Roles: []entities.Role{entities.RoleCustomer}}
)

func withActor(actor entities.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetActor(c, actor)
		c.Next()
	}
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Kind    string          `json:"kind"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope %q: %v", w.Body.String(), err)
	}
	return env
}

func TestCurrentActor_Missing(t *testing.T) {
	r := newTestRouter()
	h := NewAddressHandler(nil)
	r.PUT("/v1/me/addresses/:id/default", h.SetDefault)

	w := doJSON(r, http.MethodPut, "/v1/me/addresses/a-1/default", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Success || env.Code != "NOT_LOGGED_IN" || env.Kind != "auth_error" || env.Error != "not logged in" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}
