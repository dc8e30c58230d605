package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront_billing/internal/adapter/http/handlers/mocks"
	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const testSecret = "s3cret"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.RegisteredClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func newAuthRouter(auth *Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", auth.RequireAuth(), func(c *gin.Context) {
		actor, _ := ActorFrom(c)
		c.String(http.StatusOK, actor.UserID)
	})
	r.GET("/admin", auth.RequireAuth(), auth.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticator_RequireAuth(t *testing.T) {
	valid := jwt.RegisteredClaims{Subject: "u-1", Issuer: "storefront", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}

	cases := []struct {
		name    string
		token   func(t *testing.T) string
		resolve bool
		err     error
		status  int
	}{
		{name: "no header", token: func(*testing.T) string { return "" }, status: http.StatusUnauthorized},
		{name: "garbage", token: func(*testing.T) string { return "not-a-jwt" }, status: http.StatusUnauthorized},
		{name: "wrong secret", token: func(t *testing.T) string {
			return signToken(t, jwt.SigningMethodHS256, []byte("other"), valid)
		}, status: http.StatusUnauthorized},
		{name: "wrong algorithm", token: func(t *testing.T) string {
			return signToken(t, jwt.SigningMethodHS512, []byte(testSecret), valid)
		}, status: http.StatusUnauthorized},
		{name: "expired", token: func(t *testing.T) string {
			c := valid
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
			return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), c)
		}, status: http.StatusUnauthorized},
		{name: "wrong issuer", token: func(t *testing.T) string {
			c := valid
			c.Issuer = "elsewhere"
			return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), c)
		}, status: http.StatusUnauthorized},
		{name: "no subject", token: func(t *testing.T) string {
			c := valid
			c.Subject = ""
			return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), c)
		}, status: http.StatusUnauthorized},
		{name: "valid", token: func(t *testing.T) string {
			return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), valid)
		}, resolve: true, status: http.StatusOK},
		{name: "unknown user", token: func(t *testing.T) string {
			return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), valid)
		}, resolve: true, err: usecase.ErrNotLoggedIn, status: http.StatusUnauthorized},
		{name: "role store down", token: func(t *testing.T) string {
			return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), valid)
		}, resolve: true, err: errors.New("dynamo"), status: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			uc := mocks.NewMockIAuthorizationUseCase(ctrl)
			if tc.resolve {
				uc.EXPECT().Resolve(gomock.Any(), "u-1").Return(entities.Actor{UserID: "u-1"}, tc.err)
			}
			r := newAuthRouter(NewAuthenticator(testSecret, "storefront", uc, zap.NewNop()))

			w := get(r, "/me", tc.token(t))
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
			if tc.status == http.StatusOK && w.Body.String() != "u-1" {
				t.Fatalf("unexpected actor %q", w.Body.String())
			}
		})
	}
}

func TestAuthenticator_RequireAdmin(t *testing.T) {
	token := func(t *testing.T) string {
		return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "u-1"})
	}

	t.Run("customer forbidden", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIAuthorizationUseCase(ctrl)
		uc.EXPECT().Resolve(gomock.Any(), "u-1").Return(entities.Actor{UserID: "u-1", Roles: []entities.Role{entities.RoleCustomer}}, nil)
		r := newAuthRouter(NewAuthenticator(testSecret, "", uc, nil))

		w := get(r, "/admin", token(t))
		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}
		if body := w.Body.String(); body != `{"success":false,"error":"not admin","code":"NOT_ADMIN","kind":"authorization_error"}` {
			t.Fatalf("unexpected body %s", body)
		}
	})

	t.Run("admin allowed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIAuthorizationUseCase(ctrl)
		uc.EXPECT().Resolve(gomock.Any(), "u-1").Return(entities.Actor{UserID: "u-1", Roles: []entities.Role{entities.RoleAdmin}}, nil)
		r := newAuthRouter(NewAuthenticator(testSecret, "", uc, nil))

		if w := get(r, "/admin", token(t)); w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
	})

	t.Run("without RequireAuth", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.GET("/admin", NewAuthenticator(testSecret, "", nil, nil).RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
		if w := get(r, "/admin", ""); w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AccessLog(zap.NewNop()), Recovery(zap.NewNop()))
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := get(r, "/panic", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"success":false,"error":"An internal error occurred","code":"INTERNAL_ERROR","kind":"internal_error"}` {
		t.Fatalf("unexpected body %s", body)
	}
}
