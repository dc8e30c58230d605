package middleware

import (
	"errors"
	"strings"

	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase"
	"storefront_billing/pkg"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const actorKey = "actor"

var (
	errNotLoggedIn = pkg.NewAuthError("not logged in")
	errNotAdmin    = pkg.NewForbiddenError("NOT_ADMIN", "not admin")
)

// Authenticator turns a bearer token into an Actor with its roles.
type Authenticator struct {
	secret []byte
	issuer string
	auth   usecase.IAuthorizationUseCase
	logger *zap.Logger
}

func NewAuthenticator(secret, issuer string, auth usecase.IAuthorizationUseCase, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{secret: []byte(secret), issuer: issuer, auth: auth, logger: logger.Named("auth")}
}

// RequireAuth rejects requests without a valid HS256 bearer token. The subject claim is
// the user id.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := a.subject(c.GetHeader("Authorization"))
		if err != nil {
			a.logger.Debug("token rejected", zap.Error(err))
			abort(c, errNotLoggedIn)
			return
		}

		actor, err := a.auth.Resolve(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, usecase.ErrNotLoggedIn) {
				abort(c, errNotLoggedIn)
				return
			}
			a.logger.Error("resolving actor failed", zap.String("user_id", userID), zap.Error(err))
			abort(c, pkg.NewInternalError(err))
			return
		}
		SetActor(c, actor)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (a *Authenticator) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			abort(c, errNotLoggedIn)
			return
		}
		if !actor.IsAdmin() {
			a.logger.Info("admin route denied", zap.String("user_id", actor.UserID), zap.String("path", c.FullPath()))
			abort(c, errNotAdmin)
			return
		}
		c.Next()
	}
}

func (a *Authenticator) subject(header string) (string, error) {
	raw, ok := strings.CutPrefix(strings.TrimSpace(header), "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return "", errors.New("missing bearer token")
	}
	if len(a.secret) == 0 {
		return "", errors.New("jwt secret not configured")
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return "", err
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}

// SetActor stores the authenticated caller on the request context.
func SetActor(c *gin.Context, actor entities.Actor) {
	c.Set(actorKey, actor)
}

// ActorFrom returns the actor stored by RequireAuth.
func ActorFrom(c *gin.Context) (entities.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return entities.Actor{}, false
	}
	actor, ok := v.(entities.Actor)
	return actor, ok
}

func abort(c *gin.Context, appErr *pkg.AppError) {
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
