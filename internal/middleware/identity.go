package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/imgvault/internal/config"
	"github.com/xxxsen/imgvault/internal/pkg/jwt"
)

const ContextUserIDKey = "user_id"

var errMalformedAuthorization = errors.New("malformed authorization header")

// IdentityResolver extracts the caller id from a request. An empty id with a
// nil error means the request carries no identity.
type IdentityResolver interface {
	Resolve(r *http.Request) (string, error)
}

type JWTResolver struct {
	secret []byte
}

func NewJWTResolver(secret []byte) *JWTResolver {
	return &JWTResolver{secret: secret}
}

func (j *JWTResolver) Resolve(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", nil
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errMalformedAuthorization
	}
	claims, err := jwt.ParseToken(strings.TrimSpace(parts[1]), j.secret)
	if err != nil {
		return "", err
	}
	return claims.Identity(), nil
}

// HeaderResolver trusts a header set by the hosting platform's gateway.
type HeaderResolver struct {
	header string
}

func NewHeaderResolver(header string) *HeaderResolver {
	return &HeaderResolver{header: header}
}

func (h *HeaderResolver) Resolve(r *http.Request) (string, error) {
	return strings.TrimSpace(r.Header.Get(h.header)), nil
}

func NewIdentityResolver(cfg config.AuthConfig) IdentityResolver {
	if cfg.Mode == config.AuthModeHeader {
		return NewHeaderResolver(cfg.Header)
	}
	return NewJWTResolver([]byte(cfg.JWTSecret))
}

// Identity records the caller id when one can be resolved. It never rejects
// a request; handlers decide what an anonymous caller may do.
func Identity(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := resolver.Resolve(c.Request)
		if err != nil {
			logutil.GetLogger(c.Request.Context()).Info("ignore unusable credentials",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
		}
		if userID != "" {
			c.Set(ContextUserIDKey, userID)
		}
		c.Next()
	}
}

func UserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}
