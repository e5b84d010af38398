package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/imgvault/internal/config"
	"github.com/xxxsen/imgvault/internal/pkg/jwt"
)

func runIdentity(t *testing.T, resolver IdentityResolver, header, value string) (string, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/my-images", nil)
	if header != "" {
		c.Request.Header.Set(header, value)
	}
	Identity(resolver)(c)
	return UserID(c), c.IsAborted()
}

func TestIdentity_JWT(t *testing.T) {
	secret := []byte("secret")
	resolver := NewIdentityResolver(config.AuthConfig{Mode: config.AuthModeJWT, JWTSecret: string(secret)})
	token, err := jwt.GenerateToken("user-9", secret, time.Hour)
	require.NoError(t, err)

	userID, aborted := runIdentity(t, resolver, "Authorization", "Bearer "+token)
	require.Equal(t, "user-9", userID)
	require.False(t, aborted)

	userID, aborted = runIdentity(t, resolver, "", "")
	require.Empty(t, userID)
	require.False(t, aborted)

	userID, _ = runIdentity(t, resolver, "Authorization", "Basic abc")
	require.Empty(t, userID)

	userID, _ = runIdentity(t, resolver, "Authorization", "Bearer not-a-token")
	require.Empty(t, userID)
}

func TestIdentity_Header(t *testing.T) {
	resolver := NewIdentityResolver(config.AuthConfig{Mode: config.AuthModeHeader, Header: "X-User-Id"})

	userID, _ := runIdentity(t, resolver, "X-User-Id", "  host-user ")
	require.Equal(t, "host-user", userID)

	userID, _ = runIdentity(t, resolver, "X-Other", "x")
	require.Empty(t, userID)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("X-Request-Id", "abc")
	RequestID()(c)
	require.Equal(t, "abc", c.GetString(ContextRequestIDKey))
	require.Equal(t, "abc", rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	RequestID()(c)
	require.Len(t, c.GetString(ContextRequestIDKey), 32)
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodOptions, "/api/upload-image", nil)
	c.Request.Header.Set("Origin", "https://app.example")
	CORS([]string{"https://app.example"})(c)
	require.True(t, c.IsAborted())
	require.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-File-Name")

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/my-images", nil)
	c.Request.Header.Set("Origin", "https://evil.example")
	CORS([]string{"https://app.example"})(c)
	require.False(t, c.IsAborted())
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
