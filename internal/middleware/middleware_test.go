package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/formdesk-api/internal/models"
	"github.com/noah-isme/formdesk-api/internal/service"
	"github.com/noah-isme/formdesk-api/pkg/logger"
	"github.com/noah-isme/formdesk-api/pkg/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuth(t *testing.T) (*service.AuthService, token.Codec) {
	t.Helper()
	codec, err := token.NewJWTCodec("middleware-secret", time.Hour, "formdesk-api", nil)
	require.NoError(t, err)
	admins := []models.AdminCredential{{ID: "1", Username: "admin", Password: "admin123", Role: models.RoleAdministrator}}
	return service.NewAuthService(admins, codec, nil, nil, nil), codec
}

func protectedRouter(auth *service.AuthService, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWT(auth)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		claims, ok := CurrentAdmin(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": claims.Username, "logged": c.GetString(logger.ContextAdminIDKey)})
	})
	r.GET("/protected", handlers...)
	return r
}

func serve(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["message"]
}

func TestJWTRejectsMissingOrMalformedHeader(t *testing.T) {
	auth, _ := newAuth(t)
	r := protectedRouter(auth)

	for _, header := range []string{"", "Token abc", "Bearer ", "Bearer"} {
		rec := serve(r, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.Equal(t, "Unauthorized", errorMessage(t, rec), header)
	}
}

func TestJWTRejectsInvalidToken(t *testing.T) {
	auth, _ := newAuth(t)
	rec := serve(protectedRouter(auth), "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", errorMessage(t, rec))
}

func TestJWTAttachesClaims(t *testing.T) {
	auth, codec := newAuth(t)
	tok, _, err := codec.Issue(models.AdminClaims{UserID: "1", Username: "admin", Role: models.RoleAdministrator})
	require.NoError(t, err)

	rec := serve(protectedRouter(auth), "bearer "+tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":"admin","logged":"1"}`, rec.Body.String())
}

func TestRequireRoles(t *testing.T) {
	auth, codec := newAuth(t)
	managerToken, _, err := codec.Issue(models.AdminClaims{UserID: "2", Username: "manager", Role: models.RoleManager})
	require.NoError(t, err)

	rec := serve(protectedRouter(auth, RequireRoles(models.RoleAdministrator)), "Bearer "+managerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(protectedRouter(auth, RequireRoles(models.RoleAdministrator, models.RoleManager)), "Bearer "+managerToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	bare := gin.New()
	bare.GET("/protected", RequireRoles(models.RoleManager), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, serve(bare, "").Code)
}

func TestSetCacheHit(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	SetCacheHit(c, true)
	assert.True(t, CacheHit(c))
	assert.Equal(t, "HIT", rec.Header().Get(CacheHeader))

	SetCacheHit(c, false)
	assert.False(t, CacheHit(c))
	assert.Equal(t, "MISS", rec.Header().Get(CacheHeader))
}

func TestMetricsMiddlewareRecordsRoute(t *testing.T) {
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	count, err := testutil.GatherAndCount(metrics.Registry(), "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
