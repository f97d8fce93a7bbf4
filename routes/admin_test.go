package routes

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"homestay-server/models"
	"homestay-server/storage"
	"homestay-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// buildTestApp wires a minimal iris app with the admin party, the real JWT
// verifier and role middleware, backed by an in-memory database.
func buildTestApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, storage.PerformMigrations(db))
	storage.DB = db
	InitServices(db)

	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	verifyMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	admin := app.Party("/api/admin", verifyMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", AdminListUsers)
		admin.Get("/stats", AdminStats)
	}

	require.NoError(t, app.Build())
	return app
}

func signTestToken(t *testing.T, id uint, role string) string {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, err := signer.Sign(utils.AccessToken{ID: id, Role: role})
	require.NoError(t, err)
	return string(token)
}

func TestAdminRoutesRBAC(t *testing.T) {
	app := buildTestApp(t)

	admin := models.User{Email: "admin@example.com", Role: models.RoleAdmin}
	require.NoError(t, storage.DB.Create(&admin).Error)

	t.Run("missing token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		resp := httptest.NewRecorder()
		app.ServeHTTP(resp, req)
		assert.NotEqual(t, http.StatusOK, resp.Code)
	})

	t.Run("guest role gets 403", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, 99, models.RoleGuest))
		resp := httptest.NewRecorder()
		app.ServeHTTP(resp, req)
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("admin role gets 200", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, admin.ID, models.RoleAdmin))
		resp := httptest.NewRecorder()
		app.ServeHTTP(resp, req)
		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("admin stats returns counters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, admin.ID, models.RoleAdmin))
		resp := httptest.NewRecorder()
		app.ServeHTTP(resp, req)
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), "totalUsers")
	})
}
