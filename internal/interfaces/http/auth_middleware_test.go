package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagacare/health-admin-api/internal/domain/entity"
	apphttp "github.com/nagacare/health-admin-api/internal/interfaces/http"
)

const testCookie = "session"

// fakeResolver maps fixed tokens to principals.
type fakeResolver map[string]*entity.Principal

func (f fakeResolver) Resolve(_ context.Context, token string) *entity.Principal {
	return f[token]
}

var resolver = fakeResolver{
	"tok-admin":    {ID: "u-admin", Role: entity.RoleAdmin},
	"tok-worker":   {ID: "u-worker", Role: entity.RoleWorkers, AssignedBarangay: "CONCEPCION"},
	"tok-barangay": {ID: "u-badmin", Role: entity.RoleBarangayAdmin, AssignedBarangay: "PACOL"},
}

// buildTestApp mounts AuthMiddleware and RequireRole in front of a handler echoing the principal.
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(resolver, testCookie),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			p := apphttp.GetPrincipal(c)
			return c.JSON(fiber.Map{"id": p.ID, "role": p.Role, "token": apphttp.GetSessionToken(c)})
		},
	)
	return app
}

func doRequest(t *testing.T, app *fiber.App, header, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: cookie})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRequireRole_AllowedRolePasses(t *testing.T) {
	app := buildTestApp(entity.RoleWorkers)
	resp := doRequest(t, app, "Bearer tok-worker", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "u-worker", body["id"])
	assert.Equal(t, "tok-worker", body["token"])
}

func TestRequireRole_AnyOfSeveralRoles(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin, entity.RoleBarangayAdmin)
	resp := doRequest(t, app, "Bearer tok-barangay", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_OtherRoleForbidden(t *testing.T) {
	app := buildTestApp(entity.RoleWorkers)
	resp := doRequest(t, app, "Bearer tok-admin", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"code":"FORBIDDEN","message":"access denied"}`, string(body))
}

func TestAuthMiddleware_MissingAndUnknownTokensLookAlike(t *testing.T) {
	app := buildTestApp(entity.RoleWorkers)

	cases := map[string]string{
		"no header":        "",
		"unknown token":    "Bearer tok-nobody",
		"malformed scheme": "Token tok-worker",
		"empty bearer":     "Bearer ",
	}
	var bodies []string
	for name, header := range cases {
		resp := doRequest(t, app, header, "")
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, name)
		bodies = append(bodies, string(body))
	}
	for _, b := range bodies[1:] {
		assert.Equal(t, bodies[0], b)
	}
}

func TestAuthMiddleware_CookieToken(t *testing.T) {
	app := buildTestApp(entity.RoleWorkers)
	resp := doRequest(t, app, "", "tok-worker")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_ClearsStaleCookie(t *testing.T) {
	app := buildTestApp(entity.RoleWorkers)
	resp := doRequest(t, app, "", "tok-expired")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var cleared *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == testCookie {
			cleared = ck
		}
	}
	require.NotNil(t, cleared, "stale session cookie must be cleared")
	assert.Empty(t, cleared.Value)
}
