package controllers_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerBody(overrides map[string]string) map[string]string {
	body := map[string]string{
		"username": "maria",
		"password": "password123",
		"nome":     "Maria Silva",
		"email":    "maria@example.com",
	}
	for key, value := range overrides {
		body[key] = value
	}
	return body
}

func TestRegisterSuccess(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient(t, "192.0.2.10:1234")

	code, resp := client.do(http.MethodPost, "/auth/register", registerBody(nil))
	require.Equal(t, http.StatusCreated, code)

	user, ok := resp.Data["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), user["id"])
	assert.Equal(t, "maria", user["username"])
	assert.Equal(t, "Maria Silva", user["nome"])
	assert.Equal(t, "maria@example.com", user["email"])
	assert.Equal(t, "user", user["perfil"], "perfil defaults to user when omitted")
	assert.Equal(t, "", user["ip_autorizado"])
	assert.NotContains(t, user, "password_hash")

	createdAt, ok := user["created_at"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, createdAt)
	assert.NoError(t, err)
}

func TestRegisterWithOptionalFields(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient(t, "192.0.2.10:1234")

	code, resp := client.do(http.MethodPost, "/auth/register", registerBody(map[string]string{
		"perfil":        "admin",
		"ip_autorizado": "10.0.0.1",
	}))
	require.Equal(t, http.StatusCreated, code)

	user := resp.Data["user"].(map[string]any)
	assert.Equal(t, "admin", user["perfil"])
	assert.Equal(t, "10.0.0.1", user["ip_autorizado"])
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient(t, "192.0.2.10:1234")

	code, _ := client.do(http.MethodPost, "/auth/register", registerBody(nil))
	require.Equal(t, http.StatusCreated, code)

	code, _ = client.do(http.MethodPost, "/auth/register", registerBody(map[string]string{
		"email": "other@example.com",
	}))
	assert.Equal(t, http.StatusConflict, code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient(t, "192.0.2.10:1234")

	code, _ := client.do(http.MethodPost, "/auth/register", registerBody(nil))
	require.Equal(t, http.StatusCreated, code)

	code, _ = client.do(http.MethodPost, "/auth/register", registerBody(map[string]string{
		"username": "other",
	}))
	assert.Equal(t, http.StatusConflict, code)
}

func TestRegisterMissingRequiredFields(t *testing.T) {
	for _, field := range []string{"username", "password", "nome", "email"} {
		t.Run(field, func(t *testing.T) {
			env := newTestEnv(t)
			client := env.newClient(t, "192.0.2.10:1234")

			body := registerBody(nil)
			delete(body, field)

			code, _ := client.do(http.MethodPost, "/auth/register", body)
			assert.Equal(t, http.StatusBadRequest, code)
		})
	}
}

func TestRegisterWhitespaceFieldCountsAsMissing(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient(t, "192.0.2.10:1234")

	code, _ := client.do(http.MethodPost, "/auth/register", registerBody(map[string]string{
		"username": "   ",
	}))
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRegisterFieldLengthBoundaries(t *testing.T) {
	t.Run("username at 50 is accepted", func(t *testing.T) {
		env := newTestEnv(t)
		client := env.newClient(t, "192.0.2.10:1234")

		code, _ := client.do(http.MethodPost, "/auth/register", registerBody(map[string]string{
			"username": strings.Repeat("a", 50),
		}))
		assert.Equal(t, http.StatusCreated, code)
	})

	t.Run("username at 51 is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		client := env.newClient(t, "192.0.2.10:1234")

		code, _ := client.do(http.MethodPost, "/auth/register", registerBody(map[string]string{
			"username": strings.Repeat("a", 51),
		}))
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("perfil at 21 is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		client := env.newClient(t, "192.0.2.10:1234")

		code, _ := client.do(http.MethodPost, "/auth/register", registerBody(map[string]string{
			"perfil": strings.Repeat("x", 21),
		}))
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestRegisterInvalidEmail(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient(t, "192.0.2.10:1234")

	code, _ := client.do(http.MethodPost, "/auth/register", registerBody(map[string]string{
		"email": "not-an-email",
	}))
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRegisterInvalidAuthorizedIP(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient(t, "192.0.2.10:1234")

	code, _ := client.do(http.MethodPost, "/auth/register", registerBody(map[string]string{
		"ip_autorizado": "999.1.1.1",
	}))
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRegisterMalformedBody(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient(t, "192.0.2.10:1234")

	code, _ := client.do(http.MethodPost, "/auth/register", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRegisteredUserCanStartLogin(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient(t, "192.0.2.10:1234")

	code, _ := client.do(http.MethodPost, "/auth/register", registerBody(nil))
	require.Equal(t, http.StatusCreated, code)

	code, resp := client.login("maria", "password123", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp.Data["captcha_required"])
}
