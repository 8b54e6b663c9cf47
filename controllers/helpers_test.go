package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/fmoraes/auth-api/controllers"
	"github.com/fmoraes/auth-api/database"
	"github.com/fmoraes/auth-api/models"
	"github.com/fmoraes/auth-api/routes"
)

type testEnv struct {
	router *gin.Engine
	users  *database.MemoryUserStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	redisClient := database.NewRedisClientFromConn(rdb)
	users := database.NewMemoryUserStore()
	challenges := database.NewChallengeStore(redisClient, 5*time.Minute)

	authController := controllers.NewAuthController(users, challenges, redisClient, time.Hour)
	userController := controllers.NewUserController(users)

	router := gin.New()
	routes.SetupRoutes(router, authController, userController)

	return &testEnv{router: router, users: users}
}

func (e *testEnv) seedUser(t *testing.T, username, password, authorizedIP string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Nome:         "Test User",
		Email:        username + "@example.com",
		Perfil:       "user",
		IPAutorizado: authorizedIP,
	}
	user.SetPassword(password)
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

// testClient is one HTTP client with its own cookie jar, so challenge
// session identity is carried across requests the way a browser would.
type testClient struct {
	t          *testing.T
	router     *gin.Engine
	remoteAddr string
	cookies    map[string]*http.Cookie
}

func (e *testEnv) newClient(t *testing.T, remoteAddr string) *testClient {
	return &testClient{
		t:          t,
		router:     e.router,
		remoteAddr: remoteAddr,
		cookies:    make(map[string]*http.Cookie),
	}
}

type apiResponse struct {
	Status  int            `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
	Error   any            `json:"error"`
}

func (tc *testClient) do(method, path string, body any) (int, apiResponse) {
	tc.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(tc.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = tc.remoteAddr
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range tc.cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	tc.router.ServeHTTP(rec, req)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(tc.cookies, cookie.Name)
			continue
		}
		tc.cookies[cookie.Name] = cookie
	}

	var resp apiResponse
	if len(rec.Body.Bytes()) > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	}
	return rec.Code, resp
}

func (tc *testClient) login(username, password, captcha, secondFactor string) (int, apiResponse) {
	tc.t.Helper()
	return tc.do(http.MethodPost, "/auth/login", map[string]string{
		"username":      username,
		"password":      password,
		"captcha":       captcha,
		"second_factor": secondFactor,
	})
}

func dataString(t *testing.T, resp apiResponse, key string) string {
	t.Helper()
	value, ok := resp.Data[key].(string)
	require.True(t, ok, "expected string %q in response data, got %v", key, resp.Data)
	return value
}

// wrongCode returns a 6-digit code guaranteed to differ from the given one.
func wrongCode(code string) string {
	if code[0] == '0' {
		return "1" + code[1:]
	}
	return "0" + code[1:]
}
