package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fmoraes/auth-api/database"
	"github.com/fmoraes/auth-api/validators"
)

const challengeCookieName = "challenge_session"

const sessionCookieName = "session_token"

type AuthController struct {
	users      database.UserStore
	challenges *database.ChallengeStore
	sessions   *database.RedisClient
	sessionTTL time.Duration
}

type AuthResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

func NewAuthController(users database.UserStore, challenges *database.ChallengeStore, sessions *database.RedisClient, sessionTTL time.Duration) *AuthController {
	return &AuthController{
		users:      users,
		challenges: challenges,
		sessions:   sessions,
		sessionTTL: sessionTTL,
	}
}

// sendResponse is a helper function to send consistent JSON responses
func sendResponse(c *gin.Context, status int, message string, data interface{}, err interface{}) {
	c.JSON(status, AuthResponse{
		Status:  status,
		Message: message,
		Data:    data,
		Error:   err,
	})
}

// challengeSessionID returns the client's challenge-session identity,
// issuing a fresh cookie when the client has none yet. Challenge slots are
// scoped to this identity so two clients logging in as the same username
// cannot overwrite each other's pending codes.
func (ac *AuthController) challengeSessionID(c *gin.Context) string {
	if sid, err := c.Cookie(challengeCookieName); err == nil && sid != "" {
		return sid
	}
	sid := uuid.New().String()
	c.SetCookie(challengeCookieName, sid, int(ac.sessionTTL.Seconds()), "/", "", false, true)
	return sid
}

// Login drives one re-entry into the authentication flow: password check,
// then IP authorization, then CAPTCHA, then second factor. Which of the
// optional fields are present in the request decides how far the flow runs;
// the challenge slots are the only state carried between requests.
func (ac *AuthController) Login(c *gin.Context) {
	req, ok := validators.ValidateLoginRequest(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	sid := ac.challengeSessionID(c)

	user, err := ac.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			slog.Warn("login failed", "username", req.Username)
			sendResponse(c, http.StatusUnauthorized, "Login failed", nil, "Invalid username or password")
			return
		}
		sendResponse(c, http.StatusInternalServerError, "Login failed", nil, "Database error")
		return
	}

	if !user.CheckPassword(req.Password) {
		slog.Warn("login failed", "username", req.Username)
		sendResponse(c, http.StatusUnauthorized, "Login failed", nil, "Invalid username or password")
		return
	}

	if user.IPAutorizado != "" && user.IPAutorizado != c.ClientIP() {
		slog.Warn("login from unauthorized address", "username", user.Username, "client_ip", c.ClientIP())
		sendResponse(c, http.StatusForbidden, "Login failed", nil, "IP not authorized")
		return
	}

	if req.Captcha == "" {
		code, err := ac.challenges.Issue(ctx, sid, user.Username, database.ChallengeCaptcha)
		if err != nil {
			sendResponse(c, http.StatusInternalServerError, "Login failed", nil, "Failed to issue CAPTCHA")
			return
		}
		slog.Info("captcha issued", "username", user.Username)
		// The code is returned in the response in place of an out-of-band
		// delivery channel.
		sendResponse(c, http.StatusOK, "Please enter the CAPTCHA", map[string]interface{}{
			"captcha_required": true,
			"captcha_code":     code,
		}, nil)
		return
	}

	stored, err := ac.challenges.Consume(ctx, sid, user.Username, database.ChallengeCaptcha)
	if err != nil && !errors.Is(err, database.ErrNoChallenge) {
		sendResponse(c, http.StatusInternalServerError, "Login failed", nil, "Failed to verify CAPTCHA")
		return
	}
	if err != nil || stored != req.Captcha {
		slog.Warn("incorrect captcha", "username", user.Username)
		if clearErr := ac.challenges.Clear(ctx, sid, user.Username); clearErr != nil {
			sendResponse(c, http.StatusInternalServerError, "Login failed", nil, "Failed to verify CAPTCHA")
			return
		}
		sendResponse(c, http.StatusUnauthorized, "Login failed", nil, "Incorrect CAPTCHA")
		return
	}

	if req.SecondFactor == "" {
		code, err := ac.challenges.Issue(ctx, sid, user.Username, database.ChallengeSecondFactor)
		if err != nil {
			sendResponse(c, http.StatusInternalServerError, "Login failed", nil, "Failed to issue second factor code")
			return
		}
		slog.Info("second factor code issued", "username", user.Username)
		sendResponse(c, http.StatusOK, "Please enter the second factor code", map[string]interface{}{
			"second_factor_required": true,
			"second_factor_code":     code,
		}, nil)
		return
	}

	stored, err = ac.challenges.Consume(ctx, sid, user.Username, database.ChallengeSecondFactor)
	if err != nil && !errors.Is(err, database.ErrNoChallenge) {
		sendResponse(c, http.StatusInternalServerError, "Login failed", nil, "Failed to verify second factor code")
		return
	}
	if err != nil || stored != req.SecondFactor {
		slog.Warn("incorrect second factor code", "username", user.Username)
		if clearErr := ac.challenges.Clear(ctx, sid, user.Username); clearErr != nil {
			sendResponse(c, http.StatusInternalServerError, "Login failed", nil, "Failed to verify second factor code")
			return
		}
		sendResponse(c, http.StatusUnauthorized, "Login failed", nil, "Incorrect second factor code")
		return
	}

	if err := ac.challenges.Clear(ctx, sid, user.Username); err != nil {
		sendResponse(c, http.StatusInternalServerError, "Login failed", nil, "Failed to create session")
		return
	}

	sessionToken := uuid.New().String()
	if err := ac.sessions.SetSession(ctx, sessionToken, user.ID, ac.sessionTTL); err != nil {
		sendResponse(c, http.StatusInternalServerError, "Login failed", nil, "Failed to create session")
		return
	}

	c.SetCookie(sessionCookieName, sessionToken, int(ac.sessionTTL.Seconds()), "/", "", false, true)

	slog.Info("login successful", "username", user.Username)
	sendResponse(c, http.StatusOK, "Login successful", map[string]interface{}{
		"user": user.ToPublic(),
	}, nil)
}

// Logout handles user logout
func (ac *AuthController) Logout(c *gin.Context) {
	sessionToken, err := c.Cookie(sessionCookieName)
	if err != nil {
		sendResponse(c, http.StatusBadRequest, "Logout failed", nil, "No session found")
		return
	}

	if err := ac.sessions.DeleteSession(c.Request.Context(), sessionToken); err != nil {
		sendResponse(c, http.StatusInternalServerError, "Logout failed", nil, "Failed to end session")
		return
	}

	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)

	sendResponse(c, http.StatusOK, "Logged out successfully", nil, nil)
}

// AuthMiddleware handles authentication for protected routes
func (ac *AuthController) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionToken, err := c.Cookie(sessionCookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, AuthResponse{
				Status:  http.StatusUnauthorized,
				Message: "Authentication required",
				Error:   "No session found",
			})
			return
		}

		userID, err := ac.sessions.GetSession(c.Request.Context(), sessionToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, AuthResponse{
				Status:  http.StatusUnauthorized,
				Message: "Authentication failed",
				Error:   "Invalid or expired session",
			})
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}
