package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fmoraes/auth-api/database"
	"github.com/fmoraes/auth-api/models"
	"github.com/fmoraes/auth-api/validators"
)

type UserController struct {
	users database.UserStore
}

func NewUserController(users database.UserStore) *UserController {
	return &UserController{
		users: users,
	}
}

// Register validates and persists a new user record. Duplicate usernames and
// emails are rejected with a conflict; a store failure during the insert is
// rolled back and reported generically.
func (uc *UserController) Register(c *gin.Context) {
	req, ok := validators.ValidateRegisterRequest(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	exists, err := uc.users.UsernameExists(ctx, req.Username)
	if err != nil {
		sendResponse(c, http.StatusInternalServerError, "Registration failed", nil, "Database error")
		return
	}
	if exists {
		slog.Warn("registration with existing username", "username", req.Username)
		sendResponse(c, http.StatusConflict, "Registration failed", nil, map[string]string{
			"field":   "username",
			"message": "Username already registered",
		})
		return
	}

	exists, err = uc.users.EmailExists(ctx, req.Email)
	if err != nil {
		sendResponse(c, http.StatusInternalServerError, "Registration failed", nil, "Database error")
		return
	}
	if exists {
		slog.Warn("registration with existing email", "email", req.Email)
		sendResponse(c, http.StatusConflict, "Registration failed", nil, map[string]string{
			"field":   "email",
			"message": "Email already registered",
		})
		return
	}

	user := models.User{
		Username:     req.Username,
		Nome:         req.Nome,
		Email:        req.Email,
		Perfil:       req.Perfil,
		IPAutorizado: req.IPAutorizado,
	}
	user.SetPassword(req.Password)

	if err := uc.users.Create(ctx, &user); err != nil {
		if errors.Is(err, database.ErrDuplicateUser) {
			sendResponse(c, http.StatusConflict, "Registration failed", nil, map[string]string{
				"field":   "username_or_email",
				"message": "A user with this username or email already exists",
			})
			return
		}
		slog.Error("failed to create user", "username", req.Username, "error", err)
		sendResponse(c, http.StatusInternalServerError, "Registration failed", nil, "Failed to create user")
		return
	}

	slog.Info("user registered", "username", user.Username)
	sendResponse(c, http.StatusCreated, "User registered successfully", map[string]interface{}{
		"user": user.ToPublic(),
	}, nil)
}

// GetCurrentUser retrieves the current authenticated user
func (uc *UserController) GetCurrentUser(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		sendResponse(c, http.StatusUnauthorized, "Authentication required", nil, "No user found in context")
		return
	}

	user, err := uc.users.FindByID(c.Request.Context(), userID.(uint))
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			sendResponse(c, http.StatusNotFound, "User not found", nil, "User does not exist")
			return
		}
		sendResponse(c, http.StatusInternalServerError, "Failed to retrieve user", nil, "Database error")
		return
	}

	sendResponse(c, http.StatusOK, "User retrieved successfully", map[string]interface{}{
		"user": user.ToPublic(),
	}, nil)
}
