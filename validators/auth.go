package validators

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
}

// Field length limits, mirroring the column sizes on models.User. Challenge
// inputs are capped at the 6 digits a generated code can have.
const (
	MaxUsernameLength  = 50
	MaxPasswordLength  = 128
	MaxNomeLength      = 100
	MaxPerfilLength    = 20
	MaxChallengeLength = 6
)

type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

type ValidationResponse struct {
	Errors []ValidationError `json:"errors"`
}

func Validate(data interface{}) []ValidationError {
	var validationErrors []ValidationError

	err := validate.Struct(data)
	if err != nil {
		if errors, ok := err.(validator.ValidationErrors); ok {
			for _, e := range errors {
				validationErrors = append(validationErrors, ValidationError{
					Field: e.Field(),
					Tag:   e.Tag(),
					Value: e.Param(),
				})
			}
		}
	}

	return validationErrors
}

type RegisterRequest struct {
	Username     string `json:"username" validate:"required"`
	Password     string `json:"password" validate:"required"`
	Nome         string `json:"nome" validate:"required"`
	Email        string `json:"email" validate:"required"`
	Perfil       string `json:"perfil"`
	IPAutorizado string `json:"ip_autorizado"`
}

type LoginRequest struct {
	Username     string `json:"username" validate:"required"`
	Password     string `json:"password" validate:"required"`
	Captcha      string `json:"captcha"`
	SecondFactor string `json:"second_factor"`
}

// ValidateRegisterRequest binds and validates a registration body. It
// sanitizes every field before any check, so a field of pure whitespace
// counts as missing. On failure it writes the 400 response itself.
func ValidateRegisterRequest(c *gin.Context) (*RegisterRequest, bool) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register request with invalid payload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request payload",
		})
		return nil, false
	}

	req.Username = SanitizeString(req.Username)
	req.Password = SanitizeString(req.Password)
	req.Nome = SanitizeString(req.Nome)
	req.Email = SanitizeString(req.Email)
	req.Perfil = SanitizeString(req.Perfil)
	req.IPAutorizado = SanitizeString(req.IPAutorizado)
	if req.Perfil == "" {
		req.Perfil = "user"
	}

	if errs := Validate(req); len(errs) > 0 {
		slog.Warn("register request missing required fields")
		c.JSON(http.StatusBadRequest, ValidationResponse{
			Errors: errs,
		})
		return nil, false
	}

	if !ValidateField(req.Username, MaxUsernameLength, false) {
		invalidField(c, "username", "Username is invalid or exceeds the maximum length (50 characters)")
		return nil, false
	}
	if !ValidateField(req.Password, MaxPasswordLength, false) {
		invalidField(c, "password", "Password is invalid or exceeds the maximum length (128 characters)")
		return nil, false
	}
	if !ValidateField(req.Nome, MaxNomeLength, false) {
		invalidField(c, "nome", "Nome is invalid or exceeds the maximum length (100 characters)")
		return nil, false
	}
	if !ValidateEmail(req.Email) {
		invalidField(c, "email", "Invalid email format")
		return nil, false
	}
	if !ValidateField(req.Perfil, MaxPerfilLength, false) {
		invalidField(c, "perfil", "Perfil is invalid or exceeds the maximum length (20 characters)")
		return nil, false
	}
	if !ValidateIP(req.IPAutorizado) {
		invalidField(c, "ip_autorizado", "Invalid authorized IP")
		return nil, false
	}

	return &req, true
}

// ValidateLoginRequest binds and validates a login body. Captcha and second
// factor are optional; when present they are length-checked before the
// authentication flow sees them.
func ValidateLoginRequest(c *gin.Context) (*LoginRequest, bool) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login request with invalid payload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request payload",
		})
		return nil, false
	}

	req.Username = SanitizeString(req.Username)
	req.Password = SanitizeString(req.Password)
	req.Captcha = SanitizeString(req.Captcha)
	req.SecondFactor = SanitizeString(req.SecondFactor)

	if errs := Validate(req); len(errs) > 0 {
		slog.Warn("login request missing required fields")
		c.JSON(http.StatusBadRequest, ValidationResponse{
			Errors: errs,
		})
		return nil, false
	}

	if !ValidateField(req.Username, MaxUsernameLength, false) {
		invalidField(c, "username", "Username is invalid or exceeds the maximum length (50 characters)")
		return nil, false
	}
	if !ValidateField(req.Password, MaxPasswordLength, false) {
		invalidField(c, "password", "Password is invalid or exceeds the maximum length (128 characters)")
		return nil, false
	}
	if req.Captcha != "" && !ValidateField(req.Captcha, MaxChallengeLength, true) {
		invalidField(c, "captcha", "CAPTCHA is invalid or exceeds the maximum length (6 characters)")
		return nil, false
	}
	if req.SecondFactor != "" && !ValidateField(req.SecondFactor, MaxChallengeLength, true) {
		invalidField(c, "second_factor", "Second factor code is invalid or exceeds the maximum length (6 characters)")
		return nil, false
	}

	return &req, true
}

func invalidField(c *gin.Context, field, message string) {
	slog.Warn("request field failed validation", "field", field)
	c.JSON(http.StatusBadRequest, gin.H{
		"field": field,
		"error": message,
	})
}
