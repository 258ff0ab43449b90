package handler

import (
	"log/slog"
	"net/http"

	"github.com/employee-manager/internal/application/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type validateEmailRequest struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type mfaVerifyRequest struct {
	Email    string `json:"email"`
	MFAToken string `json:"mfaToken"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type googleTokenRequest struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Please provide all the details to register a user"})
		return
	}

	result, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "signup", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"newUser":   result.User,
		"qrCodeUrl": result.QRCodeURL,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, "login", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Login successful",
		"qrCodeUrl": result.QRCodeURL,
	})
}

func (h *AuthHandler) ValidateEmail(c *gin.Context) {
	var req validateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Verification is expired"})
		return
	}

	result, err := h.authService.ValidateEmail(c.Request.Context(), req.ID, req.Email)
	if err != nil {
		h.fail(c, "validateEmail", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"newUser":   result.User,
		"qrCodeUrl": result.QRCodeURL,
	})
}

func (h *AuthHandler) VerifyMFA(c *gin.Context) {
	var req mfaVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.authService.VerifyMFA(c.Request.Context(), req.Email, req.MFAToken)
	if err != nil {
		h.fail(c, "mfa-verify", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Verification successful",
		"jwtToken": token,
	})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "User not found"})
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.fail(c, "forgot-password", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reset email sent successfully"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req service.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Please provide password"})
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req); err != nil {
		h.fail(c, "reset-password", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

func (h *AuthHandler) VerifyGoogleToken(c *gin.Context) {
	var req googleTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Please provide token"})
		return
	}

	token, err := h.authService.VerifyGoogleToken(c.Request.Context(), req.Token)
	if err != nil {
		h.fail(c, "verify-google-token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Verification successful",
		"jwtToken": token,
		"success":  true,
	})
}

// fail maps a service error onto the wire contract: an `error` string plus
// the status for its kind. Internal causes are logged here, never returned.
func (h *AuthHandler) fail(c *gin.Context, operation string, err error) {
	kind := service.KindOf(err)
	switch kind {
	case service.KindInternal, service.KindIntegrity:
		h.logger.Error("operation failed", "operation", operation, "error", err)
	default:
		h.logger.Warn("request rejected", "operation", operation, "error", err)
	}
	c.JSON(statusFor(kind), gin.H{"error": service.MessageOf(err)})
}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation, service.KindConflict, service.KindNotFound:
		return http.StatusUnprocessableEntity
	case service.KindAuthentication:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
