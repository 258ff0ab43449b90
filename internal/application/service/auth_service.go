package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"math/big"
	"time"

	"github.com/employee-manager/internal/domain/entity"
	"github.com/employee-manager/internal/domain/repository"
	"github.com/employee-manager/internal/infrastructure/email"
	"github.com/employee-manager/internal/infrastructure/identity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const (
	mfaIssuer     = "employee-manager"
	mfaSecretSize = 20
	sessionTTL    = 2 * time.Hour
	resetOTPTTL   = 5 * time.Minute
	qrImageSize   = 200
)

// AuthService orchestrates the credential store, the secret primitives, the
// identity verifier and the mail sender behind the auth endpoints.
type AuthService struct {
	users     repository.UserRepository
	sender    email.Sender
	verifier  identity.Verifier
	logger    *slog.Logger
	jwtSecret []byte
	baseURL   string
}

func NewAuthService(users repository.UserRepository, sender email.Sender,
	verifier identity.Verifier, logger *slog.Logger, jwtSecret, baseURL string) *AuthService {
	return &AuthService{
		users:     users,
		sender:    sender,
		verifier:  verifier,
		logger:    logger,
		jwtSecret: []byte(jwtSecret),
		baseURL:   baseURL,
	}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Country  string `json:"country"`
}

// EnrollmentResult pairs a user record with the QR rendering of its TOTP
// enrollment URI. QRCodeURL is empty when rendering failed; that failure is
// logged, not surfaced.
type EnrollmentResult struct {
	User      *entity.User
	QRCodeURL string
}

type LoginResult struct {
	QRCodeURL string
}

type ResetPasswordRequest struct {
	Token           string `json:"token"`
	OTP             string `json:"otp"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Register creates a user with a hashed password, a fresh MFA secret and
// isVerified=false. The QR image is best-effort.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*EnrollmentResult, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Country == "" {
		return nil, validationError("Please provide all the details to register a user")
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, conflictError("Email is already in use.")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, internalError("Failed to create a new user", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internalError("Failed to create a new user", err)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      mfaIssuer,
		AccountName: req.Email,
		SecretSize:  mfaSecretSize,
	})
	if err != nil {
		return nil, internalError("Failed to create a new user", err)
	}

	user := &entity.User{
		Name:       req.Name,
		Email:      req.Email,
		Password:   string(hashed),
		Country:    req.Country,
		MFASecret:  key.Secret(),
		IsVerified: false,
		QRCodeURL:  s.renderQRCode(key),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, internalError("Failed to create a new user", err)
	}

	return &EnrollmentResult{User: user, QRCodeURL: user.QRCodeURL}, nil
}

// Login verifies the password only. It never issues a session credential;
// that is the MFA challenge's job.
func (s *AuthService) Login(ctx context.Context, emailAddr, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, emailAddr)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, authenticationError("Invalid credentials")
	}
	if err != nil {
		return nil, internalError("Login failed", err)
	}

	if user.Password == "" {
		return nil, integrityError("User password is undefined")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, authenticationError("Invalid credentials")
	}

	return &LoginResult{QRCodeURL: user.QRCodeURL}, nil
}

// ValidateEmail confirms enrollment by re-issuing the MFA secret and marking
// the user verified. The secret is rotated rather than confirmed; clients
// must scan the returned QR again.
func (s *AuthService) ValidateEmail(ctx context.Context, id, emailAddr string) (*EnrollmentResult, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, notFoundError("Verification is expired")
	}

	user, err := s.users.FindByID(ctx, objectID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFoundError("Verification is expired")
	}
	if err != nil {
		return nil, internalError("Failed to create a new user", err)
	}

	account := emailAddr
	if account == "" {
		account = user.Email
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      mfaIssuer,
		AccountName: account,
		SecretSize:  mfaSecretSize,
	})
	if err != nil {
		return nil, internalError("Failed to create a new user", err)
	}

	user.IsVerified = true
	user.MFASecret = key.Secret()
	user.QRCodeURL = s.renderQRCode(key)

	if err := s.users.Update(ctx, user); err != nil {
		return nil, internalError("Failed to create a new user", err)
	}

	return &EnrollmentResult{User: user, QRCodeURL: user.QRCodeURL}, nil
}

// VerifyMFA checks the authenticator code against the stored secret and, on
// match, issues the 2-hour session JWT. This is the only path to a session
// credential for password accounts.
func (s *AuthService) VerifyMFA(ctx context.Context, emailAddr, mfaToken string) (string, error) {
	user, err := s.users.FindByEmail(ctx, emailAddr)
	if errors.Is(err, repository.ErrNotFound) {
		return "", authenticationError("Invalid credentials")
	}
	if err != nil {
		return "", internalError("Verification failed", err)
	}

	if !totp.Validate(mfaToken, user.MFASecret) {
		return "", authenticationError("Invalid token")
	}

	token, err := s.signSession(user.Email)
	if err != nil {
		return "", internalError("Verification failed", err)
	}
	return token, nil
}

// ForgotPassword opens a reset session: a 6-digit OTP and a uuid link token
// sharing one 5-minute expiry, persisted in a single save, then mailed out.
// The persisted session is not rolled back if the mail dispatch fails.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.users.FindByEmail(ctx, emailAddr)
	if errors.Is(err, repository.ErrNotFound) {
		return notFoundError("User not found")
	}
	if err != nil {
		return internalError("Forgot password failed", err)
	}

	resetOTP, err := randomNumericOTP()
	if err != nil {
		return internalError("Forgot password failed", err)
	}

	user.ResetPasswordToken = resetOTP
	user.ResetPasswordExpires = time.Now().Add(resetOTPTTL)
	user.Token = uuid.NewString()

	if err := s.users.Update(ctx, user); err != nil {
		return internalError("Forgot password failed", err)
	}

	body := fmt.Sprintf(
		"You can use OTP to reset password: <b>%s</b> or use the link to reset password: <b>%s/reset-password/%s</b>",
		resetOTP, s.baseURL, user.Token,
	)
	if err := s.sender.Send(user.Email, "Reset Password", body); err != nil {
		return internalError("Forgot password failed", err)
	}

	return nil
}

// ResetPassword consumes either reset credential. Both paths honor the
// shared expiry, and success clears the whole reset session, so a consumed
// OTP also invalidates the link and vice versa.
func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if req.Password != req.ConfirmPassword {
		return validationError("Passwords do not match")
	}
	if req.Password == "" {
		return validationError("Please provide password")
	}

	var user *entity.User
	switch {
	case req.Token != "":
		found, err := s.users.FindByLinkToken(ctx, req.Token)
		if errors.Is(err, repository.ErrNotFound) {
			return validationError("Invalid token")
		}
		if err != nil {
			return internalError("Failed to reset password", err)
		}
		if time.Now().After(found.ResetPasswordExpires) {
			return validationError("Invalid token")
		}
		user = found
	case req.OTP != "":
		found, err := s.users.FindByResetOTP(ctx, req.OTP)
		if errors.Is(err, repository.ErrNotFound) {
			return validationError("Invalid or expired OTP")
		}
		if err != nil {
			return internalError("Failed to reset password", err)
		}
		if time.Now().After(found.ResetPasswordExpires) {
			return validationError("Invalid or expired OTP")
		}
		user = found
	default:
		return validationError("Please provide OTP or token")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return internalError("Failed to reset password", err)
	}

	user.Password = string(hashed)
	user.ClearResetSession()

	if err := s.users.Update(ctx, user); err != nil {
		return internalError("Failed to reset password", err)
	}

	return nil
}

// VerifyGoogleToken authenticates against the federated identity provider
// and issues the session JWT for the verified email claim. The credential
// store is not consulted; no local account is created or linked.
func (s *AuthService) VerifyGoogleToken(ctx context.Context, rawToken string) (string, error) {
	if rawToken == "" {
		return "", validationError("Please provide token")
	}

	verifiedEmail, err := s.verifier.Verify(ctx, rawToken)
	if errors.Is(err, identity.ErrNoEmailClaim) {
		return "", authenticationError("Email not found in token payload")
	}
	if err != nil {
		return "", authenticationError("Invalid token")
	}

	token, err := s.signSession(verifiedEmail)
	if err != nil {
		return "", internalError("Verification failed", err)
	}
	return token, nil
}

func (s *AuthService) signSession(emailAddr string) (string, error) {
	claims := jwt.MapClaims{
		"email": emailAddr,
		"exp":   time.Now().Add(sessionTTL).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// renderQRCode turns the enrollment URI into a png data URI. Rendering is
// best-effort: a failure is logged and an empty string returned.
func (s *AuthService) renderQRCode(key *otp.Key) string {
	img, err := key.Image(qrImageSize, qrImageSize)
	if err != nil {
		s.logger.Error("failed to render enrollment QR code", "error", err)
		return ""
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		s.logger.Error("failed to encode enrollment QR code", "error", err)
		return ""
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// randomNumericOTP draws a uniform 6-digit code from [100000, 999999].
func randomNumericOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
