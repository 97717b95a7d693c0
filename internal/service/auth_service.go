package service

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/formdesk-api/internal/models"
	appErrors "github.com/noah-isme/formdesk-api/pkg/errors"
	"github.com/noah-isme/formdesk-api/pkg/token"
)

// unknownUserPassword is compared against when the username is unknown so both failure paths
// do a comparison.
const unknownUserPassword = "\x00unknown-admin\x00"

// AuthService checks dashboard credentials against the static admin table and verifies tokens.
type AuthService struct {
	admins    map[string]models.AdminCredential
	codec     token.Codec
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
}

// NewAuthService constructs an AuthService instance. Usernames are case sensitive.
func NewAuthService(admins []models.AdminCredential, codec token.Codec, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	table := make(map[string]models.AdminCredential, len(admins))
	for _, a := range admins {
		table[a.Username] = a
	}
	return &AuthService{admins: table, codec: codec, validator: validate, logger: logger, metrics: metrics}
}

// Login authenticates an admin and returns an issued token. Unknown usernames and wrong
// passwords produce the same error.
func (s *AuthService) Login(req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Username and password are required")
	}

	admin, known := s.admins[req.Username]
	stored := unknownUserPassword
	if known {
		stored = admin.Password
	}
	if !passwordMatches(stored, req.Password) || !known {
		s.metrics.RecordLogin(false)
		s.logger.Warn("admin login rejected", zap.String("username", req.Username), zap.String("ip", req.IP))
		return nil, appErrors.ErrInvalidCredentials
	}

	issued, _, err := s.codec.Issue(models.AdminClaims{
		UserID:   admin.ID,
		Username: admin.Username,
		Role:     admin.Role,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	s.metrics.RecordLogin(true)
	s.logger.Info("admin login", zap.String("admin_id", admin.ID), zap.String("username", admin.Username), zap.String("ip", req.IP))

	return &models.LoginResponse{
		Message: "Login successful",
		Token:   issued,
		User:    admin.Info(),
	}, nil
}

// ValidateToken verifies the bearer token and returns its claims. Identity is trusted as
// issued; the credential table is not consulted again.
func (s *AuthService) ValidateToken(raw string) (*models.AdminClaims, error) {
	claims, err := s.codec.Verify(raw)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			s.logger.Debug("expired admin token presented")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidToken.Code, appErrors.ErrInvalidToken.Status, appErrors.ErrInvalidToken.Message)
	}
	return claims, nil
}

// Logout only records the event; tokens stay valid until they expire.
func (s *AuthService) Logout(claims *models.AdminClaims) {
	if claims == nil {
		return
	}
	s.logger.Info("admin logout", zap.String("admin_id", claims.UserID), zap.String("username", claims.Username))
}

func passwordMatches(stored, given string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}
