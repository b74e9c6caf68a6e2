package service

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "dentalave/pkg/errors"
	"dentalave/pkg/logger"
	"dentalave/pkg/model"
)

const adminRole = "admin"

type Config struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
}

// Service issues and verifies admin bearer tokens.
type Service struct {
	secret        []byte
	tokenTTL      time.Duration
	adminEmail    string
	adminPassword string
	log           *logger.Logger
	now           func() time.Time
}

func New(cfg Config, log *logger.Logger) *Service {
	return &Service{
		secret:        []byte(cfg.JWTSecret),
		tokenTTL:      cfg.TokenTTL,
		adminEmail:    cfg.AdminEmail,
		adminPassword: cfg.AdminPassword,
		log:           log,
		now:           time.Now,
	}
}

// Login checks the submitted credentials and returns a signed token with
// its lifetime in whole seconds.
func (s *Service) Login(req model.LoginRequest) (*model.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperrors.InvalidInput("Email and password are required")
	}

	if !s.credentialsMatch(req.Email, req.Password) {
		s.log.Warn("Login rejected", "email", req.Email)
		return nil, apperrors.Unauthorized("Invalid credentials")
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.tokenTTL)

	claims := jwt.MapClaims{
		"sub":  req.Email,
		"role": adminRole,
		"iat":  issuedAt.Unix(),
		"exp":  expiresAt.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, apperrors.Internal("Failed to sign token", err)
	}

	s.log.Info("Admin login succeeded", "email", req.Email, "expires_at", expiresAt)

	return &model.LoginResponse{
		Token:     token,
		ExpiresIn: int(s.tokenTTL.Seconds()),
	}, nil
}

// credentialsMatch supports both bcrypt hashes and plaintext secrets in the
// configured admin password. Plaintext comparison is constant-time.
func (s *Service) credentialsMatch(email, password string) bool {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) == 1

	var passOK bool
	if strings.HasPrefix(s.adminPassword, "$2") {
		passOK = bcrypt.CompareHashAndPassword([]byte(s.adminPassword), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1
	}

	return emailOK && passOK
}

// Verify parses a bearer token and returns its identity when the token is
// well-formed, unexpired, HMAC-signed with our secret, and carries the
// admin role.
func (s *Service) Verify(tokenString string) (*model.AdminToken, error) {
	claims := jwt.MapClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthorized("Invalid or expired token")
	}

	role, _ := claims["role"].(string)
	if role != adminRole {
		return nil, apperrors.Unauthorized("Insufficient privileges")
	}

	subject, _ := claims["sub"].(string)

	admin := &model.AdminToken{
		Subject: subject,
		Role:    role,
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		admin.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		admin.ExpiresAt = exp.Time
	}

	return admin, nil
}
