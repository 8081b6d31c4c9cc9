package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/elwarcha/gallery/internal/config"
	"github.com/elwarcha/gallery/internal/constants"
	"github.com/elwarcha/gallery/internal/identity"
	"github.com/elwarcha/gallery/internal/logger"
	"github.com/elwarcha/gallery/internal/models"
	"github.com/elwarcha/gallery/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultJWTExpireHours = 168

// UserJWTClaims are the claims of a customer or admin token.
type UserJWTClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Name     string `json:"name" validate:"min=2,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6,max=100"`
}

// LoginInput is the sign-in form.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is a signed-in user with its token.
type AuthResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// ProfileInput is the editable part of an account. An empty name clears it.
type ProfileInput struct {
	Name string `json:"name" validate:"omitempty,min=2,max=80"`
}

// ChangePasswordInput replaces the password after checking the current one.
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"min=6,max=100"`
}

var passwordMessages = fieldMessage{
	overrideKey("current_password", "required"): "Mot de passe actuel requis",
	overrideKey("new_password", "min"):          "Mot de passe trop court (min 6 caractères)",
}

var registerMessages = fieldMessage{
	overrideKey("name", "min"):     "Nom trop court (min 2 caractères)",
	overrideKey("email", "email"):  "Email invalide",
	overrideKey("password", "min"): "Mot de passe trop court (min 6 caractères)",
}

// UserAuthService registers and signs in users and resolves request identities.
type UserAuthService struct {
	cfg      config.JWTConfig
	userRepo repository.UserRepository
	retry    models.RetryPolicy
	now      func() time.Time
}

// NewUserAuthService creates the auth service.
func NewUserAuthService(cfg config.JWTConfig, userRepo repository.UserRepository, retry models.RetryPolicy) *UserAuthService {
	return &UserAuthService{cfg: cfg, userRepo: userRepo, retry: retry, now: time.Now}
}

// Register creates a CUSTOMER account and signs it in.
func (s *UserAuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if fields := validateStruct(input, registerMessages); fields != nil {
		return nil, newValidationError(fields)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: string(hash),
		Role:         constants.RoleCustomer,
	}
	err = s.retry.Do(ctx, func() error {
		existing, err := s.userRepo.GetByEmail(input.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrEmailExists
		}
		return s.userRepo.Create(user)
	})
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Login checks credentials and returns a fresh token.
func (s *UserAuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}
	var user *models.User
	err := s.retry.Do(ctx, func() error {
		var err error
		user, err = s.userRepo.GetByEmail(email)
		return err
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Me returns the account of userID.
func (s *UserAuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	var user *models.User
	err := s.retry.Do(ctx, func() error {
		var err error
		user, err = s.userRepo.GetByID(userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile changes the display name of userID.
func (s *UserAuthService) UpdateProfile(ctx context.Context, userID uint, input ProfileInput) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	if fields := validateStruct(input, registerMessages); fields != nil {
		return nil, newValidationError(fields)
	}
	var user *models.User
	err := s.retry.Do(ctx, func() error {
		found, err := s.userRepo.GetByID(userID)
		if err != nil {
			return err
		}
		if found == nil {
			return ErrUserNotFound
		}
		found.Name = input.Name
		if err := s.userRepo.Update(found); err != nil {
			return err
		}
		user = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword sets a new password once the current one matches.
func (s *UserAuthService) ChangePassword(ctx context.Context, userID uint, input ChangePasswordInput) error {
	if fields := validateStruct(input, passwordMessages); fields != nil {
		return newValidationError(fields)
	}
	var user *models.User
	err := s.retry.Do(ctx, func() error {
		var err error
		user, err = s.userRepo.GetByID(userID)
		return err
	})
	if err != nil {
		return err
	}
	if user == nil || user.PasswordHash == "" {
		return ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	if err := s.retry.Do(ctx, func() error { return s.userRepo.Update(user) }); err != nil {
		return err
	}
	logger.Infow("user_password_changed", "user_id", userID)
	return nil
}

func (s *UserAuthService) issue(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// GenerateUserJWT signs an HS256 token for user.
func (s *UserAuthService) GenerateUserJWT(user *models.User) (string, time.Time, error) {
	hours := s.cfg.ExpireHours
	if hours <= 0 {
		hours = defaultJWTExpireHours
	}
	now := s.now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)
	claims := UserJWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseUserJWT verifies a token and returns its claims.
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.SecretKey), nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Identify reads a bearer token from the request. No header means anonymous.
func (s *UserAuthService) Identify(c *gin.Context) (*identity.Identity, error) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return nil, nil
	}
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return nil, ErrInvalidToken
	}
	claims, err := s.ParseUserJWT(strings.TrimSpace(header[len(prefix):]))
	if err != nil {
		return nil, err
	}
	return &identity.Identity{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}
