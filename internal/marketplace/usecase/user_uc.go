package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/bazarly/backend/internal/marketplace/domain"
	"github.com/bazarly/backend/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
)

// TokenTTL bounds a session. The JWT expiry and the stored-token TTL both
// derive from it so the two cannot drift.
const TokenTTL = 24 * time.Hour

// TokenStore tracks the currently valid token per user so logout works
// before expiry.
type TokenStore interface {
	Save(ctx context.Context, userID, token string) error
	IsCurrent(ctx context.Context, userID, token string) (bool, error)
	Invalidate(ctx context.Context, userID string) error
}

type UserUsecase struct {
	repo      domain.UserRepository
	tokens    TokenStore
	jwtSecret string
	logger    *logger.Logger
}

func NewUserUsecase(repo domain.UserRepository, tokens TokenStore, jwtSecret string, log *logger.Logger) *UserUsecase {
	return &UserUsecase{
		repo:      repo,
		tokens:    tokens,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

type authClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func (uc *UserUsecase) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:      username,
		Email:         email,
		PasswordHash:  string(hash),
		Role:          "customer",
		ViewedHistory: []string{},
		SharedHistory: []string{},
		IsActive:      true,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		uc.logger.Error("UserUsecase.Register: failed to create user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (uc *UserUsecase) Login(ctx context.Context, email, password string) (string, error) {
	user, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !user.IsActive {
		return "", ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := authClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.jwtSecret))
	if err != nil {
		return "", err
	}
	if err := uc.tokens.Save(ctx, user.ID, token); err != nil {
		uc.logger.Warn("UserUsecase.Login: failed to store token", zap.String("user_id", user.ID), zap.Error(err))
	}
	return token, nil
}

func (uc *UserUsecase) Logout(ctx context.Context, userID string) error {
	return uc.tokens.Invalidate(ctx, userID)
}

func (uc *UserUsecase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := uc.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUnauthorized
	}
	return user, nil
}

func (uc *UserUsecase) UpdateProfile(ctx context.Context, userID, username, email string) error {
	user, err := uc.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return ErrUnauthorized
	}

	if username != "" {
		user.Username = username
	}
	if email != "" {
		user.Email = email
	}
	return uc.repo.Update(ctx, user)
}

// Deactivate marks the account inactive and revokes its current token.
// An inactive account cannot log in or read its profile until reactivated
// out of band.
func (uc *UserUsecase) Deactivate(ctx context.Context, userID string) error {
	user, err := uc.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	user.IsActive = false
	if err := uc.repo.Update(ctx, user); err != nil {
		uc.logger.Error("UserUsecase.Deactivate: failed to update user", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	if err := uc.tokens.Invalidate(ctx, userID); err != nil {
		uc.logger.Warn("UserUsecase.Deactivate: failed to invalidate token", zap.String("user_id", userID), zap.Error(err))
	}
	return nil
}

func (uc *UserUsecase) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := uc.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return uc.repo.Update(ctx, user)
}
