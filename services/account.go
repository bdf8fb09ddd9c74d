package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/lib/pq"
	"github.com/meinhoongagan/amigos-app/apperrors"
	"github.com/meinhoongagan/amigos-app/models"
	"github.com/meinhoongagan/amigos-app/storage"
	"github.com/meinhoongagan/amigos-app/utils"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Same message for unknown emails and wrong passwords.
const invalidCredentials = "Invalid email or password"

type TokenConfig struct {
	Secret     string
	TTL        time.Duration
	RefreshTTL time.Duration
}

// AccountService handles registration, login and profile management.
type AccountService struct {
	store    storage.Storage
	tokens   TokenConfig
	uploader utils.AvatarUploader
	now      func() time.Time
}

// NewAccountService wires an AccountService. uploader may be nil, in which
// case avatar uploads fail with an EXTERNAL error.
func NewAccountService(store storage.Storage, tokens TokenConfig, uploader utils.AvatarUploader) *AccountService {
	if tokens.TTL == 0 {
		tokens.TTL = 24 * time.Hour
	}
	if tokens.RefreshTTL == 0 {
		tokens.RefreshTTL = 7 * 24 * time.Hour
	}
	return &AccountService{store: store, tokens: tokens, uploader: uploader, now: time.Now}
}

type RegisterInput struct {
	Email           string   `json:"email"`
	Username        string   `json:"username"`
	Password        string   `json:"password"`
	ConfirmPassword *string  `json:"confirmPassword"`
	Name            string   `json:"name"`
	Bio             *string  `json:"bio"`
	About           *string  `json:"about"`
	Location        *string  `json:"location"`
	Avatar          *string  `json:"avatar"`
	IsAmigo         bool     `json:"isAmigo"`
	Interests       []string `json:"interests"`
	HourlyRate      *int     `json:"hourlyRate"`
}

// LoginResult is the user plus a fresh token pair.
type LoginResult struct {
	models.User
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.ConfirmPassword != nil && *in.ConfirmPassword != in.Password {
		return nil, apperrors.NewValidationError("Validation error",
			apperrors.FieldError{Path: "confirmPassword", Message: "Passwords don't match"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to hash password", err)
	}

	user := &models.User{
		Email:      strings.TrimSpace(in.Email),
		Username:   in.Username,
		Password:   string(hashed),
		Name:       in.Name,
		Bio:        deref(in.Bio),
		About:      deref(in.About),
		Location:   deref(in.Location),
		Avatar:     deref(in.Avatar),
		IsAmigo:    in.IsAmigo,
		Interests:  pq.StringArray(in.Interests),
		HourlyRate: in.HourlyRate,
	}

	created, err := s.store.CreateUser(ctx, user)
	if err != nil {
		return nil, storeError(err, "User not found")
	}

	log.Info().Uint("user_id", created.ID).Bool("is_amigo", created.IsAmigo).Msg("user registered")
	return created, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperrors.NewUnauthorizedError(invalidCredentials)
	}
	if err != nil {
		return nil, storeError(err, invalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.NewUnauthorizedError(invalidCredentials)
	}

	token, err := s.sign(user, tokenTypeAccess, s.tokens.TTL)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to generate token", err)
	}
	refresh, err := s.sign(user, tokenTypeRefresh, s.tokens.RefreshTTL)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to generate refresh token", err)
	}

	return &LoginResult{User: *user, Token: token, RefreshToken: refresh}, nil
}

// Refresh issues a new access token for a valid refresh token.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.tokens.Secret), nil
	})
	if err != nil || !token.Valid {
		return "", apperrors.NewUnauthorizedError("Invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != tokenTypeRefresh {
		return "", apperrors.NewUnauthorizedError("Invalid refresh token")
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return "", apperrors.NewUnauthorizedError("Invalid refresh token")
	}

	user, err := s.store.GetUser(ctx, uint(id))
	if errors.Is(err, storage.ErrNotFound) {
		return "", apperrors.NewUnauthorizedError("Invalid refresh token")
	}
	if err != nil {
		return "", storeError(err, "User not found")
	}

	access, err := s.sign(user, tokenTypeAccess, s.tokens.TTL)
	if err != nil {
		return "", apperrors.NewInternalError("Failed to generate token", err)
	}
	return access, nil
}

func (s *AccountService) sign(user *models.User, typ string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":      user.ID,
		"email":   user.Email,
		"isAmigo": user.IsAmigo,
		"typ":     typ,
		"exp":     s.now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.tokens.Secret))
}

func (s *AccountService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	return user, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, actorID, userID uint, update models.ProfileUpdate) (*models.User, error) {
	if actorID != userID {
		return nil, apperrors.NewForbiddenError("You can only edit your own profile")
	}

	user, err := s.store.UpdateUserProfile(ctx, userID, update)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	return user, nil
}

// UploadAvatar stores file as the user's profile picture.
func (s *AccountService) UploadAvatar(ctx context.Context, actorID, userID uint, file io.Reader) (*models.User, error) {
	if actorID != userID {
		return nil, apperrors.NewForbiddenError("You can only edit your own profile")
	}
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, storeError(err, "User not found")
	}
	if s.uploader == nil {
		return nil, apperrors.NewExternalError("Avatar uploads are not configured", nil)
	}

	publicID := fmt.Sprintf("user_%d_%d", userID, s.now().Unix())
	url, err := s.uploader.UploadAvatar(ctx, file, publicID)
	if err != nil {
		return nil, apperrors.NewExternalError("Failed to upload avatar", err)
	}

	user, err := s.store.UpdateUserProfile(ctx, userID, models.ProfileUpdate{Avatar: &url})
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	return user, nil
}

func (s *AccountService) ListFavorites(ctx context.Context, actorID uint) ([]models.User, error) {
	amigos, err := s.store.GetFavorites(ctx, actorID)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	return amigos, nil
}

func (s *AccountService) AddFavorite(ctx context.Context, actorID, amigoID uint) (*models.Favorite, error) {
	if _, err := s.store.GetAmigoByID(ctx, amigoID); err != nil {
		return nil, storeError(err, "Amigo not found")
	}

	fav, err := s.store.AddFavorite(ctx, actorID, amigoID)
	if err != nil {
		return nil, storeError(err, "Amigo not found")
	}
	return fav, nil
}

func (s *AccountService) RemoveFavorite(ctx context.Context, actorID, amigoID uint) error {
	return storeError(s.store.RemoveFavorite(ctx, actorID, amigoID), "Favorite not found")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
