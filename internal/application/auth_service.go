package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/user"
)

// AuthService はユーザー登録とログインを担うサービス
type AuthService struct {
	userRepo  user.Repository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(userRepo user.Repository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{userRepo: userRepo, jwtSecret: []byte(jwtSecret), tokenTTL: tokenTTL}
}

// Register は新しいユーザーを登録する（ユーザー名重複は不可）
func (s *AuthService) Register(ctx context.Context, username, password string) (*user.User, error) {
	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return nil, fmt.Errorf("ユーザー名重複チェックに失敗: %w", err)
	}
	if existing != nil {
		return nil, user.ErrUsernameTaken
	}

	u, err := user.NewUser(username, password, user.RoleUser)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("ユーザー作成に失敗: %w", err)
	}
	return u, nil
}

// Login は認証に成功した場合、署名済みJWTとユーザーを返す
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *user.User, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", nil, user.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("ユーザー取得に失敗: %w", err)
	}

	ok, err := u.Authenticate(password)
	if err != nil {
		return "", nil, fmt.Errorf("認証に失敗: %w", err)
	}
	if !ok {
		return "", nil, user.ErrInvalidCredentials
	}

	token, err := s.issueToken(u)
	if err != nil {
		return "", nil, fmt.Errorf("トークン発行に失敗: %w", err)
	}
	return token, u, nil
}

// issueToken はHS256で署名したアクセストークンを発行する
func (s *AuthService) issueToken(u *user.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      u.ID,
		"username": u.Username,
		"role":     string(u.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
