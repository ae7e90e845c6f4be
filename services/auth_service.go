package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"go-farmlink/models"
	"go-farmlink/utils"
)

// Claims JWT 声明
type Claims struct {
	UserID string `json:"userID"`
	jwt.RegisteredClaims
}

// RegisterInput 注册表单
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// AuthService 注册、登录与令牌校验
type AuthService struct {
	profiles ProfileRepository
	secret   []byte
	ttl      time.Duration

	now   func() time.Time
	newID func() (string, error)
}

// NewAuthService 创建一个新的AuthService实例
func NewAuthService(profiles ProfileRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		profiles: profiles,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
		newID:    utils.NewID,
	}
}

// Register 创建资料并签发令牌。角色只在此处确定
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.Profile, string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" {
		return nil, "", models.Invalid("name", "is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, "", models.Invalid("email", "is not a valid address")
	}
	if len(in.Password) < 6 {
		return nil, "", models.Invalid("password", "must be at least 6 characters")
	}
	if !in.Role.Valid() {
		return nil, "", models.Invalid("role", "must be farmer or buyer")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	id, err := s.newID()
	if err != nil {
		return nil, "", fmt.Errorf("generate profile id: %w", err)
	}
	profile := &models.Profile{
		ID:           id,
		Name:         in.Name,
		Email:        in.Email,
		Role:         in.Role,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, "", models.Invalid("email", "is already registered")
		}
		return nil, "", fmt.Errorf("insert profile: %w", err)
	}

	token, err := s.IssueToken(profile.ID)
	if err != nil {
		return nil, "", err
	}
	return profile, token, nil
}

// Login 校验密码并签发令牌
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Profile, string, error) {
	profile, err := s.profiles.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, models.ErrNotFound) {
		return nil, "", models.ErrUnauthorized
	}
	if err != nil {
		return nil, "", fmt.Errorf("load profile: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, "", models.ErrUnauthorized
	}

	token, err := s.IssueToken(profile.ID)
	if err != nil {
		return nil, "", err
	}
	return profile, token, nil
}

// IssueToken 签发 HS256 令牌
func (s *AuthService) IssueToken(userID string) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ParseToken 校验令牌并返回用户标识
func (s *AuthService) ParseToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return "", models.ErrUnauthorized
	}
	return claims.UserID, nil
}

// Session 按用户标识加载资料生成会话，角色以存储中的资料为准
func (s *AuthService) Session(ctx context.Context, userID string) (models.Session, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return models.Session{}, models.ErrUnauthorized
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("load session profile: %w", err)
	}
	return models.NewSession(profile), nil
}
