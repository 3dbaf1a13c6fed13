package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"krenke/internal/model"
	"krenke/internal/repository"
)

const MinPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrSessionRevoked     = errors.New("session revoked")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = fmt.Errorf("password must have at least %d characters", MinPasswordLength)
	ErrInvalidEmail       = errors.New("invalid email")
)

// hashCost é reduzido nos testes.
var hashCost = bcrypt.DefaultCost

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
	Create(ctx context.Context, u model.User) error
}

type SessionStore interface {
	Register(ctx context.Context, tokenID, userID string, ttl time.Duration) error
	Exists(ctx context.Context, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenID string) error
}

type Claims struct {
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity é o usuário autenticado de uma requisição.
type Identity struct {
	UserID    string
	Email     string
	Role      model.Role
	TokenID   string
	ExpiresAt time.Time
}

func (i Identity) IsSuper() bool {
	return i.Role == model.RoleSuper
}

type Service struct {
	Users           UserStore
	Sessions        SessionStore
	Secret          []byte
	TTL             time.Duration
	SuperAdminEmail string
	Now             func() time.Time
}

func NewService(users UserStore, sessions SessionStore, secret string, ttl time.Duration, superAdminEmail string) *Service {
	return &Service{
		Users:           users,
		Sessions:        sessions,
		Secret:          []byte(secret),
		TTL:             ttl,
		SuperAdminEmail: superAdminEmail,
		Now:             time.Now,
	}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// RoleFor: só o e-mail do super administrador recebe acesso total.
func (s *Service) RoleFor(email string) model.Role {
	if s.SuperAdminEmail != "" && strings.EqualFold(strings.TrimSpace(email), s.SuperAdminEmail) {
		return model.RoleSuper
	}
	return model.RoleRestricted
}

func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrWeakPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) SignUp(ctx context.Context, email, password string) (model.User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return model.User{}, ErrInvalidEmail
	}
	hash, err := HashPassword(password)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, err
	}
	return u, nil
}

// SignIn confere a senha e emite um token registrado no SessionStore.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, Identity, error) {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return "", Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", Identity{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", Identity{}, ErrInvalidCredentials
	}

	now := s.now()
	id := Identity{
		UserID:    u.ID,
		Email:     u.Email,
		Role:      s.RoleFor(u.Email),
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(s.TTL),
	}
	claims := Claims{
		Email: id.Email,
		Role:  id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id.TokenID,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(id.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", Identity{}, fmt.Errorf("sign token: %w", err)
	}
	if err := s.Sessions.Register(ctx, id.TokenID, id.UserID, s.TTL); err != nil {
		return "", Identity{}, fmt.Errorf("register session: %w", err)
	}
	return token, id, nil
}

func (s *Service) parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authenticate exige assinatura válida, token não expirado e sessão ainda registrada.
func (s *Service) Authenticate(ctx context.Context, token string) (Identity, error) {
	claims, err := s.parse(token)
	if err != nil {
		return Identity{}, err
	}
	ok, err := s.Sessions.Exists(ctx, claims.ID)
	if err != nil {
		return Identity{}, fmt.Errorf("check session: %w", err)
	}
	if !ok {
		return Identity{}, ErrSessionRevoked
	}
	id := Identity{
		UserID:  claims.Subject,
		Email:   claims.Email,
		Role:    s.RoleFor(claims.Email),
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	return s.Sessions.Revoke(ctx, claims.ID)
}
