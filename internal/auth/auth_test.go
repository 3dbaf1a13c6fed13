package auth

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"krenke/internal/model"
	"krenke/internal/repository"
)

func TestMain(m *testing.M) {
	hashCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]model.User
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[strings.ToLower(email)]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) Create(_ context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return repository.ErrConflict
	}
	m.users[u.Email] = u
	return nil
}

type memSessions struct {
	mu  sync.Mutex
	ids map[string]string
}

func (m *memSessions) Register(_ context.Context, tokenID, userID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[tokenID] = userID
	return nil
}

func (m *memSessions) Exists(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.ids[tokenID]
	return ok, nil
}

func (m *memSessions) Revoke(_ context.Context, tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ids, tokenID)
	return nil
}

const secret = "0123456789abcdef0123456789abcdef"

func newService() (*Service, *memSessions) {
	sessions := &memSessions{ids: map[string]string{}}
	users := &memUsers{users: map[string]model.User{}}
	return NewService(users, sessions, secret, time.Hour, "admin@krenke.com.br"), sessions
}

func TestSignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	svc, sessions := newService()

	u, err := svc.SignUp(ctx, " Vendas@Krenke.com.br ", "segredo1")
	require.NoError(t, err)
	assert.Equal(t, "vendas@krenke.com.br", u.Email)
	assert.NotEqual(t, "segredo1", u.PasswordHash)

	token, id, err := svc.SignIn(ctx, "vendas@krenke.com.br", "segredo1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, model.RoleRestricted, id.Role)
	assert.False(t, id.IsSuper())
	assert.Contains(t, sessions.ids, id.TokenID)

	got, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.UserID)
	assert.Equal(t, id.TokenID, got.TokenID)
}

func TestSignUpRejects(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	_, err := svc.SignUp(ctx, "a@b.com", "12345")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.SignUp(ctx, "sem-arroba", "123456")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.SignUp(ctx, "a@b.com", "123456")
	require.NoError(t, err)
	_, err = svc.SignUp(ctx, "A@B.com", "123456")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignInWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	_, err := svc.SignUp(ctx, "a@b.com", "123456")
	require.NoError(t, err)

	_, _, err = svc.SignIn(ctx, "a@b.com", "654321")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.SignIn(ctx, "ninguem@b.com", "123456")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSuperRole(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	_, err := svc.SignUp(ctx, "Admin@Krenke.com.br", "123456")
	require.NoError(t, err)

	token, id, err := svc.SignIn(ctx, "admin@krenke.com.br", "123456")
	require.NoError(t, err)
	assert.True(t, id.IsSuper())

	got, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleSuper, got.Role)
}

func TestSignOutRevokes(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	_, err := svc.SignUp(ctx, "a@b.com", "123456")
	require.NoError(t, err)
	token, _, err := svc.SignIn(ctx, "a@b.com", "123456")
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, token))
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrSessionRevoked)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	_, err := svc.SignUp(ctx, "a@b.com", "123456")
	require.NoError(t, err)
	token, _, err := svc.SignIn(ctx, "a@b.com", "123456")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "lixo")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewService(svc.Users, svc.Sessions, strings.Repeat("x", 32), time.Hour, "")
	_, err = other.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	svc.Now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticateRejectsNoneAlgorithm(t *testing.T) {
	svc, _ := newService()
	claims := Claims{Email: "a@b.com", RegisteredClaims: jwt.RegisteredClaims{ID: "x", Subject: "y"}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRoleFor(t *testing.T) {
	svc, _ := newService()
	assert.Equal(t, model.RoleSuper, svc.RoleFor("ADMIN@krenke.com.br"))
	assert.Equal(t, model.RoleRestricted, svc.RoleFor("outro@krenke.com.br"))

	svc.SuperAdminEmail = ""
	assert.Equal(t, model.RoleRestricted, svc.RoleFor(""))
}
