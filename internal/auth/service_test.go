package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nfticket/internal/principals"
	"nfticket/internal/shared/config"
)

// memoryRepository is an in-memory Repository for service tests.
type memoryRepository struct {
	byID    map[string]*principals.Principal
	byEmail map[string]*principals.Principal
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		byID:    make(map[string]*principals.Principal),
		byEmail: make(map[string]*principals.Principal),
	}
}

func (r *memoryRepository) CreatePrincipal(ctx context.Context, p *principals.Principal) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.byID[p.ID.String()] = p
	r.byEmail[p.Email] = p
	return nil
}

func (r *memoryRepository) GetPrincipalByEmail(ctx context.Context, email string) (*principals.Principal, error) {
	p, ok := r.byEmail[email]
	if !ok {
		return nil, ErrPrincipalNotFound
	}
	return p, nil
}

func (r *memoryRepository) GetPrincipalByID(ctx context.Context, id string) (*principals.Principal, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, ErrPrincipalNotFound
	}
	return p, nil
}

func (r *memoryRepository) UpdatePrincipalPassword(ctx context.Context, principalID string, hashedPassword string) error {
	p, ok := r.byID[principalID]
	if !ok {
		return ErrPrincipalNotFound
	}
	p.Password = hashedPassword
	return nil
}

func (r *memoryRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

func newTestService() (Service, *memoryRepository) {
	repo := newMemoryRepository()
	cfg := config.Load()
	return NewService(repo, cfg), repo
}

func registerRequest() *RegisterRequest {
	return &RegisterRequest{
		FirstName:     "Ada",
		LastName:      "Laine",
		Email:         "ada@example.com",
		Password:      "hunter22",
		WalletAccount: "0.0.4242",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	resp, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", resp.Principal.Email)
	assert.Equal(t, "0.0.4242", resp.Principal.WalletAccount)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	// Tokens carry the principal identity and wallet.
	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.Principal.ID, claims.PrincipalID)
	assert.Equal(t, "0.0.4242", claims.WalletAccount)
	assert.Equal(t, "access", claims.Type)

	// Duplicate email rejected.
	_, err = svc.Register(ctx, registerRequest())
	assert.ErrorIs(t, err, ErrPrincipalAlreadyExists)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, &LoginRequest{Email: "ada@example.com", Password: "hunter22"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{Email: "ada@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "hunter22"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefreshToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	resp, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	t.Run("refresh token yields a new pair", func(t *testing.T) {
		pair, err := svc.RefreshToken(ctx, resp.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := svc.RefreshToken(ctx, resp.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := svc.RefreshToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	resp, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, resp.Principal.ID, &ChangePasswordRequest{
			CurrentPassword: "wrong",
			NewPassword:     "newpassword",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("changes and old password stops working", func(t *testing.T) {
		err := svc.ChangePassword(ctx, resp.Principal.ID, &ChangePasswordRequest{
			CurrentPassword: "hunter22",
			NewPassword:     "newpassword",
		})
		require.NoError(t, err)

		_, err = svc.Login(ctx, &LoginRequest{Email: "ada@example.com", Password: "hunter22"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = svc.Login(ctx, &LoginRequest{Email: "ada@example.com", Password: "newpassword"})
		assert.NoError(t, err)
	})
}
