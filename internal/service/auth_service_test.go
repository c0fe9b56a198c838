package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stark-security/internal/domain"
)

func seededAccounts(t *testing.T) *AccountStore {
	t.Helper()
	store := NewAccountStore()
	require.NoError(t, SeedDefaultAccounts(store))
	return store
}

func TestLogin_Success(t *testing.T) {
	svc := NewAuthService(seededAccounts(t), zap.NewNop())

	tests := []struct {
		username string
		password string
		fullName string
		role     string
	}{
		{"tony.stark", "jarvis123", "Tony Stark", "ADMIN"},
		{"pepper.potts", "stark123", "Pepper Potts", "SECURITY_OFFICER"},
		{"happy.hogan", "driver123", "Happy Hogan", "VIEWER"},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			resp, err := svc.Login(context.Background(), LoginRequest{
				Username: tt.username,
				Password: tt.password,
			})
			require.NoError(t, err)
			assert.True(t, resp.Success)
			assert.Equal(t, tt.username, resp.Username)
			assert.Equal(t, tt.fullName, resp.FullName)
			assert.Equal(t, tt.role, resp.Role)
		})
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	svc := NewAuthService(seededAccounts(t), zap.NewNop())

	wrongPassword, errWrong := svc.Login(context.Background(), LoginRequest{
		Username: "tony.stark",
		Password: "wrong",
	})
	unknownUser, errUnknown := svc.Login(context.Background(), LoginRequest{
		Username: "loki",
		Password: "jarvis123",
	})

	assert.Nil(t, wrongPassword)
	assert.Nil(t, unknownUser)
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.Equal(t, errWrong.Error(), errUnknown.Error())
}

func TestLogin_MissingCredentials(t *testing.T) {
	svc := NewAuthService(seededAccounts(t), zap.NewNop())

	for _, req := range []LoginRequest{
		{Username: "", Password: "jarvis123"},
		{Username: "tony.stark", Password: ""},
		{Username: "   ", Password: "jarvis123"},
	} {
		resp, err := svc.Login(context.Background(), req)
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
}

func TestAccountStore_Authenticate(t *testing.T) {
	store := seededAccounts(t)

	account, ok := store.Authenticate("tony.stark", "jarvis123")
	require.True(t, ok)
	assert.True(t, account.HasRole(domain.RoleAdmin))
	assert.True(t, account.HasRole(domain.RoleSecurityOfficer))
	assert.False(t, account.HasRole(domain.RoleViewer))

	_, ok = store.Authenticate("tony.stark", "JARVIS123")
	assert.False(t, ok)

	assert.Nil(t, store.FindByUsername("loki"))
}
