package service

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"stark-security/internal/domain"
)

// AccountStore is the in-memory account DB. Accounts are provisioned once at
// startup and immutable afterwards; passwords are stored as bcrypt hashes.
type AccountStore struct {
	mu         sync.RWMutex
	byUsername map[string]*domain.Account
}

func NewAccountStore() *AccountStore {
	return &AccountStore{
		byUsername: map[string]*domain.Account{},
	}
}

// UpsertAccount hashes the password and stores the account.
func (s *AccountStore) UpsertAccount(username, fullName, password string, roles ...domain.Role) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byUsername[username] = &domain.Account{
		Username:     username,
		PasswordHash: hash,
		FullName:     fullName,
		Roles:        roles,
	}
	return nil
}

// FindByUsername returns the account or nil.
func (s *AccountStore) FindByUsername(username string) *domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byUsername[username]
}

// Authenticate verifies a username/password pair. The boolean result carries
// no distinction between an unknown user and a wrong password.
func (s *AccountStore) Authenticate(username, password string) (*domain.Account, bool) {
	account := s.FindByUsername(username)
	if account == nil {
		return nil, false
	}
	if bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)) != nil {
		return nil, false
	}
	return account, true
}

// SeedDefaultAccounts provisions the three fixed lab accounts.
func SeedDefaultAccounts(store *AccountStore) error {
	if err := store.UpsertAccount("tony.stark", "Tony Stark", "jarvis123",
		domain.RoleAdmin, domain.RoleSecurityOfficer); err != nil {
		return err
	}
	if err := store.UpsertAccount("pepper.potts", "Pepper Potts", "stark123",
		domain.RoleSecurityOfficer); err != nil {
		return err
	}
	if err := store.UpsertAccount("happy.hogan", "Happy Hogan", "driver123",
		domain.RoleViewer); err != nil {
		return err
	}
	return nil
}
