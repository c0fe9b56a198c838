package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// ErrInvalidCredentials is the single failure returned by Login. Unknown user
// and wrong password are deliberately indistinguishable in the response.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService verifies login credentials against the fixed account set.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type authService struct {
	accounts *AccountStore
	logger   *zap.Logger
}

func NewAuthService(accounts *AccountStore, logger *zap.Logger) AuthService {
	return &authService{
		accounts: accounts,
		logger:   logger,
	}
}

// LoginRequest login parameters plus client info for the audit log.
type LoginRequest struct {
	Username  string
	Password  string
	IPAddress string
	UserAgent string
}

// LoginResponse successful login payload. Role is the account's primary role.
type LoginResponse struct {
	Success  bool   `json:"success"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

func (s *authService) Login(_ context.Context, req LoginRequest) (*LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		s.logger.Warn("Login failed: missing credentials",
			zap.String("ip_address", req.IPAddress),
			zap.String("user_agent", req.UserAgent),
		)
		return nil, ErrInvalidCredentials
	}

	account, ok := s.accounts.Authenticate(username, req.Password)
	if !ok {
		// Log carries the username for the audit trail; the returned error
		// stays generic either way.
		s.logger.Warn("Login failed: bad credentials",
			zap.String("username", username),
			zap.String("ip_address", req.IPAddress),
			zap.String("user_agent", req.UserAgent),
		)
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("User logged in",
		zap.String("username", account.Username),
		zap.String("role", string(account.PrimaryRole())),
		zap.String("ip_address", req.IPAddress),
	)

	return &LoginResponse{
		Success:  true,
		Username: account.Username,
		FullName: account.FullName,
		Role:     string(account.PrimaryRole()),
	}, nil
}
