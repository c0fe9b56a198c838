package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"stark-security/internal/service"
)

// AuthHandler login endpoint.
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies credentials and returns the account's display data. All
// failures get the same generic 401 body.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	resp, err := h.authService.Login(r.Context(), service.LoginRequest{
		Username:  body.Username,
		Password:  body.Password,
		IPAddress: getClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
