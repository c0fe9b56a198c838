package httpapi

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"stark-security/internal/domain"
	"stark-security/internal/service"
)

// accessRule is one row of the route authorization table. Exactly one of
// exact/prefix/suffix is set; empty roles on a non-public rule means any
// authenticated identity is enough.
type accessRule struct {
	exact  string
	prefix string
	suffix string
	public bool
	roles  []domain.Role
}

// accessRules is evaluated top to bottom, first match wins. Kept as a
// visible data structure rather than checks scattered across handlers.
var accessRules = []accessRule{
	{prefix: "/api/auth/", public: true},
	{exact: "/", public: true},
	{exact: "/index.html", public: true},
	{exact: "/favicon.ico", public: true},
	{suffix: ".css", public: true},
	{suffix: ".js", public: true},

	{prefix: "/debug/pprof/", roles: []domain.Role{domain.RoleAdmin}},
	{prefix: "/api/sensors", roles: []domain.Role{domain.RoleAdmin, domain.RoleSecurityOfficer}},
	{prefix: "/api/events", roles: []domain.Role{domain.RoleAdmin, domain.RoleSecurityOfficer, domain.RoleViewer}},

	// Everything else needs some authenticated identity, any role.
	{prefix: "/"},
}

func (r accessRule) matches(path string) bool {
	switch {
	case r.exact != "":
		return path == r.exact
	case r.prefix != "":
		return strings.HasPrefix(path, r.prefix)
	case r.suffix != "":
		return strings.HasSuffix(path, r.suffix)
	}
	return false
}

// ruleFor returns the first matching rule. The catch-all prefix "/" rule
// guarantees a match.
func ruleFor(path string) accessRule {
	for _, rule := range accessRules {
		if rule.matches(path) {
			return rule
		}
	}
	return accessRule{}
}

// identity is the per-request authenticated principal. No session state is
// kept; every request re-establishes it.
type identity struct {
	username string
	roles    []domain.Role
}

func (id identity) hasAnyRole(roles []domain.Role) bool {
	for _, want := range roles {
		for _, have := range id.roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// AuthMiddleware enforces the access-rule table. Identity comes from Basic
// credentials verified against the account store, or, when devMode is on,
// from the trusted X-User/X-Role headers (identity assertion without
// credential verification - a lab shortcut, unreachable by default).
type AuthMiddleware struct {
	accounts *service.AccountStore
	devMode  bool
	logger   *zap.Logger
}

func NewAuthMiddleware(accounts *service.AccountStore, devMode bool, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		accounts: accounts,
		devMode:  devMode,
		logger:   logger,
	}
}

func (m *AuthMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rule := ruleFor(r.URL.Path)
		if rule.public {
			next.ServeHTTP(w, r)
			return
		}

		id, ok := m.identify(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		if len(rule.roles) > 0 && !id.hasAnyRole(rule.roles) {
			m.logger.Warn("Access denied",
				zap.String("username", id.username),
				zap.String("path", r.URL.Path),
			)
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) identify(r *http.Request) (identity, bool) {
	if m.devMode {
		if username := r.Header.Get("X-User"); username != "" {
			role := r.Header.Get("X-Role")
			if role == "" {
				return identity{}, false
			}
			return identity{
				username: username,
				roles:    []domain.Role{domain.Role(role)},
			}, true
		}
	}

	username, password, ok := r.BasicAuth()
	if !ok {
		return identity{}, false
	}
	account, ok := m.accounts.Authenticate(username, password)
	if !ok {
		return identity{}, false
	}
	return identity{
		username: account.Username,
		roles:    account.Roles,
	}, true
}

// CORSMiddleware permissive CORS, matching the original surface.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware one structured line per request.
func LoggingMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
