package domain

// Role is a coarse access level attached to an account.
type Role string

const (
	RoleAdmin           Role = "ADMIN"
	RoleSecurityOfficer Role = "SECURITY_OFFICER"
	RoleViewer          Role = "VIEWER"
)

// Account is a fixed identity provisioned at startup. Accounts live only in
// memory and are immutable for the process lifetime.
type Account struct {
	Username     string
	PasswordHash []byte
	FullName     string
	Roles        []Role
}

// HasRole reports whether the account carries any of the given roles.
func (a *Account) HasRole(roles ...Role) bool {
	for _, want := range roles {
		for _, have := range a.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// PrimaryRole returns the first (highest) role of the account.
func (a *Account) PrimaryRole() Role {
	if len(a.Roles) == 0 {
		return ""
	}
	return a.Roles[0]
}
