package auth

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrBadCredentials  = errors.New("invalid email or password")
	ErrInactiveAccount = errors.New("account is deactivated")
)

type Role string

const (
	RoleMaker  Role = "maker"
	RoleSipper Role = "sipper"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMaker, RoleSipper, RoleAdmin:
		return true
	}
	return false
}

// Principal is the authenticated actor behind a request. Role and profile
// ids are re-read from the store on every request, never cached in the
// session itself.
type Principal struct {
	UserID      string
	Role        Role
	DisplayName string
	// MakerID / SipperID are set only when the corresponding profile exists.
	MakerID  string
	SipperID string
}

func (p Principal) IsMaker() bool  { return p.Role == RoleMaker && p.MakerID != "" }
func (p Principal) IsSipper() bool { return p.Role == RoleSipper && p.SipperID != "" }
func (p Principal) IsAdmin() bool  { return p.Role == RoleAdmin }
