package tenant

import (
	"database/sql/driver"
	"fmt"
)

// Role is the closed set of user roles. The zero value is not a valid role.
type Role uint8

const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleProjectManager
	RoleTeamMember
)

var roleNames = map[Role]string{
	RoleAdmin:          "Admin",
	RoleProjectManager: "Project Manager",
	RoleTeamMember:     "Team Member",
}

// ParseRole accepts the stored role names ("Admin", "Project Manager", "Team Member").
func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "Unknown"
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", r)
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value stores the role by name so the column stays readable.
func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", r)
	}
	return r.String(), nil
}

func (r *Role) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	case nil:
		*r = RoleUnknown
		return nil
	default:
		return fmt.Errorf("Role: expected string, got %T", value)
	}
}
