package domain

// Role is the closed set of principal classes that can authenticate.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// ParseRole maps raw request input onto a known role. Matching is exact:
// "Student" or " teacher" are unknown roles.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleTeacher:
		return RoleTeacher, nil
	default:
		return "", &RoleError{Kind: UnknownRole, Role: raw}
	}
}

func (r Role) String() string {
	return string(r)
}
