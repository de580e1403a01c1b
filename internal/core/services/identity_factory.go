package services

import (
	"strconv"
	"strings"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/domain"
)

// NewIdentity is the single dispatch point from an untyped request to a
// role-correct Identity. Unknown roles and missing role-specific fields are
// reported as *domain.RoleError; nothing falls back to a default role.
func NewIdentity(role, principalID, password, year string) (Identity, error) {
	r, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(principalID) == "" {
		return nil, &domain.RoleError{Kind: domain.MissingField, Role: role, Field: "user_id"}
	}

	switch r {
	case domain.RoleStudent:
		y, ok := parseYear(year)
		if !ok {
			return nil, &domain.RoleError{Kind: domain.MissingField, Role: role, Field: "year"}
		}
		return &Student{principalID: principalID, password: password, year: y}, nil
	case domain.RoleTeacher:
		return &Teacher{principalID: principalID, password: password}, nil
	}

	return nil, &domain.RoleError{Kind: domain.UnknownRole, Role: role}
}

// parseYear accepts decimal integer text. Range is not checked here: an
// out-of-range year simply never matches a stored record.
func parseYear(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	y, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return y, true
}
