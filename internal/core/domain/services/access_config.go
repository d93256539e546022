package services

import (
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// DirectoryEntry binds one email address to its role. PrincipalID is optional
// and is how installer principals are tied to installer ids.
type DirectoryEntry struct {
	Role        kernel.Role
	PrincipalID string
}

// AccessConfig is the single source of truth for role resolution.
type AccessConfig struct {
	Directory    map[string]DirectoryEntry
	FallbackRole kernel.Role
}

// ParseDirectory reads entries of the form email=role[:principalID] separated
// by commas or semicolons, e.g. "hod@acme.io=hod,ravi@acme.io=installer:INST-001".
func ParseDirectory(raw string) (map[string]DirectoryEntry, error) {
	dir := make(map[string]DirectoryEntry)
	for _, item := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' }) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		email, rest, ok := strings.Cut(item, "=")
		if !ok {
			return nil, errs.NewValueIsInvalidErrorWithCause("role directory", fmt.Errorf("entry %q has no '='", item))
		}
		roleName, id, _ := strings.Cut(rest, ":")

		role, err := kernel.ParseRole(roleName)
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("role directory", fmt.Errorf("entry %q: %w", item, err))
		}

		key := normalizeEmail(email)
		if key == "" {
			return nil, errs.NewValueIsInvalidErrorWithCause("role directory", fmt.Errorf("entry %q has no email", item))
		}
		if _, dup := dir[key]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause("role directory", fmt.Errorf("%s is listed twice", key))
		}
		dir[key] = DirectoryEntry{Role: role, PrincipalID: strings.TrimSpace(id)}
	}
	return dir, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
