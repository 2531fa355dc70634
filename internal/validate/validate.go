// Package validate holds the pure input predicates used by the mutation
// pipeline. Each function is total and side-effect free.
package validate

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the only accepted date format for expiration dates.
const DateLayout = "2006-01-02"

// Permissive shape check: at least one non-@ local part, an @, and a dot in
// the domain. A format sanity check, not a deliverability check.
var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// NonEmptyString reports whether v is non-empty after trimming whitespace.
func NonEmptyString(v string) bool {
	return strings.TrimSpace(v) != ""
}

// NonNegativeInt reports whether v is zero or greater. Zero is accepted;
// callers that need strictly-positive semantics must add their own > 0 check.
func NonNegativeInt(v int) bool {
	return v >= 0
}

// ValidEmail reports whether v looks like local@domain.tld.
func ValidEmail(v string) bool {
	return emailPattern.MatchString(v)
}

// ValidDate reports whether v parses under the fixed YYYY-MM-DD pattern.
func ValidDate(v string) bool {
	_, err := time.Parse(DateLayout, v)
	return err == nil
}

// Roles is the runtime-configured set of valid user roles.
type Roles map[string]struct{}

// NewRoles builds a role set from the configured list.
func NewRoles(list []string) Roles {
	r := make(Roles, len(list))
	for _, name := range list {
		if v := strings.TrimSpace(name); v != "" {
			r[v] = struct{}{}
		}
	}
	return r
}

// Valid reports whether role is a member of the configured set.
func (r Roles) Valid(role string) bool {
	_, ok := r[role]
	return ok
}

// List returns the configured role names, for error messages and the CLI.
func (r Roles) List() []string {
	out := make([]string, 0, len(r))
	for name := range r {
		out = append(out, name)
	}
	return out
}
