package perms

import (
	"sort"

	"sitepm/model"
)

// NoProject resolves without project scope.
const NoProject uint = 0

// Principal is the authenticated actor as seen by the resolver.
type Principal struct {
	ID    uint
	Role  string
	Owner bool
	// Direct permission keys granted to the user on top of the role bundle.
	Direct []string
}

// Store supplies the relational state the resolver reads. Both lookups
// are point queries; a missing assignment is not an error.
type Store interface {
	RolePermissions(role string) ([]string, error)
	AssignmentOverrides(projectID, userID uint) (keys []string, found bool, err error)
}

// Set is an accumulated permission set.
type Set map[string]struct{}

func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s Set) add(keys []string) {
	for _, k := range keys {
		s[k] = struct{}{}
	}
}

// Keys returns the set sorted, for stable API responses.
func (s Set) Keys() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve computes the effective permission set of the principal.
// The super admin (owner flag plus admin role) gets the wildcard set;
// everyone else gets the union of role permissions, direct grants and,
// when projectID is given, the assignment overrides for that project.
func (r *Resolver) Resolve(p Principal, projectID uint) (Set, error) {
	if p.Owner && p.Role == string(model.GlobalRoleAdmin) {
		return Set{Wildcard: {}}, nil
	}

	out := Set{}
	roleKeys, err := r.store.RolePermissions(p.Role)
	if err != nil {
		return nil, err
	}
	out.add(roleKeys)
	out.add(p.Direct)

	if projectID != NoProject {
		overrides, found, err := r.store.AssignmentOverrides(projectID, p.ID)
		if err != nil {
			return nil, err
		}
		if found {
			out.add(overrides)
		}
	}
	return out, nil
}

// HasPermission reports whether the principal holds the key, either via
// the wildcard or as a member of the accumulated set.
func (r *Resolver) HasPermission(p Principal, key string, projectID uint) (bool, error) {
	set, err := r.Resolve(p, projectID)
	if err != nil {
		return false, err
	}
	return set.Has(Wildcard) || set.Has(key), nil
}
