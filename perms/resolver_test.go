package perms

import (
	"errors"
	"testing"

	"sitepm/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	roles     map[string][]string
	overrides map[[2]uint][]string
	err       error
}

func (f *fakeStore) RolePermissions(role string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.roles[role], nil
}

func (f *fakeStore) AssignmentOverrides(projectID, userID uint) ([]string, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	keys, ok := f.overrides[[2]uint{projectID, userID}]
	return keys, ok, nil
}

func TestSuperAdminBypass(t *testing.T) {
	r := NewResolver(&fakeStore{roles: map[string][]string{}})
	admin := Principal{ID: 1, Role: "admin", Owner: true}

	for _, key := range append(Keys, "made_up_key") {
		for _, scope := range []uint{NoProject, 7, 42} {
			ok, err := r.HasPermission(admin, key, scope)
			require.NoError(t, err)
			assert.True(t, ok, "key %s scope %d", key, scope)
		}
	}

	set, err := r.Resolve(admin, NoProject)
	require.NoError(t, err)
	assert.Equal(t, []string{Wildcard}, set.Keys())
}

func TestOwnerFlagAloneIsNotEnough(t *testing.T) {
	r := NewResolver(&fakeStore{roles: map[string][]string{"staff": {"view"}}})

	// Owner without the admin role goes through normal accumulation.
	p := Principal{ID: 2, Role: "staff", Owner: true}
	ok, err := r.HasPermission(p, "financial_approve", NoProject)
	require.NoError(t, err)
	assert.False(t, ok)

	// Admin role without the owner flag as well.
	p = Principal{ID: 3, Role: "admin", Owner: false}
	set, err := r.Resolve(p, NoProject)
	require.NoError(t, err)
	assert.False(t, set.Has(Wildcard))
}

func TestUnionOfRoleAndDirectGrants(t *testing.T) {
	r := NewResolver(&fakeStore{
		roles: map[string][]string{"staff": {"view", "edit"}},
	})
	p := Principal{ID: 4, Role: "staff", Direct: []string{"approve", "edit"}}

	set, err := r.Resolve(p, NoProject)
	require.NoError(t, err)
	assert.Equal(t, []string{"approve", "edit", "view"}, set.Keys())
}

func TestProjectOverridesAreAdditive(t *testing.T) {
	r := NewResolver(&fakeStore{
		roles: map[string][]string{"viewer": {"view"}},
		overrides: map[[2]uint][]string{
			{10, 5}: {"approve"},
		},
	})
	p := Principal{ID: 5, Role: "viewer"}

	set, err := r.Resolve(p, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"approve", "view"}, set.Keys())

	// Outside the project the override does not apply.
	set, err = r.Resolve(p, NoProject)
	require.NoError(t, err)
	assert.Equal(t, []string{"view"}, set.Keys())
}

func TestMissingAssignmentContributesNothing(t *testing.T) {
	r := NewResolver(&fakeStore{
		roles: map[string][]string{"viewer": {"view"}},
	})
	p := Principal{ID: 6, Role: "viewer"}

	set, err := r.Resolve(p, 99)
	require.NoError(t, err)
	assert.Equal(t, []string{"view"}, set.Keys())
}

func TestStoreErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	r := NewResolver(&fakeStore{err: boom})

	_, err := r.Resolve(Principal{ID: 7, Role: "staff"}, NoProject)
	assert.ErrorIs(t, err, boom)
}

func TestDefaultPermissions(t *testing.T) {
	tests := []struct {
		label    model.ProjectRole
		expected []string
	}{
		{model.ProjectRoleManagement, []string{"view", "edit", "approve", "financial_view", "financial_approve"}},
		{model.ProjectRoleAccountant, []string{"view", "financial_view", "financial_approve", "payment_confirm"}},
		{model.ProjectRoleTeamLeader, []string{"view", "edit", "approve", "manage_workers"}},
		{model.ProjectRoleWorker, []string{"view"}},
		{model.ProjectRoleGuest, []string{"view"}},
		{model.ProjectRoleSupervisorGuest, []string{"view", "approve"}},
		{model.ProjectRoleDesigner, []string{"view", "edit", "design_edit"}},
		{model.ProjectRoleSupervisor, []string{"view", "edit", "approve", "supervise"}},
		{model.ProjectRoleManager, []string{"view", "edit", "approve", "manage_all"}},
		{model.ProjectRole("no_such_label"), []string{"view"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, DefaultPermissions(tt.label), "label %s", tt.label)
	}
}
