// Package perms resolves the effective permission set of a user from the
// role bundle, direct grants and project-scoped overrides.
package perms

import "sitepm/model"

// Wildcard stands for every permission key. Only the super admin
// resolution produces it.
const Wildcard = "*"

// Catalog of permission keys known to the system. Used for seeding and
// for validating grant requests; resolution itself treats keys as opaque.
var Keys = []string{
	"view",
	"edit",
	"approve",
	"supervise",
	"manage_all",
	"manage_workers",
	"design_edit",
	"financial_view",
	"financial_approve",
	"payment_confirm",
	"contract_approve",
	"user_manage",
	"project_manage",
}

// DefaultPermissions returns the seed permission keys for a project role
// label. Unrecognized labels fall back to view only.
func DefaultPermissions(label model.ProjectRole) []string {
	switch label {
	case model.ProjectRoleManagement:
		return []string{"view", "edit", "approve", "financial_view", "financial_approve"}
	case model.ProjectRoleAccountant:
		return []string{"view", "financial_view", "financial_approve", "payment_confirm"}
	case model.ProjectRoleTeamLeader:
		return []string{"view", "edit", "approve", "manage_workers"}
	case model.ProjectRoleWorker, model.ProjectRoleGuest:
		return []string{"view"}
	case model.ProjectRoleSupervisorGuest:
		return []string{"view", "approve"}
	case model.ProjectRoleDesigner:
		return []string{"view", "edit", "design_edit"}
	case model.ProjectRoleSupervisor:
		return []string{"view", "edit", "approve", "supervise"}
	case model.ProjectRoleManager:
		return []string{"view", "edit", "approve", "manage_all"}
	default:
		return []string{"view"}
	}
}
