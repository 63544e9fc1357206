package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project owns its stages, defects, tasks and personnel assignments.
type Project struct {
	gorm.Model
	Name     string        `gorm:"type:varchar(128);not null;comment:project name"`
	Code     string        `gorm:"uniqueIndex;type:varchar(32);not null;comment:project code"`
	Describe string        `gorm:"type:text;comment:project description"`
	Status   ProjectStatus `gorm:"type:varchar(32);not null;default:planned;comment:project status"`

	// CustomerID is the client who signs customer and owner approvals.
	CustomerID uint `gorm:"not null;comment:customer user id"`
	// ManagerID is the responsible project manager.
	ManagerID uint `gorm:"not null;comment:project manager user id"`

	Personnel []PersonnelAssignment
	Stages    []AcceptanceStage
	Defects   []Defect
	Tasks     []ProjectTask
	Contracts []Contract
}

// PersonnelAssignment ties a user to a project with a project-scoped role
// label and an optional set of permission-key overrides. At most one
// assignment per (project, user) pair.
type PersonnelAssignment struct {
	gorm.Model
	ProjectID uint        `gorm:"uniqueIndex:idx_project_user;not null"`
	UserID    uint        `gorm:"uniqueIndex:idx_project_user;not null"`
	Role      ProjectRole `gorm:"type:varchar(32);not null;comment:role label inside the project"`

	// Overrides are additional permission keys valid only inside this
	// project. They add to the user's global permissions, never replace them.
	Overrides datatypes.JSONSlice[string] `gorm:"comment:project-scoped permission keys"`
}
