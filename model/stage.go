package model

import (
	"time"

	"gorm.io/gorm"
)

// AcceptanceStage is a project milestone that passes through the four-step
// sign-off chain: internal, customer, design, owner. Status only moves
// forward through that sequence.
type AcceptanceStage struct {
	gorm.Model
	ProjectID uint        `gorm:"uniqueIndex:idx_stage_project_order;not null"`
	Name      string      `gorm:"type:varchar(128);not null;comment:stage name"`
	Order     int         `gorm:"uniqueIndex:idx_stage_project_order;not null;comment:sequence position"`
	Status    StageStatus `gorm:"type:varchar(32);not null;default:pending;comment:sign-off state"`

	InternalApproverID *uint
	InternalApprovedAt *time.Time
	CustomerApproverID *uint
	CustomerApprovedAt *time.Time
	DesignApproverID   *uint
	DesignApprovedAt   *time.Time
	OwnerApproverID    *uint
	OwnerApprovedAt    *time.Time

	Defects []Defect `gorm:"foreignKey:StageID"`
}

// Defect blocks the final owner approval of its stage while its status is
// open or in_progress.
type Defect struct {
	gorm.Model
	ProjectID uint  `gorm:"index;not null"`
	StageID   *uint `gorm:"index;comment:acceptance stage, optional"`

	Title    string         `gorm:"type:varchar(256);not null;comment:defect title"`
	Describe string         `gorm:"type:text;comment:defect description"`
	Status   DefectStatus   `gorm:"type:varchar(32);not null;default:open;comment:open, in_progress, fixed, verified"`
	Severity DefectSeverity `gorm:"type:varchar(16);not null;default:medium;comment:low, medium, high, critical"`

	ReporterID uint `gorm:"comment:user who reported the defect"`
}

// Blocking reports whether the defect still blocks final stage approval.
func (d *Defect) Blocking() bool {
	return d.Status == DefectOpen || d.Status == DefectInProgress
}
