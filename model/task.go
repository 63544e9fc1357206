package model

import (
	"time"

	"gorm.io/gorm"
)

// ProjectTask is a schedulable unit of work inside a project.
type ProjectTask struct {
	gorm.Model
	ProjectID uint       `gorm:"index;not null"`
	Name      string     `gorm:"type:varchar(128);not null;comment:task name"`
	Status    TaskStatus `gorm:"type:varchar(32);not null;default:planned;comment:task status"`

	PlannedStart *time.Time
	PlannedEnd   *time.Time

	// Dependencies are the edges where this task is the dependent side.
	Dependencies []TaskDependency `gorm:"foreignKey:TaskID"`
}

// TaskDependency is a directed edge: TaskID depends on DependsOnID.
// The edge set of a project must stay acyclic; no self-loops, no
// duplicate ordered pairs.
type TaskDependency struct {
	gorm.Model
	TaskID      uint           `gorm:"uniqueIndex:idx_task_depends;not null"`
	DependsOnID uint           `gorm:"uniqueIndex:idx_task_depends;not null"`
	Type        DependencyType `gorm:"type:varchar(32);not null;default:finish_to_start;comment:schedule relation"`
}
