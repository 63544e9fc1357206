package model

import "gorm.io/gorm"

// Contract is a commercial agreement tied to a project. It moves
// draft -> submitted -> approved/rejected; approval requires the
// contract_approve permission.
type Contract struct {
	gorm.Model
	ProjectID uint `gorm:"index;not null"`

	Title    string         `gorm:"type:varchar(256);not null;comment:contract title"`
	Amount   int64          `gorm:"not null;default:0;comment:contract amount in cents"`
	Status   ContractStatus `gorm:"type:varchar(32);not null;default:draft;comment:draft, submitted, approved, rejected"`
	Describe string         `gorm:"type:text;comment:contract description"`

	ApproverID *uint `gorm:"comment:user who approved or rejected"`
}
