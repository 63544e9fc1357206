// Package workflow drives the four-step acceptance stage sign-off chain:
// internal site supervision, customer, design authority, final owner
// acceptance. Each step is only valid once the prior one is satisfied and
// final acceptance cannot be granted while unresolved defects exist.
package workflow

import (
	"errors"

	"sitepm/model"
)

var (
	// ErrInvalidTransition means the requested step does not match the
	// stage's current status.
	ErrInvalidTransition = errors.New("approval step does not match stage status")
	// ErrForbiddenActor means the actor lacks the identity the step requires.
	ErrForbiddenActor = errors.New("actor cannot sign this approval step")
	// ErrOpenDefects means final approval was attempted with open defects.
	ErrOpenDefects = errors.New("open defects block final approval")
)

// sequence is the forward order of stage statuses.
var sequence = []model.StageStatus{
	model.StagePending,
	model.StageInternalApproved,
	model.StageCustomerApproved,
	model.StageDesignApproved,
	model.StageOwnerApproved,
}

// Rank returns the position of a status in the sign-off sequence,
// -1 for an unknown status.
func Rank(s model.StageStatus) int {
	for i, st := range sequence {
		if st == s {
			return i
		}
	}
	return -1
}

// Input carries everything one approval decision depends on, read from
// the stage and project rows inside the caller's transaction.
type Input struct {
	Status         model.StageStatus
	Type           model.ApprovalType
	ActorID        uint
	CustomerID     uint
	HasOpenDefects bool
}

// Approve validates one sign-off step and returns the status the stage
// moves to. On error nothing is returned and the caller must not mutate
// the stage. The actor identity is checked before the status so a wrong
// customer is always reported as such, and for the owner step the defect
// gate is checked last so it is reported separately from status failures.
func Approve(in Input) (model.StageStatus, error) {
	switch in.Type {
	case model.ApprovalInternal:
		if in.Status != model.StagePending {
			return "", ErrInvalidTransition
		}
		return model.StageInternalApproved, nil

	case model.ApprovalCustomer:
		if in.ActorID != in.CustomerID {
			return "", ErrForbiddenActor
		}
		if in.Status != model.StagePending && in.Status != model.StageInternalApproved {
			return "", ErrInvalidTransition
		}
		return model.StageCustomerApproved, nil

	case model.ApprovalDesign:
		if in.Status != model.StageCustomerApproved {
			return "", ErrInvalidTransition
		}
		return model.StageDesignApproved, nil

	case model.ApprovalOwner:
		if in.ActorID != in.CustomerID {
			return "", ErrForbiddenActor
		}
		if in.Status != model.StageDesignApproved {
			return "", ErrInvalidTransition
		}
		if in.HasOpenDefects {
			return "", ErrOpenDefects
		}
		return model.StageOwnerApproved, nil

	default:
		return "", ErrInvalidTransition
	}
}
