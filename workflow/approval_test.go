package workflow

import (
	"testing"

	"sitepm/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	customerID = uint(100)
	someoneID  = uint(200)
)

func TestFullApprovalSequence(t *testing.T) {
	steps := []struct {
		typ   model.ApprovalType
		actor uint
		want  model.StageStatus
	}{
		{model.ApprovalInternal, someoneID, model.StageInternalApproved},
		{model.ApprovalCustomer, customerID, model.StageCustomerApproved},
		{model.ApprovalDesign, someoneID, model.StageDesignApproved},
		{model.ApprovalOwner, customerID, model.StageOwnerApproved},
	}

	status := model.StagePending
	for _, s := range steps {
		next, err := Approve(Input{
			Status:     status,
			Type:       s.typ,
			ActorID:    s.actor,
			CustomerID: customerID,
		})
		require.NoError(t, err, "step %s", s.typ)
		require.Equal(t, s.want, next)
		// The status only ever moves forward.
		require.Greater(t, Rank(next), Rank(status))
		status = next
	}
}

func TestStatusNeverMovesBackwardOrSkips(t *testing.T) {
	all := []model.StageStatus{
		model.StagePending,
		model.StageInternalApproved,
		model.StageCustomerApproved,
		model.StageDesignApproved,
		model.StageOwnerApproved,
	}
	types := []model.ApprovalType{
		model.ApprovalInternal,
		model.ApprovalCustomer,
		model.ApprovalDesign,
		model.ApprovalOwner,
	}

	for _, status := range all {
		for _, typ := range types {
			next, err := Approve(Input{
				Status:     status,
				Type:       typ,
				ActorID:    customerID,
				CustomerID: customerID,
			})
			if err != nil {
				continue
			}
			assert.Greater(t, Rank(next), Rank(status),
				"type %s from %s moved to %s", typ, status, next)
		}
	}
}

func TestInternalOnlyFromPending(t *testing.T) {
	for _, status := range []model.StageStatus{
		model.StageInternalApproved,
		model.StageCustomerApproved,
		model.StageDesignApproved,
		model.StageOwnerApproved,
	} {
		_, err := Approve(Input{Status: status, Type: model.ApprovalInternal, ActorID: someoneID})
		assert.ErrorIs(t, err, ErrInvalidTransition, "status %s", status)
	}
}

func TestCustomerIdentityGate(t *testing.T) {
	// A wrong actor is rejected as forbidden regardless of stage status.
	for _, status := range []model.StageStatus{
		model.StagePending,
		model.StageInternalApproved,
		model.StageCustomerApproved,
		model.StageDesignApproved,
	} {
		_, err := Approve(Input{
			Status:     status,
			Type:       model.ApprovalCustomer,
			ActorID:    someoneID,
			CustomerID: customerID,
		})
		assert.ErrorIs(t, err, ErrForbiddenActor, "status %s", status)
	}
}

func TestCustomerMaySignBeforeInternal(t *testing.T) {
	next, err := Approve(Input{
		Status:     model.StagePending,
		Type:       model.ApprovalCustomer,
		ActorID:    customerID,
		CustomerID: customerID,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StageCustomerApproved, next)
}

func TestOwnerDefectGate(t *testing.T) {
	in := Input{
		Status:         model.StageDesignApproved,
		Type:           model.ApprovalOwner,
		ActorID:        customerID,
		CustomerID:     customerID,
		HasOpenDefects: true,
	}
	_, err := Approve(in)
	assert.ErrorIs(t, err, ErrOpenDefects)

	// The identical call succeeds once the defects are resolved.
	in.HasOpenDefects = false
	next, err := Approve(in)
	require.NoError(t, err)
	assert.Equal(t, model.StageOwnerApproved, next)
}

func TestOwnerIdentityCheckedBeforeDefects(t *testing.T) {
	_, err := Approve(Input{
		Status:         model.StageDesignApproved,
		Type:           model.ApprovalOwner,
		ActorID:        someoneID,
		CustomerID:     customerID,
		HasOpenDefects: true,
	})
	assert.ErrorIs(t, err, ErrForbiddenActor)
}

func TestDesignThenStaleCustomerCall(t *testing.T) {
	next, err := Approve(Input{
		Status:  model.StageCustomerApproved,
		Type:    model.ApprovalDesign,
		ActorID: someoneID,
	})
	require.NoError(t, err)
	require.Equal(t, model.StageDesignApproved, next)

	// A customer approval arriving after the design step is rejected.
	_, err = Approve(Input{
		Status:     next,
		Type:       model.ApprovalCustomer,
		ActorID:    customerID,
		CustomerID: customerID,
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUnknownApprovalType(t *testing.T) {
	_, err := Approve(Input{
		Status:  model.StagePending,
		Type:    model.ApprovalType("notary"),
		ActorID: someoneID,
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
