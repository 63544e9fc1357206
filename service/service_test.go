package service

import (
	"testing"

	"sitepm/model"

	"github.com/stretchr/testify/assert"
)

func TestDefectRankForwardOnly(t *testing.T) {
	ordered := []model.DefectStatus{
		model.DefectOpen,
		model.DefectInProgress,
		model.DefectFixed,
		model.DefectVerified,
	}
	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, defectRank(ordered[i]), defectRank(ordered[i-1]))
	}
	assert.Equal(t, -1, defectRank(model.DefectStatus("reopened")))
}

func TestValidProjectRole(t *testing.T) {
	valid := []model.ProjectRole{
		model.ProjectRoleManager, model.ProjectRoleSupervisor, model.ProjectRoleAccountant,
		model.ProjectRoleViewer, model.ProjectRoleEditor, model.ProjectRoleManagement,
		model.ProjectRoleTeamLeader, model.ProjectRoleWorker, model.ProjectRoleGuest,
		model.ProjectRoleSupervisorGuest, model.ProjectRoleDesigner,
	}
	for _, label := range valid {
		assert.True(t, validProjectRole(label), "label %s", label)
	}
	assert.False(t, validProjectRole(model.ProjectRole("contractor")))
}

func TestValidDependencyType(t *testing.T) {
	for _, typ := range []model.DependencyType{
		model.FinishToStart, model.StartToStart, model.FinishToFinish, model.StartToFinish,
	} {
		assert.True(t, validDependencyType(typ), "type %s", typ)
	}
	assert.False(t, validDependencyType(model.DependencyType("start_to_middle")))
}
