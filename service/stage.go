package service

import (
	"errors"
	"net/http"
	"time"

	"sitepm/model"
	"sitepm/orm"
	"sitepm/response"
	"sitepm/workflow"

	log "github.com/sirupsen/logrus"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateStageReq struct {
	Name  string `json:"name" binding:"required"`
	Order int    `json:"order" binding:"required,min=1"`
}

func CreateStage(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req CreateStageReq
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	db := orm.DB()

	var project model.Project
	if err := db.First(&project, projectID).Error; err != nil {
		notFoundOr(c, err, "project")
		return
	}
	var count int64
	if err := db.Model(&model.AcceptanceStage{}).
		Where("project_id = ? AND \"order\" = ?", projectID, req.Order).
		Count(&count).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	if count > 0 {
		response.ConflictError(c, "a stage with this order already exists", response.DuplicateEntry)
		return
	}

	stage := model.AcceptanceStage{
		ProjectID: projectID,
		Name:      req.Name,
		Order:     req.Order,
		Status:    model.StagePending,
	}
	if err := db.Create(&stage).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, stage.ID)
}

func ListStages(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var stages []model.AcceptanceStage
	err := orm.DB().Where("project_id = ?", projectID).Order("\"order\"").Find(&stages).Error
	if err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, stages)
}

func GetStage(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	stageID, ok := parseID(c, "sid")
	if !ok {
		return
	}
	db := orm.DB()
	var stage model.AcceptanceStage
	err := db.Preload("Defects").Where("project_id = ?", projectID).First(&stage, stageID).Error
	if err != nil {
		notFoundOr(c, err, "stage")
		return
	}
	blocking, err := countBlockingDefects(db, stage.ID)
	if err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, gin.H{"stage": stage, "hasOpenDefects": blocking > 0})
}

type ApprovalReq struct {
	Type string `json:"type" binding:"required"`
}

// ApproveStage applies one sign-off step. The read-validate-write runs in
// a single transaction with the stage row locked, so a concurrent call
// for the same step observes the post-transition status and is rejected
// by the precondition check instead of overwriting.
func ApproveStage(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	stageID, ok := parseID(c, "sid")
	if !ok {
		return
	}
	var req ApprovalReq
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	msg, ok := currentUser(c)
	if !ok {
		response.HTTPError(c, http.StatusUnauthorized, "not authenticated", response.InvalidToken)
		return
	}

	var approved model.AcceptanceStage
	err := orm.DB().Transaction(func(tx *gorm.DB) error {
		var stage model.AcceptanceStage
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("project_id = ?", projectID).First(&stage, stageID).Error; err != nil {
			return err
		}
		var project model.Project
		if err := tx.First(&project, projectID).Error; err != nil {
			return err
		}
		blocking, err := countBlockingDefects(tx, stage.ID)
		if err != nil {
			return err
		}

		next, err := workflow.Approve(workflow.Input{
			Status:         stage.Status,
			Type:           model.ApprovalType(req.Type),
			ActorID:        msg.UserID,
			CustomerID:     project.CustomerID,
			HasOpenDefects: blocking > 0,
		})
		if err != nil {
			return err
		}

		now := time.Now()
		stage.Status = next
		switch model.ApprovalType(req.Type) {
		case model.ApprovalInternal:
			stage.InternalApproverID = &msg.UserID
			stage.InternalApprovedAt = &now
		case model.ApprovalCustomer:
			stage.CustomerApproverID = &msg.UserID
			stage.CustomerApprovedAt = &now
		case model.ApprovalDesign:
			stage.DesignApproverID = &msg.UserID
			stage.DesignApprovedAt = &now
		case model.ApprovalOwner:
			stage.OwnerApproverID = &msg.UserID
			stage.OwnerApprovedAt = &now
		}
		approved = stage
		return tx.Save(&stage).Error
	})
	if err != nil {
		approvalError(c, err)
		return
	}
	log.WithFields(log.Fields{
		"stage": approved.ID, "type": req.Type, "status": approved.Status,
	}).Info("stage approved")
	response.Success(c, approved)
}

// countBlockingDefects counts defects of the stage still open or in
// progress; those block the final owner approval.
func countBlockingDefects(db *gorm.DB, stageID uint) (int64, error) {
	var blocking int64
	err := db.Model(&model.Defect{}).
		Where("stage_id = ? AND status IN ?", stageID,
			[]model.DefectStatus{model.DefectOpen, model.DefectInProgress}).
		Count(&blocking).Error
	return blocking, err
}

func approvalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, workflow.ErrInvalidTransition):
		response.ConflictError(c, err.Error(), response.InvalidStateTransition)
	case errors.Is(err, workflow.ErrOpenDefects):
		response.ConflictError(c, err.Error(), response.BlockedByDefects)
	case errors.Is(err, workflow.ErrForbiddenActor):
		response.ForbiddenError(c, err.Error(), response.ForbiddenActor)
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.HTTPError(c, http.StatusNotFound, "stage not found", response.NotFound)
	default:
		response.Error(c, err.Error(), response.NotSpecified)
	}
}

func RegisterStage(g *gin.RouterGroup) {
	stages := g.Group("/projects/:id/stages")
	stages.GET("", RequireProjectPermission("view"), ListStages)
	stages.POST("", RequireProjectPermission("edit"), CreateStage)
	stages.GET("/:sid", RequireProjectPermission("view"), GetStage)
	stages.POST("/:sid/approvals", RequireProjectPermission("approve"), ApproveStage)
}
