package service

import (
	"sitepm/model"
	"sitepm/orm"
	"sitepm/response"

	"github.com/gin-gonic/gin"
)

type CreateDefectReq struct {
	Title    string `json:"title" binding:"required"`
	Describe string `json:"describe"`
	Severity string `json:"severity"`
	StageID  *uint  `json:"stageId"`
}

func CreateDefect(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req CreateDefectReq
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	severity := model.SeverityMedium
	if req.Severity != "" {
		severity = model.DefectSeverity(req.Severity)
		switch severity {
		case model.SeverityLow, model.SeverityMedium, model.SeverityHigh, model.SeverityCritical:
		default:
			response.BadRequestError(c, "unknown severity")
			return
		}
	}
	db := orm.DB()

	var project model.Project
	if err := db.First(&project, projectID).Error; err != nil {
		notFoundOr(c, err, "project")
		return
	}
	if req.StageID != nil {
		var stage model.AcceptanceStage
		err := db.Where("project_id = ?", projectID).First(&stage, *req.StageID).Error
		if err != nil {
			notFoundOr(c, err, "stage")
			return
		}
	}

	msg, _ := currentUser(c)
	defect := model.Defect{
		ProjectID:  projectID,
		StageID:    req.StageID,
		Title:      req.Title,
		Describe:   req.Describe,
		Status:     model.DefectOpen,
		Severity:   severity,
		ReporterID: msg.UserID,
	}
	if err := db.Create(&defect).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, defect.ID)
}

func ListDefects(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	query := orm.DB().Where("project_id = ?", projectID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	var defects []model.Defect
	if err := query.Find(&defects).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, defects)
}

// defectRank orders the defect lifecycle; transitions only move forward.
func defectRank(s model.DefectStatus) int {
	switch s {
	case model.DefectOpen:
		return 0
	case model.DefectInProgress:
		return 1
	case model.DefectFixed:
		return 2
	case model.DefectVerified:
		return 3
	}
	return -1
}

type UpdateDefectStatusReq struct {
	Status string `json:"status" binding:"required"`
}

func UpdateDefectStatus(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	defectID, ok := parseID(c, "did")
	if !ok {
		return
	}
	var req UpdateDefectStatusReq
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	next := model.DefectStatus(req.Status)
	if defectRank(next) < 0 {
		response.BadRequestError(c, "unknown defect status")
		return
	}
	db := orm.DB()

	var defect model.Defect
	err := db.Where("project_id = ?", projectID).First(&defect, defectID).Error
	if err != nil {
		notFoundOr(c, err, "defect")
		return
	}
	if defectRank(next) <= defectRank(defect.Status) {
		response.ConflictError(c, "defect status only moves forward", response.InvalidStateTransition)
		return
	}
	defect.Status = next
	if err := db.Save(&defect).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, defect)
}

func RegisterDefect(g *gin.RouterGroup) {
	defects := g.Group("/projects/:id/defects")
	defects.GET("", RequireProjectPermission("view"), ListDefects)
	defects.POST("", RequireProjectPermission("edit"), CreateDefect)
	defects.PUT("/:did/status", RequireProjectPermission("edit"), UpdateDefectStatus)
}
