package service

import (
	"net/http"

	"sitepm/model"
	"sitepm/orm"
	"sitepm/perms"
	"sitepm/response"

	log "github.com/sirupsen/logrus"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type CreateProjectReq struct {
	Name       string `json:"name" binding:"required"`
	Code       string `json:"code" binding:"required"`
	Describe   string `json:"describe"`
	CustomerID uint   `json:"customerId" binding:"required"`
	ManagerID  uint   `json:"managerId" binding:"required"`
}

func CreateProject(c *gin.Context) {
	var req CreateProjectReq
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	db := orm.DB()

	for _, id := range []uint{req.CustomerID, req.ManagerID} {
		ok, err := userExists(db, id)
		if err != nil {
			response.Error(c, err.Error(), response.NotSpecified)
			return
		}
		if !ok {
			response.Error(c, "referenced user does not exist", response.UserNotFound)
			return
		}
	}

	var count int64
	if err := db.Model(&model.Project{}).Where("code = ?", req.Code).Count(&count).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	if count > 0 {
		response.ConflictError(c, "project code already exists", response.DuplicateEntry)
		return
	}

	project := model.Project{
		Name:       req.Name,
		Code:       req.Code,
		Describe:   req.Describe,
		Status:     model.ProjectPlanned,
		CustomerID: req.CustomerID,
		ManagerID:  req.ManagerID,
	}
	if err := db.Create(&project).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}

	// The manager starts as project_manager personnel so the
	// project-scoped defaults apply from day one.
	assignment := model.PersonnelAssignment{
		ProjectID: project.ID,
		UserID:    req.ManagerID,
		Role:      model.ProjectRoleManager,
		Overrides: datatypes.JSONSlice[string](perms.DefaultPermissions(model.ProjectRoleManager)),
	}
	if err := db.Create(&assignment).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	log.WithFields(log.Fields{"project": project.Code, "id": project.ID}).Info("project created")
	response.Success(c, project.ID)
}

func ListProjects(c *gin.Context) {
	var projects []model.Project
	if err := orm.DB().Find(&projects).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, projects)
}

func GetProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var project model.Project
	err := orm.DB().Preload("Personnel").Preload("Stages").First(&project, id).Error
	if err != nil {
		notFoundOr(c, err, "project")
		return
	}
	response.Success(c, project)
}

type UpdateProjectReq struct {
	Name     string              `json:"name"`
	Describe string              `json:"describe"`
	Status   model.ProjectStatus `json:"status"`
}

func UpdateProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateProjectReq
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	db := orm.DB()

	var project model.Project
	if err := db.First(&project, id).Error; err != nil {
		notFoundOr(c, err, "project")
		return
	}
	if req.Name != "" {
		project.Name = req.Name
	}
	if req.Describe != "" {
		project.Describe = req.Describe
	}
	if req.Status != "" {
		switch req.Status {
		case model.ProjectPlanned, model.ProjectInProgress, model.ProjectCompleted:
			project.Status = req.Status
		default:
			response.BadRequestError(c, "unknown project status")
			return
		}
	}
	if err := db.Save(&project).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, project.ID)
}

func DeleteProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db := orm.DB()

	var project model.Project
	if err := db.First(&project, id).Error; err != nil {
		notFoundOr(c, err, "project")
		return
	}
	if err := db.Select("Personnel", "Stages", "Defects", "Tasks", "Contracts").
		Delete(&project).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, nil)
}

type AssignPersonnelReq struct {
	UserID    uint     `json:"userId" binding:"required"`
	Role      string   `json:"role" binding:"required"`
	Overrides []string `json:"overrides"`
}

func validProjectRole(label model.ProjectRole) bool {
	switch label {
	case model.ProjectRoleManager, model.ProjectRoleSupervisor, model.ProjectRoleAccountant,
		model.ProjectRoleViewer, model.ProjectRoleEditor, model.ProjectRoleManagement,
		model.ProjectRoleTeamLeader, model.ProjectRoleWorker, model.ProjectRoleGuest,
		model.ProjectRoleSupervisorGuest, model.ProjectRoleDesigner:
		return true
	}
	return false
}

// AssignPersonnel adds a user to the project. Overrides default to the
// role label's seed permissions when not given explicitly.
func AssignPersonnel(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req AssignPersonnelReq
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	label := model.ProjectRole(req.Role)
	if !validProjectRole(label) {
		response.Error(c, "unknown project role "+req.Role, response.InvalidRole)
		return
	}
	db := orm.DB()

	var project model.Project
	if err := db.First(&project, projectID).Error; err != nil {
		notFoundOr(c, err, "project")
		return
	}
	exists, err := userExists(db, req.UserID)
	if err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	if !exists {
		response.Error(c, "user does not exist", response.UserNotFound)
		return
	}

	var count int64
	if err := db.Model(&model.PersonnelAssignment{}).
		Where("project_id = ? AND user_id = ?", projectID, req.UserID).
		Count(&count).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	if count > 0 {
		response.ConflictError(c, "user is already assigned to this project", response.DuplicateEntry)
		return
	}

	overrides := req.Overrides
	if overrides == nil {
		overrides = perms.DefaultPermissions(label)
	}
	assignment := model.PersonnelAssignment{
		ProjectID: projectID,
		UserID:    req.UserID,
		Role:      label,
		Overrides: datatypes.JSONSlice[string](overrides),
	}
	if err := db.Create(&assignment).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, assignment.ID)
}

type UpdatePersonnelReq struct {
	Role      string   `json:"role"`
	Overrides []string `json:"overrides"`
}

func UpdatePersonnel(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := parseID(c, "uid")
	if !ok {
		return
	}
	var req UpdatePersonnelReq
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	db := orm.DB()

	var assignment model.PersonnelAssignment
	err := db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&assignment).Error
	if err != nil {
		notFoundOr(c, err, "assignment")
		return
	}
	if req.Role != "" {
		label := model.ProjectRole(req.Role)
		if !validProjectRole(label) {
			response.Error(c, "unknown project role "+req.Role, response.InvalidRole)
			return
		}
		assignment.Role = label
	}
	if req.Overrides != nil {
		assignment.Overrides = datatypes.JSONSlice[string](req.Overrides)
	}
	if err := db.Save(&assignment).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, assignment.ID)
}

// RemovePersonnel deletes an assignment. The customer and the project
// manager stay while they hold those roles.
func RemovePersonnel(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := parseID(c, "uid")
	if !ok {
		return
	}
	db := orm.DB()

	var project model.Project
	if err := db.First(&project, projectID).Error; err != nil {
		notFoundOr(c, err, "project")
		return
	}
	if userID == project.CustomerID || userID == project.ManagerID {
		response.HTTPError(c, http.StatusConflict,
			"the customer and the project manager cannot be removed", response.NotSpecified)
		return
	}

	var assignment model.PersonnelAssignment
	err := db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&assignment).Error
	if err != nil {
		notFoundOr(c, err, "assignment")
		return
	}
	if err := db.Delete(&assignment).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, nil)
}

func ListPersonnel(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var personnel []model.PersonnelAssignment
	if err := orm.DB().Where("project_id = ?", projectID).Find(&personnel).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, personnel)
}

// MemberPermissions returns the effective permission set of one member
// within this project, the same computation the route guards use.
func MemberPermissions(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := parseID(c, "uid")
	if !ok {
		return
	}
	principal, err := loadPrincipal(userID)
	if err != nil {
		notFoundOr(c, err, "user")
		return
	}
	set, err := resolver().Resolve(principal, projectID)
	if err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, gin.H{"userId": userID, "permissions": set.Keys()})
}

func RegisterProject(g *gin.RouterGroup) {
	g.GET("/projects", ListProjects)
	g.POST("/projects", RequirePermission("project_manage"), CreateProject)

	one := g.Group("/projects/:id")
	one.GET("", RequireProjectPermission("view"), GetProject)
	one.PUT("", RequireProjectPermission("edit"), UpdateProject)
	one.DELETE("", RequirePermission("project_manage"), DeleteProject)

	one.GET("/personnel", RequireProjectPermission("view"), ListPersonnel)
	one.POST("/personnel", RequireProjectPermission("manage_all"), AssignPersonnel)
	one.PUT("/personnel/:uid", RequireProjectPermission("manage_all"), UpdatePersonnel)
	one.DELETE("/personnel/:uid", RequireProjectPermission("manage_all"), RemovePersonnel)
	one.GET("/personnel/:uid/permissions", RequireProjectPermission("view"), MemberPermissions)
}
