package service

import (
	"errors"
	"net/http"
	"time"

	"sitepm/model"
	"sitepm/orm"
	"sitepm/response"
	"sitepm/taskgraph"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// errCrossProject is the service-level precondition the pure validator
// cannot see: both tasks of an edge must belong to the same project.
var errCrossProject = errors.New("dependency references a task from another project")

type CreateTaskReq struct {
	Name         string     `json:"name" binding:"required"`
	PlannedStart *time.Time `json:"plannedStart"`
	PlannedEnd   *time.Time `json:"plannedEnd"`
}

func CreateTask(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req CreateTaskReq
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
	task := model.ProjectTask{
		ProjectID:    projectID,
		Name:         req.Name,
		Status:       model.TaskPlanned,
		PlannedStart: req.PlannedStart,
		PlannedEnd:   req.PlannedEnd,
	}
	if err := db.Create(&task).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, task.ID)
}

func ListTasks(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var tasks []model.ProjectTask
	err := orm.DB().Preload("Dependencies").Where("project_id = ?", projectID).Find(&tasks).Error
	if err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, tasks)
}

type AddDependencyReq struct {
	DependsOnID uint   `json:"dependsOnId" binding:"required"`
	Type        string `json:"type"`
}

func validDependencyType(t model.DependencyType) bool {
	switch t {
	case model.FinishToStart, model.StartToStart, model.FinishToFinish, model.StartToFinish:
		return true
	}
	return false
}

// AddDependency inserts the edge "task depends on dependsOn" after the
// acyclicity check. The project row is locked for the transaction so two
// concurrent inserts that are individually acyclic cannot jointly commit
// a cycle.
func AddDependency(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseID(c, "tid")
	if !ok {
		return
	}
	var req AddDependencyReq
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	depType := model.FinishToStart
	if req.Type != "" {
		depType = model.DependencyType(req.Type)
		if !validDependencyType(depType) {
			response.BadRequestError(c, "unknown dependency type")
			return
		}
	}

	var created model.TaskDependency
	err := orm.DB().Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&project, projectID).Error; err != nil {
			return err
		}

		var task, dependsOn model.ProjectTask
		if err := tx.First(&task, taskID).Error; err != nil {
			return err
		}
		if err := tx.First(&dependsOn, req.DependsOnID).Error; err != nil {
			return err
		}
		if task.ProjectID != projectID || dependsOn.ProjectID != projectID {
			return errCrossProject
		}

		edges, err := projectEdges(tx, projectID)
		if err != nil {
			return err
		}
		if err := taskgraph.ValidateNewEdge(edges, taskID, req.DependsOnID); err != nil {
			return err
		}

		created = model.TaskDependency{
			TaskID:      taskID,
			DependsOnID: req.DependsOnID,
			Type:        depType,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		dependencyError(c, err)
		return
	}
	response.Success(c, created.ID)
}

func RemoveDependency(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseID(c, "tid")
	if !ok {
		return
	}
	depID, ok := parseID(c, "did")
	if !ok {
		return
	}
	db := orm.DB()

	var task model.ProjectTask
	if err := db.Where("project_id = ?", projectID).First(&task, taskID).Error; err != nil {
		notFoundOr(c, err, "task")
		return
	}
	var dep model.TaskDependency
	if err := db.Where("task_id = ?", taskID).First(&dep, depID).Error; err != nil {
		notFoundOr(c, err, "dependency")
		return
	}
	if err := db.Delete(&dep).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, nil)
}

// projectEdges loads the dependency edge list scoped to one project.
func projectEdges(db *gorm.DB, projectID uint) ([]taskgraph.Edge, error) {
	var deps []model.TaskDependency
	err := db.
		Joins("JOIN project_tasks ON project_tasks.id = task_dependencies.task_id").
		Where("project_tasks.project_id = ?", projectID).
		Find(&deps).Error
	if err != nil {
		return nil, err
	}
	edges := make([]taskgraph.Edge, 0, len(deps))
	for _, d := range deps {
		edges = append(edges, taskgraph.Edge{TaskID: d.TaskID, DependsOnID: d.DependsOnID})
	}
	return edges, nil
}

func dependencyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, taskgraph.ErrSelfDependency):
		response.ConflictError(c, err.Error(), response.SelfDependency)
	case errors.Is(err, taskgraph.ErrDuplicateEdge):
		response.ConflictError(c, err.Error(), response.DuplicateEdge)
	case errors.Is(err, taskgraph.ErrWouldCycle):
		response.ConflictError(c, err.Error(), response.CycleRejected)
	case errors.Is(err, errCrossProject):
		response.ConflictError(c, err.Error(), response.CrossProjectReference)
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.HTTPError(c, http.StatusNotFound, "task not found", response.NotFound)
	default:
		response.Error(c, err.Error(), response.NotSpecified)
	}
}

func RegisterTask(g *gin.RouterGroup) {
	tasks := g.Group("/projects/:id/tasks")
	tasks.GET("", RequireProjectPermission("view"), ListTasks)
	tasks.POST("", RequireProjectPermission("edit"), CreateTask)
	tasks.POST("/:tid/dependencies", RequireProjectPermission("edit"), AddDependency)
	tasks.DELETE("/:tid/dependencies/:did", RequireProjectPermission("edit"), RemoveDependency)
}
