package service

import (
	"errors"
	"net/http"

	"sitepm/model"
	"sitepm/orm"
	"sitepm/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateContractReq struct {
	Title    string `json:"title" binding:"required"`
	Amount   int64  `json:"amount"`
	Describe string `json:"describe"`
}

func CreateContract(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req CreateContractReq
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
	contract := model.Contract{
		ProjectID: projectID,
		Title:     req.Title,
		Amount:    req.Amount,
		Describe:  req.Describe,
		Status:    model.ContractDraft,
	}
	if err := db.Create(&contract).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, contract.ID)
}

func ListContracts(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var contracts []model.Contract
	if err := orm.DB().Where("project_id = ?", projectID).Find(&contracts).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, contracts)
}

// moveContract applies one step of draft -> submitted -> approved/rejected
// inside a transaction, so concurrent decisions on the same contract
// cannot both succeed.
func moveContract(c *gin.Context, from []model.ContractStatus, to model.ContractStatus, recordApprover bool) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	contractID, ok := parseID(c, "cid")
	if !ok {
		return
	}
	msg, ok := currentUser(c)
	if !ok {
		response.HTTPError(c, http.StatusUnauthorized, "not authenticated", response.InvalidToken)
		return
	}

	var moved model.Contract
	err := orm.DB().Transaction(func(tx *gorm.DB) error {
		var contract model.Contract
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("project_id = ?", projectID).First(&contract, contractID).Error; err != nil {
			return err
		}
		allowed := false
		for _, s := range from {
			if contract.Status == s {
				allowed = true
				break
			}
		}
		if !allowed {
			return errContractTransition
		}
		contract.Status = to
		if recordApprover {
			contract.ApproverID = &msg.UserID
		}
		moved = contract
		return tx.Save(&contract).Error
	})
	if err != nil {
		contractError(c, err)
		return
	}
	response.Success(c, moved)
}

var errContractTransition = errors.New("contract is not in the required status")

func SubmitContract(c *gin.Context) {
	moveContract(c, []model.ContractStatus{model.ContractDraft}, model.ContractSubmitted, false)
}

func ApproveContract(c *gin.Context) {
	moveContract(c, []model.ContractStatus{model.ContractSubmitted}, model.ContractApproved, true)
}

func RejectContract(c *gin.Context) {
	moveContract(c, []model.ContractStatus{model.ContractSubmitted}, model.ContractRejected, true)
}

func contractError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errContractTransition):
		response.ConflictError(c, err.Error(), response.InvalidStateTransition)
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.HTTPError(c, http.StatusNotFound, "contract not found", response.NotFound)
	default:
		response.Error(c, err.Error(), response.NotSpecified)
	}
}

func RegisterContract(g *gin.RouterGroup) {
	contracts := g.Group("/projects/:id/contracts")
	contracts.GET("", RequireProjectPermission("financial_view"), ListContracts)
	contracts.POST("", RequireProjectPermission("edit"), CreateContract)
	contracts.POST("/:cid/submit", RequireProjectPermission("edit"), SubmitContract)
	contracts.POST("/:cid/approve", RequireProjectPermission("contract_approve"), ApproveContract)
	contracts.POST("/:cid/reject", RequireProjectPermission("contract_approve"), RejectContract)
}
