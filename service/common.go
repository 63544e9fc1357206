package service

import (
	"errors"
	"net/http"
	"strconv"

	"sitepm/model"
	"sitepm/orm"
	"sitepm/perms"
	"sitepm/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// permStore backs the resolver with the relational tables.
type permStore struct {
	db *gorm.DB
}

func (s permStore) RolePermissions(role string) ([]string, error) {
	var r model.Role
	err := s.db.Preload("Permissions").Where("name = ?", role).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		keys = append(keys, p.Name)
	}
	return keys, nil
}

func (s permStore) AssignmentOverrides(projectID, userID uint) ([]string, bool, error) {
	var a model.PersonnelAssignment
	err := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []string(a.Overrides), true, nil
}

func resolver() *perms.Resolver {
	return perms.NewResolver(permStore{db: orm.DB()})
}

// loadPrincipal reads the user's current role, owner flag and direct
// grants. The token only identifies the user; authorization state always
// comes from the database so revocations take effect immediately.
func loadPrincipal(userID uint) (perms.Principal, error) {
	var user model.User
	err := orm.DB().Preload("Role").Preload("Permissions").First(&user, userID).Error
	if err != nil {
		return perms.Principal{}, err
	}
	direct := make([]string, 0, len(user.Permissions))
	for _, p := range user.Permissions {
		direct = append(direct, p.Name)
	}
	return perms.Principal{
		ID:     user.ID,
		Role:   user.Role.Name,
		Owner:  user.Owner,
		Direct: direct,
	}, nil
}

// parseID reads a positive uint path parameter; on failure it has
// already written the error response.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		response.BadRequestError(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// notFoundOr writes 404 for missing records and a generic error otherwise.
func notFoundOr(c *gin.Context, err error, what string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.HTTPError(c, http.StatusNotFound, what+" not found", response.NotFound)
		return
	}
	response.Error(c, err.Error(), response.NotSpecified)
}
