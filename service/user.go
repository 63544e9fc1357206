package service

import (
	"errors"

	"sitepm/model"
	"sitepm/orm"
	"sitepm/response"

	log "github.com/sirupsen/logrus"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateUserReq struct {
	Name     string `json:"name" binding:"required"`
	Nickname string `json:"nickname"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
	Owner    bool   `json:"owner"`
}

func CreateUser(c *gin.Context) {
	var req CreateUserReq
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	db := orm.DB()

	var role model.Role
	if err := db.Where("name = ?", req.Role).First(&role).Error; err != nil {
		response.Error(c, "unknown role "+req.Role, response.InvalidRole)
		return
	}

	var count int64
	if err := db.Model(&model.User{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	if count > 0 {
		response.ConflictError(c, "user already exists", response.DuplicateEntry)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.Error(c, "failed to hash password", response.NotSpecified)
		return
	}
	hashStr := string(hash)
	user := model.User{
		Name:     req.Name,
		Nickname: req.Nickname,
		Password: &hashStr,
		RoleID:   role.ID,
		Owner:    req.Owner,
	}
	if err := db.Create(&user).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	log.WithField("user", user.Name).Info("user created")
	response.Success(c, user.ID)
}

func ListUsers(c *gin.Context) {
	var users []model.User
	if err := orm.DB().Preload("Role").Find(&users).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, users)
}

func GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var user model.User
	err := orm.DB().Preload("Role").Preload("Permissions").First(&user, id).Error
	if err != nil {
		notFoundOr(c, err, "user")
		return
	}
	response.Success(c, user)
}

type UpdateUserRoleReq struct {
	Role  string `json:"role" binding:"required"`
	Owner *bool  `json:"owner"`
}

func UpdateUserRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRoleReq
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	db := orm.DB()

	var role model.Role
	if err := db.Where("name = ?", req.Role).First(&role).Error; err != nil {
		response.Error(c, "unknown role "+req.Role, response.InvalidRole)
		return
	}
	var user model.User
	if err := db.First(&user, id).Error; err != nil {
		notFoundOr(c, err, "user")
		return
	}
	user.RoleID = role.ID
	if req.Owner != nil {
		user.Owner = *req.Owner
	}
	if err := db.Save(&user).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, user.ID)
}

type GrantPermissionReq struct {
	Permission string `json:"permission" binding:"required"`
}

// GrantPermission attaches a direct permission grant to the user,
// independent of the role bundle.
func GrantPermission(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req GrantPermissionReq
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	db := orm.DB()

	var user model.User
	if err := db.First(&user, id).Error; err != nil {
		notFoundOr(c, err, "user")
		return
	}
	var perm model.Permission
	if err := db.Where("name = ?", req.Permission).First(&perm).Error; err != nil {
		notFoundOr(c, err, "permission")
		return
	}
	if err := db.Model(&user).Association("Permissions").Append(&perm); err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, nil)
}

func RevokePermission(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	key := c.Param("key")
	db := orm.DB()

	var user model.User
	if err := db.First(&user, id).Error; err != nil {
		notFoundOr(c, err, "user")
		return
	}
	var perm model.Permission
	if err := db.Where("name = ?", key).First(&perm).Error; err != nil {
		notFoundOr(c, err, "permission")
		return
	}
	if err := db.Model(&user).Association("Permissions").Delete(&perm); err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, nil)
}

func ListPermissions(c *gin.Context) {
	var permissions []model.Permission
	if err := orm.DB().Find(&permissions).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, permissions)
}

type CreateRoleReq struct {
	Name        string   `json:"name" binding:"required"`
	Permissions []string `json:"permissions"`
}

func CreateRole(c *gin.Context) {
	var req CreateRoleReq
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	db := orm.DB()

	var count int64
	if err := db.Model(&model.Role{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	if count > 0 {
		response.ConflictError(c, "role already exists", response.DuplicateEntry)
		return
	}

	var permissions []model.Permission
	if len(req.Permissions) > 0 {
		if err := db.Where("name IN ?", req.Permissions).Find(&permissions).Error; err != nil {
			response.Error(c, err.Error(), response.NotSpecified)
			return
		}
	}
	role := model.Role{Name: req.Name, Permissions: permissions}
	if err := db.Create(&role).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, role.ID)
}

func ListRoles(c *gin.Context) {
	var roles []model.Role
	if err := orm.DB().Preload("Permissions").Find(&roles).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, roles)
}

// DeleteRole removes a role bundle. A role still referenced by any user
// cannot be deleted.
func DeleteRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db := orm.DB()

	var role model.Role
	if err := db.First(&role, id).Error; err != nil {
		notFoundOr(c, err, "role")
		return
	}
	var inUse int64
	if err := db.Model(&model.User{}).Where("role_id = ?", role.ID).Count(&inUse).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	if inUse > 0 {
		response.ConflictError(c, "role is still assigned to users", response.RoleInUse)
		return
	}
	if err := db.Delete(&role).Error; err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, nil)
}

func userExists(db *gorm.DB, id uint) (bool, error) {
	var user model.User
	err := db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func RegisterUser(g *gin.RouterGroup) {
	users := g.Group("/users", RequirePermission("user_manage"))
	users.POST("", CreateUser)
	users.GET("", ListUsers)
	users.GET("/:id", GetUser)
	users.PUT("/:id/role", UpdateUserRole)
	users.POST("/:id/permissions", GrantPermission)
	users.DELETE("/:id/permissions/:key", RevokePermission)

	roles := g.Group("/roles", RequirePermission("user_manage"))
	roles.POST("", CreateRole)
	roles.GET("", ListRoles)
	roles.DELETE("/:id", DeleteRole)

	g.GET("/permissions", ListPermissions)
}
