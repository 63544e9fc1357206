package service

import (
	"net/http"

	"sitepm/model"
	"sitepm/orm"
	"sitepm/perms"
	"sitepm/response"
	"sitepm/util"

	log "github.com/sirupsen/logrus"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type LoginReq struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	var user model.User
	err := orm.DB().Preload("Role").Where("name = ?", req.Name).First(&user).Error
	if err != nil || user.Password == nil {
		response.HTTPError(c, http.StatusUnauthorized, "wrong name or password", response.UserNotFound)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(req.Password)) != nil {
		response.HTTPError(c, http.StatusUnauthorized, "wrong name or password", response.UserNotFound)
		return
	}

	access, refresh, err := util.GetTokenMgr().CreateTokens(&util.JWTMessage{
		UserID:   user.ID,
		Username: user.Name,
		Role:     model.GlobalRole(user.Role.Name),
		Owner:    user.Owner,
	})
	if err != nil {
		response.Error(c, "failed to create tokens", response.NotSpecified)
		return
	}
	log.WithField("user", user.Name).Info("user logged in")
	response.Success(c, TokenPair{AccessToken: access, RefreshToken: refresh})
}

type RefreshReq struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func Refresh(c *gin.Context) {
	var req RefreshReq
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	msg, err := util.GetTokenMgr().CheckToken(req.RefreshToken)
	if err != nil {
		response.HTTPError(c, http.StatusUnauthorized, err.Error(), response.TokenExpired)
		return
	}
	access, refresh, err := util.GetTokenMgr().CreateTokens(&msg)
	if err != nil {
		response.Error(c, "failed to create tokens", response.NotSpecified)
		return
	}
	response.Success(c, TokenPair{AccessToken: access, RefreshToken: refresh})
}

// Me returns the profile and the globally scoped effective permission set.
func Me(c *gin.Context) {
	msg, ok := currentUser(c)
	if !ok {
		response.HTTPError(c, http.StatusUnauthorized, "not authenticated", response.InvalidToken)
		return
	}
	principal, err := loadPrincipal(msg.UserID)
	if err != nil {
		notFoundOr(c, err, "user")
		return
	}
	set, err := resolver().Resolve(principal, perms.NoProject)
	if err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, gin.H{
		"id":          principal.ID,
		"name":        msg.Username,
		"role":        principal.Role,
		"owner":       principal.Owner,
		"permissions": set.Keys(),
	})
}

func RegisterAuth(g *gin.RouterGroup) {
	g.POST("/login", Login)
	g.POST("/refresh", Refresh)
}

func RegisterMe(g *gin.RouterGroup) {
	g.GET("/me", Me)
}
