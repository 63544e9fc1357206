package main

import (
	"sitepm/config"
	"sitepm/logutils"
	"sitepm/orm"
	"sitepm/service"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.GetConfig()

	// opens the postgres connection, fatal on failure
	orm.DB()

	r := gin.Default()
	api := r.Group("/api")
	service.RegisterAuth(api)

	authed := api.Group("", service.AuthMiddleware())
	service.RegisterMe(authed)
	service.RegisterUser(authed)
	service.RegisterProject(authed)
	service.RegisterStage(authed)
	service.RegisterDefect(authed)
	service.RegisterTask(authed)
	service.RegisterContract(authed)

	err := r.Run(":" + cfg.Server.Port)
	if err != nil {
		logutils.Log.Fatal(err)
	}
}
