// Generates typed query code for all tables.
package main

import (
	"fmt"

	"sitepm/config"
	"sitepm/model"

	"gorm.io/driver/postgres"
	"gorm.io/gen"
	"gorm.io/gorm"
)

func connectPostgres() *gorm.DB {
	pg := config.GetConfig().Postgres
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		pg.Host, pg.User, pg.Password, pg.DBName, pg.Port, pg.SSLMode, pg.TimeZone)
	db, err := gorm.Open(postgres.Open(dsn))
	if err != nil {
		panic(fmt.Errorf("connect to postgres: %w", err))
	}
	return db
}

func main() {
	g := gen.NewGenerator(gen.Config{
		OutPath: "./dao/query",
		Mode:    gen.WithDefaultQuery | gen.WithQueryInterface,
	})

	g.UseDB(connectPostgres())

	g.ApplyBasic(
		model.Permission{},
		model.Role{},
		model.User{},
		model.Project{},
		model.PersonnelAssignment{},
		model.AcceptanceStage{},
		model.Defect{},
		model.ProjectTask{},
		model.TaskDependency{},
		model.Contract{},
	)

	g.Execute()
}
