// Migration and seeding script.
package main

import (
	"fmt"

	"sitepm/config"
	"sitepm/model"
	"sitepm/perms"

	"github.com/go-gormigrate/gormigrate/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
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
	db := connectPostgres()

	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			// create contracts table
			ID: "2026021001",
			Migrate: func(tx *gorm.DB) error {
				// it's a good practice to copy the struct inside the function,
				// so side effects are prevented if the original struct changes during the time
				type Contract struct {
					gorm.Model
					ProjectID  uint   `gorm:"index;not null"`
					Title      string `gorm:"type:varchar(256);not null"`
					Amount     int64  `gorm:"not null;default:0"`
					Status     string `gorm:"type:varchar(32);not null;default:draft"`
					Describe   string `gorm:"type:text"`
					ApproverID *uint
				}
				return tx.Migrator().CreateTable(&Contract{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("contracts")
			},
		},
	})

	m.InitSchema(func(tx *gorm.DB) error {
		err := tx.AutoMigrate(
			&model.Permission{},
			&model.Role{},
			&model.User{},
			&model.Project{},
			&model.PersonnelAssignment{},
			&model.AcceptanceStage{},
			&model.Defect{},
			&model.ProjectTask{},
			&model.TaskDependency{},
			&model.Contract{},
		)
		if err != nil {
			return err
		}
		return seed(tx)
	})

	if err := m.Migrate(); err != nil {
		panic(fmt.Errorf("could not migrate: %w", err))
	}
}

// seed fills the permission catalog, the default role bundles and the
// bootstrap admin account.
func seed(tx *gorm.DB) error {
	permByName := make(map[string]model.Permission, len(perms.Keys))
	for _, key := range perms.Keys {
		p := model.Permission{Name: key}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		permByName[key] = p
	}

	pick := func(keys ...string) []model.Permission {
		out := make([]model.Permission, 0, len(keys))
		for _, k := range keys {
			out = append(out, permByName[k])
		}
		return out
	}

	roles := []model.Role{
		{Name: string(model.GlobalRoleAdmin), Permissions: pick(perms.Keys...)},
		{Name: string(model.GlobalRoleManager), Permissions: pick(
			"view", "edit", "approve", "project_manage", "manage_all", "contract_approve")},
		{Name: string(model.GlobalRoleStaff), Permissions: pick("view", "edit")},
		{Name: string(model.GlobalRoleViewer), Permissions: pick("view")},
	}
	for i := range roles {
		if err := tx.Create(&roles[i]).Error; err != nil {
			return err
		}
	}

	auth := config.GetConfig().Auth
	name := auth.AdminName
	if name == "" {
		name = "admin"
	}
	password := auth.AdminPassword
	if password == "" {
		password = "Admin123!"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hashStr := string(hash)
	admin := model.User{
		Name:     name,
		Nickname: "Administrator",
		Password: &hashStr,
		RoleID:   roles[0].ID,
		Owner:    true,
	}
	return tx.Create(&admin).Error
}
