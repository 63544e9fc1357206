package orm

import (
	"fmt"
	"sync"
	"time"

	"sitepm/config"
	"sitepm/logutils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	instance *gorm.DB
	once     sync.Once
)

// DB returns the shared gorm handle, opening the postgres connection on
// first use.
func DB() *gorm.DB {
	once.Do(func() {
		db, err := open()
		if err != nil {
			logutils.Log.Fatalf("connect to postgres: %v", err)
		}
		instance = db
	})
	return instance
}

func open() (*gorm.DB, error) {
	pg := config.GetConfig().Postgres

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		pg.Host, pg.User, pg.Password, pg.DBName, pg.Port, pg.SSLMode, pg.TimeZone)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logutils.Log.Info("Postgres init success!")
	return db, nil
}
