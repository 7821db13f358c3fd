package db

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/armandusbasson/KSA-PSMS/internal/config"
	"github.com/armandusbasson/KSA-PSMS/internal/model"
)

// New opens the database named by DATABASE_URL, migrates the schema and
// seeds the default admin account when the user table is empty. Postgres
// DSNs are passed through; anything prefixed sqlite:// opens an embedded
// sqlite file.
func New(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.DB.URL)
	if err != nil {
		return nil, err
	}

	logMode := gormlogger.Silent
	if cfg.Debug {
		logMode = gormlogger.Info
	}

	database, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}

	if err := Migrate(database); err != nil {
		return nil, err
	}
	if err := seedDefaultAdmin(database, log); err != nil {
		return nil, err
	}
	return database, nil
}

func dialectorFor(url string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(url, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(url, "sqlite://")), nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url), nil
	default:
		return nil, fmt.Errorf("unsupported DATABASE_URL %q", url)
	}
}

// Migrate creates or updates the schema for every model.
func Migrate(database *gorm.DB) error {
	if err := database.AutoMigrate(
		&model.Site{},
		&model.Staff{},
		&model.SiteStaffLink{},
		&model.Vehicle{},
		&model.Contract{},
		&model.ContractSection{},
		&model.ContractLineItem{},
		&model.Meeting{},
		&model.MeetingItem{},
		&model.User{},
	); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func seedDefaultAdmin(database *gorm.DB, log zerolog.Logger) error {
	var count int64
	if err := database.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := model.User{
		Username:       "admin",
		HashedPassword: string(hashed),
		FullName:       "Administrator",
		Role:           model.UserRoleAdmin,
		IsActive:       true,
	}
	if err := database.Create(&admin).Error; err != nil {
		return err
	}
	log.Info().Str("username", admin.Username).Msg("default admin user created")
	return nil
}
