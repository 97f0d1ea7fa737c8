package database

import (
	"fmt"
	"time"

	"cfp/config"
	"cfp/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: NewLogger(cfg.DBLogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	if cfg.SeedDemo {
		if err := SeedDemo(db); err != nil {
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}

	return db, nil
}

// NewLogger routes gorm's query log through logrus.
func NewLogger(level string) logger.Interface {
	return logger.New(logrus.StandardLogger(), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  ParseLogLevel(level),
		IgnoreRecordNotFoundError: true,
	})
}

func ParseLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamMember{},
		&models.Event{},
		&models.Format{},
		&models.Category{},
		&models.Proposal{},
		&models.Review{},
		&models.Survey{},
	)
}

// SeedDemo creates a team with an owner and an open event, once.
func SeedDemo(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Team{}).Where("slug = ?", "demo-team").Count(&count).Error; err != nil {
		return fmt.Errorf("count demo team: %w", err)
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		owner := models.User{Name: "Demo Owner", Email: "owner@demo.local"}
		if err := tx.Create(&owner).Error; err != nil {
			return err
		}

		team := models.Team{Slug: "demo-team", Name: "Demo Team"}
		if err := tx.Create(&team).Error; err != nil {
			return err
		}

		member := models.TeamMember{TeamID: team.ID, UserID: owner.ID, Role: models.RoleOwner}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		event := models.Event{
			Slug:                     "demo-conf",
			Name:                     "Demo Conf",
			TeamID:                   team.ID,
			ReviewEnabled:            true,
			DisplayProposalsReviews:  true,
			DisplayProposalsSpeakers: true,
			Formats:                  []models.Format{{Name: "Talk"}, {Name: "Workshop"}},
			Categories:               []models.Category{{Name: "Backend"}, {Name: "Frontend"}},
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"team":    team.Slug,
			"event":   event.Slug,
			"user_id": owner.ID,
		}).Info("Demo data created")
		return nil
	})
}
