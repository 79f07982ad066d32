package database

import (
	"errors"
	"fmt"

	config "github.com/anjiri1684/torah_tutor/configs"
	"github.com/anjiri1684/torah_tutor/logger"
	"github.com/anjiri1684/torah_tutor/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

func ConnectDB(dsn string) error {
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	logger.Info().Msg("database connected")
	return nil
}

func Migrate() error {
	err := DB.AutoMigrate(
		&models.Profile{},
		&models.ApprovalAudit{},
		&models.Course{},
		&models.Sponsorship{},
		&models.Enrollment{},
		&models.CourseSession{},
		&models.TrialUsage{},
		&models.Conversation{},
		&models.ChatMessage{},
		&models.SalarySettings{},
		&models.MonthlyTeacherPayment{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	logger.Info().Msg("database migration successful")
	return nil
}

// SeedAdmin creates the configured admin account once.
func SeedAdmin(db *gorm.DB) error {
	adminEmail := config.Config("ADMIN_EMAIL")
	adminPassword := config.Config("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		logger.Warn().Msg("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var count int64
	if err := db.Model(&models.Profile{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		return fmt.Errorf("check for admin user: %w", err)
	}
	if count > 0 {
		logger.Debug().Msg("admin user already exists")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.Profile{
		FullName:        config.ConfigOr("ADMIN_FULL_NAME", "Administrator"),
		Email:           adminEmail,
		Password:        string(hashedPassword),
		Role:            models.RoleAdmin,
		MaxTrialLessons: models.DefaultMaxTrialLessons,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	logger.Info().Str("email", adminEmail).Msg("admin user seeded")
	return nil
}

// SeedSalarySettings stores the initial split when the table is empty.
func SeedSalarySettings(db *gorm.DB, teacherBps int) error {
	var existing models.SalarySettings
	err := db.Order("created_at DESC").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("load salary settings: %w", err)
	}
	return db.Create(&models.SalarySettings{
		TeacherShareBps: teacherBps,
		AdminShareBps:   10000 - teacherBps,
	}).Error
}
