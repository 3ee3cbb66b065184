package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/zawajapp/zawaj-backend/internal/config"
	"github.com/zawajapp/zawaj-backend/internal/domain"
	"github.com/zawajapp/zawaj-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "configs/config.local.yaml", "config file path")
	seed := flag.Bool("seed", true, "seed default moderation settings")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logLevel := gormlogger.Warn
	if *verbose {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.GetDSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("[migrate] Running schema migration")
	if err := db.AutoMigrate(
		&domain.Profile{},
		&domain.GuardianDetails{},
		&domain.GroomDetails{},
		&domain.PrivacyConfiguration{},
		&domain.GuardianApproval{},
		&domain.MarriageRequest{},
		&domain.ChatChannel{},
		&domain.Message{},
		&domain.FlaggedMessage{},
		&domain.Report{},
		&domain.ModerationSetting{},
	); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}
	log.Println("[migrate] Schema migration complete")

	if *seed {
		seedSettings(db)
	}
}

// seedSettings inserts the default moderation settings, skipping any key
// an admin has already tuned. The engine expiry windows are not seeded:
// with no stored row they follow the deployment config, and a row is only
// written when an admin overrides them at runtime.
func seedSettings(db *gorm.DB) {
	defaults := map[string]string{
		service.KeyBannedWords:         "",
		service.KeyHighRiskWords:       "",
		service.KeyAutoApprove:         "true",
		service.KeyHourlyLimit:         "20",
		service.KeyDailyLimit:          "100",
		service.KeySeverityMediumTerms: "2",
		service.KeySeverityHighTerms:   "4",
	}

	seeded := 0
	for key, value := range defaults {
		result := db.Exec(
			"INSERT IGNORE INTO moderation_settings (`key`, value, updated_by, updated_at) VALUES (?, ?, 'system', NOW())",
			key, value,
		)
		if result.Error != nil {
			log.Printf("[migrate:seed] Warning: %s: %v", key, result.Error)
			continue
		}
		seeded += int(result.RowsAffected)
	}
	log.Printf("[migrate:seed] Seeded %d settings", seeded)
}
