package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"libris/config"
	"libris/models"
)

var DB *gorm.DB

func InitDB() *gorm.DB {
	dsn := config.AppConfig.DatabaseURL

	// GORM logger configuration
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		panic(fmt.Errorf("failed to connect database: %w", err))
	}

	if err := Migrate(db); err != nil {
		panic(fmt.Errorf("failed to migrate database: %w", err))
	}

	DB = db
	fmt.Println("Database connection successful and migrations complete.")

	// Seed a base genre taxonomy so the catalog has something to tag against
	SeedGenres(db)

	return db
}

// Migrate creates or updates the schema for all entities, including the
// book_genres join table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Genre{},
		&models.Book{},
		&models.Loan{},
	)
}

// SeedGenres inserts the default genre set, skipping names that already exist.
func SeedGenres(db *gorm.DB) {
	genres := []string{
		"Fiction", "Non-Fiction", "Science Fiction", "Fantasy", "Mystery",
		"Biography", "History", "Science", "Poetry", "Children",
	}

	for _, name := range genres {
		var existing models.Genre
		if err := db.Where("name = ?", name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&models.Genre{Name: name}).Error; err != nil {
				log.Printf("Failed to seed genre %s: %v\n", name, err)
			}
		}
	}
}
