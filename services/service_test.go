package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"libris/database"
	"libris/models"
)

// setupTestDB initializes an isolated in-memory SQLite database per test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

var isbnSeq atomic.Int64

func createTestBook(t *testing.T, db *gorm.DB, title string, copies int) *models.Book {
	t.Helper()

	book := &models.Book{
		Title:           title,
		Author:          "Test Author",
		ISBN:            fmt.Sprintf("978%010d", isbnSeq.Add(1)),
		CoverImage:      models.DefaultCover,
		TotalCopies:     copies,
		AvailableCopies: copies,
	}
	if err := db.Create(book).Error; err != nil {
		t.Fatalf("Failed to create test book: %v", err)
	}
	return book
}
