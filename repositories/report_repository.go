package repositories

import (
	"errors"
	"time"

	"libris/models"

	"gorm.io/gorm"
)

// BookLoanCount pairs a book with how many times it has been checked out.
type BookLoanCount struct {
	Book      models.Book
	LoanCount int64
}

// GenreBookCount pairs a genre with how many books carry its tag.
type GenreBookCount struct {
	Genre     models.Genre
	BookCount int64
}

// UserLoanCount pairs a user with their all-time loan count.
type UserLoanCount struct {
	User      models.User
	LoanCount int64
}

// LibraryStats are the dashboard aggregates.
type LibraryStats struct {
	TotalBooks  int64
	TotalGenres int64
	BooksOnLoan int64
}

// ReportRepository provides the read-only aggregations behind the admin
// reports. Every method tolerates an empty database and returns empty slices.
type ReportRepository interface {
	OverdueLoans() ([]models.Loan, error)
	PopularBooks(limit int) ([]BookLoanCount, error)
	PopularGenres(limit int) ([]GenreBookCount, error)
	ActiveUsers(limit int) ([]UserLoanCount, error)
	Stats() (*LibraryStats, error)
	RecentBooks(limit int) ([]models.Book, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository instance
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// OverdueLoans lists open loans past their due date, most overdue first.
func (r *reportRepository) OverdueLoans() ([]models.Loan, error) {
	var loans []models.Loan
	err := r.db.Preload("Book").Preload("User").
		Where("returned = ? AND due_date < ?", false, time.Now()).
		Order("due_date").
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *reportRepository) PopularBooks(limit int) ([]BookLoanCount, error) {
	var rows []struct {
		BookID    uint
		LoanCount int64
	}
	err := r.db.Model(&models.Loan{}).
		Select("book_id, COUNT(*) AS loan_count").
		Group("book_id").
		Order("loan_count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]BookLoanCount, 0, len(rows))
	for _, row := range rows {
		var book models.Book
		if err := r.db.First(&book, row.BookID).Error; err != nil {
			// Historical loans may point at books removed from the catalog.
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, BookLoanCount{Book: book, LoanCount: row.LoanCount})
	}
	return out, nil
}

func (r *reportRepository) PopularGenres(limit int) ([]GenreBookCount, error) {
	var rows []struct {
		GenreID   uint
		BookCount int64
	}
	err := r.db.Table("book_genres").
		Select("genre_id, COUNT(*) AS book_count").
		Group("genre_id").
		Order("book_count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]GenreBookCount, 0, len(rows))
	for _, row := range rows {
		var genre models.Genre
		if err := r.db.First(&genre, row.GenreID).Error; err != nil {
			return nil, err
		}
		out = append(out, GenreBookCount{Genre: genre, BookCount: row.BookCount})
	}
	return out, nil
}

func (r *reportRepository) ActiveUsers(limit int) ([]UserLoanCount, error) {
	var rows []struct {
		UserID    uint
		LoanCount int64
	}
	err := r.db.Model(&models.Loan{}).
		Select("user_id, COUNT(*) AS loan_count").
		Group("user_id").
		Order("loan_count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]UserLoanCount, 0, len(rows))
	for _, row := range rows {
		var user models.User
		if err := r.db.First(&user, row.UserID).Error; err != nil {
			// Loan history of a deleted account stays in the ledger.
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, UserLoanCount{User: user, LoanCount: row.LoanCount})
	}
	return out, nil
}

func (r *reportRepository) Stats() (*LibraryStats, error) {
	var stats LibraryStats
	if err := r.db.Model(&models.Book{}).Count(&stats.TotalBooks).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Genre{}).Count(&stats.TotalGenres).Error; err != nil {
		return nil, err
	}
	err := r.db.Model(&models.Book{}).
		Where("available_copies < total_copies").
		Count(&stats.BooksOnLoan).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *reportRepository) RecentBooks(limit int) ([]models.Book, error) {
	var books []models.Book
	err := r.db.Preload("Genres").
		Order("created_at DESC").
		Limit(limit).
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}
