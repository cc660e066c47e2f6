package repositories

import (
	"libris/models"

	"gorm.io/gorm"
)

// LoanRepository interface defines read access to the loan ledger. The
// checkout/return/renew transitions live in the loan service because they
// must run inside one transaction together with the book counter update.
type LoanRepository interface {
	FindByID(id uint) (*models.Loan, error)
	FindOpenLoan(userID, bookID uint) (*models.Loan, error)
	ActiveLoansByUser(userID uint) ([]models.Loan, error)
	HistoryByUser(userID uint) ([]models.Loan, error)
}

type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new LoanRepository instance
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) FindByID(id uint) (*models.Loan, error) {
	var loan models.Loan
	if err := r.db.Preload("Book").First(&loan, id).Error; err != nil {
		return nil, err
	}
	return &loan, nil
}

// FindOpenLoan returns the open loan for the (user, book) pair, if any.
// Policy allows at most one; there is no database constraint enforcing it.
func (r *loanRepository) FindOpenLoan(userID, bookID uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.Where("user_id = ? AND book_id = ? AND returned = ?", userID, bookID, false).
		First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) ActiveLoansByUser(userID uint) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.db.Preload("Book").
		Where("user_id = ? AND returned = ?", userID, false).
		Order("due_date").
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *loanRepository) HistoryByUser(userID uint) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.db.Preload("Book").
		Where("user_id = ?", userID).
		Order("checkout_date DESC").
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	return loans, nil
}
