package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"libris/models"
	"libris/repositories"
)

// LoanService owns the loan lifecycle: checkout, return and renewal. Each
// loan moves from open (Returned == false) to returned exactly once, and the
// book's available-copy counter moves in lockstep: every checkout decrements
// it and the matching return increments it, so 0 <= available <= total holds
// as long as the pairing is never broken.
type LoanService interface {
	Checkout(userID, bookID uint) (*models.Loan, error)
	Return(userID, bookID uint) (*models.Loan, error)
	Renew(userID, bookID uint) (*models.Loan, error)
	ActiveLoans(userID uint) ([]models.Loan, error)
	LoanHistory(userID uint) ([]models.Loan, error)
}

type loanService struct {
	// The state transitions need the book counter update and the loan write
	// in one transaction, so this service works on the DB handle directly
	// instead of going through the repositories.
	db          *gorm.DB
	loans       repositories.LoanRepository
	loanDays    int
	maxRenewals int
}

var _ LoanService = (*loanService)(nil)

// NewLoanService creates a new LoanService instance. loanDays is the default
// loan duration, maxRenewals the per-loan renewal cap.
func NewLoanService(db *gorm.DB, loans repositories.LoanRepository, loanDays, maxRenewals int) LoanService {
	if loanDays <= 0 {
		loanDays = 14
	}
	if maxRenewals < 0 {
		maxRenewals = 2
	}
	return &loanService{db: db, loans: loans, loanDays: loanDays, maxRenewals: maxRenewals}
}

// Checkout creates an open loan for (user, book) and takes one copy off the
// shelf. The availability check and the decrement are a single guarded
// UPDATE inside the transaction, so two racing checkouts can never oversell
// the last copy.
func (s *loanService) Checkout(userID, bookID uint) (*models.Loan, error) {
	var loan *models.Loan

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// One open loan per (user, book) by policy; there is no database
		// constraint, so it has to be checked here.
		var existing int64
		err := tx.Model(&models.Loan{}).
			Where("user_id = ? AND book_id = ? AND returned = ?", userID, bookID, false).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateLoan
		}

		res := tx.Model(&models.Book{}).
			Where("id = ? AND available_copies > 0", bookID).
			UpdateColumn("available_copies", gorm.Expr("available_copies - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBookNotAvailable
		}

		now := time.Now()
		loan = &models.Loan{
			UserID:       userID,
			BookID:       bookID,
			CheckoutDate: now,
			DueDate:      now.AddDate(0, 0, s.loanDays),
		}
		return tx.Create(loan).Error
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// Return closes the caller's open loan for the book and puts the copy back on
// the shelf. Returning a book with no open loan reports ErrAlreadyReturned
// and changes nothing; the increment is guarded so the counter can never pass
// total_copies even if the ledger were ever inconsistent.
func (s *loanService) Return(userID, bookID uint) (*models.Loan, error) {
	var loan models.Loan

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND book_id = ? AND returned = ?", userID, bookID, false).
			First(&loan).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAlreadyReturned
			}
			return err
		}

		now := time.Now()
		loan.Returned = true
		loan.ReturnDate = &now
		if err := tx.Save(&loan).Error; err != nil {
			return err
		}

		return tx.Model(&models.Book{}).
			Where("id = ? AND available_copies < total_copies", bookID).
			UpdateColumn("available_copies", gorm.Expr("available_copies + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// Renew extends the caller's open loan. The due date restarts from the
// renewal moment rather than from the old due date, so renewing an overdue
// loan clears its overdue status. At most maxRenewals renewals per loan;
// past the cap nothing changes.
func (s *loanService) Renew(userID, bookID uint) (*models.Loan, error) {
	var loan models.Loan

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND book_id = ? AND returned = ?", userID, bookID, false).
			First(&loan).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if loan.RenewedCount >= s.maxRenewals {
			return ErrRenewalLimit
		}

		loan.RenewedCount++
		loan.DueDate = time.Now().AddDate(0, 0, s.loanDays)
		return tx.Save(&loan).Error
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// ActiveLoans lists the user's open loans, soonest due first.
func (s *loanService) ActiveLoans(userID uint) ([]models.Loan, error) {
	return s.loans.ActiveLoansByUser(userID)
}

// LoanHistory lists all of the user's loans, newest checkout first.
func (s *loanService) LoanHistory(userID uint) ([]models.Loan, error) {
	return s.loans.HistoryByUser(userID)
}
