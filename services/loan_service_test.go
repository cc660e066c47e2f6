package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"libris/models"
	"libris/repositories"
)

func newLoanService(db *gorm.DB) LoanService {
	return NewLoanService(db, repositories.NewLoanRepository(db), 14, 2)
}

func reloadBook(t *testing.T, db *gorm.DB, id uint) *models.Book {
	t.Helper()
	var book models.Book
	require.NoError(t, db.First(&book, id).Error)
	return &book
}

func TestCheckoutDecrementsAvailableCopies(t *testing.T) {
	db := setupTestDB(t)
	svc := newLoanService(db)
	user := createTestUser(t, db, "alice")
	book := createTestBook(t, db, "The Go Programming Language", 3)

	loan, err := svc.Checkout(user.ID, book.ID)
	require.NoError(t, err)

	assert.False(t, loan.Returned)
	assert.Equal(t, 0, loan.RenewedCount)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 14), loan.DueDate, time.Minute)

	after := reloadBook(t, db, book.ID)
	assert.Equal(t, 2, after.AvailableCopies)
	assert.Equal(t, 3, after.TotalCopies)
}

func TestCheckoutFailsWhenNoCopiesAvailable(t *testing.T) {
	db := setupTestDB(t)
	svc := newLoanService(db)
	user := createTestUser(t, db, "alice")
	book := createTestBook(t, db, "Rare Book", 1)
	book.AvailableCopies = 0
	require.NoError(t, db.Save(book).Error)

	_, err := svc.Checkout(user.ID, book.ID)
	assert.ErrorIs(t, err, ErrBookNotAvailable)

	after := reloadBook(t, db, book.ID)
	assert.Equal(t, 0, after.AvailableCopies)

	var loans int64
	db.Model(&models.Loan{}).Count(&loans)
	assert.Zero(t, loans, "failed checkout must not create a loan")
}

func TestCheckoutFailsWithDuplicateOpenLoan(t *testing.T) {
	db := setupTestDB(t)
	svc := newLoanService(db)
	user := createTestUser(t, db, "alice")
	book := createTestBook(t, db, "Popular Book", 5)

	_, err := svc.Checkout(user.ID, book.ID)
	require.NoError(t, err)

	_, err = svc.Checkout(user.ID, book.ID)
	assert.ErrorIs(t, err, ErrDuplicateLoan)

	after := reloadBook(t, db, book.ID)
	assert.Equal(t, 4, after.AvailableCopies, "rejected checkout must not touch the counter")
}

func TestCheckoutMissingBook(t *testing.T) {
	db := setupTestDB(t)
	svc := newLoanService(db)
	user := createTestUser(t, db, "alice")

	_, err := svc.Checkout(user.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReturnRestoresAvailability(t *testing.T) {
	db := setupTestDB(t)
	svc := newLoanService(db)
	user := createTestUser(t, db, "alice")
	book := createTestBook(t, db, "Borrowed Book", 2)

	_, err := svc.Checkout(user.ID, book.ID)
	require.NoError(t, err)
	require.Equal(t, 1, reloadBook(t, db, book.ID).AvailableCopies)

	loan, err := svc.Return(user.ID, book.ID)
	require.NoError(t, err)

	assert.True(t, loan.Returned)
	require.NotNil(t, loan.ReturnDate)
	assert.WithinDuration(t, time.Now(), *loan.ReturnDate, time.Minute)

	after := reloadBook(t, db, book.ID)
	assert.Equal(t, 2, after.AvailableCopies, "checkout then return must restore the pre-checkout count")
}

func TestReturnIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := newLoanService(db)
	user := createTestUser(t, db, "alice")
	book := createTestBook(t, db, "Returned Book", 1)

	_, err := svc.Checkout(user.ID, book.ID)
	require.NoError(t, err)
	_, err = svc.Return(user.ID, book.ID)
	require.NoError(t, err)

	// Second return: reported as already returned, no state change.
	_, err = svc.Return(user.ID, book.ID)
	assert.ErrorIs(t, err, ErrAlreadyReturned)

	after := reloadBook(t, db, book.ID)
	assert.Equal(t, 1, after.AvailableCopies)
	assert.LessOrEqual(t, after.AvailableCopies, after.TotalCopies)
}

func TestRenewStopsAtLimit(t *testing.T) {
	db := setupTestDB(t)
	svc := newLoanService(db)
	user := createTestUser(t, db, "alice")
	book := createTestBook(t, db, "Renewable Book", 1)

	_, err := svc.Checkout(user.ID, book.ID)
	require.NoError(t, err)

	loan, err := svc.Renew(user.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loan.RenewedCount)

	loan, err = svc.Renew(user.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, loan.RenewedCount)

	// Third renewal exceeds the cap and must not change anything.
	beforeDue := loan.DueDate
	_, err = svc.Renew(user.ID, book.ID)
	assert.ErrorIs(t, err, ErrRenewalLimit)

	var stored models.Loan
	require.NoError(t, db.First(&stored, loan.ID).Error)
	assert.Equal(t, 2, stored.RenewedCount)
	assert.WithinDuration(t, beforeDue, stored.DueDate, time.Second)
}

// Renewal restarts the clock from the renewal moment instead of extending
// the old due date, so an overdue loan stops being overdue once renewed.
// That leniency is intentional behavior, preserved as-is.
func TestRenewResetsDueDateFromRenewalMoment(t *testing.T) {
	db := setupTestDB(t)
	svc := newLoanService(db)
	user := createTestUser(t, db, "alice")
	book := createTestBook(t, db, "Overdue Book", 1)

	_, err := svc.Checkout(user.ID, book.ID)
	require.NoError(t, err)

	// Backdate the loan so it is overdue.
	require.NoError(t, db.Model(&models.Loan{}).
		Where("user_id = ? AND book_id = ?", user.ID, book.ID).
		Updates(map[string]interface{}{
			"checkout_date": time.Now().AddDate(0, 0, -30),
			"due_date":      time.Now().AddDate(0, 0, -16),
		}).Error)

	var before models.Loan
	require.NoError(t, db.Where("user_id = ? AND book_id = ?", user.ID, book.ID).First(&before).Error)
	require.True(t, before.IsOverdue())
	require.Equal(t, 16, before.DaysOverdue())

	loan, err := svc.Renew(user.ID, book.ID)
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now().AddDate(0, 0, 14), loan.DueDate, time.Minute)
	assert.False(t, loan.IsOverdue(), "renewal clears overdue status")
	assert.Zero(t, loan.DaysOverdue())
}

func TestRenewWithoutOpenLoan(t *testing.T) {
	db := setupTestDB(t)
	svc := newLoanService(db)
	user := createTestUser(t, db, "alice")
	book := createTestBook(t, db, "Unborrowed Book", 1)

	_, err := svc.Renew(user.ID, book.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// Book with two copies and three borrowers: the third checkout fails and the
// counter walks 2 -> 1 -> 0 -> 0 -> 1 across the scenario.
func TestTwoCopiesThreeBorrowers(t *testing.T) {
	db := setupTestDB(t)
	svc := newLoanService(db)
	userA := createTestUser(t, db, "usera")
	userB := createTestUser(t, db, "userb")
	userC := createTestUser(t, db, "userc")
	book := createTestBook(t, db, "Contested Book", 2)

	_, err := svc.Checkout(userA.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloadBook(t, db, book.ID).AvailableCopies)

	_, err = svc.Checkout(userB.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloadBook(t, db, book.ID).AvailableCopies)

	_, err = svc.Checkout(userC.ID, book.ID)
	assert.ErrorIs(t, err, ErrBookNotAvailable)
	assert.Equal(t, 0, reloadBook(t, db, book.ID).AvailableCopies)

	_, err = svc.Return(userA.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloadBook(t, db, book.ID).AvailableCopies)
}

func TestActiveLoansAndHistory(t *testing.T) {
	db := setupTestDB(t)
	svc := newLoanService(db)
	user := createTestUser(t, db, "alice")
	first := createTestBook(t, db, "First Book", 1)
	second := createTestBook(t, db, "Second Book", 1)

	_, err := svc.Checkout(user.ID, first.ID)
	require.NoError(t, err)
	_, err = svc.Checkout(user.ID, second.ID)
	require.NoError(t, err)
	_, err = svc.Return(user.ID, first.ID)
	require.NoError(t, err)

	active, err := svc.ActiveLoans(user.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].BookID)

	history, err := svc.LoanHistory(user.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}
