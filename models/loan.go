package models

import (
	"time"

	"gorm.io/gorm"
)

// Loan records one physical checkout event. It is the join entity between
// User and Book, but unlike the book-genre association it carries state:
// an open loan (Returned == false) represents a copy currently out, and it
// transitions exactly once to returned. Loans are never deleted.
type Loan struct {
	gorm.Model
	UserID       uint `gorm:"not null;index"`
	User         User
	BookID       uint `gorm:"not null;index"`
	Book         Book
	CheckoutDate time.Time `gorm:"not null"`
	DueDate      time.Time `gorm:"not null"`
	ReturnDate   *time.Time
	Returned     bool `gorm:"not null;default:false"`
	RenewedCount int  `gorm:"not null;default:0"`
}

// IsOverdue reports whether an open loan is past its due date. Returned
// loans are never overdue, however late the return was.
func (l *Loan) IsOverdue() bool {
	return !l.Returned && time.Now().After(l.DueDate)
}

// DaysOverdue is the number of whole days the loan is past due, 0 if not overdue.
func (l *Loan) DaysOverdue() int {
	if !l.IsOverdue() {
		return 0
	}
	return int(time.Since(l.DueDate).Hours() / 24)
}
