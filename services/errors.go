package services

import "errors"

// Business-rule and validation errors surfaced to the submitter. Controllers
// translate these into HTTP statuses with errors.Is; none of them leaves
// partial writes behind.
var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbidden          = errors.New("you do not have permission to perform this action")

	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("this email is already in use by another account")
	ErrISBNTaken     = errors.New("a book with this ISBN already exists")
	ErrInvalidISBN   = errors.New("ISBN must be 10 or 13 digits, or formatted with hyphens")

	ErrBookNotAvailable = errors.New("this book is not available for checkout")
	ErrDuplicateLoan    = errors.New("you already have this book checked out")
	ErrAlreadyReturned  = errors.New("this book has already been returned")
	ErrRenewalLimit     = errors.New("renewal limit reached")

	ErrCopiesBelowOnLoan = errors.New("cannot reduce total copies below the number currently on loan")
	ErrBookOnLoan        = errors.New("cannot delete book while copies are on loan")
	ErrUserHasOpenLoans  = errors.New("cannot delete user with active loans")
	ErrSelfDelete        = errors.New("you cannot delete your own account")
)
