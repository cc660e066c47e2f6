package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"libris/auth"
	"libris/services"
)

// LoanController invokes the loan ledger on behalf of the authenticated
// caller. Return and renew are implicitly scoped to the caller's own open
// loan for the book.
type LoanController struct {
	loanService services.LoanService
}

func NewLoanController(loanService services.LoanService) *LoanController {
	return &LoanController{loanService: loanService}
}

// Checkout handles POST /books/:id/checkout.
func (ctl *LoanController) Checkout(c *gin.Context) {
	bookID, ok := parseIDParam(c)
	if !ok {
		return
	}
	userID, _, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Cannot identify requesting user"})
		return
	}

	loan, err := ctl.loanService.Checkout(userID, bookID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapLoanToResponse(loan))
}

// Return handles POST /books/:id/return.
func (ctl *LoanController) Return(c *gin.Context) {
	bookID, ok := parseIDParam(c)
	if !ok {
		return
	}
	userID, _, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Cannot identify requesting user"})
		return
	}

	loan, err := ctl.loanService.Return(userID, bookID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapLoanToResponse(loan))
}

// Renew handles POST /books/:id/renew.
func (ctl *LoanController) Renew(c *gin.Context) {
	bookID, ok := parseIDParam(c)
	if !ok {
		return
	}
	userID, _, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Cannot identify requesting user"})
		return
	}

	loan, err := ctl.loanService.Renew(userID, bookID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapLoanToResponse(loan))
}

// Profile handles GET /profile: the caller's open loans plus full history.
func (ctl *LoanController) Profile(c *gin.Context) {
	userID, _, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Cannot identify requesting user"})
		return
	}

	active, err := ctl.loanService.ActiveLoans(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	history, err := ctl.loanService.LoanHistory(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"active_loans": mapLoansToResponse(active),
		"loan_history": mapLoansToResponse(history),
	})
}
