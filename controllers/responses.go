package controllers

import (
	"time"

	"libris/models"
)

// BookResponse is the JSON shape of a catalog entry.
type BookResponse struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            string    `json:"isbn"`
	Publisher       string    `json:"publisher,omitempty"`
	PublicationYear int       `json:"publication_year,omitempty"`
	Description     string    `json:"description,omitempty"`
	CoverImage      string    `json:"cover_image"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	Available       bool      `json:"available"`
	Genres          []string  `json:"genres"`
	AddedAt         time.Time `json:"added_at"`
}

// LoanResponse is the JSON shape of one checkout event.
type LoanResponse struct {
	ID           uint       `json:"id"`
	BookID       uint       `json:"book_id"`
	BookTitle    string     `json:"book_title,omitempty"`
	CheckoutDate time.Time  `json:"checkout_date"`
	DueDate      time.Time  `json:"due_date"`
	ReturnDate   *time.Time `json:"return_date,omitempty"`
	Returned     bool       `json:"returned"`
	RenewedCount int        `json:"renewed_count"`
	Overdue      bool       `json:"overdue"`
	DaysOverdue  int        `json:"days_overdue"`
}

// UserResponse is the JSON shape of a member profile.
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func mapBookToResponse(book *models.Book) BookResponse {
	genres := make([]string, 0, len(book.Genres))
	for _, g := range book.Genres {
		genres = append(genres, g.Name)
	}
	return BookResponse{
		ID:              book.ID,
		Title:           book.Title,
		Author:          book.Author,
		ISBN:            book.ISBN,
		Publisher:       book.Publisher,
		PublicationYear: book.PublicationYear,
		Description:     book.Description,
		CoverImage:      book.CoverImage,
		TotalCopies:     book.TotalCopies,
		AvailableCopies: book.AvailableCopies,
		Available:       book.IsAvailable(),
		Genres:          genres,
		AddedAt:         book.CreatedAt,
	}
}

func mapBooksToResponse(books []models.Book) []BookResponse {
	out := make([]BookResponse, len(books))
	for i := range books {
		out[i] = mapBookToResponse(&books[i])
	}
	return out
}

func mapLoanToResponse(loan *models.Loan) LoanResponse {
	return LoanResponse{
		ID:           loan.ID,
		BookID:       loan.BookID,
		BookTitle:    loan.Book.Title,
		CheckoutDate: loan.CheckoutDate,
		DueDate:      loan.DueDate,
		ReturnDate:   loan.ReturnDate,
		Returned:     loan.Returned,
		RenewedCount: loan.RenewedCount,
		Overdue:      loan.IsOverdue(),
		DaysOverdue:  loan.DaysOverdue(),
	}
}

func mapLoansToResponse(loans []models.Loan) []LoanResponse {
	out := make([]LoanResponse, len(loans))
	for i := range loans {
		out[i] = mapLoanToResponse(&loans[i])
	}
	return out
}

func mapUserToResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		Address:   user.Address,
		CreatedAt: user.CreatedAt,
	}
}
