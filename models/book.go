package models

import "gorm.io/gorm"

// DefaultCover is the sentinel cover filename assigned to books without an
// uploaded image. It is never deleted from the upload directory.
const DefaultCover = "default_cover.jpg"

type Book struct {
	gorm.Model
	Title           string `gorm:"not null;index"`
	Author          string `gorm:"not null;index"`
	ISBN            string `gorm:"uniqueIndex;size:20"`
	Publisher       string
	PublicationYear int
	Description     string `gorm:"type:text"`
	CoverImage      string `gorm:"default:default_cover.jpg"`
	TotalCopies     int    `gorm:"not null;default:1"`
	AvailableCopies int    `gorm:"not null;default:1"`
	Genres          []Genre `gorm:"many2many:book_genres;"`
	Loans           []Loan
}

// IsAvailable reports whether at least one copy can be checked out.
func (b *Book) IsAvailable() bool {
	return b.AvailableCopies > 0
}

// CopiesOnLoan is the number of copies currently checked out.
func (b *Book) CopiesOnLoan() int {
	return b.TotalCopies - b.AvailableCopies
}
