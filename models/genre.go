package models

import "gorm.io/gorm"

// Genre is a pure tag entity attached to books.
type Genre struct {
	gorm.Model
	Name  string `gorm:"unique;not null;size:64"`
	Books []Book `gorm:"many2many:book_genres;"`
}
