package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null;size:64"`
	Email        string `gorm:"unique;not null;size:120"`
	PasswordHash string `gorm:"not null" json:"-"` // Don't expose password hash
	IsAdmin      bool   `gorm:"not null;default:false"`
	FirstName    string `gorm:"size:64"`
	LastName     string `gorm:"size:64"`
	Phone        string `gorm:"size:20"`
	Address      string `gorm:"size:256"`
	Loans        []Loan
}
