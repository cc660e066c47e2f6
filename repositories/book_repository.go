package repositories

import (
	"libris/models"

	"gorm.io/gorm"
)

// BookListOptions carries the catalog listing filters. Availability mirrors
// the query parameter values: "yes" keeps books with a free copy, "no" keeps
// fully checked-out books, anything else applies no filter.
type BookListOptions struct {
	GenreID      uint
	Availability string
	SortBy       string // "title", "author" or "newest"
	Page         int
	PageSize     int
}

// BookRepository interface defines Book- and Genre-related database operations
type BookRepository interface {
	Create(book *models.Book) error
	FindByID(id uint) (*models.Book, error)
	FindByISBN(isbn string) (*models.Book, error)
	Update(book *models.Book) error
	Delete(book *models.Book) error
	FindAll(opts BookListOptions) ([]models.Book, int64, error)
	Search(query string) ([]models.Book, error)
	ReplaceGenres(book *models.Book, genres []models.Genre) error
	FindGenresByID(ids []uint) ([]models.Genre, error)
	AllGenres() ([]models.Genre, error)
}

type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new BookRepository instance
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(book *models.Book) error {
	return r.db.Create(book).Error
}

func (r *bookRepository) FindByID(id uint) (*models.Book, error) {
	var book models.Book
	if err := r.db.Preload("Genres").First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) FindByISBN(isbn string) (*models.Book, error) {
	var book models.Book
	if err := r.db.Where("isbn = ?", isbn).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) Update(book *models.Book) error {
	return r.db.Save(book).Error
}

func (r *bookRepository) Delete(book *models.Book) error {
	// Drop join-table rows first so the genre association does not dangle.
	if err := r.db.Model(book).Association("Genres").Clear(); err != nil {
		return err
	}
	return r.db.Delete(book).Error
}

// FindAll returns one page of the catalog plus the unpaginated total.
func (r *bookRepository) FindAll(opts BookListOptions) ([]models.Book, int64, error) {
	tx := r.db.Model(&models.Book{})

	if opts.GenreID != 0 {
		tx = tx.Joins("JOIN book_genres ON book_genres.book_id = books.id").
			Where("book_genres.genre_id = ?", opts.GenreID)
	}

	switch opts.Availability {
	case "yes":
		tx = tx.Where("available_copies > 0")
	case "no":
		tx = tx.Where("available_copies = 0")
	}

	switch opts.SortBy {
	case "author":
		tx = tx.Order("author")
	case "newest":
		tx = tx.Order("created_at DESC")
	default:
		tx = tx.Order("title")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	pageSize := opts.PageSize
	if pageSize < 1 {
		pageSize = 12
	}

	var books []models.Book
	err := tx.Preload("Genres").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&books).Error
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// Search matches a case-insensitive substring against title, author and ISBN.
func (r *bookRepository) Search(query string) ([]models.Book, error) {
	var books []models.Book
	like := "%" + query + "%"
	err := r.db.Preload("Genres").
		Where("title LIKE ? OR author LIKE ? OR isbn LIKE ?", like, like, like).
		Order("title").
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

// ReplaceGenres swaps the book's genre set for the given one.
func (r *bookRepository) ReplaceGenres(book *models.Book, genres []models.Genre) error {
	return r.db.Model(book).Association("Genres").Replace(genres)
}

func (r *bookRepository) FindGenresByID(ids []uint) ([]models.Genre, error) {
	var genres []models.Genre
	if len(ids) == 0 {
		return genres, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}

func (r *bookRepository) AllGenres() ([]models.Genre, error) {
	var genres []models.Genre
	if err := r.db.Order("name").Find(&genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}
