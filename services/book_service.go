package services

import (
	"errors"
	"regexp"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"libris/models"
	"libris/repositories"
)

// isbnPattern accepts plain ISBN-10, ISBN-13, or the 17-character hyphenated form.
var isbnPattern = regexp.MustCompile(`^(\d{13}|\d{10}|[\d-]{17})$`)

// CoverRemover deletes a stored cover image. Removal is best-effort: the
// catalog logs a failure and carries on, it never blocks the book mutation.
type CoverRemover interface {
	Remove(filename string) error
}

// BookService is the catalog: book CRUD with genre associations, listing
// with filters, and substring search.
type BookService interface {
	CreateBook(input *CreateBookInput) (*models.Book, error)
	GetBook(id uint) (*models.Book, error)
	UpdateBook(id uint, input *UpdateBookInput) (*models.Book, error)
	DeleteBook(id uint) error
	SetCover(id uint, filename string) (*models.Book, error)
	ListBooks(opts repositories.BookListOptions) ([]models.Book, int64, error)
	SearchBooks(query string) ([]models.Book, error)
	ListGenres() ([]models.Genre, error)
}

// --- Structs for Input ---

type CreateBookInput struct {
	Title           string `json:"title" binding:"required,max=128"`
	Author          string `json:"author" binding:"required,max=128"`
	ISBN            string `json:"isbn" binding:"required,max=20"`
	Publisher       string `json:"publisher" binding:"max=128"`
	PublicationYear int    `json:"publication_year" binding:"omitempty,min=1000,max=3000"`
	Description     string `json:"description"`
	TotalCopies     int    `json:"total_copies" binding:"required,min=1"`
	GenreIDs        []uint `json:"genre_ids"`
}

type UpdateBookInput struct {
	Title           string `json:"title" binding:"required,max=128"`
	Author          string `json:"author" binding:"required,max=128"`
	ISBN            string `json:"isbn" binding:"required,max=20"`
	Publisher       string `json:"publisher" binding:"max=128"`
	PublicationYear int    `json:"publication_year" binding:"omitempty,min=1000,max=3000"`
	Description     string `json:"description"`
	TotalCopies     int    `json:"total_copies" binding:"required,min=1"`
	GenreIDs        []uint `json:"genre_ids"`
}

type bookService struct {
	repo   repositories.BookRepository
	covers CoverRemover
	logger *zap.Logger
}

var _ BookService = (*bookService)(nil)

// NewBookService creates a new BookService instance
func NewBookService(repo repositories.BookRepository, covers CoverRemover, logger *zap.Logger) BookService {
	return &bookService{repo: repo, covers: covers, logger: logger}
}

// CreateBook validates the ISBN, checks its uniqueness, and stores the book
// with its genre set. All copies of a new book start on the shelf.
func (s *bookService) CreateBook(input *CreateBookInput) (*models.Book, error) {
	if !isbnPattern.MatchString(input.ISBN) {
		return nil, ErrInvalidISBN
	}

	if _, err := s.repo.FindByISBN(input.ISBN); err == nil {
		return nil, ErrISBNTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	genres, err := s.repo.FindGenresByID(input.GenreIDs)
	if err != nil {
		return nil, err
	}

	book := models.Book{
		Title:           input.Title,
		Author:          input.Author,
		ISBN:            input.ISBN,
		Publisher:       input.Publisher,
		PublicationYear: input.PublicationYear,
		Description:     input.Description,
		CoverImage:      models.DefaultCover,
		TotalCopies:     input.TotalCopies,
		AvailableCopies: input.TotalCopies,
		Genres:          genres,
	}

	if err := s.repo.Create(&book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (s *bookService) GetBook(id uint) (*models.Book, error) {
	book, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return book, nil
}

// UpdateBook edits book fields and the genre set. Reducing the total copy
// count below the number currently on loan is rejected without mutating
// anything; otherwise the available count is recomputed to preserve how many
// copies are out.
func (s *bookService) UpdateBook(id uint, input *UpdateBookInput) (*models.Book, error) {
	book, err := s.GetBook(id)
	if err != nil {
		return nil, err
	}

	if !isbnPattern.MatchString(input.ISBN) {
		return nil, ErrInvalidISBN
	}

	// ISBN uniqueness, excluding this book itself.
	if other, err := s.repo.FindByISBN(input.ISBN); err == nil && other.ID != book.ID {
		return nil, ErrISBNTaken
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	onLoan := book.CopiesOnLoan()
	if input.TotalCopies < onLoan {
		return nil, ErrCopiesBelowOnLoan
	}

	book.Title = input.Title
	book.Author = input.Author
	book.ISBN = input.ISBN
	book.Publisher = input.Publisher
	book.PublicationYear = input.PublicationYear
	book.Description = input.Description
	book.TotalCopies = input.TotalCopies
	book.AvailableCopies = input.TotalCopies - onLoan

	if err := s.repo.Update(book); err != nil {
		return nil, err
	}

	genres, err := s.repo.FindGenresByID(input.GenreIDs)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceGenres(book, genres); err != nil {
		return nil, err
	}

	return s.repo.FindByID(book.ID)
}

// DeleteBook removes a book from the catalog. It fails while any copy is on
// loan. A non-default cover file is removed best-effort afterwards.
func (s *bookService) DeleteBook(id uint) error {
	book, err := s.GetBook(id)
	if err != nil {
		return err
	}

	if book.AvailableCopies < book.TotalCopies {
		return ErrBookOnLoan
	}

	if err := s.repo.Delete(book); err != nil {
		return err
	}

	s.removeCover(book.CoverImage)
	return nil
}

// SetCover points the book at a freshly stored cover file and drops the
// previous one best-effort.
func (s *bookService) SetCover(id uint, filename string) (*models.Book, error) {
	book, err := s.GetBook(id)
	if err != nil {
		return nil, err
	}

	oldCover := book.CoverImage
	book.CoverImage = filename
	if err := s.repo.Update(book); err != nil {
		return nil, err
	}

	s.removeCover(oldCover)
	return book, nil
}

func (s *bookService) ListBooks(opts repositories.BookListOptions) ([]models.Book, int64, error) {
	return s.repo.FindAll(opts)
}

func (s *bookService) SearchBooks(query string) ([]models.Book, error) {
	if query == "" {
		return []models.Book{}, nil
	}
	return s.repo.Search(query)
}

func (s *bookService) ListGenres() ([]models.Genre, error) {
	return s.repo.AllGenres()
}

// removeCover deletes an old cover file. The failure is ignorable: it is
// logged at warn and never propagated. The default cover is never removed.
func (s *bookService) removeCover(filename string) {
	if filename == "" || filename == models.DefaultCover {
		return
	}
	if err := s.covers.Remove(filename); err != nil {
		s.logger.Warn("failed to remove old cover image",
			zap.String("filename", filename),
			zap.Error(err))
	}
}
