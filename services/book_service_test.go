package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"libris/models"
	"libris/repositories"
)

// fakeCoverRemover records removals and optionally fails every call.
type fakeCoverRemover struct {
	removed []string
	fail    bool
}

func (f *fakeCoverRemover) Remove(filename string) error {
	f.removed = append(f.removed, filename)
	if f.fail {
		return errors.New("disk on fire")
	}
	return nil
}

func newBookService(db *gorm.DB) (BookService, *fakeCoverRemover) {
	covers := &fakeCoverRemover{}
	return NewBookService(repositories.NewBookRepository(db), covers, zap.NewNop()), covers
}

func seedGenres(t *testing.T, db *gorm.DB, names ...string) []uint {
	t.Helper()
	ids := make([]uint, 0, len(names))
	for _, name := range names {
		genre := models.Genre{Name: name}
		require.NoError(t, db.Create(&genre).Error)
		ids = append(ids, genre.ID)
	}
	return ids
}

func TestCreateBookWithGenres(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newBookService(db)
	genreIDs := seedGenres(t, db, "Fiction", "Mystery")

	book, err := svc.CreateBook(&CreateBookInput{
		Title:       "Gone Missing",
		Author:      "A. Writer",
		ISBN:        "9781234567897",
		TotalCopies: 3,
		GenreIDs:    genreIDs,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, book.AvailableCopies, "all copies of a new book start available")
	assert.Equal(t, models.DefaultCover, book.CoverImage)
	assert.Len(t, book.Genres, 2)
}

func TestCreateBookRejectsBadISBN(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newBookService(db)

	_, err := svc.CreateBook(&CreateBookInput{
		Title:       "Bad ISBN",
		Author:      "A. Writer",
		ISBN:        "not-an-isbn",
		TotalCopies: 1,
	})
	assert.ErrorIs(t, err, ErrInvalidISBN)
}

func TestCreateBookRejectsDuplicateISBN(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newBookService(db)

	input := CreateBookInput{
		Title:       "Original",
		Author:      "A. Writer",
		ISBN:        "9781111111119",
		TotalCopies: 1,
	}
	_, err := svc.CreateBook(&input)
	require.NoError(t, err)

	input.Title = "Copycat"
	_, err = svc.CreateBook(&input)
	assert.ErrorIs(t, err, ErrISBNTaken)
}

func TestUpdateBookRecomputesAvailableCopies(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newBookService(db)
	book := createTestBook(t, db, "Growing Book", 3)

	// Simulate two copies on loan.
	book.AvailableCopies = 1
	require.NoError(t, db.Save(book).Error)

	updated, err := svc.UpdateBook(book.ID, &UpdateBookInput{
		Title:       book.Title,
		Author:      book.Author,
		ISBN:        book.ISBN,
		TotalCopies: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, updated.TotalCopies)
	assert.Equal(t, 3, updated.AvailableCopies, "the two copies on loan stay on loan")
}

func TestUpdateBookRejectsReducingBelowOnLoan(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newBookService(db)
	book := createTestBook(t, db, "Shrinking Book", 3)

	book.AvailableCopies = 1 // two on loan
	require.NoError(t, db.Save(book).Error)

	_, err := svc.UpdateBook(book.ID, &UpdateBookInput{
		Title:       book.Title,
		Author:      book.Author,
		ISBN:        book.ISBN,
		TotalCopies: 1,
	})
	assert.ErrorIs(t, err, ErrCopiesBelowOnLoan)

	var after models.Book
	require.NoError(t, db.First(&after, book.ID).Error)
	assert.Equal(t, 3, after.TotalCopies, "rejected update must not mutate")
	assert.Equal(t, 1, after.AvailableCopies)
}

func TestUpdateBookReplacesGenres(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newBookService(db)
	genreIDs := seedGenres(t, db, "Fiction", "History", "Poetry")

	book, err := svc.CreateBook(&CreateBookInput{
		Title:       "Regenred",
		Author:      "A. Writer",
		ISBN:        "9782222222227",
		TotalCopies: 1,
		GenreIDs:    genreIDs[:2],
	})
	require.NoError(t, err)

	updated, err := svc.UpdateBook(book.ID, &UpdateBookInput{
		Title:       book.Title,
		Author:      book.Author,
		ISBN:        book.ISBN,
		TotalCopies: 1,
		GenreIDs:    genreIDs[2:],
	})
	require.NoError(t, err)

	require.Len(t, updated.Genres, 1)
	assert.Equal(t, "Poetry", updated.Genres[0].Name)
}

func TestDeleteBookRejectedWhileOnLoan(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newBookService(db)
	book := createTestBook(t, db, "Loaned Book", 2)

	book.AvailableCopies = 1
	require.NoError(t, db.Save(book).Error)

	err := svc.DeleteBook(book.ID)
	assert.ErrorIs(t, err, ErrBookOnLoan)

	var count int64
	db.Model(&models.Book{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestDeleteBookRemovesCoverBestEffort(t *testing.T) {
	db := setupTestDB(t)
	svc, covers := newBookService(db)
	covers.fail = true // removal failure must not block the delete
	book := createTestBook(t, db, "Covered Book", 1)

	book.CoverImage = "20240101120000_cover.jpg"
	require.NoError(t, db.Save(book).Error)

	require.NoError(t, svc.DeleteBook(book.ID))
	assert.Equal(t, []string{"20240101120000_cover.jpg"}, covers.removed)
}

func TestDeleteBookNeverRemovesDefaultCover(t *testing.T) {
	db := setupTestDB(t)
	svc, covers := newBookService(db)
	book := createTestBook(t, db, "Plain Book", 1)

	require.NoError(t, svc.DeleteBook(book.ID))
	assert.Empty(t, covers.removed)
}

func TestSetCoverDropsOldFile(t *testing.T) {
	db := setupTestDB(t)
	svc, covers := newBookService(db)
	book := createTestBook(t, db, "Recovered Book", 1)

	book.CoverImage = "20240101120000_old.jpg"
	require.NoError(t, db.Save(book).Error)

	updated, err := svc.SetCover(book.ID, "20250101120000_new.jpg")
	require.NoError(t, err)

	assert.Equal(t, "20250101120000_new.jpg", updated.CoverImage)
	assert.Equal(t, []string{"20240101120000_old.jpg"}, covers.removed)
}

func TestSearchBooks(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newBookService(db)
	createTestBook(t, db, "The Wind in the Willows", 1)
	createTestBook(t, db, "Windswept", 1)
	createTestBook(t, db, "Calm Waters", 1)

	books, err := svc.SearchBooks("wind")
	require.NoError(t, err)
	assert.Len(t, books, 2)

	books, err = svc.SearchBooks("")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestListBooksFiltersAndPaginates(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newBookService(db)
	genreIDs := seedGenres(t, db, "Fantasy")

	tagged, err := svc.CreateBook(&CreateBookInput{
		Title:       "A Tagged Tale",
		Author:      "Z. Author",
		ISBN:        "9783333333337",
		TotalCopies: 1,
		GenreIDs:    genreIDs,
	})
	require.NoError(t, err)
	createTestBook(t, db, "Unavailable Book", 1)
	require.NoError(t, db.Model(&models.Book{}).
		Where("title = ?", "Unavailable Book").
		Update("available_copies", 0).Error)

	books, total, err := svc.ListBooks(repositories.BookListOptions{GenreID: genreIDs[0]})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, books, 1)
	assert.Equal(t, tagged.ID, books[0].ID)

	books, total, err = svc.ListBooks(repositories.BookListOptions{Availability: "no"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, books, 1)
	assert.Equal(t, "Unavailable Book", books[0].Title)

	_, total, err = svc.ListBooks(repositories.BookListOptions{Page: 2, PageSize: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}
