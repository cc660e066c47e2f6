package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"libris/config"
	"libris/repositories"
	"libris/services"
	"libris/storage"
)

// BookController exposes the catalog over HTTP.
type BookController struct {
	bookService services.BookService
	covers      *storage.CoverStore
}

func NewBookController(bookService services.BookService, covers *storage.CoverStore) *BookController {
	return &BookController{bookService: bookService, covers: covers}
}

// PaginatedBooksResponse wraps one catalog page.
type PaginatedBooksResponse struct {
	Books    []BookResponse `json:"books"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// ListBooks handles GET /books?genre=&available=&sort=&page=&page_size=.
func (ctl *BookController) ListBooks(c *gin.Context) {
	perPage := config.AppConfig.BooksPerPage
	if perPage < 1 {
		perPage = 12
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(perPage)))
	if pageSize < 1 {
		pageSize = perPage
	}
	genreID, _ := strconv.ParseUint(c.Query("genre"), 10, 32)

	opts := repositories.BookListOptions{
		GenreID:      uint(genreID),
		Availability: c.Query("available"),
		SortBy:       c.DefaultQuery("sort", "title"),
		Page:         page,
		PageSize:     pageSize,
	}

	books, total, err := ctl.bookService.ListBooks(opts)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, PaginatedBooksResponse{
		Books:    mapBooksToResponse(books),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetBook handles GET /books/:id.
func (ctl *BookController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	book, err := ctl.bookService.GetBook(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapBookToResponse(book))
}

// SearchBooks handles GET /search?query=.
func (ctl *BookController) SearchBooks(c *gin.Context) {
	query := c.Query("query")

	books, err := ctl.bookService.SearchBooks(query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"query": query, "books": mapBooksToResponse(books)})
}

// ListGenres handles GET /genres.
func (ctl *BookController) ListGenres(c *gin.Context) {
	genres, err := ctl.bookService.ListGenres()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, genres)
}

// CreateBook handles POST /books (admin).
func (ctl *BookController) CreateBook(c *gin.Context) {
	var input services.CreateBookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body: " + err.Error()})
		return
	}

	book, err := ctl.bookService.CreateBook(&input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapBookToResponse(book))
}

// UpdateBook handles PUT /books/:id (admin).
func (ctl *BookController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input services.UpdateBookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body: " + err.Error()})
		return
	}

	book, err := ctl.bookService.UpdateBook(id, &input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapBookToResponse(book))
}

// DeleteBook handles DELETE /books/:id (admin).
func (ctl *BookController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctl.bookService.DeleteBook(id); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
}

// UploadCover handles POST /books/:id/cover (admin, multipart form with a
// "cover" file field).
func (ctl *BookController) UploadCover(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	header, err := c.FormFile("cover")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "A 'cover' file field is required"})
		return
	}

	src, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not read uploaded file"})
		return
	}
	defer src.Close()

	filename, err := ctl.covers.Save(src, header.Filename)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	book, err := ctl.bookService.SetCover(id, filename)
	if err != nil {
		// The book mutation failed; the freshly written file is orphaned and
		// removal is best-effort like any other cover deletion.
		_ = ctl.covers.Remove(filename)
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapBookToResponse(book))
}

// parseIDParam reads the :id path parameter, answering 400 itself on bad input.
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id format"})
		return 0, false
	}
	return uint(id), true
}
