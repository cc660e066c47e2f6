package services

import (
	"libris/models"
	"libris/repositories"
)

// Report bundles the admin reporting views. Everything here is read-only
// and derived; empty result sets come back as empty slices, not errors.
type Report struct {
	OverdueLoans  []models.Loan                  `json:"overdue_loans"`
	PopularBooks  []repositories.BookLoanCount   `json:"popular_books"`
	PopularGenres []repositories.GenreBookCount  `json:"popular_genres"`
	ActiveUsers   []repositories.UserLoanCount   `json:"active_users"`
}

// Dashboard carries the public landing-page aggregates.
type Dashboard struct {
	Stats         *repositories.LibraryStats    `json:"stats"`
	RecentBooks   []models.Book                 `json:"recent_books"`
	PopularGenres []repositories.GenreBookCount `json:"popular_genres"`
}

type ReportService interface {
	LibraryReport() (*Report, error)
	LibraryDashboard() (*Dashboard, error)
}

type reportService struct {
	repo repositories.ReportRepository
}

var _ ReportService = (*reportService)(nil)

// NewReportService creates a new ReportService instance
func NewReportService(repo repositories.ReportRepository) ReportService {
	return &reportService{repo: repo}
}

const reportLimit = 10

func (s *reportService) LibraryReport() (*Report, error) {
	overdue, err := s.repo.OverdueLoans()
	if err != nil {
		return nil, err
	}
	books, err := s.repo.PopularBooks(reportLimit)
	if err != nil {
		return nil, err
	}
	genres, err := s.repo.PopularGenres(reportLimit)
	if err != nil {
		return nil, err
	}
	users, err := s.repo.ActiveUsers(reportLimit)
	if err != nil {
		return nil, err
	}

	return &Report{
		OverdueLoans:  overdue,
		PopularBooks:  books,
		PopularGenres: genres,
		ActiveUsers:   users,
	}, nil
}

func (s *reportService) LibraryDashboard() (*Dashboard, error) {
	stats, err := s.repo.Stats()
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.RecentBooks(8)
	if err != nil {
		return nil, err
	}
	genres, err := s.repo.PopularGenres(5)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Stats:         stats,
		RecentBooks:   recent,
		PopularGenres: genres,
	}, nil
}
