package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"libris/auth"
	"libris/config"
	"libris/controllers"
	"libris/database"
	"libris/middleware"
	"libris/repositories"
	"libris/services"
	"libris/storage"
)

func main() {
	// Initialize configs
	config.InitConfig()

	var logger *zap.Logger
	switch config.AppConfig.LogLevel {
	case "debug":
		logger, _ = zap.NewDevelopment()
	default:
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync() // Make sure the buffer is flushed before the program exits

	auth.SetSigningKey([]byte(config.AppConfig.JwtSecret))

	db := database.InitDB()

	covers, err := storage.NewCoverStore(config.AppConfig.UploadDir)
	if err != nil {
		logger.Fatal("Failed to initialize cover storage", zap.Error(err))
	}

	bookRepo := repositories.NewBookRepository(db)
	userRepo := repositories.NewUserRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	reportRepo := repositories.NewReportRepository(db)

	bookService := services.NewBookService(bookRepo, covers, logger)
	userService := services.NewUserService(userRepo)
	loanService := services.NewLoanService(db, loanRepo, config.AppConfig.LoanDays, config.AppConfig.MaxRenewals)
	reportService := services.NewReportService(reportRepo)

	authController := controllers.NewAuthController(userService)
	bookController := controllers.NewBookController(bookService, covers)
	loanController := controllers.NewLoanController(loanService)
	userController := controllers.NewUserController(userService)
	reportController := controllers.NewReportController(reportService)

	r := gin.New() // Use gin.New() to avoid default middlewares interfering
	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.Recovery()) // Default recovery middleware AFTER logger

	// --- Public routes ---
	r.GET("/", reportController.Dashboard)
	r.POST("/register", authController.Register)
	r.POST("/login", authController.Login)
	r.GET("/books", bookController.ListBooks)
	r.GET("/books/:id", bookController.GetBook)
	r.GET("/search", bookController.SearchBooks)
	r.GET("/genres", bookController.ListGenres)
	r.Static("/covers", covers.Dir())

	// --- Authenticated routes ---
	authed := r.Group("/")
	authed.Use(auth.AuthMiddleware())
	{
		authed.POST("/books/:id/checkout", loanController.Checkout)
		authed.POST("/books/:id/return", loanController.Return)
		authed.POST("/books/:id/renew", loanController.Renew)
		authed.GET("/profile", loanController.Profile)
		authed.GET("/users/:id", userController.GetUser)
		authed.PUT("/users/:id", userController.UpdateUser)
	}

	// --- Admin routes ---
	admin := r.Group("/")
	admin.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
	{
		admin.POST("/books", bookController.CreateBook)
		admin.PUT("/books/:id", bookController.UpdateBook)
		admin.DELETE("/books/:id", bookController.DeleteBook)
		admin.POST("/books/:id/cover", bookController.UploadCover)
		admin.GET("/users", userController.ListUsers)
		admin.DELETE("/users/:id", userController.DeleteUser)
		admin.GET("/reports", reportController.Reports)
	}

	addr := fmt.Sprintf(":%d", config.AppConfig.HTTPPort)
	if err := r.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
