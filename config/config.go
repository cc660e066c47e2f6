package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort     int    `mapstructure:"http_port"`
	LogLevel     string `mapstructure:"log_level"`
	DatabaseURL  string `mapstructure:"database_url"`
	JwtSecret    string `mapstructure:"jwt_secret"`
	UploadDir    string `mapstructure:"upload_dir"`
	BooksPerPage int    `mapstructure:"books_per_page"`
	LoanDays     int    `mapstructure:"loan_days"`
	MaxRenewals  int    `mapstructure:"max_renewals"`
}

var AppConfig Config

func InitConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variable overrides
	viper.SetEnvPrefix("LIBRIS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("http_port", 8080)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("jwt_secret", "default-very-insecure-secret-key") // CHANGE THIS IN PRODUCTION
	viper.SetDefault("database_url", "root:root@tcp(127.0.0.1:3306)/libris?charset=utf8mb4&parseTime=True&loc=Local")
	viper.SetDefault("upload_dir", "./static/uploads")
	viper.SetDefault("books_per_page", 12)
	viper.SetDefault("loan_days", 14)
	viper.SetDefault("max_renewals", 2)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("Config file not found, using defaults and environment variables.")
		} else {
			panic(fmt.Errorf("fatal error reading config file: %w", err))
		}
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		panic(fmt.Errorf("unable to decode config into struct: %w", err))
	}
}
