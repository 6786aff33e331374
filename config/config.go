package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	App         App
	Server      Server
	Database    Database
	Certificate Certificate
	Mail        Mail
	Assistant   Assistant
	Progress    Progress
}

type App struct {
	Debug      bool
	LogLevel   string
	BcryptCost int
}

type Server struct {
	Port string
}

type Database struct {
	Driver   string // "postgres" or "sqlite"
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Path     string // sqlite file, ":memory:" allowed
}

type Certificate struct {
	ValidityDays int
	ExpiryCron   string
}

// Validity is the lifetime of a newly issued certificate.
func (c Certificate) Validity() time.Duration {
	return time.Duration(c.ValidityDays) * 24 * time.Hour
}

type Mail struct {
	SendgridAPIKey string
	FromName       string
	FromAddress    string
}

type Assistant struct {
	GeminiAPIKey string
	Model        string
}

type Progress struct {
	RollupRetries int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file, falling back to environment")
	}

	var config Config

	config.App.Debug = viper.GetBool("APP_DEBUG")
	config.App.LogLevel = viper.GetString("LOG_LEVEL")
	config.App.BcryptCost = viper.GetInt("BCRYPT_COST")

	config.Server.Port = viper.GetString("SERVER_PORT")

	config.Database.Driver = viper.GetString("DATABASE_DRIVER")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")
	config.Database.Path = viper.GetString("DATABASE_PATH")

	config.Certificate.ValidityDays = viper.GetInt("CERTIFICATE_VALIDITY_DAYS")
	config.Certificate.ExpiryCron = viper.GetString("CERTIFICATE_EXPIRY_CRON")

	config.Mail.SendgridAPIKey = viper.GetString("SENDGRID_API_KEY")
	config.Mail.FromName = viper.GetString("MAIL_FROM_NAME")
	config.Mail.FromAddress = viper.GetString("MAIL_FROM_ADDRESS")

	config.Assistant.GeminiAPIKey = viper.GetString("GEMINI_API_KEY")
	config.Assistant.Model = viper.GetString("GEMINI_MODEL")

	config.Progress.RollupRetries = viper.GetInt("ROLLUP_RETRIES")

	log.Info().
		Str("port", config.Server.Port).
		Str("dbDriver", config.Database.Driver).
		Str("dbHost", config.Database.Host).
		Int("certificateValidityDays", config.Certificate.ValidityDays).
		Bool("mailEnabled", config.Mail.SendgridAPIKey != "").
		Bool("assistantEnabled", config.Assistant.GeminiAPIKey != "").
		Msg("Config loaded")
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("LOG_LEVEL", "")
	viper.SetDefault("BCRYPT_COST", 10)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_HOST", "localhost")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("DATABASE_PATH", "vx_academy.db")
	viper.SetDefault("CERTIFICATE_VALIDITY_DAYS", 365)
	viper.SetDefault("CERTIFICATE_EXPIRY_CRON", "0 2 * * *")
	viper.SetDefault("MAIL_FROM_NAME", "VX Academy")
	viper.SetDefault("MAIL_FROM_ADDRESS", "noreply@vxacademy.local")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("ROLLUP_RETRIES", 2)
}
