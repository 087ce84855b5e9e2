package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string `env:"SERVER_PORT" envDefault:":8080"`
	DatabaseDSN string `env:"DATABASE_DSN,required"`
	BaseURL     string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	JWTSecret          string `env:"JWT_SECRET,required"`
	JWTExpirationHours int    `env:"JWT_EXPIRATION_HOURS" envDefault:"24"`

	// Registration emails must end with this domain.
	EmailDomain string `env:"EMAIL_DOMAIN" envDefault:"@eng.psu.edu.eg"`

	// When true, verification tokens are echoed in admin API responses.
	TestingMode bool `env:"TESTING_MODE" envDefault:"false"`

	MinioEndpoint  string `env:"MINIO_ENDPOINT,required"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY,required"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY,required"`
	MinioBucket    string `env:"MINIO_BUCKET" envDefault:"campuscard-uploads"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	MinioPublicURL string `env:"MINIO_PUBLIC_URL" envDefault:"http://localhost:9000"`

	KafkaBroker   string `env:"KAFKA_BROKER"`
	KafkaTopic    string `env:"KAFKA_TOPIC" envDefault:"campuscard.mail"`
	KafkaGroupID  string `env:"KAFKA_GROUP_ID" envDefault:"campuscard-mail-worker"`
	KafkaUsername string `env:"KAFKA_USERNAME"`
	KafkaPassword string `env:"KAFKA_PASSWORD"`

	MailWorkerEnabled bool   `env:"MAIL_WORKER_ENABLED" envDefault:"false"`
	SMTPHost          string `env:"SMTP_HOST"`
	SMTPPort          string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername      string `env:"SMTP_USERNAME"`
	SMTPPassword      string `env:"SMTP_PASSWORD"`
	MailFrom          string `env:"MAIL_FROM" envDefault:"noreply@campuscard.com"`
	MailFromName      string `env:"MAIL_FROM_NAME" envDefault:"CampusCard"`

	RateLimitLoginMax        int `env:"RATE_LIMIT_LOGIN_MAX_ATTEMPTS" envDefault:"5"`
	RateLimitLoginWindowMin  int `env:"RATE_LIMIT_LOGIN_WINDOW_MINUTES" envDefault:"15"`
	RateLimitSignupMax       int `env:"RATE_LIMIT_SIGNUP_MAX_ATTEMPTS" envDefault:"3"`
	RateLimitSignupWindowMin int `env:"RATE_LIMIT_SIGNUP_WINDOW_MINUTES" envDefault:"60"`

	AdminEmail        string `env:"ADMIN_EMAIL"`
	AdminPassword     string `env:"ADMIN_PASSWORD"`
	AdminFirstName    string `env:"ADMIN_FIRST_NAME" envDefault:"System"`
	AdminLastName     string `env:"ADMIN_LAST_NAME" envDefault:"Administrator"`
	AdminNationalID   string `env:"ADMIN_NATIONAL_ID"`
	AdminFacultyID    uint   `env:"ADMIN_FACULTY_ID" envDefault:"1"`
	AdminDepartmentID uint   `env:"ADMIN_DEPARTMENT_ID" envDefault:"1"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// LoadConfig reads configuration from the environment. In non-prod
// environments a .env file in the working directory is loaded first.
func LoadConfig() (*Config, error) {
	if os.Getenv("ENV") != "prod" {
		if _, err := os.Stat(".env"); err == nil {
			if err := godotenv.Load(); err != nil {
				return nil, fmt.Errorf("load .env: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
