package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	DBDriver   string // postgres, mysql, sqlite
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SendgridAPIKey string
	EmailSender    string

	NotifyWebhookURL    string
	TelegramBotToken    string
	TelegramAdminChatID int64

	EvidenceDir       string // local store for payment screenshots
	EvidenceUploadURL string // remote collector, takes precedence when set

	CertificateBaseURL string

	DispatchSchedule       string
	ReviewReminderSchedule string

	DefaultWatchPercentage int
	DefaultPassingScore    int
	MaxPlaybackRate        float64
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "learnhub"),
		DBPort:     getEnv("DB_PORT", "5432"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		SendgridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@learnhub.local"),

		NotifyWebhookURL:    getEnv("NOTIFY_WEBHOOK_URL", ""),
		TelegramBotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAdminChatID: int64(getEnvInt("TELEGRAM_ADMIN_CHAT_ID", 0)),

		EvidenceDir:       getEnv("EVIDENCE_DIR", "./uploads/evidence"),
		EvidenceUploadURL: getEnv("EVIDENCE_UPLOAD_URL", ""),

		CertificateBaseURL: getEnv("CERTIFICATE_BASE_URL", "http://localhost:3000/certificates"),

		DispatchSchedule:       getEnv("DISPATCH_SCHEDULE", "@every 30s"),
		ReviewReminderSchedule: getEnv("REVIEW_REMINDER_SCHEDULE", "0 9 * * *"),

		DefaultWatchPercentage: getEnvInt("DEFAULT_WATCH_PERCENTAGE", 80),
		DefaultPassingScore:    getEnvInt("DEFAULT_PASSING_SCORE", 70),
		MaxPlaybackRate:        getEnvFloat("MAX_PLAYBACK_RATE", 2.0),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.SendgridAPIKey == "" {
		log.Println("Warning: SENDGRID_API_KEY not set. Email notifications are disabled.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Error converting environment variable %s to float: %v", key, err)
		return defaultValue
	}
	return floatValue
}
