package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	LogLevel string
	LogFile  string

	// AuthMode selects how bearer tokens are verified: "firebase" (ID tokens) or "jwt" (local HS256)
	AuthMode        string
	JWTSecret       string
	JWTAccessExpiry time.Duration

	FirebaseProjectID   string
	FirebaseCredentials string
	FCMVapidKey         string
	ServiceWorkerURL    string

	PushRequestsSubscription string
	ReminderInterval         time.Duration

	AIProvider       string
	GeminiAPIKey     string
	GeminiTextModel  string
	GeminiTTSModel   string
	GeminiVoice      string
	OpenRouterAPIKey string
	OpenRouterModel  string

	ResendAPIKey string
	EmailFrom    string

	AdminAPIKeyHash     string
	StripeWebhookSecret string
	StripeSecretKey     string
	DatabaseURL         string
	AllowedOrigins      []string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	accessExpiry := 1 * time.Hour
	if exp := os.Getenv("JWT_ACCESS_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			accessExpiry = parsed
		}
	}

	reminderInterval := 1 * time.Minute
	if iv := os.Getenv("REMINDER_INTERVAL"); iv != "" {
		if parsed, err := time.ParseDuration(iv); err == nil && parsed > 0 {
			reminderInterval = parsed
		}
	}

	var origins []string
	for _, o := range strings.Split(getEnv("ALLOWED_ORIGINS", ""), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		Port:                     getEnv("PORT", "8080"),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		LogFile:                  getEnv("LOG_FILE", ""),
		AuthMode:                 getEnv("AUTH_MODE", "firebase"),
		JWTSecret:                getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:          accessExpiry,
		FirebaseProjectID:        getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentials:      getEnv("FIREBASE_CREDENTIALS", ""),
		FCMVapidKey:              getEnv("FCM_VAPID_KEY", ""),
		ServiceWorkerURL:         getEnv("SERVICE_WORKER_URL", "/firebase-messaging-sw.js"),
		PushRequestsSubscription: getEnv("PUSH_REQUESTS_SUBSCRIPTION", ""),
		ReminderInterval:         reminderInterval,
		AIProvider:               getEnv("AI_PROVIDER", "auto"),
		GeminiAPIKey:             getEnv("GEMINI_API_KEY", ""),
		GeminiTextModel:          getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		GeminiTTSModel:           getEnv("GEMINI_TTS_MODEL", "gemini-2.5-flash-preview-tts"),
		GeminiVoice:              getEnv("GEMINI_VOICE", "Kore"),
		OpenRouterAPIKey:         getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterModel:          getEnv("OPENROUTER_MODEL", "meta-llama/llama-3.1-8b-instruct"),
		ResendAPIKey:             getEnv("RESEND_API_KEY", ""),
		EmailFrom:                getEnv("EMAIL_FROM", "FitAI <noreply@fitai.app>"),
		AdminAPIKeyHash:          getEnv("ADMIN_API_KEY_HASH", ""),
		StripeWebhookSecret:      getEnv("STRIPE_WEBHOOK_SECRET", ""),
		StripeSecretKey:          getEnv("STRIPE_SECRET_KEY", ""),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		AllowedOrigins:           origins,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
