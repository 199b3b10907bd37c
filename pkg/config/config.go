package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	FirebaseCredentialsPath string
	FirebaseProjectID       string
	FirebaseClientEmail     string
	FirebasePrivateKey      string
	PostgresConnStr         string
	MongoURI                string
	PushDryRun              bool
}

func Load() *Config {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseClientEmail:     getEnv("FIREBASE_CLIENT_EMAIL", ""),
		FirebasePrivateKey:      getEnv("FIREBASE_PRIVATE_KEY", ""),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		PushDryRun:              getEnv("PUSH_DRY_RUN", "") == "true",
	}
}

// MissingPushCredentials lists the push backend credential keys that are not
// set. The push-send endpoint refuses to operate while any are missing.
func (c *Config) MissingPushCredentials() []string {
	var missing []string
	if c.FirebaseProjectID == "" {
		missing = append(missing, "FIREBASE_PROJECT_ID")
	}
	if c.FirebaseClientEmail == "" {
		missing = append(missing, "FIREBASE_CLIENT_EMAIL")
	}
	if c.FirebasePrivateKey == "" {
		missing = append(missing, "FIREBASE_PRIVATE_KEY")
	}
	return missing
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
