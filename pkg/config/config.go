package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	FirebaseProject string
	DatabaseURL     string
	StorageBucket   string
	Environment     string

	// ChatGeneralRoomReuse selects how un-scoped room keys are built. The
	// legacy behavior (false) stamps "general_<millis>" so every contact
	// without a product opens a fresh room. When true a stable "general"
	// scope is used and the pair shares one room.
	ChatGeneralRoomReuse bool
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:           getEnv("SERVER_PORT", "8080"),
		FirebaseProject:      getEnv("FIREBASE_PROJECT_ID", ""),
		DatabaseURL:          getEnv("FIREBASE_DATABASE_URL", ""),
		StorageBucket:        getEnv("FIREBASE_STORAGE_BUCKET", ""),
		Environment:          getEnv("ENVIRONMENT", "development"),
		ChatGeneralRoomReuse: getEnvAsBool("CHAT_GENERAL_ROOM_REUSE", false),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}
