package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	// Assignment policies, selected via ASSIGNMENT_POLICY.
	PolicyLeastLoaded = "least_loaded"
	PolicyRoundRobin  = "round_robin"
	PolicyRandom      = "random"
)

var (
	JwtSecret            string
	DbHost               string
	DbPort               string
	DbUser               string
	DbPassword           string
	DbName               string
	ServerPort           string
	Issuer               string
	AssignmentPolicy     string
	AuditRetentionDays   int
	IndicatorCatalogPath string
)

func LoadConfig() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	JwtSecret = getEnv("JWT_SECRET", "defaultsecret")
	DbHost = getEnv("DB_HOST", "localhost")
	DbPort = getEnv("DB_PORT", "5432")
	DbUser = getEnv("DB_USER", "postgres")
	DbPassword = getEnv("DB_PASSWORD", "password")
	DbName = getEnv("DB_NAME", "portal")
	ServerPort = getEnv("SERVER_PORT", "8080")
	Issuer = getEnv("ISSUER", "portal")

	AssignmentPolicy = getEnv("ASSIGNMENT_POLICY", PolicyLeastLoaded)
	switch AssignmentPolicy {
	case PolicyLeastLoaded, PolicyRoundRobin, PolicyRandom:
	default:
		log.Printf("Unknown ASSIGNMENT_POLICY %q, using %s", AssignmentPolicy, PolicyLeastLoaded)
		AssignmentPolicy = PolicyLeastLoaded
	}

	AuditRetentionDays, _ = strconv.Atoi(getEnv("AUDIT_RETENTION_DAYS", "30"))
	if AuditRetentionDays <= 0 {
		AuditRetentionDays = 30
	}

	IndicatorCatalogPath = getEnv("INDICATOR_CATALOG", "")
	if IndicatorCatalogPath != "" {
		if err := LoadCatalog(IndicatorCatalogPath); err != nil {
			log.Printf("Failed to load indicator catalog %s: %v", IndicatorCatalogPath, err)
		}
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
