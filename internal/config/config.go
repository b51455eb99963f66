package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	JWTSecret string

	MealDBBaseURL     string
	CocktailDBBaseURL string

	S3Bucket  string
	S3Region  string
	SESSender string

	AppBaseURL string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:          mustGetenv("DATABASE_URL"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",

		MealDBBaseURL:     getenv("MEALDB_BASE_URL", "https://www.themealdb.com/api/json/v1/1"),
		CocktailDBBaseURL: getenv("COCKTAILDB_BASE_URL", "https://www.thecocktaildb.com/api/json/v1/1"),

		S3Bucket:  getenv("S3_BUCKET", ""),
		S3Region:  getenv("S3_REGION", os.Getenv("AWS_REGION")),
		SESSender: getenv("SES_SENDER", ""),

		AppBaseURL: getenv("APP_BASE_URL", "http://localhost:5173"),
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	cfg.JWTSecret = mustGetenv("JWT_SECRET")
	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func mustGetenv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		panic("missing env: " + key)
	}
	return v
}
