package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var ErrMissingSetting = errors.New("required setting is not set")

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

// Enabled reports whether archiving to R2 is configured.
func (c R2Config) Enabled() bool {
	return c.AccountID != ""
}

type Config struct {
	// DatabaseURL selects Postgres; empty keeps data in the key-value cache.
	DatabaseURL    string
	CacheFile      string
	JWTSecretKey   string
	ServerPort     int
	AllowedOrigins []string
	R2             R2Config
}

// Load reads the configuration from the environment, loading a .env file
// first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds the configuration from any variable source.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	jwtKey := get("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET_KEY", ErrMissingSetting)
	}

	portStr := get("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	origins := []string{"*"}
	if raw := get("CORS_ALLOWED_ORIGINS"); raw != "" {
		origins = origins[:0]
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) == 0 {
			return nil, errors.New("CORS_ALLOWED_ORIGINS lists no origin")
		}
	}

	r2 := R2Config{
		AccountID:       get("R2_ACCOUNT_ID"),
		AccessKeyID:     get("R2_ACCESS_KEY_ID"),
		SecretAccessKey: get("R2_SECRET_ACCESS_KEY"),
		BucketName:      get("R2_BUCKET_NAME"),
		PublicBaseURL:   get("R2_PUBLIC_BASE_URL"),
	}
	if err := checkAllOrNone(map[string]string{
		"R2_ACCOUNT_ID":        r2.AccountID,
		"R2_ACCESS_KEY_ID":     r2.AccessKeyID,
		"R2_SECRET_ACCESS_KEY": r2.SecretAccessKey,
		"R2_BUCKET_NAME":       r2.BucketName,
		"R2_PUBLIC_BASE_URL":   r2.PublicBaseURL,
	}); err != nil {
		return nil, err
	}

	return &Config{
		DatabaseURL:    get("DATABASE_URL"),
		CacheFile:      get("CACHE_FILE"),
		JWTSecretKey:   jwtKey,
		ServerPort:     port,
		AllowedOrigins: origins,
		R2:             r2,
	}, nil
}

func checkAllOrNone(settings map[string]string) error {
	var set, missing []string
	for key, value := range settings {
		if value == "" {
			missing = append(missing, key)
		} else {
			set = append(set, key)
		}
	}
	if len(set) > 0 && len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: R2 archiving is partially configured, missing %s", ErrMissingSetting, strings.Join(missing, ", "))
	}
	return nil
}
