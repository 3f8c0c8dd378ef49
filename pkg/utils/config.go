package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	BackendREST     = "rest"
	BackendPostgres = "postgres"
)

type Config struct {
	App      AppConfig
	Supabase SupabaseConfig
	Database DatabaseConfig
	Auth     AuthConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Debug       bool
	LogPath     string
	CORSOrigins []string
}

// SupabaseConfig holds the two settings every store call depends on.
type SupabaseConfig struct {
	URL       string
	AnonKey   string
	JWTSecret string
	Schema    string
}

type DatabaseConfig struct {
	Backend  string
	URL      string
	MaxConns int32
}

type AuthConfig struct {
	SessionFile string
}

// LoadConfig reads path (a dotenv file, optional) and then the process environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "dreamrate")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("SUPABASE_SCHEMA", "public")
	v.SetDefault("STORE_BACKEND", BackendREST)
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("SESSION_FILE", defaultSessionFile())

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Port:        v.GetString("PORT"),
			Debug:       v.GetBool("DEBUG"),
			LogPath:     v.GetString("LOG_PATH"),
			CORSOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Supabase: SupabaseConfig{
			URL:       strings.TrimRight(firstSet(v, "SUPABASE_URL", "PUBLIC_SUPABASE_URL"), "/"),
			AnonKey:   firstSet(v, "SUPABASE_ANON_KEY", "PUBLIC_SUPABASE_ANON_KEY"),
			JWTSecret: v.GetString("SUPABASE_JWT_SECRET"),
			Schema:    v.GetString("SUPABASE_SCHEMA"),
		},
		Database: DatabaseConfig{
			Backend:  strings.ToLower(v.GetString("STORE_BACKEND")),
			URL:      v.GetString("DATABASE_URL"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Auth: AuthConfig{
			SessionFile: v.GetString("SESSION_FILE"),
		},
	}

	return config, nil
}

// Validate reports the first setting the process cannot start without.
func (c *Config) Validate() error {
	if c.Supabase.URL == "" {
		return errors.New("SUPABASE_URL is required")
	}
	if c.Supabase.AnonKey == "" {
		return errors.New("SUPABASE_ANON_KEY is required")
	}

	switch c.Database.Backend {
	case BackendREST:
	case BackendPostgres:
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL is required when STORE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (want %s or %s)", c.Database.Backend, BackendREST, BackendPostgres)
	}

	return nil
}

// firstSet returns the first non-empty key, from the environment or the config file.
// The web client names the Supabase settings with a PUBLIC_ prefix.
func firstSet(v *viper.Viper, keys ...string) string {
	for _, key := range keys {
		if val := v.GetString(key); val != "" {
			return val
		}
	}
	return ""
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dreamrate-session.json"
	}
	return filepath.Join(home, ".dreamrate", "session.json")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
