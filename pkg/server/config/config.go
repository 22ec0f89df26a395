/* Copyright 2025 Catatan Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/catatan/catatan/pkg/dirs"
	"github.com/catatan/catatan/pkg/server/assets"
	"github.com/catatan/catatan/pkg/store/sqlstore"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
)

const (
	// AppEnvProduction represents an app environment for production.
	AppEnvProduction string = "PRODUCTION"
	// AppEnvTest represents an app environment for tests. Rate limiting and
	// CSRF protection are off.
	AppEnvTest string = "TEST"
	// DefaultDBDir is the default directory name for catatan data
	DefaultDBDir = "catatan"
	// DefaultDBFilename is the default database filename
	DefaultDBFilename = "server.db"
	// DefaultRefreshSchedule is the default schedule of the mirror refresh
	DefaultRefreshSchedule = "@every 5m"
)

const (
	// StoreSQL serves the notes from the server database
	StoreSQL = "sql"
	// StoreREST serves the notes from a hosted row store
	StoreREST = "rest"
	// StoreMemory keeps the notes in memory until the server stops
	StoreMemory = "memory"
)

var (
	// ErrDBMissingPath is an error for an incomplete configuration missing the database path
	ErrDBMissingPath = errors.New("DB Path is empty")
	// ErrWebURLInvalid is an error for an incomplete configuration with invalid web url
	ErrWebURLInvalid = errors.New("Invalid WebURL")
	// ErrPortInvalid is an error for an incomplete configuration with invalid port
	ErrPortInvalid = errors.New("Invalid Port")
	// ErrStoreInvalid is an error for an unknown store kind
	ErrStoreInvalid = errors.New("Invalid Store")
	// ErrDBDriverInvalid is an error for an unknown database driver
	ErrDBDriverInvalid = errors.New("Invalid DB driver")
	// ErrRESTMissingURL is an error for a rest store without a URL
	ErrRESTMissingURL = errors.New("SUPABASE_URL is empty")
	// ErrSessionSecretShort is an error for a session secret too short to sign cookies
	ErrSessionSecretShort = errors.New("SESSION_SECRET must be at least 32 bytes")
	// ErrRefreshScheduleInvalid is an error for a refresh schedule cron can't parse
	ErrRefreshScheduleInvalid = errors.New("Invalid REFRESH_SCHEDULE")
)

// DefaultDBPath returns the default path to the sqlite database file
func DefaultDBPath() string {
	base, err := dirs.Current()
	if err != nil {
		return filepath.Join(DefaultDBDir, DefaultDBFilename)
	}

	return filepath.Join(base.Data, DefaultDBDir, DefaultDBFilename)
}

func readBoolEnv(name string) bool {
	v, err := strconv.ParseBool(os.Getenv(name))
	return err == nil && v
}

// getOrEnv returns value if non-empty, otherwise the first non-empty env
// var, otherwise default
func getOrEnv(value, defaultVal string, envKeys ...string) string {
	if value != "" {
		return value
	}
	for _, k := range envKeys {
		if env := os.Getenv(k); env != "" {
			return env
		}
	}

	return defaultVal
}

// LoadEnvFile loads the variables of a .env file into the process
// environment without overriding the ones already set. A missing file is
// not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "loading %s", path)
	}

	return nil
}

// Minio is the object storage configuration for uploaded images
type Minio struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// Enabled reports whether images go to object storage
func (m Minio) Enabled() bool {
	return m.Endpoint != "" && m.Bucket != ""
}

// Config is an application configuration
type Config struct {
	AppEnv       string
	WebURL       string
	Port         string
	LogLevel     string
	AssetBaseURL string
	HTTP500Page  []byte

	Store    string
	DBDriver string
	DBPath   string
	DBDSN    string

	SupabaseURL     string
	SupabaseAnonKey string

	AdminPasswordHash string
	SessionSecret     string
	RefreshSchedule   string

	Minio Minio
}

// Params are the configuration parameters for creating a new Config
type Params struct {
	AppEnv          string
	Port            string
	WebURL          string
	DBPath          string
	LogLevel        string
	Store           string
	DBDriver        string
	RefreshSchedule string
}

// New constructs and returns a new validated config.
// Empty string params will fall back to environment variables and defaults.
func New(p Params) (Config, error) {
	c := Config{
		AppEnv:       getOrEnv(p.AppEnv, AppEnvProduction, "APP_ENV"),
		Port:         getOrEnv(p.Port, "3001", "PORT"),
		WebURL:       getOrEnv(p.WebURL, "http://localhost:3001", "WebURL"),
		LogLevel:     getOrEnv(p.LogLevel, "info", "LOG_LEVEL"),
		AssetBaseURL: "/static",
		HTTP500Page:  assets.MustGetHTTP500ErrorPage(),

		Store:    getOrEnv(p.Store, StoreSQL, "STORE"),
		DBDriver: getOrEnv(p.DBDriver, sqlstore.DriverSQLite, "DB_DRIVER"),
		DBPath:   getOrEnv(p.DBPath, DefaultDBPath(), "DBPath"),
		DBDSN:    getOrEnv("", "", "DB_DSN"),

		SupabaseURL:     getOrEnv("", "", "SUPABASE_URL", "VITE_SUPABASE_URL"),
		SupabaseAnonKey: getOrEnv("", "", "SUPABASE_ANON_KEY", "VITE_SUPABASE_ANON_KEY"),

		AdminPasswordHash: getOrEnv("", "", "ADMIN_PASSWORD_HASH", "VITE_ADMIN_PASSWORD_HASH"),
		SessionSecret:     getOrEnv("", "", "SESSION_SECRET"),
		RefreshSchedule:   getOrEnv(p.RefreshSchedule, DefaultRefreshSchedule, "REFRESH_SCHEDULE"),

		Minio: Minio{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    os.Getenv("MINIO_BUCKET"),
			UseSSL:    readBoolEnv("MINIO_USE_SSL"),
			PublicURL: os.Getenv("MINIO_PUBLIC_URL"),
		},
	}

	if err := validate(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// IsProd checks if the app environment is configured to be production.
func (c Config) IsProd() bool {
	return c.AppEnv == AppEnvProduction
}

// DSN returns the data source name of the sql store. For sqlite it is the
// database path unless DB_DSN is set.
func (c Config) DSN() string {
	if c.DBDSN != "" || c.DBDriver != sqlstore.DriverSQLite {
		return c.DBDSN
	}

	return c.DBPath
}

func validate(c Config) error {
	if _, err := url.ParseRequestURI(c.WebURL); err != nil {
		return errors.Wrapf(ErrWebURLInvalid, "'%s'", c.WebURL)
	}
	if c.Port == "" {
		return ErrPortInvalid
	}

	switch c.Store {
	case StoreSQL:
		switch c.DBDriver {
		case sqlstore.DriverSQLite:
			if c.DSN() == "" {
				return ErrDBMissingPath
			}
		case sqlstore.DriverPostgres, sqlstore.DriverMySQL:
			if c.DBDSN == "" {
				return errors.Wrapf(ErrDBMissingPath, "DB_DSN is required for %s", c.DBDriver)
			}
		default:
			return errors.Wrapf(ErrDBDriverInvalid, "'%s'", c.DBDriver)
		}
	case StoreREST:
		if c.SupabaseURL == "" {
			return ErrRESTMissingURL
		}
	case StoreMemory:
	default:
		return errors.Wrapf(ErrStoreInvalid, "'%s'", c.Store)
	}

	if c.SessionSecret != "" && len(c.SessionSecret) < 32 {
		return ErrSessionSecretShort
	}
	if _, err := cron.Parse(c.RefreshSchedule); err != nil {
		return errors.Wrapf(ErrRefreshScheduleInvalid, "'%s': %s", c.RefreshSchedule, err.Error())
	}

	return nil
}
