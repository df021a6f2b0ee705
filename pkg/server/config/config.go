/* Copyright 2025 Dnote Authors
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
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"github.com/notesync/notesync/pkg/dirs"
	"github.com/notesync/notesync/pkg/server/log"
	"github.com/pkg/errors"
)

const (
	// AppEnvProduction represents an app environment for production.
	AppEnvProduction string = "PRODUCTION"
	// DefaultDBDir is the default directory name for the server data
	DefaultDBDir = "notesync"
	// DefaultDBFilename is the default database filename
	DefaultDBFilename = "server.db"
	// DefaultEnvFile is the env file loaded when none is given
	DefaultEnvFile = ".env"
)

var (
	// DefaultDBPath is the default path to the database file
	DefaultDBPath = filepath.Join(dirs.DataHome, DefaultDBDir, DefaultDBFilename)
)

var (
	// ErrDBMissingPath is an error for an incomplete configuration missing the database path
	ErrDBMissingPath = errors.New("DB Path is empty")
	// ErrPortInvalid is an error for an incomplete configuration with invalid port
	ErrPortInvalid = errors.New("Invalid Port")
	// ErrLogLevelInvalid is an error for an unknown log level
	ErrLogLevelInvalid = errors.New("Invalid log level")
	// ErrThemeColorInvalid is an error for a theme color that is not a hex color
	ErrThemeColorInvalid = errors.New("Invalid theme color")
)

func readBoolEnv(name string) bool {
	v := os.Getenv(name)

	return v == "true" || v == "1"
}

// getOrEnv returns value if non-empty, otherwise env var, otherwise default
func getOrEnv(value, envKey, defaultVal string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	return defaultVal
}

// LoadEnvFile sets the variables of the env file that are not already set
// in the environment. A missing default file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = DefaultEnvFile

		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil
		}
	}

	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "loading env file %s", path)
	}

	log.WithFields(log.Fields{
		"path": path,
	}).Debug("Loaded env file.")

	return nil
}

// Config is an application configuration
type Config struct {
	AppEnv         string
	Port           string
	DBPath         string
	LogLevel       string
	Maintenance    bool
	ThemeColor     string
	ThemeTextColor string
}

// Params are the configuration parameters for creating a new Config
type Params struct {
	AppEnv      string
	Port        string
	DBPath      string
	LogLevel    string
	Maintenance bool
}

// New constructs and returns a new validated config.
// Empty string params will fall back to environment variables and defaults.
func New(p Params) (Config, error) {
	c := Config{
		AppEnv:         getOrEnv(p.AppEnv, "APP_ENV", AppEnvProduction),
		Port:           getOrEnv(p.Port, "PORT", "3001"),
		DBPath:         getOrEnv(p.DBPath, "DBPath", DefaultDBPath),
		LogLevel:       getOrEnv(p.LogLevel, "LOG_LEVEL", log.LevelInfo),
		Maintenance:    p.Maintenance || readBoolEnv("MAINTENANCE"),
		ThemeColor:     getOrEnv("", "THEME_COLOR", "#0082c9"),
		ThemeTextColor: getOrEnv("", "THEME_TEXT_COLOR", "#ffffff"),
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

func validate(c Config) error {
	if err := validation.Validate(c.Port, validation.Required, is.Port); err != nil {
		return errors.Wrapf(ErrPortInvalid, "'%s'", c.Port)
	}
	if err := validation.Validate(c.DBPath, validation.Required); err != nil {
		return ErrDBMissingPath
	}

	levels := []interface{}{log.LevelDebug, log.LevelInfo, log.LevelWarn, log.LevelError}
	if err := validation.Validate(c.LogLevel, validation.In(levels...)); err != nil {
		return errors.Wrapf(ErrLogLevelInvalid, "'%s'", c.LogLevel)
	}

	for _, color := range []string{c.ThemeColor, c.ThemeTextColor} {
		if err := validation.Validate(color, validation.Required, is.HexColor); err != nil {
			return errors.Wrapf(ErrThemeColorInvalid, "'%s'", color)
		}
	}

	return nil
}
