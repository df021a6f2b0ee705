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

package cmd

import (
	"flag"
	"fmt"

	"github.com/notesync/notesync/pkg/clock"
	"github.com/notesync/notesync/pkg/server/app"
	"github.com/notesync/notesync/pkg/server/buildinfo"
	"github.com/notesync/notesync/pkg/server/config"
	"github.com/notesync/notesync/pkg/server/database"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func initDB(dbPath, logLevel string) (*gorm.DB, error) {
	db := database.Open(dbPath, logLevel)
	database.InitSchema(db)
	if err := database.Migrate(db); err != nil {
		database.Close(db)
		return nil, errors.Wrap(err, "migrating database")
	}

	return db, nil
}

func initApp(cfg config.Config) (app.App, error) {
	db, err := initDB(cfg.DBPath, cfg.LogLevel)
	if err != nil {
		return app.App{}, err
	}

	return app.App{
		DB:             db,
		Clock:          clock.New(),
		Maintenance:    cfg.Maintenance,
		APIVersions:    app.DefaultAPIVersions,
		ThemeColor:     cfg.ThemeColor,
		ThemeTextColor: cfg.ThemeTextColor,
		AppEnv:         cfg.AppEnv,
		Port:           cfg.Port,
		DBPath:         cfg.DBPath,
		Version:        buildinfo.Version,
	}, nil
}

// printFlags prints flags with -- prefix for consistency with CLI
func printFlags(fs *flag.FlagSet) {
	fs.VisitAll(func(f *flag.Flag) {
		fmt.Printf("  --%s", f.Name)

		name, usage := flag.UnquoteUsage(f)
		if name != "" {
			fmt.Printf(" %s", name)
		}
		fmt.Println()

		if usage != "" {
			fmt.Printf("    \t%s", usage)
			if f.DefValue != "" && f.DefValue != "false" {
				fmt.Printf(" (default: %s)", f.DefValue)
			}
			fmt.Println()
		}
	})
}

// setupFlagSet creates a FlagSet with standard usage format
func setupFlagSet(name, usageCmd string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Printf(`Usage:
  %s [flags]

Flags:
`, usageCmd)
		printFlags(fs)
	}
	return fs
}

// requireString validates that a required string flag is not empty
func requireString(fs *flag.FlagSet, value, fieldName string) error {
	if value == "" {
		fs.Usage()
		return errors.Errorf("%s is required", fieldName)
	}

	return nil
}

// setupAppWithDB creates config, initializes app, and returns cleanup function
func setupAppWithDB(fs *flag.FlagSet, dbPath, envFile string) (*app.App, func(), error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, nil, err
	}

	cfg, err := config.New(config.Params{
		DBPath: dbPath,
	})
	if err != nil {
		fs.Usage()
		return nil, nil, errors.Wrap(err, "reading configuration")
	}

	a, err := initApp(cfg)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		database.Close(a.DB)
	}

	return &a, cleanup, nil
}
