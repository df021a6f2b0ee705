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
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/notesync/notesync/pkg/server/buildinfo"
	"github.com/notesync/notesync/pkg/server/config"
	"github.com/notesync/notesync/pkg/server/controllers"
	"github.com/notesync/notesync/pkg/server/database"
	"github.com/notesync/notesync/pkg/server/log"
	"github.com/pkg/errors"
)

// shutdownTimeout is how long in-flight requests are given on shutdown
const shutdownTimeout = 10 * time.Second

func startCmd(args []string) error {
	fs := setupFlagSet("start", "notesync-server start")

	appEnv := fs.String("appEnv", "", "Application environment (env: APP_ENV, default: PRODUCTION)")
	port := fs.String("port", "", "Server port (env: PORT, default: 3001)")
	dbPath := fs.String("dbPath", "", "Path to SQLite database file (env: DBPath, default: $XDG_DATA_HOME/notesync/server.db)")
	logLevel := fs.String("logLevel", "", "Log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")
	maintenance := fs.Bool("maintenance", false, "Respond with 503 to every API request (env: MAINTENANCE, default: false)")
	envFile := fs.String("envFile", "", "Path to an env file (default: .env if present)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := config.LoadEnvFile(*envFile); err != nil {
		return err
	}

	cfg, err := config.New(config.Params{
		AppEnv:      *appEnv,
		Port:        *port,
		DBPath:      *dbPath,
		LogLevel:    *logLevel,
		Maintenance: *maintenance,
	})
	if err != nil {
		fs.Usage()
		return err
	}

	log.SetLevel(cfg.LogLevel)

	a, err := initApp(cfg)
	if err != nil {
		return err
	}
	defer database.Close(a.DB)

	handler, err := controllers.NewHandler(&a)
	if err != nil {
		return errors.Wrap(err, "initializing router")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: handler,
	}, cfg)
}

// serve runs the server until the context is done and then shuts it down
func serve(ctx context.Context, srv *http.Server, cfg config.Config) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.WithFields(log.Fields{
		"version":     buildinfo.Version,
		"port":        cfg.Port,
		"maintenance": cfg.Maintenance,
	}).Info("notesync server starting")

	select {
	case err := <-errCh:
		return errors.Wrap(err, "serving")
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down")
	}

	return nil
}
