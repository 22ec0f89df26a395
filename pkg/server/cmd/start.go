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


package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/catatan/catatan/pkg/log"
	"github.com/catatan/catatan/pkg/server/buildinfo"
	"github.com/catatan/catatan/pkg/server/config"
	"github.com/catatan/catatan/pkg/server/controllers"
	"github.com/catatan/catatan/pkg/server/jobs"
	"github.com/pkg/errors"
)

func startCmd(args []string) {
	fs := setupFlagSet("start", "catatan-server start")

	port := fs.String("port", "", "Server port (env: PORT, default: 3001)")
	webURL := fs.String("webUrl", "", "Full URL to server without trailing slash (env: WebURL, default: http://localhost:3001)")
	storeKind := fs.String("store", "", "Store holding the notes: sql, rest or memory (env: STORE, default: sql)")
	dbDriver := fs.String("dbDriver", "", "SQL store driver: sqlite, postgres or mysql (env: DB_DRIVER, default: sqlite)")
	dbPath := fs.String("dbPath", "", "Path to SQLite database file (env: DBPath, default: $XDG_DATA_HOME/catatan/server.db)")
	refreshSchedule := fs.String("refreshSchedule", "", "Cron schedule of the mirror refresh (env: REFRESH_SCHEDULE, default: @every 5m)")
	logLevel := fs.String("logLevel", "", "Log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")

	fs.Parse(args)

	if err := config.LoadEnvFile(".env"); err != nil {
		exitUsage(fs, err)
	}

	cfg, err := config.New(config.Params{
		Port:            *port,
		WebURL:          *webURL,
		Store:           *storeKind,
		DBDriver:        *dbDriver,
		DBPath:          *dbPath,
		RefreshSchedule: *refreshSchedule,
		LogLevel:        *logLevel,
	})
	if err != nil {
		exitUsage(fs, err)
	}

	log.SetLevel(cfg.LogLevel)

	app, db, err := initApp(context.Background(), cfg)
	if err != nil {
		log.ErrorWrap(err, "initializing the app")
		os.Exit(1)
	}
	defer closeDB(db)

	runner, err := jobs.NewRunner(&app, jobs.Params{
		RefreshSchedule: cfg.RefreshSchedule,
		DB:              db,
	})
	if err != nil {
		log.ErrorWrap(err, "initializing background jobs")
		os.Exit(1)
	}
	runner.Do()
	defer runner.Stop()

	ctl := controllers.New(&app)
	rc := controllers.RouteConfig{
		WebRoutes:   controllers.NewWebRoutes(&app, ctl),
		APIRoutes:   controllers.NewAPIRoutes(&app, ctl),
		Controllers: ctl,
	}

	r, err := controllers.NewRouter(&app, rc)
	if err != nil {
		panic(errors.Wrap(err, "initializing router"))
	}

	status := app.Engine.Status()
	log.WithFields(log.Fields{
		"version":  buildinfo.Version,
		"port":     cfg.Port,
		"store":    cfg.Store,
		"notes":    app.Engine.TotalNotes(),
		"degraded": status.Degraded,
	}).Info("Catatan server starting")

	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.ErrorWrap(err, "server failed")
		os.Exit(1)
	}
}
