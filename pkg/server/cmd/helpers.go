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
	"flag"
	"fmt"
	"os"

	"github.com/catatan/catatan/pkg/admin"
	"github.com/catatan/catatan/pkg/clock"
	"github.com/catatan/catatan/pkg/engine"
	"github.com/catatan/catatan/pkg/log"
	"github.com/catatan/catatan/pkg/media"
	"github.com/catatan/catatan/pkg/server/app"
	"github.com/catatan/catatan/pkg/server/config"
	"github.com/catatan/catatan/pkg/server/session"
	"github.com/catatan/catatan/pkg/store"
	"github.com/catatan/catatan/pkg/store/memory"
	"github.com/catatan/catatan/pkg/store/rest"
	"github.com/catatan/catatan/pkg/store/sqlstore"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// newStore returns the store client selected by the configuration. The
// database is nil unless the sql store is selected.
func newStore(cfg config.Config, c clock.Clock) (store.Client, *gorm.DB, error) {
	switch cfg.Store {
	case config.StoreSQL:
		db, err := sqlstore.Open(cfg.DBDriver, cfg.DSN(), cfg.LogLevel)
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening the sql store")
		}
		return sqlstore.New(db, c), db, nil
	case config.StoreREST:
		return rest.New(rest.Config{
			URL: cfg.SupabaseURL,
			Key: cfg.SupabaseAnonKey,
		}), nil, nil
	case config.StoreMemory:
		log.Warn("using the memory store, notes are lost when the server stops")
		return memory.New(c), nil, nil
	}

	return nil, nil, errors.Wrapf(config.ErrStoreInvalid, "'%s'", cfg.Store)
}

func newUploader(ctx context.Context, cfg config.Config) (media.Uploader, error) {
	if !cfg.Minio.Enabled() {
		log.Debug("object storage not configured, storing images as data URLs")
		return media.DataURLUploader{}, nil
	}

	u, err := media.NewMinioUploader(media.MinioConfig{
		Endpoint:  cfg.Minio.Endpoint,
		AccessKey: cfg.Minio.AccessKey,
		SecretKey: cfg.Minio.SecretKey,
		Bucket:    cfg.Minio.Bucket,
		UseSSL:    cfg.Minio.UseSSL,
		PublicURL: cfg.Minio.PublicURL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "initializing the object storage")
	}
	if err := u.EnsureBucket(ctx); err != nil {
		return nil, errors.Wrap(err, "preparing the bucket")
	}

	return u, nil
}

// closeDB closes the database if there is one
func closeDB(db *gorm.DB) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

// initApp builds the application for the configuration and bootstraps the
// engine. The returned database must be closed with closeDB.
func initApp(ctx context.Context, cfg config.Config) (app.App, *gorm.DB, error) {
	c := clock.New()

	s, db, err := newStore(cfg, c)
	if err != nil {
		return app.App{}, nil, err
	}

	uploader, err := newUploader(ctx, cfg)
	if err != nil {
		closeDB(db)
		return app.App{}, nil, err
	}

	e, err := engine.Open(ctx, engine.Params{
		Store: s,
		Clock: c,
	})
	if err != nil {
		closeDB(db)
		return app.App{}, nil, errors.Wrap(err, "opening the engine")
	}

	if cfg.AdminPasswordHash == "" {
		log.Warn("ADMIN_PASSWORD_HASH is not set, the admin panel is disabled")
	}
	if cfg.SessionSecret == "" {
		log.Warn("SESSION_SECRET is not set, sessions will not survive a restart")
	}
	keys := session.NewKeys(cfg.SessionSecret)

	a := app.App{
		Engine:       e,
		Gate:         admin.NewGate(cfg.AdminPasswordHash, c),
		Sessions:     session.NewManager(keys, cfg.IsProd()),
		Clock:        c,
		Uploader:     uploader,
		HTTP500Page:  cfg.HTTP500Page,
		CSRFKey:      keys.CSRF,
		AppEnv:       cfg.AppEnv,
		WebURL:       cfg.WebURL,
		Port:         cfg.Port,
		AssetBaseURL: cfg.AssetBaseURL,
	}

	return a, db, nil
}

// printFlags prints flags with -- prefix for consistency with CLI
func printFlags(fs *flag.FlagSet) {
	fs.VisitAll(func(f *flag.Flag) {
		fmt.Printf("  --%s", f.Name)

		// Print type hint for non-boolean flags
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
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Printf(`Usage:
  %s [flags]

Flags:
`, usageCmd)
		printFlags(fs)
	}
	return fs
}

// exitUsage prints the error and the usage of the flag set, then exits
func exitUsage(fs *flag.FlagSet, err error) {
	fmt.Printf("Error: %s\n\n", err)
	fs.Usage()
	os.Exit(1)
}
