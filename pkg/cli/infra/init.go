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


// Package infra provides operations and definitions for the
// local infrastructure for catatan
package infra

import (
	gocontext "context"
	"path/filepath"
	"strconv"

	"github.com/catatan/catatan/pkg/cli/config"
	"github.com/catatan/catatan/pkg/cli/consts"
	"github.com/catatan/catatan/pkg/cli/context"
	"github.com/catatan/catatan/pkg/cli/database"
	"github.com/catatan/catatan/pkg/cli/log"
	"github.com/catatan/catatan/pkg/cli/ui"
	"github.com/catatan/catatan/pkg/cli/utils"
	"github.com/catatan/catatan/pkg/clock"
	"github.com/catatan/catatan/pkg/dirs"
	"github.com/catatan/catatan/pkg/engine"
	"github.com/catatan/catatan/pkg/identity"
	corelog "github.com/catatan/catatan/pkg/log"
	"github.com/catatan/catatan/pkg/media"
	"github.com/catatan/catatan/pkg/store"
	"github.com/catatan/catatan/pkg/store/memory"
	"github.com/catatan/catatan/pkg/store/rest"
	"github.com/catatan/catatan/pkg/store/sqlstore"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// EnvFile is the .env file read from the working directory
const EnvFile = ".env"

// RunEFunc is a function type of catatan commands
type RunEFunc func(*cobra.Command, []string) error

func getDBPath(paths context.Paths, customPath string) string {
	if customPath != "" {
		return customPath
	}

	return filepath.Join(paths.Data, consts.CatatanDirName, consts.CatatanDBFileName)
}

// newBaseCtx creates a minimal context with paths and database connection.
// It is enriched with config values by setupCtx.
func newBaseCtx(versionTag, customDBPath string) (context.CatatanCtx, error) {
	base, err := dirs.Current()
	if err != nil {
		return context.CatatanCtx{}, errors.Wrap(err, "resolving directories")
	}

	paths := context.Paths{
		Home:   base.Home,
		Config: base.Config,
		Data:   base.Data,
		Cache:  base.Cache,
	}

	if err := context.InitCatatanDirs(paths); err != nil {
		return context.CatatanCtx{}, errors.Wrap(err, "creating the catatan dirs")
	}

	db, err := database.Open(getDBPath(paths, customDBPath))
	if err != nil {
		return context.CatatanCtx{}, errors.Wrap(err, "connecting to db")
	}

	return context.CatatanCtx{
		Paths:   paths,
		Version: versionTag,
		DB:      db,
	}, nil
}

// Init initializes the catatan environment and returns a new catatan context
func Init(versionTag, dbPath string) (*context.CatatanCtx, error) {
	if log.IsDebug() {
		corelog.SetLevel(corelog.LevelDebug)
	} else {
		corelog.SetLevel(corelog.LevelError)
	}

	ctx, err := newBaseCtx(versionTag, dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "initializing a context")
	}

	if err := initConfigFile(ctx); err != nil {
		return nil, errors.Wrap(err, "generating the config file")
	}
	if err := database.InitSchema(ctx.DB); err != nil {
		return nil, errors.Wrap(err, "initializing database")
	}

	ctx, err = setupCtx(ctx, EnvFile)
	if err != nil {
		return nil, errors.Wrap(err, "setting up the context")
	}

	log.Debug("context: %+v\n", context.Redact(ctx))

	return &ctx, nil
}

// setupCtx enriches the base context with values from the config file, the
// environment and the database
func setupCtx(ctx context.CatatanCtx, envPath string) (context.CatatanCtx, error) {
	cf, err := config.Read(ctx)
	if err != nil {
		return ctx, errors.Wrap(err, "reading config")
	}
	cf, err = config.ApplyEnv(cf, envPath)
	if err != nil {
		return ctx, errors.Wrap(err, "reading environment")
	}

	userID, err := identity.Resolve(database.SystemKV{DB: ctx.DB})
	if err != nil {
		return ctx, errors.Wrap(err, "resolving the user identity")
	}

	c := clock.New()
	s, err := NewStore(ctx.Paths, cf, c)
	if err != nil {
		return ctx, errors.Wrap(err, "initializing the store")
	}

	ret := context.CatatanCtx{
		Paths:       ctx.Paths,
		Version:     ctx.Version,
		DB:          ctx.DB,
		Clock:       c,
		Store:       s,
		StoreKind:   cf.Store,
		APIEndpoint: cf.APIEndpoint,
		APIKey:      cf.APIKey,
		UserID:      userID,
		Author:      cf.Author,
		AdminDigest: cf.AdminPasswordHash,
		Editor:      cf.Editor,
		Uploader:    media.DataURLUploader{},
	}

	return ret, nil
}

// NewStore returns the row store selected by the config
func NewStore(paths context.Paths, cf config.Config, c clock.Clock) (store.Client, error) {
	switch cf.Store {
	case config.StoreREST, "":
		return rest.New(rest.Config{
			URL:        cf.APIEndpoint,
			Key:        cf.APIKey,
			HTTPClient: rest.NewRateLimitedHTTPClient(),
		}), nil
	case config.StoreSQL:
		dsn := cf.StoreDSN
		if dsn == "" {
			dsn = filepath.Join(paths.Data, consts.CatatanDirName, "store.db")
		}

		db, err := sqlstore.Open(sqlstore.DriverSQLite, dsn, corelog.LevelError)
		if err != nil {
			return nil, errors.Wrap(err, "opening the sql store")
		}

		return sqlstore.New(db, c), nil
	case config.StoreMemory:
		return memory.New(c), nil
	default:
		return nil, errors.Errorf("unknown store '%s'", cf.Store)
	}
}

// OpenEngine returns an engine synchronized with the store of the context.
// A degraded synchronization is reported as a warning.
func OpenEngine(c gocontext.Context, ctx context.CatatanCtx) (*engine.Engine, error) {
	e, err := engine.Open(c, engine.Params{
		Store:  ctx.Store,
		Clock:  ctx.Clock,
		UserID: ctx.UserID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "opening the engine")
	}

	if err := RecordSync(ctx, e.Status()); err != nil {
		return nil, err
	}

	return e, nil
}

// RecordSync warns about a degraded status or saves the time of a
// successful synchronization
func RecordSync(ctx context.CatatanCtx, s engine.Status) error {
	if s.Degraded {
		log.Warnf("can't connect to the store, data may be missing\n")
		return nil
	}

	ts := strconv.FormatInt(s.LastSync.Unix(), 10)
	if err := database.UpsertSystem(ctx.DB, consts.SystemLastSyncAt, ts); err != nil {
		return errors.Wrap(err, "saving the last sync time")
	}

	return nil
}

// initConfigFile populates a new config file if it does not exist yet
func initConfigFile(ctx context.CatatanCtx) error {
	path := config.GetPath(ctx)
	ok, err := utils.FileExists(path)
	if err != nil {
		return errors.Wrap(err, "checking if config exists")
	}
	if ok {
		return nil
	}

	cf := config.Config{
		Editor: ui.DefaultEditor(),
		Store:  config.StoreREST,
	}

	if err := config.Write(ctx, cf); err != nil {
		return errors.Wrap(err, "writing config")
	}

	return nil
}
