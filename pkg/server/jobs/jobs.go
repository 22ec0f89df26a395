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


// Package jobs runs the periodic background work of the server
package jobs

import (
	"context"
	"time"

	"github.com/catatan/catatan/pkg/log"
	"github.com/catatan/catatan/pkg/server/app"
	"github.com/catatan/catatan/pkg/store/sqlstore"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
	"gorm.io/gorm"
)

const (
	// checkpointSchedule keeps the sqlite write-ahead log from growing unbounded
	checkpointSchedule = "@every 5m"
	vacuumSchedule     = "@daily"

	refreshTimeout = 2 * time.Minute
)

var (
	// ErrEmptyApp is an error for missing app in the runner configuration
	ErrEmptyApp = errors.New("No app was provided")
	// ErrEmptySchedule is an error for missing refresh schedule
	ErrEmptySchedule = errors.New("No refresh schedule was provided")
)

// Params are the parameters of a Runner
type Params struct {
	RefreshSchedule string
	// DB is the database of the sql store. The maintenance jobs are not
	// scheduled when it is nil.
	DB *gorm.DB
}

// Runner schedules and runs the background jobs
type Runner struct {
	Cron *cron.Cron
	App  *app.App
	DB   *gorm.DB
}

// NewRunner returns a runner with every job scheduled. Call Do to start it.
func NewRunner(a *app.App, p Params) (Runner, error) {
	if a == nil {
		return Runner{}, ErrEmptyApp
	}
	if p.RefreshSchedule == "" {
		return Runner{}, ErrEmptySchedule
	}

	r := Runner{
		Cron: cron.New(),
		App:  a,
		DB:   p.DB,
	}

	if err := r.schedule(p.RefreshSchedule); err != nil {
		return Runner{}, err
	}

	return r, nil
}

func (r *Runner) schedule(refresh string) error {
	if err := r.Cron.AddFunc(refresh, r.RefreshMirror); err != nil {
		return errors.Wrapf(err, "scheduling the mirror refresh '%s'", refresh)
	}

	if r.DB == nil {
		return nil
	}

	if err := r.Cron.AddFunc(checkpointSchedule, r.Checkpoint); err != nil {
		return errors.Wrap(err, "scheduling the checkpoint")
	}
	if err := r.Cron.AddFunc(vacuumSchedule, r.Vacuum); err != nil {
		return errors.Wrap(err, "scheduling the vacuum")
	}

	return nil
}

// Do starts the scheduled jobs in the background
func (r *Runner) Do() {
	log.WithFields(log.Fields{
		"jobs": len(r.Cron.Entries()),
	}).Info("starting background jobs")

	r.Cron.Start()
}

// Stop stops the scheduler. A running job is not interrupted.
func (r *Runner) Stop() {
	r.Cron.Stop()
}

// RefreshMirror reloads the mirror of the engine from the store
func (r *Runner) RefreshMirror() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	// failures are logged by the app and retried on the next run
	_ = r.App.Refresh(ctx)
}

// Checkpoint truncates the sqlite write-ahead log
func (r *Runner) Checkpoint() {
	if err := sqlstore.Checkpoint(r.DB); err != nil {
		log.ErrorWrap(err, "running checkpoint")
	}
}

// Vacuum reclaims the space of deleted rows
func (r *Runner) Vacuum() {
	if err := sqlstore.Vacuum(r.DB); err != nil {
		log.ErrorWrap(err, "running vacuum")
		return
	}

	log.Info("database vacuumed")
}
