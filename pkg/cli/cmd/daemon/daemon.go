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

// Package daemon implements the command that synchronizes the accounts
// periodically
package daemon

import (
	gocontext "context"
	"os"
	"os/signal"
	"strconv"
	gosync "sync"
	"syscall"

	"github.com/notesync/notesync/pkg/cli/consts"
	"github.com/notesync/notesync/pkg/cli/context"
	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/notesync/notesync/pkg/cli/infra"
	"github.com/notesync/notesync/pkg/cli/log"
	"github.com/notesync/notesync/pkg/cli/output"
	"github.com/notesync/notesync/pkg/cli/sync"
	"github.com/notesync/notesync/pkg/clock"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
	"github.com/spf13/cobra"
)

var example = `
  * Synchronize on the schedule in the config file
  notesync daemon

  * Synchronize every five minutes
  notesync daemon --schedule "@every 5m"`

var scheduleFlag string

// NewCmd returns a new daemon command
func NewCmd(ctx context.NotesyncCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "daemon",
		Short:   "Synchronize every account periodically",
		Example: example,
		Args:    cobra.NoArgs,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVar(&scheduleFlag, "schedule", "", "a cron spec overriding syncSchedule in the config")

	return cmd
}

// reporter prints the result of every scheduled pass
type reporter struct {
	db *database.DB
	mu gosync.Mutex
}

func (r *reporter) SyncStarted(accountID int) {
	log.Debug("sync of account %d started\n", accountID)
}

func (r *reporter) SyncFinished(result sync.Result) {
	a, err := database.GetAccount(r.db, result.AccountID)
	if err != nil {
		// the account was removed while the pass ran
		a = database.Account{ID: result.AccountID, AccountName: strconv.Itoa(result.AccountID)}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	output.SyncResult(a, result)
}

// scheduleAll requests a pass for every account
func scheduleAll(ctx context.NotesyncCtx, s *sync.Scheduler) error {
	accounts, err := database.ListAccounts(ctx.DB)
	if err != nil {
		return errors.Wrap(err, "listing accounts")
	}

	for _, a := range accounts {
		s.Schedule(a.ID)
	}

	now := strconv.FormatInt(clock.Unix(ctx.Clock), 10)
	if err := database.UpsertSystem(ctx.DB, consts.SystemLastDaemonRun, now); err != nil {
		return errors.Wrap(err, "saving the run time")
	}

	return nil
}

// run synchronizes every account right away and then on the schedule until
// c is done. Passes still running when c is done are cancelled and waited for.
func run(c gocontext.Context, ctx context.NotesyncCtx, syncer sync.Synchronizer, schedule string) error {
	s := sync.NewScheduler(c, syncer, &reporter{db: ctx.DB})

	tick := func() {
		if err := scheduleAll(ctx, s); err != nil {
			log.Errorf("scheduling: %s\n", err.Error())
		}
	}

	cr := cron.New()
	if err := cr.AddFunc(schedule, tick); err != nil {
		return errors.Wrapf(err, "invalid schedule '%s'", schedule)
	}

	tick()
	cr.Start()

	<-c.Done()

	cr.Stop()
	s.Wait()

	return nil
}

func newRun(ctx context.NotesyncCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		schedule := ctx.SyncSchedule
		if scheduleFlag != "" {
			schedule = scheduleFlag
		}

		c, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Infof("synchronizing on the schedule '%s'. Press Ctrl+C to stop.\n", schedule)

		if err := run(c, ctx, infra.NewOrchestrator(ctx), schedule); err != nil {
			return err
		}

		log.Info("stopped\n")

		return nil
	}
}
