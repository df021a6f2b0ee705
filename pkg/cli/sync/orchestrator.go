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

package sync

import (
	"context"

	"github.com/notesync/notesync/pkg/cli/client"
	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/notesync/notesync/pkg/cli/log"
	"github.com/notesync/notesync/pkg/clock"
	"github.com/pkg/errors"
)

// Orchestrator runs sync passes
type Orchestrator struct {
	db       *database.DB
	dial     Dialer
	resolver *Resolver
	mapper   *IDMapper
	clock    clock.Clock
}

// NewOrchestrator returns an orchestrator syncing the accounts of the given
// database through the remote APIs returned by dial
func NewOrchestrator(db *database.DB, dial Dialer, c clock.Clock) *Orchestrator {
	return &Orchestrator{
		db:       db,
		dial:     dial,
		resolver: NewResolver(db),
		mapper:   NewIDMapper(db),
		clock:    c,
	}
}

// Resolver returns the capability resolver of the orchestrator
func (o *Orchestrator) Resolver() *Resolver {
	return o.resolver
}

// pass holds the state of one sync pass
type pass struct {
	ctx     context.Context
	account database.Account
	api     RemoteAPI
	result  *Result
}

// abort stops the pass with the given error
func (p *pass) abort(e *Error) {
	p.result.add(e)
	p.result.Aborted = true
}

// checkpoint returns false and aborts the pass if it was cancelled
func (p *pass) checkpoint(phase Phase) bool {
	if err := p.ctx.Err(); err != nil {
		log.Debug("%s of %s cancelled\n", phase, p.account.AccountName)
		p.abort(newError(phase, 0, 0, err))
		return false
	}

	return true
}

// Synchronize runs one complete pass for the account: capability
// resolution, then push, then pull. Failures are collected in the result and
// never returned or raised.
func (o *Orchestrator) Synchronize(ctx context.Context, accountID int) (ret Result) {
	ret.AccountID = accountID

	defer func() {
		if r := recover(); r != nil {
			ret.add(&Error{
				Kind:  KindProtocol,
				Phase: PhaseAccount,
				Err:   errors.Errorf("sync panicked: %v", r),
			})
			ret.Aborted = true
		}
	}()

	account, err := database.GetAccount(o.db, accountID)
	if err != nil {
		ret.add(newError(PhaseAccount, 0, 0, errors.Wrap(err, "loading account")))
		ret.Aborted = true
		return ret
	}

	log.Debug("synchronizing %s\n", account.AccountName)

	p := &pass{ctx: ctx, account: account, result: &ret}
	if !o.prepare(p) {
		return ret
	}
	if !o.push(p) {
		return ret
	}
	o.pull(p)

	log.Debug("synchronized %s: pushed %d, pulled %d, purged %d, %d errors\n",
		account.AccountName, ret.Pushed, ret.Pulled, ret.Purged, len(ret.Errors))

	return ret
}

// dialAccount returns the remote API of the account. A missing credential is an auth error.
func (o *Orchestrator) dialAccount(account database.Account) (RemoteAPI, *Error) {
	api, err := o.dial(account)
	if err == nil {
		return api, nil
	}

	e := newError(PhaseAccount, 0, 0, err)
	if errors.Is(err, database.ErrNotFound) {
		e.Kind = KindAuth
	}

	return nil, e
}

// prepare resolves the capabilities of the account and dials it with the
// preferred API version. It returns false if the pass must stop.
func (o *Orchestrator) prepare(p *pass) bool {
	api, e := o.dialAccount(p.account)
	if e != nil {
		p.abort(e)
		return false
	}

	caps, err := o.resolver.Resolve(p.ctx, p.account, api)
	if err != nil {
		e := newError(PhaseCapabilities, 0, 0, err)

		switch e.Kind {
		case KindMaintenance, KindAuth:
			p.abort(e)
			return false
		case KindNetwork, KindProtocol, KindConflictSkipped:
			if derefString(p.account.APIVersion) == "" {
				p.abort(e)
				return false
			}

			log.Debug("resolving capabilities of %s failed, using the cached api version: %v\n", p.account.AccountName, err)
			p.result.add(e)
		}
	} else {
		p.account.APIVersion = optionalString(caps.APIVersion)
		p.account.Color = caps.Color
		p.account.TextColor = caps.TextColor
		p.account.CapabilitiesETag = optionalString(caps.ETag)
	}

	if v, ok := client.PreferredAPIVersion(derefString(p.account.APIVersion)); ok {
		log.Debug("using api version %s for %s\n", v, p.account.AccountName)
	}

	api, e = o.dialAccount(p.account)
	if e != nil {
		p.abort(e)
		return false
	}
	p.api = api

	return true
}

func (o *Orchestrator) now() int64 {
	return clock.Unix(o.clock)
}
