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

// Package context defines the runtime context of notesync commands
package context

import (
	"net/http"
	"time"

	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/notesync/notesync/pkg/clock"
)

// Paths contain directory definitions
type Paths struct {
	Home   string
	Config string
	Data   string
	Cache  string
}

// NotesyncCtx is a context holding the information of the current runtime
type NotesyncCtx struct {
	Paths      Paths
	Version    string
	DB         *database.DB
	Editor     string
	Clock      clock.Clock
	HTTPClient *http.Client
	// RequestTimeout bounds every HTTP call to a Notes server
	RequestTimeout time.Duration
	// SyncSchedule is the cron spec of the sync daemon
	SyncSchedule string
	// Concurrency is the number of accounts synchronized at once
	Concurrency int
}
