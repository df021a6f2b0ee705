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

// Package consts provides definitions of constants
package consts

var (
	// NotesyncDirName is the name of the directory containing notesync files
	NotesyncDirName = "notesync"
	// NotesyncDBFileName is a filename for the notesync SQLite database
	NotesyncDBFileName = "notesync.db"
	// TmpContentFileBase is the base for the filename for a temporary content
	TmpContentFileBase = "NOTESYNC_TMPCONTENT"
	// TmpContentFileExt is the extension for the temporary content file
	TmpContentFileExt = "md"
	// ConfigFilename is the name of the config file
	ConfigFilename = "notesyncrc"

	// SystemSchema is the key for the schema version in the system table
	SystemSchema = "schema"
	// SystemLastDaemonRun is the timestamp at which the daemon last triggered a sync
	SystemLastDaemonRun = "last_daemon_run"
)

const (
	// DefaultRequestTimeout is the default timeout for a single HTTP call, in seconds
	DefaultRequestTimeout = 30
	// DefaultSyncSchedule is the default cron spec of the sync daemon
	DefaultSyncSchedule = "@every 15m"
	// DefaultConcurrency is the default number of accounts synchronized at once
	DefaultConcurrency = 4
)
