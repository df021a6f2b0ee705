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
	"fmt"
	"net/http"

	"github.com/notesync/notesync/pkg/cli/client"
	"github.com/pkg/errors"
)

// Kind classifies a sync error
type Kind int

const (
	// KindNetwork is a timeout or a connectivity loss. It is retried on the next pass.
	KindNetwork Kind = iota + 1
	// KindAuth is a rejected credential. The account is not synced until it is fixed.
	KindAuth
	// KindConflictSkipped is a local change that won over a remote one. It is informational.
	KindConflictSkipped
	// KindProtocol is a malformed response or an unexpected status code
	KindProtocol
	// KindMaintenance is a server in maintenance mode. The whole pass is deferred.
	KindMaintenance
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindConflictSkipped:
		return "conflict skipped"
	case KindProtocol:
		return "protocol"
	case KindMaintenance:
		return "maintenance"
	}

	return fmt.Sprintf("unknown kind %d", int(k))
}

// Phase is the part of a pass an error happened in
type Phase string

const (
	// PhaseAccount is the loading of the account
	PhaseAccount Phase = "account"
	// PhaseCapabilities is the capability resolution
	PhaseCapabilities Phase = "capabilities"
	// PhasePush is the upload of local changes
	PhasePush Phase = "push"
	// PhasePull is the download of remote changes
	PhasePull Phase = "pull"
)

// Error is a classified failure of a sync pass. NoteID and RemoteID are zero
// for errors that concern no single note.
type Error struct {
	Kind     Kind
	NoteID   int
	RemoteID int64
	Phase    Phase
	Err      error
}

func (e *Error) Error() string {
	var subject string
	if e.NoteID != 0 {
		subject = fmt.Sprintf(" note %d", e.NoteID)
	}

	return fmt.Sprintf("%s%s: %s error: %v", e.Phase, subject, e.Kind, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// classify maps an error to its kind. Anything unknown is a protocol error.
func classify(err error) Kind {
	var syncErr *Error
	if errors.As(err, &syncErr) {
		return syncErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindNetwork
	}

	var netErr *client.NetworkError
	if errors.As(err, &netErr) {
		return KindNetwork
	}

	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return KindAuth
		case http.StatusServiceUnavailable:
			return KindMaintenance
		}
	}

	return KindProtocol
}

// newError classifies err. An *Error is returned as is with the missing fields filled in.
func newError(phase Phase, noteID int, remoteID int64, err error) *Error {
	var syncErr *Error
	if errors.As(err, &syncErr) {
		if syncErr.NoteID == 0 {
			syncErr.NoteID = noteID
		}
		if syncErr.RemoteID == 0 {
			syncErr.RemoteID = remoteID
		}

		return syncErr
	}

	return &Error{
		Kind:     classify(err),
		NoteID:   noteID,
		RemoteID: remoteID,
		Phase:    phase,
		Err:      err,
	}
}

// isFatal reports whether the error aborts the remaining phases of a pass
func isFatal(e *Error) bool {
	switch e.Kind {
	case KindAuth, KindMaintenance:
		return true
	case KindNetwork, KindConflictSkipped, KindProtocol:
		return false
	}

	return false
}
