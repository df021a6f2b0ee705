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

package infra

import (
	"github.com/notesync/notesync/pkg/cli/context"
	"github.com/notesync/notesync/pkg/cli/sync"
)

// NewDialer returns a dialer of the Notes servers of the accounts in the context
func NewDialer(ctx context.NotesyncCtx) sync.Dialer {
	return sync.NewClientDialer(ctx.DB, sync.ClientOptions{
		HTTPClient: ctx.HTTPClient,
		Timeout:    ctx.RequestTimeout,
		Version:    ctx.Version,
	})
}

// NewOrchestrator returns a sync orchestrator for the accounts in the context
func NewOrchestrator(ctx context.NotesyncCtx) *sync.Orchestrator {
	return sync.NewOrchestrator(ctx.DB, NewDialer(ctx), ctx.Clock)
}
