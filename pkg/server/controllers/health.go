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

package controllers

import (
	"net/http"

	"github.com/notesync/notesync/pkg/server/app"
	"github.com/notesync/notesync/pkg/server/database"
	mw "github.com/notesync/notesync/pkg/server/middleware"
)

// NewHealth creates a new Health controller
func NewHealth(app *app.App) *Health {
	return &Health{app: app}
}

// Health is a health controller.
type Health struct {
	app *app.App
}

// Index responds with the state of the server. It is not affected by the
// maintenance mode so that probes can tell maintenance apart from an outage.
func (h *Health) Index(w http.ResponseWriter, r *http.Request) {
	version, err := database.SchemaVersion(h.app.DB)
	if err != nil {
		handleJSONError(w, err, "reading schema version")
		return
	}

	mw.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"version":       h.app.Version,
		"schemaVersion": version,
		"maintenance":   h.app.Maintenance,
	})
}
