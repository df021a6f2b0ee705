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
	"encoding/json"
	"net/http"

	"github.com/notesync/notesync/pkg/server/app"
	"github.com/notesync/notesync/pkg/server/helpers"
	"github.com/notesync/notesync/pkg/server/presenters"
)

// NewCapabilities creates a new Capabilities controller
func NewCapabilities(app *app.App) *Capabilities {
	return &Capabilities{
		app: app,
	}
}

// Capabilities is a controller for the OCS capabilities document
type Capabilities struct {
	app *app.App
}

// Show responds with the capabilities document. The document only changes
// with the configuration, so an If-None-Match request is usually answered
// with 304.
func (c *Capabilities) Show(w http.ResponseWriter, r *http.Request) {
	doc := presenters.PresentCapabilities(presenters.CapabilitiesParams{
		Version:     c.app.Version,
		APIVersions: c.app.APIVersions,
		Color:       c.app.ThemeColor,
		ColorText:   c.app.ThemeTextColor,
	})

	body, err := json.Marshal(doc)
	if err != nil {
		handleJSONError(w, err, "encoding capabilities")
		return
	}

	etag := helpers.Digest(string(body))
	w.Header().Set("ETag", helpers.QuoteETag(etag))

	if inm := r.Header.Get("If-None-Match"); inm != "" && helpers.MatchETag(inm, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
