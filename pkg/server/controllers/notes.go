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
	"strconv"
	"strings"

	"github.com/notesync/notesync/pkg/server/app"
	"github.com/notesync/notesync/pkg/server/database"
	"github.com/notesync/notesync/pkg/server/helpers"
	mw "github.com/notesync/notesync/pkg/server/middleware"
	"github.com/notesync/notesync/pkg/server/presenters"
)

// NewNotes creates a new Notes controller
func NewNotes(app *app.App) *Notes {
	return &Notes{
		app: app,
	}
}

// Notes is a notes controller
type Notes struct {
	app *app.App
}

// notePayload is the body of a create or update request
type notePayload struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
	Favorite *bool   `json:"favorite"`
	Modified *int64  `json:"modified"`
}

func (p notePayload) toParams() app.NoteParams {
	return app.NoteParams{
		Title:    p.Title,
		Content:  p.Content,
		Category: p.Category,
		Favorite: p.Favorite,
		Modified: p.Modified,
	}
}

func parsePruneBefore(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("pruneBefore")
	if raw == "" {
		return 0, nil
	}

	ret, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ret < 0 {
		return 0, errInvalidPrune
	}

	return ret, nil
}

func (n *Notes) setAPIVersionsHeader(w http.ResponseWriter) {
	w.Header().Set("X-Notes-API-Versions", strings.Join(n.app.APIVersions, ", "))
}

func (n *Notes) respondNote(w http.ResponseWriter, note database.Note) {
	n.setAPIVersionsHeader(w)
	w.Header().Set("ETag", helpers.QuoteETag(note.ETag))

	mw.RespondJSON(w, http.StatusOK, presenters.PresentNote(note))
}

// Index lists the notes of the user. Notes modified before pruneBefore
// are listed as stubs.
func (n *Notes) Index(w http.ResponseWriter, r *http.Request) {
	user, err := getUser(r)
	if err != nil {
		handleJSONError(w, err, "getting user")
		return
	}

	pruneBefore, err := parsePruneBefore(r)
	if err != nil {
		handleJSONError(w, err, "parsing pruneBefore")
		return
	}

	listing, err := n.app.ListNotes(user)
	if err != nil {
		handleJSONError(w, err, "listing notes")
		return
	}

	n.setAPIVersionsHeader(w)
	w.Header().Set("ETag", helpers.QuoteETag(listing.ETag))
	if listing.LastModified > 0 {
		w.Header().Set("Last-Modified", presenters.FormatHTTPTime(listing.LastModified))
	}

	if inm := r.Header.Get("If-None-Match"); inm != "" && helpers.MatchETag(inm, listing.ETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentNotes(listing.Notes, pruneBefore))
}

// Show responds with a single note
func (n *Notes) Show(w http.ResponseWriter, r *http.Request) {
	user, err := getUser(r)
	if err != nil {
		handleJSONError(w, err, "getting user")
		return
	}

	id, err := getNoteID(r)
	if err != nil {
		handleJSONError(w, err, "parsing note id")
		return
	}

	note, err := n.app.GetNote(user, id)
	if err != nil {
		handleJSONError(w, err, "getting note")
		return
	}

	n.respondNote(w, note)
}

// Create creates a note
func (n *Notes) Create(w http.ResponseWriter, r *http.Request) {
	user, err := getUser(r)
	if err != nil {
		handleJSONError(w, err, "getting user")
		return
	}

	var payload notePayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	note, err := n.app.CreateNote(user, payload.toParams())
	if err != nil {
		handleJSONError(w, err, "creating note")
		return
	}

	n.respondNote(w, note)
}

// Update updates a note. An If-Match header makes the update conditional on
// the current etag of the note.
func (n *Notes) Update(w http.ResponseWriter, r *http.Request) {
	user, err := getUser(r)
	if err != nil {
		handleJSONError(w, err, "getting user")
		return
	}

	id, err := getNoteID(r)
	if err != nil {
		handleJSONError(w, err, "parsing note id")
		return
	}

	var payload notePayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	note, err := n.app.UpdateNote(user, id, r.Header.Get("If-Match"), payload.toParams())
	if err != nil {
		handleJSONError(w, err, "updating note")
		return
	}

	n.respondNote(w, note)
}

// Delete deletes a note
func (n *Notes) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := getUser(r)
	if err != nil {
		handleJSONError(w, err, "getting user")
		return
	}

	id, err := getNoteID(r)
	if err != nil {
		handleJSONError(w, err, "parsing note id")
		return
	}

	if err := n.app.DeleteNote(user, id); err != nil {
		handleJSONError(w, err, "deleting note")
		return
	}

	n.setAPIVersionsHeader(w)
	w.WriteHeader(http.StatusOK)
}
