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
	"strconv"

	"github.com/gorilla/mux"
	"github.com/notesync/notesync/pkg/server/app"
	"github.com/notesync/notesync/pkg/server/context"
	"github.com/notesync/notesync/pkg/server/database"
	mw "github.com/notesync/notesync/pkg/server/middleware"
	"github.com/pkg/errors"
)

var (
	errMissingUser    = errors.New("no user in the request context")
	errInvalidNoteID  = errors.New("invalid note id")
	errInvalidPayload = errors.New("invalid payload")
	errInvalidPrune   = errors.New("pruneBefore must be a non-negative integer")
)

// getStatusCode maps an error returned by the app to a status code
func getStatusCode(err error) int {
	switch {
	case errors.Is(err, app.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrPreconditionFailed):
		return http.StatusPreconditionFailed
	case errors.Is(err, app.ErrInvalidNote),
		errors.Is(err, errInvalidNoteID),
		errors.Is(err, errInvalidPayload),
		errors.Is(err, errInvalidPrune):
		return http.StatusBadRequest
	case errors.Is(err, app.ErrLoginInvalid):
		return http.StatusUnauthorized
	}

	return http.StatusInternalServerError
}

// handleJSONError responds with the status code for the error
func handleJSONError(w http.ResponseWriter, err error, msg string) {
	mw.DoError(w, msg, err, getStatusCode(err))
}

// parseRequestData decodes the JSON body of the request into v
func parseRequestData(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errInvalidPayload, err.Error())
	}

	return nil
}

// getUser returns the authenticated user of the request
func getUser(r *http.Request) (database.User, error) {
	user := context.User(r.Context())
	if user == nil {
		return database.User{}, errMissingUser
	}

	return *user, nil
}

func getNoteID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["noteID"])
	if err != nil || id <= 0 {
		return 0, errInvalidNoteID
	}

	return id, nil
}
