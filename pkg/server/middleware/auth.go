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

package middleware

import (
	"net/http"

	"github.com/notesync/notesync/pkg/server/app"
	"github.com/notesync/notesync/pkg/server/context"
	"github.com/notesync/notesync/pkg/server/log"
	"github.com/pkg/errors"
)

// GetCredential returns the basic auth credentials of the request
func GetCredential(r *http.Request) (userName, password string, ok bool) {
	userName, password, ok = r.BasicAuth()
	if !ok || userName == "" {
		return "", "", false
	}

	return userName, password, true
}

// Auth is an authentication middleware. It checks the basic auth credentials
// against the stored password hash and puts the user in the request context.
func Auth(a *app.App, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userName, password, ok := GetCredential(r)
		if !ok {
			RespondUnauthorized(w)
			return
		}

		user, err := a.Authenticate(userName, password)
		if errors.Is(err, app.ErrLoginInvalid) {
			log.WithFields(log.Fields{
				"user": userName,
			}).Warn("Invalid credentials")

			RespondUnauthorized(w)
			return
		} else if err != nil {
			DoError(w, "authenticating", err, http.StatusInternalServerError)
			return
		}

		ctx := context.WithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
