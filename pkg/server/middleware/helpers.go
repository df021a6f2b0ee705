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

// Package middleware provides the HTTP middlewares wrapped around the routes
package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/notesync/notesync/pkg/server/app"
	"github.com/notesync/notesync/pkg/server/log"
)

// Middleware wraps the handler of a route
type Middleware func(h http.HandlerFunc, a *app.App, rateLimit bool) http.Handler

// APIMw is the middleware for the notes API. Every route requires a user.
func APIMw(h http.HandlerFunc, a *app.App, rateLimit bool) http.Handler {
	ret := Auth(a, h)
	ret = Maintenance(a, ret, false)

	return ApplyLimit(ret, a, rateLimit)
}

// OCSMw is the middleware for the OCS routes. The maintenance response is an
// OCS document so that clients can tell it apart from a broken server.
func OCSMw(h http.HandlerFunc, a *app.App, rateLimit bool) http.Handler {
	ret := Auth(a, h)
	ret = Maintenance(a, ret, true)

	return ApplyLimit(ret, a, rateLimit)
}

// PublicMw is the middleware for the routes that do not require a user
func PublicMw(h http.HandlerFunc, a *app.App, rateLimit bool) http.Handler {
	return ApplyLimit(h, a, rateLimit)
}

// Global is the middleware for every request
func Global(h http.Handler) http.Handler {
	return Logging(h)
}

// NotSupported responds with 410 for the API versions the server does not speak
func NotSupported(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "API version is not supported", http.StatusGone)
}

// RespondUnauthorized responds with 401 and a basic auth challenge
func RespondUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="notesync"`)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

// DoError logs the error and responds with the given status code. The
// error itself is not exposed to the client for 5xx responses.
func DoError(w http.ResponseWriter, msg string, err error, statusCode int) {
	if statusCode >= http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"statusCode": statusCode,
		}).ErrorWrap(err, msg)

		http.Error(w, http.StatusText(statusCode), statusCode)
		return
	}

	message := msg
	if err != nil {
		message = err.Error()
	}

	http.Error(w, message, statusCode)
}

// RespondJSON encodes v as the JSON body of the response
func RespondJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.ErrorWrap(err, "encoding response")
	}
}
