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
)

// ocsMaintenanceBody is the OCS envelope of a server in maintenance mode
const ocsMaintenanceBody = `{"ocs":{"meta":{"status":"failure","statuscode":503,"message":"Service unavailable"},"data":{}}}`

// Maintenance responds with 503 to every request while the app is in
// maintenance mode
func Maintenance(a *app.App, next http.Handler, ocs bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Maintenance {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Retry-After", "120")

		if ocs {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(ocsMaintenanceBody))
			return
		}

		http.Error(w, "server is in maintenance mode", http.StatusServiceUnavailable)
	})
}
