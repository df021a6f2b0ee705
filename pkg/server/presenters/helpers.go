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

package presenters

import (
	"net/http"
	"time"
)

// FormatHTTPTime formats the unix timestamp in seconds for HTTP headers
// such as Last-Modified
func FormatHTTPTime(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(http.TimeFormat)
}
