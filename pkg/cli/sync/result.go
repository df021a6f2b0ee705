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

// Result is the outcome of a sync pass for one account
type Result struct {
	AccountID int
	// Pushed is the number of local changes the server acknowledged
	Pushed int
	// Pulled is the number of remote changes written locally
	Pulled int
	// Purged is the number of clean notes removed because the server deleted them
	Purged int
	Errors []*Error
	// Aborted is true if the pass stopped before running all of its phases
	Aborted bool
}

// OK returns true if the pass ran to the end without errors. Skipped
// conflicts are not errors.
func (r Result) OK() bool {
	if r.Aborted {
		return false
	}

	for _, e := range r.Errors {
		if e.Kind != KindConflictSkipped {
			return false
		}
	}

	return true
}

// Conflicts returns the skipped conflicts of the pass
func (r Result) Conflicts() []*Error {
	ret := []*Error{}
	for _, e := range r.Errors {
		if e.Kind == KindConflictSkipped {
			ret = append(ret, e)
		}
	}

	return ret
}

func (r *Result) add(e *Error) {
	r.Errors = append(r.Errors, e)
}

// failed reports whether an error of the given phase other than a skipped conflict was recorded
func (r Result) failed(phase Phase) bool {
	for _, e := range r.Errors {
		if e.Phase == phase && e.Kind != KindConflictSkipped {
			return true
		}
	}

	return false
}
