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

package validate

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrCategoryMultiline is an error for a category that has linebreaks
var ErrCategoryMultiline = errors.New("The category contains multiple lines")

// ErrCategoryEmptySegment is an error for a category with an empty folder name
var ErrCategoryEmptySegment = errors.New("The category contains an empty folder name")

// ErrCategoryRelative is an error for a category that refers to a parent folder
var ErrCategoryRelative = errors.New("The category cannot contain '.' or '..'")

// Category validates a category. Subcategories are separated by a slash. An
// empty category is valid and means uncategorized.
func Category(category string) error {
	if category == "" {
		return nil
	}

	if strings.Contains(category, "\n") || strings.Contains(category, "\r") {
		return ErrCategoryMultiline
	}

	for _, segment := range strings.Split(category, "/") {
		if strings.TrimSpace(segment) == "" {
			return ErrCategoryEmptySegment
		}
		if segment == "." || segment == ".." {
			return ErrCategoryRelative
		}
	}

	return nil
}
