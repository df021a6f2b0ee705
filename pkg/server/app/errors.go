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

package app

import (
	"github.com/pkg/errors"
)

var (
	// ErrNotFound an error that indicates that the given resource is not found
	ErrNotFound = errors.New("not found")
	// ErrLoginInvalid is an error for invalid credentials
	ErrLoginInvalid = errors.New("wrong user name and password combination")
	// ErrUserNameRequired is an error for a missing user name
	ErrUserNameRequired = errors.New("user name is required")
	// ErrUserNameInvalid is an error for a user name that cannot be used in basic auth
	ErrUserNameInvalid = errors.New("user name must not contain a colon or whitespace")
	// ErrPasswordTooShort is an error for short password
	ErrPasswordTooShort = errors.New("password should be longer than 8 characters")
	// ErrDuplicateUser is an error for an existing user name
	ErrDuplicateUser = errors.New("a user with this name already exists")
	// ErrPreconditionFailed is an error for an If-Match header that does not match the note
	ErrPreconditionFailed = errors.New("the note was modified by another client")
	// ErrInvalidNote is an error for a note payload that cannot be stored
	ErrInvalidNote = errors.New("invalid note")
)
