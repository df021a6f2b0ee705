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
	"github.com/notesync/notesync/pkg/clock"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrEmptyDB is an error for missing database connection in the app configuration
	ErrEmptyDB = errors.New("No database connection was provided")
	// ErrEmptyClock is an error for missing clock in the app configuration
	ErrEmptyClock = errors.New("No clock was provided")
)

// DefaultAPIVersions are the notes API versions the server speaks
var DefaultAPIVersions = []string{"0.2", "1.0"}

// App is an application context
type App struct {
	DB    *gorm.DB
	Clock clock.Clock
	// Maintenance makes every route respond with 503
	Maintenance bool
	// APIVersions are the notes API versions advertised to the clients
	APIVersions []string
	// ThemeColor and ThemeTextColor are advertised in the capabilities
	ThemeColor     string
	ThemeTextColor string
	AppEnv         string
	Port           string
	DBPath         string
	Version        string
}

// Validate validates the app configuration
func (a *App) Validate() error {
	if a.Clock == nil {
		return ErrEmptyClock
	}
	if a.DB == nil {
		return ErrEmptyDB
	}

	return nil
}
