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

// Package config reads and writes the notesync configuration file
package config

import (
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/notesync/notesync/pkg/cli/consts"
	"github.com/notesync/notesync/pkg/cli/context"
	"github.com/notesync/notesync/pkg/cli/utils"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
	"gopkg.in/yaml.v2"
)

// Config holds notesync configuration
type Config struct {
	Editor string `yaml:"editor"`
	// RequestTimeout is in seconds
	RequestTimeout int    `yaml:"requestTimeout"`
	SyncSchedule   string `yaml:"syncSchedule"`
	Concurrency    int    `yaml:"concurrency"`
}

// Default returns the configuration written on first run
func Default(editor string) Config {
	return Config{
		Editor:         editor,
		RequestTimeout: consts.DefaultRequestTimeout,
		SyncSchedule:   consts.DefaultSyncSchedule,
		Concurrency:    consts.DefaultConcurrency,
	}
}

func validateSchedule(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	if _, err := cron.Parse(s); err != nil {
		return errors.New("must be a valid cron spec")
	}

	return nil
}

// Validate validates the configuration
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Editor, validation.Required),
		validation.Field(&c.RequestTimeout, validation.Min(1), validation.Max(600)),
		validation.Field(&c.SyncSchedule, validation.By(validateSchedule)),
		validation.Field(&c.Concurrency, validation.Min(1), validation.Max(32)),
	)
}

// GetPath returns the path to the notesync config file
func GetPath(ctx context.NotesyncCtx) string {
	return filepath.Join(ctx.Paths.Config, consts.NotesyncDirName, consts.ConfigFilename)
}

// Read reads the config file and fills in the defaults of missing values
func Read(ctx context.NotesyncCtx) (Config, error) {
	var ret Config

	configPath := GetPath(ctx)
	b, err := os.ReadFile(configPath)
	if err != nil {
		return ret, errors.Wrap(err, "reading config file")
	}

	err = yaml.Unmarshal(b, &ret)
	if err != nil {
		return ret, errors.Wrap(err, "unmarshalling config")
	}

	if ret.RequestTimeout == 0 {
		ret.RequestTimeout = consts.DefaultRequestTimeout
	}
	if ret.SyncSchedule == "" {
		ret.SyncSchedule = consts.DefaultSyncSchedule
	}
	if ret.Concurrency == 0 {
		ret.Concurrency = consts.DefaultConcurrency
	}

	if err := ret.Validate(); err != nil {
		return ret, errors.Wrapf(err, "invalid config at %s", configPath)
	}

	return ret, nil
}

// Write writes the config to the config file
func Write(ctx context.NotesyncCtx, cf Config) error {
	path := GetPath(ctx)

	b, err := yaml.Marshal(cf)
	if err != nil {
		return errors.Wrap(err, "marshalling config into YAML")
	}

	err = utils.WriteFileAtomic(path, b, 0644)
	if err != nil {
		return errors.Wrap(err, "writing the config file")
	}

	return nil
}
