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
	"strings"

	"github.com/notesync/notesync/pkg/server/database"
	"github.com/notesync/notesync/pkg/server/helpers"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func validateUserName(userName string) error {
	if userName == "" {
		return ErrUserNameRequired
	}
	if strings.ContainsAny(userName, ": \t\n") {
		return ErrUserNameInvalid
	}

	return nil
}

func hashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", ErrPasswordTooShort
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hashing password")
	}

	return string(hashed), nil
}

// CreateUser creates a user
func (a *App) CreateUser(userName, password string) (database.User, error) {
	if err := validateUserName(userName); err != nil {
		return database.User{}, err
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return database.User{}, err
	}

	uuid, err := helpers.GenUUID()
	if err != nil {
		return database.User{}, err
	}

	user := database.User{
		UUID:     uuid,
		UserName: userName,
		Password: hashed,
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&database.User{}).Where("user_name = ?", userName).Count(&count).Error; err != nil {
			return errors.Wrap(err, "counting user")
		}
		if count > 0 {
			return ErrDuplicateUser
		}

		if err := tx.Create(&user).Error; err != nil {
			return errors.Wrap(err, "saving user")
		}

		return nil
	})
	if err != nil {
		return database.User{}, err
	}

	return user, nil
}

// GetUserByName finds a user by the user name
func (a *App) GetUserByName(userName string) (*database.User, error) {
	var user database.User
	err := a.DB.Where("user_name = ?", userName).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "finding user")
	}

	return &user, nil
}

// Authenticate checks the basic auth credentials of a user
func (a *App) Authenticate(userName, password string) (*database.User, error) {
	user, err := a.GetUserByName(userName)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrLoginInvalid
	} else if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrLoginInvalid
	}

	return user, nil
}

// CountUserNotes returns the number of notes owned by the user
func (a *App) CountUserNotes(user database.User) (int64, error) {
	var count int64
	if err := a.DB.Model(&database.Note{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "counting notes")
	}

	return count, nil
}

// RemoveUser removes the user and every note of the user
func (a *App) RemoveUser(userName string) error {
	user, err := a.GetUserByName(userName)
	if err != nil {
		return err
	}

	return a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&database.Note{}).Error; err != nil {
			return errors.Wrap(err, "deleting notes")
		}
		if err := tx.Delete(user).Error; err != nil {
			return errors.Wrap(err, "deleting user")
		}

		return nil
	})
}

// UpdateUserPassword replaces the password of the user
func UpdateUserPassword(db *gorm.DB, user *database.User, password string) error {
	hashed, err := hashPassword(password)
	if err != nil {
		return err
	}

	if err := db.Model(user).Update("password", hashed).Error; err != nil {
		return errors.Wrap(err, "updating password")
	}

	return nil
}
