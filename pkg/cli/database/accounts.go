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

package database

import (
	"database/sql"

	"github.com/pkg/errors"
)

// ErrAccountExists is an error for inserting an account whose name is taken
var ErrAccountExists = errors.New("account already exists")

// InsertAccount inserts a new account and returns its id
func InsertAccount(db *DB, a Account) (int, error) {
	var count int
	if err := db.QueryRow("SELECT count(*) FROM accounts WHERE account_name = ?", a.AccountName).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "counting accounts")
	}
	if count > 0 {
		return 0, errors.Wrapf(ErrAccountExists, "'%s'", a.AccountName)
	}

	res, err := db.Exec(`INSERT INTO accounts
		(url, user_name, account_name, etag, modified, api_version, color, text_color, capabilities_etag, display_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.URL, a.UserName, a.AccountName, a.ETag, a.Modified, a.APIVersion, a.Color, a.TextColor, a.CapabilitiesETag, a.DisplayName)
	if err != nil {
		return 0, errors.Wrapf(err, "inserting account %s", a.AccountName)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "getting the account id")
	}

	return int(id), nil
}

// GetAccount finds the account with the given id
func GetAccount(db *DB, id int) (Account, error) {
	a, err := scanAccount(db.QueryRow("SELECT "+accountColumns+" FROM accounts WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return a, errors.Wrapf(ErrNotFound, "account %d", id)
	} else if err != nil {
		return a, errors.Wrapf(err, "finding account %d", id)
	}

	return a, nil
}

// GetAccountByName finds the account with the given account name
func GetAccountByName(db *DB, name string) (Account, error) {
	a, err := scanAccount(db.QueryRow("SELECT "+accountColumns+" FROM accounts WHERE account_name = ?", name))
	if err == sql.ErrNoRows {
		return a, errors.Wrapf(ErrNotFound, "account '%s'", name)
	} else if err != nil {
		return a, errors.Wrapf(err, "finding account '%s'", name)
	}

	return a, nil
}

// ListAccounts returns all accounts ordered by id
func ListAccounts(db *DB) ([]Account, error) {
	rows, err := db.Query("SELECT " + accountColumns + " FROM accounts ORDER BY id")
	if err != nil {
		return nil, errors.Wrap(err, "querying accounts")
	}
	defer rows.Close()

	ret := []Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning an account")
		}

		ret = append(ret, a)
	}

	return ret, rows.Err()
}

// DeleteAccount deletes the account. Its notes and credential are deleted with it.
func DeleteAccount(db *DB, id int) error {
	res, err := db.Exec("DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return errors.Wrapf(err, "deleting account %d", id)
	}

	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "account %d", id)
	}

	return nil
}

// CapabilitiesCache holds the capability fields cached on an account
type CapabilitiesCache struct {
	APIVersion *string
	Color      string
	TextColor  string
	ETag       *string
}

// UpdateCapabilities persists a freshly fetched capability document
func UpdateCapabilities(db *DB, id int, c CapabilitiesCache) error {
	_, err := db.Exec("UPDATE accounts SET api_version = ?, color = ?, text_color = ?, capabilities_etag = ? WHERE id = ?",
		c.APIVersion, c.Color, c.TextColor, c.ETag, id)
	if err != nil {
		return errors.Wrapf(err, "updating capabilities of account %d", id)
	}

	return nil
}

// ClearCapabilitiesETag forgets the capabilities ETag so that the next fetch is unconditional
func ClearCapabilitiesETag(db *DB, id int) error {
	if _, err := db.Exec("UPDATE accounts SET capabilities_etag = NULL WHERE id = ?", id); err != nil {
		return errors.Wrapf(err, "clearing capabilities etag of account %d", id)
	}

	return nil
}

// UpdateAPIVersion sets the raw list of API versions supported by the server
func UpdateAPIVersion(db *DB, id int, apiVersion string) error {
	if _, err := db.Exec("UPDATE accounts SET api_version = ? WHERE id = ?", apiVersion, id); err != nil {
		return errors.Wrapf(err, "updating api version of account %d", id)
	}

	return nil
}

// UpdateSyncState records the ETag and server time of the last successful pull
func UpdateSyncState(db *DB, id int, etag string, modified int64) error {
	var etagVal *string
	if etag != "" {
		etagVal = &etag
	}

	if _, err := db.Exec("UPDATE accounts SET etag = ?, modified = ? WHERE id = ?", etagVal, modified, id); err != nil {
		return errors.Wrapf(err, "updating sync state of account %d", id)
	}

	return nil
}

// UpdateDisplayName sets the display name of the account
func UpdateDisplayName(db *DB, id int, name string) error {
	if _, err := db.Exec("UPDATE accounts SET display_name = ? WHERE id = ?", name, id); err != nil {
		return errors.Wrapf(err, "updating display name of account %d", id)
	}

	return nil
}

// SetCredential stores the password of the account
func SetCredential(db *DB, accountID int, password string) error {
	_, err := db.Exec(`INSERT INTO credentials (account_id, password) VALUES (?, ?)
		ON CONFLICT(account_id) DO UPDATE SET password = excluded.password`, accountID, password)
	if err != nil {
		return errors.Wrapf(err, "storing credential of account %d", accountID)
	}

	return nil
}

// GetCredential returns the password of the account
func GetCredential(db *DB, accountID int) (string, error) {
	var password string

	err := db.QueryRow("SELECT password FROM credentials WHERE account_id = ?", accountID).Scan(&password)
	if err == sql.ErrNoRows {
		return "", errors.Wrapf(ErrNotFound, "credential of account %d", accountID)
	} else if err != nil {
		return "", errors.Wrapf(err, "finding credential of account %d", accountID)
	}

	return password, nil
}
