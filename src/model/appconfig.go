// backend/src/model/appconfig.go
package model

import "database/sql"

// GetConfigValue reads a key from app_config, falling back to def when unset.
func GetConfigValue(db *sql.DB, key, def string) (string, error) {
	var value string
	err := db.QueryRow("SELECT value FROM app_config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return def, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetConfigValue upserts a key in app_config.
func SetConfigValue(db *sql.DB, key, value string) error {
	_, err := db.Exec(
		"INSERT INTO app_config(key, value) VALUES(?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	return err
}
