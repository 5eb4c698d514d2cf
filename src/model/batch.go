// backend/src/model/batch.go
package model

import (
	"database/sql"
	"encoding/json"
	"time"
)

// CreateImportBatch records the start of one import and returns its id.
func CreateImportBatch(db *sql.DB, kind, source string) (int64, error) {
	res, err := db.Exec(
		"INSERT INTO import_batches (kind, source, imported_at) VALUES (?, ?, ?)",
		kind, source, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertImportRow keeps the raw row for auditing, tied to its batch.
func InsertImportRow(db *sql.DB, batchID int64, rowIndex int, row map[string]any) error {
	data, _ := json.Marshal(row)
	_, err := db.Exec(
		"INSERT INTO import_rows (batch_id, row_index, data) VALUES (?, ?, ?)",
		batchID, rowIndex, string(data))
	return err
}

// FinishImportBatch stamps the batch with its final row count.
func FinishImportBatch(db *sql.DB, batchID int64, totalRows int) error {
	_, err := db.Exec("UPDATE import_batches SET total_rows = ? WHERE id = ?", totalRows, batchID)
	return err
}
