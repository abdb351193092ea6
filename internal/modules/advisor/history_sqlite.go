package advisor

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aristath/advisor/internal/domain"
)

// SQLiteHistory is the persistent history backend, selectable via configuration.
// Records are stored as JSON blobs in insertion order; the sqlite write lock
// serializes concurrent appends.
type SQLiteHistory struct {
	db *sql.DB
}

// NewSQLiteHistory creates a history store over an already-migrated history DB.
func NewSQLiteHistory(db *sql.DB) *SQLiteHistory {
	return &SQLiteHistory{db: db}
}

// Append stores a fully assembled record.
func (h *SQLiteHistory) Append(record domain.AdviceRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal advice record: %w", err)
	}

	_, err = h.db.Exec(
		"INSERT INTO advice_records (id, data, created_at) VALUES (?, ?, ?)",
		record.ID, string(data), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to append advice record: %w", err)
	}

	return nil
}

// ListAll returns all records in insertion order.
func (h *SQLiteHistory) ListAll() ([]domain.AdviceRecord, error) {
	rows, err := h.db.Query("SELECT data FROM advice_records ORDER BY seq ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query advice records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.AdviceRecord, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan advice record: %w", err)
		}

		var record domain.AdviceRecord
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal advice record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate advice records: %w", err)
	}

	return records, nil
}

// Clear removes all records.
func (h *SQLiteHistory) Clear() error {
	if _, err := h.db.Exec("DELETE FROM advice_records"); err != nil {
		return fmt.Errorf("failed to clear advice records: %w", err)
	}
	return nil
}
