package db

import (
	"database/sql"
	"fmt"
	"time"
)

type ReadingInput struct {
	Metric string
	Value  float64
}

// InsertReadings appends one row per entry as a single transaction and
// returns the stored rows in input order. An empty batch is a no-op.
func InsertReadings(deviceID string, entries []ReadingInput) ([]Reading, error) {
	if len(entries) == 0 {
		return []Reading{}, nil
	}

	now := time.Now().UTC()

	tx, err := DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `
		INSERT INTO sensor_readings (device_id, metric, value, created_at)
		VALUES ($1, $2, $3, $4)
	`

	readings := make([]Reading, 0, len(entries))
	for _, entry := range entries {
		if _, err := tx.Exec(query, deviceID, entry.Metric, entry.Value, now); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to insert reading: %w", err)
		}
		readings = append(readings, Reading{
			DeviceID:  deviceID,
			Metric:    entry.Metric,
			Value:     entry.Value,
			CreatedAt: now,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit readings: %w", err)
	}

	return readings, nil
}

// UpsertDeviceStatus marks the device online as of now. The stored is_online
// flag is a denormalized hint; liveness is always recomputable from last_seen.
func UpsertDeviceStatus(deviceID string, now time.Time) error {
	query := `
		INSERT INTO device_status (device_id, is_online, last_seen)
		VALUES ($1, TRUE, $2)
		ON CONFLICT (device_id)
		DO UPDATE SET is_online = TRUE, last_seen = excluded.last_seen
	`

	if _, err := DB.Exec(query, deviceID, now.UTC()); err != nil {
		return fmt.Errorf("failed to upsert device status: %w", err)
	}

	return nil
}

func GetDeviceStatus(deviceID string) (*DeviceStatus, error) {
	query := `
		SELECT device_id, is_online, last_seen
		FROM device_status
		WHERE device_id = $1
	`

	status := &DeviceStatus{}
	err := DB.QueryRow(query, deviceID).Scan(
		&status.DeviceID,
		&status.IsOnline,
		&status.LastSeen,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get device status: %w", err)
	}

	return status, nil
}
