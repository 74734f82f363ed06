package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const pendingCommandsLimit = 50

func CreateCommand(deviceID string, payload json.RawMessage) (*Command, error) {
	id := fmt.Sprintf("cmd_%s", uuid.New().String()[:8])
	now := time.Now().UTC()

	command := &Command{
		ID:        id,
		DeviceID:  deviceID,
		Command:   payload,
		Status:    CommandStatusPending,
		CreatedAt: now,
	}

	query := `
		INSERT INTO commands (id, device_id, command, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := DB.Exec(query, command.ID, command.DeviceID, string(command.Command), command.Status, command.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create command: %w", err)
	}

	return command, nil
}

// GetPendingCommands returns unacknowledged commands oldest first. Devices
// rely on this ordering to execute instructions in issuance order.
func GetPendingCommands(deviceID string) ([]Command, error) {
	query := `
		SELECT id, device_id, command, status, created_at, executed_at
		FROM commands
		WHERE device_id = $1 AND status = $2
		ORDER BY created_at ASC
		LIMIT $3
	`

	rows, err := DB.Query(query, deviceID, CommandStatusPending, pendingCommandsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending commands: %w", err)
	}
	defer rows.Close()

	commands := []Command{}
	for rows.Next() {
		var cmd Command
		var payload string
		if err := rows.Scan(&cmd.ID, &cmd.DeviceID, &payload, &cmd.Status, &cmd.CreatedAt, &cmd.ExecutedAt); err != nil {
			return nil, fmt.Errorf("failed to scan command: %w", err)
		}
		cmd.Command = json.RawMessage(payload)
		commands = append(commands, cmd)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating commands: %w", err)
	}

	return commands, nil
}

// AcknowledgeCommand transitions a command to ack. Re-acknowledging an
// already-acked command is a no-op success: the status cannot regress and
// executed_at keeps its original value.
func AcknowledgeCommand(commandID string) error {
	now := time.Now().UTC()

	query := `
		UPDATE commands
		SET status = $1, executed_at = COALESCE(executed_at, $2)
		WHERE id = $3
	`

	result, err := DB.Exec(query, CommandStatusAck, now, commandID)
	if err != nil {
		return fmt.Errorf("failed to acknowledge command: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func GetCommandByID(commandID string) (*Command, error) {
	query := `
		SELECT id, device_id, command, status, created_at, executed_at
		FROM commands
		WHERE id = $1
	`

	cmd := &Command{}
	var payload string
	err := DB.QueryRow(query, commandID).Scan(
		&cmd.ID,
		&cmd.DeviceID,
		&payload,
		&cmd.Status,
		&cmd.CreatedAt,
		&cmd.ExecutedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get command: %w", err)
	}

	cmd.Command = json.RawMessage(payload)
	return cmd, nil
}
