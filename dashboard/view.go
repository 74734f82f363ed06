// Package dashboard holds the client-side core of one dashboard session:
// the reconciled view of live telemetry and the actor that ties the change
// feed to the mission machine.
package dashboard

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"garden-gateway-api/db"
	"garden-gateway-api/feed"
)

// Confirmation is the user-facing signal that a command reached the device,
// keyed by the action name from the command payload.
type Confirmation struct {
	CommandID string
	Action    string
}

// Update describes what a single change event did to the view.
type Update struct {
	Reading      *db.Reading
	Confirmation *Confirmation
}

// ViewState is the latest-value-wins cache behind the sensor cards: one
// value per metric plus a single last-update timestamp across all metrics.
// Missed feed events leave it stale, never wrong about what it did see.
type ViewState struct {
	mu        sync.Mutex
	readings  map[string]float64
	updatedAt time.Time
}

func NewViewState() *ViewState {
	return &ViewState{
		readings: make(map[string]float64),
	}
}

// Apply folds one change event into the view. Reading inserts overwrite the
// value for their metric; a command update whose status is ack yields a
// confirmation, exactly once per event. Events for other tables are ignored.
func (v *ViewState) Apply(event feed.Event) (Update, error) {
	switch {
	case event.Table == feed.TableReadings && event.Kind == feed.KindInsert:
		var reading db.Reading
		if err := json.Unmarshal(event.Row, &reading); err != nil {
			return Update{}, fmt.Errorf("failed to decode reading event: %w", err)
		}

		v.mu.Lock()
		v.readings[reading.Metric] = reading.Value
		v.updatedAt = time.Now()
		v.mu.Unlock()

		return Update{Reading: &reading}, nil

	case event.Table == feed.TableCommands && event.Kind == feed.KindUpdate:
		var cmd db.Command
		if err := json.Unmarshal(event.Row, &cmd); err != nil {
			return Update{}, fmt.Errorf("failed to decode command event: %w", err)
		}

		if cmd.Status != db.CommandStatusAck {
			return Update{}, nil
		}

		return Update{Confirmation: &Confirmation{
			CommandID: cmd.ID,
			Action:    db.ActionName(cmd.Command),
		}}, nil
	}

	return Update{}, nil
}

// Reading returns the latest value for a metric.
func (v *ViewState) Reading(metric string) (float64, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	value, ok := v.readings[metric]
	return value, ok
}

// Readings returns a copy of the latest value per metric.
func (v *ViewState) Readings() map[string]float64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make(map[string]float64, len(v.readings))
	for metric, value := range v.readings {
		out[metric] = value
	}
	return out
}

// LastUpdate is when any metric last changed; the zero time before the
// first event.
func (v *ViewState) LastUpdate() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.updatedAt
}
