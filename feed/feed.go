// Package feed propagates row-level store changes to dashboard sessions
// over a Redis pub/sub channel. Delivery is best effort: events published
// while a session is not subscribed are gone for good, and the view layer
// is expected to treat its state as a cache, not a log.
package feed

import "encoding/json"

const Channel = "garden:changefeed"

const (
	KindInsert = "insert"
	KindUpdate = "update"
)

const (
	TableReadings = "sensor_readings"
	TableCommands = "commands"
)

type Event struct {
	Table string          `json:"table"`
	Kind  string          `json:"kind"`
	Row   json.RawMessage `json:"row"`
}
