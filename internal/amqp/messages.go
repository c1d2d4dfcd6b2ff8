package amqp

import (
	"encoding/json"
	"time"
)

// SnapshotSyncMessage tells the worker that the expense snapshot changed.
// It carries only the revision and record count; the worker reads the full
// snapshot from storage, so a lost message is recovered by the next one or
// by the periodic resync.
type SnapshotSyncMessage struct {
	Revision  int64     `json:"revision"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSnapshotSyncMessage(revision int64, count int) *SnapshotSyncMessage {
	return &SnapshotSyncMessage{
		Revision:  revision,
		Count:     count,
		Timestamp: time.Now(),
	}
}

func (m *SnapshotSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SnapshotSyncMessageFromJSON(data []byte) (*SnapshotSyncMessage, error) {
	var msg SnapshotSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
