package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Tombstone is the sentinel written in place of a deleted sequence element.
// It keeps the sequence length (and therefore every other index) unchanged
// until a compaction pass pulls all sentinels out.
const Tombstone = "null"

// Recurrences is the allowed value set for EventSchedule.Recurs.
var Recurrences = []string{"Daily", "Weekly", "Monthly-Date", "Monthly-Weekday", "Yearly"}

// Event is a calendar entry, addressed by its position in the owning
// group's event sequence.
type Event struct {
	Name        string         `bson:"name" json:"name"`
	Description string         `bson:"description" json:"description"`
	StartDate   int64          `bson:"start_date" json:"start_date"`
	EndDate     int64          `bson:"end_date" json:"end_date"`
	Schedule    *EventSchedule `bson:"schedule,omitempty" json:"schedule,omitempty"`

	tombstoned bool
}

// EventSchedule describes an event's recurrence: a kind from Recurrences
// and the epoch-millisecond timestamp recurrence stops at.
type EventSchedule struct {
	Recurs      string `bson:"recurs" json:"recurs"`
	RecursUntil int64  `bson:"recurs_until" json:"recurs_until"`
}

// Tombstoned reports whether this slot holds the deletion sentinel rather
// than a live event.
func (e Event) Tombstoned() bool { return e.tombstoned }

// MarshalBSONValue writes a tombstoned slot back as the sentinel string so
// a whole-sequence rewrite cannot resurrect a deleted element.
func (e Event) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if e.tombstoned {
		return bson.MarshalValue(Tombstone)
	}
	type plain Event
	return bson.MarshalValue(plain(e))
}

// UnmarshalBSONValue decodes either a live event document or the sentinel
// string left by an uncompacted delete.
func (e *Event) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bsontype.String {
		*e = Event{tombstoned: true}
		return nil
	}
	type plain Event
	var p plain
	if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&p); err != nil {
		return err
	}
	*e = Event(p)
	return nil
}
