package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Allowed value sets for assignment option fields.
var (
	Priorities = []string{"Low", "Medium", "High"}
	Statuses   = []string{"Incomplete", "Complete"}
)

// Assignment is a task with a deadline window, addressed by its position in
// the owning group's assignment sequence.
type Assignment struct {
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description" json:"description"`
	StartDate   int64  `bson:"start_date" json:"start_date"`
	EndDate     int64  `bson:"end_date" json:"end_date"`
	Priority    string `bson:"priority" json:"priority"`
	Status      string `bson:"status" json:"status"`

	tombstoned bool
}

// Tombstoned reports whether this slot holds the deletion sentinel rather
// than a live assignment.
func (a Assignment) Tombstoned() bool { return a.tombstoned }

// MarshalBSONValue writes a tombstoned slot back as the sentinel string so
// a whole-sequence rewrite cannot resurrect a deleted element.
func (a Assignment) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if a.tombstoned {
		return bson.MarshalValue(Tombstone)
	}
	type plain Assignment
	return bson.MarshalValue(plain(a))
}

// UnmarshalBSONValue decodes either a live assignment document or the
// sentinel string left by an uncompacted delete.
func (a *Assignment) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bsontype.String {
		*a = Assignment{tombstoned: true}
		return nil
	}
	type plain Assignment
	var p plain
	if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&p); err != nil {
		return err
	}
	*a = Assignment(p)
	return nil
}
