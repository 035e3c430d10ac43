package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the root document for one account. Groups are keyed by group name;
// the name is both the group's identity and its storage key, so renaming a
// group moves its value to a new key.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password,omitempty" json:"-"` // bcrypt hash, never serialized to JSON
	Settings map[string]any     `bson:"settings" json:"settings"`
	Groups   map[string]Group   `bson:"groups" json:"groups"`
}
