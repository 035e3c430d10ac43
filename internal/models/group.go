package models

// Default attribute values applied at group creation when the caller
// supplies none.
const (
	DefaultGroupColor = "#0000FF"
	DefaultGroupType  = "Class"
)

// GroupAttributes lists the group fields that may be changed by a partial
// update. The group's name is not an attribute; it is the storage key and
// changes through a rename.
var GroupAttributes = []string{"color", "type"}

// Group holds a calendar's worth of events and assignments. Identified by
// its key in User.Groups, unique within that user only.
type Group struct {
	Color       string       `bson:"color" json:"color"`
	Type        string       `bson:"type" json:"type"`
	Events      []Event      `bson:"events" json:"events"`
	Assignments []Assignment `bson:"assignments" json:"assignments"`
}

// LiveEvents returns the events with tombstoned slots filtered out.
func (g Group) LiveEvents() []Event {
	live := make([]Event, 0, len(g.Events))
	for _, e := range g.Events {
		if !e.Tombstoned() {
			live = append(live, e)
		}
	}
	return live
}

// HasTombstonedEvents reports whether any event slot still holds the
// deletion sentinel from a deferred compaction.
func (g Group) HasTombstonedEvents() bool {
	for _, e := range g.Events {
		if e.Tombstoned() {
			return true
		}
	}
	return false
}

// LiveAssignments returns the assignments with tombstoned slots filtered out.
func (g Group) LiveAssignments() []Assignment {
	live := make([]Assignment, 0, len(g.Assignments))
	for _, a := range g.Assignments {
		if !a.Tombstoned() {
			live = append(live, a)
		}
	}
	return live
}

// HasTombstonedAssignments reports whether any assignment slot still holds
// the deletion sentinel from a deferred compaction.
func (g Group) HasTombstonedAssignments() bool {
	for _, a := range g.Assignments {
		if a.Tombstoned() {
			return true
		}
	}
	return false
}
