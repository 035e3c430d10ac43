package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/tasket/internal/models"
	"github.com/mmynk/tasket/internal/storage"
	"github.com/mmynk/tasket/internal/validate"
)

var eventSchema = validate.Schema{
	Timestamps: []string{"start_date", "end_date"},
	Strings:    []string{"name", "description"},
}

// CreateEvent appends a new event to the group's sequence in one write.
// Sequences may contain duplicates; no uniqueness is enforced.
func (e *Engine) CreateEvent(ctx context.Context, userID, groupName string, raw map[string]any) error {
	record, err := eventSchema.Validate(raw)
	if err != nil {
		return err
	}
	schedule, _, err := parseSchedule(raw)
	if err != nil {
		return err
	}

	user, err := e.fetchUser(ctx, userID)
	if err != nil {
		return err
	}
	if _, exists := user.Groups[groupName]; !exists {
		return ErrGroupNotFound
	}

	var event models.Event
	applyEventRecord(&event, record, schedule)

	res, err := e.store.UpdateUser(ctx, userID, []storage.Op{
		storage.Push{Path: eventsPath(groupName), Value: event},
	})
	if err != nil {
		return err
	}
	if res.Modified != 1 {
		return writeFailed("event creation")
	}

	e.log.Info("event created", "user_id", userID, "group", groupName, "event", event.Name)
	return nil
}

// UpdateEvent merges the normalized fields present in raw into the event at
// index and rewrites the whole sequence back in one write. The sequence is
// re-read immediately before the rewrite because a concurrent delete can
// change sequence length, which would make any positional patch target the
// wrong slot.
func (e *Engine) UpdateEvent(ctx context.Context, userID, groupName string, index int, raw map[string]any) error {
	schedule, hasSchedule, err := parseSchedule(raw)
	if err != nil {
		return err
	}
	record, err := eventSchema.ValidatePartial(raw)
	if err != nil {
		// A schedule-only update carries no schema fields but is still an
		// update.
		if !hasSchedule || !errors.Is(err, validate.ErrEmptyUpdate) {
			return err
		}
		record = map[string]any{}
	}

	events, err := e.fetchEvents(ctx, userID, groupName)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(events) || events[index].Tombstoned() {
		return ErrEventNotFound
	}

	applyEventRecord(&events[index], record, schedule)

	res, err := e.store.UpdateUser(ctx, userID, []storage.Op{
		storage.Set{Path: eventsPath(groupName), Value: events},
	})
	if err != nil {
		return err
	}
	if res.Matched != 1 {
		return writeFailed("event update")
	}

	e.log.Info("event updated", "user_id", userID, "group", groupName, "index", index)
	return nil
}

// DeleteEvent removes the event at index with two sequential writes: the
// slot is tombstoned in place (reported to the caller), then a best-effort
// compaction pulls every sentinel out of the sequence. A failed compaction
// leaves the element semantically deleted; the sentinel is filtered from
// reads and removed by the next positional operation on the sequence.
func (e *Engine) DeleteEvent(ctx context.Context, userID, groupName string, index int) error {
	events, err := e.fetchEvents(ctx, userID, groupName)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(events) {
		return ErrEventNotFound
	}

	res, err := e.store.UpdateUser(ctx, userID, []storage.Op{
		storage.Set{Path: fmt.Sprintf("%s.%d", eventsPath(groupName), index), Value: models.Tombstone},
	})
	if err != nil {
		return err
	}
	if res.Modified != 1 {
		return writeFailed("event deletion")
	}

	if _, err := e.store.UpdateUser(ctx, userID, []storage.Op{
		storage.PullEqual{Path: eventsPath(groupName), Value: models.Tombstone},
	}); err != nil {
		e.log.Warn("event compaction deferred", "user_id", userID, "group", groupName, "error", err)
	}

	e.log.Info("event deleted", "user_id", userID, "group", groupName, "index", index)
	return nil
}

// fetchEvents returns the group's event sequence, first compacting any
// sentinels left behind by a deferred compaction. Positional requests
// address the filtered sequence readers see, so indices only line up
// when storage carries no sentinels.
func (e *Engine) fetchEvents(ctx context.Context, userID, groupName string) ([]models.Event, error) {
	user, err := e.fetchUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	group, exists := user.Groups[groupName]
	if !exists {
		return nil, ErrGroupNotFound
	}
	if !group.HasTombstonedEvents() {
		return group.Events, nil
	}

	if _, err := e.store.UpdateUser(ctx, userID, []storage.Op{
		storage.PullEqual{Path: eventsPath(groupName), Value: models.Tombstone},
	}); err != nil {
		return nil, err
	}
	e.log.Info("deferred event compaction completed", "user_id", userID, "group", groupName)

	user, err = e.fetchUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	group, exists = user.Groups[groupName]
	if !exists {
		return nil, ErrGroupNotFound
	}
	return group.Events, nil
}

// parseSchedule validates and converts the optional schedule block: a
// recurrence kind from models.Recurrences plus a recurs-until timestamp.
func parseSchedule(raw map[string]any) (*models.EventSchedule, bool, error) {
	v, ok := raw["schedule"]
	if !ok || v == nil {
		return nil, false, nil
	}

	block, ok := v.(map[string]any)
	if !ok {
		return nil, true, fmt.Errorf("%w: schedule recur value not provided", validate.ErrMissingField)
	}

	recurs, ok := block["recurs"].(string)
	if !ok || recurs == "" {
		return nil, true, fmt.Errorf("%w: schedule recur value not provided", validate.ErrMissingField)
	}
	valid := false
	for _, r := range models.Recurrences {
		if r == recurs {
			valid = true
			break
		}
	}
	if !valid {
		return nil, true, fmt.Errorf("%w: schedule recur value invalid", validate.ErrInvalidOption)
	}

	until, ok := block["recurs_until"].(string)
	if !ok || until == "" {
		return nil, true, fmt.Errorf("%w: schedule recurs until value not provided", validate.ErrMissingField)
	}
	ms, err := validate.EpochMS(until)
	if err != nil {
		return nil, true, fmt.Errorf("%w: provided recurs_until value is invalid", validate.ErrInvalidTimestamp)
	}

	return &models.EventSchedule{Recurs: recurs, RecursUntil: ms}, true, nil
}

func applyEventRecord(event *models.Event, record map[string]any, schedule *models.EventSchedule) {
	if v, ok := record["name"].(string); ok {
		event.Name = v
	}
	if v, ok := record["description"].(string); ok {
		event.Description = v
	}
	if v, ok := record["start_date"].(int64); ok {
		event.StartDate = v
	}
	if v, ok := record["end_date"].(int64); ok {
		event.EndDate = v
	}
	if schedule != nil {
		event.Schedule = schedule
	}
}

func eventsPath(groupName string) string {
	return fmt.Sprintf("groups.%s.events", groupName)
}
