package engine

import (
	"context"
	"fmt"

	"github.com/mmynk/tasket/internal/models"
	"github.com/mmynk/tasket/internal/storage"
	"github.com/mmynk/tasket/internal/validate"
)

var assignmentSchema = validate.Schema{
	Options: map[string][]string{
		"priority": models.Priorities,
		"status":   models.Statuses,
	},
	Timestamps: []string{"start_date", "end_date"},
	Strings:    []string{"name", "description"},
}

// CreateAssignment appends a new assignment to the group's sequence in one
// write. All schema fields are required.
func (e *Engine) CreateAssignment(ctx context.Context, userID, groupName string, raw map[string]any) error {
	record, err := assignmentSchema.Validate(raw)
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

	var assignment models.Assignment
	applyAssignmentRecord(&assignment, record)

	res, err := e.store.UpdateUser(ctx, userID, []storage.Op{
		storage.Push{Path: assignmentsPath(groupName), Value: assignment},
	})
	if err != nil {
		return err
	}
	if res.Modified != 1 {
		return writeFailed("assignment creation")
	}

	e.log.Info("assignment created", "user_id", userID, "group", groupName, "assignment", assignment.Name)
	return nil
}

// UpdateAssignment merges the normalized fields present in raw into the
// assignment at index and rewrites the whole sequence back in one write,
// for the same reason UpdateEvent does.
func (e *Engine) UpdateAssignment(ctx context.Context, userID, groupName string, index int, raw map[string]any) error {
	record, err := assignmentSchema.ValidatePartial(raw)
	if err != nil {
		return err
	}

	assignments, err := e.fetchAssignments(ctx, userID, groupName)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(assignments) || assignments[index].Tombstoned() {
		return ErrAssignmentNotFound
	}

	applyAssignmentRecord(&assignments[index], record)

	res, err := e.store.UpdateUser(ctx, userID, []storage.Op{
		storage.Set{Path: assignmentsPath(groupName), Value: assignments},
	})
	if err != nil {
		return err
	}
	if res.Matched != 1 {
		return writeFailed("assignment update")
	}

	e.log.Info("assignment updated", "user_id", userID, "group", groupName, "index", index)
	return nil
}

// DeleteAssignment is the assignment counterpart of DeleteEvent: tombstone
// the slot (reported), then best-effort compaction.
func (e *Engine) DeleteAssignment(ctx context.Context, userID, groupName string, index int) error {
	assignments, err := e.fetchAssignments(ctx, userID, groupName)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(assignments) {
		return ErrAssignmentNotFound
	}

	res, err := e.store.UpdateUser(ctx, userID, []storage.Op{
		storage.Set{Path: fmt.Sprintf("%s.%d", assignmentsPath(groupName), index), Value: models.Tombstone},
	})
	if err != nil {
		return err
	}
	if res.Modified != 1 {
		return writeFailed("assignment deletion")
	}

	if _, err := e.store.UpdateUser(ctx, userID, []storage.Op{
		storage.PullEqual{Path: assignmentsPath(groupName), Value: models.Tombstone},
	}); err != nil {
		e.log.Warn("assignment compaction deferred", "user_id", userID, "group", groupName, "error", err)
	}

	e.log.Info("assignment deleted", "user_id", userID, "group", groupName, "index", index)
	return nil
}

// fetchAssignments is the assignment counterpart of fetchEvents: compact
// lingering sentinels so positional requests address what readers see.
func (e *Engine) fetchAssignments(ctx context.Context, userID, groupName string) ([]models.Assignment, error) {
	user, err := e.fetchUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	group, exists := user.Groups[groupName]
	if !exists {
		return nil, ErrGroupNotFound
	}
	if !group.HasTombstonedAssignments() {
		return group.Assignments, nil
	}

	if _, err := e.store.UpdateUser(ctx, userID, []storage.Op{
		storage.PullEqual{Path: assignmentsPath(groupName), Value: models.Tombstone},
	}); err != nil {
		return nil, err
	}
	e.log.Info("deferred assignment compaction completed", "user_id", userID, "group", groupName)

	user, err = e.fetchUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	group, exists = user.Groups[groupName]
	if !exists {
		return nil, ErrGroupNotFound
	}
	return group.Assignments, nil
}

func applyAssignmentRecord(assignment *models.Assignment, record map[string]any) {
	if v, ok := record["name"].(string); ok {
		assignment.Name = v
	}
	if v, ok := record["description"].(string); ok {
		assignment.Description = v
	}
	if v, ok := record["start_date"].(int64); ok {
		assignment.StartDate = v
	}
	if v, ok := record["end_date"].(int64); ok {
		assignment.EndDate = v
	}
	if v, ok := record["priority"].(string); ok {
		assignment.Priority = v
	}
	if v, ok := record["status"].(string); ok {
		assignment.Status = v
	}
}

func assignmentsPath(groupName string) string {
	return fmt.Sprintf("groups.%s.assignments", groupName)
}
