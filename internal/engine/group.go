package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmynk/tasket/internal/models"
	"github.com/mmynk/tasket/internal/storage"
	"github.com/mmynk/tasket/internal/validate"
)

// Group names become storage path segments, so path metacharacters would
// silently nest instead of keying a group.
func validGroupName(name string) bool {
	return name != "" && !strings.ContainsAny(name, ".$")
}

// CreateGroup adds an empty group under the given name. Color defaults to
// models.DefaultGroupColor and type to models.DefaultGroupType.
func (e *Engine) CreateGroup(ctx context.Context, userID, name, color, groupType string) error {
	if !validGroupName(name) {
		return ErrInvalidGroupName
	}
	if color == "" {
		color = models.DefaultGroupColor
	}
	if groupType == "" {
		groupType = models.DefaultGroupType
	}
	if err := validate.Color(color); err != nil {
		return err
	}

	user, err := e.fetchUser(ctx, userID)
	if err != nil {
		return err
	}
	if _, exists := user.Groups[name]; exists {
		return ErrDuplicateGroup
	}

	group := models.Group{
		Color:       color,
		Type:        groupType,
		Events:      []models.Event{},
		Assignments: []models.Assignment{},
	}

	res, err := e.store.UpdateUser(ctx, userID, []storage.Op{
		storage.Set{Path: groupPath(name), Value: group},
	})
	if err != nil {
		return err
	}
	if res.Modified != 1 {
		return writeFailed("group creation")
	}

	e.log.Info("group created", "user_id", userID, "group", name)
	return nil
}

// UpdateGroup applies attribute changes (color, type) from attrs and then,
// if newName names a different free key, renames the group in a second,
// separate write. The attribute write always precedes the rename and each
// write's failure is surfaced distinctly.
func (e *Engine) UpdateGroup(ctx context.Context, userID, name string, attrs map[string]any, newName string) error {
	if v, ok := attrs["color"]; ok {
		color, ok := v.(string)
		if !ok {
			return validate.ErrInvalidColor
		}
		if err := validate.Color(color); err != nil {
			return err
		}
	}

	user, err := e.fetchUser(ctx, userID)
	if err != nil {
		return err
	}
	if _, exists := user.Groups[name]; !exists {
		return ErrGroupNotFound
	}

	if newName == name {
		newName = ""
	}
	if newName != "" {
		if !validGroupName(newName) {
			return ErrInvalidGroupName
		}
		if _, exists := user.Groups[newName]; exists {
			return ErrDuplicateGroup
		}
	}

	var ops []storage.Op
	for _, attr := range models.GroupAttributes {
		v, ok := attrs[attr]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		ops = append(ops, storage.Set{Path: groupPath(name) + "." + attr, Value: s})
	}
	if len(ops) == 0 {
		return ErrNoAttributes
	}

	res, err := e.store.UpdateUser(ctx, userID, ops)
	if err != nil {
		return err
	}
	if res.Matched != 1 {
		return writeFailed("group update")
	}

	if newName == "" {
		return nil
	}

	res, err = e.store.UpdateUser(ctx, userID, []storage.Op{
		storage.Rename{Path: groupPath(name), NewPath: groupPath(newName)},
	})
	if err != nil {
		return err
	}
	if res.Matched != 1 {
		return writeFailed("group rename")
	}

	e.log.Info("group updated", "user_id", userID, "group", name, "renamed_to", newName)
	return nil
}

// DeleteGroup removes the named group key in one write.
func (e *Engine) DeleteGroup(ctx context.Context, userID, name string) error {
	user, err := e.fetchUser(ctx, userID)
	if err != nil {
		return err
	}
	if _, exists := user.Groups[name]; !exists {
		return ErrGroupNotFound
	}

	res, err := e.store.UpdateUser(ctx, userID, []storage.Op{
		storage.Unset{Path: groupPath(name)},
	})
	if err != nil {
		return err
	}
	if res.Modified != 1 {
		return writeFailed("group deletion")
	}

	e.log.Info("group deleted", "user_id", userID, "group", name)
	return nil
}

func groupPath(name string) string {
	return fmt.Sprintf("groups.%s", name)
}
