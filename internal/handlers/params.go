package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/openlms/authoring-backend/internal/tree"
)

var validate = validator.New()

func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return id, nil
}

// treeKey reads the (course, session, level) triple from the route. Every
// structure endpoint carries all three.
func treeKey(c *gin.Context) (tree.Key, error) {
	courseID, err := pathUUID(c, "course_id")
	if err != nil {
		return tree.Key{}, err
	}
	sessionID, err := pathUUID(c, "session_id")
	if err != nil {
		return tree.Key{}, err
	}
	levelID, err := pathUUID(c, "level_id")
	if err != nil {
		return tree.Key{}, err
	}
	return tree.Key{CourseID: courseID, SessionID: sessionID, LevelID: levelID}, nil
}

// parseUUIDList splits a comma-joined id string, the wire format clients use
// for offering visibility lists.
func parseUUIDList(raw string) ([]uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", p, err)
		}
		out = append(out, id)
	}
	return out, nil
}
