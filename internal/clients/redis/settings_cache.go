package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/openlms/authoring-backend/internal/logger"
	"github.com/openlms/authoring-backend/internal/types"
)

// SettingsCache is a cache-aside layer for course settings documents. A miss
// or an unreachable redis is never an error condition for callers; they fall
// through to the database.
type SettingsCache interface {
	Get(ctx context.Context, courseID uuid.UUID) (*types.CourseSettings, bool)
	Set(ctx context.Context, courseID uuid.UUID, settings *types.CourseSettings)
	Invalidate(ctx context.Context, courseID uuid.UUID)
	Close() error
}

type settingsCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewSettingsCache(log *logger.Logger) (SettingsCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &settingsCache{
		log: log.With("client", "SettingsCache"),
		rdb: rdb,
		ttl: 10 * time.Minute,
	}, nil
}

func cacheKey(courseID uuid.UUID) string {
	return "course_settings:" + courseID.String()
}

func (c *settingsCache) Get(ctx context.Context, courseID uuid.UUID) (*types.CourseSettings, bool) {
	raw, err := c.rdb.Get(ctx, cacheKey(courseID)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("settings cache read failed", "course_id", courseID, "error", err)
		}
		return nil, false
	}
	var settings types.CourseSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		c.log.Warn("settings cache entry is corrupt, dropping it", "course_id", courseID, "error", err)
		c.Invalidate(ctx, courseID)
		return nil, false
	}
	return &settings, true
}

func (c *settingsCache) Set(ctx context.Context, courseID uuid.UUID, settings *types.CourseSettings) {
	raw, err := json.Marshal(settings)
	if err != nil {
		c.log.Warn("settings cache marshal failed", "course_id", courseID, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(courseID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("settings cache write failed", "course_id", courseID, "error", err)
	}
}

func (c *settingsCache) Invalidate(ctx context.Context, courseID uuid.UUID) {
	if err := c.rdb.Del(ctx, cacheKey(courseID)).Err(); err != nil {
		c.log.Warn("settings cache invalidate failed", "course_id", courseID, "error", err)
	}
}

func (c *settingsCache) Close() error {
	return c.rdb.Close()
}
