package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"therapia/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const slotKeyPrefix = "slot:"

// Lua scripts so every transition is a single atomic round trip. Values are
// "held:<holdID>" (with TTL) or "booked" (no TTL).
var (
	releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

	confirmScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("SET", KEYS[1], "booked")
	return 1
end
return 0`)

	freeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == "booked" then
	return redis.call("DEL", KEYS[1])
end
return 0`)
)

// RedisAvailabilityManager keeps slot state in Redis so multiple instances
// share one ledger. Holds are SETNX writes with a TTL, so abandoned holds
// expire server-side without a reaper.
type RedisAvailabilityManager struct {
	Client  *redis.Client
	HoldTTL time.Duration
}

// NewRedisAvailabilityManager creates a Redis-backed availability manager.
func NewRedisAvailabilityManager(client *redis.Client, ttl time.Duration) *RedisAvailabilityManager {
	if ttl <= 0 {
		ttl = DefaultHoldTTL
	}
	return &RedisAvailabilityManager{Client: client, HoldTTL: ttl}
}

func slotStateKey(providerID, date, timeLabel string) string {
	return slotKeyPrefix + models.SlotKey(providerID, date, timeLabel)
}

func (m *RedisAvailabilityManager) ListFreeSlots(ctx context.Context, profile models.TherapistProfile, days int) ([]models.Slot, error) {
	if days <= 0 {
		days = 7
	}
	now := time.Now()

	var candidates []models.Slot
	var keys []string
	for dayOffset := 0; dayOffset < days; dayOffset++ {
		day := now.AddDate(0, 0, dayOffset)
		dayLabel := strings.ToLower(day.Weekday().String())
		dateStr := day.Format(models.DateLayout)
		for _, timeLabel := range profile.Availability[dayLabel] {
			candidates = append(candidates, models.Slot{
				ProviderID: profile.ID,
				Date:       dateStr,
				TimeLabel:  timeLabel,
				State:      models.SlotFree,
			})
			keys = append(keys, slotStateKey(profile.ID, dateStr, timeLabel))
		}
	}
	if len(keys) == 0 {
		return nil, nil
	}

	states, err := m.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read slot states: %w", err)
	}

	free := make([]models.Slot, 0, len(candidates))
	for i, state := range states {
		if state == nil {
			free = append(free, candidates[i])
		}
	}
	return free, nil
}

func (m *RedisAvailabilityManager) Hold(ctx context.Context, providerID, date, timeLabel string) (*models.SlotHold, error) {
	holdID := uuid.New().String()
	key := slotStateKey(providerID, date, timeLabel)

	ok, err := m.Client.SetNX(ctx, key, "held:"+holdID, m.HoldTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to write hold for %s: %w", key, err)
	}
	if !ok {
		return nil, fmt.Errorf("hold %s: %w", key, ErrSlotUnavailable)
	}
	return &models.SlotHold{
		ID:         holdID,
		ProviderID: providerID,
		Date:       date,
		TimeLabel:  timeLabel,
		ExpiresAt:  time.Now().Add(m.HoldTTL),
	}, nil
}

func (m *RedisAvailabilityManager) Release(ctx context.Context, hold models.SlotHold) error {
	key := slotStateKey(hold.ProviderID, hold.Date, hold.TimeLabel)
	if err := releaseScript.Run(ctx, m.Client, []string{key}, "held:"+hold.ID).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("failed to release hold for %s: %w", key, err)
	}
	return nil
}

func (m *RedisAvailabilityManager) ConfirmBooked(ctx context.Context, hold models.SlotHold) error {
	key := slotStateKey(hold.ProviderID, hold.Date, hold.TimeLabel)
	confirmed, err := confirmScript.Run(ctx, m.Client, []string{key}, "held:"+hold.ID).Int()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to confirm booking for %s: %w", key, err)
	}
	if confirmed == 0 {
		return fmt.Errorf("confirm %s: %w", key, ErrSlotUnavailable)
	}
	return nil
}

func (m *RedisAvailabilityManager) Free(ctx context.Context, providerID, date, timeLabel string) error {
	key := slotStateKey(providerID, date, timeLabel)
	if err := freeScript.Run(ctx, m.Client, []string{key}).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("failed to free slot %s: %w", key, err)
	}
	return nil
}
