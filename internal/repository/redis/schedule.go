package redis

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/qugu2427/alienpls-api/internal/repository"
)

func (r *repo) HasDeadline(ctx context.Context, room string) (bool, error) {
	return r.rc.HExists(ctx, dequeuesKey, room).Result()
}

// SetDeadline overwrites the room's playback deadline. The vote controller
// uses it to force an elapsed deadline when a skip fires.
func (r *repo) SetDeadline(ctx context.Context, room string, deadline int64) error {
	return r.rc.HSet(ctx, dequeuesKey, room, deadline).Err()
}

func (r *repo) GetDeadlines(ctx context.Context) (map[string]int64, error) {
	fields, err := r.rc.HGetAll(ctx, dequeuesKey).Result()
	if err != nil {
		return nil, err
	}

	deadlines := make(map[string]int64, len(fields))
	for room, raw := range fields {
		deadline, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		deadlines[room] = deadline
	}

	return deadlines, nil
}

// Advance performs the dequeue-and-play transition. It is a no-op when the
// room's deadline is still in the future, a (nil, nil) idle transition when
// the queue is empty, and otherwise returns the item that started playing
// with its endTime set.
func (r *repo) Advance(ctx context.Context, params *repository.AdvanceParams) (*repository.MediaItem, error) {
	r.logger.DebugContext(ctx, "called", "params", params)

	keys := []string{
		r.getQueueKey(params.Room),
		dequeuesKey,
		params.Room,
		r.getVotesKey(params.Room),
	}
	raw, err := r.rc.EvalSha(ctx, r.advanceScript, keys, params.Room, params.Now, params.Buffer).Text()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var item repository.MediaItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return nil, err
	}

	return &item, nil
}
