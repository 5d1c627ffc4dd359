package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/qugu2427/alienpls-api/internal/repository"
)

// Enqueue appends the item to the tail of the room's queue. The duplicate-tail
// and capacity checks run inside the same script as the append, so two
// concurrent enqueues can never push the queue past the room's limit.
func (r *repo) Enqueue(ctx context.Context, params *repository.EnqueueParams) error {
	item, err := json.Marshal(params.Item)
	if err != nil {
		return err
	}

	keys := []string{r.getQueueKey(params.Room), params.Room}
	res, err := r.rc.EvalSha(ctx, r.enqueueScript, keys, params.Item.Id, params.Item.Host, string(item)).Int64()
	if err != nil {
		return err
	}

	switch res {
	case -1:
		return repository.ErrDuplicateItem
	case -2:
		return repository.ErrQueueFull
	}

	return nil
}

func (r *repo) GetQueue(ctx context.Context, room string) ([]repository.MediaItem, error) {
	raw, err := r.rc.LRange(ctx, r.getQueueKey(room), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	queue := make([]repository.MediaItem, 0, len(raw))
	for _, entry := range raw {
		var item repository.MediaItem
		if err := json.Unmarshal([]byte(entry), &item); err != nil {
			return nil, fmt.Errorf("failed to decode queue entry: %w", err)
		}
		queue = append(queue, item)
	}

	return queue, nil
}

func (r *repo) GetQueueLength(ctx context.Context, room string) (int, error) {
	length, err := r.rc.LLen(ctx, r.getQueueKey(room)).Result()
	if err != nil {
		return 0, err
	}

	return int(length), nil
}
