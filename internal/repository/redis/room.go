package redis

import (
	"context"
	"encoding/json"
	"iter"
	"strconv"
	"strings"

	"github.com/qugu2427/alienpls-api/internal/repository"
)

func (r *repo) CreateRoom(ctx context.Context, params *repository.CreateRoomParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)

	// HSETNX claims the name, so two concurrent creates cannot both win.
	set, err := r.rc.HSetNX(ctx, params.Name, "name", params.Name).Result()
	if err != nil {
		return err
	}
	if !set {
		return repository.ErrRoomAlreadyExists
	}

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, params.Name,
		"owner", params.Owner,
		"description", params.Description,
		"image", params.Image,
		"queueLimit", params.QueueLimit,
	)
	pipe.HSet(ctx, r.getVotesKey(params.Name), "likes", 0, "dislikes", 0)
	pipe.HSet(ctx, r.getUsersKey(params.Name), "connections", 0)

	return r.executePipe(ctx, pipe)
}

func (r *repo) RoomExists(ctx context.Context, room string) (bool, error) {
	exists, err := r.rc.Exists(ctx, room).Result()
	if err != nil {
		return false, err
	}

	return exists == 1, nil
}

func (r *repo) GetRoom(ctx context.Context, name string) (repository.Room, error) {
	fields, err := r.rc.HGetAll(ctx, name).Result()
	if err != nil {
		return repository.Room{}, err
	}
	if len(fields) == 0 {
		return repository.Room{}, repository.ErrRoomNotFound
	}

	room := repository.Room{
		Name:        fields["name"],
		Description: fields["description"],
		Image:       fields["image"],
		Owner:       fields["owner"],
	}
	room.QueueLimit, _ = strconv.Atoi(fields["queueLimit"])

	if raw := fields["currentMedia"]; raw != "" {
		var media repository.MediaItem
		if err := json.Unmarshal([]byte(raw), &media); err != nil {
			return repository.Room{}, err
		}
		room.CurrentMedia = &media
	}

	tally, err := r.GetTally(ctx, name)
	if err != nil {
		return repository.Room{}, err
	}
	room.Likes = tally.Likes
	room.Dislikes = tally.Dislikes

	room.Queue, err = r.GetQueue(ctx, name)
	if err != nil {
		return repository.Room{}, err
	}

	users, err := r.rc.HGetAll(ctx, r.getUsersKey(name)).Result()
	if err != nil {
		return repository.Room{}, err
	}
	room.Connections, _ = strconv.Atoi(users["connections"])
	delete(users, "connections")
	room.Users = users

	return room, nil
}

// ScanRooms yields a preview for every room key in the store, skipping the
// derived "::"-namespaced keys. One pass per call, not restartable.
func (r *repo) ScanRooms(ctx context.Context) iter.Seq2[repository.RoomPreview, error] {
	return func(yield func(repository.RoomPreview, error) bool) {
		var cursor uint64
		for {
			keys, next, err := r.rc.Scan(ctx, cursor, "*", 100).Result()
			if err != nil {
				yield(repository.RoomPreview{}, err)
				return
			}

			for _, key := range keys {
				if strings.Contains(key, ":") {
					continue
				}

				preview, err := r.getRoomPreview(ctx, key)
				if !yield(preview, err) {
					return
				}
			}

			cursor = next
			if cursor == 0 {
				return
			}
		}
	}
}

func (r *repo) getRoomPreview(ctx context.Context, name string) (repository.RoomPreview, error) {
	fields, err := r.rc.HGetAll(ctx, name).Result()
	if err != nil {
		return repository.RoomPreview{}, err
	}

	connections, err := r.rc.HGet(ctx, r.getUsersKey(name), "connections").Int()
	if err != nil {
		return repository.RoomPreview{}, err
	}

	return repository.RoomPreview{
		Name:        fields["name"],
		Description: fields["description"],
		Image:       fields["image"],
		Connections: connections,
	}, nil
}
