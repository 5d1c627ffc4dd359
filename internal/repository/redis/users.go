package redis

import (
	"context"

	"github.com/qugu2427/alienpls-api/internal/repository"
)

func (r *repo) IncrConnections(ctx context.Context, room string) (int, error) {
	connections, err := r.rc.HIncrBy(ctx, r.getUsersKey(room), "connections", 1).Result()
	if err != nil {
		return 0, err
	}

	return int(connections), nil
}

func (r *repo) DecrConnections(ctx context.Context, room string) (int, error) {
	connections, err := r.rc.HIncrBy(ctx, r.getUsersKey(room), "connections", -1).Result()
	if err != nil {
		return 0, err
	}

	return int(connections), nil
}

func (r *repo) SetUser(ctx context.Context, params *repository.SetUserParams) error {
	return r.rc.HSet(ctx, r.getUsersKey(params.Room), params.Name, params.AvatarURL).Err()
}

func (r *repo) RemoveUser(ctx context.Context, room, name string) error {
	return r.rc.HDel(ctx, r.getUsersKey(room), name).Err()
}

func (r *repo) GetUsers(ctx context.Context, room string) (map[string]string, error) {
	users, err := r.rc.HGetAll(ctx, r.getUsersKey(room)).Result()
	if err != nil {
		return nil, err
	}
	delete(users, "connections")

	return users, nil
}
