package redis

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// repo stores all room state in redis using the layout the rest of the
// cluster shares: room hash at "<name>", list "<name>::queue", hash
// "<name>::votes", hash "<name>::users" and the global "::dequeues" hash
// mapping room name to playback deadline.
//
// Every read-modify-write critical section (queue append with its checks,
// vote tally mutation, the dequeue-and-play transition) is a single lua
// script, so concurrent callers and other server instances serialize on the
// store instead of on process-local locks.
type repo struct {
	rc            *redis.Client
	logger        *slog.Logger
	enqueueScript string
	voteScript    string
	advanceScript string
}

func NewRepo(rc *redis.Client, logger *slog.Logger) *repo {
	ctx := context.Background()

	return &repo{
		rc:     rc,
		logger: logger,
		// KEYS[1] queue, KEYS[2] room hash; ARGV[1] item id, ARGV[2] item host,
		// ARGV[3] item json.
		// -1: same host+id sits at the tail, -2: queue is at its limit.
		enqueueScript: rc.ScriptLoad(ctx, `
			local tail = redis.call('LINDEX', KEYS[1], -1)
			if tail then
				local last = cjson.decode(tail)
				if last.id == ARGV[1] and last.host == ARGV[2] then
					return -1
				end
			end
			local limit = tonumber(redis.call('HGET', KEYS[2], 'queueLimit')) or 0
			if redis.call('LLEN', KEYS[1]) >= limit then
				return -2
			end
			redis.call('RPUSH', KEYS[1], ARGV[3])
			return redis.call('LLEN', KEYS[1])
		`).Val(),
		// KEYS[1] votes hash; ARGV[1] user, ARGV[2] direction.
		// Submitting the previous direction again just retracts it.
		voteScript: rc.ScriptLoad(ctx, `
			local dir = tonumber(ARGV[2])
			local old = tonumber(redis.call('HGET', KEYS[1], ARGV[1])) or 0
			if old == 1 then
				redis.call('HDEL', KEYS[1], ARGV[1])
				redis.call('HINCRBY', KEYS[1], 'likes', -1)
			elseif old == -1 then
				redis.call('HDEL', KEYS[1], ARGV[1])
				redis.call('HINCRBY', KEYS[1], 'dislikes', -1)
			end
			local status = 0
			if dir ~= old then
				if dir == 1 then
					redis.call('HSET', KEYS[1], ARGV[1], 1)
					redis.call('HINCRBY', KEYS[1], 'likes', 1)
					status = 1
				elseif dir == -1 then
					redis.call('HSET', KEYS[1], ARGV[1], -1)
					redis.call('HINCRBY', KEYS[1], 'dislikes', 1)
					status = -1
				end
			end
			local likes = tonumber(redis.call('HGET', KEYS[1], 'likes')) or 0
			local dislikes = tonumber(redis.call('HGET', KEYS[1], 'dislikes')) or 0
			return {status, likes, dislikes}
		`).Val(),
		// KEYS[1] queue, KEYS[2] dequeues hash, KEYS[3] room hash, KEYS[4] votes;
		// ARGV[1] room name, ARGV[2] now ms, ARGV[3] buffer ms.
		// Only fires when the room has no deadline or an elapsed one, which is
		// what keeps a sweep and a skip from double-popping the queue.
		advanceScript: rc.ScriptLoad(ctx, `
			local deadline = redis.call('HGET', KEYS[2], ARGV[1])
			if deadline and tonumber(deadline) > tonumber(ARGV[2]) then
				return false
			end
			local raw = redis.call('LPOP', KEYS[1])
			if not raw then
				redis.call('HDEL', KEYS[2], ARGV[1])
				redis.call('HDEL', KEYS[3], 'currentMedia')
				return false
			end
			local media = cjson.decode(raw)
			local due = tonumber(ARGV[2]) + tonumber(ARGV[3]) + media.duration * 1000
			redis.call('HSET', KEYS[2], ARGV[1], due)
			media.endTime = due - tonumber(ARGV[3])
			local encoded = cjson.encode(media)
			redis.call('HSET', KEYS[3], 'currentMedia', encoded)
			redis.call('DEL', KEYS[4])
			redis.call('HSET', KEYS[4], 'likes', 0, 'dislikes', 0)
			return encoded
		`).Val(),
	}
}

func (r *repo) getQueueKey(room string) string {
	return room + "::queue"
}

func (r *repo) getVotesKey(room string) string {
	return room + "::votes"
}

func (r *repo) getUsersKey(room string) string {
	return room + "::users"
}

const dequeuesKey = "::dequeues"

func (r *repo) executePipe(ctx context.Context, pipe redis.Pipeliner) error {
	cmds, err := pipe.Exec(ctx)
	if err != nil {
		for _, cmd := range cmds {
			if err := cmd.Err(); err != nil {
				return err
			}
		}

		return err
	}

	return nil
}
