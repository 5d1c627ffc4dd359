package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qugu2427/alienpls-api/internal/repository"
)

func newTestRepo(t *testing.T) *repo {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	return NewRepo(rc, slog.Default())
}

func createTestRoom(t *testing.T, r *repo, name string, queueLimit int) {
	t.Helper()

	require.NoError(t, r.CreateRoom(context.Background(), &repository.CreateRoomParams{
		Name:        name,
		Owner:       "owner",
		Description: "a test room",
		Image:       "https://img.example.com/room.png",
		QueueLimit:  queueLimit,
	}))
}

func TestCreateRoom(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	createTestRoom(t, r, "testroom", 25)

	err := r.CreateRoom(ctx, &repository.CreateRoomParams{Name: "testroom"})
	assert.ErrorIs(t, err, repository.ErrRoomAlreadyExists)

	room, err := r.GetRoom(ctx, "testroom")
	require.NoError(t, err)
	assert.Equal(t, "testroom", room.Name)
	assert.Equal(t, "owner", room.Owner)
	assert.Equal(t, 25, room.QueueLimit)
	assert.Nil(t, room.CurrentMedia)
	assert.Equal(t, 0, room.Likes)
	assert.Equal(t, 0, room.Dislikes)
	assert.Empty(t, room.Queue)
	assert.Equal(t, 0, room.Connections)

	_, err = r.GetRoom(ctx, "nosuchroom")
	assert.ErrorIs(t, err, repository.ErrRoomNotFound)
}

func TestScanRoomsSkipsDerivedKeys(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	createTestRoom(t, r, "roomone", 25)
	createTestRoom(t, r, "roomtwo", 25)
	require.NoError(t, r.SetDeadline(ctx, "roomone", 123))

	names := []string{}
	for preview, err := range r.ScanRooms(ctx) {
		require.NoError(t, err)
		names = append(names, preview.Name)
	}

	assert.ElementsMatch(t, []string{"roomone", "roomtwo"}, names)
}

func TestEnqueueChecks(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	createTestRoom(t, r, "testroom", 2)

	itemA := repository.MediaItem{Host: "youtube", Id: "aaaaaaaaaaa", Title: "a", Duration: 10}
	itemB := repository.MediaItem{Host: "youtube", Id: "bbbbbbbbbbb", Title: "b", Duration: 10}

	require.NoError(t, r.Enqueue(ctx, &repository.EnqueueParams{Room: "testroom", Item: itemA}))

	err := r.Enqueue(ctx, &repository.EnqueueParams{Room: "testroom", Item: itemA})
	assert.ErrorIs(t, err, repository.ErrDuplicateItem)

	require.NoError(t, r.Enqueue(ctx, &repository.EnqueueParams{Room: "testroom", Item: itemB}))

	err = r.Enqueue(ctx, &repository.EnqueueParams{Room: "testroom", Item: itemA})
	assert.ErrorIs(t, err, repository.ErrQueueFull)

	queue, err := r.GetQueue(ctx, "testroom")
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, "aaaaaaaaaaa", queue[0].Id)
	assert.Equal(t, "bbbbbbbbbbb", queue[1].Id)
}

func TestEnqueueSameIdDifferentHost(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	createTestRoom(t, r, "testroom", 25)

	require.NoError(t, r.Enqueue(ctx, &repository.EnqueueParams{
		Room: "testroom",
		Item: repository.MediaItem{Host: "youtube", Id: "sameid", Duration: 10},
	}))

	// the tail check matches on host and id together
	require.NoError(t, r.Enqueue(ctx, &repository.EnqueueParams{
		Room: "testroom",
		Item: repository.MediaItem{Host: "streamable", Id: "sameid", Duration: 10},
	}))

	length, err := r.GetQueueLength(ctx, "testroom")
	require.NoError(t, err)
	assert.Equal(t, 2, length)
}

func TestConcurrentEnqueues(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	const limit = 3
	const callers = 10

	createTestRoom(t, r, "testroom", limit)

	var wg sync.WaitGroup
	var overflows atomic.Int64
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			err := r.Enqueue(ctx, &repository.EnqueueParams{
				Room: "testroom",
				Item: repository.MediaItem{Host: "youtube", Id: id, Duration: 10},
			})
			if errors.Is(err, repository.ErrQueueFull) {
				overflows.Add(1)
				return
			}
			assert.NoError(t, err)
		}(fmt.Sprintf("id%02d", i))
	}
	wg.Wait()

	length, err := r.GetQueueLength(ctx, "testroom")
	require.NoError(t, err)
	assert.Equal(t, limit, length)
	assert.Equal(t, int64(callers-limit), overflows.Load())
}

func TestVote(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	createTestRoom(t, r, "testroom", 25)

	res, err := r.Vote(ctx, &repository.VoteParams{Room: "testroom", User: "alice", Direction: 1})
	require.NoError(t, err)
	assert.Equal(t, repository.VoteResult{Status: 1, Likes: 1, Dislikes: 0}, res)

	// same direction again retracts
	res, err = r.Vote(ctx, &repository.VoteParams{Room: "testroom", User: "alice", Direction: 1})
	require.NoError(t, err)
	assert.Equal(t, repository.VoteResult{Status: 0, Likes: 0, Dislikes: 0}, res)

	// switching direction moves the counter
	_, err = r.Vote(ctx, &repository.VoteParams{Room: "testroom", User: "alice", Direction: 1})
	require.NoError(t, err)
	res, err = r.Vote(ctx, &repository.VoteParams{Room: "testroom", User: "alice", Direction: -1})
	require.NoError(t, err)
	assert.Equal(t, repository.VoteResult{Status: -1, Likes: 0, Dislikes: 1}, res)

	// explicit zero clears
	res, err = r.Vote(ctx, &repository.VoteParams{Room: "testroom", User: "alice", Direction: 0})
	require.NoError(t, err)
	assert.Equal(t, repository.VoteResult{Status: 0, Likes: 0, Dislikes: 0}, res)
}

func TestAdvance(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	createTestRoom(t, r, "testroom", 25)

	itemA := repository.MediaItem{Host: "youtube", Id: "aaaaaaaaaaa", Title: "a", Duration: 10, AddedBy: "alice"}
	itemB := repository.MediaItem{Host: "youtube", Id: "bbbbbbbbbbb", Title: "b", Duration: 20, AddedBy: "bob"}
	require.NoError(t, r.Enqueue(ctx, &repository.EnqueueParams{Room: "testroom", Item: itemA}))
	require.NoError(t, r.Enqueue(ctx, &repository.EnqueueParams{Room: "testroom", Item: itemB}))

	now := int64(1_000_000_000_000)
	buffer := int64(5000)

	item, err := r.Advance(ctx, &repository.AdvanceParams{Room: "testroom", Now: now, Buffer: buffer})
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "aaaaaaaaaaa", item.Id)
	assert.Equal(t, now+10_000, item.EndTime)

	deadlines, err := r.GetDeadlines(ctx)
	require.NoError(t, err)
	assert.Equal(t, now+buffer+10_000, deadlines["testroom"])

	room, err := r.GetRoom(ctx, "testroom")
	require.NoError(t, err)
	require.NotNil(t, room.CurrentMedia)
	assert.Equal(t, "aaaaaaaaaaa", room.CurrentMedia.Id)
	require.Len(t, room.Queue, 1)

	// deadline still in the future, second advance is a no-op
	item, err = r.Advance(ctx, &repository.AdvanceParams{Room: "testroom", Now: now + 1000, Buffer: buffer})
	require.NoError(t, err)
	assert.Nil(t, item)

	// once the deadline elapses the next item pops
	later := now + buffer + 10_001
	item, err = r.Advance(ctx, &repository.AdvanceParams{Room: "testroom", Now: later, Buffer: buffer})
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "bbbbbbbbbbb", item.Id)

	// empty queue sends the room idle
	evenLater := later + buffer + 20_001
	item, err = r.Advance(ctx, &repository.AdvanceParams{Room: "testroom", Now: evenLater, Buffer: buffer})
	require.NoError(t, err)
	assert.Nil(t, item)

	scheduled, err := r.HasDeadline(ctx, "testroom")
	require.NoError(t, err)
	assert.False(t, scheduled)
}

func TestAdvanceResetsVotes(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	createTestRoom(t, r, "testroom", 25)

	item := repository.MediaItem{Host: "youtube", Id: "aaaaaaaaaaa", Duration: 10}
	require.NoError(t, r.Enqueue(ctx, &repository.EnqueueParams{Room: "testroom", Item: item}))

	_, err := r.Vote(ctx, &repository.VoteParams{Room: "testroom", User: "alice", Direction: -1})
	require.NoError(t, err)

	_, err = r.Advance(ctx, &repository.AdvanceParams{Room: "testroom", Now: 1000, Buffer: 0})
	require.NoError(t, err)

	tally, err := r.GetTally(ctx, "testroom")
	require.NoError(t, err)
	assert.Equal(t, repository.VoteTally{Likes: 0, Dislikes: 0}, tally)
}

func TestConnections(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	createTestRoom(t, r, "testroom", 25)

	connections, err := r.IncrConnections(ctx, "testroom")
	require.NoError(t, err)
	assert.Equal(t, 1, connections)

	require.NoError(t, r.SetUser(ctx, &repository.SetUserParams{Room: "testroom", Name: "alice", AvatarURL: "https://a.example.com/alice.png"}))

	users, err := r.GetUsers(ctx, "testroom")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"alice": "https://a.example.com/alice.png"}, users)

	require.NoError(t, r.RemoveUser(ctx, "testroom", "alice"))

	connections, err = r.DecrConnections(ctx, "testroom")
	require.NoError(t, err)
	assert.Equal(t, 0, connections)
}
