package room

import (
	"context"
	"time"

	"github.com/qugu2427/alienpls-api/internal/domain"
	"github.com/qugu2427/alienpls-api/internal/repository"
)

type VoteParams struct {
	Room      string
	User      string
	Direction int
}

// Vote records one user's vote and returns the vote they end up with.
// Submitting the current direction again retracts it. A resulting dislike is
// also a skip proposal, which fires on the privileged identity or once the
// tally crosses the threshold.
func (s *service) Vote(ctx context.Context, params *VoteParams) (int, error) {
	if params.Direction < -1 || params.Direction > 1 {
		return 0, ErrInvalidVote
	}

	exists, err := s.roomRepo.RoomExists(ctx, params.Room)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrRoomNotFound
	}

	result, err := s.roomRepo.Vote(ctx, &repository.VoteParams{
		Room:      params.Room,
		User:      params.User,
		Direction: params.Direction,
	})
	if err != nil {
		return 0, err
	}

	s.publish(ctx, params.Room, domain.Event{Type: domain.EventUpdateVotes, Payload: repository.VoteTally{
		Likes:    result.Likes,
		Dislikes: result.Dislikes,
	}})

	if result.Status == -1 && s.shouldSkip(params.User, result.Likes, result.Dislikes) {
		if err := s.skip(ctx, params.Room); err != nil {
			return 0, err
		}
	}

	return result.Status, nil
}

func (s *service) shouldSkip(user string, likes, dislikes int) bool {
	if s.adminUser != "" && user == s.adminUser {
		return true
	}

	return dislikes > 3 && float64(dislikes) > float64(likes)/4+float64(likes)
}

func (s *service) skip(ctx context.Context, room string) error {
	s.logger.InfoContext(ctx, "skipping", "room", room)

	// Forcing an elapsed deadline lets the advance guard (and any sweep that
	// beats us to it) dequeue immediately.
	deadline := time.Now().UnixMilli() - s.bufferTime.Milliseconds()
	if err := s.roomRepo.SetDeadline(ctx, room, deadline); err != nil {
		return err
	}
	s.publish(ctx, room, domain.Event{Type: domain.EventSkipping})

	if err := s.roomRepo.ResetVotes(ctx, room); err != nil {
		return err
	}
	s.publish(ctx, room, domain.Event{Type: domain.EventUpdateVotes, Payload: repository.VoteTally{}})

	if _, err := s.Advance(ctx, room); err != nil {
		return err
	}

	return nil
}
