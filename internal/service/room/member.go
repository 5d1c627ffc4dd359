package room

import (
	"context"

	"github.com/qugu2427/alienpls-api/internal/domain"
	"github.com/qugu2427/alienpls-api/internal/repository"
)

// Join registers one more live connection on the room.
func (s *service) Join(ctx context.Context, room string) (int, error) {
	exists, err := s.roomRepo.RoomExists(ctx, room)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrRoomNotFound
	}

	connections, err := s.roomRepo.IncrConnections(ctx, room)
	if err != nil {
		return 0, err
	}

	s.publish(ctx, room, domain.Event{Type: domain.EventJoin})

	return connections, nil
}

type IdentifyParams struct {
	Room      string
	Name      string
	AvatarURL string
}

// Identify binds a display name and avatar to a connection's room roster
// entry. Calling it again overwrites the binding.
func (s *service) Identify(ctx context.Context, params *IdentifyParams) error {
	if err := s.roomRepo.SetUser(ctx, &repository.SetUserParams{
		Room:      params.Room,
		Name:      params.Name,
		AvatarURL: params.AvatarURL,
	}); err != nil {
		return err
	}

	s.publish(ctx, params.Room, domain.Event{
		Type:    domain.EventAddUser,
		Payload: map[string]string{params.Name: params.AvatarURL},
	})

	return nil
}

type LeaveParams struct {
	Room string
	Name string
}

// Leave drops a connection from the room, removing its roster entry if the
// connection had identified.
func (s *service) Leave(ctx context.Context, params *LeaveParams) error {
	s.publish(ctx, params.Room, domain.Event{Type: domain.EventLeave})

	if _, err := s.roomRepo.DecrConnections(ctx, params.Room); err != nil {
		return err
	}

	if params.Name != "" {
		s.publish(ctx, params.Room, domain.Event{Type: domain.EventRemoveUser, Payload: params.Name})
		if err := s.roomRepo.RemoveUser(ctx, params.Room, params.Name); err != nil {
			return err
		}
	}

	return nil
}
