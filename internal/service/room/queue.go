package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/qugu2427/alienpls-api/internal/domain"
	"github.com/qugu2427/alienpls-api/internal/repository"
	"github.com/qugu2427/alienpls-api/pkg/mediadata"
)

type EnqueueParams struct {
	Room          string
	Requester     string
	Authorization string
	Host          string
	Id            string
}

// Enqueue validates the media against its host's catalog and appends it to
// the room's queue. When the room was idle the scheduler advances right away
// instead of waiting for the next sweep.
func (s *service) Enqueue(ctx context.Context, params *EnqueueParams) (repository.MediaItem, error) {
	s.logger.DebugContext(ctx, "enqueue", "room", params.Room, "host", params.Host, "id", params.Id)

	exists, err := s.roomRepo.RoomExists(ctx, params.Room)
	if err != nil {
		return repository.MediaItem{}, err
	}
	if !exists {
		return repository.MediaItem{}, ErrRoomNotFound
	}

	media, err := s.resolver.Resolve(ctx, params.Host, params.Id, params.Authorization)
	if err != nil {
		return repository.MediaItem{}, s.mapResolveError(err)
	}

	item := repository.MediaItem{
		Host:     params.Host,
		Id:       params.Id,
		Title:    media.Title,
		Duration: media.Duration,
		AddedBy:  params.Requester,
	}

	if err := s.roomRepo.Enqueue(ctx, &repository.EnqueueParams{
		Room: params.Room,
		Item: item,
	}); err != nil {
		return repository.MediaItem{}, err
	}

	s.publish(ctx, params.Room, domain.Event{Type: domain.EventEnqueue, Payload: item})

	// First-item fast path: an idle room starts playing without a sweep wait.
	scheduled, err := s.roomRepo.HasDeadline(ctx, params.Room)
	if err != nil {
		return repository.MediaItem{}, err
	}
	if !scheduled {
		if _, err := s.Advance(ctx, params.Room); err != nil {
			return repository.MediaItem{}, fmt.Errorf("failed to advance: %w", err)
		}
	}

	return item, nil
}

func (s *service) mapResolveError(err error) error {
	switch {
	case errors.Is(err, mediadata.ErrUnknownHost):
		return ErrInvalidHost
	case errors.Is(err, mediadata.ErrInvalidId),
		errors.Is(err, mediadata.ErrNotFound),
		errors.Is(err, mediadata.ErrNotEmbeddable):
		return fmt.Errorf("%w: %s", ErrInvalidMedia, err)
	default:
		return err
	}
}
