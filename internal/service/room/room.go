package room

import (
	"context"
	"iter"
	"regexp"

	"github.com/qugu2427/alienpls-api/internal/repository"
)

var (
	nameRegex        = regexp.MustCompile(`^[a-zA-Z0-9]{4,30}$`)
	descriptionRegex = regexp.MustCompile(`^.[^;{}]{4,200}$`)
	imageRegex       = regexp.MustCompile(`^https://[a-z0-9]+\.[a-z0-9]+\.[a-z0-9]+/.+$`)
)

type CreateRoomParams struct {
	Owner       string
	Name        string
	Description string
	Image       string
}

func (s *service) CreateRoom(ctx context.Context, params *CreateRoomParams) (repository.Room, error) {
	s.logger.DebugContext(ctx, "create room", "params", params)

	if s.adminUser != "" && params.Owner != s.adminUser {
		return repository.Room{}, ErrPermissionDenied
	}

	if !nameRegex.MatchString(params.Name) {
		return repository.Room{}, ErrInvalidName
	}
	if !descriptionRegex.MatchString(params.Description) {
		return repository.Room{}, ErrInvalidDescription
	}
	if !imageRegex.MatchString(params.Image) {
		return repository.Room{}, ErrInvalidImage
	}

	if err := s.roomRepo.CreateRoom(ctx, &repository.CreateRoomParams{
		Name:        params.Name,
		Owner:       params.Owner,
		Description: params.Description,
		Image:       params.Image,
		QueueLimit:  s.queueLimit,
	}); err != nil {
		return repository.Room{}, err
	}

	return s.roomRepo.GetRoom(ctx, params.Name)
}

func (s *service) GetRoom(ctx context.Context, name string) (repository.Room, error) {
	return s.roomRepo.GetRoom(ctx, name)
}

// ListRooms yields summaries for every room, lazily, in one pass.
func (s *service) ListRooms(ctx context.Context) iter.Seq2[repository.RoomPreview, error] {
	return s.roomRepo.ScanRooms(ctx)
}
