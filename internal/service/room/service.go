package room

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"time"

	"github.com/qugu2427/alienpls-api/internal/domain"
	"github.com/qugu2427/alienpls-api/internal/repository"
	"github.com/qugu2427/alienpls-api/pkg/mediadata"
)

var (
	ErrRoomNotFound      = repository.ErrRoomNotFound
	ErrRoomAlreadyExists = repository.ErrRoomAlreadyExists
	ErrQueueFull         = repository.ErrQueueFull
	ErrDuplicateItem     = repository.ErrDuplicateItem

	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidName        = errors.New("name is invalid")
	ErrInvalidDescription = errors.New("description is invalid")
	ErrInvalidImage       = errors.New("image link is invalid")
	ErrInvalidVote        = errors.New("invalid vote")
	ErrInvalidHost        = errors.New("invalid host")
	ErrInvalidMedia       = errors.New("invalid media")
)

type iRoomRepo interface {
	// room
	CreateRoom(context.Context, *repository.CreateRoomParams) error
	RoomExists(context.Context, string) (bool, error)
	GetRoom(context.Context, string) (repository.Room, error)
	ScanRooms(context.Context) iter.Seq2[repository.RoomPreview, error]
	// queue
	Enqueue(context.Context, *repository.EnqueueParams) error
	// votes
	Vote(context.Context, *repository.VoteParams) (repository.VoteResult, error)
	ResetVotes(context.Context, string) error
	// schedule
	HasDeadline(context.Context, string) (bool, error)
	SetDeadline(ctx context.Context, room string, deadline int64) error
	GetDeadlines(context.Context) (map[string]int64, error)
	Advance(context.Context, *repository.AdvanceParams) (*repository.MediaItem, error)
	// presence
	IncrConnections(context.Context, string) (int, error)
	DecrConnections(context.Context, string) (int, error)
	SetUser(context.Context, *repository.SetUserParams) error
	RemoveUser(ctx context.Context, room, name string) error
}

type iEventBus interface {
	Publish(ctx context.Context, room string, event domain.Event) error
}

type iMediaResolver interface {
	Resolve(ctx context.Context, host, id, authorization string) (mediadata.Media, error)
}

type Config struct {
	QueueLimit      int
	BufferTime      time.Duration
	RefreshInterval time.Duration
	AdminUser       string
}

type service struct {
	roomRepo        iRoomRepo
	bus             iEventBus
	resolver        iMediaResolver
	logger          *slog.Logger
	queueLimit      int
	bufferTime      time.Duration
	refreshInterval time.Duration
	adminUser       string
}

func NewService(roomRepo iRoomRepo, bus iEventBus, resolver iMediaResolver, logger *slog.Logger, cfg *Config) *service {
	return &service{
		roomRepo:        roomRepo,
		bus:             bus,
		resolver:        resolver,
		logger:          logger,
		queueLimit:      cfg.QueueLimit,
		bufferTime:      cfg.BufferTime,
		refreshInterval: cfg.RefreshInterval,
		adminUser:       cfg.AdminUser,
	}
}

// publish never fails the operation that produced the event.
func (s *service) publish(ctx context.Context, room string, event domain.Event) {
	if err := s.bus.Publish(ctx, room, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish event", "room", room, "type", event.Type, "error", err)
	}
}
