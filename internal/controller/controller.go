package controller

import (
	"context"
	"iter"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/qugu2427/alienpls-api/internal/repository"
	"github.com/qugu2427/alienpls-api/internal/repository/eventbus"
	"github.com/qugu2427/alienpls-api/internal/service/room"
	"github.com/qugu2427/alienpls-api/pkg/twitchauth"
	"github.com/qugu2427/alienpls-api/pkg/validator"
)

type iRoomService interface {
	CreateRoom(context.Context, *room.CreateRoomParams) (repository.Room, error)
	GetRoom(ctx context.Context, name string) (repository.Room, error)
	ListRooms(ctx context.Context) iter.Seq2[repository.RoomPreview, error]
	Enqueue(context.Context, *room.EnqueueParams) (repository.MediaItem, error)
	Vote(context.Context, *room.VoteParams) (int, error)
	Join(ctx context.Context, room string) (int, error)
	Identify(context.Context, *room.IdentifyParams) error
	Leave(context.Context, *room.LeaveParams) error
}

type iIdentity interface {
	SignInURL() string
	ExchangeCode(ctx context.Context, code string) (twitchauth.Token, error)
	GetUser(ctx context.Context, authorization string) (twitchauth.User, error)
}

type controller struct {
	roomService iRoomService
	identity    iIdentity
	hub         *hub
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	logger      *slog.Logger
}

func NewController(roomService iRoomService, identity iIdentity, bus *eventbus.Bus, logger *slog.Logger) *controller {
	return &controller{
		roomService: roomService,
		identity:    identity,
		hub:         newHub(bus, logger),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate: validator.NewValidator(),
		logger:   logger,
	}
}
