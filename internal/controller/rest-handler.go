package controller

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qugu2427/alienpls-api/internal/repository"
	"github.com/qugu2427/alienpls-api/internal/service/room"
	"github.com/qugu2427/alienpls-api/pkg/mediadata"
	"github.com/qugu2427/alienpls-api/pkg/rest"
	"github.com/qugu2427/alienpls-api/pkg/twitchauth"
)

func (c *controller) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var twitchErr *twitchauth.StatusError
	var mediaErr *mediadata.StatusError

	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": err.Error()})
	case errors.Is(err, room.ErrPermissionDenied):
		rest.WriteJSON(w, http.StatusForbidden, rest.Envelope{"error": err.Error()})
	case errors.Is(err, room.ErrRoomAlreadyExists),
		errors.Is(err, room.ErrQueueFull),
		errors.Is(err, room.ErrDuplicateItem),
		errors.Is(err, room.ErrInvalidName),
		errors.Is(err, room.ErrInvalidDescription),
		errors.Is(err, room.ErrInvalidImage),
		errors.Is(err, room.ErrInvalidVote),
		errors.Is(err, room.ErrInvalidHost),
		errors.Is(err, room.ErrInvalidMedia):
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
	case errors.As(err, &twitchErr):
		rest.WriteJSON(w, twitchErr.Status, rest.Envelope{"error": twitchErr.Error()})
	case errors.As(err, &mediaErr):
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": mediaErr.Error()})
	default:
		c.logger.ErrorContext(r.Context(), "unexpected error", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "unknown error"})
	}
}

func (c *controller) handleSignInURL(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"url": c.identity.SignInURL()})
}

func (c *controller) handleSignIn(w http.ResponseWriter, r *http.Request) {
	token, err := c.identity.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"token":    token.AccessToken,
		"clientID": token.ClientId,
	})
}

func (c *controller) handleListRooms(w http.ResponseWriter, r *http.Request) {
	previews := []repository.RoomPreview{}
	for preview, err := range c.roomService.ListRooms(r.Context()) {
		if err != nil {
			c.writeServiceError(w, r, err)
			return
		}
		previews = append(previews, preview)
	}

	rest.WriteJSON(w, http.StatusOK, previews)
}

func (c *controller) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomState, err := c.roomService.GetRoom(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, roomState)
}

type createRoomInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Image       string `json:"image" validate:"required"`
}

func (c *controller) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var input createRoomInput
	if err := rest.ReadJSON(r, &input); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}
	if validationErrors, ok := c.validate.Validate(input); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	user := c.getUserFromCtx(r.Context())
	roomState, err := c.roomService.CreateRoom(r.Context(), &room.CreateRoomParams{
		Owner:       user.DisplayName,
		Name:        input.Name,
		Description: input.Description,
		Image:       input.Image,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, roomState)
}

type enqueueInput struct {
	Room string `json:"room" validate:"required"`
	Host string `json:"host" validate:"required,oneof=youtube streamable twitch"`
	Id   string `json:"id" validate:"required"`
}

func (c *controller) handleEnqueue(w http.ResponseWriter, r *http.Request) {
	var input enqueueInput
	if err := rest.ReadJSON(r, &input); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}
	if validationErrors, ok := c.validate.Validate(input); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	user := c.getUserFromCtx(r.Context())
	item, err := c.roomService.Enqueue(r.Context(), &room.EnqueueParams{
		Room:          input.Room,
		Requester:     user.DisplayName,
		Authorization: r.Header.Get("Authorization"),
		Host:          input.Host,
		Id:            input.Id,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, item)
}

type voteInput struct {
	Room string `json:"room" validate:"required"`
	Vote *int   `json:"vote" validate:"required"`
}

func (c *controller) handleVote(w http.ResponseWriter, r *http.Request) {
	var input voteInput
	if err := rest.ReadJSON(r, &input); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}
	if validationErrors, ok := c.validate.Validate(input); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	user := c.getUserFromCtx(r.Context())
	voteStatus, err := c.roomService.Vote(r.Context(), &room.VoteParams{
		Room:      input.Room,
		User:      user.DisplayName,
		Direction: *input.Vote,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"voteStatus": voteStatus})
}
