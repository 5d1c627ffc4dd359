package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/qugu2427/alienpls-api/internal/domain"
	"github.com/qugu2427/alienpls-api/internal/service/room"
	"github.com/qugu2427/alienpls-api/pkg/wsrouter"
)

// wsSession tracks what one connection has done so its disconnect can be
// cleaned up: the room it joined and the user it identified as, if any.
type wsSession struct {
	client   *wsClient
	room     string
	userName string
}

func (c *controller) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	session := &wsSession{client: newWSClient(conn)}

	router := wsrouter.New()
	router.Handle("join", c.handleWSJoin(session))
	router.Handle("addUser", c.handleWSAddUser(session))
	router.OnError(func(ctx context.Context, conn *websocket.Conn, err error) {
		session.client.writeEvent(domain.Event{Type: domain.EventError, Payload: err.Error()})
	})

	// The session outlives the request context for cleanup purposes.
	ctx := context.WithoutCancel(r.Context())

	if err := router.ServeConn(ctx, conn); err != nil {
		c.logger.DebugContext(ctx, "connection closed", "client_id", session.client.id, "error", err)
	}

	if session.room != "" {
		c.hub.remove(session.room, session.client)
		if err := c.roomService.Leave(ctx, &room.LeaveParams{
			Room: session.room,
			Name: session.userName,
		}); err != nil {
			c.logger.ErrorContext(ctx, "failed to leave room", "room", session.room, "error", err)
		}
	}
}

type wsJoinInput struct {
	Room string `json:"room"`
}

func (c *controller) handleWSJoin(session *wsSession) wsrouter.HandlerFunc {
	return func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		var input wsJoinInput
		if err := json.Unmarshal(payload, &input); err != nil {
			return errors.New("invalid room param")
		}
		if session.room != "" {
			return errors.New("already joined a room")
		}

		// Subscribe before the join broadcast so this client sees it too.
		c.hub.add(input.Room, session.client)

		if _, err := c.roomService.Join(ctx, input.Room); err != nil {
			c.hub.remove(input.Room, session.client)
			return err
		}
		session.room = input.Room

		return nil
	}
}

type wsAddUserInput struct {
	Room  string `json:"room"`
	Token string `json:"token"`
}

func (c *controller) handleWSAddUser(session *wsSession) wsrouter.HandlerFunc {
	return func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		var input wsAddUserInput
		if err := json.Unmarshal(payload, &input); err != nil {
			return errors.New("invalid addUser params")
		}

		user, err := c.identity.GetUser(ctx, "Bearer "+input.Token)
		if err != nil {
			return fmt.Errorf("failed to add user: %w", err)
		}

		if err := c.roomService.Identify(ctx, &room.IdentifyParams{
			Room:      input.Room,
			Name:      user.DisplayName,
			AvatarURL: user.AvatarURL,
		}); err != nil {
			return err
		}
		session.userName = user.DisplayName

		return nil
	}
}
