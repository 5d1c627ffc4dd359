package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (c *controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)

	r.Get("/signInUrl", c.handleSignInURL)
	r.Get("/signIn", c.handleSignIn)
	r.Get("/rooms", c.handleListRooms)
	r.Get("/rooms/{name}", c.handleGetRoom)

	r.Group(func(r chi.Router) {
		r.Use(c.authMw)
		r.Post("/create", c.handleCreateRoom)
		r.Post("/enqueue", c.handleEnqueue)
		r.Post("/vote", c.handleVote)
	})

	r.HandleFunc("/ws", c.handleWS)

	return r
}
