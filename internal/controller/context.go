package controller

import (
	"context"

	"github.com/qugu2427/alienpls-api/pkg/twitchauth"
)

type ctxKey string

const userKey ctxKey = "user"

func (c *controller) getUserFromCtx(ctx context.Context) twitchauth.User {
	user, _ := ctx.Value(userKey).(twitchauth.User)
	return user
}
