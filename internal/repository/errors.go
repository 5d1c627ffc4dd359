package repository

import "errors"

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomAlreadyExists = errors.New("room name already exists")
	ErrQueueFull         = errors.New("queue is full")
	ErrDuplicateItem     = errors.New("media id was just added to queue")
)
