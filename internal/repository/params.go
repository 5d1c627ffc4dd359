package repository

type CreateRoomParams struct {
	Name        string
	Owner       string
	Description string
	Image       string
	QueueLimit  int
}

type EnqueueParams struct {
	Room string
	Item MediaItem
}

type VoteParams struct {
	Room      string
	User      string
	Direction int
}

type AdvanceParams struct {
	Room   string
	Now    int64
	Buffer int64
}

type SetUserParams struct {
	Room      string
	Name      string
	AvatarURL string
}
