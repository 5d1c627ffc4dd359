package repository

// MediaItem is one playable unit. EndTime is only set while the item is the
// room's current media.
type MediaItem struct {
	Host     string `json:"host"`
	Id       string `json:"id"`
	Title    string `json:"title"`
	Duration int    `json:"duration"`
	AddedBy  string `json:"addedBy"`
	EndTime  int64  `json:"endTime,omitempty"`
}

type Room struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Image        string            `json:"image"`
	Owner        string            `json:"owner"`
	QueueLimit   int               `json:"queueLimit"`
	CurrentMedia *MediaItem        `json:"currentMedia"`
	Likes        int               `json:"likes"`
	Dislikes     int               `json:"dislikes"`
	Queue        []MediaItem       `json:"queue"`
	Connections  int               `json:"connections"`
	Users        map[string]string `json:"users"`
}

type RoomPreview struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Connections int    `json:"connections"`
}

type VoteTally struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

// VoteResult reports the caller's resulting vote along with the tally the
// mutation left behind.
type VoteResult struct {
	Status   int
	Likes    int
	Dislikes int
}
