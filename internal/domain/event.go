package domain

// Event is the unit the fan-out bus delivers to every subscriber of a room.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

const (
	EventJoin        = "join"
	EventLeave       = "leave"
	EventAddUser     = "addUser"
	EventRemoveUser  = "removeUser"
	EventEnqueue     = "enqueue"
	EventPlay        = "play"
	EventDequeue     = "dequeue"
	EventSkipping    = "skipping"
	EventUpdateVotes = "updateVotes"
	EventError       = "error"
)
