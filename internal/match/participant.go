package match

// ParticipantState tracks where a participant is in the matchmaking lifecycle
type ParticipantState string

const (
	StateIdle    ParticipantState = "idle"
	StateWaiting ParticipantState = "waiting"
	StatePaired  ParticipantState = "paired"
)

// Participant represents one connected end-user session. The ID is assigned by
// the transport layer and is stable for the lifetime of one connection.
type Participant struct {
	ID          string
	DisplayName string
	State       ParticipantState
	RoomID      string // set only while State is StatePaired
}
