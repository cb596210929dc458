package match

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jtheo/pairwire/internal/models"
)

// RoomState is the per-room negotiation handshake state. Candidate messages
// are legal in every state; only offers and answers move it forward.
type RoomState string

const (
	RoomAwaitingOffer  RoomState = "awaiting-offer"
	RoomAwaitingAnswer RoomState = "awaiting-answer"
	RoomEstablished    RoomState = "established"
)

// Room is a matched pair of participants negotiating a direct connection.
// The initiator sends the first offer; the responder answers.
type Room struct {
	ID        string
	Initiator string
	Responder string
	State     RoomState
	CreatedAt time.Time
}

// Member reports whether id is one of the room's two members.
func (r *Room) Member(id string) bool {
	return id == r.Initiator || id == r.Responder
}

// Peer returns the other member of the room.
func (r *Room) Peer(id string) (string, bool) {
	switch id {
	case r.Initiator:
		return r.Responder, true
	case r.Responder:
		return r.Initiator, true
	}
	return "", false
}

// RoleOf returns the room role of a member.
func (r *Room) RoleOf(id string) (models.Role, bool) {
	switch id {
	case r.Initiator:
		return models.RoleInitiator, true
	case r.Responder:
		return models.RoleResponder, true
	}
	return "", false
}

// RoomTable is the single owner of Room objects. A room always has exactly
// two live members while it exists. Access is serialized by the Hub's lock.
type RoomTable struct {
	rooms    map[string]*Room
	byMember map[string]string // participant id -> room id
}

func NewRoomTable() *RoomTable {
	return &RoomTable{
		rooms:    make(map[string]*Room),
		byMember: make(map[string]string),
	}
}

// Create pairs two waiting participants into a fresh room, with the first
// designated initiator. Both participants must be StateWaiting; anything else
// is a programming error in the match step.
func (t *RoomTable) Create(initiator, responder *Participant) *Room {
	if initiator.State != StateWaiting || responder.State != StateWaiting {
		panic(fmt.Sprintf("match: pairing %s (%s) with %s (%s): both must be waiting",
			initiator.ID, initiator.State, responder.ID, responder.State))
	}

	room := &Room{
		ID:        uuid.New().String(),
		Initiator: initiator.ID,
		Responder: responder.ID,
		State:     RoomAwaitingOffer,
		CreatedAt: time.Now(),
	}
	t.rooms[room.ID] = room
	t.byMember[initiator.ID] = room.ID
	t.byMember[responder.ID] = room.ID

	initiator.State = StatePaired
	initiator.RoomID = room.ID
	responder.State = StatePaired
	responder.RoomID = room.ID

	return room
}

func (t *RoomTable) Get(roomID string) (*Room, bool) {
	room, ok := t.rooms[roomID]
	return room, ok
}

// RoomOf returns the room id a participant is paired into, if any.
func (t *RoomTable) RoomOf(participantID string) (string, bool) {
	roomID, ok := t.byMember[participantID]
	return roomID, ok
}

// Destroy removes the room and its member back-references, returning the
// removed room. No-op returning false if the room is already gone. Resetting
// surviving participants' state is the caller's job since the departing
// member may already have been removed from the registry.
func (t *RoomTable) Destroy(roomID string) (*Room, bool) {
	room, ok := t.rooms[roomID]
	if !ok {
		return nil, false
	}
	delete(t.rooms, roomID)
	delete(t.byMember, room.Initiator)
	delete(t.byMember, room.Responder)
	return room, true
}

func (t *RoomTable) Len() int {
	return len(t.rooms)
}

// CountByState tallies live rooms per handshake state, for diagnostics.
func (t *RoomTable) CountByState() map[RoomState]int {
	counts := make(map[RoomState]int)
	for _, room := range t.rooms {
		counts[room.State]++
	}
	return counts
}
