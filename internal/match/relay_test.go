package match

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtheo/pairwire/internal/models"
)

// pairedHub joins alice and bob and returns their senders plus the room id.
// Alice is the initiator.
func pairedHub(t *testing.T) (*Hub, *fakeSender, *fakeSender, string) {
	t.Helper()
	h := newTestHub(true)
	alice := join(h, "alice")
	bob := join(h, "bob")

	begin := alice.last(t)
	require.Equal(t, models.SignalTypeBegin, begin.Type)
	return h, alice, bob, begin.RoomID
}

func offer(roomID string, sdp string) *models.Envelope {
	return &models.Envelope{
		Type:    models.SignalTypeOffer,
		RoomID:  roomID,
		Payload: json.RawMessage(sdp),
	}
}

func answer(roomID string, sdp string) *models.Envelope {
	return &models.Envelope{
		Type:    models.SignalTypeAnswer,
		RoomID:  roomID,
		Payload: json.RawMessage(sdp),
	}
}

func candidate(roomID string, payload string) *models.Envelope {
	return &models.Envelope{
		Type:    models.SignalTypeCandidate,
		RoomID:  roomID,
		Payload: json.RawMessage(payload),
	}
}

func TestOfferForwardedVerbatimOnce(t *testing.T) {
	h, _, bob, roomID := pairedHub(t)

	h.Relay("alice", offer(roomID, `{"sdp":"a"}`))

	require.Len(t, bob.inbox, 1)
	got := bob.inbox[0]
	assert.Equal(t, models.SignalTypeOffer, got.Type)
	assert.Equal(t, roomID, got.RoomID)
	assert.Equal(t, models.RoleInitiator, got.Role)
	assert.JSONEq(t, `{"sdp":"a"}`, string(got.Payload))

	room, _ := h.rooms.Get(roomID)
	assert.Equal(t, RoomAwaitingAnswer, room.State)

	// A second offer is out of contract: dropped, no state change, no delivery.
	h.Relay("alice", offer(roomID, `{"sdp":"again"}`))
	assert.Len(t, bob.inbox, 1)
	assert.Equal(t, RoomAwaitingAnswer, room.State)
}

func TestOfferFromResponderDropped(t *testing.T) {
	h, alice, _, roomID := pairedHub(t)

	h.Relay("bob", offer(roomID, `{"sdp":"b"}`))

	room, _ := h.rooms.Get(roomID)
	assert.Equal(t, RoomAwaitingOffer, room.State)
	assert.Len(t, alice.inbox, 1, "only the original begin-negotiation")
}

func TestAnswerCompletesHandshake(t *testing.T) {
	h, alice, bob, roomID := pairedHub(t)

	h.Relay("alice", offer(roomID, `{"sdp":"a"}`))
	h.Relay("bob", answer(roomID, `{"sdp":"b"}`))

	got := alice.last(t)
	assert.Equal(t, models.SignalTypeAnswer, got.Type)
	assert.Equal(t, models.RoleResponder, got.Role)
	assert.JSONEq(t, `{"sdp":"b"}`, string(got.Payload))

	room, _ := h.rooms.Get(roomID)
	assert.Equal(t, RoomEstablished, room.State)
	require.Len(t, bob.inbox, 1)
}

func TestAnswerBeforeOfferDropped(t *testing.T) {
	h, alice, _, roomID := pairedHub(t)

	h.Relay("bob", answer(roomID, `{"sdp":"early"}`))

	room, _ := h.rooms.Get(roomID)
	assert.Equal(t, RoomAwaitingOffer, room.State)
	assert.Len(t, alice.inbox, 1)
}

func TestAnswerFromInitiatorDropped(t *testing.T) {
	h, _, bob, roomID := pairedHub(t)

	h.Relay("alice", offer(roomID, `{"sdp":"a"}`))
	h.Relay("alice", answer(roomID, `{"sdp":"self"}`))

	room, _ := h.rooms.Get(roomID)
	assert.Equal(t, RoomAwaitingAnswer, room.State)
	assert.Len(t, bob.inbox, 1, "only the relayed offer")
}

func TestCandidateForwardedBeforeEstablished(t *testing.T) {
	h, alice, bob, roomID := pairedHub(t)

	// Candidates are legal in AwaitingOffer, in both directions.
	h.Relay("alice", candidate(roomID, `{"candidate":"a1"}`))
	h.Relay("bob", candidate(roomID, `{"candidate":"b1"}`))

	fromAlice := bob.last(t)
	assert.Equal(t, models.SignalTypeCandidate, fromAlice.Type)
	assert.Equal(t, models.RoleInitiator, fromAlice.Role)
	assert.JSONEq(t, `{"candidate":"a1"}`, string(fromAlice.Payload))

	fromBob := alice.last(t)
	assert.Equal(t, models.SignalTypeCandidate, fromBob.Type)
	assert.Equal(t, models.RoleResponder, fromBob.Role)

	// Room state is untouched by candidates.
	room, _ := h.rooms.Get(roomID)
	assert.Equal(t, RoomAwaitingOffer, room.State)
}

func TestUnknownRoomDroppedSilently(t *testing.T) {
	h, alice, bob, _ := pairedHub(t)

	h.Relay("alice", candidate("no-such-room", `{"candidate":"x"}`))
	h.Relay("alice", offer("no-such-room", `{"sdp":"x"}`))

	assert.Len(t, alice.inbox, 1)
	assert.Empty(t, bob.inbox)
}

func TestNonMemberCannotRelayIntoRoom(t *testing.T) {
	h, _, bob, roomID := pairedHub(t)
	join(h, "mallory") // waiting, not in the room

	h.Relay("mallory", offer(roomID, `{"sdp":"forged"}`))
	h.Relay("mallory", candidate(roomID, `{"candidate":"forged"}`))

	room, _ := h.rooms.Get(roomID)
	assert.Equal(t, RoomAwaitingOffer, room.State)
	assert.Empty(t, bob.inbox)
}

func TestRelayFromUnknownParticipantDropped(t *testing.T) {
	h, _, bob, roomID := pairedHub(t)

	h.Relay("ghost", offer(roomID, `{"sdp":"x"}`))

	assert.Empty(t, bob.inbox)
}

func TestMessagesRelayedInOrder(t *testing.T) {
	h, _, bob, roomID := pairedHub(t)

	h.Relay("alice", candidate(roomID, `{"candidate":"c1"}`))
	h.Relay("alice", offer(roomID, `{"sdp":"a"}`))
	h.Relay("alice", candidate(roomID, `{"candidate":"c2"}`))

	require.Len(t, bob.inbox, 3)
	assert.Equal(t, models.SignalTypeCandidate, bob.inbox[0].Type)
	assert.Equal(t, models.SignalTypeOffer, bob.inbox[1].Type)
	assert.Equal(t, models.SignalTypeCandidate, bob.inbox[2].Type)
}

// Full scenario from the service contract: Alice and Bob are matched, complete
// the handshake, then Alice disconnects and Bob is re-queued.
func TestOfferAnswerDisconnectScenario(t *testing.T) {
	h, alice, bob, roomID := pairedHub(t)

	h.Relay("alice", offer(roomID, `{"sdp":"sdpA"}`))
	assert.JSONEq(t, `{"sdp":"sdpA"}`, string(bob.last(t).Payload))

	h.Relay("bob", answer(roomID, `{"sdp":"sdpB"}`))
	assert.JSONEq(t, `{"sdp":"sdpB"}`, string(alice.last(t).Payload))

	room, _ := h.rooms.Get(roomID)
	require.Equal(t, RoomEstablished, room.State)

	h.Disconnect("alice")

	left := bob.last(t)
	assert.Equal(t, models.SignalTypePeerLeft, left.Type)
	assert.Equal(t, roomID, left.RoomID)

	_, ok := h.rooms.Get(roomID)
	assert.False(t, ok)
	survivor, ok := h.registry.Lookup("bob")
	require.True(t, ok)
	assert.Equal(t, StateWaiting, survivor.State)
}
