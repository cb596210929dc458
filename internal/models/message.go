package models

import "encoding/json"

// SignalType represents the type of a signaling message
type SignalType string

const (
	SignalTypeJoin      SignalType = "join"
	SignalTypeBegin     SignalType = "begin-negotiation"
	SignalTypeOffer     SignalType = "offer"
	SignalTypeAnswer    SignalType = "answer"
	SignalTypeCandidate SignalType = "candidate"
	SignalTypePeerLeft  SignalType = "peer-left"
)

// Role identifies which side of a room produced a message
type Role string

const (
	RoleInitiator Role = "initiator"
	RoleResponder Role = "responder"
)

// Envelope is the wire format for every message exchanged with a participant.
// Payload holds the opaque negotiation description (SDP, ICE candidate) and is
// relayed verbatim, never inspected.
type Envelope struct {
	Type        SignalType      `json:"type"`
	RoomID      string          `json:"roomId,omitempty"`
	DisplayName string          `json:"displayName,omitempty"`
	Role        Role            `json:"role,omitempty"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

// NewBeginNegotiation tells the initiator to start the offer/answer exchange.
func NewBeginNegotiation(roomID string) *Envelope {
	return &Envelope{
		Type:   SignalTypeBegin,
		RoomID: roomID,
	}
}

// NewRelayedOffer wraps an initiator's offer payload for delivery to the responder.
func NewRelayedOffer(roomID string, payload json.RawMessage) *Envelope {
	return &Envelope{
		Type:    SignalTypeOffer,
		RoomID:  roomID,
		Role:    RoleInitiator,
		Payload: payload,
	}
}

// NewRelayedAnswer wraps a responder's answer payload for delivery to the initiator.
func NewRelayedAnswer(roomID string, payload json.RawMessage) *Envelope {
	return &Envelope{
		Type:    SignalTypeAnswer,
		RoomID:  roomID,
		Role:    RoleResponder,
		Payload: payload,
	}
}

// NewRelayedCandidate wraps a network candidate for delivery to the other member.
// from is the role of the member that produced the candidate.
func NewRelayedCandidate(roomID string, payload json.RawMessage, from Role) *Envelope {
	return &Envelope{
		Type:    SignalTypeCandidate,
		RoomID:  roomID,
		Role:    from,
		Payload: payload,
	}
}

// NewPeerLeft notifies a surviving member that its peer disconnected.
func NewPeerLeft(roomID string) *Envelope {
	return &Envelope{
		Type:   SignalTypePeerLeft,
		RoomID: roomID,
	}
}
