package match

import (
	"github.com/jtheo/pairwire/internal/metrics"
	"github.com/jtheo/pairwire/internal/models"
)

// The relay enforces sender legality per room state and forwards payloads
// verbatim. Out-of-contract messages are dropped and logged; they never
// affect other rooms and never terminate the sender's connection. All three
// handlers run under the hub lock.

// lookupRoom resolves the room named in an inbound message and checks the
// sender is one of its members. A stale or forged room id is dropped silently
// (the room may legitimately have been torn down already); a non-member
// naming a live room is a protocol violation.
func (h *Hub) lookupRoom(p *Participant, env *models.Envelope) (*Room, bool) {
	room, ok := h.rooms.Get(env.RoomID)
	if !ok {
		h.log.Debugw("message for unknown room dropped",
			"participant", p.ID, "room", env.RoomID, "type", env.Type)
		h.metrics.DroppedTotal.WithLabelValues(metrics.ReasonUnknownRoom).Inc()
		return nil, false
	}
	if !room.Member(p.ID) {
		h.log.Warnw("message from non-member dropped",
			"participant", p.ID, "room", env.RoomID, "type", env.Type)
		h.metrics.DroppedTotal.WithLabelValues(metrics.ReasonViolation).Inc()
		return nil, false
	}
	return room, true
}

// relayOffer accepts an offer from the initiator while the room awaits one,
// forwards it to the responder and advances the room to AwaitingAnswer.
func (h *Hub) relayOffer(p *Participant, env *models.Envelope) {
	room, ok := h.lookupRoom(p, env)
	if !ok {
		return
	}

	role, _ := room.RoleOf(p.ID)
	if role != models.RoleInitiator || room.State != RoomAwaitingOffer {
		h.log.Warnw("out-of-contract offer dropped", "participant", p.ID,
			"room", room.ID, "role", role, "roomState", room.State)
		h.metrics.DroppedTotal.WithLabelValues(metrics.ReasonViolation).Inc()
		return
	}

	room.State = RoomAwaitingAnswer
	h.send(room.Responder, models.NewRelayedOffer(room.ID, env.Payload))
	h.metrics.RelayedTotal.WithLabelValues(string(models.SignalTypeOffer)).Inc()
}

// relayAnswer accepts an answer from the responder while the room awaits one,
// forwards it to the initiator and marks the room Established.
func (h *Hub) relayAnswer(p *Participant, env *models.Envelope) {
	room, ok := h.lookupRoom(p, env)
	if !ok {
		return
	}

	role, _ := room.RoleOf(p.ID)
	if role != models.RoleResponder || room.State != RoomAwaitingAnswer {
		h.log.Warnw("out-of-contract answer dropped", "participant", p.ID,
			"room", room.ID, "role", role, "roomState", room.State)
		h.metrics.DroppedTotal.WithLabelValues(metrics.ReasonViolation).Inc()
		return
	}

	room.State = RoomEstablished
	h.send(room.Initiator, models.NewRelayedAnswer(room.ID, env.Payload))
	h.metrics.RelayedTotal.WithLabelValues(string(models.SignalTypeAnswer)).Inc()
}

// relayCandidate forwards a network candidate to the other member in any room
// state. Candidates routinely arrive before the offer/answer exchange is done;
// tolerating early candidates is the peer-connection layer's job, routing them
// is ours. The producing side's role comes from room membership, not from the
// (untrusted) role field on the wire.
func (h *Hub) relayCandidate(p *Participant, env *models.Envelope) {
	room, ok := h.lookupRoom(p, env)
	if !ok {
		return
	}

	role, _ := room.RoleOf(p.ID)
	peer, _ := room.Peer(p.ID)
	h.send(peer, models.NewRelayedCandidate(room.ID, env.Payload, role))
	h.metrics.RelayedTotal.WithLabelValues(string(models.SignalTypeCandidate)).Inc()
}
