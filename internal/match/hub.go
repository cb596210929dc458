package match

import (
	"sync"

	"go.uber.org/zap"

	"github.com/jtheo/pairwire/internal/metrics"
	"github.com/jtheo/pairwire/internal/models"
)

// Sender is a participant's outbound channel into the transport layer. Send
// must never block; it reports false when the message could not be buffered
// (slow or dead peer) so the hub is never stalled by one connection.
type Sender interface {
	Send(*models.Envelope) bool
}

// Hub owns the participant registry, pairing queue and room table, and is the
// single mutual-exclusion domain guarding them: matching, room creation and
// teardown always mutate all three as a unit.
type Hub struct {
	mu       sync.Mutex
	registry *Registry
	queue    *Queue
	rooms    *RoomTable
	senders  map[string]Sender

	requeueSurvivor bool
	matches         uint64

	log     *zap.SugaredLogger
	metrics *metrics.Metrics
}

// NewHub builds a hub. requeueSurvivor controls whether the surviving member
// of a torn-down room is put back into the pairing queue automatically.
func NewHub(log *zap.SugaredLogger, m *metrics.Metrics, requeueSurvivor bool) *Hub {
	return &Hub{
		registry:        NewRegistry(),
		queue:           NewQueue(),
		rooms:           NewRoomTable(),
		senders:         make(map[string]Sender),
		requeueSurvivor: requeueSurvivor,
		log:             log,
		metrics:         m,
	}
}

// Join registers a new participant, queues it, and matches it immediately if
// someone is already waiting. A second join for an id that is still connected
// is a protocol violation and is dropped.
func (h *Hub) Join(id, displayName string, s Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.registry.Lookup(id); exists {
		h.log.Warnw("duplicate join dropped", "participant", id)
		h.metrics.DroppedTotal.WithLabelValues(metrics.ReasonViolation).Inc()
		return
	}

	p := h.registry.Register(id, displayName)
	h.senders[id] = s
	h.log.Infow("participant joined", "participant", id, "displayName", displayName)

	h.enqueueLocked(p)
	h.matchLocked()
	h.syncGaugesLocked()
}

// Relay dispatches an inbound negotiation message from a connected participant.
func (h *Hub) Relay(id string, env *models.Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.registry.Lookup(id)
	if !ok {
		h.log.Warnw("message from unknown participant dropped",
			"participant", id, "type", env.Type)
		h.metrics.DroppedTotal.WithLabelValues(metrics.ReasonViolation).Inc()
		return
	}

	switch env.Type {
	case models.SignalTypeOffer:
		h.relayOffer(p, env)
	case models.SignalTypeAnswer:
		h.relayAnswer(p, env)
	case models.SignalTypeCandidate:
		h.relayCandidate(p, env)
	default:
		h.log.Warnw("unknown message type dropped",
			"participant", id, "type", env.Type)
		h.metrics.DroppedTotal.WithLabelValues(metrics.ReasonMalformed).Inc()
	}
}

// Disconnect tears down everything a participant touches: its queue slot, its
// room (notifying and optionally re-queuing the survivor) and its registry
// entry. Safe to call more than once for the same id; every step tolerates
// the participant already being gone.
func (h *Hub) Disconnect(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.senders, id)

	p, ok := h.registry.Lookup(id)
	if !ok {
		return
	}

	h.queue.Remove(id)

	if roomID, ok := h.rooms.RoomOf(id); ok {
		h.teardownRoomLocked(roomID, id)
	}

	h.registry.Remove(id)
	h.log.Infow("participant disconnected", "participant", id, "state", p.State)
	h.syncGaugesLocked()
}

// teardownRoomLocked destroys the room the departing participant was paired
// into and hands the survivor back to the queue when that policy is enabled.
func (h *Hub) teardownRoomLocked(roomID, departing string) {
	room, ok := h.rooms.Destroy(roomID)
	if !ok {
		return
	}

	peerID, _ := room.Peer(departing)
	survivor, ok := h.registry.Lookup(peerID)
	if !ok {
		return
	}

	survivor.State = StateIdle
	survivor.RoomID = ""
	h.send(peerID, models.NewPeerLeft(room.ID))
	h.log.Infow("room destroyed", "room", room.ID,
		"departing", departing, "survivor", peerID)

	if h.requeueSurvivor {
		h.enqueueLocked(survivor)
		h.matchLocked()
	}
}

// enqueueLocked moves a participant into the waiting queue. Queueing a paired
// participant is a programming error in the caller.
func (h *Hub) enqueueLocked(p *Participant) {
	if p.State == StatePaired {
		panic("match: enqueue of paired participant " + p.ID)
	}
	p.State = StateWaiting
	h.queue.Enqueue(p.ID)
}

// matchLocked drains the queue two at a time, creating a room per pair. The
// older of the two is the initiator and receives begin-negotiation.
func (h *Hub) matchLocked() {
	for {
		aID, bID, ok := h.queue.TryMatch()
		if !ok {
			return
		}
		a, aOK := h.registry.Lookup(aID)
		b, bOK := h.registry.Lookup(bID)
		if !aOK || !bOK {
			panic("match: queued participant missing from registry")
		}

		room := h.rooms.Create(a, b)
		h.matches++
		h.metrics.MatchesTotal.Inc()
		h.log.Infow("participants matched", "room", room.ID,
			"initiator", a.ID, "responder", b.ID)

		h.send(a.ID, models.NewBeginNegotiation(room.ID))
	}
}

// send hands a message to a participant's outbound channel. Delivery is
// best-effort: a missing sender or a full buffer drops the message.
func (h *Hub) send(id string, env *models.Envelope) {
	s, ok := h.senders[id]
	if !ok {
		h.metrics.DroppedTotal.WithLabelValues(metrics.ReasonNoSender).Inc()
		return
	}
	if !s.Send(env) {
		h.log.Warnw("outbound buffer full, message dropped",
			"participant", id, "type", env.Type)
		h.metrics.DroppedTotal.WithLabelValues(metrics.ReasonBackpressure).Inc()
	}
}

func (h *Hub) syncGaugesLocked() {
	h.metrics.Participants.Set(float64(h.registry.Len()))
	h.metrics.Waiting.Set(float64(h.queue.Len()))
	h.metrics.Rooms.Set(float64(h.rooms.Len()))
}

// Stats is a point-in-time snapshot of hub state for the diagnostics API.
type Stats struct {
	Participants int               `json:"participants"`
	Waiting      int               `json:"waiting"`
	Rooms        int               `json:"rooms"`
	RoomsByState map[RoomState]int `json:"roomsByState"`
	TotalMatches uint64            `json:"totalMatches"`
}

func (h *Hub) Snapshot() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		Participants: h.registry.Len(),
		Waiting:      h.queue.Len(),
		Rooms:        h.rooms.Len(),
		RoomsByState: h.rooms.CountByState(),
		TotalMatches: h.matches,
	}
}
