package match

import "fmt"

// Registry owns every currently-connected participant. It is a plain table:
// all access is serialized by the Hub's lock.
type Registry struct {
	participants map[string]*Participant
}

func NewRegistry() *Registry {
	return &Registry{
		participants: make(map[string]*Participant),
	}
}

// Register creates a participant in StateIdle. Registering the same id twice
// is a programming error: ids are minted per transport connection and are
// never reused while any reference might still point to them.
func (r *Registry) Register(id, displayName string) *Participant {
	if _, exists := r.participants[id]; exists {
		panic(fmt.Sprintf("match: participant %s registered twice", id))
	}
	p := &Participant{
		ID:          id,
		DisplayName: displayName,
		State:       StateIdle,
	}
	r.participants[id] = p
	return p
}

func (r *Registry) Lookup(id string) (*Participant, bool) {
	p, ok := r.participants[id]
	return p, ok
}

// Remove deletes the participant. It is a no-op if the participant is already
// absent: transport-level disconnect notifications can race with
// application-level removal, so the whole teardown path must be idempotent.
func (r *Registry) Remove(id string) {
	delete(r.participants, id)
}

func (r *Registry) Len() int {
	return len(r.participants)
}
