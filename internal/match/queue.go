package match

import "fmt"

// Queue is the FIFO waiting list. Insertion order is arrival order and
// matching always takes the two oldest entries, so pairing is strictly fair
// and nobody starves. Access is serialized by the Hub's lock.
type Queue struct {
	ids []string
}

func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends an id to the tail. An id may appear at most once; a
// duplicate enqueue is a programming error.
func (q *Queue) Enqueue(id string) {
	for _, queued := range q.ids {
		if queued == id {
			panic(fmt.Sprintf("match: participant %s already queued", id))
		}
	}
	q.ids = append(q.ids, id)
}

// TryMatch removes and returns the two oldest entries. It returns false and
// leaves the queue untouched when fewer than two participants are waiting.
func (q *Queue) TryMatch() (string, string, bool) {
	if len(q.ids) < 2 {
		return "", "", false
	}
	a, b := q.ids[0], q.ids[1]
	q.ids = q.ids[2:]
	return a, b, true
}

// Remove deletes a specific id from the queue; no-op if absent. Used when a
// waiting participant disconnects before being matched.
func (q *Queue) Remove(id string) {
	for i, queued := range q.ids {
		if queued == id {
			q.ids = append(q.ids[:i], q.ids[i+1:]...)
			return
		}
	}
}

func (q *Queue) Len() int {
	return len(q.ids)
}
