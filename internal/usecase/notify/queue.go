package notify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// noticesShownTotal counts notices raised, by level.
var noticesShownTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notices_shown_total",
		Help: "Total number of user notices raised",
	},
	[]string{"level"},
)

// maxQueued bounds how many notices are kept at once; the oldest are dropped.
const maxQueued = 5

// Sink receives notices raised by the views.
type Sink interface {
	Push(Notice)
}

// Queue holds the notices currently on screen, newest last.
// The zero value is ready to use. It is not safe for concurrent use.
type Queue struct {
	Items []Notice `json:"items"`
}

// Push appends n, dropping the oldest notice when the queue is full.
func (q *Queue) Push(n Notice) {
	noticesShownTotal.WithLabelValues(string(n.Level)).Inc()
	q.Items = append(q.Items, n)
	if len(q.Items) > maxQueued {
		q.Items = q.Items[len(q.Items)-maxQueued:]
	}
}

// Prune removes notices older than ttl.
func (q *Queue) Prune(now time.Time, ttl time.Duration) {
	kept := q.Items[:0]
	for _, n := range q.Items {
		if !n.Expired(now, ttl) {
			kept = append(kept, n)
		}
	}
	q.Items = kept
}

// Drain returns all queued notices and empties the queue.
func (q *Queue) Drain() []Notice {
	items := q.Items
	q.Items = nil
	return items
}

// Len returns the number of queued notices.
func (q *Queue) Len() int { return len(q.Items) }
