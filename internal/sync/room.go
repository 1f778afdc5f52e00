package sync

import (
	stdsync "sync"

	"interviewhub/internal/models"
)

// Room groups the clients connected to one live session, keyed by the
// session's stream call id.
type Room struct {
	ID      string
	mu      stdsync.Mutex
	clients map[*Client]struct{}
}

func NewRoom(id string) *Room {
	return &Room{ID: id, clients: make(map[*Client]struct{})}
}

func (r *Room) Join(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c] = struct{}{}
}

func (r *Room) Leave(c *Client) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, c)
	return len(r.clients)
}

func (r *Room) ClientCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

func (r *Room) snapshotClients() []*Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		out = append(out, c)
	}
	return out
}

// Dispatch reconciles a canonical update into every member's controller and
// pushes a state frame to those whose local view actually changed. Members
// inside their protection window keep their buffer untouched.
func (r *Room) Dispatch(sess *models.Session, starter StarterLookup) {
	for _, c := range r.snapshotClients() {
		res := c.Ctrl.ApplyRemote(sess, starter)
		if !res.Any() {
			continue
		}
		code, lang, questionID := c.Ctrl.Snapshot()
		view := *sess
		view.CurrentCode = code
		view.CurrentLanguage = lang
		if questionID != "" {
			view.CurrentQuestionID = &questionID
		}
		c.Send(models.WSFrame{Type: "state", Data: models.InitResponse{Session: &view}})
	}
}
