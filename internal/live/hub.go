package live

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Session is one open delivery path to a connected client. Each session has a
// random identity so that a close signal for a replaced connection can never
// evict the connection that replaced it.
type Session struct {
	UserID uint64
	ID     string

	events chan Event
}

// Events is the receive side the transport drains; the hub closes it on
// eviction.
func (s *Session) Events() <-chan Event { return s.events }

type cmdKind int

const (
	cmdRegister cmdKind = iota
	cmdUnregister
	cmdPush
	cmdConnected
)

type command struct {
	kind    cmdKind
	session *Session
	userIDs []uint64
	event   Event
	reply   chan bool
}

// Hub is the registry of live sessions. A single goroutine owns the user->
// session map; registrations, evictions and pushes are messages into it, so
// no caller ever touches shared state.
type Hub struct {
	cmds   chan command
	quit   chan struct{}
	closed chan struct{}
	buffer int
	log    *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	h := &Hub{
		cmds:   make(chan command, 64),
		quit:   make(chan struct{}),
		closed: make(chan struct{}),
		buffer: 16,
		log:    log,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.closed)
	sessions := make(map[uint64]*Session)

	for {
		select {
		case <-h.quit:
			for _, s := range sessions {
				close(s.events)
			}
			return

		case c := <-h.cmds:
			switch c.kind {
			case cmdRegister:
				if prev, ok := sessions[c.session.UserID]; ok {
					// a second connection replaces the first; close the
					// replaced channel so its transport loop ends
					close(prev.events)
					h.log.WithFields(logrus.Fields{
						"user_id": c.session.UserID,
						"session": prev.ID,
					}).Debug("live session replaced")
				}
				sessions[c.session.UserID] = c.session

			case cmdUnregister:
				cur, ok := sessions[c.session.UserID]
				if !ok || cur.ID != c.session.ID {
					// stale close from an already-replaced connection
					break
				}
				delete(sessions, c.session.UserID)
				close(cur.events)

			case cmdPush:
				for _, id := range c.userIDs {
					s, ok := sessions[id]
					if !ok {
						continue
					}
					select {
					case s.events <- c.event:
					default:
						// slow consumer: drop rather than block the hub
						h.log.WithField("user_id", id).Warn("live event dropped, buffer full")
					}
				}

			case cmdConnected:
				_, ok := sessions[c.session.UserID]
				c.reply <- ok
			}
		}
	}
}

func (h *Hub) send(c command) {
	select {
	case h.cmds <- c:
	case <-h.closed:
	}
}

// Register opens a live session for the user, evicting any prior one.
func (h *Hub) Register(userID uint64) *Session {
	s := &Session{
		UserID: userID,
		ID:     uuid.NewString(),
		events: make(chan Event, h.buffer),
	}
	h.send(command{kind: cmdRegister, session: s})
	return s
}

// Unregister evicts the session, but only if it is still the one registered
// for its user.
func (h *Hub) Unregister(s *Session) {
	h.send(command{kind: cmdUnregister, session: s})
}

// Push delivers the event to a single user, silently dropping it when the
// user has no open session.
func (h *Hub) Push(userID uint64, ev Event) {
	h.send(command{kind: cmdPush, userIDs: []uint64{userID}, event: ev})
}

// PushMany delivers the event to each of the given users that is connected.
func (h *Hub) PushMany(userIDs []uint64, ev Event) {
	h.send(command{kind: cmdPush, userIDs: userIDs, event: ev})
}

// Connected reports whether the user currently has an open session.
func (h *Hub) Connected(userID uint64) bool {
	reply := make(chan bool, 1)
	h.send(command{kind: cmdConnected, session: &Session{UserID: userID}, reply: reply})
	select {
	case ok := <-reply:
		return ok
	case <-h.closed:
		return false
	}
}

// Close stops the hub and closes every open session channel.
func (h *Hub) Close() {
	close(h.quit)
	<-h.closed
}
