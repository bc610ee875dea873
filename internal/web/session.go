package web

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookshelf/internal/library"
)

const sessionCookie = "bookshelf_session"

// session pairs one browser with one library.State. The state itself
// is single-threaded; the mutex serializes the request handlers and
// the background callbacks that reconcile it.
type session struct {
	mu       sync.Mutex
	state    *library.State
	fetching bool
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*session)}
}

// get returns the session for the request, creating the cookie and the
// state container on first contact.
func (st *sessionStore) get(c *gin.Context) *session {
	id, err := c.Cookie(sessionCookie)
	if err != nil || id == "" {
		id = uuid.New().String()
		c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		s = &session{state: library.NewState()}
		st.sessions[id] = s
	}
	return s
}
