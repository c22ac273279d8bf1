package notifications

import "sync"

// Store es el store local de notificaciones. A diferencia de los resource
// stores, no tiene gateway: se siembra con fixtures y muta solo en memoria.
type Store struct {
	mu     sync.Mutex
	items  []Notification
	unread int
	nextID int64
}

func NewStore(seed []Notification) *Store {
	s := &Store{
		items: make([]Notification, len(seed)),
	}
	copy(s.items, seed)

	for _, n := range seed {
		if !n.Read {
			s.unread++
		}
		if n.ID >= s.nextID {
			s.nextID = n.ID + 1
		}
	}
	if s.nextID == 0 {
		s.nextID = 1
	}
	return s
}

// Add inserta al frente (lo más nuevo primero) y asigna id local.
func (s *Store) Add(n Notification) Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	n.ID = s.nextID
	s.nextID++

	s.items = append([]Notification{n}, s.items...)
	if !n.Read {
		s.unread++
	}
	return n
}

func (s *Store) MarkAsRead(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			if !s.items[i].Read {
				s.items[i].Read = true
				s.unread--
			}
			return
		}
	}
}

func (s *Store) MarkAllAsRead() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		s.items[i].Read = true
	}
	s.unread = 0
}

func (s *Store) Delete(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			if !s.items[i].Read {
				s.unread--
			}
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

func (s *Store) Snapshot() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Notification, len(s.items))
	copy(out, s.items)
	return out
}
