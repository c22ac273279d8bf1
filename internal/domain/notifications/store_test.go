package notifications_test

import (
	"testing"
	"time"

	"livestock-client/internal/domain/notifications"
)

func TestFixtures_SeedState(t *testing.T) {
	s := notifications.NewStore(notifications.Fixtures(time.Now()))

	if got := len(s.Snapshot()); got != 3 {
		t.Fatalf("seeded items = %d", got)
	}
	if got := s.UnreadCount(); got != 2 {
		t.Fatalf("unread = %d", got)
	}
}

func TestAdd_PrependsAndAssignsID(t *testing.T) {
	s := notifications.NewStore(notifications.Fixtures(time.Now()))

	added := s.Add(notifications.Notification{
		Title: "Animal sold",
		Kind:  notifications.KindInfo,
	})

	if added.ID <= 3 {
		t.Fatalf("expected fresh local id, got %d", added.ID)
	}
	items := s.Snapshot()
	if items[0].ID != added.ID {
		t.Fatalf("expected newest first, got %+v", items[0])
	}
	if s.UnreadCount() != 3 {
		t.Fatalf("unread = %d", s.UnreadCount())
	}
}

func TestMarkAsRead_Idempotent(t *testing.T) {
	s := notifications.NewStore(notifications.Fixtures(time.Now()))

	s.MarkAsRead(1)
	s.MarkAsRead(1) // segunda vez no descuenta de nuevo

	if got := s.UnreadCount(); got != 1 {
		t.Fatalf("unread = %d", got)
	}
}

func TestMarkAllAsRead(t *testing.T) {
	s := notifications.NewStore(notifications.Fixtures(time.Now()))

	s.MarkAllAsRead()

	if got := s.UnreadCount(); got != 0 {
		t.Fatalf("unread = %d", got)
	}
	for _, n := range s.Snapshot() {
		if !n.Read {
			t.Fatalf("notification %d still unread", n.ID)
		}
	}
}

func TestDelete_AdjustsUnread(t *testing.T) {
	s := notifications.NewStore(notifications.Fixtures(time.Now()))

	s.Delete(1) // no leída
	if got := s.UnreadCount(); got != 1 {
		t.Fatalf("unread after deleting unread = %d", got)
	}

	s.Delete(3) // ya leída
	if got := s.UnreadCount(); got != 1 {
		t.Fatalf("unread after deleting read = %d", got)
	}
	if got := len(s.Snapshot()); got != 1 {
		t.Fatalf("items = %d", got)
	}
}

func TestDelete_UnknownIDIsNoOp(t *testing.T) {
	s := notifications.NewStore(notifications.Fixtures(time.Now()))

	s.Delete(999)

	if got := len(s.Snapshot()); got != 3 {
		t.Fatalf("items = %d", got)
	}
}
