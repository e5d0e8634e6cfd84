package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/freeslot/internal/meeting"
)

var _ meeting.CalendarSource = (*SQLite)(nil)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func addParticipant(t *testing.T, store *SQLite, name string, authorized bool) *meeting.Participant {
	t.Helper()
	ctx := context.Background()
	p, err := store.CreateParticipant(ctx, name, nil)
	if err != nil {
		t.Fatalf("creating participant %q: %v", name, err)
	}
	if authorized {
		if err := store.SetAuthorized(ctx, p.ID, true); err != nil {
			t.Fatalf("authorizing %q: %v", name, err)
		}
		p.Authorized = true
	}
	return p
}

func TestCreateAndGetParticipant(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p, err := store.CreateParticipant(ctx, "alice", []string{"go", "python"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == 0 {
		t.Error("expected a non-zero id")
	}
	if p.Authorized {
		t.Error("new participants must start unauthorized")
	}

	got, err := store.GetParticipant(ctx, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "alice" {
		t.Errorf("name = %q, want alice", got.Name)
	}
	if len(got.Competences) != 2 || got.Competences[0] != "go" || got.Competences[1] != "python" {
		t.Errorf("competences = %v, want [go python]", got.Competences)
	}

	byName, err := store.GetParticipantByName(ctx, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byName.ID != p.ID {
		t.Errorf("id = %d, want %d", byName.ID, p.ID)
	}
}

func TestCreateParticipantEmptyName(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.CreateParticipant(context.Background(), "   ", nil); err == nil {
		t.Error("expected error for blank name")
	}
}

func TestGetParticipantNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.GetParticipant(ctx, 999); !errors.Is(err, meeting.ErrParticipantNotFound) {
		t.Errorf("got %v, want ErrParticipantNotFound", err)
	}
	if _, err := store.GetParticipantByName(ctx, "nobody"); !errors.Is(err, meeting.ErrParticipantNotFound) {
		t.Errorf("got %v, want ErrParticipantNotFound", err)
	}
}

func TestListParticipants(t *testing.T) {
	store := newTestStore(t)

	addParticipant(t, store, "carol", false)
	addParticipant(t, store, "alice", true)
	addParticipant(t, store, "bob", false)

	participants, err := store.ListParticipants(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(participants) != 3 {
		t.Fatalf("got %d participants, want 3", len(participants))
	}
	// Ordered by name.
	for i, want := range []string{"alice", "bob", "carol"} {
		if participants[i].Name != want {
			t.Errorf("participants[%d] = %q, want %q", i, participants[i].Name, want)
		}
	}
	if !participants[0].Authorized {
		t.Error("alice should be authorized")
	}
	if participants[1].Authorized {
		t.Error("bob should not be authorized")
	}
}

func TestSetAuthorized(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := addParticipant(t, store, "alice", false)

	if err := store.SetAuthorized(ctx, p.ID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := store.GetParticipant(ctx, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Authorized {
		t.Error("participant should be authorized")
	}

	if err := store.SetAuthorized(ctx, p.ID, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err = store.GetParticipant(ctx, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Authorized {
		t.Error("participant should be unauthorized again")
	}

	if err := store.SetAuthorized(ctx, 999, true); !errors.Is(err, meeting.ErrParticipantNotFound) {
		t.Errorf("got %v, want ErrParticipantNotFound", err)
	}
}

func TestBusyIntervals(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := addParticipant(t, store, "alice", true)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	mustAddBusy := func(start, end time.Time) {
		t.Helper()
		iv, err := meeting.NewBusyInterval(start, end)
		if err != nil {
			t.Fatalf("building interval: %v", err)
		}
		if err := store.AddBusyInterval(ctx, p.ID, iv); err != nil {
			t.Fatalf("adding interval: %v", err)
		}
	}

	mustAddBusy(day.Add(14*time.Hour), day.Add(15*time.Hour))
	mustAddBusy(day.Add(9*time.Hour), day.Add(10*time.Hour))
	// A different day must not leak into the query.
	otherDay := day.AddDate(0, 0, 1)
	mustAddBusy(otherDay.Add(9*time.Hour), otherDay.Add(10*time.Hour))

	intervals, err := store.BusyIntervals(ctx, p.ID, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(intervals) != 2 {
		t.Fatalf("got %d intervals, want 2", len(intervals))
	}
	// Ordered by start time.
	if !intervals[0].Start.Equal(day.Add(9 * time.Hour)) {
		t.Errorf("first interval starts at %v, want 09:00", intervals[0].Start)
	}
	if !intervals[1].Start.Equal(day.Add(14 * time.Hour)) {
		t.Errorf("second interval starts at %v, want 14:00", intervals[1].Start)
	}

	empty, err := store.BusyIntervals(ctx, p.ID, day.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("got %d intervals for a free day, want 0", len(empty))
	}
}

func TestBusyIntervalsUnauthorized(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := addParticipant(t, store, "bob", false)

	_, err := store.BusyIntervals(ctx, p.ID, time.Now())
	if !errors.Is(err, meeting.ErrNotAuthorized) {
		t.Errorf("got %v, want ErrNotAuthorized", err)
	}
}

func TestBusyIntervalsUnknownParticipant(t *testing.T) {
	store := newTestStore(t)

	_, err := store.BusyIntervals(context.Background(), 999, time.Now())
	if !errors.Is(err, meeting.ErrParticipantNotFound) {
		t.Errorf("got %v, want ErrParticipantNotFound", err)
	}
}

func TestAddBusyIntervalUnknownParticipant(t *testing.T) {
	store := newTestStore(t)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	iv, err := meeting.NewBusyInterval(day.Add(9*time.Hour), day.Add(10*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.AddBusyInterval(context.Background(), 999, iv); !errors.Is(err, meeting.ErrParticipantNotFound) {
		t.Errorf("got %v, want ErrParticipantNotFound", err)
	}
}

func TestBookMeeting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := addParticipant(t, store, "alice", true)
	bob := addParticipant(t, store, "bob", true)
	participants := []*meeting.Participant{alice, bob}

	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local)
	end := start.Add(30 * time.Minute)

	group, err := store.BookMeeting(ctx, start, end, "Meeting", participants)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if group == "" {
		t.Fatal("expected a group guid")
	}

	appointments, err := store.ListAppointments(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(appointments) != 2 {
		t.Fatalf("got %d appointments, want 2", len(appointments))
	}

	guids := map[string]bool{}
	for _, a := range appointments {
		if a.GroupGUID != group {
			t.Errorf("group guid = %q, want %q", a.GroupGUID, group)
		}
		if guids[a.GUID] {
			t.Errorf("guid %q used twice", a.GUID)
		}
		guids[a.GUID] = true
		if !a.Start.Equal(start) || !a.End.Equal(end) {
			t.Errorf("appointment times %v-%v, want %v-%v", a.Start, a.End, start, end)
		}
	}

	byName := map[string]Appointment{}
	for _, a := range appointments {
		byName[a.Participant] = a
	}
	if got := byName["alice"].Description; got != "Meeting with bob" {
		t.Errorf("alice's description = %q, want \"Meeting with bob\"", got)
	}
	if got := byName["bob"].Description; got != "Meeting with alice" {
		t.Errorf("bob's description = %q, want \"Meeting with alice\"", got)
	}

	// The booked slot is busy for both participants.
	for _, p := range participants {
		intervals, err := store.BusyIntervals(ctx, p.ID, start)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(intervals) != 1 {
			t.Fatalf("got %d intervals for %q, want 1", len(intervals), p.Name)
		}
		if !intervals[0].Start.Equal(start) || !intervals[0].End.Equal(end) {
			t.Errorf("busy interval %v-%v, want %v-%v", intervals[0].Start, intervals[0].End, start, end)
		}
	}
}

func TestBookMeetingValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := addParticipant(t, store, "alice", true)
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local)

	t.Run("no participants", func(t *testing.T) {
		_, err := store.BookMeeting(ctx, start, start.Add(time.Hour), "Meeting", nil)
		if !errors.Is(err, meeting.ErrNoParticipants) {
			t.Errorf("got %v, want ErrNoParticipants", err)
		}
	})

	t.Run("end not after start", func(t *testing.T) {
		_, err := store.BookMeeting(ctx, start, start, "Meeting", []*meeting.Participant{alice})
		if !errors.Is(err, meeting.ErrEndBeforeStart) {
			t.Errorf("got %v, want ErrEndBeforeStart", err)
		}
	})
}
