// Package tracker is the single logical store of a session: the roster, the
// events and the shared id counter behind one lock.
package tracker

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"artcor/internal/adapters/storage"
	eventstore "artcor/internal/adapters/storage/event"
	memberstore "artcor/internal/adapters/storage/member"
	"artcor/internal/application/ident"
	"artcor/internal/application/orchestrators"
	"artcor/internal/application/projections"
	"artcor/internal/domain/attendance"
	"artcor/internal/domain/calendar"
	"artcor/internal/domain/event"
	"artcor/internal/domain/failure"
	"artcor/internal/domain/member"
)

// Options tune a Tracker. The zero value is usable: duplicate names allowed,
// empty event names rejected, Spanish labels, wall clock, no metrics.
type Options struct {
	MembersKey  string
	EventsKey   string
	UniqueNames bool
	Policy      event.Policy
	Locale      calendar.Locale
	Now         func() time.Time
	Registerer  prometheus.Registerer
}

// Tracker serialises mutations and serves consistent reads.
// INVARIANT: ids handed out are unique across members and events
type Tracker struct {
	mu      sync.RWMutex
	members *memberstore.KVStore
	events  *eventstore.KVStore
	ids     *ident.Allocator

	uniqueNames bool
	policy      event.Policy
	locale      calendar.Locale
	now         func() time.Time

	mutations *prometheus.CounterVec
}

// New loads both collections from kv and seeds the id counter past every
// stored member and event id.
// PRE: kv is open
// POST: Returns a ready Tracker or the load error
func New(ctx context.Context, kv storage.KV, opts Options) (*Tracker, error) {
	if opts.MembersKey == "" {
		opts.MembersKey = storage.DefaultMembersKey
	}
	if opts.EventsKey == "" {
		opts.EventsKey = storage.DefaultEventsKey
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	members, err := memberstore.NewKVStore(ctx, kv, opts.MembersKey)
	if err != nil {
		return nil, err
	}
	events, err := eventstore.NewKVStore(ctx, kv, opts.EventsKey)
	if err != nil {
		return nil, err
	}

	memberList, err := members.List(ctx, memberstore.ListFilter{})
	if err != nil {
		return nil, err
	}
	eventList, err := events.All(ctx)
	if err != nil {
		return nil, err
	}
	memberIDs := make([]int, len(memberList))
	for i, m := range memberList {
		memberIDs[i] = m.ID
	}
	eventIDs := make([]int, len(eventList))
	for i, e := range eventList {
		eventIDs[i] = e.ID
	}

	return &Tracker{
		members:     members,
		events:      events,
		ids:         ident.NewAllocator(memberIDs, eventIDs),
		uniqueNames: opts.UniqueNames,
		policy:      opts.Policy,
		locale:      calendar.ParseLocale(string(opts.Locale)),
		now:         opts.Now,
		mutations: promauto.With(opts.Registerer).NewCounterVec(prometheus.CounterOpts{
			Name: "artcor_mutations_total",
			Help: "Roster and event mutations by outcome.",
		}, []string{"entity", "op", "result"}),
	}, nil
}

// Locale returns the display locale used by the read models.
func (t *Tracker) Locale() calendar.Locale {
	return t.locale
}

// NextID reports the id the next creation will receive.
func (t *Tracker) NextID() int {
	return t.ids.Peek()
}

func (t *Tracker) record(entity, op string, err error) {
	t.mutations.WithLabelValues(entity, op, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, failure.ErrValidation):
		return "invalid"
	case errors.Is(err, failure.ErrDuplicateName):
		return "duplicate"
	case errors.Is(err, failure.ErrNotFound):
		return "not_found"
	case errors.Is(err, failure.ErrReferentialIntegrity):
		return "referenced"
	}
	return "error"
}

// AddMember creates a member.
func (t *Tracker) AddMember(ctx context.Context, name, role string) (member.Member, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, err := orchestrators.ExecuteAddMember(ctx, orchestrators.AddMemberInput{Name: name, Role: role}, orchestrators.AddMemberDeps{
		MemberStore: t.members,
		IDs:         t.ids,
		UniqueNames: t.uniqueNames,
	})
	t.record("member", "add", err)
	return m, err
}

// UpdateMember edits a member's name and role.
func (t *Tracker) UpdateMember(ctx context.Context, id int, name, role string) (member.Member, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, err := orchestrators.ExecuteUpdateMember(ctx, orchestrators.UpdateMemberInput{MemberID: id, Name: name, Role: role}, orchestrators.UpdateMemberDeps{
		MemberStore: t.members,
	})
	t.record("member", "update", err)
	return m, err
}

// DeleteMember removes a member no event refers to.
func (t *Tracker) DeleteMember(ctx context.Context, id int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	err := orchestrators.ExecuteDeleteMember(ctx, orchestrators.DeleteMemberInput{MemberID: id}, orchestrators.DeleteMemberDeps{
		MemberStore: t.members,
		EventStore:  t.events,
	})
	t.record("member", "delete", err)
	return err
}

// GetMember returns one member.
func (t *Tracker) GetMember(ctx context.Context, id int) (member.Member, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.members.GetByID(ctx, id)
}

// Members returns the roster in insertion order.
func (t *Tracker) Members(ctx context.Context, filter memberstore.ListFilter) ([]member.Member, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.members.List(ctx, filter)
}

// AddEvent creates an event from a YYYY-MM-DD date.
func (t *Tracker) AddEvent(ctx context.Context, name, date string, attendees []int) (event.Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, err := orchestrators.ExecuteAddEvent(ctx, orchestrators.SaveEventInput{Name: name, Date: date, Attendees: attendees}, t.saveEventDeps())
	t.record("event", "add", err)
	return e, err
}

// UpdateEvent replaces an event's name, date and attendee set.
func (t *Tracker) UpdateEvent(ctx context.Context, id int, name, date string, attendees []int) (event.Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, err := orchestrators.ExecuteUpdateEvent(ctx, orchestrators.SaveEventInput{EventID: id, Name: name, Date: date, Attendees: attendees}, t.saveEventDeps())
	t.record("event", "update", err)
	return e, err
}

// DeleteEvent removes an event.
func (t *Tracker) DeleteEvent(ctx context.Context, id int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	err := orchestrators.ExecuteDeleteEvent(ctx, orchestrators.DeleteEventInput{EventID: id}, orchestrators.DeleteEventDeps{EventStore: t.events})
	t.record("event", "delete", err)
	return err
}

func (t *Tracker) saveEventDeps() orchestrators.SaveEventDeps {
	return orchestrators.SaveEventDeps{EventStore: t.events, IDs: t.ids, Policy: t.policy}
}

// GetEvent returns one event.
func (t *Tracker) GetEvent(ctx context.Context, id int) (event.Event, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.events.GetByID(ctx, id)
}

// Events returns every event in store order.
func (t *Tracker) Events(ctx context.Context) ([]event.Event, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.events.All(ctx)
}

// ListByYear returns one year's events, newest first.
// PRE: year is positive
func (t *Tracker) ListByYear(ctx context.Context, year int) ([]event.Event, error) {
	if year <= 0 {
		return nil, failure.Invalid("year", "must be positive")
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.events.ListByYear(ctx, year)
}

// ListByYearMonth returns one month's events, newest first.
// PRE: month is 1-12
func (t *Tracker) ListByYearMonth(ctx context.Context, year int, month time.Month) ([]event.Event, error) {
	if month < time.January || month > time.December {
		return nil, failure.Invalid("month", "must be 1-12")
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.events.ListByYearMonth(ctx, year, month)
}

// UniqueYears returns the years that have events, newest first.
func (t *Tracker) UniqueYears(ctx context.Context) ([]int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.events.UniqueYears(ctx)
}

// Tree returns the labelled year/month/day navigation tree.
func (t *Tracker) Tree(ctx context.Context) (projections.EventTreeResult, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return projections.QueryGetEventTree(ctx, projections.GetEventTreeQuery{Locale: t.locale}, projections.GetEventTreeDeps{
		EventStore: t.events,
	})
}

// Stats returns attendance rows for every member under filter, anchored on
// the tracker's clock.
func (t *Tracker) Stats(ctx context.Context, filter attendance.Filter) (projections.AttendanceStatsResult, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return projections.QueryGetAttendanceStats(ctx, projections.GetAttendanceStatsQuery{
		Filter: filter,
		Now:    t.now(),
		Locale: t.locale,
	}, projections.GetAttendanceStatsDeps{MemberStore: t.members, EventStore: t.events})
}

// EventList returns event cards with attendee names; zero year lists all.
func (t *Tracker) EventList(ctx context.Context, year int, month time.Month) ([]projections.EventView, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return projections.QueryGetEventList(ctx, projections.GetEventListQuery{Locale: t.locale, Year: year, Month: month}, projections.GetEventListDeps{
		MemberStore: t.members,
		EventStore:  t.events,
	})
}

// ImportCalendar adds the occurrences of an iCalendar feed inside [from, to].
func (t *Tracker) ImportCalendar(ctx context.Context, r io.Reader, from, to time.Time) (orchestrators.ImportCalendarResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	res, err := orchestrators.ExecuteImportCalendar(ctx, orchestrators.ImportCalendarInput{
		Body:     r,
		From:     from,
		To:       to,
		Location: from.Location(),
	}, orchestrators.ImportCalendarDeps{
		EventStore: t.events,
		IDs:        t.ids,
		Policy:     t.policy,
	})
	t.record("event", "import", err)
	return res, err
}
