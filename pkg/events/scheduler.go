package events

import (
	"sync"

	"github.com/google/uuid"
)

// Tags identify a timed event for bulk cancellation. Zero-value fields are
// absent: an event with no AreaKey never matches an AreaKey filter, and a
// filter with no AreaKey does not constrain on it.
type Tags struct {
	AreaKey  string
	EntityID uuid.UUID
	Label    string
}

// TimedEvent is a callback scheduled against the game clock (milliseconds
// since boot). The two implementations are DelayedEvent (one-shot) and
// RepeatedEvent (re-arming).
type TimedEvent interface {
	ID() uuid.UUID
	// MinExeTime is the earliest game time at which the event may fire.
	MinExeTime() int64
	Tags() Tags

	run(now int64)
	keep(now int64) bool
}

// Scheduler owns the timed event collection. Events live in a plain scanned
// slice guarded by a mutex; expected cardinality is small and scan order is
// not a contract.
type Scheduler struct {
	mu     sync.Mutex
	now    int64
	events []TimedEvent
}

// NewScheduler creates an empty scheduler at game time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the game time of the most recent Tick.
func (s *Scheduler) Now() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Len reports how many events are pending.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Schedule inserts ev. Safe to call from a running event's callback.
func (s *Scheduler) Schedule(ev TimedEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// Tick advances the game clock to now, fires every event whose MinExeTime
// has passed and re-inserts the survivors. Callbacks run one at a time with
// the registry unlocked, so they may schedule or delete other events; events
// they schedule are considered from the next tick on. Returns the number of
// events fired.
func (s *Scheduler) Tick(now int64) int {
	s.mu.Lock()
	s.now = now
	var due []TimedEvent
	rest := s.events[:0]
	for _, ev := range s.events {
		if ev.MinExeTime() <= now {
			due = append(due, ev)
		} else {
			rest = append(rest, ev)
		}
	}
	s.events = rest
	s.mu.Unlock()

	for _, ev := range due {
		ev.run(now)
		if ev.keep(now) {
			s.Schedule(ev)
		}
	}
	return len(due)
}

// Delete removes the event with the given id before it fires. Returns the
// removed event, or nil if no pending event has that id.
func (s *Scheduler) Delete(id uuid.UUID) TimedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ev := range s.events {
		if ev.ID() == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return ev
		}
	}
	return nil
}

// DeleteWhere removes every pending event matching all supplied tag filters
// and returns them. A zero filter field is not applied; a supplied filter
// rejects events whose corresponding tag is absent.
func (s *Scheduler) DeleteWhere(filter Tags) []TimedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []TimedEvent
	rest := s.events[:0]
	for _, ev := range s.events {
		if matchTags(ev.Tags(), filter) {
			removed = append(removed, ev)
		} else {
			rest = append(rest, ev)
		}
	}
	s.events = rest
	return removed
}

func matchTags(tags, filter Tags) bool {
	if filter.AreaKey != "" && tags.AreaKey != filter.AreaKey {
		return false
	}
	if filter.EntityID != uuid.Nil && tags.EntityID != filter.EntityID {
		return false
	}
	if filter.Label != "" && tags.Label != filter.Label {
		return false
	}
	return true
}

// After schedules fn once, delay milliseconds past the current game time,
// and returns the event id.
func (s *Scheduler) After(delay int64, fn func()) uuid.UUID {
	ev := NewDelayed(s.Now()+delay, fn)
	s.Schedule(ev)
	return ev.ID()
}

// AfterTagged is After with cancellation tags attached.
func (s *Scheduler) AfterTagged(delay int64, tags Tags, fn func()) uuid.UUID {
	ev := NewDelayed(s.Now()+delay, fn).Tag(tags)
	s.Schedule(ev)
	return ev.ID()
}

// Repeat schedules fn every interval milliseconds until fn returns false or
// duration milliseconds have elapsed, and returns the event id. The first
// firing is one interval from now.
func (s *Scheduler) Repeat(interval, duration int64, fn func() bool) uuid.UUID {
	now := s.Now()
	ev := NewRepeated(now+interval, interval, now+duration, fn)
	s.Schedule(ev)
	return ev.ID()
}

// RepeatTagged is Repeat with cancellation tags attached.
func (s *Scheduler) RepeatTagged(interval, duration int64, tags Tags, fn func() bool) uuid.UUID {
	now := s.Now()
	ev := NewRepeated(now+interval, interval, now+duration, fn).Tag(tags)
	s.Schedule(ev)
	return ev.ID()
}

// DelayHandler marks a point on the game clock so follow-up work can be
// chained at or after it.
type DelayHandler struct {
	s  *Scheduler
	at int64
}

// NewDelayHandler returns a handler expiring delay milliseconds past the
// current game time. Nothing is scheduled until Then or ThenAfter is called.
func (s *Scheduler) NewDelayHandler(delay int64) DelayHandler {
	return DelayHandler{s: s, at: s.Now() + delay}
}

// Then schedules fn at the handler's expiry time and returns the event id.
func (h DelayHandler) Then(fn func()) uuid.UUID {
	ev := NewDelayed(h.at, fn)
	h.s.Schedule(ev)
	return ev.ID()
}

// ThenAfter schedules fn extra milliseconds past the handler's expiry time
// and returns the event id.
func (h DelayHandler) ThenAfter(extra int64, fn func()) uuid.UUID {
	ev := NewDelayed(h.at+extra, fn)
	h.s.Schedule(ev)
	return ev.ID()
}

// DelayedEvent runs a callback once at a fixed game time, then leaves the
// registry.
type DelayedEvent struct {
	id      uuid.UUID
	exeTime int64
	tags    Tags
	fn      func()
}

// NewDelayed creates a one-shot event firing at game time exeTime.
func NewDelayed(exeTime int64, fn func()) *DelayedEvent {
	return &DelayedEvent{id: uuid.New(), exeTime: exeTime, fn: fn}
}

// Tag attaches cancellation tags and returns the event.
func (e *DelayedEvent) Tag(t Tags) *DelayedEvent {
	e.tags = t
	return e
}

func (e *DelayedEvent) ID() uuid.UUID     { return e.id }
func (e *DelayedEvent) MinExeTime() int64 { return e.exeTime }
func (e *DelayedEvent) Tags() Tags        { return e.tags }

func (e *DelayedEvent) run(now int64) {
	fn := e.fn
	e.fn = nil
	if fn != nil {
		fn()
	}
}

func (e *DelayedEvent) keep(now int64) bool { return false }

// RepeatedEvent runs a boolean callback every interval until the callback
// returns false or the game clock reaches maxExeTime. The next firing time
// is computed from the tick that ran it, not from the previous target, so a
// late tick does not cause catch-up bursts.
type RepeatedEvent struct {
	id       uuid.UUID
	next     int64
	interval int64
	max      int64
	tags     Tags
	fn       func() bool
	stopped  bool
}

// NewRepeated creates a repeating event first firing at game time first,
// then every interval, surviving while the tick clock stays below
// maxExeTime.
func NewRepeated(first, interval, maxExeTime int64, fn func() bool) *RepeatedEvent {
	return &RepeatedEvent{
		id:       uuid.New(),
		next:     first,
		interval: interval,
		max:      maxExeTime,
		fn:       fn,
	}
}

// Tag attaches cancellation tags and returns the event.
func (e *RepeatedEvent) Tag(t Tags) *RepeatedEvent {
	e.tags = t
	return e
}

func (e *RepeatedEvent) ID() uuid.UUID     { return e.id }
func (e *RepeatedEvent) MinExeTime() int64 { return e.next }
func (e *RepeatedEvent) Tags() Tags        { return e.tags }

func (e *RepeatedEvent) run(now int64) {
	if e.fn() {
		e.next = now + e.interval
	} else {
		e.stopped = true
	}
}

func (e *RepeatedEvent) keep(now int64) bool {
	return !e.stopped && now < e.max
}
