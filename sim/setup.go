// Package sim drives the discrete-event simulation: it owns the event loop,
// consults the scheduler, mutates jobs, and records history.
package sim

import (
	"maps"

	"github.com/sirupsen/logrus"

	"github.com/go-foundations/dpsim/history"
	"github.com/go-foundations/dpsim/schedule"
	"github.com/go-foundations/dpsim/task"
)

// Option configures a SimulationSetup via functional options.
type Option func(*SimulationSetup)

// WithTrackHistory enables recording every step regardless of misses/preemptions.
func WithTrackHistory() Option {
	return func(s *SimulationSetup) { s.TrackHistory = true }
}

// WithTrackPreemptions enables recording a step when a preemption occurs.
func WithTrackPreemptions() Option {
	return func(s *SimulationSetup) { s.TrackPreemptions = true }
}

// WithDeadlineMissFilter sets which tasks' misses force a state recording.
func WithDeadlineMissFilter(f history.DeadlineMissFilter) Option {
	return func(s *SimulationSetup) { s.DeadlineMissFilter = f }
}

// WithStopOnMiss stops the simulation at the first deadline miss.
func WithStopOnMiss() Option {
	return func(s *SimulationSetup) { s.StopOnMiss = true }
}

// WithLogger attaches a logrus entry the simulator logs through.
func WithLogger(l *logrus.Entry) Option {
	return func(s *SimulationSetup) { s.Logger = l }
}

// SimulationSetup is the input to a simulation run: a task set, a scheduler
// kind (plus DP policy when relevant), a time horizon, and tracking flags.
type SimulationSetup struct {
	TaskSet            task.Set
	SchedulerKind       schedule.Kind
	Policy              *schedule.Policy // required iff SchedulerKind == schedule.DP
	TimeLimit           int
	TrackHistory        bool
	TrackPreemptions    bool
	DeadlineMissFilter  history.DeadlineMissFilter
	StopOnMiss          bool
	Logger              *logrus.Entry
}

// NewSetup builds a setup with defaults (no tracking, AllMisses filter for
// miss detection, no stop-on-miss) and applies opts.
func NewSetup(ts task.Set, kind schedule.Kind, policy *schedule.Policy, timeLimit int, opts ...Option) SimulationSetup {
	s := SimulationSetup{
		TaskSet:            ts,
		SchedulerKind:      kind,
		Policy:             policy,
		TimeLimit:          timeLimit,
		DeadlineMissFilter: history.AllMisses(),
	}
	for _, o := range opts {
		o(&s)
	}
	return s
}

// Equal reports value equality of two setups, excluding the logger (an
// auxiliary field per the value-equality contract).
func (s SimulationSetup) Equal(o SimulationSetup) bool {
	if !s.TaskSet.Equal(o.TaskSet) {
		return false
	}
	if s.SchedulerKind != o.SchedulerKind {
		return false
	}
	if (s.Policy == nil) != (o.Policy == nil) {
		return false
	}
	if s.Policy != nil && !s.Policy.Equal(*o.Policy) {
		return false
	}
	if s.DeadlineMissFilter.Default != o.DeadlineMissFilter.Default ||
		!maps.Equal(s.DeadlineMissFilter.Except, o.DeadlineMissFilter.Except) ||
		!maps.Equal(s.DeadlineMissFilter.Only, o.DeadlineMissFilter.Only) {
		return false
	}
	return s.TimeLimit == o.TimeLimit &&
		s.TrackHistory == o.TrackHistory &&
		s.TrackPreemptions == o.TrackPreemptions &&
		s.StopOnMiss == o.StopOnMiss
}
