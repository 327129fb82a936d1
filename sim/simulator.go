package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/go-foundations/dpsim/event"
	"github.com/go-foundations/dpsim/history"
	"github.com/go-foundations/dpsim/internal/dpsimerr"
	"github.com/go-foundations/dpsim/internal/log"
	"github.com/go-foundations/dpsim/job"
	"github.com/go-foundations/dpsim/schedule"
	"github.com/go-foundations/dpsim/stats"
	"github.com/go-foundations/dpsim/task"
)

// Simulator drives the event loop for a single SimulationSetup. It is
// single-threaded and holds no process-global state beyond what task.Task
// itself keeps (the UniqueID counter).
type Simulator struct {
	time        int
	jobs        *job.Manager
	events      *event.Queue
	scheduler   schedule.Scheduler
	hist        *history.History
	setup       SimulationSetup
	aggregators []stats.Aggregator
	tasksByID   map[task.UniqueID]task.Task
	log         *logrus.Entry

	stepMisses      []history.DeadlineMiss
	stepPreemptions []history.Preemption
}

func newShell(setup SimulationSetup, sched schedule.Scheduler) *Simulator {
	tasksByID := make(map[task.UniqueID]task.Task, len(setup.TaskSet.Tasks))
	for _, t := range setup.TaskSet.Tasks {
		tasksByID[t.UniqueID] = t
	}
	return &Simulator{
		jobs:      job.NewManager(),
		events:    event.NewQueue(),
		scheduler: sched,
		hist:      history.New(),
		setup:     setup,
		tasksByID: tasksByID,
		log:       log.For("sim", log.OrDiscard(setup.Logger)),
	}
}

// NewSimulator builds a fresh Simulator for setup, seeding release-0 arrivals
// for every task and the scheduler's initial schedule ticks.
func NewSimulator(setup SimulationSetup) (*Simulator, error) {
	sched, err := schedule.NewScheduler(setup.SchedulerKind, setup.Policy)
	if err != nil {
		return nil, err
	}
	if err := sched.InitializeSchedulerData(setup.TaskSet); err != nil {
		return nil, err
	}
	s := newShell(setup, sched)
	for _, t := range setup.TaskSet.Tasks {
		s.events.Push(event.Event{
			Time:   t.ArrivalTime(0),
			Kind:   event.Arrival,
			JobKey: job.Key{TaskID: t.UniqueID, ReleaseIndex: 0},
		})
	}
	s.addNextScheduleTicks()
	return s, nil
}

// RestoreFromState rebuilds a Simulator from a previously recorded state,
// per the round-trip law: running zero more time from the restored
// simulator must reproduce the same last state.
func RestoreFromState(setup SimulationSetup, st history.State) (*Simulator, error) {
	sched, err := schedule.NewScheduler(setup.SchedulerKind, setup.Policy)
	if err != nil {
		return nil, err
	}
	if err := sched.InitializeSchedulerData(setup.TaskSet); err != nil {
		return nil, err
	}
	s := newShell(setup, sched)
	s.time = st.Time
	s.jobs.RestoreFrom(st.Jobs)
	for _, e := range st.Events {
		s.events.Push(e)
	}
	for _, j := range st.Jobs {
		if jp, ok := s.jobs.Lookup(j.Key()); ok && !jp.Completed() {
			sched.AddReadyJob(jp)
		}
	}
	if _, _, err := sched.Schedule(s.time); err != nil {
		return nil, err
	}
	s.addNextScheduleTicks()
	return s, nil
}

// AddAggregator registers a streaming aggregator that observes every
// recorded step from now on.
func (s *Simulator) AddAggregator(a stats.Aggregator) { s.aggregators = append(s.aggregators, a) }

// Time returns the simulator's current instant.
func (s *Simulator) Time() int { return s.time }

// History returns the live history accumulated so far.
func (s *Simulator) History() *history.History { return s.hist }

func (s *Simulator) addNextScheduleTicks() {
	for _, t := range s.scheduler.NextScheduleTicks(s.time) {
		s.events.Push(event.Event{Time: t, Kind: event.ScheduleTick})
	}
}

func (s *Simulator) fatal(err error) error {
	return &SimulationError{Err: err, Setup: s.setup, PartialHistory: s.hist.Freeze()}
}

// SimulateTo advances the simulator to timeLimit, or to the first deadline
// miss if setup.StopOnMiss is set.
func (s *Simulator) SimulateTo(timeLimit int) error {
	for {
		for {
			e, ok, err := s.events.EffectiveTop(s.jobs)
			if err != nil {
				return s.fatal(err)
			}
			if !ok || e.Time != s.time {
				break
			}
			s.events.Pop()
			if err := s.handleEvent(e); err != nil {
				return s.fatal(err)
			}
		}

		old, newKey, err := s.scheduler.Schedule(s.time)
		if err != nil {
			return s.fatal(err)
		}
		if err := s.handleTransition(old, newKey); err != nil {
			return s.fatal(err)
		}

		missThisStep := len(s.stepMisses) > 0
		s.recordStep(false)

		if s.setup.StopOnMiss && missThisStep {
			s.log.WithField("time", s.time).Info("stopping on deadline miss")
			return nil
		}

		top, ok := s.events.Top()
		if !ok || top.Time >= timeLimit {
			break
		}
		s.time = top.Time
	}

	if s.time < timeLimit {
		s.refreshTo(timeLimit)
	}
	return nil
}

func (s *Simulator) refreshTo(timeLimit int) {
	if running := s.scheduler.RunningJob(); running != nil {
		if j, ok := s.jobs.Lookup(*running); ok {
			j.ProgressTo(timeLimit)
		}
	}
	s.time = timeLimit
	s.recordStep(true)
}

func (s *Simulator) handleEvent(e event.Event) error {
	switch e.Kind {
	case event.Arrival:
		t, ok := s.tasksByID[e.JobKey.TaskID]
		if !ok {
			return dpsimerr.NewInvariantViolation("arrival for unknown task", e)
		}
		j := s.jobs.GetOrCreate(t, e.JobKey.ReleaseIndex)
		s.scheduler.AddReadyJob(j)
		s.events.Push(event.Event{Time: j.Deadline(), Kind: event.Deadline, JobKey: e.JobKey})
		nextIdx := e.JobKey.ReleaseIndex + 1
		s.events.Push(event.Event{
			Time:   t.ArrivalTime(nextIdx),
			Kind:   event.Arrival,
			JobKey: job.Key{TaskID: t.UniqueID, ReleaseIndex: nextIdx},
		})
		return nil

	case event.Completion:
		running := s.scheduler.RunningJob()
		if running == nil || *running != e.JobKey {
			return dpsimerr.NewInvariantViolation("completion event does not match running job", e)
		}
		j, ok := s.jobs.Lookup(e.JobKey)
		if !ok {
			return dpsimerr.NewInvariantViolation("completion event for missing job", e)
		}
		j.ProgressTo(s.time)
		s.scheduler.ExecutionCompleted()
		if j.Deadline() < s.time {
			s.jobs.Remove(e.JobKey)
		}
		return nil

	case event.Deadline:
		j, ok := s.jobs.Lookup(e.JobKey)
		if !ok {
			return nil // already retired by an earlier late completion
		}
		if !j.Completed() {
			s.stepMisses = append(s.stepMisses, history.DeadlineMiss{
				TaskID: e.JobKey.TaskID, ReleaseIndex: e.JobKey.ReleaseIndex, Time: s.time,
			})
		} else {
			s.jobs.Remove(e.JobKey)
		}
		return nil

	case event.ScheduleTick:
		s.addNextScheduleTicks()
		return nil

	default:
		return dpsimerr.NewNotImplemented("unknown event kind")
	}
}

func (s *Simulator) handleTransition(old, newKey *job.Key) error {
	switch {
	case old == nil && newKey == nil:
		return nil

	case old == nil && newKey != nil:
		j, ok := s.jobs.Lookup(*newKey)
		if !ok {
			return dpsimerr.NewInvariantViolation("dispatch of missing job", *newKey)
		}
		j.Start(s.time)
		s.events.Push(event.Event{Time: s.time + j.RemainingExecWithDebt(), Kind: event.Completion, JobKey: *newKey})
		return nil

	case old != nil && newKey != nil && *old == *newKey:
		j, ok := s.jobs.Lookup(*old)
		if !ok {
			return dpsimerr.NewInvariantViolation("keep-running of missing job", *old)
		}
		j.ProgressTo(s.time)
		return nil

	case old != nil && newKey != nil:
		oldJob, ok := s.jobs.Lookup(*old)
		if !ok {
			return dpsimerr.NewInvariantViolation("preemption of missing running job", *old)
		}
		oldJob.ProgressTo(s.time)
		oldJob.Stop()
		previousDebt := oldJob.PreemptionDebt
		newDebt := oldJob.Task.PreemptionCost.Cost(oldJob.Task.WCET, oldJob.Progress)
		oldJob.PreemptionDebt = newDebt

		newJob, ok := s.jobs.Lookup(*newKey)
		if !ok {
			return dpsimerr.NewInvariantViolation("preemption into missing job", *newKey)
		}
		s.stepPreemptions = append(s.stepPreemptions, history.Preemption{
			Time:              s.time,
			PreemptedTaskID:   oldJob.Task.UniqueID,
			PreemptedRelease:  oldJob.ReleaseIndex,
			PreemptingTaskID:  newJob.Task.UniqueID,
			PreemptingRelease: newJob.ReleaseIndex,
			AddedDebt:         newDebt - previousDebt,
			PreviousDebt:      previousDebt,
		})
		s.log.WithField("time", s.time).Debug("preemption")

		newJob.Start(s.time)
		s.events.Push(event.Event{Time: s.time + newJob.RemainingExecWithDebt(), Kind: event.Completion, JobKey: *newKey})
		return nil

	default: // old != nil, newKey == nil
		return dpsimerr.NewInvariantViolation("schedule transition dropped the running job without completion", *old)
	}
}

func (s *Simulator) buildState() history.State {
	return history.State{
		Time:           s.time,
		Jobs:           s.jobs.Snapshot(),
		Events:         s.events.Events(),
		Scheduler:      s.scheduler.SchedulerState(),
		DeadlineMisses: append([]history.DeadlineMiss(nil), s.stepMisses...),
		Preemptions:    append([]history.Preemption(nil), s.stepPreemptions...),
	}
}

func (s *Simulator) recordStep(force bool) {
	st := s.buildState()
	for _, a := range s.aggregators {
		a.Observe(st.Time, st.Jobs, st.Events, st.Scheduler, st.DeadlineMisses, st.Preemptions)
	}
	missed := false
	preempted := len(st.Preemptions) > 0
	for _, m := range st.DeadlineMisses {
		s.log.WithField("task", m.TaskID).WithField("release", m.ReleaseIndex).WithField("time", m.Time).Info("deadline miss")
		if s.setup.DeadlineMissFilter.Matches(m.TaskID) {
			missed = true
		}
	}
	if force || s.setup.TrackHistory || missed || (s.setup.TrackPreemptions && preempted) {
		s.hist.AddState(st)
	}
	s.stepMisses = nil
	s.stepPreemptions = nil
}
