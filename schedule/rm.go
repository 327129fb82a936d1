package schedule

import (
	"github.com/go-foundations/dpsim/internal/dheap"
	"github.com/go-foundations/dpsim/job"
	"github.com/go-foundations/dpsim/task"
)

type rmEntry struct {
	period       int
	uniqueID     task.UniqueID
	releaseIndex int
	key          job.Key
}

func rmLess(a, b rmEntry) bool {
	if a.period != b.period {
		return a.period < b.period
	}
	if a.uniqueID != b.uniqueID {
		return a.uniqueID < b.uniqueID
	}
	return a.releaseIndex < b.releaseIndex
}

// RMScheduler dispatches by the fixed (minimalInterArrivalTime, uniqueId,
// releaseIndex) tuple ascending; priorities never change after assignment.
type RMScheduler struct {
	heap    *dheap.Heap[rmEntry]
	entries map[job.Key]rmEntry
	running *job.Key
}

// NewRMScheduler returns an empty RM scheduler.
func NewRMScheduler() *RMScheduler {
	return &RMScheduler{
		heap:    dheap.New(rmLess),
		entries: make(map[job.Key]rmEntry),
	}
}

func (s *RMScheduler) AddReadyJob(j *job.Job) {
	k := j.Key()
	e := rmEntry{
		period:       j.Task.MinimalInterArrival(),
		uniqueID:     j.Task.UniqueID,
		releaseIndex: j.ReleaseIndex,
		key:          k,
	}
	s.entries[k] = e
	s.heap.Push(e)
}

func (s *RMScheduler) Schedule(now int) (*job.Key, *job.Key, error) {
	top, hasReady := s.heap.Peek()

	if s.running == nil {
		if !hasReady {
			return nil, nil, nil
		}
		s.heap.Pop()
		newKey := top.key
		s.running = &newKey
		return nil, &newKey, nil
	}

	if !hasReady {
		k := *s.running
		return &k, &k, nil
	}

	runningEntry := s.entries[*s.running]
	if rmLess(top, runningEntry) {
		old := *s.running
		s.heap.Pop()
		s.heap.Push(runningEntry)
		newKey := top.key
		s.running = &newKey
		return &old, &newKey, nil
	}

	k := *s.running
	return &k, &k, nil
}

func (s *RMScheduler) RunningJob() *job.Key { return s.running }

func (s *RMScheduler) ExecutionCompleted() {
	if s.running == nil {
		return
	}
	delete(s.entries, *s.running)
	s.running = nil
}

func (s *RMScheduler) NextScheduleTicks(now int) []int { return nil }

func (s *RMScheduler) InitializeSchedulerData(ts task.Set) error { return nil }

func (s *RMScheduler) SchedulerState() State {
	st := State{Kind: RM}
	if s.running != nil {
		k := *s.running
		st.Running = &k
	}
	for _, e := range s.heap.Items() {
		st.ReadyRM = append(st.ReadyRM, ReadyRM{Key: e.key})
	}
	return st
}

func (s *RMScheduler) Name() string { return "RM" }
