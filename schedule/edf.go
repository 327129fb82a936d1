package schedule

import (
	"github.com/go-foundations/dpsim/internal/dheap"
	"github.com/go-foundations/dpsim/job"
	"github.com/go-foundations/dpsim/task"
)

type edfEntry struct {
	deadline  int
	collision int
	key       job.Key
}

func edfLess(a, b edfEntry) bool {
	if a.deadline != b.deadline {
		return a.deadline < b.deadline
	}
	return a.collision < b.collision
}

// EDFScheduler dispatches by (absoluteDeadline, collisionIndex) ascending.
// Collision indices are assigned in order of first observation among jobs
// sharing the same deadline and are freed when a job leaves the scheduler.
type EDFScheduler struct {
	heap          *dheap.Heap[edfEntry]
	entries       map[job.Key]edfEntry
	collisionUsed map[int]map[int]bool
	running       *job.Key
}

// NewEDFScheduler returns an empty EDF scheduler.
func NewEDFScheduler() *EDFScheduler {
	return &EDFScheduler{
		heap:          dheap.New(edfLess),
		entries:       make(map[job.Key]edfEntry),
		collisionUsed: make(map[int]map[int]bool),
	}
}

func (s *EDFScheduler) assignCollision(deadline int) int {
	used := s.collisionUsed[deadline]
	if used == nil {
		used = make(map[int]bool)
		s.collisionUsed[deadline] = used
	}
	idx := 0
	for used[idx] {
		idx++
	}
	used[idx] = true
	return idx
}

func (s *EDFScheduler) freeCollision(deadline, idx int) {
	if used := s.collisionUsed[deadline]; used != nil {
		delete(used, idx)
	}
}

func (s *EDFScheduler) AddReadyJob(j *job.Job) {
	k := j.Key()
	deadline := j.Deadline()
	e := edfEntry{deadline: deadline, collision: s.assignCollision(deadline), key: k}
	s.entries[k] = e
	s.heap.Push(e)
}

func (s *EDFScheduler) Schedule(now int) (*job.Key, *job.Key, error) {
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
	if edfLess(top, runningEntry) {
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

func (s *EDFScheduler) RunningJob() *job.Key { return s.running }

func (s *EDFScheduler) ExecutionCompleted() {
	if s.running == nil {
		return
	}
	e := s.entries[*s.running]
	s.freeCollision(e.deadline, e.collision)
	delete(s.entries, *s.running)
	s.running = nil
}

func (s *EDFScheduler) NextScheduleTicks(now int) []int { return nil }

func (s *EDFScheduler) InitializeSchedulerData(ts task.Set) error { return nil }

func (s *EDFScheduler) SchedulerState() State {
	st := State{Kind: EDF}
	if s.running != nil {
		k := *s.running
		st.Running = &k
	}
	for _, e := range s.heap.Items() {
		if s.running != nil && e.key == *s.running {
			continue
		}
		st.ReadyEDF = append(st.ReadyEDF, ReadyEDF{Deadline: e.deadline, Collision: e.collision, Key: e.key})
	}
	return st
}

func (s *EDFScheduler) Name() string { return "EDF" }
