package schedule

import (
	"github.com/go-foundations/dpsim/internal/dheap"
	"github.com/go-foundations/dpsim/internal/dpsimerr"
	"github.com/go-foundations/dpsim/job"
	"github.com/go-foundations/dpsim/task"
)

type dpReadyInfo struct {
	key          job.Key
	task         task.Task
	releaseIndex int
	releaseTime  int
}

type promEntry struct {
	time         int
	releaseIndex int
	entryID      int
	taskID       task.UniqueID
}

func promLess(a, b promEntry) bool {
	if a.time != b.time {
		return a.time < b.time
	}
	if a.releaseIndex != b.releaseIndex {
		return a.releaseIndex < b.releaseIndex
	}
	return a.entryID < b.entryID
}

// DPScheduler dispatches by the Dual-Priority policy's dynamic per-job
// priority (policy.priorityAt(task, now-releaseTime), releaseIndex); ready
// jobs are scanned, not heap-ordered, since their priority changes with time.
type DPScheduler struct {
	policy       Policy
	ready        map[job.Key]dpReadyInfo
	running      *job.Key
	runningInfo  dpReadyInfo
	tasksByID    map[task.UniqueID]task.Task
	promHeap     *dheap.Heap[promEntry]
	lastEmitted  *int
	entryCounter int
}

// NewDPScheduler returns a DP scheduler bound to the given policy.
func NewDPScheduler(policy Policy) *DPScheduler {
	return &DPScheduler{
		policy: policy,
		ready:  make(map[job.Key]dpReadyInfo),
	}
}

func (s *DPScheduler) InitializeSchedulerData(ts task.Set) error {
	if err := s.policy.Validate(); err != nil {
		return err
	}
	s.tasksByID = make(map[task.UniqueID]task.Task, len(ts.Tasks))
	s.promHeap = dheap.New(promLess)
	s.entryCounter = 0
	s.lastEmitted = nil
	for _, t := range ts.Tasks {
		s.tasksByID[t.UniqueID] = t
		ti, ok := s.policy.Get(t)
		if !ok {
			return dpsimerr.NewNotImplemented("DP policy missing entry for task")
		}
		if ti.Promotion == nil {
			continue
		}
		promTime := t.ArrivalTime(0) + *ti.Promotion
		s.entryCounter++
		s.promHeap.Push(promEntry{time: promTime, releaseIndex: 0, entryID: s.entryCounter, taskID: t.UniqueID})
	}
	return nil
}

func (s *DPScheduler) AddReadyJob(j *job.Job) {
	s.ready[j.Key()] = dpReadyInfo{
		key:          j.Key(),
		task:         j.Task,
		releaseIndex: j.ReleaseIndex,
		releaseTime:  j.ReleaseTime(),
	}
}

func (s *DPScheduler) priorityOf(info dpReadyInfo, now int) (int, error) {
	ti, ok := s.policy.Get(info.task)
	if !ok {
		return 0, dpsimerr.NewNotImplemented("DP policy missing entry for task")
	}
	return ti.PriorityAt(now - info.releaseTime), nil
}

func (s *DPScheduler) Schedule(now int) (*job.Key, *job.Key, error) {
	var best *dpReadyInfo
	var bestPrio int

	for k, info := range s.ready {
		prio, err := s.priorityOf(info, now)
		if err != nil {
			return nil, nil, err
		}
		if best == nil || prio < bestPrio || (prio == bestPrio && info.releaseIndex < best.releaseIndex) {
			c := s.ready[k]
			best = &c
			bestPrio = prio
		}
	}

	if s.running == nil {
		if best == nil {
			return nil, nil, nil
		}
		delete(s.ready, best.key)
		s.runningInfo = *best
		k := best.key
		s.running = &k
		return nil, &k, nil
	}

	runningPrio, err := s.priorityOf(s.runningInfo, now)
	if err != nil {
		return nil, nil, err
	}

	if best == nil {
		k := *s.running
		return &k, &k, nil
	}

	if bestPrio < runningPrio || (bestPrio == runningPrio && best.releaseIndex < s.runningInfo.releaseIndex) {
		old := *s.running
		s.ready[old] = s.runningInfo
		delete(s.ready, best.key)
		s.runningInfo = *best
		k := best.key
		s.running = &k
		return &old, &k, nil
	}

	k := *s.running
	return &k, &k, nil
}

func (s *DPScheduler) RunningJob() *job.Key { return s.running }

func (s *DPScheduler) ExecutionCompleted() {
	s.running = nil
}

// NextScheduleTicks returns the single next global promotion instant after
// now, collapsing duplicate emissions of the same instant across calls.
func (s *DPScheduler) NextScheduleTicks(now int) []int {
	if s.promHeap == nil {
		return nil
	}
	for {
		top, ok := s.promHeap.Peek()
		if !ok {
			return nil
		}
		if top.time > now && (s.lastEmitted == nil || top.time != *s.lastEmitted) {
			v := top.time
			s.lastEmitted = &v
			return []int{v}
		}
		s.promHeap.Pop()
		t := s.tasksByID[top.taskID]
		ti, ok := s.policy.Get(t)
		if !ok || ti.Promotion == nil {
			continue
		}
		nextRelease := top.releaseIndex + 1
		nextTime := t.ArrivalTime(nextRelease) + *ti.Promotion
		s.entryCounter++
		s.promHeap.Push(promEntry{time: nextTime, releaseIndex: nextRelease, entryID: s.entryCounter, taskID: top.taskID})
	}
}

func (s *DPScheduler) SchedulerState() State {
	st := State{Kind: DP, Running: nil}
	if s.running != nil {
		k := *s.running
		st.Running = &k
	}
	for _, info := range s.ready {
		st.ReadyDP = append(st.ReadyDP, ReadyDP{Key: info.key})
	}
	p := s.policy.Clone()
	st.Policy = &p
	return st
}

func (s *DPScheduler) Name() string { return "DP" }
