package job

import "github.com/go-foundations/dpsim/task"

// Manager maps (task, releaseIndex) to Job instances, materializing them on
// first reference and discarding them on completion or retirement.
type Manager struct {
	jobs map[Key]*Job
}

// NewManager returns an empty job manager.
func NewManager() *Manager {
	return &Manager{jobs: make(map[Key]*Job)}
}

// GetOrCreate returns the existing job for (t, releaseIndex), materializing a
// fresh zero-progress job if none exists yet.
func (m *Manager) GetOrCreate(t task.Task, releaseIndex int) *Job {
	k := Key{TaskID: t.UniqueID, ReleaseIndex: releaseIndex}
	if j, ok := m.jobs[k]; ok {
		return j
	}
	j := &Job{Task: t, ReleaseIndex: releaseIndex}
	m.jobs[k] = j
	return j
}

// Lookup returns the job for k, if materialized.
func (m *Manager) Lookup(k Key) (*Job, bool) {
	j, ok := m.jobs[k]
	return j, ok
}

// Remove deletes a specific job instance.
func (m *Manager) Remove(k Key) {
	delete(m.jobs, k)
}

// Snapshot returns a by-value copy of every live job, for inclusion in a
// SimulatorState.
func (m *Manager) Snapshot() []Job {
	out := make([]Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, j.Clone())
	}
	return out
}

// RestoreFrom replaces the manager's contents with by-value copies of jobs.
func (m *Manager) RestoreFrom(jobs []Job) {
	m.jobs = make(map[Key]*Job, len(jobs))
	for i := range jobs {
		cp := jobs[i].Clone()
		m.jobs[cp.Key()] = &cp
	}
}
