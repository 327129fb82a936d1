package dualpriority

import "github.com/go-foundations/dpsim/task"

// GenLPViableTasks returns ts's tasks that are LPV (least-priority-viable):
// schedulable against the rest of the set at the bottom priority band with
// no promotion at all. Order matches the peel order from peelLPVOrder.
func GenLPViableTasks(ts task.Set) []task.Task {
	return peelLPVOrder(ts.RMOrdered())
}

// peelLPVOrder repeatedly finds a task whose response time against all
// others in the remaining set is at most its period, and peels it off. The
// returned order is the peel order: the first peeled task is the bottom
// priority band, the next is one step above, and so on. Peeling stops when
// no remaining task qualifies.
func peelLPVOrder(tasks []task.Task) []task.Task {
	remaining := append([]task.Task(nil), tasks...)
	var peeled []task.Task

	for len(remaining) > 0 {
		order := sortRMTasks(remaining)
		foundIdx := -1
		for i, t := range order {
			others := excludeTasks(order, []task.Task{t})
			r, ok := responseTimeAgainst(t, others)
			if ok && r <= t.MinimalInterArrival() {
				foundIdx = i
				break
			}
		}
		if foundIdx == -1 {
			break
		}
		peeled = append(peeled, order[foundIdx])
		remaining = excludeTasks(remaining, []task.Task{order[foundIdx]})
	}

	return peeled
}

func sortRMTasks(tasks []task.Task) []task.Task {
	return task.NewSet(tasks...).RMOrdered()
}
