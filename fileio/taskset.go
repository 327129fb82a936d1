// Package fileio reads and writes the task-set text format and a plain-text
// result manifest, grounded on the original implementation's
// crpd/fileio.py and crpd/utils/persistence.py.
package fileio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-foundations/dpsim/internal/dpsimerr"
	"github.com/go-foundations/dpsim/schedule"
	"github.com/go-foundations/dpsim/task"
)

// Setup pairs a parsed task set with the Dual-Priority policy its file lines
// encoded.
type Setup struct {
	TaskSet task.Set
	Policy  schedule.Policy
}

// ExpandPath expands every "${HOME}" in path, and a leading "~"; no other
// environment variables are expanded.
func ExpandPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	path = strings.ReplaceAll(path, "${HOME}", home)
	if strings.HasPrefix(path, "~") {
		path = home + strings.TrimPrefix(path, "~")
	}
	return path
}

// ParseTaskSetFile opens path (after ExpandPath) and parses every task set
// in it. A ParseError on an unrecognised line stops parsing but returns
// everything parsed so far, alongside the error.
func ParseTaskSetFile(path string) ([]Setup, error) {
	f, err := os.Open(ExpandPath(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTaskSets(f)
}

// ParseTaskSets parses every task set from r. Each non-empty line is six
// whitespace-separated integers "C T D S P1 P2"; a blank line terminates one
// task set. Parsing of the current task set stops (returning what has been
// parsed) at the first line that does not match the six-integer format.
func ParseTaskSets(r io.Reader) ([]Setup, error) {
	scanner := bufio.NewScanner(r)
	var setups []Setup
	var cur []lineFields
	lineNo := 0

	flush := func() {
		if len(cur) == 0 {
			return
		}
		setups = append(setups, buildSetup(cur))
		cur = nil
	}

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		fields, ok := parseLine(trimmed)
		if !ok {
			flush()
			return setups, dpsimerr.NewParseError(lineNo, line)
		}
		cur = append(cur, fields)
	}
	if err := scanner.Err(); err != nil {
		return setups, err
	}
	flush()
	return setups, nil
}

type lineFields struct {
	wcet, period, deadline, promotion, p1, p2 int
}

func parseLine(line string) (lineFields, bool) {
	parts := strings.Fields(line)
	if len(parts) != 6 {
		return lineFields{}, false
	}
	vals := make([]int, 6)
	for i, p := range parts {
		n, err := parseSignedInt(p)
		if err != nil {
			return lineFields{}, false
		}
		vals[i] = n
	}
	if vals[1] != vals[2] {
		return lineFields{}, false // period must equal deadline
	}
	if vals[4] < vals[5] {
		return lineFields{}, false // P1 >= P2
	}
	return lineFields{
		wcet: vals[0], period: vals[1], deadline: vals[2],
		promotion: vals[3], p1: vals[4], p2: vals[5],
	}, true
}

func parseSignedInt(s string) (int, error) {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if s == "" {
		return 0, fmt.Errorf("empty integer")
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("not a digit: %q", c)
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n, nil
}

func buildSetup(fields []lineFields) Setup {
	policy := schedule.NewPolicy()
	tasks := make([]task.Task, 0, len(fields))
	for _, f := range fields {
		t := task.New(f.wcet, f.period, task.NewFixed(f.period), task.NewFixedCost(0))
		tasks = append(tasks, t)
		if f.p1 == f.p2 {
			policy.Set(t, schedule.SingleBand(f.p1))
		} else {
			policy.Set(t, schedule.DualBand(f.p1, f.promotion, f.p2))
		}
	}
	return Setup{TaskSet: task.NewSet(tasks...), Policy: policy}
}

// WriteTaskSets writes each Setup as a block of six-integer lines followed
// by a blank line, per the text format (the file always ends with a blank
// line after the final block).
func WriteTaskSets(w io.Writer, setups []Setup) error {
	bw := bufio.NewWriter(w)
	for _, s := range setups {
		for _, t := range s.TaskSet.Tasks {
			info, ok := s.Policy.Get(t)
			promotion, p1, p2 := t.Deadline, 0, 0
			if ok {
				p1 = info.LowPriority
				if info.Promotion != nil {
					promotion = *info.Promotion
					p2 = *info.HighPriority
				} else {
					p2 = info.LowPriority
				}
			}
			if _, err := fmt.Fprintf(bw, "%d %d %d %d %d %d\n",
				t.WCET, t.Deadline, t.Deadline, promotion, p1, p2); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SplitExt separates path into the directory it lives under and its final
// element.
func SplitExt(path string) (dir, base string) {
	return filepath.Dir(path), filepath.Base(path)
}
