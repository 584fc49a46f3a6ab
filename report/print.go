package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/logrusorgru/aurora"
)

// Print writes the summary of r followed by the Q-values of at most limit
// states, the best action of every state highlighted. A negative limit
// prints every state.
func Print(w io.Writer, r *Report, limit int) {
	fmt.Fprintf(w, "%s %s\n", aurora.Bold(r.Algorithm), aurora.Faint(r.RunID))
	fmt.Fprintf(w, "exploration %s, %d states, %d iterations, %d backups, final delta %.6f, took %s\n",
		r.Exploration, r.States, r.Summary.Iterations, r.Summary.Backups, r.Summary.FinalDelta, r.Duration)

	ids := make([]int64, 0, len(r.QValues))
	for key := range r.QValues {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for i, id := range ids {
		if limit >= 0 && i >= limit {
			fmt.Fprintf(w, "... %d more states\n", len(ids)-limit)
			break
		}
		PrintQValues(w, strconv.FormatInt(id, 10), r.QValues[strconv.FormatInt(id, 10)])
	}
}

// PrintQValues writes one line per action of state, sorted by action, the
// best action in green
func PrintQValues(w io.Writer, state string, q map[string]float64) {
	actions := make([]string, 0, len(q))
	best := ""
	for a, v := range q {
		actions = append(actions, a)
		if best == "" || v > q[best] || (v == q[best] && a < best) {
			best = a
		}
	}
	sort.Strings(actions)

	fmt.Fprintf(w, "%s\n", aurora.Cyan(fmt.Sprintf("state %s", state)))
	for _, a := range actions {
		line := fmt.Sprintf("  %-24s %10.4f", a, q[a])
		if a == best {
			fmt.Fprintln(w, aurora.Green(line))
		} else {
			fmt.Fprintln(w, line)
		}
	}
}
