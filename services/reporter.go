package services

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"refund-evaluator/models"
	"refund-evaluator/utils"
)

// DisplayLayout is how timestamps are shown to people reading the report.
const DisplayLayout = "02/01/2006 15:04"

type Reporter struct {
	logger *utils.Logger
	out    io.Writer
}

func NewReporter(logger *utils.Logger) *Reporter {
	return &Reporter{logger: logger, out: os.Stdout}
}

// Summarize aggregates a batch result.
func (r *Reporter) Summarize(res *models.BatchResult) *models.Summary {
	s := &models.Summary{
		BySource:   make(map[models.Source]int),
		ByLocation: make(map[models.Location]int),
	}
	if res == nil {
		return s
	}

	s.Failed = len(res.Failures)
	s.TotalRecords = len(res.Evaluations) + s.Failed

	for _, e := range res.Evaluations {
		if e.IsEligible {
			s.Valid++
		} else {
			s.Invalid++
		}
		s.BySource[e.Source]++
		s.ByLocation[e.Location]++
		if s.LongestElapsed == nil || e.ElapsedHours > s.LongestElapsed.ElapsedHours {
			s.LongestElapsed = e
		}
	}

	return s
}

// Print renders the evaluation table and summary to the terminal.
func (r *Reporter) Print(res *models.BatchResult, s *models.Summary) {
	sep := strings.Repeat("═", 96)
	thin := strings.Repeat("─", 96)
	w := r.out

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  REFUND REQUEST EVALUATION\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "  \033[1m%-20s %-7s %-8s %-11s %-17s %-17s %7s %6s  %s\033[0m\n",
		"Name", "Loc", "Source", "Signup", "Investment", "Refund", "Elapsed", "Window", "Verdict")
	fmt.Fprintf(w, "  %s\n", thin)

	if res == nil || len(res.Evaluations) == 0 {
		fmt.Fprintf(w, "  No evaluations\n")
	} else {
		for _, e := range res.Evaluations {
			color := "\033[32m"
			if !e.IsEligible {
				color = "\033[31m"
			}
			fmt.Fprintf(w, "  %s%-20s %-7s %-8s %-11s %-17s %-17s %6.2fh %5dh  %s\033[0m\n",
				color,
				truncate(e.Name, 20),
				e.Location,
				e.Source,
				e.SignupAt.Format("02/01/2006"),
				e.InvestedAt.Format(DisplayLayout),
				e.RefundedAt.Format(DisplayLayout),
				e.ElapsedHours,
				e.RefundWindowHours,
				e.Verdict())
		}
	}
	fmt.Fprintln(w)

	if res != nil && len(res.Failures) > 0 {
		fmt.Fprintf(w, "\033[1;33m  Rejected Records\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		for _, f := range res.Failures {
			fmt.Fprintf(w, "  \033[31m#%-3d %-20s %-16s %v\033[0m\n", f.Index, truncate(f.Name, 20), f.Field, f.Err)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total records : \033[1m%d\033[0m\n", s.TotalRecords)
	fmt.Fprintf(w, "  Valid         : \033[1;32m%d\033[0m\n", s.Valid)
	fmt.Fprintf(w, "  Invalid       : \033[1;31m%d\033[0m\n", s.Invalid)
	fmt.Fprintf(w, "  Rejected      : \033[1;33m%d\033[0m\n", s.Failed)
	if s.LongestElapsed != nil {
		fmt.Fprintf(w, "  Longest wait  : %s (%.2fh)\n", s.LongestElapsed.Name, s.LongestElapsed.ElapsedHours)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  By Source\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, k := range sortedKeys(s.BySource) {
		fmt.Fprintf(w, "  %-10s %s (%d)\n", k, strings.Repeat("█", s.BySource[k]), s.BySource[k])
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  By Location\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, k := range sortedKeys(s.ByLocation) {
		fmt.Fprintf(w, "  %-10s %s (%d)\n", k, strings.Repeat("█", s.ByLocation[k]), s.ByLocation[k])
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func sortedKeys[K ~string](m map[K]int) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// truncate shortens s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
