package runner

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Result aggregates one run over one region: per-account per-service
// resource counts, plus the accounts that never got past role assumption.
type Result struct {
	Region   string
	Accounts map[string]map[string]int
	Failed   []string
}

// TotalResources sums every count in the result.
func (r Result) TotalResources() int {
	total := 0
	for _, services := range r.Accounts {
		for _, n := range services {
			total += n
		}
	}
	return total
}

// Summary writes a human-readable report. Accounts and services print in
// sorted order so the output is stable across runs.
func (r Result) Summary(w io.Writer) {
	fmt.Fprintf(w, "Result for region: %s\n", r.Region)

	accountIDs := make([]string, 0, len(r.Accounts))
	for id := range r.Accounts {
		accountIDs = append(accountIDs, id)
	}
	sort.Strings(accountIDs)

	for _, id := range accountIDs {
		fmt.Fprintf(w, "  Account ID: %s\n", id)

		services := make([]string, 0, len(r.Accounts[id]))
		for svc := range r.Accounts[id] {
			services = append(services, svc)
		}
		sort.Strings(services)

		for _, svc := range services {
			fmt.Fprintf(w, "    %s: %d\n", svc, r.Accounts[id][svc])
		}
	}

	if len(r.Failed) > 0 {
		fmt.Fprintf(w, "  Failed accounts: %s\n", strings.Join(r.Failed, ", "))
	}
}
