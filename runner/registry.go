package runner

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// Collector gathers one service's resources for one account in one region.
type Collector interface {
	Name() string
	Collect(ctx context.Context) (int, error)
}

// Factory builds a collector bound to an assumed-role config. The signature
// is uniform across services; collectors that have no use for the region or
// account arguments ignore them.
type Factory func(cfg aws.Config, region, accountID string) Collector

// Registry maps service names to collector factories. Service names are the
// user-facing identifiers from configuration, e.g. "ec2".
type Registry map[string]Factory

// Services returns the registered service names, sorted.
func (r Registry) Services() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unknown returns the requested names that have no registered factory,
// sorted. Callers surface these before any account is processed; the names
// are then skipped per account rather than failing the run.
func (r Registry) Unknown(requested []string) []string {
	var unknown []string
	for _, name := range requested {
		if _, ok := r[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}
