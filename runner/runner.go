package runner

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cloudherd/cloudherd/telemetry"
	"github.com/cloudherd/cloudherd/types"
)

// Account lifecycle states, logged as each account moves through the run.
const (
	statePending     = "PENDING"
	stateRoleAssumed = "ROLE_ASSUMED"
	stateServiceRuns = "SERVICE_RUNS"
	stateRoleFailed  = "ROLE_FAILED"
	stateDone        = "DONE"
)

// Broker exchanges the base identity for a per-account session.
type Broker interface {
	Assume(ctx context.Context, accountID, roleName string) (aws.Config, error)
}

// AccountWriter persists the account records themselves.
type AccountWriter interface {
	UpsertAccount(ctx context.Context, account types.Account) (bool, error)
}

// Options scopes one collection run.
type Options struct {
	Region             string
	RoleName           string
	Services           []string
	AccountConcurrency int
	AccountTimeout     time.Duration
}

// Runner fans a collection run out over accounts. Accounts fail
// independently: a denied role or a dead account never aborts the batch,
// it lands in Result.Failed instead.
type Runner struct {
	broker   Broker
	registry Registry
	accounts AccountWriter
	metrics  *telemetry.CollectionMetrics
	opts     Options
	logger   zerolog.Logger
}

// New builds a runner. accounts and metrics may be nil.
func New(broker Broker, registry Registry, accounts AccountWriter, metrics *telemetry.CollectionMetrics, opts Options, logger zerolog.Logger) *Runner {
	if opts.AccountConcurrency < 1 {
		opts.AccountConcurrency = 1
	}
	return &Runner{
		broker:   broker,
		registry: registry,
		accounts: accounts,
		metrics:  metrics,
		opts:     opts,
		logger:   logger,
	}
}

// Run processes every account with bounded concurrency and returns the
// aggregated result. Unknown requested services are surfaced once up front,
// then skipped per account.
func (r *Runner) Run(ctx context.Context, accounts []types.Account) Result {
	start := time.Now()

	if unknown := r.registry.Unknown(r.opts.Services); len(unknown) > 0 {
		r.logger.Warn().
			Strs("services", unknown).
			Msg("requested services have no registered collector and will be skipped")
	}

	res := Result{
		Region:   r.opts.Region,
		Accounts: make(map[string]map[string]int, len(accounts)),
	}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(r.opts.AccountConcurrency)
	for _, account := range accounts {
		account := account
		g.Go(func() error {
			counts, ok := r.runAccount(ctx, account)

			mu.Lock()
			defer mu.Unlock()
			if !ok {
				res.Failed = append(res.Failed, account.AccountID)
				return nil
			}
			res.Accounts[account.AccountID] = counts
			return nil
		})
	}
	// Account goroutines never return errors; failures are recorded per
	// account above.
	_ = g.Wait()

	sort.Strings(res.Failed)

	if r.metrics != nil {
		r.metrics.RunsTotal.Inc()
		r.metrics.RunDuration.Observe(time.Since(start).Seconds())
	}
	r.logger.Info().
		Str("region", r.opts.Region).
		Int("accounts", len(res.Accounts)).
		Int("failed", len(res.Failed)).
		Int("resources", res.TotalResources()).
		Dur("elapsed", time.Since(start)).
		Msg("collection run complete")
	return res
}

// runAccount walks one account through its lifecycle. The bool reports
// whether the account made it past role assumption.
func (r *Runner) runAccount(ctx context.Context, account types.Account) (map[string]int, bool) {
	logger := r.logger.With().
		Str("account_id", account.AccountID).
		Str("region", r.opts.Region).
		Logger()
	logger.Debug().Str("state", statePending).Msg("account queued")

	if r.opts.AccountTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.AccountTimeout)
		defer cancel()
	}

	if r.accounts != nil {
		if _, err := r.accounts.UpsertAccount(ctx, account); err != nil {
			logger.Error().Err(err).Msg("failed to persist account record")
		}
	}

	cfg, err := r.broker.Assume(ctx, account.AccountID, r.opts.RoleName)
	if err != nil {
		logger.Error().Err(err).Str("state", stateRoleFailed).Msg("skipping account")
		if r.metrics != nil {
			r.metrics.AccountFailures.WithLabelValues(account.AccountID).Inc()
		}
		return nil, false
	}
	logger.Debug().Str("state", stateRoleAssumed).Msg("assumed collection role")

	counts := make(map[string]int, len(r.opts.Services))
	for _, svc := range r.opts.Services {
		factory, ok := r.registry[svc]
		if !ok {
			logger.Warn().Str("service", svc).Msg("service not registered, skipping")
			continue
		}
		logger.Debug().Str("state", stateServiceRuns).Str("service", svc).Msg("collecting service")

		n, err := factory(cfg, r.opts.Region, account.AccountID).Collect(ctx)
		if err != nil {
			// Only cancellation surfaces here; enumeration failures are
			// absorbed inside the collector. Record what was persisted.
			logger.Error().Err(err).Str("service", svc).Msg("collection aborted")
		}
		counts[svc] = n
		if r.metrics != nil {
			r.metrics.ResourcesCollected.WithLabelValues(account.AccountID, svc).Add(float64(n))
		}
	}

	logger.Info().Str("state", stateDone).Msg("account complete")
	return counts, true
}
