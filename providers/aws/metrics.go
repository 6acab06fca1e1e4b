package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/rs/zerolog"

	"github.com/cloudherd/cloudherd/types"
)

const metricNamespace = "AWS/EC2"

// MetricValue is one aggregated statistic. Known is false when the query
// failed or returned no datapoints; that is a sentinel condition, not an
// error.
type MetricValue struct {
	Value float64
	Known bool
}

// Text renders the value rounded to two decimals, or the unavailable
// sentinel.
func (v MetricValue) Text() string {
	if !v.Known {
		return types.Unavailable
	}
	return fmt.Sprintf("%.2f", v.Value)
}

// WindowStats holds the three statistics for one trailing window. Each is
// evaluated independently; one can be unavailable while the others are not.
type WindowStats struct {
	Average MetricValue
	Maximum MetricValue
	Minimum MetricValue
}

// MetricAggregator queries one aggregated statistic per window. The query
// interval is exactly [now-windowDays, now] with a single period spanning
// the whole interval, so at most one datapoint comes back per statistic.
type MetricAggregator struct {
	client CloudWatchClient
	logger zerolog.Logger
	now    func() time.Time
}

// NewMetricAggregator builds an aggregator on the scoped config.
func NewMetricAggregator(cfg aws.Config, logger zerolog.Logger) *MetricAggregator {
	return &MetricAggregator{
		client: cloudwatch.NewFromConfig(cfg),
		logger: logger,
		now:    time.Now,
	}
}

// NewMetricAggregatorWithClient is NewMetricAggregator with an injected
// client, used by tests.
func NewMetricAggregatorWithClient(client CloudWatchClient, logger zerolog.Logger) *MetricAggregator {
	return &MetricAggregator{client: client, logger: logger, now: time.Now}
}

// Aggregate fetches one statistic for one instance over one trailing window.
// Missing datapoints and remote failures both yield Known=false.
func (a *MetricAggregator) Aggregate(ctx context.Context, instanceID, metricName string, windowDays int, stat cwtypes.Statistic) MetricValue {
	endTime := a.now().UTC()
	startTime := endTime.AddDate(0, 0, -windowDays)
	period := int32(endTime.Sub(startTime) / time.Second)

	out, err := a.client.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String(metricNamespace),
		MetricName: aws.String(metricName),
		Dimensions: []cwtypes.Dimension{
			{Name: aws.String("InstanceId"), Value: aws.String(instanceID)},
		},
		StartTime:  aws.Time(startTime),
		EndTime:    aws.Time(endTime),
		Period:     aws.Int32(period),
		Statistics: []cwtypes.Statistic{stat},
	})
	if err != nil {
		a.logger.Warn().
			Err(err).
			Str("instance_id", instanceID).
			Str("metric", metricName).
			Int("window_days", windowDays).
			Msg("metric query failed")
		return MetricValue{}
	}

	if len(out.Datapoints) == 0 {
		return MetricValue{}
	}

	// Period equals the full interval, so the first datapoint is the one.
	dp := out.Datapoints[0]
	switch stat {
	case cwtypes.StatisticAverage:
		return datapointValue(dp.Average)
	case cwtypes.StatisticMaximum:
		return datapointValue(dp.Maximum)
	case cwtypes.StatisticMinimum:
		return datapointValue(dp.Minimum)
	default:
		return MetricValue{}
	}
}

// CollectWindows evaluates average, maximum and minimum for each window
// independently. There is no caching: every call is a fresh query.
func (a *MetricAggregator) CollectWindows(ctx context.Context, instanceID, metricName string, windows []int) map[int]WindowStats {
	stats := make(map[int]WindowStats, len(windows))
	for _, days := range windows {
		stats[days] = WindowStats{
			Average: a.Aggregate(ctx, instanceID, metricName, days, cwtypes.StatisticAverage),
			Maximum: a.Aggregate(ctx, instanceID, metricName, days, cwtypes.StatisticMaximum),
			Minimum: a.Aggregate(ctx, instanceID, metricName, days, cwtypes.StatisticMinimum),
		}
	}
	return stats
}

func datapointValue(v *float64) MetricValue {
	if v == nil {
		return MetricValue{}
	}
	return MetricValue{Value: *v, Known: true}
}
