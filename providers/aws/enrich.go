package aws

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/rs/zerolog"

	"github.com/cloudherd/cloudherd/types"
)

// transitionTimestampLayout matches the parenthesized date inside an EC2
// state transition description, e.g.
// "User initiated (2024-03-01 21:15:09 GMT)".
const transitionTimestampLayout = "2006-01-02 15:04:05 MST"

var parenthesized = regexp.MustCompile(`\(([^)]*)\)`)

// EnrichmentOptions tunes the metric side of enrichment.
type EnrichmentOptions struct {
	MetricName    string
	MetricWindows []int
}

// ResourceEnricher turns a raw instance record into a normalized snapshot.
// The transformation is pure apart from two external calls: metric
// aggregation and volume topology resolution. Enrichment always completes
// for a resource; failed lookups flow in as sentinel values.
type ResourceEnricher struct {
	metrics   *MetricAggregator
	volumes   *VolumeTopologyResolver
	region    string
	accountID string
	opts      EnrichmentOptions
	logger    zerolog.Logger
	now       func() time.Time
}

// NewResourceEnricher wires the enricher to its two collaborators.
func NewResourceEnricher(metrics *MetricAggregator, volumes *VolumeTopologyResolver, region, accountID string, opts EnrichmentOptions, logger zerolog.Logger) *ResourceEnricher {
	return &ResourceEnricher{
		metrics:   metrics,
		volumes:   volumes,
		region:    region,
		accountID: accountID,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// Enrich produces the snapshot for one instance.
func (e *ResourceEnricher) Enrich(ctx context.Context, inst ec2types.Instance) types.ComputeResourceSnapshot {
	snap := types.ComputeResourceSnapshot{
		InstanceID:   aws.ToString(inst.InstanceId),
		AccountID:    e.accountID,
		Region:       e.region,
		Provider:     "aws",
		InstanceType: string(inst.InstanceType),

		UsageOperation: aws.ToString(inst.UsageOperation),
		Platform:       aws.ToString(inst.PlatformDetails),
		Architecture:   string(inst.Architecture),
		SubnetID:       aws.ToString(inst.SubnetId),
		VpcID:          aws.ToString(inst.VpcId),
		ImageID:        aws.ToString(inst.ImageId),

		PrivateIPAddress: aws.ToString(inst.PrivateIpAddress),
		PublicIPAddress:  aws.ToString(inst.PublicIpAddress),
		PrivateDNSName:   aws.ToString(inst.PrivateDnsName),
		PublicDNSName:    aws.ToString(inst.PublicDnsName),

		RootDeviceType: string(inst.RootDeviceType),
		EBSOptimized:   boolText(aws.ToBool(inst.EbsOptimized)),
	}

	snap.Tags = convertTags(inst.Tags)
	snap.InstanceName = nameTag(snap.Tags)
	snap.SecurityGroups = securityGroupNames(inst.SecurityGroups)

	if inst.State != nil {
		snap.State = string(inst.State.Name)
		snap.StateCode = strconv.Itoa(int(aws.ToInt32(inst.State.Code)))
	}
	if inst.Placement != nil {
		snap.AvailabilityZone = aws.ToString(inst.Placement.AvailabilityZone)
	}
	if inst.Monitoring != nil {
		snap.MonitoringState = string(inst.Monitoring.State)
	}

	desc := aws.ToString(inst.StateTransitionReason)
	snap.LastTransitionReason = classifyTransitionReason(desc)
	snap.LastTransitionDate = parseTransitionTimestamp(desc)

	attachTime := e.applyNetworkInterface(&snap, inst)
	e.applyCreationAndAging(&snap, inst.LaunchTime, attachTime)
	e.applyStorage(ctx, &snap, inst.BlockDeviceMappings)
	e.applyMetrics(ctx, &snap)

	return snap
}

// applyNetworkInterface fills the network identity fields from the first
// interface and returns its attach time, if any.
func (e *ResourceEnricher) applyNetworkInterface(snap *types.ComputeResourceSnapshot, inst ec2types.Instance) *time.Time {
	if len(inst.NetworkInterfaces) == 0 {
		return nil
	}

	ni := inst.NetworkInterfaces[0]
	snap.MACAddress = aws.ToString(ni.MacAddress)
	snap.NetworkInterfaceID = aws.ToString(ni.NetworkInterfaceId)

	if ni.Attachment == nil {
		return nil
	}
	snap.NetworkInterfaceAttachmentID = aws.ToString(ni.Attachment.AttachmentId)
	snap.NetworkAttachTime = formatTime(ni.Attachment.AttachTime)
	return ni.Attachment.AttachTime
}

// applyCreationAndAging derives creation_time and aging_days. The two rules
// are deliberately asymmetric: creation_time is only the attach time when
// it precedes launch, while aging always runs from the earlier of the two.
func (e *ResourceEnricher) applyCreationAndAging(snap *types.ComputeResourceSnapshot, launchTime, attachTime *time.Time) {
	snap.CreationTime = types.Unavailable
	snap.LaunchTime = formatTime(launchTime)

	if launchTime == nil {
		snap.AgingDays = 0
		return
	}

	base := *launchTime
	if attachTime != nil && attachTime.Before(base) {
		snap.CreationTime = formatTime(attachTime)
		base = *attachTime
	}

	age := int(e.now().UTC().Sub(base).Hours() / 24)
	if age < 0 {
		age = 0
	}
	snap.AgingDays = age
}

// applyStorage runs the volume reduction over the EBS block device
// mappings, preserving enumeration order throughout.
func (e *ResourceEnricher) applyStorage(ctx context.Context, snap *types.ComputeResourceSnapshot, mappings []ec2types.InstanceBlockDeviceMapping) {
	ebsMappings := make([]ec2types.InstanceBlockDeviceMapping, 0, len(mappings))
	for _, m := range mappings {
		if m.Ebs != nil && m.Ebs.VolumeId != nil {
			ebsMappings = append(ebsMappings, m)
		}
	}

	switch len(ebsMappings) {
	case 0:
		snap.VolumeID = types.Unavailable
		snap.VolumeType = types.Unavailable
		snap.VolumeSize = types.Unavailable
		snap.VolumeIOPS = types.Unavailable
		snap.VolumeInstanceName = types.Unavailable
		snap.VolumeDevice = types.Unavailable
		snap.VolumeStatus = types.Unavailable
		snap.VolumeEncrypted = types.Unavailable
		snap.VolumeAttachTime = types.Unavailable
		snap.VolumeDeleteOnTermination = types.Unavailable
	case 1:
		ebs := ebsMappings[0].Ebs
		info := e.volumes.Resolve(ctx, aws.ToString(ebs.VolumeId))
		snap.VolumeID = info.VolumeID
		snap.VolumeType = info.Type
		if info.IsError() {
			// The numeric fields cannot carry the marker themselves; a
			// failed lookup must not read as a zero-size volume.
			snap.VolumeSize = types.ErrorMarker
			snap.VolumeIOPS = types.ErrorMarker
		} else {
			snap.VolumeSize = strconv.Itoa(int(info.Size))
			snap.VolumeIOPS = strconv.Itoa(int(info.IOPS))
		}
		snap.VolumeInstanceName = info.InstanceName
		snap.VolumeDevice = info.Device
		snap.VolumeStatus = info.State
		snap.VolumeEncrypted = info.Encrypted
		snap.VolumeAttachTime = formatTime(ebs.AttachTime)
		snap.VolumeDeleteOnTermination = boolText(aws.ToBool(ebs.DeleteOnTermination))
	default:
		infos := make([]types.VolumeAttachmentInfo, 0, len(ebsMappings))
		for _, m := range ebsMappings {
			infos = append(infos, e.volumes.Resolve(ctx, aws.ToString(m.Ebs.VolumeId)))
		}

		var totalSize int32
		devices := make([]string, 0, len(infos))
		instanceIDs := make([]string, 0, len(infos))
		for _, info := range infos {
			totalSize += info.Size
			devices = append(devices, info.Device)
			instanceIDs = append(instanceIDs, info.InstanceID)
		}

		first := infos[0]
		snap.VolumeSize = strconv.Itoa(int(totalSize))
		snap.VolumeType = first.Type
		snap.VolumeIOPS = strconv.Itoa(int(first.IOPS))
		snap.VolumeInstanceName = first.InstanceName
		snap.VolumeDevice = strings.Join(devices, ",")
		// Historical column behavior: with multiple volumes the volume_id
		// column carries the resolver's attached-instance ids, comma-joined
		// in enumeration order. Consumers depend on it; do not "fix".
		snap.VolumeID = strings.Join(instanceIDs, ",")
		snap.VolumeStatus = first.State
		snap.VolumeEncrypted = first.Encrypted
		snap.VolumeAttachTime = formatTime(ebsMappings[0].Ebs.AttachTime)
		snap.VolumeDeleteOnTermination = boolText(aws.ToBool(ebsMappings[0].Ebs.DeleteOnTermination))
	}
}

func (e *ResourceEnricher) applyMetrics(ctx context.Context, snap *types.ComputeResourceSnapshot) {
	stats := e.metrics.CollectWindows(ctx, snap.InstanceID, e.opts.MetricName, e.opts.MetricWindows)

	thirty := stats[30]
	snap.ThirtyDaysAvg = thirty.Average.Text()
	snap.ThirtyDaysMax = thirty.Maximum.Text()
	snap.ThirtyDaysMin = thirty.Minimum.Text()

	sixty := stats[60]
	snap.SixtyDaysAvg = sixty.Average.Text()
	snap.SixtyDaysMax = sixty.Maximum.Text()
	snap.SixtyDaysMin = sixty.Minimum.Text()
}

// classifyTransitionReason buckets a state transition description.
func classifyTransitionReason(desc string) types.TransitionReason {
	switch {
	case strings.Contains(desc, "User initiated"):
		return types.TransitionManual
	case strings.Contains(desc, "Server.SpotInstanceTermination"),
		strings.Contains(desc, "Instance retirement scheduled"):
		return types.TransitionSystem
	default:
		return types.TransitionUnknown
	}
}

// parseTransitionTimestamp extracts the parenthesized timestamp from a
// transition description. No parenthesized substring, or one that is not a
// timestamp, yields the unknown sentinel.
func parseTransitionTimestamp(desc string) string {
	m := parenthesized.FindStringSubmatch(desc)
	if m == nil {
		return types.UnknownTimestamp
	}
	if _, err := time.Parse(transitionTimestampLayout, m[1]); err != nil {
		return types.UnknownTimestamp
	}
	return m[1]
}

// securityGroupNames joins group names in enumeration order.
func securityGroupNames(groups []ec2types.GroupIdentifier) string {
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, aws.ToString(g.GroupName))
	}
	return strings.Join(names, ",")
}

// formatTime renders a timestamp in UTC, or the unavailable sentinel.
func formatTime(t *time.Time) string {
	if t == nil {
		return types.Unavailable
	}
	return t.UTC().Format(time.RFC3339)
}
