package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/rs/zerolog"

	"github.com/cloudherd/cloudherd/types"
)

// VolumeTopologyResolver resolves a volume's attachment state and, when
// attached, the descriptive fields of the instance on the other end.
// It never returns an error: remote failures yield the Error sentinel
// record and detached volumes yield the Detached one.
type VolumeTopologyResolver struct {
	client EC2Client
	logger zerolog.Logger
}

// NewVolumeTopologyResolver builds a resolver on the scoped EC2 client.
func NewVolumeTopologyResolver(client EC2Client, logger zerolog.Logger) *VolumeTopologyResolver {
	return &VolumeTopologyResolver{client: client, logger: logger}
}

// Resolve looks up one volume and its attached instance.
func (r *VolumeTopologyResolver) Resolve(ctx context.Context, volumeID string) types.VolumeAttachmentInfo {
	out, err := r.client.DescribeVolumes(ctx, &ec2.DescribeVolumesInput{
		VolumeIds: []string{volumeID},
	})
	if err != nil || len(out.Volumes) == 0 {
		r.logger.Warn().Err(err).Str("volume_id", volumeID).Msg("volume lookup failed")
		return types.ErrorVolumeInfo(volumeID)
	}

	vol := out.Volumes[0]
	info := types.VolumeAttachmentInfo{
		VolumeID:  aws.ToString(vol.VolumeId),
		State:     string(vol.State),
		Type:      string(vol.VolumeType),
		Size:      aws.ToInt32(vol.Size),
		IOPS:      aws.ToInt32(vol.Iops),
		Encrypted: boolText(aws.ToBool(vol.Encrypted)),
	}

	if len(vol.Attachments) == 0 {
		info.Device = types.Detached
		info.AttachmentState = types.Detached
		info.InstanceID = types.Detached
		info.InstanceType = types.Detached
		info.InstanceName = types.Detached
		info.InstanceState = types.Detached
		info.PrivateIP = types.Detached
		return info
	}

	att := vol.Attachments[0]
	info.Device = aws.ToString(att.Device)
	info.AttachmentState = string(att.State)
	info.InstanceID = aws.ToString(att.InstanceId)

	inst, ok := r.lookupInstance(ctx, info.InstanceID)
	if !ok {
		return types.ErrorVolumeInfo(volumeID)
	}

	info.InstanceType = string(inst.InstanceType)
	info.InstanceName = nameTag(convertTags(inst.Tags))
	if inst.State != nil {
		info.InstanceState = string(inst.State.Name)
	}
	info.PrivateIP = aws.ToString(inst.PrivateIpAddress)
	info.IsRootStorage = inst.RootDeviceType == ec2types.DeviceTypeEbs
	return info
}

func (r *VolumeTopologyResolver) lookupInstance(ctx context.Context, instanceID string) (ec2types.Instance, bool) {
	out, err := r.client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		r.logger.Warn().Err(err).Str("instance_id", instanceID).Msg("attached instance lookup failed")
		return ec2types.Instance{}, false
	}
	for _, res := range out.Reservations {
		if len(res.Instances) > 0 {
			return res.Instances[0], true
		}
	}
	return ec2types.Instance{}, false
}
