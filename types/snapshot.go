package types

import (
	"encoding/json"
	"strconv"
)

// ComputeResourceSnapshot is the enriched record for one compute instance at
// one point of observation. Field values are carried as text because the
// store diffs and persists them as text columns; numeric derivations
// (aging, metric statistics) are formatted before they land here.
type ComputeResourceSnapshot struct {
	InstanceID string
	AccountID  string
	Region     string
	Provider   string

	InstanceType string
	InstanceName string
	State        string
	StateCode    string

	CreationTime         string
	LaunchTime           string
	LastTransitionDate   string
	LastTransitionReason TransitionReason
	AgingDays            int

	AvailabilityZone             string
	MACAddress                   string
	NetworkInterfaceID           string
	NetworkInterfaceAttachmentID string
	NetworkAttachTime            string
	PrivateIPAddress             string
	PublicIPAddress              string
	PrivateDNSName               string
	PublicDNSName                string

	UsageOperation string
	Platform       string
	Architecture   string
	SubnetID       string
	VpcID          string
	ImageID        string
	SecurityGroups string
	Tags           map[string]string

	RootDeviceType  string
	EBSOptimized    string
	MonitoringState string

	VolumeID                  string
	VolumeType                string
	VolumeSize                string
	VolumeIOPS                string
	VolumeInstanceName        string
	VolumeDevice              string
	VolumeStatus              string
	VolumeEncrypted           string
	VolumeAttachTime          string
	VolumeDeleteOnTermination string

	ThirtyDaysAvg string
	ThirtyDaysMax string
	ThirtyDaysMin string
	SixtyDaysAvg  string
	SixtyDaysMax  string
	SixtyDaysMin  string
}

// Columns maps the snapshot onto its persisted column set. The store treats
// its schema as the authority: columns absent from the schema are dropped.
func (s ComputeResourceSnapshot) Columns() map[string]string {
	return map[string]string{
		"instance_id":                     s.InstanceID,
		"account_id":                      s.AccountID,
		"region":                          s.Region,
		"provider":                        s.Provider,
		"instance_type":                   s.InstanceType,
		"instance_name":                   s.InstanceName,
		"state":                           s.State,
		"state_code":                      s.StateCode,
		"creation_time":                   s.CreationTime,
		"launch_time":                     s.LaunchTime,
		"last_transition_date":            s.LastTransitionDate,
		"last_transition_reason":          string(s.LastTransitionReason),
		"aging_days":                      strconv.Itoa(s.AgingDays),
		"availability_zone":               s.AvailabilityZone,
		"mac_address":                     s.MACAddress,
		"network_interface_id":            s.NetworkInterfaceID,
		"network_interface_attachment_id": s.NetworkInterfaceAttachmentID,
		"network_attach_time":             s.NetworkAttachTime,
		"private_ip_address":              s.PrivateIPAddress,
		"public_ip_address":               s.PublicIPAddress,
		"private_dns_name":                s.PrivateDNSName,
		"public_dns_name":                 s.PublicDNSName,
		"usage_operation":                 s.UsageOperation,
		"platform":                        s.Platform,
		"architecture":                    s.Architecture,
		"subnet_id":                       s.SubnetID,
		"vpc_id":                          s.VpcID,
		"image_id":                        s.ImageID,
		"security_groups":                 s.SecurityGroups,
		"tag_properties":                  TagJSON(s.Tags),
		"root_device_type":                s.RootDeviceType,
		"ebs_optimized":                   s.EBSOptimized,
		"monitoring_state":                s.MonitoringState,
		"volume_id":                       s.VolumeID,
		"volume_type":                     s.VolumeType,
		"volume_size":                     s.VolumeSize,
		"volume_iops":                     s.VolumeIOPS,
		"volume_instance_name":            s.VolumeInstanceName,
		"volume_device":                   s.VolumeDevice,
		"volume_status":                   s.VolumeStatus,
		"volume_encrypted":                s.VolumeEncrypted,
		"volume_attach_time":              s.VolumeAttachTime,
		"volume_delete_on_termination":    s.VolumeDeleteOnTermination,
		"thirty_days_avg":                 s.ThirtyDaysAvg,
		"thirty_days_max":                 s.ThirtyDaysMax,
		"thirty_days_min":                 s.ThirtyDaysMin,
		"sixty_days_avg":                  s.SixtyDaysAvg,
		"sixty_days_max":                  s.SixtyDaysMax,
		"sixty_days_min":                  s.SixtyDaysMin,
	}
}

// TagJSON renders a tag map as deterministic JSON text. encoding/json sorts
// map keys, so identical tag sets always produce identical column values
// regardless of insertion order.
func TagJSON(tags map[string]string) string {
	if len(tags) == 0 {
		return "{}"
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "{}"
	}
	return string(b)
}
