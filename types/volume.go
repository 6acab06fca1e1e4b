package types

// VolumeAttachmentInfo is the resolved topology for one storage volume.
// It is produced per lookup, consumed by enrichment, and discarded; it is
// never persisted on its own.
//
// Two sentinel shapes exist: a Detached record (volume exists but has no
// attachment, instance-side fields = Detached) and an Error record (the
// remote lookup failed, every text field = Error). Callers must treat both
// as valid-shaped records.
type VolumeAttachmentInfo struct {
	VolumeID        string
	State           string
	Type            string
	Size            int32
	Device          string
	AttachmentState string
	IOPS            int32
	Encrypted       string

	InstanceID    string
	InstanceType  string
	InstanceName  string
	InstanceState string
	PrivateIP     string
	IsRootStorage bool
}

// ErrorVolumeInfo builds the fully-populated error sentinel record for a
// failed volume lookup.
func ErrorVolumeInfo(volumeID string) VolumeAttachmentInfo {
	return VolumeAttachmentInfo{
		VolumeID:        volumeID,
		State:           ErrorMarker,
		Type:            ErrorMarker,
		Device:          ErrorMarker,
		AttachmentState: ErrorMarker,
		Encrypted:       ErrorMarker,
		InstanceID:      ErrorMarker,
		InstanceType:    ErrorMarker,
		InstanceName:    ErrorMarker,
		InstanceState:   ErrorMarker,
		PrivateIP:       ErrorMarker,
	}
}

// IsError reports whether this record is the error sentinel.
func (v VolumeAttachmentInfo) IsError() bool {
	return v.State == ErrorMarker && v.InstanceID == ErrorMarker
}

// IsDetached reports whether the volume had no attachment at lookup time.
func (v VolumeAttachmentInfo) IsDetached() bool {
	return v.InstanceID == Detached
}
