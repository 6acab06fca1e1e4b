package types

// Sentinel values stand in for legitimately absent or failed computations.
// They are distinct from empty fields: a consumer can tell "we could not
// compute this" apart from "this was never set".
const (
	// Unavailable marks a value the pipeline could not derive for this run.
	Unavailable = "unavailable"

	// Detached marks instance-side volume fields when the volume has no
	// attachment. Distinct from Error.
	Detached = "Detached"

	// ErrorMarker marks every field of a volume lookup that failed remotely.
	ErrorMarker = "Error"

	// UnknownTimestamp marks a transition date that could not be parsed
	// from the state transition description.
	UnknownTimestamp = "unknown"

	// UnknownName is used when an instance carries no Name tag.
	UnknownName = "Unknown"
)

// TransitionReason classifies why an instance left its previous state.
type TransitionReason string

const (
	TransitionManual  TransitionReason = "Manual"
	TransitionSystem  TransitionReason = "System"
	TransitionUnknown TransitionReason = "Unknown"
)
