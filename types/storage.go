package types

// BucketSnapshot is the persisted record for one object-storage bucket.
type BucketSnapshot struct {
	BucketName       string
	AccountID        string
	Region           string
	Provider         string
	CreationDate     string
	VersioningStatus string
	Tags             map[string]string
}

// Columns maps the bucket snapshot onto its persisted column set.
func (b BucketSnapshot) Columns() map[string]string {
	return map[string]string{
		"bucket_name":       b.BucketName,
		"account_id":        b.AccountID,
		"region":            b.Region,
		"provider":          b.Provider,
		"creation_date":     b.CreationDate,
		"versioning_status": b.VersioningStatus,
		"tag_properties":    TagJSON(b.Tags),
	}
}

// FunctionSnapshot is the persisted record for one serverless function.
type FunctionSnapshot struct {
	FunctionName   string
	AccountID      string
	Region         string
	Provider       string
	Runtime        string
	MemoryMB       int
	TimeoutSeconds int
	State          string
	LastModified   string
}

// Columns maps the function snapshot onto its persisted column set.
func (f FunctionSnapshot) Columns() map[string]string {
	return map[string]string{
		"function_name":   f.FunctionName,
		"account_id":      f.AccountID,
		"region":          f.Region,
		"provider":        f.Provider,
		"runtime":         f.Runtime,
		"memory_mb":       itoa(f.MemoryMB),
		"timeout_seconds": itoa(f.TimeoutSeconds),
		"state":           f.State,
		"last_modified":   f.LastModified,
	}
}
