package storage

// The schema is the authority on what gets persisted: record columns absent
// here are dropped, and every value is text. Numeric derivations arrive
// pre-formatted, which keeps the change diff a plain string comparison.

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		account_id   TEXT PRIMARY KEY,
		account_name TEXT,
		email        TEXT,
		org_unit     TEXT,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS compute_resources (
		instance_id                     TEXT PRIMARY KEY,
		account_id                      TEXT,
		region                          TEXT,
		provider                        TEXT DEFAULT 'aws',
		instance_type                   TEXT,
		instance_name                   TEXT,
		state                           TEXT,
		state_code                      TEXT,
		creation_time                   TEXT,
		launch_time                     TEXT,
		last_transition_date            TEXT,
		last_transition_reason          TEXT,
		aging_days                      TEXT,
		availability_zone               TEXT,
		mac_address                     TEXT,
		network_interface_id            TEXT,
		network_interface_attachment_id TEXT,
		network_attach_time             TEXT,
		private_ip_address              TEXT,
		public_ip_address               TEXT,
		private_dns_name                TEXT,
		public_dns_name                 TEXT,
		usage_operation                 TEXT,
		platform                        TEXT,
		architecture                    TEXT,
		subnet_id                       TEXT,
		vpc_id                          TEXT,
		image_id                        TEXT,
		security_groups                 TEXT,
		tag_properties                  TEXT,
		root_device_type                TEXT,
		ebs_optimized                   TEXT,
		monitoring_state                TEXT,
		volume_id                       TEXT,
		volume_type                     TEXT,
		volume_size                     TEXT,
		volume_iops                     TEXT,
		volume_instance_name            TEXT,
		volume_device                   TEXT,
		volume_status                   TEXT,
		volume_encrypted                TEXT,
		volume_attach_time              TEXT,
		volume_delete_on_termination    TEXT,
		thirty_days_avg                 TEXT,
		thirty_days_max                 TEXT,
		thirty_days_min                 TEXT,
		sixty_days_avg                  TEXT,
		sixty_days_max                  TEXT,
		sixty_days_min                  TEXT,
		created_at                      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS s3_buckets (
		bucket_name       TEXT PRIMARY KEY,
		account_id        TEXT,
		region            TEXT,
		provider          TEXT DEFAULT 'aws',
		creation_date     TEXT,
		versioning_status TEXT,
		tag_properties    TEXT,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS lambda_functions (
		function_name   TEXT PRIMARY KEY,
		account_id      TEXT,
		region          TEXT,
		provider        TEXT DEFAULT 'aws',
		runtime         TEXT,
		memory_mb       TEXT,
		timeout_seconds TEXT,
		state           TEXT,
		last_modified   TEXT,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// tableSpec describes one persisted table: its natural key and the columns
// the upsert path reads and writes, in schema order. created_at is managed
// by the database and deliberately left out.
type tableSpec struct {
	name    string
	keyCol  string
	columns []string
}

var accountsTable = tableSpec{
	name:   "accounts",
	keyCol: "account_id",
	columns: []string{
		"account_id", "account_name", "email", "org_unit",
	},
}

var computeTable = tableSpec{
	name:   "compute_resources",
	keyCol: "instance_id",
	columns: []string{
		"instance_id", "account_id", "region", "provider",
		"instance_type", "instance_name", "state", "state_code",
		"creation_time", "launch_time", "last_transition_date",
		"last_transition_reason", "aging_days",
		"availability_zone", "mac_address", "network_interface_id",
		"network_interface_attachment_id", "network_attach_time",
		"private_ip_address", "public_ip_address",
		"private_dns_name", "public_dns_name",
		"usage_operation", "platform", "architecture",
		"subnet_id", "vpc_id", "image_id",
		"security_groups", "tag_properties",
		"root_device_type", "ebs_optimized", "monitoring_state",
		"volume_id", "volume_type", "volume_size", "volume_iops",
		"volume_instance_name", "volume_device", "volume_status",
		"volume_encrypted", "volume_attach_time",
		"volume_delete_on_termination",
		"thirty_days_avg", "thirty_days_max", "thirty_days_min",
		"sixty_days_avg", "sixty_days_max", "sixty_days_min",
	},
}

var bucketsTable = tableSpec{
	name:   "s3_buckets",
	keyCol: "bucket_name",
	columns: []string{
		"bucket_name", "account_id", "region", "provider",
		"creation_date", "versioning_status", "tag_properties",
	},
}

var functionsTable = tableSpec{
	name:   "lambda_functions",
	keyCol: "function_name",
	columns: []string{
		"function_name", "account_id", "region", "provider",
		"runtime", "memory_mb", "timeout_seconds", "state", "last_modified",
	},
}
