package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cloudherd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
profile: org-master
regions: [us-east-1]
role_name: InventoryReadRole
services: [ec2, s3, lambda]
database:
  host: db.internal
  name: awsdb
  user: inventory
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "CPUUtilization", cfg.Collection.MetricName)
	assert.Equal(t, []int{30, 60}, cfg.Collection.MetricWindows)
	assert.Equal(t, 4, cfg.Collection.AccountConcurrency)
	assert.Equal(t, 10*time.Minute, cfg.Collection.AccountTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_PasswordFromEnv(t *testing.T) {
	path := writeConfig(t, `
regions: [us-east-1]
role_name: InventoryReadRole
services: [ec2]
database:
  host: db.internal
  name: awsdb
  user: inventory
`)
	t.Setenv("CLOUDHERD_DB_PASSWORD", "s3cret")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Contains(t, cfg.Database.DSN(), "inventory:s3cret@db.internal:5432")
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing regions",
			content: `
role_name: Role
services: [ec2]
database: {host: h, name: n, user: u}
`,
			wantErr: "region",
		},
		{
			name: "missing role",
			content: `
regions: [us-east-1]
services: [ec2]
database: {host: h, name: n, user: u}
`,
			wantErr: "role_name",
		},
		{
			name: "no services",
			content: `
regions: [us-east-1]
role_name: Role
database: {host: h, name: n, user: u}
`,
			wantErr: "service",
		},
		{
			name: "bad metric window",
			content: `
regions: [us-east-1]
role_name: Role
services: [ec2]
collection: {metric_windows: [30, -7]}
database: {host: h, name: n, user: u}
`,
			wantErr: "metric_windows",
		},
		{
			name: "windows without snapshot columns",
			content: `
regions: [us-east-1]
role_name: Role
services: [ec2]
collection: {metric_windows: [7, 14]}
database: {host: h, name: n, user: u}
`,
			wantErr: "metric_windows must be [30, 60]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseDSN_NoPassword(t *testing.T) {
	d := Database{Host: "localhost", Port: 5432, Name: "awsdb", User: "devops", SSLMode: "disable"}

	assert.Equal(t, "postgres://devops@localhost:5432/awsdb?sslmode=disable", d.DSN())
}
