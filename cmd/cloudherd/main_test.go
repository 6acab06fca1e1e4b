package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/cloudherd/cloudherd/config"
)

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "daemon", "initdb"} {
		assert.True(t, names[want], "command %q not registered", want)
	}
}

func TestBuildRegistryCoversSupportedServices(t *testing.T) {
	registry := buildRegistry(nil, config.Collection{
		MetricName:    "CPUUtilization",
		MetricWindows: []int{30, 60},
	}, zerolog.Nop())

	assert.Equal(t, []string{"ec2", "lambda", "s3"}, registry.Services())
	assert.Empty(t, registry.Unknown([]string{"ec2", "s3", "lambda"}))
	assert.Equal(t, []string{"ebs"}, registry.Unknown([]string{"ebs"}))
}
