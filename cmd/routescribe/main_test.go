package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_NoSelector(t *testing.T) {
	var stderr bytes.Buffer

	code := run([]string{"generate", "--router", "manifest", "--manifest", "does-not-matter.yaml"}, &stderr)

	assert.Equal(t, 1, code)
	assert.Equal(t, "You must provide either a route prefix or a route or a middleware to generate the documentation.\n", stderr.String())
}

func TestRun_UnregisteredRouterPointsAtManifest(t *testing.T) {
	var stderr bytes.Buffer

	code := run([]string{"routes", "--router", "mux"}, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "unknown router")
	assert.Contains(t, stderr.String(), "--router manifest --manifest <file>")
}

func TestRun_UnknownCommand(t *testing.T) {
	var stderr bytes.Buffer

	code := run([]string{"no-such-command"}, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "unknown command")
}
