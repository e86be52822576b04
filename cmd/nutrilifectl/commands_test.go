package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBMICommand(t *testing.T) {
	out, err := run(t, "bmi", "80", "175")
	require.NoError(t, err)
	assert.Equal(t, "26.1 overweight\n", out)
}

func TestBMICommand_RejectsBadInput(t *testing.T) {
	_, err := run(t, "bmi", "abc", "175")
	assert.Error(t, err)

	_, err = run(t, "bmi", "80", "0")
	assert.Error(t, err)
}

func TestDueCommand_RequiresUser(t *testing.T) {
	_, err := run(t, "due")
	assert.Error(t, err)
}
