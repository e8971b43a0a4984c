package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestQuoteCommand(t *testing.T) {
	out, err := execute(t, "quote", "--monthly", "1000", "--cycle", "annual")
	require.NoError(t, err)
	assert.Contains(t, out, "Annually (12 months)")
	assert.Contains(t, out, "20%")
	assert.Contains(t, out, "₹9,600")
	assert.Contains(t, out, "₹800")

	out, err = execute(t, "quote", "--monthly", "1000", "--cycle", "annually", "--table", "autofill")
	require.NoError(t, err)
	assert.Contains(t, out, "₹10,800")
}

func TestQuoteCommandRejectsBadFlags(t *testing.T) {
	_, err := execute(t, "quote", "--monthly", "1000", "--cycle", "weekly")
	assert.Error(t, err)

	_, err = execute(t, "quote", "--monthly", "1000", "--table", "vip")
	assert.Error(t, err)

	_, err = execute(t, "quote")
	assert.Error(t, err)
}

func TestCyclesCommand(t *testing.T) {
	out, err := execute(t, "cycles")
	require.NoError(t, err)
	assert.Contains(t, out, "Semi-Annually")
	assert.Contains(t, out, "triennially")
	assert.Contains(t, out, "35%")
}

func TestReadVersionFromEnv(t *testing.T) {
	t.Setenv("APP_VERSION", " 1.4.0 ")
	assert.Equal(t, "1.4.0", readVersionFromEnv())

	t.Setenv("APP_VERSION", "")
	assert.Equal(t, "dev", readVersionFromEnv())
}
