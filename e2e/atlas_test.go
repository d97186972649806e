//go:build e2e && unix

package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSearchAndLock(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(), "Failed to start app")
	require.True(t, tf.Ready(), "Should render the first frame")

	tf.Type("france")
	require.NoError(t, tf.WaitForE(func(s string) bool {
		return strings.Contains(ansiRe.ReplaceAllString(s, ""), "1 result")
	}, 3*time.Second, "query should settle to a single result"))

	tf.Enter()
	require.True(t, tf.SeePlain("(locked)"), "Enter should lock the row")
	require.True(t, tf.SeePlain("Paris"), "Details should show the capital")

	tf.Esc()
	tf.SendCtrlC()
}

func TestRegionChipStatus(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(), "Failed to start app")
	require.True(t, tf.Ready(), "Should render the first frame")

	tf.Tab()
	tf.SendKeys("1")
	require.True(t, tf.WaitForStatusMessage("Asia:", 3*time.Second), "chip should report its region")

	tf.SendKeys(KeyClear)
	require.True(t, tf.WaitForStatusMessage("Filters cleared", 3*time.Second))

	tf.Quit()
}
