package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVaccinesStatusCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"vaccines", "status", "--birth", "2024-01-01", "--today", "2024-04-01"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		birthFlag, todayFlag = "", ""
	})

	require.NoError(t, rootCmd.Execute())

	got := out.String()
	assert.Contains(t, got, "VACCINE")
	// ventana semanas 0..1 => vencida a los 3 meses
	line := lineFor(got, "hepb-1")
	assert.Contains(t, line, "2024-01-01 .. 2024-01-08")
	assert.Contains(t, line, "overdue")
	assert.Contains(t, got, "overdue: ")
}

func TestVaccinesStatusCommand_BadBirth(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"vaccines", "status", "--birth", "01/01/2024"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		birthFlag, todayFlag = "", ""
	})

	assert.Error(t, rootCmd.Execute())
}

func lineFor(out, id string) string {
	for _, l := range strings.Split(out, "\n") {
		if strings.HasPrefix(l, id+" ") {
			return l
		}
	}
	return ""
}
