package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot_RunsMenuAgainstFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "class.txt")
	require.NoError(t, os.WriteFile(path, []byte("Alice,7.5\nBob\nCarol,15\n"), 0o644))

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader("8\n2\n0\n"))
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--config", filepath.Join(dir, "none.yml"), "--file", path})
	t.Cleanup(func() { filePath, backend, configPath = "", "", "roster.yml" })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Loaded 1 students from "+path+".")
	assert.Contains(t, out.String(), "Alice - Average: 7.5")
}

func TestRoot_RejectsUnknownBackend(t *testing.T) {
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"--backend", "mongo"})
	t.Cleanup(func() { filePath, backend, configPath = "", "", "roster.yml" })

	err := rootCmd.Execute()
	assert.ErrorContains(t, err, "unknown backend")
}

func TestRoot_FlagsOverrideBadEnvBackend(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ROSTER_BACKEND", "mongo")

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader("2\n0\n"))
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--backend", "file", "--file", filepath.Join(dir, "s.txt")})
	t.Cleanup(func() { filePath, backend, configPath = "", "", "roster.yml" })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "No students in the list.")
}
