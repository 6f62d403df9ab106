package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCLI_enqueue_then_drain_round_trips_requests(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	jobdir := filepath.Join(tmp, "job")
	file := writeFile(t, tmp, "requests.txt", strings.Join([]string{
		"# two hosts, two pages each",
		"http://a.com/1",
		"http://a.com/2",
		"http://b.com/1",
		"http://b.com/2",
	}, "\n"))

	out, err := runCLI(t, "enqueue", "--dir", jobdir, file)
	require.NoError(t, err)
	assert.Contains(t, out, "queued 4 requests")

	out, err = runCLI(t, "drain", "--dir", jobdir)
	require.NoError(t, err)

	lines := strings.Fields(out)
	require.Len(t, lines, 4)

	// Round-robin: hosts must alternate.
	for i := 1; i < len(lines); i++ {
		prev := strings.Split(lines[i-1], "/")[2]
		cur := strings.Split(lines[i], "/")[2]
		assert.NotEqual(t, prev, cur, "consecutive dispatches should hit different hosts")
	}
}

func TestCLI_enqueue_honors_line_priorities(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	jobdir := filepath.Join(tmp, "job")
	file := writeFile(t, tmp, "requests.txt", strings.Join([]string{
		"-2 http://foo.com/low",
		"2 http://foo.com/high",
		"0 http://foo.com/mid",
	}, "\n"))

	_, err := runCLI(t, "enqueue", "--dir", jobdir, file)
	require.NoError(t, err)

	out, err := runCLI(t, "drain", "--dir", jobdir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"http://foo.com/high",
		"http://foo.com/mid",
		"http://foo.com/low",
	}, strings.Fields(out))
}

func TestCLI_enqueue_accepts_yaml_requests(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	jobdir := filepath.Join(tmp, "job")
	file := writeFile(t, tmp, "requests.yaml", strings.Join([]string{
		"- url: http://foo.com/a",
		"  priority: 1",
		"- url: http://bar.com/b",
		"  slot: custom",
	}, "\n"))

	out, err := runCLI(t, "enqueue", "--dir", jobdir, file)
	require.NoError(t, err)
	assert.Contains(t, out, "queued 2 requests")
}

func TestCLI_stat_reports_pending_count(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	jobdir := filepath.Join(tmp, "job")
	file := writeFile(t, tmp, "requests.txt", "http://a.com/1\nhttp://b.com/1\n")

	_, err := runCLI(t, "enqueue", "--dir", jobdir, file)
	require.NoError(t, err)

	out, err := runCLI(t, "stat", "--dir", jobdir)
	require.NoError(t, err)
	assert.Contains(t, out, "2 pending")

	// Stat must not consume anything.
	out, err = runCLI(t, "stat", "--dir", jobdir)
	require.NoError(t, err)
	assert.Contains(t, out, "2 pending")
}

func TestCLI_no_command_shows_help(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestCLI_rejects_malformed_priority_line(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	file := writeFile(t, tmp, "requests.txt", "high http://foo.com/a\n")

	_, err := runCLI(t, "enqueue", "--dir", filepath.Join(tmp, "job"), file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an integer")
}
