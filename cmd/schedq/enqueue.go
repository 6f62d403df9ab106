package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fwojciec/schedq"
	"github.com/fwojciec/schedq/job"
	schedslog "github.com/fwojciec/schedq/slog"
)

// EnqueueCmd is the "enqueue" subcommand.
type EnqueueCmd struct {
	Dir  string `required:"" help:"Job directory for persisted state"`
	Lifo bool   `help:"Pop newest entries first within a priority level"`
	File string `arg:"" help:"Request file: a YAML list of mappings (.yaml/.yml) or lines of '[priority] url'"`
}

func (c *EnqueueCmd) Run(deps *Dependencies) error {
	reqs, err := readRequests(c.File)
	if err != nil {
		return err
	}

	sched := schedslog.NewScheduler(job.NewScheduler(job.Config{
		Dir:   c.Dir,
		Order: order(c.Lifo),
	}), deps.Logger)

	if err := sched.Open(); err != nil {
		return err
	}
	for _, r := range reqs {
		if err := sched.Enqueue(r); err != nil {
			_ = sched.Close("error")
			return err
		}
	}

	pending := sched.Len()
	if err := sched.Close("finished"); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "queued %d requests under %s\n", pending, c.Dir)
	return nil
}

// readRequests parses the request file. YAML files hold a list of
// mappings with url/priority/slot/meta keys; anything else is treated as
// plain text with one request per line, an optional leading integer
// priority before the URL. Blank lines and #-comments are skipped.
func readRequests(path string) ([]*schedq.Request, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return readYAMLRequests(path)
	default:
		return readTextRequests(path)
	}
}

func readYAMLRequests(path string) ([]*schedq.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request file: %w", err)
	}

	var entries []any
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse request file %q: %w", path, err)
	}

	reqs := make([]*schedq.Request, 0, len(entries))
	for i, entry := range entries {
		r, err := schedq.FromAny(entry)
		if err != nil {
			return nil, fmt.Errorf("request %d in %q: %w", i+1, path, err)
		}
		reqs = append(reqs, r)
	}
	return reqs, nil
}

func readTextRequests(path string) ([]*schedq.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read request file: %w", err)
	}
	defer f.Close()

	var reqs []*schedq.Request
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		r := &schedq.Request{URL: fields[0]}
		if len(fields) == 2 {
			prio, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, fmt.Errorf("line %d of %q: priority %q is not an integer", line, path, fields[0])
			}
			r = &schedq.Request{URL: fields[1], Priority: prio}
		} else if len(fields) > 2 {
			return nil, fmt.Errorf("line %d of %q: want '[priority] url', got %d fields", line, path, len(fields))
		}
		reqs = append(reqs, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read request file: %w", err)
	}
	return reqs, nil
}
