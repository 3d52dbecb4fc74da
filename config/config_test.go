/*
NAME
  config_test.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakeUpdater is a minimal Updater for exercising Parse/Load/Watch
// without depending on stream.Config.
type fakeUpdater struct {
	vars      map[string]string
	validated int
}

func (f *fakeUpdater) Update(vars map[string]string) {
	f.vars = vars
}

func (f *fakeUpdater) Validate() error {
	f.validated++
	return nil
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.conf")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestParseIgnoresBlankLinesAndComments(t *testing.T) {
	path := writeTempConfig(t, "Width=1280\n\n# a comment\nHeight=720\n")
	vars, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if vars["Width"] != "1280" || vars["Height"] != "720" {
		t.Errorf("vars = %v, want Width=1280 Height=720", vars)
	}
	if len(vars) != 2 {
		t.Errorf("len(vars) = %d, want 2", len(vars))
	}
}

func TestParseTrimsWhitespace(t *testing.T) {
	path := writeTempConfig(t, "  Width = 1280  \n")
	vars, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if vars["Width"] != "1280" {
		t.Errorf("vars[Width] = %q, want %q", vars["Width"], "1280")
	}
}

func TestParseMissingFile(t *testing.T) {
	if _, err := Parse(filepath.Join(t.TempDir(), "missing.conf")); err == nil {
		t.Fatal("Parse() error = nil, want non-nil for a missing file")
	}
}

func TestLoadAppliesAndValidates(t *testing.T) {
	path := writeTempConfig(t, "FrameRate=30\n")
	u := &fakeUpdater{}
	if err := Load(path, u); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if u.vars["FrameRate"] != "30" {
		t.Errorf("vars[FrameRate] = %q, want %q", u.vars["FrameRate"], "30")
	}
	if u.validated != 1 {
		t.Errorf("validated = %d, want 1", u.validated)
	}
}

func TestWatchAppliesInitialContentsSynchronously(t *testing.T) {
	path := writeTempConfig(t, "BitRate=4000000\n")
	u := &fakeUpdater{}
	w, err := Watch(path, u, nil)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	if u.vars["BitRate"] != "4000000" {
		t.Errorf("vars[BitRate] = %q, want %q", u.vars["BitRate"], "4000000")
	}
	if u.validated != 1 {
		t.Errorf("validated = %d, want 1", u.validated)
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := writeTempConfig(t, "GOPSize=25\n")
	u := &fakeUpdater{}
	w, err := Watch(path, u, nil)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("GOPSize=50\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if u.vars["GOPSize"] == "50" {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if u.vars["GOPSize"] != "50" {
		t.Errorf("vars[GOPSize] = %q, want %q after reload", u.vars["GOPSize"], "50")
	}
}

func TestWatchMissingFile(t *testing.T) {
	u := &fakeUpdater{}
	if _, err := Watch(filepath.Join(t.TempDir(), "missing.conf"), u, nil); err == nil {
		t.Fatal("Watch() error = nil, want non-nil for a missing file")
	}
}
