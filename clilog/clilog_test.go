/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package clilog_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vizgres/clilog"
)

func TestInitErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		lvl  string
	}{
		{"bad level", filepath.Join(t.TempDir(), "dev.log"), "fake level"},
		{"empty path", "", "debug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clilog.Destroy()
			if err := clilog.Init(tt.path, tt.lvl); err == nil {
				t.Error("Init should have failed")
			}
		})
	}
}

func TestInitAndWrite(t *testing.T) {
	clilog.Destroy()
	path := filepath.Join(t.TempDir(), "dev.log")
	if err := clilog.Init(path, "debug"); err != nil {
		t.Fatal(err)
	}
	clilog.Writer.Warnf("test entry %d", 42)
	if err := clilog.Destroy(); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal("failed to read log file:", err)
	}
	if !strings.Contains(string(raw), "test entry 42") {
		t.Errorf("log file missing entry: %s", raw)
	}
}

func TestLevelFilter(t *testing.T) {
	clilog.Destroy()
	path := filepath.Join(t.TempDir(), "dev.log")
	if err := clilog.Init(path, "error"); err != nil {
		t.Fatal(err)
	}
	clilog.Writer.Debugf("below threshold")
	clilog.Writer.Errorf("at threshold")
	clilog.Destroy()

	raw, _ := os.ReadFile(path)
	if strings.Contains(string(raw), "below threshold") {
		t.Error("debug entry should be filtered at error level")
	}
	if !strings.Contains(string(raw), "at threshold") {
		t.Error("error entry missing")
	}
}

func TestReinitializeIsNoop(t *testing.T) {
	clilog.Destroy()
	first := filepath.Join(t.TempDir(), "dev.log")
	if err := clilog.Init(first, "info"); err != nil {
		t.Fatal(err)
	}
	second := filepath.Join(t.TempDir(), "should_not_be_created.log")
	if err := clilog.Init(second, "info"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(second); err == nil {
		t.Error("second Init must not create a new file")
	}
	clilog.Destroy()
}

func TestTee(t *testing.T) {
	clilog.InitDiscard()
	var alt bytes.Buffer
	clilog.Tee(&alt, "fatal: boom\n")
	if alt.String() != "fatal: boom\n" {
		t.Errorf("alt = %q", alt.String())
	}
	clilog.Destroy()
}
