// Copyright 2018 MPI-SWS and Valentin Wuestholz

// This file is part of Valan.
//
// Valan is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Valan is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Valan.  If not, see <https://www.gnu.org/licenses/>.

package analysis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testCaseDocument = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<!DOCTYPE testcase PUBLIC "+//IDN sosy-lab.org//DTD test-format testcase 1.1//EN" "https://sosy-lab.org/test-format/testcase-1.1.dtd">
<testcase>
  <input>1</input>
  <input> </input>
  <input variable="n" type="int">-42</input>
  <input>'a'</input>
</testcase>
`

func TestParseReplayDocument(t *testing.T) {
	table, err := ParseReplayDocument(strings.NewReader(testCaseDocument))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{0, 2, 3}, table.Positions()); diff != "" {
		t.Errorf("unexpected positions (-want +got):\n%s", diff)
	}
	for pos, want := range map[int]string{0: "1", 2: "-42", 3: "'a'"} {
		if got, ok := table.Get(pos); !ok || got != want {
			t.Errorf("position %d: got %q, %v, want %q", pos, got, ok, want)
		}
	}
	if _, ok := table.Get(1); ok {
		t.Error("empty input element produced a value")
	}
}

func TestParseReplayDocumentMalformed(t *testing.T) {
	if _, err := ParseReplayDocument(strings.NewReader("<testcase><input>1</testcase>")); err == nil {
		t.Error("malformed document parsed")
	}
}

func TestLoadReplayTableDegrades(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.xml")
	if err := os.WriteFile(bad, []byte("<testcase><input>"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{bad, filepath.Join(dir, "missing.xml")} {
		if table := LoadReplayTable(path); table.Len() != 0 {
			t.Errorf("%s: got %d values, want none", path, table.Len())
		}
	}

	good := filepath.Join(dir, "good.xml")
	if err := os.WriteFile(good, []byte(testCaseDocument), 0o644); err != nil {
		t.Fatal(err)
	}
	if table := LoadReplayTable(good); table.Len() != 3 {
		t.Errorf("got %d values, want 3", table.Len())
	}
}

func TestNewReplayTableCopies(t *testing.T) {
	entries := map[int]string{0: "1"}
	table := NewReplayTable(entries)
	entries[0] = "2"
	if got, _ := table.Get(0); got != "1" {
		t.Errorf("table shares its entries: got %q", got)
	}
}

func TestReplayCursor(t *testing.T) {
	counter := new(NondetCounter)
	c := NewReplayCursor(NewReplayTable(map[int]string{0: "a", 2: "c"}), counter)

	if s, ok := c.Peek(); !ok || s != "a" {
		t.Errorf("Peek() = %q, %v", s, ok)
	}
	if c.Position() != 0 {
		t.Errorf("Peek advanced to %d", c.Position())
	}
	steps := []struct {
		s   string
		pos int
		ok  bool
	}{
		{"a", 0, true},
		{"", 1, false},
		{"c", 2, true},
		{"", 3, false},
	}
	for _, want := range steps {
		s, pos, ok := c.Remove()
		if s != want.s || pos != want.pos || ok != want.ok {
			t.Errorf("Remove() = %q, %d, %v, want %q, %d, %v", s, pos, ok, want.s, want.pos, want.ok)
		}
	}
	if counter.Load() != 4 {
		t.Errorf("counter at %d, want 4", counter.Load())
	}
}
