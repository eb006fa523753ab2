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
	"encoding/xml"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// inputElement is the name of the elements holding recorded values.
const inputElement = "input"

// ReplayTable maps positions of a recorded test case to the recorded
// values. Positions without a value are gaps. A table is read-only after
// construction and safe for concurrent use.
type ReplayTable struct {
	entries map[int]string
}

// NewReplayTable returns a table holding a copy of entries.
func NewReplayTable(entries map[int]string) ReplayTable {
	cp := make(map[int]string, len(entries))
	for pos, s := range entries {
		cp[pos] = s
	}
	return ReplayTable{entries: cp}
}

// Get returns the value recorded at pos.
func (t ReplayTable) Get(pos int) (string, bool) {
	s, ok := t.entries[pos]
	return s, ok
}

// Len returns the number of recorded values.
func (t ReplayTable) Len() int {
	return len(t.entries)
}

// Positions returns the positions holding a value, in order.
func (t ReplayTable) Positions() []int {
	ps := maps.Keys(t.entries)
	slices.Sort(ps)
	return ps
}

// ParseReplayDocument reads the input elements of a test-case document in
// document order. The position of an entry is the number of input elements
// before it; entries without text are skipped and leave a gap.
func ParseReplayDocument(r io.Reader) (ReplayTable, error) {
	entries := map[int]string{}
	d := xml.NewDecoder(r)
	pos := 0
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ReplayTable{}, errors.Wrap(err, "malformed test-case document")
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != inputElement {
			continue
		}
		var input struct {
			Text string `xml:",chardata"`
		}
		if err := d.DecodeElement(&input, &start); err != nil {
			return ReplayTable{}, errors.Wrapf(err, "malformed input element %d", pos)
		}
		if text := strings.TrimSpace(input.Text); text != "" {
			entries[pos] = text
		}
		pos++
	}
	return ReplayTable{entries: entries}, nil
}

// LoadReplayTable reads the test-case document at path. A document that
// cannot be read or parsed yields an empty table.
func LoadReplayTable(path string) ReplayTable {
	f, err := os.Open(path)
	if err != nil {
		log.Warn("Could not open test-case document, replaying nothing", "path", path, "err", err)
		return NewReplayTable(nil)
	}
	defer f.Close()

	table, err := ParseReplayDocument(f)
	if err != nil {
		log.Warn("Could not parse test-case document, replaying nothing", "path", path, "err", err)
		return NewReplayTable(nil)
	}
	log.Debug("Loaded test-case document", "path", path, "values", table.Len())
	return table
}

// ReplayCursor walks a replay table along the shared call counter.
type ReplayCursor struct {
	table   ReplayTable
	counter *NondetCounter
}

func NewReplayCursor(table ReplayTable, counter *NondetCounter) *ReplayCursor {
	return &ReplayCursor{table: table, counter: counter}
}

// Position returns the position the next call consumes.
func (c *ReplayCursor) Position() int {
	return c.counter.Load()
}

// Peek returns the value at the current position without advancing.
func (c *ReplayCursor) Peek() (string, bool) {
	return c.table.Get(c.counter.Load())
}

// Remove advances the position and returns the value recorded at the
// position before the advance, along with that position.
func (c *ReplayCursor) Remove() (string, int, bool) {
	pos := c.counter.Next()
	s, ok := c.table.Get(pos)
	return s, pos, ok
}
