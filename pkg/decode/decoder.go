// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package decode

import (
	"errors"
	"io"
	"os"

	"github.com/consensys/go-vcdstep/pkg/uarch"
	"github.com/consensys/go-vcdstep/pkg/util"
	"github.com/consensys/go-vcdstep/pkg/vcd"
	pkgErrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Stats summarises a completed decode.
type Stats struct {
	// Number of changes applied to tracked signals (including the clock).
	Applied uint
	// Number of changes to signals which are not tracked.
	Ignored uint
	// Simulation time of the last timestamp seen.
	EndTime uint64
}

// DecodeFile reads a trace file and reconstructs one step for every rising
// edge of the clock, using a given catalog of signals.
func DecodeFile(filename string, catalog *uarch.Catalog) (uarch.History, Stats, error) {
	f, err := os.Open(filename)
	if err != nil {
		err = pkgErrors.Wrapf(err, "failed to open trace file %#v", filename)
		return nil, Stats{}, &Error{FileUnavailable, filename, err}
	}
	//
	defer f.Close()
	//
	return Decode(f, catalog)
}

// Decode reads a trace from a given source and reconstructs one step for every
// rising edge of the clock, using a given catalog of signals.  The header is
// resolved in full before the body is read, and the body is consumed one
// command at a time.  Any error aborts the decode without a partial history.
func Decode(r io.Reader, catalog *uarch.Catalog) (uarch.History, Stats, error) {
	var (
		parser = vcd.NewParser(r)
		stats  = util.NewPerfStats()
	)
	//
	header, err := parser.ParseHeader()
	if err != nil {
		return nil, Stats{}, classify(HeaderMalformed, err)
	}
	//
	log.Debugf("trace header declares %d variables (timescale \"%s\")", header.NumVars(), header.Timescale)
	//
	registry, err := NewRegistry(header, catalog)
	if err != nil {
		return nil, Stats{}, err
	}
	//
	log.Debugf("resolved %d signals", registry.Size())
	stats.Log("Reading trace header")
	//
	stream := NewStream(registry)
	//
	for {
		cmd, err := parser.Next()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, Stats{}, classify(TraceCorrupt, err)
		} else if err = stream.Apply(cmd); err != nil {
			return nil, Stats{}, err
		}
	}
	//
	log.Debugf("applied %d changes, ignored %d, built %d steps", stream.stats.Applied, stream.stats.Ignored,
		len(stream.history))
	stats.Log("Reading trace body")
	//
	return stream.history, stream.stats, nil
}

// Stream consumes the commands of a trace body in order, maintaining the
// current value of every tracked signal and taking a snapshot at each rising
// edge of the clock.
type Stream struct {
	registry *Registry
	store    *Store
	time     uint64
	history  uarch.History
	stats    Stats
}

// NewStream constructs a stream for a given registry, with every signal at its
// initial value and an empty history.
func NewStream(registry *Registry) *Stream {
	return &Stream{registry: registry, store: NewStore(registry), history: uarch.History{}}
}

// History returns the steps built so far.
func (p *Stream) History() uarch.History {
	return p.history
}

// Apply a single command from the trace body.  Changes are applied strictly in
// the order given, hence a change appearing before a rising edge of the clock
// within the same timestep is reflected in the step taken at that edge, whilst
// one appearing after it is not.
func (p *Stream) Apply(cmd vcd.Command) error {
	switch cmd.Kind {
	case vcd.Timestamp:
		p.time = cmd.Time
		p.stats.EndTime = cmd.Time
	case vcd.ChangeScalar:
		return p.change(cmd, vcd.Vector{cmd.Value})
	case vcd.ChangeVector:
		return p.change(cmd, cmd.Vector)
	case vcd.ChangeReal:
		if slots := p.registry.Lookup(cmd.Code); len(slots) != 0 {
			binding := p.registry.Binding(slots[0])
			return newError(TraceCorrupt, binding.Path.String(), "line %d: real value assigned to %d-bit signal (%s)",
				cmd.Line, binding.Width, binding.Role)
		}
		//
		p.stats.Ignored++
	}
	//
	return nil
}

func (p *Stream) change(cmd vcd.Command, value vcd.Vector) error {
	slots := p.registry.Lookup(cmd.Code)
	//
	if len(slots) == 0 {
		p.stats.Ignored++
		return nil
	}
	//
	for _, slot := range slots {
		binding := p.registry.Binding(slot)
		//
		if cmd.Kind == vcd.ChangeScalar && binding.Width != 1 {
			return newError(TraceCorrupt, binding.Path.String(), "line %d: scalar value assigned to %d-bit signal (%s)",
				cmd.Line, binding.Width, binding.Role)
		} else if value.Width() > binding.Width {
			return newError(TraceCorrupt, binding.Path.String(), "line %d: %d-bit value assigned to %d-bit signal (%s)",
				cmd.Line, value.Width(), binding.Width, binding.Role)
		}
		//
		v := value.Extend(binding.Width)
		//
		if binding.Role.Field != uarch.Clock {
			p.store.Set(slot, v)
		} else if p.store.SetClock(v[0]) {
			// Snapshot taken from state prior to this edge
			p.history = append(p.history, Snapshot(p.registry, p.store, p.time))
		}
	}
	//
	p.stats.Applied++
	//
	return nil
}

// Errors from the trace reader are either syntax errors (classified by the
// section of the trace in which they arose), or failures of the underlying
// reader.
func classify(kind ErrorKind, err error) error {
	var syntax *vcd.SyntaxError
	//
	if errors.As(err, &syntax) {
		return &Error{kind, "", err}
	}
	//
	return &Error{FileUnavailable, "", err}
}
