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
	"github.com/consensys/go-vcdstep/pkg/uarch"
	"github.com/consensys/go-vcdstep/pkg/vcd"
)

// Store holds the current value of every tracked signal, slot for slot with a
// registry.  The clock is held separately, as its previous value is needed to
// detect rising edges.
type Store struct {
	values []vcd.Vector
	clock  vcd.Value
}

// NewStore constructs a store for a given registry.  Every signal starts out
// as all zeros, whilst the clock starts out unknown.
func NewStore(registry *Registry) *Store {
	values := make([]vcd.Vector, registry.Size())
	//
	for i := range values {
		values[i] = vcd.NewVector(registry.Binding(uint(i)).Width, vcd.V0)
	}
	//
	return &Store{values, vcd.X}
}

// Get returns the current value held in a given slot.
func (p *Store) Get(slot uint) vcd.Vector {
	return p.values[slot]
}

// Set replaces the value held in a given slot.
func (p *Store) Set(slot uint, value vcd.Vector) {
	p.values[slot] = value
}

// Clock returns the most recently sampled clock value.
func (p *Store) Clock() vcd.Value {
	return p.clock
}

// SetClock records a new clock value, reporting whether this is a rising edge
// (i.e. a transition from 0 to 1).
func (p *Store) SetClock(value vcd.Value) bool {
	rising := p.clock == vcd.V0 && value == vcd.V1
	p.clock = value
	//
	return rising
}

// Snapshot builds a step from the current contents of a store.  The store is
// not modified.
func Snapshot(registry *Registry, store *Store, time uint64) uarch.Step {
	step := registry.Catalog().Shape.NewStep()
	step.Time = time
	//
	for slot, n := uint(0), registry.Size(); slot < n; slot++ {
		role := registry.Binding(slot).Role
		// Flags are one bit wide, hence decode to 1 exactly when set.
		if role.Field != uarch.Clock {
			role.Set(&step, store.Get(slot).Uint32())
		}
	}
	//
	return step
}
