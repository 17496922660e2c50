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
	"fmt"

	"github.com/consensys/go-vcdstep/pkg/uarch"
	"github.com/consensys/go-vcdstep/pkg/vcd"
	"go.uber.org/multierr"
)

// Binding associates a catalog entry with the variable it resolved to in a
// trace header.
type Binding struct {
	uarch.Entry
	Code  vcd.IdCode
	Width uint
}

// Registry maps the identifier codes of a trace onto the catalog entries they
// were resolved to.  Each entry occupies a fixed slot, namely its position in
// the catalog.
type Registry struct {
	catalog  *uarch.Catalog
	bindings []Binding
	// Slots bound to each code.  A code declared at several paths can be bound
	// to more than one slot.
	slots map[vcd.IdCode][]uint
}

// NewRegistry resolves every entry of a catalog against the namespace of a
// trace header.  Resolution either succeeds for every entry, or fails as a
// whole with a MissingSignal error naming the first unresolved path (and
// carrying all of them).  Tracked signals of unsupported width are reported
// as HeaderMalformed.
func NewRegistry(header *vcd.Header, catalog *uarch.Catalog) (*Registry, error) {
	var (
		bindings = make([]Binding, len(catalog.Entries))
		slots    = make(map[vcd.IdCode][]uint)
		missing  error
		first    string
	)
	//
	for i, entry := range catalog.Entries {
		v := header.FindVar(entry.Path)
		//
		if v == nil {
			if first == "" {
				first = entry.Path.String()
			}
			//
			missing = multierr.Append(missing, fmt.Errorf("%s (%s) not declared", entry.Path.String(), entry.Role))
			//
			continue
		} else if err := checkWidth(entry, v); err != nil {
			return nil, err
		}
		//
		bindings[i] = Binding{entry, v.Code, v.Width}
		slots[v.Code] = append(slots[v.Code], uint(i))
	}
	//
	if missing != nil {
		n := len(multierr.Errors(missing))
		return nil, &Error{MissingSignal, first, fmt.Errorf("%d signal(s) unresolved: %w", n, missing)}
	}
	//
	return &Registry{catalog, bindings, slots}, nil
}

// Catalog returns the catalog which this registry was resolved from.
func (p *Registry) Catalog() *uarch.Catalog {
	return p.catalog
}

// Size returns the number of slots in this registry.
func (p *Registry) Size() uint {
	return uint(len(p.bindings))
}

// Binding returns the binding held in a given slot.
func (p *Registry) Binding(slot uint) Binding {
	return p.bindings[slot]
}

// Lookup returns the slots bound to a given code.  Codes which are not tracked
// have no slots.
func (p *Registry) Lookup(code vcd.IdCode) []uint {
	return p.slots[code]
}

func checkWidth(entry uarch.Entry, v *vcd.Var) error {
	if entry.Role.Field.IsFlag() && v.Width != 1 {
		return newError(HeaderMalformed, entry.Path.String(), "expected 1 bit for %s, declared %d bits",
			entry.Role, v.Width)
	} else if v.Width > uarch.MaxWidth {
		return newError(HeaderMalformed, entry.Path.String(), "declared %d bits for %s, at most %d supported",
			v.Width, entry.Role, uarch.MaxWidth)
	}
	//
	return nil
}
