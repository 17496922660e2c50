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
	"fmt"
)

// ErrorKind classifies the reasons for which a decode can fail.  Every kind is
// terminal: no partial result is ever produced.
type ErrorKind uint8

const (
	// FileUnavailable indicates the trace file could not be opened or read.
	FileUnavailable ErrorKind = iota
	// HeaderMalformed indicates the trace header could not be parsed, or
	// declares a tracked signal with an unsupported width.
	HeaderMalformed
	// MissingSignal indicates a signal in the catalog is not declared in the
	// trace header.
	MissingSignal
	// TraceCorrupt indicates a malformed entry in the body of the trace.
	TraceCorrupt
)

func (k ErrorKind) String() string {
	switch k {
	case FileUnavailable:
		return "file unavailable"
	case HeaderMalformed:
		return "header malformed"
	case MissingSignal:
		return "missing signal"
	case TraceCorrupt:
		return "trace corrupt"
	}
	//
	return fmt.Sprintf("error(%d)", uint8(k))
}

// Error is the failure reported by a decode.
type Error struct {
	Kind ErrorKind
	// Offending signal path or file name, where known.
	Path string
	// Underlying cause
	Err error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.Path, e.Err.Error())
	}
	//
	return fmt.Sprintf("%s: %s", e.Kind, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind determines whether a given error is a decode error of a given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	//
	return errors.As(err, &e) && e.Kind == kind
}

func newError(kind ErrorKind, path string, format string, args ...any) *Error {
	return &Error{kind, path, fmt.Errorf(format, args...)}
}
