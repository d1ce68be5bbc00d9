// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package commonmark

// Span is a byte offset range into a [RootBlock]'s Source,
// used for every node's source position.
// The range is half-open: [Start, End).
type Span struct {
	Start int
	End   int
}

// NullSpan returns a [Span] that does not refer to any bytes.
func NullSpan() Span {
	return Span{Start: -1, End: -1}
}

// IsValid reports whether the span refers to a non-negative byte range.
func (s Span) IsValid() bool {
	return s.Start >= 0 && s.End >= s.Start
}

// Len returns the length of the span in bytes.
// It returns 0 if the span is invalid.
func (s Span) Len() int {
	if !s.IsValid() {
		return 0
	}
	return s.End - s.Start
}

// spanSlice returns the bytes of source that the span refers to,
// or nil if the span is invalid or out of range.
func spanSlice(source []byte, span Span) []byte {
	if !span.IsValid() || span.End > len(source) {
		return nil
	}
	return source[span.Start:span.End]
}
