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

import "testing"

// TestFootnoteReferenceNumbering verifies that two references to the
// same footnote name carry distinct FootnoteReferenceNumber values
// (their own 1-based occurrence count) while sharing the same
// FootnoteReferenceIndex (the definition's shared ix).
func TestFootnoteReferenceNumbering(t *testing.T) {
	const input = "See[^x] and again[^x].\n\n[^x]: A note.\n"
	opts := &Options{Extension: ExtensionOptions{Footnotes: true}}
	blocks, _ := ParseOptions([]byte(input), opts)

	var refs []*Inline
	for _, b := range blocks {
		Walk(b.AsNode(), &WalkOptions{
			Pre: func(c *Cursor) bool {
				if in := c.Node().Inline(); in != nil && in.Kind() == FootnoteReferenceKind {
					refs = append(refs, in)
				}
				return true
			},
		})
	}
	if len(refs) != 2 {
		t.Fatalf("found %d FootnoteReferenceKind nodes; want 2", len(refs))
	}

	for i, wantNum := range []int{1, 2} {
		if got := refs[i].FootnoteReferenceNumber(); got != wantNum {
			t.Errorf("refs[%d].FootnoteReferenceNumber() = %d; want %d", i, got, wantNum)
		}
		if got := refs[i].FootnoteReferenceIndex(); got != 1 {
			t.Errorf("refs[%d].FootnoteReferenceIndex() = %d; want 1 (shared ix)", i, got)
		}
		if got := refs[i].FootnoteReferenceName(); got != "x" {
			t.Errorf("refs[%d].FootnoteReferenceName() = %q; want %q", i, got, "x")
		}
	}

	var def *Block
	for _, b := range blocks {
		Walk(b.AsNode(), &WalkOptions{
			Pre: func(c *Cursor) bool {
				if blk := c.Node().Block(); blk != nil && blk.Kind() == FootnoteDefinitionKind {
					def = blk
				}
				return true
			},
		})
	}
	if def == nil {
		t.Fatal("no FootnoteDefinitionKind block found")
	}
	if got := def.FootnoteTotalReferences(); got != 2 {
		t.Errorf("def.FootnoteTotalReferences() = %d; want 2", got)
	}
}
