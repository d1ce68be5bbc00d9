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

// coalesceText merges runs of adjacent [TextKind] siblings that abut
// in source order into a single node, the way [scanInline] leaves
// them after splitting a run across several flush calls (for
// instance, the literal bytes either side of a failed bracket match).
// Later passes such as [promoteTaskMarker] depend on a list item's
// leading text living in one node rather than several.
func coalesceText(children []*Inline) []*Inline {
	if len(children) == 0 {
		return children
	}
	out := make([]*Inline, 0, len(children))
	for _, c := range children {
		if c.kind != TextKind {
			if c.kind != CodeSpanKind {
				c.children = coalesceText(c.children)
			}
			out = append(out, c)
			continue
		}
		if last := len(out) - 1; last >= 0 && out[last].kind == TextKind && out[last].span.End == c.span.Start {
			out[last] = &Inline{kind: TextKind, span: Span{Start: out[last].span.Start, End: c.span.End}}
			continue
		}
		out = append(out, c)
	}
	return out
}
