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

// parseDescriptionMarker recognizes a ":" description-details marker
// at the beginning of line (a colon followed by a space, a tab, or
// the end of the line), returning the number of bytes it occupies.
func parseDescriptionMarker(line []byte) (end int, ok bool) {
	if len(line) == 0 || line[0] != ':' {
		return 0, false
	}
	if len(line) == 1 {
		return 1, true
	}
	switch line[1] {
	case ' ', '\t':
		return 2, true
	case '\n', '\r':
		return 1, true
	default:
		return 0, false
	}
}

// openDescriptionDetails implements [original_source]'s
// parse_desc_list_details: when the container is a Paragraph (the
// term), that paragraph is closed, detached and wrapped in a new
// DescriptionListKind; when the container's last child is already a
// DescriptionListKind (a further ": detail" line under the same term),
// that list is reused as is. Either way a new DescriptionDetailsKind is
// added to the list's last item and becomes the container.
// It reports whether a description list could be opened here.
func (p *lineParser) openDescriptionDetails() bool {
	switch p.state {
	case stateDescending, stateDescendTerminated:
		panic("openDescriptionDetails cannot be called in this context")
	case stateOpening:
		p.state = stateOpenMatched
	}

	var list *Block
	if p.ContainerKind() == ParagraphKind {
		parent := findParent(&p.root, p.container)
		paragraph := p.container
		paragraph.close(p.source, parent, p.lineStart)
		if len(parent.blockChildren) == 0 {
			return false
		}
		term := parent.blockChildren[len(parent.blockChildren)-1]
		parent.blockChildren = parent.blockChildren[:len(parent.blockChildren)-1]

		list = &Block{
			kind: DescriptionListKind,
			span: Span{Start: term.span.Start, End: -1},
			blockChildren: []*Block{{
				kind:          DescriptionItemKind,
				span:          Span{Start: term.span.Start, End: -1},
				blockChildren: []*Block{{kind: DescriptionTermKind, span: term.span, blockChildren: []*Block{term}}},
			}},
		}
		parent.blockChildren = append(parent.blockChildren, list)
	} else if last := p.container.lastChild().Block(); last.Kind() == DescriptionListKind {
		list = last
	} else {
		return false
	}

	items := list.blockChildren
	item := items[len(items)-1]
	details := &Block{
		kind:   DescriptionDetailsKind,
		span:   Span{Start: p.lineStart + p.i, End: -1},
		indent: 2,
	}
	item.blockChildren = append(item.blockChildren, details)
	p.container = details
	return true
}
