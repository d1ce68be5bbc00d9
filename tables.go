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

import "bytes"

// parseTableDelimiterRow attempts to parse line as a GFM [table
// delimiter row] ("---", ":--", "--:", ":-:", pipe-separated), and
// reports the column alignments if it matches.
//
// [table delimiter row]: https://github.github.com/gfm/#delimiter-row
func parseTableDelimiterRow(line []byte) ([]tableAlign, bool) {
	trimmed := bytes.TrimRight(line, "\r\n")
	trimmed = bytes.TrimSpace(trimmed)
	if len(trimmed) == 0 {
		return nil, false
	}
	if trimmed[0] == '|' {
		trimmed = trimmed[1:]
	}
	if len(trimmed) > 0 && trimmed[len(trimmed)-1] == '|' {
		trimmed = trimmed[:len(trimmed)-1]
	}
	trimmed = bytes.TrimSpace(trimmed)
	if len(trimmed) == 0 {
		return nil, false
	}
	parts := bytes.Split(trimmed, []byte{'|'})
	aligns := make([]tableAlign, 0, len(parts))
	for _, part := range parts {
		part = bytes.TrimSpace(part)
		if len(part) == 0 {
			return nil, false
		}
		left := part[0] == ':'
		right := part[len(part)-1] == ':'
		core := part
		if left {
			core = core[1:]
		}
		if right && len(core) > 0 {
			core = core[:len(core)-1]
		}
		if len(core) == 0 {
			return nil, false
		}
		for _, c := range core {
			if c != '-' {
				return nil, false
			}
		}
		switch {
		case left && right:
			aligns = append(aligns, tableAlignCenter)
		case left:
			aligns = append(aligns, tableAlignLeft)
		case right:
			aligns = append(aligns, tableAlignRight)
		default:
			aligns = append(aligns, tableAlignNone)
		}
	}
	return aligns, true
}

// parseTableRow splits the line spanned by lineSpan into per-column
// cell spans, delimited by unescaped '|' characters. A single leading
// and trailing pipe is stripped along with surrounding whitespace, the
// way GFM table rows are conventionally written with outer pipes.
func parseTableRow(source []byte, lineSpan Span) []Span {
	end := lineSpan.End
	for end > lineSpan.Start && (source[end-1] == '\n' || source[end-1] == '\r' || source[end-1] == ' ' || source[end-1] == '\t') {
		end--
	}
	start := lineSpan.Start
	for start < end && (source[start] == ' ' || source[start] == '\t') {
		start++
	}
	if start < end && source[start] == '|' {
		start++
	}
	if end > start && source[end-1] == '|' && !isBackslashEscaped(source, end-1) {
		end--
	}

	var cells []Span
	cellStart := start
	for i := start; i < end; i++ {
		if source[i] == '\\' && i+1 < end {
			i++
			continue
		}
		if source[i] == '|' {
			cells = append(cells, trimSpan(source, cellStart, i))
			cellStart = i + 1
		}
	}
	cells = append(cells, trimSpan(source, cellStart, end))
	return cells
}

func isBackslashEscaped(source []byte, pos int) bool {
	n := 0
	for i := pos - 1; i >= 0 && source[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

func trimSpan(source []byte, start, end int) Span {
	for start < end && (source[start] == ' ' || source[start] == '\t') {
		start++
	}
	for end > start && (source[end-1] == ' ' || source[end-1] == '\t') {
		end--
	}
	return Span{Start: start, End: end}
}

// MorphTable converts the current container -- an open [ParagraphKind]
// block holding exactly one collected line -- into a [TableKind] block
// with the given column alignments and a header [TableRowKind] built
// from headerCells, absolute spans into that one line.
func (p *lineParser) MorphTable(aligns []tableAlign, headerCells []Span) {
	p.container.kind = TableKind
	p.container.aligns = aligns
	p.container.inlineChildren = nil
	row := &Block{
		kind:        TableRowKind,
		span:        p.container.span,
		isHeaderRow: true,
	}
	for _, c := range headerCells {
		row.blockChildren = append(row.blockChildren, &Block{
			kind:           TableCellKind,
			span:           c,
			inlineChildren: []*Inline{{kind: UnparsedKind, span: c}},
		})
	}
	p.container.blockChildren = append(p.container.blockChildren, row)
}
