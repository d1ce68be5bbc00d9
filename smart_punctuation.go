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

import "unicode/utf8"

// smartenPunctuation rewrites straight quotes, runs of hyphens, and
// "..." into their typographic equivalents, when
// [ParseConfig.SmartPunctuation] is enabled. Quote direction is
// decided by [quoteOpens], a simplified flanking test that is separate
// from the [emphasisFlags] rule used for emphasis delimiters.
func (ip *InlineParser) smartenPunctuation(source []byte, nodes []*Inline) []*Inline {
	if ip.Options == nil || !ip.Options.Parse.SmartPunctuation {
		return nodes
	}
	return smartenNodes(source, nodes)
}

func smartenNodes(source []byte, nodes []*Inline) []*Inline {
	out := make([]*Inline, 0, len(nodes))
	for _, n := range nodes {
		switch n.kind {
		case TextKind:
			out = append(out, smartenText(source, n)...)
		case CodeSpanKind, RawHTMLKind, HTMLTagKind, AutolinkKind, BareAutolinkKind, LinkDestinationKind, MathKind:
			out = append(out, n)
		default:
			if len(n.children) > 0 {
				n.children = smartenNodes(source, n.children)
			}
			out = append(out, n)
		}
	}
	return out
}

func smartenText(source []byte, n *Inline) []*Inline {
	var out []*Inline
	pos := n.span.Start
	end := n.span.End
	textStart := pos
	flush := func(upto int) {
		if upto > textStart {
			out = append(out, &Inline{kind: TextKind, span: Span{Start: textStart, End: upto}})
		}
	}
	for pos < end {
		c := source[pos]
		switch {
		case c == '.' && pos+2 < end && source[pos+1] == '.' && source[pos+2] == '.':
			flush(pos)
			out = append(out, &Inline{kind: SmartPunctuationKind, span: Span{Start: pos, End: pos + 3}, ref: "…"})
			pos += 3
			textStart = pos
		case c == '-':
			n := 1
			for pos+n < end && source[pos+n] == '-' {
				n++
			}
			if n >= 2 {
				flush(pos)
				out = append(out, &Inline{kind: SmartPunctuationKind, span: Span{Start: pos, End: pos + n}, ref: dashReplacement(n)})
				pos += n
				textStart = pos
			} else {
				pos++
			}
		case c == '\'':
			flush(pos)
			q := "’"
			if quoteOpens(source, pos) {
				q = "‘"
			}
			out = append(out, &Inline{kind: SmartPunctuationKind, span: Span{Start: pos, End: pos + 1}, ref: q})
			pos++
			textStart = pos
		case c == '"':
			flush(pos)
			q := "”"
			if quoteOpens(source, pos) {
				q = "“"
			}
			out = append(out, &Inline{kind: SmartPunctuationKind, span: Span{Start: pos, End: pos + 1}, ref: q})
			pos++
			textStart = pos
		default:
			pos++
		}
	}
	flush(end)
	if len(out) == 0 {
		return []*Inline{n}
	}
	return out
}

// quoteOpens reports whether a quote character at pos should be
// treated as an opening quote: preceded by start-of-text, whitespace,
// or punctuation, and not immediately followed by whitespace.
func quoteOpens(source []byte, pos int) bool {
	before, _ := utf8.DecodeLastRune(source[:pos])
	after, _ := utf8.DecodeRune(source[pos+1:])
	beforeIsSpace := pos == 0 || isUnicodeWhitespace(before)
	beforeIsPunct := pos != 0 && isUnicodePunctuation(before)
	afterIsSpace := pos+1 >= len(source) || isUnicodeWhitespace(after)
	return (beforeIsSpace || beforeIsPunct) && !afterIsSpace
}

// dashReplacement collapses a run of n hyphens into em dashes ("—",
// groups of 3) and en dashes ("–", groups of 2), greedily preferring
// em dashes and leaving at most one literal hyphen as a remainder.
func dashReplacement(n int) string {
	const emDash = "—"
	const enDash = "–"
	var sb []byte
	for n >= 3 {
		sb = append(sb, emDash...)
		n -= 3
	}
	for n >= 2 {
		sb = append(sb, enDash...)
		n -= 2
	}
	if n == 1 {
		sb = append(sb, '-')
	}
	return string(sb)
}
