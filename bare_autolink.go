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

import "strings"

// scanBareAutolinks splits bare URLs, "www." prefixes, and email
// addresses out of the [TextKind] leaves of nodes into [BareAutolinkKind]
// nodes, when the Autolink extension is enabled. It does not descend
// into nodes that already carry a link destination or literal markup,
// so a URL inside an existing link's text or a code span is left alone.
func (ip *InlineParser) scanBareAutolinks(source []byte, nodes []*Inline) []*Inline {
	if !ip.ext(func(e ExtensionOptions) bool { return e.Autolink }) {
		return nodes
	}
	relaxed := ip.Options != nil && ip.Options.Parse.RelaxedAutolinks
	return splitBareAutolinkNodes(source, nodes, relaxed)
}

func splitBareAutolinkNodes(source []byte, nodes []*Inline, relaxed bool) []*Inline {
	out := make([]*Inline, 0, len(nodes))
	for _, n := range nodes {
		switch n.kind {
		case TextKind:
			out = append(out, splitTextAutolinks(source, n, relaxed)...)
		case LinkKind, ImageKind, AutolinkKind, HTMLTagKind, RawHTMLKind, CodeSpanKind:
			out = append(out, n)
		default:
			if len(n.children) > 0 {
				n.children = splitBareAutolinkNodes(source, n.children, relaxed)
			}
			out = append(out, n)
		}
	}
	return out
}

// splitTextAutolinks repeatedly finds the next bare autolink within a
// [TextKind] node's span, emitting Text/BareAutolink/Text segments.
func splitTextAutolinks(source []byte, n *Inline, relaxed bool) []*Inline {
	var out []*Inline
	pos := n.span.Start
	end := n.span.End
	for pos < end {
		start, stop, url, ok := findBareAutolink(source, pos, end, relaxed)
		if !ok {
			break
		}
		if start > pos {
			out = append(out, &Inline{kind: TextKind, span: Span{Start: pos, End: start}})
		}
		out = append(out, &Inline{kind: BareAutolinkKind, span: Span{Start: start, End: stop}, autolinkURL: url})
		pos = stop
	}
	if pos < end || len(out) == 0 {
		out = append(out, &Inline{kind: TextKind, span: Span{Start: pos, End: end}})
	}
	return out
}

// findBareAutolink finds the first bare autolink starting at or after
// pos and before end, returning its span and resolved destination URL.
func findBareAutolink(source []byte, pos, end int, relaxed bool) (start, stop int, url string, ok bool) {
	for i := pos; i < end; i++ {
		if i > pos && isASCIIAlnum(source[i-1]) {
			// Not a boundary; bareAutolinkAt below re-derives this, but
			// skipping here avoids rescanning the same word repeatedly.
			continue
		}
		if stop, dest, matched := bareAutolinkAt(source, i, end, relaxed); matched {
			if !relaxed && (boundaryIsBracket(source, i, stop, end)) {
				continue
			}
			return i, stop, dest, true
		}
	}
	return 0, 0, "", false
}

func boundaryIsBracket(source []byte, start, stop, end int) bool {
	if start > 0 {
		switch source[start-1] {
		case '[', '(':
			return true
		}
	}
	if stop < len(source) {
		switch source[stop] {
		case ']', ')':
			return true
		}
	}
	_ = end
	return false
}

// bareAutolinkAt attempts to match a bare autolink beginning exactly
// at i, returning its end offset and resolved destination.
func bareAutolinkAt(source []byte, i, end int, relaxed bool) (stop int, url string, ok bool) {
	if i > 0 && isASCIIAlnum(source[i-1]) {
		return 0, "", false
	}
	if stop, ok := matchSchemeAutolink(source, i, end, relaxed); ok {
		dest := trimAutolinkTrailer(source, i, stop)
		return dest, string(source[i:dest]), true
	}
	if stop, ok := matchWWWAutolink(source, i, end); ok {
		dest := trimAutolinkTrailer(source, i, stop)
		return dest, "http://" + string(source[i:dest]), true
	}
	if stop, ok := matchEmailAutolink(source, i, end); ok {
		return stop, "mailto:" + string(source[i:stop]), true
	}
	return 0, "", false
}

// matchSchemeAutolink matches "http://"/"https://" (or, when relaxed,
// any "scheme://") followed by a run of URL characters.
func matchSchemeAutolink(source []byte, i, end int, relaxed bool) (int, bool) {
	j := i
	if relaxed {
		if !isASCIILetter(source[j]) {
			return 0, false
		}
		j++
		for j < end && isSchemeChar(source[j]) {
			j++
		}
		if j-i < 2 || j+2 >= end || source[j] != ':' || source[j+1] != '/' || source[j+2] != '/' {
			return 0, false
		}
		j += 3
	} else {
		switch {
		case hasPrefixAt(source, i, end, "https://"):
			j = i + len("https://")
		case hasPrefixAt(source, i, end, "http://"):
			j = i + len("http://")
		default:
			return 0, false
		}
	}
	domainStart := j
	for j < end && isURLBodyChar(source[j]) {
		j++
	}
	if j == domainStart || !strings.ContainsRune(string(source[domainStart:j]), '.') {
		return 0, false
	}
	return j, true
}

// matchWWWAutolink matches a "www."-prefixed domain.
func matchWWWAutolink(source []byte, i, end int) (int, bool) {
	if !hasPrefixAt(source, i, end, "www.") {
		return 0, false
	}
	j := i + len("www.")
	domainStart := j
	for j < end && isURLBodyChar(source[j]) {
		j++
	}
	if j == domainStart || !strings.ContainsRune(string(source[domainStart:j]), '.') {
		return 0, false
	}
	return j, true
}

// matchEmailAutolink matches a bare "local@domain.tld" email address.
func matchEmailAutolink(source []byte, i, end int) (int, bool) {
	j := i
	for j < end && isEmailLocalChar(source[j]) {
		j++
	}
	if j == i || j >= end || source[j] != '@' {
		return 0, false
	}
	j++
	domainStart := j
	labels := 0
	for {
		labelStart := j
		for j < end && (isASCIIAlnum(source[j]) || source[j] == '-') {
			j++
		}
		if j == labelStart {
			break
		}
		labels++
		if j < end && source[j] == '.' {
			j++
			continue
		}
		break
	}
	if labels < 2 || j == domainStart {
		return 0, false
	}
	return j, true
}

func hasPrefixAt(source []byte, i, end int, prefix string) bool {
	if i+len(prefix) > end {
		return false
	}
	return string(source[i:i+len(prefix)]) == prefix
}

func isURLBodyChar(c byte) bool {
	if isASCIIAlnum(c) {
		return true
	}
	return strings.IndexByte("-._~:/?#@!$&'()*+,;=%", c) >= 0
}

// trimAutolinkTrailer strips trailing punctuation that is almost
// never meant to be part of the URL (sentence-ending punctuation and
// an unbalanced closing paren), matching GFM's autolink extension.
func trimAutolinkTrailer(source []byte, start, stop int) int {
	for stop > start {
		c := source[stop-1]
		switch c {
		case '.', ',', ':', ';', '!', '?', '*', '_', '~', '\'', '"':
			stop--
			continue
		case ')':
			if countByte(source[start:stop], '(') < countByte(source[start:stop], ')') {
				stop--
				continue
			}
		}
		break
	}
	return stop
}

func countByte(b []byte, c byte) int {
	n := 0
	for _, x := range b {
		if x == c {
			n++
		}
	}
	return n
}
