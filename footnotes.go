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

// parseFootnoteDefinitionMarker recognizes a "[^name]:" footnote
// definition marker at the beginning of line, returning the
// normalized name and the byte offset immediately following the
// marker (and exactly one following space, if present).
func parseFootnoteDefinitionMarker(line []byte) (name string, end int, ok bool) {
	if len(line) < 5 || line[0] != '[' || line[1] != '^' {
		return "", 0, false
	}
	i := 2
	nameStart := i
	for i < len(line) && line[i] != ']' && line[i] != '\n' && line[i] != '\r' {
		i++
	}
	if i == nameStart || i >= len(line) || line[i] != ']' {
		return "", 0, false
	}
	nameEnd := i
	i++
	if i >= len(line) || line[i] != ':' {
		return "", 0, false
	}
	i++
	name = normalizeLabel(string(line[nameStart:nameEnd]))
	if name == "" {
		return "", 0, false
	}
	if i < len(line) && line[i] == ' ' {
		i++
	}
	return name, i, true
}

// OpenFootnoteDefinitionBlock starts a [FootnoteDefinitionKind] block
// with the given normalized name at the current position.
func (p *lineParser) OpenFootnoteDefinitionBlock(name string) {
	p.openBlock(FootnoteDefinitionKind)
	p.container.name = name
	p.container.indent = 4
}

// LinkFootnotes implements the two-pass footnote-linking algorithm
// applied across an entire parsed document: a first pass collects
// every [FootnoteDefinitionKind] by its normalized name, and a second
// pass walks every [FootnoteReferenceKind] inline, assigning each
// distinct name the 1-based order it was first referenced in (shared
// by every reference to that name) and counting its total references;
// each individual reference also records its own 1-based occurrence
// count among references to the same name. A reference whose name has
// no matching definition is demoted to literal text ("[^name]").
// Matched definitions nested inside other blocks are detached from
// wherever they were written and re-appended to the last root block in
// ascending reference order, matching how CommonMark implementations
// collect endnotes. A definition written at the top level is itself a
// root block and keeps its place in roots; top-level definitions are
// not reordered.
func LinkFootnotes(roots []*RootBlock) {
	if len(roots) == 0 {
		return
	}
	defs := make(map[string]*Block)
	var order []string
	for _, root := range roots {
		collectFootnoteDefinitions(&root.Block, defs, &order)
	}
	if len(defs) == 0 {
		return
	}

	nextIndex := 1
	for _, root := range roots {
		linkFootnoteReferences(&root.Block, root.Source, defs, &nextIndex)
	}

	last := roots[len(roots)-1]
	used := make([]*Block, 0, len(order))
	for _, name := range order {
		def := defs[name]
		if def.footnoteIndex > 0 {
			used = append(used, def)
		}
	}
	for i := 0; i < len(used); i++ {
		for j := i + 1; j < len(used); j++ {
			if used[j].footnoteIndex < used[i].footnoteIndex {
				used[i], used[j] = used[j], used[i]
			}
		}
	}
	isRoot := make(map[*Block]bool, len(roots))
	for _, root := range roots {
		isRoot[&root.Block] = true
	}
	for _, def := range used {
		if isRoot[def] {
			continue
		}
		for _, root := range roots {
			if detachBlock(&root.Block, def) {
				break
			}
		}
		last.blockChildren = append(last.blockChildren, def)
	}
}

func collectFootnoteDefinitions(b *Block, defs map[string]*Block, order *[]string) {
	if b.kind == FootnoteDefinitionKind {
		if _, exists := defs[b.name]; !exists {
			defs[b.name] = b
			*order = append(*order, b.name)
		}
		return
	}
	for _, child := range b.blockChildren {
		collectFootnoteDefinitions(child, defs, order)
	}
}

func linkFootnoteReferences(b *Block, source []byte, defs map[string]*Block, nextIndex *int) {
	for _, in := range b.inlineChildren {
		linkFootnoteReferenceInline(in, source, defs, nextIndex)
	}
	for _, child := range b.blockChildren {
		linkFootnoteReferences(child, source, defs, nextIndex)
	}
}

func linkFootnoteReferenceInline(in *Inline, source []byte, defs map[string]*Block, nextIndex *int) {
	if in.kind == FootnoteReferenceKind {
		def, ok := defs[in.ref]
		if !ok {
			in.kind = TextKind
			in.ref = ""
			return
		}
		if def.footnoteIndex == 0 {
			def.footnoteIndex = *nextIndex
			*nextIndex++
		}
		def.totalReferences++
		in.footnoteIndex = def.footnoteIndex
		in.refNum = def.totalReferences
		return
	}
	for _, child := range in.children {
		linkFootnoteReferenceInline(child, source, defs, nextIndex)
	}
}

// detachBlock removes target from wherever it sits in b's block
// children, searching recursively.
func detachBlock(b *Block, target *Block) bool {
	for i, child := range b.blockChildren {
		if child == target {
			b.blockChildren = append(b.blockChildren[:i:i], b.blockChildren[i+1:]...)
			return true
		}
		if detachBlock(child, target) {
			return true
		}
	}
	return false
}
