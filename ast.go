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

// RootBlock represents a "top-level" block,
// that is, a block whose parent is the document.
// Root blocks store their CommonMark source
// and document position information.
// All other position information in the tree
// is relative to the beginning of the root block.
type RootBlock struct {
	// Source holds the bytes of the block read from the original source.
	// Any NUL bytes will have been replaced with the Unicode Replacement Character.
	Source []byte
	// StartLine is the 1-based line number of the first line of the block.
	StartLine int
	// StartOffset is the byte offset from the beginning of the original source
	// that this block starts at.
	StartOffset int64
	// EndOffset is the byte offset from the beginning of the original source
	// that this block ends at.
	// Unless the original source contained NUL bytes,
	// EndOffset = StartOffset + len(Source).
	EndOffset int64

	Block
}

// A Block is a structural element in a CommonMark document.
type Block struct {
	kind BlockKind
	span Span

	// At most one of blockChildren or inlineChildren can be set.
	blockChildren  []*Block
	inlineChildren []*Inline

	// indent is the block's indentation.
	// For [ListItemKind]/[DescriptionDetailsKind]/[FootnoteDefinitionKind], it is the number of columns required to continue the block.
	// For [FencedCodeBlockKind]/[MultilineBlockQuoteKind], it is the number of columns
	// to strip at the beginning of each line (the fence offset).
	indent int

	// n is a kind-specific datum.
	// For [ATXHeadingKind] and [SetextHeadingKind], it is the level of the heading.
	// For [FencedCodeBlockKind]/[MultilineBlockQuoteKind], it is the number of characters used in the starting fence.
	// For [HTMLBlockKind], it is the index in [htmlBlockConditions] that started this block.
	n int

	// char is a kind-specific datum.
	// For [ListKind] and [ListItemKind], it is the character at the end of the list marker.
	// For [FencedCodeBlockKind], it is the character of the fence.
	char byte

	// name is a kind-specific datum holding a normalized label.
	// For [FootnoteDefinitionKind], it is the footnote's normalized name.
	name string

	// totalReferences counts matched [FootnoteReferenceKind] inlines for a [FootnoteDefinitionKind].
	totalReferences int
	// footnoteIndex is the 1-based order a footnote was first referenced in, or 0 if unreferenced.
	footnoteIndex int

	// aligns holds the per-column alignment of a [TableKind] block.
	aligns []tableAlign
	// isHeaderRow is valid for [TableRowKind].
	isHeaderRow bool

	// taskMarker is nonzero for a [ListItemKind] promoted to a task item;
	// it holds the byte inside the task marker's brackets ('x', 'X', ' ', or another
	// character when RelaxedTasklistMatching is set).
	taskMarker byte
	isTask     bool

	listLoose     bool // valid for [ListKind] and [ListItemKind]
	lastLineBlank bool
}

// Kind returns the type of block node
// or zero if the node is nil.
func (b *Block) Kind() BlockKind {
	if b == nil {
		return 0
	}
	return b.kind
}

// Span returns the position information relative to the [RootBlock]'s Source field.
func (b *Block) Span() Span {
	if b == nil {
		return NullSpan()
	}
	return b.span
}

// ChildCount returns the number of children the node has.
// Calling ChildCount on nil returns 0.
func (b *Block) ChildCount() int {
	switch {
	case b == nil:
		return 0
	case len(b.blockChildren) > 0:
		return len(b.blockChildren)
	default:
		return len(b.inlineChildren)
	}
}

// Child returns the i'th child of the node.
func (b *Block) Child(i int) Node {
	if len(b.blockChildren) > 0 {
		return b.blockChildren[i].AsNode()
	}
	return b.inlineChildren[i].AsNode()
}

// HeadingLevel returns the 1-based level for an [ATXHeadingKind] or [SetextHeadingKind],
// or zero otherwise.
func (b *Block) HeadingLevel() int {
	switch b.Kind() {
	case ATXHeadingKind, SetextHeadingKind:
		return b.n
	default:
		return 0
	}
}

// IsOrderedList reports whether the block is
// an ordered list or an ordered list item.
func (b *Block) IsOrderedList() bool {
	return b != nil && (b.char == '.' || b.char == ')')
}

// IsTightList reports whether the block is
// a tight list or a tight list item.
func (b *Block) IsTightList() bool {
	return b != nil && (b.kind == ListKind || b.kind == ListItemKind) && !b.listLoose
}

// IsTaskItem reports whether the block is a [ListItemKind] promoted to a task item.
func (b *Block) IsTaskItem() bool {
	return b != nil && b.kind == ListItemKind && b.isTask
}

// TaskMarker returns the byte inside a task item's checkbox
// (typically ' ' for unchecked or 'x'/'X' for checked),
// or 0 if the block is not a task item.
func (b *Block) TaskMarker() byte {
	if !b.IsTaskItem() {
		return 0
	}
	return b.taskMarker
}

// TaskChecked reports whether a task item's checkbox holds anything but a space.
// Under RelaxedTasklistMatching, any non-space character counts as checked.
func (b *Block) TaskChecked() bool {
	return b.IsTaskItem() && b.taskMarker != ' '
}

// FootnoteName returns the normalized name of a [FootnoteDefinitionKind] block,
// or the empty string otherwise.
func (b *Block) FootnoteName() string {
	if b.Kind() != FootnoteDefinitionKind {
		return ""
	}
	return b.name
}

// FootnoteTotalReferences returns the number of [FootnoteReferenceKind] inlines
// that resolved to this definition.
func (b *Block) FootnoteTotalReferences() int {
	if b.Kind() != FootnoteDefinitionKind {
		return 0
	}
	return b.totalReferences
}

// FootnoteIndex returns the 1-based order in which a [FootnoteDefinitionKind]
// was first referenced, or 0 if it was never referenced.
func (b *Block) FootnoteIndex() int {
	if b.Kind() != FootnoteDefinitionKind {
		return 0
	}
	return b.footnoteIndex
}

// TableAlignments returns the per-column alignment of a [TableKind] block.
func (b *Block) TableAlignments() []tableAlign {
	if b.Kind() != TableKind {
		return nil
	}
	return b.aligns
}

// IsTableHeaderRow reports whether a [TableRowKind] block is the header row.
func (b *Block) IsTableHeaderRow() bool {
	return b != nil && b.kind == TableRowKind && b.isHeaderRow
}

// InfoString returns the info string node for a [FencedCodeBlockKind] block
// or nil otherwise.
func (b *Block) InfoString() *Inline {
	if b.Kind() != FencedCodeBlockKind {
		return nil
	}
	c := b.firstChild().Inline()
	if c.Kind() != InfoStringKind {
		return nil
	}
	return c
}

// InfoStringText returns the info string text of a
// [FencedCodeBlockKind] block, falling back to defaultInfoString when
// the block has none. A parse configured with
// [ParseConfig.DefaultInfoString] already carries its fallback on
// [*Block.InfoString]; this method is for callers working from a
// [BlockParser] with no [Options] of its own.
func (b *Block) InfoStringText(source []byte, defaultInfoString string) string {
	if in := b.InfoString(); in != nil {
		return in.Text(source)
	}
	return defaultInfoString
}

func (b *Block) firstChild() Node {
	if b.ChildCount() == 0 {
		return Node{}
	}
	return b.Child(0)
}

func (b *Block) lastChild() Node {
	n := b.ChildCount()
	if n == 0 {
		return Node{}
	}
	return b.Child(n - 1)
}

func (b *Block) isOpen() bool {
	return b != nil && b.span.End < 0
}

// close closes b and any open descendents.
// It assumes that only the last child can be open.
// Calling close on a nil block no-ops.
func (b *Block) close(source []byte, parent *Block, end int) {
	if parent != nil && b != parent.lastChild().Block() {
		panic("block to close must be the last child of the parent")
	}
	for ; b.isOpen(); parent, b = b, b.lastChild().Block() {
		b.span.End = end
		if f := blockRules[b.kind].onClose; f != nil {
			replacement := f(source, b)
			parent.blockChildren = append(parent.blockChildren[:len(parent.blockChildren)-1], replacement...)
		}
	}
}

// BlockKind is an enumeration of values returned by [*Block.Kind].
type BlockKind uint16

const (
	// ParagraphKind is used for a block of text.
	ParagraphKind BlockKind = 1 + iota
	// ThematicBreakKind is used for a thematic break, also known as a horizontal rule.
	// It will not contain children.
	ThematicBreakKind
	// ATXHeadingKind is used for headings that start with hash marks.
	ATXHeadingKind
	// SetextHeadingKind is used for headings that end with a divider.
	SetextHeadingKind
	// IndentedCodeBlockKind is used for code blocks started by indentation.
	IndentedCodeBlockKind
	// FencedCodeBlockKind is used for code blocks started by backticks or tildes.
	FencedCodeBlockKind
	// HTMLBlockKind is used for blocks of raw HTML.
	// It should not be wrapped by any tags in rendered HTML output.
	HTMLBlockKind
	// LinkReferenceDefinitionKind is used for a [link reference definition].
	// The first child is always a [LinkLabelKind],
	// the second child is always a [LinkDestinationKind],
	// and it may end with an optional [LinkTitleKind].
	//
	// [link reference definition]: https://spec.commonmark.org/0.30/#link-reference-definition
	LinkReferenceDefinitionKind
	// BlockQuoteKind is used for block quotes.
	BlockQuoteKind
	// ListItemKind is used for items in an ordered or unordered list.
	// The first child will always be of [ListMarkerKind].
	// If the item contains a paragraph and the item is "tight",
	// then the paragraph tag should be stripped.
	// A list item promoted from a task-list marker additionally satisfies [*Block.IsTaskItem].
	ListItemKind
	// ListKind is used for ordered or unordered lists.
	ListKind
	// ListMarkerKind is used to contain the marker in a [ListItemKind] node.
	// It is typically not rendered directly.
	ListMarkerKind
	// FrontMatterKind is used for a leading front-matter block
	// delimited by a configured delimiter (e.g. "---").
	FrontMatterKind
	// FootnoteDefinitionKind is used for a footnote definition
	// (`[^name]: ...`). See [*Block.FootnoteName].
	FootnoteDefinitionKind
	// DescriptionListKind contains [DescriptionItemKind] children.
	DescriptionListKind
	// DescriptionItemKind contains exactly one [DescriptionTermKind]
	// followed by one [DescriptionDetailsKind].
	DescriptionItemKind
	// DescriptionTermKind holds the term being defined.
	DescriptionTermKind
	// DescriptionDetailsKind holds the definition of the preceding term.
	DescriptionDetailsKind
	// MultilineBlockQuoteKind is used for a block quote delimited by
	// a `>>>`-style fence rather than per-line `>` markers.
	MultilineBlockQuoteKind
	// TableKind contains [TableRowKind] children; the first is the header row.
	TableKind
	// TableRowKind contains [TableCellKind] children.
	TableRowKind
	// TableCellKind is a single cell of a [TableRowKind].
	TableCellKind

	documentKind
)

// IsCode reports whether the kind is [IndentedCodeBlockKind] or [FencedCodeBlockKind].
func (k BlockKind) IsCode() bool {
	return k == IndentedCodeBlockKind || k == FencedCodeBlockKind
}

// IsHeading reports whether the kind is [ATXHeadingKind] or [SetextHeadingKind].
func (k BlockKind) IsHeading() bool {
	return k == ATXHeadingKind || k == SetextHeadingKind
}

// tableAlign describes the alignment of a table column,
// as determined by its delimiter-row cell (e.g. ":---", "---:", ":---:").
type tableAlign int8

const (
	tableAlignNone tableAlign = iota
	tableAlignLeft
	tableAlignCenter
	tableAlignRight
)
