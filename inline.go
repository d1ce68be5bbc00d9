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

// An Inline is a leaf or container node within a [Block]'s inline content.
type Inline struct {
	kind     InlineKind
	span     Span
	children []*Inline

	// indent is valid for [IndentKind]: the number of columns of
	// leading whitespace it represents.
	indent int

	// ref holds a kind-specific normalized label.
	// For [LinkLabelKind], it is the normalized reference label used
	// to populate a [ReferenceMap].
	// For [LinkKind]/[ImageKind], a non-empty value marks the link as
	// reference-style (shortcut, collapsed, or full) and holds the
	// normalized label to look up.
	// For [FootnoteReferenceKind], it holds the normalized footnote name.
	ref string

	// char is a kind-specific datum.
	// For [EmphasisKind]/[StrongKind], it is the run character ('*' or '_').
	// For [StrikethroughKind], it is always '~'.
	// For [SuperscriptKind], it is always '^'.
	char byte

	// display is valid for [MathKind]: true for "$$...$$" display math,
	// false for "$...$" inline math.
	display bool

	// mathCode is valid for [MathKind]: true when the span was written
	// using the math_code form ("$`...`$") rather than math_dollars.
	mathCode bool

	// footnoteIndex is valid for [FootnoteReferenceKind]:
	// the 1-based order the name was first referenced in. Shared by
	// every reference to the same name (it mirrors the definition's
	// own index).
	footnoteIndex int

	// refNum is valid for [FootnoteReferenceKind]: the 1-based
	// occurrence count of this particular reference among all
	// references to the same name, distinct from footnoteIndex.
	refNum int

	// camoDestination is valid for [ImageKind]: the Camo-rewritten
	// destination URL, set when [PhilomenaOptions.Camo] is configured
	// and the image's destination is not a relative domain.
	camoDestination string

	// autolinkURL is valid for [BareAutolinkKind]: the resolved link
	// destination, which may differ from the span's literal text
	// (a "www." match is resolved to an "http://" URL; an email match
	// is resolved to a "mailto:" URL).
	autolinkURL string
}

// Kind returns the type of inline node, or zero if the node is nil.
func (in *Inline) Kind() InlineKind {
	if in == nil {
		return 0
	}
	return in.kind
}

// Span returns the position information relative to the enclosing
// [RootBlock]'s Source field.
func (in *Inline) Span() Span {
	if in == nil {
		return NullSpan()
	}
	return in.span
}

// ChildCount returns the number of children the node has.
func (in *Inline) ChildCount() int {
	if in == nil {
		return 0
	}
	return len(in.children)
}

// Child returns the i'th child of the node.
func (in *Inline) Child(i int) *Inline {
	return in.children[i]
}

// LinkReference returns the normalized reference label for a
// reference-style [LinkKind]/[ImageKind]/[LinkLabelKind] node,
// or the empty string otherwise.
func (in *Inline) LinkReference() string {
	switch in.Kind() {
	case LinkKind, ImageKind, LinkLabelKind:
		return in.ref
	default:
		return ""
	}
}

// LinkDestination returns the [LinkDestinationKind] child of a
// [LinkKind], [ImageKind], or [LinkReferenceDefinitionKind] node,
// or nil if there is none (for example, a reference-style link
// whose destination must be looked up in a [ReferenceMap]).
func (in *Inline) LinkDestination() *Inline {
	return in.childOfKind(LinkDestinationKind)
}

// LinkTitle returns the [LinkTitleKind] child of a [LinkKind],
// [ImageKind], or [LinkReferenceDefinitionKind] node, or nil if absent.
func (in *Inline) LinkTitle() *Inline {
	return in.childOfKind(LinkTitleKind)
}

func (in *Inline) childOfKind(kind InlineKind) *Inline {
	if in == nil {
		return nil
	}
	for _, c := range in.children {
		if c.kind == kind {
			return c
		}
	}
	return nil
}

// IsEmphasisRun reports whether the inline is an [EmphasisKind],
// [StrongKind], [StrikethroughKind], [SuperscriptKind], [SpoilerKind],
// or [SubscriptKind] node, and returns the delimiter character that
// opened it.
func (in *Inline) IsEmphasisRun() (c byte, ok bool) {
	switch in.Kind() {
	case EmphasisKind, StrongKind, StrikethroughKind, SuperscriptKind, SpoilerKind, SubscriptKind:
		return in.char, true
	default:
		return 0, false
	}
}

// IsDisplayMath reports whether a [MathKind] node is "$$...$$"
// display math as opposed to "$...$" inline math.
func (in *Inline) IsDisplayMath() bool {
	return in.Kind() == MathKind && in.display
}

// IsCodeMath reports whether a [MathKind] node was written in the
// math_code form ("$`...`$") rather than delimited by "$"/"$$" alone.
func (in *Inline) IsCodeMath() bool {
	return in.Kind() == MathKind && in.mathCode
}

// ShortcodeName returns the emoji that the ":name:" of a [ShortcodeKind]
// node resolved to (for example "😄" for ":smile:"), or the empty
// string otherwise.
func (in *Inline) ShortcodeName() string {
	if in.Kind() != ShortcodeKind {
		return ""
	}
	return in.ref
}

// PhilomenaReplacementHTML returns the raw HTML an
// [ImageMentionKind] node should be replaced with, as configured by
// [PhilomenaOptions.Replacements].
func (in *Inline) PhilomenaReplacementHTML() string {
	if in.Kind() != ImageMentionKind {
		return ""
	}
	return in.ref
}

// CamoImageURL returns the Camo-rewritten destination for an
// [ImageKind] node, or the empty string if [PhilomenaOptions.Camo]
// was not configured or the destination was a relative domain.
func (in *Inline) CamoImageURL() string {
	if in.Kind() != ImageKind {
		return ""
	}
	return in.camoDestination
}

// AutolinkURL returns the resolved link destination for a
// [BareAutolinkKind] node, or the empty string otherwise.
func (in *Inline) AutolinkURL() string {
	if in.Kind() != BareAutolinkKind {
		return ""
	}
	return in.autolinkURL
}

// FootnoteReferenceName returns the normalized footnote name for a
// [FootnoteReferenceKind] node, or the empty string otherwise.
func (in *Inline) FootnoteReferenceName() string {
	if in.Kind() != FootnoteReferenceKind {
		return ""
	}
	return in.ref
}

// FootnoteReferenceIndex returns the 1-based order in which the
// footnote name was first referenced, valid only once the document
// has gone through footnote linking (see [LinkFootnotes]).
func (in *Inline) FootnoteReferenceIndex() int {
	if in.Kind() != FootnoteReferenceKind {
		return 0
	}
	return in.footnoteIndex
}

// FootnoteReferenceNumber returns the 1-based occurrence count of this
// reference among all references to the same footnote name (distinct
// from [*Inline.FootnoteReferenceIndex], which is shared by every
// reference to that name), valid only once the document has gone
// through footnote linking (see [LinkFootnotes]).
func (in *Inline) FootnoteReferenceNumber() int {
	if in.Kind() != FootnoteReferenceKind {
		return 0
	}
	return in.refNum
}

// Text returns the logical text content of the node,
// decoding character references and collapsing code span whitespace
// as CommonMark requires. source must be the enclosing [RootBlock]'s Source.
func (in *Inline) Text(source []byte) string {
	if in == nil {
		return ""
	}
	switch in.kind {
	case TextKind, UnparsedKind:
		return string(spanSlice(source, in.span))
	case InfoStringKind:
		if !in.span.IsValid() {
			return in.ref
		}
		return string(spanSlice(source, in.span))
	case LinkLabelKind:
		var sb strings.Builder
		for _, c := range in.children {
			sb.WriteString(c.Text(source))
		}
		return sb.String()
	case LinkDestinationKind, LinkTitleKind:
		var sb strings.Builder
		for _, c := range in.children {
			sb.WriteString(c.Text(source))
		}
		return sb.String()
	case SoftLineBreakKind:
		return "\n"
	case HardLineBreakKind:
		return "\n"
	case IndentKind:
		return spacesString(in.indent)
	case CharacterReferenceKind:
		return decodeCharacterReference(spanSlice(source, in.span))
	case CodeSpanKind:
		return collapseCodeSpanText(source, in)
	case AutolinkKind:
		text := spanSlice(source, in.span)
		if len(text) >= 2 && text[0] == '<' && text[len(text)-1] == '>' {
			text = text[1 : len(text)-1]
		}
		return string(text)
	case RawHTMLKind, HTMLTagKind:
		return string(spanSlice(source, in.span))
	case ShortcodeKind:
		return in.ref
	case ImageMentionKind:
		return string(spanSlice(source, in.span))
	case BareAutolinkKind:
		return string(spanSlice(source, in.span))
	case SmartPunctuationKind:
		return in.ref
	default:
		var sb strings.Builder
		for _, c := range in.children {
			sb.WriteString(c.Text(source))
		}
		return sb.String()
	}
}

func spacesString(n int) string {
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = ' '
	}
	return string(buf)
}

// InlineKind is an enumeration of values returned by [*Inline.Kind].
type InlineKind uint16

const (
	// TextKind is literal text content.
	TextKind InlineKind = 1 + iota
	// SoftLineBreakKind is a line break within a paragraph
	// that is not a [HardLineBreakKind].
	SoftLineBreakKind
	// HardLineBreakKind is a forced line break
	// (two or more trailing spaces, or a backslash before EOL).
	HardLineBreakKind
	// IndentKind is leading whitespace within a block's content
	// that is not semantically significant.
	IndentKind
	// CharacterReferenceKind is an [entity or numeric character reference].
	//
	// [entity or numeric character reference]: https://spec.commonmark.org/0.30/#entity-and-numeric-character-references
	CharacterReferenceKind
	// InfoStringKind is the info string of a [FencedCodeBlockKind] block.
	InfoStringKind
	// EmphasisKind is emphasized ("*"/"_") content.
	EmphasisKind
	// StrongKind is strongly emphasized ("**"/"__") content.
	StrongKind
	// LinkKind is a link. See [*Inline.LinkReference], [*Inline.LinkDestination],
	// and [*Inline.LinkTitle].
	LinkKind
	// ImageKind is an image, structured identically to [LinkKind].
	ImageKind
	// LinkDestinationKind holds a link or image's destination.
	LinkDestinationKind
	// LinkTitleKind holds a link or image's optional title.
	LinkTitleKind
	// LinkLabelKind holds the raw label text of a
	// [LinkReferenceDefinitionKind] block or a reference-style link/image.
	LinkLabelKind
	// CodeSpanKind is an inline code span.
	CodeSpanKind
	// AutolinkKind is an autolink ("<https://example.com>" or "<foo@bar.com>").
	AutolinkKind
	// HTMLTagKind is a single raw HTML tag matched during inline parsing.
	HTMLTagKind
	// RawHTMLKind is raw HTML content collected within an [HTMLBlockKind] block.
	RawHTMLKind
	// UnparsedKind marks inline content that has not yet had [InlineParser.Rewrite] applied.
	UnparsedKind
	// StrikethroughKind is struck-through ("~~"/"~") content.
	StrikethroughKind
	// SuperscriptKind is superscript ("^...^") content.
	SuperscriptKind
	// FootnoteReferenceKind is a "[^name]" footnote reference.
	// See [*Inline.FootnoteReferenceName], [*Inline.FootnoteReferenceIndex],
	// and [*Inline.FootnoteReferenceNumber].
	FootnoteReferenceKind
	// MathKind is an inline or display math span ("$...$"/"$$...$$").
	// See [*Inline.IsDisplayMath].
	MathKind
	// EscapedKind is a backslash-escaped character, rendered as the
	// literal character that followed the backslash.
	EscapedKind
	// SpoilerKind is a Philomena-style "||...||" spoiler span.
	SpoilerKind
	// SubscriptKind is a Philomena-style "%...%" subscript span.
	SubscriptKind
	// ShortcodeKind is a ":name:"-style emoji shortcode.
	// See [*Inline.ShortcodeName].
	ShortcodeKind
	// ImageMentionKind is a Philomena-style ">>1234p" image mention,
	// replaced with configured HTML. See [*Inline.PhilomenaReplacementHTML].
	ImageMentionKind
	// BareAutolinkKind is a GFM-style autolink recognized from plain
	// text rather than delimited by angle brackets: a "www." prefix,
	// a bare "http://"/"https://" URL, or a bare email address.
	// See [*Inline.AutolinkURL].
	BareAutolinkKind
	// SmartPunctuationKind is a run of straight quotes, hyphens, or
	// dots rewritten to its typographic equivalent by
	// [ParseConfig.SmartPunctuation]. [*Inline.Text] returns the
	// replacement text directly, not the literal source bytes.
	SmartPunctuationKind
)
