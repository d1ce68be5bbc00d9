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

// Package commonmark provides a [CommonMark] parser,
// optionally extended with GitHub-Flavored-Markdown- and
// Philomena-style extensions.
//
// [CommonMark]: https://commonmark.org/
package commonmark

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// tabStopSize is the multiple of columns that a [tab] advances to.
//
// [tab]: https://spec.commonmark.org/0.30/#tabs
const tabStopSize = 4

// BlockParser splits a stream of CommonMark source into [RootBlock]s.
// Each call to [*BlockParser.NextBlock] returns the next top-level block
// of the document (for example, one paragraph, one list, or one block quote),
// with any inline content left unparsed until [InlineParser.Rewrite] is applied.
type BlockParser struct {
	buf      []byte // current block being parsed
	offset   int64  // offset from beginning of stream to beginning of buf
	parsePos int    // parse position within buf
	lineno   int    // line number of parse position

	opts *Options

	r   io.Reader
	err error // non-nil indicates there is no more data after end of buf
}

// NewBlockParser returns a parser that reads CommonMark source from r,
// recognizing only core CommonMark syntax.
func NewBlockParser(r io.Reader) *BlockParser {
	return &BlockParser{r: r}
}

// NewBlockParserWithOptions is like [NewBlockParser]
// but enables the extensions and parse behaviors named by opts.
func NewBlockParserWithOptions(r io.Reader, opts *Options) *BlockParser {
	return &BlockParser{r: r, opts: opts}
}

// Parse parses the entirety of source as CommonMark,
// recognizing only core CommonMark syntax,
// and returns its top-level blocks along with the document's
// link reference definitions.
func Parse(source []byte) ([]*RootBlock, ReferenceMap) {
	return ParseOptions(source, nil)
}

// ParseOptions is like [Parse] but enables the extensions
// and parse behaviors named by opts.
func ParseOptions(source []byte, opts *Options) ([]*RootBlock, ReferenceMap) {
	if bytes.IndexByte(source, 0) >= 0 {
		// Contains one or more NUL bytes.
		// Replace with Unicode replacement character.
		source = bytes.ReplaceAll(source, []byte{0}, []byte("�"))
	}
	p := &BlockParser{
		buf:  source,
		err:  io.EOF,
		opts: opts,
	}
	var blocks []*RootBlock
	if opts != nil && opts.Extension.FrontMatterDelimiter != "" {
		if m, ok := frontMatterSpan(p.buf, opts.Extension.FrontMatterDelimiter); ok {
			blocks = append(blocks, newFrontMatterBlock(p.buf[:m.end], m))
			p.buf = p.buf[m.end:]
			p.offset = int64(m.end)
			p.lineno = m.lines
		}
	}
	for {
		block, err := p.NextBlock()
		if err == io.EOF {
			break
		}
		if err != nil {
			panic(err)
		}
		blocks = append(blocks, block)
	}

	totalSize := 0
	for _, block := range blocks {
		totalSize += len(block.Source)
	}
	refMap := make(ReferenceMap)
	for _, block := range blocks {
		refMap.Extract(block.Source, block.AsNode(), totalSize)
	}

	ip := &InlineParser{ReferenceMatcher: refMap, Options: opts}
	for _, block := range blocks {
		ip.Rewrite(block)
	}
	if opts != nil && opts.Extension.Footnotes {
		LinkFootnotes(blocks)
	}
	return blocks, refMap
}

// NextBlock reads and returns the next top-level block of the document.
// It returns an error wrapping [io.EOF] once the stream is exhausted.
// The inline content of the returned block is left in its raw,
// [UnparsedKind] form; call [InlineParser.Rewrite] to parse it.
func (p *BlockParser) NextBlock() (*RootBlock, error) {
	// Keep going until we encounter a non-blank line.
	var line []byte
	for {
		line = p.readline()
		if len(line) == 0 {
			return nil, p.err
		}
		if !isBlankLine(line) {
			break
		}
		p.offset += int64(p.parsePos)
		p.buf = p.buf[p.parsePos:]
		p.parsePos = 0
	}

	root := &RootBlock{
		StartLine:   p.lineno,
		StartOffset: p.offset,
	}
	lp := newLineParser(nil, 0, p.buf[:p.parsePos], p.opts)
	hasText := openNewBlocks(lp, true)
	if top := lp.root.lastChild().Block(); top == nil || !top.isOpen() {
		return p.finishRootBlock(root, lp)
	}
	if hasText {
		addLineText(lp)
	}

	for {
		lineStart := p.parsePos
		line = p.readline()
		if len(line) == 0 {
			(&lp.root).close(lp.source, nil, lineStart)
			return p.finishRootBlock(root, lp)
		}

		lp.reset(lineStart, p.buf[:p.parsePos])
		allMatched := descendOpenBlocks(lp)
		hasText = openNewBlocks(lp, allMatched)
		if top := lp.root.lastChild().Block(); top == nil || !top.isOpen() {
			p.parsePos = lineStart
			return p.finishRootBlock(root, lp)
		}
		if hasText {
			addLineText(lp)
		}
	}
}

func (p *BlockParser) finishRootBlock(root *RootBlock, lp *lineParser) (*RootBlock, error) {
	top := lp.root.lastChild().Block()
	if top != nil {
		root.Block = *top
	}
	root.Source = p.consume()
	root.EndOffset = root.StartOffset + int64(len(root.Source))
	return root, nil
}

// descendOpenBlocks iterates through the open blocks,
// starting at the top-level block,
// and descending through last children down to the last open block.
// It leaves p.container at the deepest block whose continuation matched.
//
// This corresponds to the first step of [Phase 1]
// in the CommonMark recommended parsing strategy.
//
// [Phase 1]: https://spec.commonmark.org/0.30/#phase-1-block-structure
func descendOpenBlocks(p *lineParser) (allMatched bool) {
	p.container = &p.root
	child := p.container.lastChild().Block()
	for child.isOpen() {
		rule := blockRules[child.kind]
		if rule.match == nil {
			return false
		}
		parent := p.container
		p.container = child
		p.state = stateDescending
		if !rule.match(p) {
			p.container = parent
			return false
		}
		child = child.lastChild().Block()
	}
	return true
}

// openNewBlocks looks for new block starts,
// closing any blocks unmatched in step 1
// before creating new blocks as descendants of the last matched container block.
// openNewBlocks sets p.container to the deepest open block.
//
// This corresponds to the second step of [Phase 1]
// in the CommonMark recommended parsing strategy.
//
// [Phase 1]: https://spec.commonmark.org/0.30/#phase-1-block-structure
func openNewBlocks(p *lineParser, allMatched bool) (hasText bool) {
	if len(p.line) == 0 {
		(&p.root).close(p.source, nil, p.lineStart)
		return false
	}

	if !allMatched {
		defer func() {
			// Special case: [paragraph continuation text].
			// Rather than closing the unmatched paragraph,
			// move the container pointer to it.
			//
			// [paragraph continuation text]: https://spec.commonmark.org/0.30/#paragraph-continuation-text
			if !p.IsRestBlank() {
				if tip := findTip(&p.root); tip.Kind() == ParagraphKind {
					p.container = tip
					return
				}
			}
			p.container.lastChild().Block().close(p.source, p.container, p.lineStart)
		}()
	}

openingLoop:
	for (&p.root).isOpen() &&
		(p.ContainerKind() == ParagraphKind || !blockRules[p.ContainerKind()].acceptsLines) {
		for _, startFunc := range blockStarts {
			p.state = stateOpening
			startFunc(p)
			switch p.state {
			case stateOpenMatched:
				continue openingLoop
			case stateLineConsumed:
				return false
			}
		}
		// Hit the text.
		return true
	}
	return true
}

func addLineText(p *lineParser) {
	isBlank := p.IsRestBlank()
	if lastChild := p.container.lastChild().Block(); lastChild != nil && isBlank {
		lastChild.lastLineBlank = true
	}
	lastLineBlank := isBlank && !(p.ContainerKind() == BlockQuoteKind ||
		p.ContainerKind() == FencedCodeBlockKind ||
		(p.ContainerKind() == ListItemKind && p.container.ChildCount() == 0))
	for c := p.container; c != nil; c = findParent(&p.root, c) {
		c.lastLineBlank = lastLineBlank
	}

	switch {
	case blockRules[p.ContainerKind()].acceptsLines:
		p.CollectInline(rawLineKind(p.ContainerKind()), len(p.line)-p.i)
	case !isBlank:
		p.OpenBlock(ParagraphKind)
		if p.container == nil {
			return
		}
		p.CollectInline(UnparsedKind, len(p.line)-p.i)
	default:
		return
	}
}

// rawLineKind reports the [InlineKind] that a continuation line
// of a block of the given kind should be collected as.
// Code and HTML blocks store their lines as already-final kinds,
// since their onClose handlers and [InlineParser.Rewrite] never
// re-tokenize them as markdown; every other accepts-lines block
// (paragraphs, headings) stores raw text as [UnparsedKind]
// for [InlineParser.Rewrite] to parse later.
func rawLineKind(kind BlockKind) InlineKind {
	switch kind {
	case IndentedCodeBlockKind, FencedCodeBlockKind:
		return TextKind
	case HTMLBlockKind:
		return RawHTMLKind
	default:
		return UnparsedKind
	}
}

func findParent(root *Block, b *Block) *Block {
	for parent, curr := (*Block)(nil), root; ; {
		if curr == nil {
			return nil
		}
		if curr == b {
			return parent
		}
		parent = curr
		curr = curr.lastChild().Block()
	}
}

// findTip finds the deepest open descendant of b.
func findTip(b *Block) *Block {
	var parent *Block
	for b.isOpen() {
		parent, b = b, b.lastChild().Block()
	}
	return parent
}

// readline reads the next line of input, growing p.buf as necessary.
// It will return a zero-length slice if and only if it has reached the end of input.
// After calling readline, p.lineno will contain the current line's number.
func (p *BlockParser) readline() []byte {
	const (
		chunkSize    = 8 * 1024
		maxBlockSize = 1024 * 1024
	)

	eolEnd := -1
	for {
		// Check if we have a line ending available.
		if i := bytes.IndexAny(p.buf[p.parsePos:], "\r\n"); i >= 0 {
			eolStart := p.parsePos + i
			if p.buf[eolStart] == '\n' {
				eolEnd = eolStart + 1
				break
			}
			if eolStart+1 < len(p.buf) {
				// Carriage return with enough buffer for 1 byte lookahead.
				eolEnd = eolStart + 1
				if p.buf[eolEnd] == '\n' {
					eolEnd++
				}
				break
			}
			if p.err != nil {
				// Carriage return right before EOF.
				eolEnd = len(p.buf)
				break
			}
		}

		// If we don't have any more line ending available,
		// but we're at EOF, return everything we have.
		if p.err != nil {
			eolEnd = len(p.buf)
			break
		}

		// If we're already at the maximum block size,
		// then drop the line and pretend it's an EOF.
		if len(p.buf) >= maxBlockSize {
			p.lineno++
			p.buf = p.buf[:p.parsePos]
			p.err = fmt.Errorf("line %d: block too large", p.lineno)
			return nil
		}

		// Grab more data from the reader.
		newSize := len(p.buf) + chunkSize
		if newSize > maxBlockSize {
			newSize = maxBlockSize
		}
		if cap(p.buf) < newSize {
			newbuf := make([]byte, len(p.buf), newSize)
			copy(newbuf, p.buf)
			p.buf = newbuf
		}
		var n int
		n, p.err = p.r.Read(p.buf[len(p.buf):newSize])
		p.buf = p.buf[:len(p.buf)+n]
		if chunk := p.buf[len(p.buf)-n:]; bytes.IndexByte(chunk, 0) >= 0 {
			// Replace NUL bytes with the Unicode Replacement Character.
			old := len(p.buf) - n
			p.buf = append(p.buf[:old:old], bytes.ReplaceAll(chunk, []byte{0}, []byte("�"))...)
		}
	}

	line := p.buf[p.parsePos:eolEnd]
	p.parsePos = eolEnd
	p.lineno++
	return line
}

func (p *BlockParser) consume() []byte {
	out := p.buf[:p.parsePos:p.parsePos]
	p.offset += int64(p.parsePos)
	p.buf = p.buf[p.parsePos:]
	p.parsePos = 0
	return out
}

// columnWidth returns the width of the given text in columns
// given the 0-based column starting position.
func columnWidth(start int, b []byte) int {
	end := start
	for _, bi := range b {
		switch {
		case bi == '\t':
			// Assumes tabStopSize is a power-of-two.
			end = (end + tabStopSize) &^ (tabStopSize - 1)
		case bi&0x80 == 0:
			// End of code point or ASCII character.
			end++
		}
	}
	return end - start
}

func indentLength(line []byte) int {
	for i, b := range line {
		if b != ' ' && b != '\t' {
			return i
		}
	}
	return len(line)
}

func isBlankLine(line []byte) bool {
	for _, b := range line {
		if !(b == '\r' || b == '\n' || b == ' ' || b == '\t') {
			return false
		}
	}
	return true
}

func hasTabOrSpacePrefixOrEOL(line []byte) bool {
	return len(line) == 0 ||
		line[0] == ' ' ||
		line[0] == '\t' ||
		line[0] == '\n' ||
		line[0] == '\r'
}

func isASCIIDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isASCIILetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isSpaceTabOrLineEnding(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// isEndEscaped reports whether s ends with an odd number of backslashes.
func isEndEscaped(s []byte) bool {
	n := 0
	for ; n < len(s); n++ {
		if s[len(s)-n-1] != '\\' {
			break
		}
	}
	return n%2 == 1
}

func hasBytePrefix(b []byte, prefix string) bool {
	return len(b) >= len(prefix) && string(b[:len(prefix)]) == prefix
}

func contains(b []byte, substr string) bool {
	return bytes.Contains(b, []byte(substr))
}

func lineCount(b []byte) int {
	return bytes.Count(b, []byte("\n"))
}

// frontMatterMatch describes a leading front-matter block found by
// [frontMatterSpan]: the byte offsets of its opening/closing delimiter
// lines and the body text between them, plus the number of source
// lines it occupies (for [BlockParser] line-number bookkeeping).
type frontMatterMatch struct {
	end       int // offset just past the closing delimiter line
	lines     int
	bodyStart int
	bodyEnd   int
}

// frontMatterSpan implements spec.md §4.1 step 1: a leading
// front-matter block is present only if the very first line of the
// document is exactly delimiter on its own line and some later line
// is also exactly delimiter. Only the first line is ever checked as
// an opener; a delimiter appearing later in the document with no
// matching opener on line 1 is ordinary content.
func frontMatterSpan(source []byte, delimiter string) (m frontMatterMatch, ok bool) {
	if delimiter == "" {
		return frontMatterMatch{}, false
	}
	first, firstEnd := splitRawLine(source, 0)
	if trimLineEnding(first) != delimiter {
		return frontMatterMatch{}, false
	}
	pos := firstEnd
	lines := 1
	for pos < len(source) {
		line, lineEnd := splitRawLine(source, pos)
		lines++
		if trimLineEnding(line) == delimiter {
			return frontMatterMatch{
				end:       lineEnd,
				lines:     lines,
				bodyStart: firstEnd,
				bodyEnd:   pos,
			}, true
		}
		pos = lineEnd
	}
	return frontMatterMatch{}, false
}

// splitRawLine returns the line beginning at pos, including its line
// ending, and the offset just past it.
func splitRawLine(source []byte, pos int) (line []byte, end int) {
	rest := source[pos:]
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		return rest[:i+1], pos + i + 1
	}
	return rest, len(source)
}

func trimLineEnding(line []byte) string {
	return strings.TrimSuffix(strings.TrimSuffix(string(line), "\n"), "\r")
}

// newFrontMatterBlock builds the [FrontMatterKind] [RootBlock] for a
// front-matter span already located by [frontMatterSpan]. raw is the
// block's full source, including both delimiter lines; the body
// between them (if non-empty) becomes a single [TextKind] child,
// mirroring how other leaf blocks store their unparsed content.
func newFrontMatterBlock(raw []byte, m frontMatterMatch) *RootBlock {
	root := &RootBlock{
		StartLine:   1,
		StartOffset: 0,
		Source:      raw,
		EndOffset:   int64(len(raw)),
	}
	root.kind = FrontMatterKind
	root.span = Span{Start: 0, End: len(raw)}
	if m.bodyEnd > m.bodyStart {
		root.inlineChildren = []*Inline{{
			kind: TextKind,
			span: Span{Start: m.bodyStart, End: m.bodyEnd},
		}}
	}
	return root
}
