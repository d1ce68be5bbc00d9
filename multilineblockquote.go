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

// parseMultilineBlockQuoteFence scans a run of '>' at the beginning of
// line, reporting its length if it is a [fence]: three or more
// identical characters.
//
// [fence]: https://github.github.com/gfm/#multiline-block-quote
func parseMultilineBlockQuoteFence(line []byte) (n int) {
	for n < len(line) && line[n] == '>' {
		n++
	}
	if n < 3 {
		return 0
	}
	return n
}

// ContainerMultilineBlockQuoteFence returns the fence length of the
// [MultilineBlockQuoteKind] block currently being matched.
func (p *lineParser) ContainerMultilineBlockQuoteFence() int {
	if p.ContainerKind() != MultilineBlockQuoteKind {
		return 0
	}
	return p.container.n
}

// OpenMultilineBlockQuoteBlock starts a [MultilineBlockQuoteKind] block
// whose closing fence must be at least fenceLength '>' characters, and
// whose continuation lines strip up to fenceOffset leading columns.
func (p *lineParser) OpenMultilineBlockQuoteBlock(fenceLength, fenceOffset int) {
	p.openBlock(MultilineBlockQuoteKind)
	p.container.n = fenceLength
	p.container.indent = fenceOffset
}
