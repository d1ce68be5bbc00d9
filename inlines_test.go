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

import (
	"strings"
	"testing"
)

func firstInlineOfKind(root *RootBlock, kind InlineKind) *Inline {
	var found *Inline
	Walk(root.AsNode(), &WalkOptions{
		Pre: func(c *Cursor) bool {
			if found != nil {
				return false
			}
			if in := c.Node().Inline(); in != nil && in.Kind() == kind {
				found = in
				return false
			}
			return true
		},
	})
	return found
}

func parseOneBlock(t *testing.T, source string, opts *Options) *RootBlock {
	t.Helper()
	blocks, refMap := ParseOptions([]byte(source), opts)
	if len(blocks) == 0 {
		t.Fatalf("ParseOptions(%q) returned no blocks", source)
	}
	ip := &InlineParser{ReferenceMatcher: refMap, Options: opts}
	for _, b := range blocks {
		ip.Rewrite(b)
	}
	return blocks[0]
}

func TestPhilomenaSpoilerAndSubscript(t *testing.T) {
	opts := &Options{Extension: ExtensionOptions{Philomena: &PhilomenaOptions{}}}

	root := parseOneBlock(t, "The ||dog dies||.\n", opts)
	spoiler := firstInlineOfKind(root, SpoilerKind)
	if spoiler == nil {
		t.Fatal("no SpoilerKind node found")
	}
	if got := spoiler.Text(root.Source); got != "dog dies" {
		t.Errorf("spoiler text = %q; want %q", got, "dog dies")
	}

	root = parseOneBlock(t, "e = mc%2%.\n", opts)
	sub := firstInlineOfKind(root, SubscriptKind)
	if sub == nil {
		t.Fatal("no SubscriptKind node found")
	}
	if got := sub.Text(root.Source); got != "2" {
		t.Errorf("subscript text = %q; want %q", got, "2")
	}

	// A lone "|" is not a spoiler delimiter.
	root = parseOneBlock(t, "a | b\n", opts)
	if n := firstInlineOfKind(root, SpoilerKind); n != nil {
		t.Errorf("lone '|' produced a SpoilerKind node")
	}
}

func TestPhilomenaImageMention(t *testing.T) {
	opts := &Options{Extension: ExtensionOptions{Philomena: &PhilomenaOptions{
		Replacements: map[string]string{"1234p": `<div id="1234">p</div>`},
	}}}

	root := parseOneBlock(t, "hello world >>1234p >>1337\n", opts)
	mention := firstInlineOfKind(root, ImageMentionKind)
	if mention == nil {
		t.Fatal("no ImageMentionKind node found")
	}
	if got, want := mention.PhilomenaReplacementHTML(), `<div id="1234">p</div>`; got != want {
		t.Errorf("PhilomenaReplacementHTML() = %q; want %q", got, want)
	}
	if got, want := mention.Text(root.Source), ">>1234p"; got != want {
		t.Errorf("Text() = %q; want %q", got, want)
	}
}

func TestPhilomenaCamoImage(t *testing.T) {
	camo := func(u string) string { return "https://camo.example/" + u }
	opts := &Options{Extension: ExtensionOptions{Philomena: &PhilomenaOptions{
		RelativeDomains: []string{"local.example"},
		Camo:            camo,
	}}}

	root := parseOneBlock(t, "![alt](http://i.imgur.com/QqK1vq7.png)\n", opts)
	img := firstInlineOfKind(root, ImageKind)
	if img == nil {
		t.Fatal("no ImageKind node found")
	}
	if got, want := img.CamoImageURL(), "https://camo.example/http://i.imgur.com/QqK1vq7.png"; got != want {
		t.Errorf("CamoImageURL() = %q; want %q", got, want)
	}

	root = parseOneBlock(t, "![alt](http://local.example/x.png)\n", opts)
	img = firstInlineOfKind(root, ImageKind)
	if img == nil {
		t.Fatal("no ImageKind node found")
	}
	if got := img.CamoImageURL(); got != "" {
		t.Errorf("CamoImageURL() for relative domain = %q; want empty", got)
	}
}

func TestShortcode(t *testing.T) {
	opts := &Options{Extension: ExtensionOptions{Shortcodes: true}}

	root := parseOneBlock(t, "nice :thumbsup: work\n", opts)
	sc := firstInlineOfKind(root, ShortcodeKind)
	if sc == nil {
		t.Fatal("no ShortcodeKind node found")
	}
	if got, want := sc.ShortcodeName(), "👍"; got != want {
		t.Errorf("ShortcodeName() = %q; want %q", got, want)
	}

	// An unrecognized name is left as plain text.
	root = parseOneBlock(t, ":not_a_real_emoji_name:\n", opts)
	if n := firstInlineOfKind(root, ShortcodeKind); n != nil {
		t.Errorf("unrecognized shortcode produced a ShortcodeKind node")
	}
}

func TestMathCode(t *testing.T) {
	opts := &Options{Extension: ExtensionOptions{MathCode: true}}

	root := parseOneBlock(t, "Inline math $`1 + 2`$ done\n", opts)
	m := firstInlineOfKind(root, MathKind)
	if m == nil {
		t.Fatal("no MathKind node found")
	}
	if !m.IsCodeMath() {
		t.Error("IsCodeMath() = false; want true")
	}
	if m.IsDisplayMath() {
		t.Error("IsDisplayMath() = true; want false")
	}
}

func TestReferenceMapSizeCap(t *testing.T) {
	// totalSize is passed as 0, so the cap sits at its floor and a
	// destination alone larger than the floor forces the second
	// definition to be dropped, isolating the cap check from real
	// document size.
	big := strings.Repeat("a", minRefMapBytes+1000)
	source := []byte("[first]: /a\n\n[second]: /" + big + "\n")
	blocks, _ := Parse(source)
	m := make(ReferenceMap)
	for _, b := range blocks {
		m.Extract(b.Source, b.AsNode(), 0)
	}
	if _, ok := m["first"]; !ok {
		t.Error(`m["first"] missing; want present`)
	}
	if _, ok := m["second"]; ok {
		t.Error(`m["second"] present; want dropped by the size cap`)
	}
}

func TestBareAutolink(t *testing.T) {
	opts := &Options{Extension: ExtensionOptions{Autolink: true}}

	root := parseOneBlock(t, "Visit https://example.com/path today.\n", opts)
	link := firstInlineOfKind(root, BareAutolinkKind)
	if link == nil {
		t.Fatal("no BareAutolinkKind node found for bare URL")
	}
	if got, want := link.Text(root.Source), "https://example.com/path"; got != want {
		t.Errorf("Text() = %q; want %q", got, want)
	}
	if got, want := link.AutolinkURL(), "https://example.com/path"; got != want {
		t.Errorf("AutolinkURL() = %q; want %q", got, want)
	}

	root = parseOneBlock(t, "See www.github.com.\n", opts)
	link = firstInlineOfKind(root, BareAutolinkKind)
	if link == nil {
		t.Fatal("no BareAutolinkKind node found for www. prefix")
	}
	if got, want := link.Text(root.Source), "www.github.com"; got != want {
		t.Errorf("Text() = %q; want %q", got, want)
	}
	if got, want := link.AutolinkURL(), "http://www.github.com"; got != want {
		t.Errorf("AutolinkURL() = %q; want %q", got, want)
	}

	root = parseOneBlock(t, "Mail jane@example.com now.\n", opts)
	link = firstInlineOfKind(root, BareAutolinkKind)
	if link == nil {
		t.Fatal("no BareAutolinkKind node found for email")
	}
	if got, want := link.AutolinkURL(), "mailto:jane@example.com"; got != want {
		t.Errorf("AutolinkURL() = %q; want %q", got, want)
	}

	// Without the extension, no bare URL is ever recognized.
	plain := parseOneBlock(t, "Visit https://example.com/path today.\n", &Options{})
	if n := firstInlineOfKind(plain, BareAutolinkKind); n != nil {
		t.Errorf("BareAutolinkKind found with Autolink extension disabled")
	}

	// A URL inside brackets is left alone unless relaxed_autolinks is set.
	root = parseOneBlock(t, "[https://example.com]\n", opts)
	if n := firstInlineOfKind(root, BareAutolinkKind); n != nil {
		t.Errorf("BareAutolinkKind found inside brackets without RelaxedAutolinks")
	}
	relaxed := &Options{Extension: ExtensionOptions{Autolink: true}, Parse: ParseConfig{RelaxedAutolinks: true}}
	root = parseOneBlock(t, "[https://example.com]\n", relaxed)
	if n := firstInlineOfKind(root, BareAutolinkKind); n == nil {
		t.Error("no BareAutolinkKind node found inside brackets with RelaxedAutolinks")
	}
}

func TestSmartPunctuation(t *testing.T) {
	opts := &Options{Parse: ParseConfig{SmartPunctuation: true}}

	root := parseOneBlock(t, `'Hello,' "world" ...`+"\n", opts)
	var got []string
	Walk(root.AsNode(), &WalkOptions{
		Pre: func(c *Cursor) bool {
			if in := c.Node().Inline(); in != nil && in.Kind() == SmartPunctuationKind {
				got = append(got, in.Text(root.Source))
			}
			return true
		},
	})
	want := []string{"‘", "’", "“", "”", "…"}
	if len(got) != len(want) {
		t.Fatalf("found %q; want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q; want %q", i, got[i], want[i])
		}
	}

	root = parseOneBlock(t, "em---dash en--dash\n", opts)
	var dashes []string
	Walk(root.AsNode(), &WalkOptions{
		Pre: func(c *Cursor) bool {
			if in := c.Node().Inline(); in != nil && in.Kind() == SmartPunctuationKind {
				dashes = append(dashes, in.Text(root.Source))
			}
			return true
		},
	})
	if len(dashes) != 2 || dashes[0] != "—" || dashes[1] != "–" {
		t.Errorf("dashes = %q; want [\"—\" \"–\"]", dashes)
	}

	// Without the option, straight punctuation is left untouched.
	plain := parseOneBlock(t, `'Hello,' "world" ...`+"\n", &Options{})
	if n := firstInlineOfKind(plain, SmartPunctuationKind); n != nil {
		t.Errorf("SmartPunctuationKind found with SmartPunctuation disabled")
	}
}

func TestDelimiterFlags(t *testing.T) {
	tests := []struct {
		prefix string
		run    string
		suffix string
		want   uint8
	}{
		// Official examples for left-flanking and right-flanking:
		{"", "***", "abc", openerFlag},
		{"  ", "_", "abc", openerFlag},
		{"", "**", `"abc"`, openerFlag},
		{" ", "_", `"abc"`, openerFlag},
		{" abc", "***", "", closerFlag},
		{" abc", "_", "", closerFlag},
		{`"abc"`, "**", "", closerFlag},
		{`"abc"`, "_", "", closerFlag},
		{" abc", "***", "def", openerFlag | closerFlag},
		{`"abc"`, "_", `"def"`, openerFlag | closerFlag},
		{"abc ", "***", " def", 0},
		{"a ", "_", " b", 0},

		// Extra examples to demonstrate
		// https://spec.commonmark.org/0.30/#can-open-emphasis
		// and
		// https://spec.commonmark.org/0.30/#can-close-emphasis.
		{"aa", "_", `"bb"`, closerFlag},
		{`"bb"`, "_", "cc", openerFlag},
		{"foo-", "_", "(bar)", openerFlag | closerFlag},
		{"(bar)", "_", "", closerFlag},
		{"abc", "_", "def", 0},
	}
	for _, test := range tests {
		source := test.prefix + test.run + test.suffix
		span := Span{
			Start: len(test.prefix),
			End:   len(test.prefix) + len(test.run),
		}
		got := emphasisFlags([]byte(source), span)
		if got != test.want {
			t.Errorf("emphasisFlags(%q, %#v) = %#03b; want %#03b", source, span, got, test.want)
		}
	}
}

// TestEmphasisLeftoverCloser verifies that a closer delimiter run
// longer than what it consumes survives in the tree as a shrunk text
// node, rather than being dropped: "**foo***" must produce
// <strong>foo</strong>* per CommonMark, not <strong>foo</strong>.
func TestEmphasisLeftoverCloser(t *testing.T) {
	root := parseOneBlock(t, "**foo***\n", &Options{})
	if got := root.ChildCount(); got != 2 {
		t.Fatalf("ChildCount() = %d; want 2 (Strong, Text(%q))", got, "*")
	}
	strong := root.Child(0).Inline()
	if got := strong.Kind(); got != StrongKind {
		t.Fatalf("children[0].Kind() = %v; want %v", got, StrongKind)
	}
	if got, want := strong.Text(root.Source), "foo"; got != want {
		t.Errorf("strong text = %q; want %q", got, want)
	}
	trailing := root.Child(1).Inline()
	if got := trailing.Kind(); got != TextKind {
		t.Fatalf("children[1].Kind() = %v; want %v", got, TextKind)
	}
	if got, want := trailing.Text(root.Source), "*"; got != want {
		t.Errorf("trailing text = %q; want %q", got, want)
	}
}
