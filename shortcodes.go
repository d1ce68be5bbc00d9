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

// emojiShortcodes maps a GitHub-style ":name:" shortcode to the
// Unicode emoji it represents. It covers the common subset used in
// prose; callers wanting the full Unicode emoji catalog should
// populate a superset through a fork of this table.
var emojiShortcodes = map[string]string{
	"smile":          "😄",
	"smiley":         "😃",
	"grin":           "😁",
	"joy":            "😂",
	"wink":           "😉",
	"blush":          "😊",
	"heart":          "❤️",
	"heart_eyes":     "😍",
	"thinking":       "🤔",
	"thumbsup":       "👍",
	"+1":             "👍",
	"thumbsdown":     "👎",
	"-1":             "👎",
	"clap":           "👏",
	"fire":           "🔥",
	"tada":           "🎉",
	"rocket":         "🚀",
	"eyes":           "👀",
	"cry":            "😢",
	"sob":            "😭",
	"angry":          "😠",
	"rage":           "😡",
	"scream":         "😱",
	"sweat_smile":    "😅",
	"sunglasses":     "😎",
	"wave":           "👋",
	"pray":           "🙏",
	"ok_hand":        "👌",
	"100":            "💯",
	"warning":        "⚠️",
	"x":              "❌",
	"white_check_mark": "✅",
	"star":           "⭐",
	"zap":            "⚡",
	"bug":            "🐛",
	"construction":   "🚧",
	"bulb":           "💡",
	"lock":           "🔒",
	"unlock":         "🔓",
	"book":           "📖",
	"memo":           "📝",
}
