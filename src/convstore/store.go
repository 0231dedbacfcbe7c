// Package convstore holds the message sequence for one session and
// offers a cheap token-cost estimate plus an auto-compression operator
// that keeps long-running conversations within budget.
package convstore

import (
	"fmt"
	"unicode"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
)

const (
	// DefaultTokenBudget is the nominal context budget compression
	// targets staying under.
	DefaultTokenBudget = 8000
	// AutoCompressThresholdRatio triggers compression once the estimate
	// crosses this fraction of DefaultTokenBudget.
	AutoCompressThresholdRatio = 0.8
	// MinMessagesForAutoCompress: compression only fires once the
	// conversation has grown past this many messages, even if the
	// token estimate alone would already cross threshold.
	MinMessagesForAutoCompress = 10
	// RetainTail is how many trailing messages auto-compression always
	// keeps verbatim.
	RetainTail = 6
	// ManualRetainRounds is the "last N rounds" policy for the
	// user-facing manual compression command; manualRetainTail converts
	// it to messages assuming a user/assistant cadence (two per round).
	ManualRetainRounds = 3
	manualRetainTail   = ManualRetainRounds * 2
)

// EstimateTokens approximates token cost as
// 1.5 * count(CJK characters) + 0.25 * count(ascii-letter words), summed
// across every message. It is deliberately cheap and monotonic; exact
// accuracy is not required.
func EstimateTokens(conv *bailucore.Conversation) float64 {
	var total float64
	for _, m := range conv.Messages {
		total += estimateMessageTokens(m.Content)
	}
	return total
}

func estimateMessageTokens(content string) float64 {
	var cjk int
	var inWord bool
	var words int
	for _, r := range content {
		if isCJK(r) {
			cjk++
			inWord = false
			continue
		}
		if unicode.IsLetter(r) && r < 128 {
			if !inWord {
				words++
				inWord = true
			}
		} else {
			inWord = false
		}
	}
	return 1.5*float64(cjk) + 0.25*float64(words)
}

func isCJK(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF: // CJK Unified Ideographs
		return true
	case r >= 0x3400 && r <= 0x4DBF: // CJK Extension A
		return true
	case r >= 0x3040 && r <= 0x30FF: // Hiragana/Katakana
		return true
	case r >= 0xAC00 && r <= 0xD7A3: // Hangul syllables
		return true
	default:
		return false
	}
}

// ShouldAutoCompress reports whether the auto-compression trigger fires:
// both the token estimate exceeds threshold AND the message count
// exceeds MinMessagesForAutoCompress.
func ShouldAutoCompress(conv *bailucore.Conversation) bool {
	if len(conv.Messages) <= MinMessagesForAutoCompress {
		return false
	}
	return EstimateTokens(conv) > DefaultTokenBudget*AutoCompressThresholdRatio
}

// AutoCompress preserves index 0 (system), replaces everything between it
// and the last RetainTail elements with a single system-role elision
// marker, and keeps the last RetainTail elements verbatim. A no-op if the
// conversation is already short enough that there's nothing to elide.
func AutoCompress(conv *bailucore.Conversation) {
	compress(conv, RetainTail)
}

// ManualCompress implements the user-facing "retain last 3 rounds"
// command: identical mechanics to AutoCompress with the same six-message
// tail (three rounds), and a
// safe no-op (with a notice appended) when there are too few messages to
// meaningfully compress.
func ManualCompress(conv *bailucore.Conversation) (didCompress bool) {
	if len(conv.Messages) <= manualRetainTail+1 {
		conv.Append(bailucore.RoleSystem, "Nothing to compress: conversation is already short.")
		return false
	}
	compress(conv, manualRetainTail)
	return true
}

func compress(conv *bailucore.Conversation, tail int) {
	if len(conv.Messages) <= tail+1 {
		return // system message plus tail already covers everything
	}

	system := conv.Messages[0]
	elided := conv.Messages[1 : len(conv.Messages)-tail]
	kept := conv.Messages[len(conv.Messages)-tail:]

	marker := bailucore.Message{
		Role:    bailucore.RoleSystem,
		Content: fmt.Sprintf("[compressed %d earlier messages]", len(elided)),
	}

	out := make([]bailucore.Message, 0, 2+len(kept))
	out = append(out, system, marker)
	out = append(out, kept...)
	conv.Messages = out
}
