package utils

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

// Ellipsis is appended to previews
const Ellipsis = "..."

// TextProcessor provides utilities for processing text
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// TruncateText truncates text to at most maxRunes runes.
// A maxRunes of zero or less disables truncation.
func (tp *TextProcessor) TruncateText(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	count := 0
	for i := range text {
		if count == maxRunes {
			tp.logger.Debug("Text truncated",
				zap.Int("original_size", len(text)),
				zap.Int("truncated_size", i),
				zap.Int("max_runes", maxRunes))
			return text[:i]
		}
		count++
	}
	return text
}

// Preview returns the first maxRunes runes of text followed by an ellipsis
func (tp *TextProcessor) Preview(text string, maxRunes int) string {
	return tp.TruncateText(text, maxRunes) + Ellipsis
}

// SanitizeUTF8 replaces invalid UTF-8 sequences with the Unicode
// replacement character
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	sanitized, err := unicode.UTF8.NewDecoder().String(text)
	if err != nil {
		sanitized = strings.ToValidUTF8(text, string(utf8.RuneError))
	}

	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(sanitized)))

	return sanitized
}

// PrepareForEmbedding sanitizes, NFC-normalizes and truncates text
func (tp *TextProcessor) PrepareForEmbedding(text string, maxRunes int) string {
	text = norm.NFC.String(tp.SanitizeUTF8(text))
	return tp.TruncateText(text, maxRunes)
}
