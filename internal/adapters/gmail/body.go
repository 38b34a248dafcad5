package gmail

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	gmailapi "google.golang.org/api/gmail/v1"
)

// DefaultMaxPartDepth is how many levels below the payload root are searched
const DefaultMaxPartDepth = 2

const mimeTextPlain = "text/plain"

// Part is a node of a message content tree. A leaf carries Data, a
// multipart node carries Parts.
type Part struct {
	MimeType string
	Data     string
	Parts    []*Part
}

// NewPart converts a Gmail payload into a content tree, keeping at most
// maxDepth levels below the root.
func NewPart(payload *gmailapi.MessagePart, maxDepth int) *Part {
	if payload == nil {
		return nil
	}

	part := &Part{MimeType: payload.MimeType}
	if payload.Body != nil {
		part.Data = payload.Body.Data
	}
	if maxDepth > 0 {
		for _, child := range payload.Parts {
			if child == nil {
				continue
			}
			part.Parts = append(part.Parts, NewPart(child, maxDepth-1))
		}
	}
	return part
}

// ExtractText returns the first plain-text payload of the tree. Inline data
// on the root wins; otherwise children are searched for text/plain up to
// maxDepth levels down. It returns "" when nothing is found.
func ExtractText(root *Part, maxDepth int) string {
	if root == nil {
		return ""
	}
	if root.Data != "" {
		return DecodeData(root.Data)
	}

	text, _ := findPlainText(root.Parts, 1, maxDepth)
	return text
}

func findPlainText(parts []*Part, depth, maxDepth int) (string, bool) {
	if depth > maxDepth {
		return "", false
	}

	for _, part := range parts {
		if part == nil {
			continue
		}
		if part.MimeType == mimeTextPlain {
			if part.Data != "" {
				return DecodeData(part.Data), true
			}
			continue
		}
		if len(part.Parts) > 0 {
			if text, ok := findPlainText(part.Parts, depth+1, maxDepth); ok {
				return text, true
			}
		}
	}

	return "", false
}

// DecodeData decodes URL-safe base64 body data. Padding is optional and
// standard-alphabet input is accepted. Malformed input decodes as far as it
// is valid and invalid UTF-8 is replaced, so DecodeData never fails.
func DecodeData(data string) string {
	data = strings.TrimRight(strings.TrimSpace(data), "=")
	data = strings.NewReplacer("+", "-", "/", "_", "\r", "", "\n", "").Replace(data)

	// Keep the longest run of alphabet characters; a lone trailing
	// character carries fewer than 8 bits and is dropped.
	if i := strings.IndexFunc(data, notURLBase64); i >= 0 {
		data = data[:i]
	}
	if len(data)%4 == 1 {
		data = data[:len(data)-1]
	}

	decoded, _ := base64.RawURLEncoding.DecodeString(data)
	if utf8.Valid(decoded) {
		return string(decoded)
	}

	text, err := unicode.UTF8.NewDecoder().Bytes(decoded)
	if err != nil {
		return strings.ToValidUTF8(string(decoded), string(utf8.RuneError))
	}
	return string(text)
}

func notURLBase64(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		return false
	}
	return true
}
