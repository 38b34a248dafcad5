package gmail

import (
	"encoding/base64"
	"testing"
	"unicode/utf8"

	"github.com/nalgeon/be"
	gmailapi "google.golang.org/api/gmail/v1"
)

func enc(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestExtractText_RootInline(t *testing.T) {
	root := &Part{MimeType: "text/plain", Data: enc("single part body")}
	be.Equal(t, ExtractText(root, DefaultMaxPartDepth), "single part body")

	// Inline data on the root wins even when it is not text/plain.
	root = &Part{MimeType: "text/html", Data: enc("<p>hi</p>")}
	be.Equal(t, ExtractText(root, DefaultMaxPartDepth), "<p>hi</p>")
}

func TestExtractText_Children(t *testing.T) {
	root := &Part{
		MimeType: "multipart/alternative",
		Parts: []*Part{
			{MimeType: "text/html", Data: enc("<p>html</p>")},
			{MimeType: "text/plain", Data: enc("plain")},
		},
	}
	be.Equal(t, ExtractText(root, DefaultMaxPartDepth), "plain")
}

func TestExtractText_Grandchildren(t *testing.T) {
	root := &Part{
		MimeType: "multipart/mixed",
		Parts: []*Part{
			{
				MimeType: "multipart/alternative",
				Parts: []*Part{
					{MimeType: "text/html", Data: enc("<p>html</p>")},
					{MimeType: "text/plain", Data: enc("nested plain")},
				},
			},
			{MimeType: "application/pdf", Data: enc("%PDF")},
		},
	}
	be.Equal(t, ExtractText(root, DefaultMaxPartDepth), "nested plain")
}

func TestExtractText_FirstMatchInTreeOrder(t *testing.T) {
	root := &Part{
		MimeType: "multipart/mixed",
		Parts: []*Part{
			{
				MimeType: "multipart/alternative",
				Parts:    []*Part{{MimeType: "text/plain", Data: enc("first")}},
			},
			{MimeType: "text/plain", Data: enc("second")},
		},
	}
	be.Equal(t, ExtractText(root, DefaultMaxPartDepth), "first")
}

func TestExtractText_SkipsEmptyPlainPart(t *testing.T) {
	root := &Part{
		MimeType: "multipart/alternative",
		Parts: []*Part{
			{MimeType: "text/plain"},
			{MimeType: "text/plain", Data: enc("has data")},
		},
	}
	be.Equal(t, ExtractText(root, DefaultMaxPartDepth), "has data")
}

func TestExtractText_DepthLimit(t *testing.T) {
	deep := &Part{
		MimeType: "multipart/mixed",
		Parts: []*Part{{
			MimeType: "multipart/mixed",
			Parts: []*Part{{
				MimeType: "multipart/alternative",
				Parts:    []*Part{{MimeType: "text/plain", Data: enc("too deep")}},
			}},
		}},
	}
	be.Equal(t, ExtractText(deep, DefaultMaxPartDepth), "")
	be.Equal(t, ExtractText(deep, 3), "too deep")
	be.Equal(t, ExtractText(deep, 0), "")
}

func TestExtractText_NoPlainText(t *testing.T) {
	root := &Part{
		MimeType: "multipart/alternative",
		Parts: []*Part{
			{MimeType: "text/html", Data: enc("<p>only html</p>")},
			{MimeType: "image/png", Data: enc("png")},
		},
	}
	be.Equal(t, ExtractText(root, DefaultMaxPartDepth), "")
	be.Equal(t, ExtractText(nil, DefaultMaxPartDepth), "")
	be.Equal(t, ExtractText(&Part{}, DefaultMaxPartDepth), "")
}

func TestDecodeData(t *testing.T) {
	be.Equal(t, DecodeData(enc("padded?")), "padded?")
	be.Equal(t, DecodeData(base64.RawURLEncoding.EncodeToString([]byte("no padding>>"))), "no padding>>")
	be.Equal(t, DecodeData(base64.StdEncoding.EncodeToString([]byte("std alphabet>>?"))), "std alphabet>>?")
	be.Equal(t, DecodeData(""), "")
}

func TestDecodeData_BestEffort(t *testing.T) {
	// Invalid UTF-8 is replaced rather than failing.
	text := DecodeData(base64.RawURLEncoding.EncodeToString([]byte{'o', 'k', 0xff, 0xfe, '!'}))
	be.True(t, utf8.ValidString(text))
	be.True(t, len(text) >= 3)
	be.Equal(t, text[:2], "ok")

	// Malformed base64 keeps the valid prefix.
	valid := base64.RawURLEncoding.EncodeToString([]byte("abcdef"))
	be.Equal(t, DecodeData(valid+"*!*"), "abcdef")

	// A partial final quantum before the bad bytes is still decoded.
	be.Equal(t, DecodeData("aGVsbG8@@@@"), "hello")
	be.Equal(t, DecodeData("aGVsbG8=@@"), "hello")
	be.Equal(t, DecodeData("aGVsbA@"), "hell")
	be.Equal(t, DecodeData("aGVsbGQx@"), "helld1")
}

func TestNewPart(t *testing.T) {
	payload := &gmailapi.MessagePart{
		MimeType: "multipart/mixed",
		Body:     &gmailapi.MessagePartBody{},
		Parts: []*gmailapi.MessagePart{
			{
				MimeType: "multipart/alternative",
				Parts: []*gmailapi.MessagePart{
					{MimeType: "text/plain", Body: &gmailapi.MessagePartBody{Data: enc("nested")}},
				},
			},
			nil,
		},
	}

	part := NewPart(payload, 2)
	be.Equal(t, part.MimeType, "multipart/mixed")
	be.Equal(t, len(part.Parts), 1)
	be.Equal(t, part.Parts[0].Parts[0].Data, enc("nested"))
	be.Equal(t, ExtractText(part, 2), "nested")

	shallow := NewPart(payload, 1)
	be.Equal(t, len(shallow.Parts[0].Parts), 0)

	be.Equal(t, NewPart(nil, 2) == nil, true)
}
