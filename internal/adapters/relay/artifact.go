package relay

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/ledongthuc/pdf"

	perr "trendlens/internal/platform/errors"
)

const previewLimit = 600

// Image is a decoded chart the relay rendered
type Image struct {
	MIME string `json:"mime"`
	Data []byte `json:"data"`
}

// Document is a decoded pdf report with a first page preview
type Document struct {
	Pages   int    `json:"pages"`
	Size    int    `json:"size"`
	Preview string `json:"preview"`
	Data    []byte `json:"data"`
}

// DecodeImage accepts a data URL or bare base64
// a bare payload is sniffed, the relay renders jpeg plots by default
func DecodeImage(s string) (Image, error) {
	s = strings.TrimSpace(s)
	mime := ""
	payload := s
	if meta, data, ok := strings.Cut(s, ","); ok && strings.HasPrefix(meta, "data:") {
		payload = data
		meta = strings.TrimPrefix(meta, "data:")
		if !strings.HasSuffix(meta, ";base64") {
			return Image{}, perr.Upstreamf("relay image is not base64 encoded")
		}
		mime = strings.TrimSuffix(meta, ";base64")
	}
	b, err := decodeBase64(payload)
	if err != nil {
		return Image{}, perr.Wrapf(err, perr.ErrorCodeUpstream, "relay image is not valid base64")
	}
	if mime == "" {
		mime = http.DetectContentType(b)
		if !strings.HasPrefix(mime, "image/") {
			mime = "image/jpeg"
		}
	}
	return Image{MIME: mime, Data: b}, nil
}

// DecodeDocument decodes a base64 pdf and extracts a text preview of page one
func DecodeDocument(s string) (Document, error) {
	s = strings.TrimSpace(s)
	if _, data, ok := strings.Cut(s, ","); ok && strings.HasPrefix(s, "data:") {
		s = data
	}
	b, err := decodeBase64(s)
	if err != nil {
		return Document{}, perr.Wrapf(err, perr.ErrorCodeUpstream, "relay pdf is not valid base64")
	}
	r, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return Document{}, perr.Wrapf(err, perr.ErrorCodeUpstream, "relay pdf is unreadable")
	}
	doc := Document{Pages: r.NumPage(), Size: len(b), Data: b}
	if doc.Pages > 0 {
		text, err := r.Page(1).GetPlainText(nil)
		if err != nil {
			return Document{}, perr.Wrapf(err, perr.ErrorCodeUpstream, "relay pdf text extraction failed")
		}
		doc.Preview = preview(text, previewLimit)
	}
	return doc, nil
}

func decodeBase64(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}

// preview collapses whitespace and cuts at n runes
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n]) + "..."
}
