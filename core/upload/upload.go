// ABOUTME: File upload surface for the editor: HTML documents, images and fonts
// ABOUTME: Sniffs content with filetype and converts accepted files to data URIs

package upload

import (
	"encoding/base64"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/gosimple/slug"
	"github.com/h2non/filetype"

	coreerrors "hostgenie-api/core/errors"
	htmlutil "hostgenie-api/pkg/utils/html"
)

// Kind is the class of an uploaded file
type Kind string

const (
	KindHTML  Kind = "html"
	KindImage Kind = "image"
	KindFont  Kind = "font"
)

const (
	MaxHTMLSize  = 5 << 20
	MaxImageSize = 10 << 20
	MaxFontSize  = 10 << 20

	maxTitleLen = 200
)

var fontFamilyPattern = regexp.MustCompile(`^[\p{L}\p{N} _-]{1,64}$`)

var fontMIME = map[string]string{
	".ttf":   "font/ttf",
	".otf":   "font/otf",
	".woff":  "font/woff",
	".woff2": "font/woff2",
}

// Classify decides how an uploaded file is treated from its name and content
func Classify(filename string, data []byte) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case ext == ".html" || ext == ".htm":
		return KindHTML, nil
	case fontMIME[ext] != "":
		return KindFont, nil
	case filetype.IsImage(data):
		return KindImage, nil
	}
	return "", &coreerrors.ValidationError{Field: "file", Message: "unsupported file type " + ext}
}

// HTMLDocument validates an uploaded HTML file and returns its text
func HTMLDocument(data []byte) (string, error) {
	if len(data) == 0 {
		return "", &coreerrors.ValidationError{Field: "file", Message: "file is empty"}
	}
	if len(data) > MaxHTMLSize {
		return "", &coreerrors.ValidationError{Field: "file", Message: "HTML file too large"}
	}
	if !utf8.Valid(data) {
		return "", &coreerrors.ValidationError{Field: "file", Message: "HTML file must be UTF-8"}
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

// ImageDataURI sniffs an image and encodes it as a data URI
func ImageDataURI(data []byte) (string, error) {
	if len(data) == 0 {
		return "", &coreerrors.ValidationError{Field: "file", Message: "file is empty"}
	}
	if len(data) > MaxImageSize {
		return "", &coreerrors.ValidationError{Field: "file", Message: "image too large"}
	}
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown || !filetype.IsImage(data) {
		return "", &coreerrors.ValidationError{Field: "file", Message: "not a recognized image"}
	}
	return DataURI(kind.MIME.Value, data), nil
}

// FontDataURI validates a font file against its extension and encodes it as a data URI
func FontDataURI(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	mime, ok := fontMIME[ext]
	if !ok {
		return "", &coreerrors.ValidationError{Field: "file", Message: "font must be .ttf, .otf, .woff or .woff2"}
	}
	if len(data) == 0 {
		return "", &coreerrors.ValidationError{Field: "file", Message: "file is empty"}
	}
	if len(data) > MaxFontSize {
		return "", &coreerrors.ValidationError{Field: "file", Message: "font too large"}
	}
	if !filetype.Is(data, strings.TrimPrefix(ext, ".")) {
		return "", &coreerrors.ValidationError{Field: "file", Message: "file content does not match " + ext}
	}
	return DataURI(mime, data), nil
}

// FontFamily derives a family name from a font filename by dropping the extension.
// Names with characters a style rule cannot carry are slugified.
func FontFamily(filename string) string {
	base := filepath.Base(filename)
	name := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if fontFamilyPattern.MatchString(name) {
		return name
	}
	if s := slug.Make(name); s != "" && fontFamilyPattern.MatchString(s) {
		return s
	}
	return "custom-font"
}

// DataURI base64-encodes data under the given media type
func DataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ExtractTitle returns the plain text of the document's first <title>, or ""
func ExtractTitle(doc string) string {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return ""
	}
	title := htmlutil.StripHTML(d.Find("title").First().Text())
	return htmlutil.Truncate(title, maxTitleLen)
}
