// Package format detects input file formats and dispatches files to the
// registered extractor for their format. Detection prefers content sniffing
// (magic bytes, ZIP member inspection) and falls back to the declared
// extension.
package format

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"strings"
)

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// XLSX indicates a Microsoft Excel (.xlsx) workbook.
	XLSX
	// HTML indicates an HTML document.
	HTML
	// Image indicates a raster image (PNG, JPEG, GIF, BMP, TIFF).
	Image
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case DOCX:
		return "DOCX"
	case XLSX:
		return "XLSX"
	case HTML:
		return "HTML"
	case Image:
		return "Image"
	default:
		return "Unknown"
	}
}

// Detect determines the format from a filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDF
	case ".docx":
		return DOCX
	case ".xlsx":
		return XLSX
	case ".html", ".htm":
		return HTML
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff":
		return Image
	default:
		return Unknown
	}
}

// DetectFromMagic determines the format from content. ZIP containers are
// inspected member-by-member to distinguish DOCX from XLSX. Returns Unknown
// when the content is ambiguous.
func DetectFromMagic(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	// PDF magic: %PDF
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return PDF
	}

	// ZIP magic: PK\x03\x04 (DOCX and XLSX are ZIP archives)
	if data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04 {
		return detectZIPFormat(data)
	}

	if f := detectImageMagic(data); f != Unknown {
		return f
	}

	if detectHTMLMagic(data) {
		return HTML
	}

	return Unknown
}

// detectZIPFormat inspects ZIP members for Office Open XML markers.
func detectZIPFormat(data []byte) Format {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Unknown
	}
	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "word/"):
			return DOCX
		case strings.HasPrefix(f.Name, "xl/"):
			return XLSX
		}
	}
	return Unknown
}

// detectImageMagic recognizes the common raster image signatures.
func detectImageMagic(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return Image
	case bytes.HasPrefix(data, []byte("\xff\xd8\xff")): // JPEG
		return Image
	case bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a")):
		return Image
	case bytes.HasPrefix(data, []byte("BM")): // BMP
		return Image
	case bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*")): // TIFF
		return Image
	default:
		return Unknown
	}
}

// detectHTMLMagic checks whether the data looks like an HTML document.
func detectHTMLMagic(data []byte) bool {
	start := 0
	for start < len(data) && (data[start] == ' ' || data[start] == '\t' || data[start] == '\n' || data[start] == '\r') {
		start++
	}
	if start >= len(data) {
		return false
	}

	limit := len(data) - start
	if limit > 512 {
		limit = 512
	}
	upper := strings.ToUpper(string(data[start : start+limit]))
	return strings.HasPrefix(upper, "<!DOCTYPE HTML") ||
		strings.HasPrefix(upper, "<HTML") ||
		(strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML"))
}

// Resolve combines extension and content detection. Content sniffing wins
// when it produces a definite answer; otherwise the declared extension is
// trusted.
func Resolve(filename string, data []byte) Format {
	if f := DetectFromMagic(data); f != Unknown {
		return f
	}
	return Detect(filename)
}
