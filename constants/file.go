package constants

import "strings"

// AllowedExtensions holds the file extensions accepted as invoice documents.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// DefaultInvoiceFiles is the batch processed when no files are named explicitly.
var DefaultInvoiceFiles = []string{
	// Amazon
	"Iphoneinvoicev2.pdf",
	"1.1.pdf",
	"award_1.pdf",
	"Bag invoice main (1).pdf",
	// Flipkart
	"OD333957328941392100-4.pdf",
	"OD330090353912332100.pdf",
	"OD334595557473718100.pdf",
	"OD332423168587976100.pdf",
}

// Text engines understood by the document provider.
const (
	TextEngineNative    = "native"
	TextEnginePdftotext = "pdftotext"
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
