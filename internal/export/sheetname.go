package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Dnyaneshwarigund12/Invoice-extraction/constants"
)

var invalidSheetChars = strings.NewReplacer(
	"[", "_", "]", "_", ":", "_", "*", "_", "?", "_", "/", "_", `\`, "_",
)

// BaseSheetName derives a sheet name from a document file name: extension
// dropped, characters xlsx rejects replaced, truncated to the sheet-name limit.
func BaseSheetName(doc string) string {
	base := filepath.Base(doc)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = invalidSheetChars.Replace(name)
	// a sheet name may not begin or end with an apostrophe, including after the cut
	name = strings.Trim(truncateRunes(name, constants.SheetNameLimit), "'")
	if strings.TrimSpace(name) == "" {
		name = "Invoice"
	}
	return name
}

// uniqueSheetName returns base, or base with a " (n)" suffix when base is
// taken. taken holds lowercased names since xlsx compares them case-insensitively.
func uniqueSheetName(base string, taken map[string]struct{}) string {
	if _, ok := taken[strings.ToLower(base)]; !ok {
		return base
	}
	for n := 2; ; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name := truncateRunes(base, constants.SheetNameLimit-len(suffix)) + suffix
		if _, ok := taken[strings.ToLower(name)]; !ok {
			return name
		}
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
