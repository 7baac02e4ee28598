package export

import (
	"regexp"
	"strings"
	"time"

	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/util"
)

const (
	defaultBase      = "inventory_report"
	maxReferenceCode = 10
)

var (
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)
	spaceRuns   = regexp.MustCompile(`\s+`)
)

// SafeFilename keeps ASCII letters, digits and hyphens, and turns whitespace runs into "_".
func SafeFilename(warehouse string) string {
	cleaned := unsafeChars.ReplaceAllString(warehouse, "")
	return spaceRuns.ReplaceAllString(cleaned, "_")
}

// Filename is {base}_{YYYYMMDD_HHMM}.{ext}.
func Filename(base string, now time.Time, ext string) string {
	if strings.Trim(base, "_") == "" {
		base = defaultBase
	}
	return base + "_" + now.Format("20060102_1504") + "." + strings.TrimPrefix(ext, ".")
}

func DisplayTitle(warehouse, ref string) string {
	if ref == "" {
		return warehouse
	}
	return warehouse + " - " + ref
}

// CleanReferenceCode drops everything but digits.
func CleanReferenceCode(ref string) string {
	return util.DigitsOnly(ref, maxReferenceCode)
}
