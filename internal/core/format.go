package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders a byte count in 1024-based units, picking the largest
// unit whose scaled value is at least 1 and rounding to two decimals.
//
//	FormatFileSize(0)       // "0 Bytes"
//	FormatFileSize(1536)    // "1.5 KB"
//	FormatFileSize(1048576) // "1 MB"
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	// integer comparison avoids log rounding at exact powers of 1024
	i, unit := 0, int64(1)
	for i < len(sizeUnits)-1 && bytes >= unit*1024 {
		i++
		unit *= 1024
	}

	scaled := float64(bytes) / float64(unit)
	return trimFloat(scaled, 2) + " " + sizeUnits[i]
}

// FormatColumnName turns a server column key into a header label:
// "total_measurements" becomes "Total Measurements". Only the first rune of
// each word is title-cased, so "Has_OOT_Values" stays "Has OOT Values" and
// "dim_2nd" becomes "Dim 2nd". Any non-alphanumeric rune starts a new word.
func FormatColumnName(column string) string {
	caser := cases.Title(language.Und)

	var b strings.Builder
	inWord := false
	for _, r := range strings.ReplaceAll(column, "_", " ") {
		word := unicode.IsLetter(r) || unicode.IsDigit(r)
		if word && !inWord {
			b.WriteString(caser.String(string(r)))
		} else {
			b.WriteRune(r)
		}
		inWord = word
	}
	return b.String()
}

// FormatCell renders a non-reserved preview value. Numbers are rounded to six
// decimals with trailing zeros dropped; nil renders empty.
func FormatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return val.String()
		}
		return trimFloat(f, 6)
	case float64:
		return trimFloat(val, 6)
	case float32:
		return trimFloat(float64(val), 6)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// FormatModTime renders a file's last-modified date for the selection listing.
func FormatModTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("1/2/2006")
}

// trimFloat rounds f to the given number of decimals and drops trailing zeros.
func trimFloat(f float64, decimals int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	p := math.Pow(10, float64(decimals))
	if math.IsInf(f*p, 0) {
		// too large to scale; nothing to round at this magnitude anyway
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	r := math.Round(f*p) / p
	if r == 0 {
		// avoid "-0"
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
