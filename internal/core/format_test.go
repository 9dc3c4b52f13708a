package core

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 Bytes"},
		{1, "1 Bytes"},
		{1023, "1023 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1048576, "1 MB"},
		{1572864, "1.5 MB"},
		{1234567, "1.18 MB"},
		{1073741824, "1 GB"},
		{5 * 1099511627776, "5120 GB"},
		{-5, "0 Bytes"},
	}

	for _, tt := range tests {
		if got := FormatFileSize(tt.bytes); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestFormatColumnName(t *testing.T) {
	tests := []struct {
		column string
		want   string
	}{
		{"total_measurements", "Total Measurements"},
		{"Has_OOT_Values", "Has OOT Values"},
		{"Part_Number", "Part Number"},
		{"source_file", "Source File"},
		{"DIM1_2", "DIM1 2"},
		{"dim_2nd", "Dim 2nd"},
		{"DIM_1_2a", "DIM 1 2a"},
		{"part.no", "Part.No"},
		{"abc2def", "Abc2def"},
		{"unit", "Unit"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := FormatColumnName(tt.column); got != tt.want {
			t.Errorf("FormatColumnName(%q) = %q, want %q", tt.column, got, tt.want)
		}
	}
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil is empty", nil, ""},
		{"json integer", json.Number("42"), "42"},
		{"json decimal rounded", json.Number("1.23456789"), "1.234568"},
		{"trailing zeros dropped", json.Number("2.500000"), "2.5"},
		{"negative", json.Number("-0.0000004"), "0"},
		{"float64", 3.1400001, "3.14"},
		{"too large to round", 1e303, "1" + strings.Repeat("0", 303)},
		{"json too large to round", json.Number("-1e303"), "-1" + strings.Repeat("0", 303)},
		{"string", "Part_001", "Part_001"},
		{"empty string", "", ""},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCell(tt.value); got != tt.want {
				t.Errorf("FormatCell(%#v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestFormatModTime(t *testing.T) {
	if got := FormatModTime(time.Time{}); got != "" {
		t.Errorf("zero time = %q, want empty", got)
	}
	ts := time.Date(2024, 3, 7, 15, 4, 5, 0, time.Local)
	if got := FormatModTime(ts); got != "3/7/2024" {
		t.Errorf("FormatModTime = %q, want 3/7/2024", got)
	}
}
