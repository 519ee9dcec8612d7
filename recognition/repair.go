// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package recognition

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/danielhkuo/tallygo/models"
)

var (
	fenceOpen  = regexp.MustCompile("^```[A-Za-z]*\\s*")
	fenceClose = regexp.MustCompile("\\s*```$")
	// greedy: first '{' through last '}'
	braceSpan = regexp.MustCompile(`(?s)\{.*\}`)

	errNoJSON = errors.New("no parseable JSON in model output")
)

// Parse turns raw model content into a sanitized record.
//
// Two parse attempts are made, never more:
//  1. the content with any surrounding code fence removed
//  2. the first-'{'-to-last-'}' span of that text
//
// The parsed value must be a JSON object. Failures return a KindMalformed *Error
// carrying the raw content.
func Parse(content string) (models.ExtractedRecord, error) {
	data, err := extractJSON(content)
	if err != nil {
		return models.ExtractedRecord{}, malformed(content, err)
	}

	rec, err := Sanitize(data)
	if err != nil {
		return models.ExtractedRecord{}, malformed(content, err)
	}
	return rec, nil
}

func extractJSON(content string) ([]byte, error) {
	text := stripFence(content)
	if json.Valid([]byte(text)) {
		return []byte(text), nil
	}

	if span := braceSpan.FindString(text); span != "" && json.Valid([]byte(span)) {
		return []byte(span), nil
	}
	return nil, errNoJSON
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	s = fenceOpen.ReplaceAllString(s, "")
	s = fenceClose.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Sanitize projects every value of a JSON object onto a field-group.
//
// Objects keep only id_letter, vote_id and reg_id, missing ones empty.
// Scalars become {"id_letter": "", "vote_id": <scalar as text>, "reg_id": ""}.
// null and arrays become an empty field-group.
func Sanitize(data []byte) (models.ExtractedRecord, error) {
	members, err := models.DecodeMembers(data)
	if err != nil {
		return models.ExtractedRecord{}, err
	}

	var rec models.ExtractedRecord
	for _, m := range members {
		rec.Set(m.Name, toFieldGroup(m.Value))
	}
	return rec, nil
}

func toFieldGroup(raw json.RawMessage) models.FieldGroup {
	var fields models.FieldGroup

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return fields
	}

	switch raw[0] {
	case '{':
		members, err := models.DecodeMembers(raw)
		if err != nil {
			return fields
		}
		for _, m := range members {
			if _, known := fields.Get(m.Name); known {
				fields.Set(m.Name, stringify(m.Value))
			}
		}
	case '[', 'n':
		// arrays carry no named fields; null is empty
	default:
		fields.VoteID = stringify(raw)
	}
	return fields
}

// stringify renders a JSON value as operator-editable text.
// Numbers are written in shortest form (1.50 → "1.5", 1e3 → "1000").
func stringify(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case 'n':
		return ""
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err == nil {
			return buf.String()
		}
	case 't', 'f':
		return string(raw)
	default:
		return formatNumber(string(raw))
	}
	return string(raw)
}

// formatNumber normalizes a JSON number. Plain integer literals too large for a
// float64 are kept digit for digit so long registration ids survive.
func formatNumber(lit string) string {
	if isIntegerLiteral(lit) {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil && i > -maxExactInt && i < maxExactInt {
			return strconv.FormatInt(i, 10)
		}
		return lit
	}

	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return lit
	}
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'g', -1, 64)
		return strings.NewReplacer("e-0", "e-", "e+0", "e+").Replace(s)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// largest magnitude a float64 holds exactly
const maxExactInt = 1 << 53

func isIntegerLiteral(lit string) bool {
	digits := strings.TrimPrefix(lit, "-")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
