// Package extract pulls identifiers and dates out of free-text questions.
// Every function is total: no match yields "".
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	serialPattern      = regexp.MustCompile(`\s+(\d+)`)
	numericDatePattern = regexp.MustCompile(`\b(\d{2})/(\d{2})/(\d{4})\b`)
	textDatePattern    = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
	timePattern        = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*([ap]\.?m\.?)?`)
)

var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// Serial returns the first run of digits preceded by whitespace.
func Serial(text string) string {
	m := serialPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// Date returns the first MM/DD/YYYY date in text. Failing that, the first
// "Month DD, YYYY" date is returned normalized to MM/DD/YYYY.
func Date(text string) string {
	if m := numericDatePattern.FindString(text); m != "" {
		return m
	}

	m := textDatePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	month := monthNumbers[strings.ToLower(m[1])[:3]]
	day, err := strconv.Atoi(m[2])
	if err != nil || day < 1 || day > 31 {
		return ""
	}
	return fmt.Sprintf("%02d/%02d/%s", month, day, m[3])
}

// Time returns the first clock time in text as HH:MM on a 24 hour clock.
func Time(text string) string {
	m := timePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if minute > 59 {
		return ""
	}

	meridiem := strings.ToLower(strings.ReplaceAll(m[3], ".", ""))
	switch meridiem {
	case "am":
		if hour < 1 || hour > 12 {
			return ""
		}
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour < 1 || hour > 12 {
			return ""
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour > 23 {
			return ""
		}
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
