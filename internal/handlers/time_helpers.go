package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/staff-scheduler/internal/httperr"
	"github.com/BruksfildServices01/staff-scheduler/internal/timezone"
)

// parseDate reads a YYYY-MM-DD civil date. The location is irrelevant:
// use cases only look at year, month and day.
func parseDate(value, code string) (time.Time, error) {
	if value == "" {
		return time.Time{}, httperr.Validation("missing_" + code)
	}
	d, err := time.Parse(timezone.DateLayout, value)
	if err != nil {
		return time.Time{}, httperr.Validation("invalid_" + code)
	}
	return d, nil
}

func parseOptionalDate(value, code string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return parseDate(value, code)
}

func parseID(value, code string) (uint, error) {
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil || n == 0 {
		return 0, httperr.Validation("invalid_" + code)
	}
	return uint(n), nil
}

func parseOptionalID(value, code string) (uint, error) {
	if value == "" {
		return 0, nil
	}
	return parseID(value, code)
}

// parseIDList reads a comma separated list such as "3,5".
func parseIDList(value, code string) ([]uint, error) {
	var out []uint
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := parseID(part, code)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func parseInt(value string, def int) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return n
}
