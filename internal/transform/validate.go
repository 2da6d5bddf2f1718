package transform

import (
	"fmt"
	"strconv"
	"time"
)

// Provider field labels for one daily entry.
const (
	fieldOpen   = "1. open"
	fieldHigh   = "2. high"
	fieldLow    = "3. low"
	fieldClose  = "4. close"
	fieldVolume = "5. volume"
)

const dateFormat = "2006-01-02"

// candidate is one daily entry before the final required-field filter.
// Pointers stay nil when a value is absent or does not coerce.
type candidate struct {
	date   time.Time
	open   *float64
	high   *float64
	low    *float64
	close  *float64
	volume *int64
}

// validateEntry checks one (date, fields) entry strictly: the date must
// parse, the four price fields must be present and numeric, and volume must
// be an integer. It returns the coerced candidate or the list of field-level
// reasons the entry was rejected.
func validateEntry(date string, fields map[string]string) (candidate, []string) {
	var c candidate
	var reasons []string

	d, err := time.Parse(dateFormat, date)
	if err != nil {
		reasons = append(reasons, fmt.Sprintf("date %q is not a valid YYYY-MM-DD date", date))
	}
	c.date = d

	for _, f := range []struct {
		label string
		dst   **float64
	}{
		{fieldOpen, &c.open},
		{fieldHigh, &c.high},
		{fieldLow, &c.low},
		{fieldClose, &c.close},
	} {
		raw, ok := fields[f.label]
		if !ok {
			reasons = append(reasons, fmt.Sprintf("missing field %q", f.label))
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			reasons = append(reasons, fmt.Sprintf("field %q value %q is not numeric", f.label, raw))
			continue
		}
		*f.dst = &v
	}

	if raw, ok := fields[fieldVolume]; !ok {
		reasons = append(reasons, fmt.Sprintf("missing field %q", fieldVolume))
	} else if v, err := strconv.ParseInt(raw, 10, 64); err != nil {
		reasons = append(reasons, fmt.Sprintf("field %q value %q is not an integer", fieldVolume, raw))
	} else {
		c.volume = &v
	}

	return c, reasons
}

// coerceEntry converts one entry best-effort: unparseable values become nil
// instead of rejecting the entry. The date must still parse, since it is
// part of the storage key.
func coerceEntry(date string, fields map[string]string) (candidate, bool) {
	d, err := time.Parse(dateFormat, date)
	if err != nil {
		return candidate{}, false
	}

	c := candidate{date: d}
	c.open = parseFloat(fields[fieldOpen])
	c.high = parseFloat(fields[fieldHigh])
	c.low = parseFloat(fields[fieldLow])
	c.close = parseFloat(fields[fieldClose])
	if v, err := strconv.ParseInt(fields[fieldVolume], 10, 64); err == nil {
		c.volume = &v
	}
	return c, true
}

func parseFloat(raw string) *float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
