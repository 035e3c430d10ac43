// Package validate is a generic constraint checker for flat value bags.
// A Schema declares three disjoint field sets: option fields with fixed
// allowed values, timestamp fields carrying decimal millisecond strings,
// and free-text string fields. Validation produces a normalized partial
// record with timestamps converted to epoch milliseconds. The package is a
// pure transform; it knows nothing about documents or storage.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var (
	ErrMissingField     = errors.New("missing field")
	ErrInvalidOption    = errors.New("invalid option")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrEmptyUpdate      = errors.New("no attributes specified")
	ErrInvalidColor     = errors.New("provided color value is invalid")
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Schema declares the constrained fields of one record type.
type Schema struct {
	// Options maps a field name to its fixed allowed-value set.
	Options map[string][]string
	// Timestamps lists fields whose input is a base-10 string of
	// milliseconds since the epoch.
	Timestamps []string
	// Strings lists opaque free-text fields.
	Strings []string
}

// Validate checks that every declared field is present in bag and returns
// the normalized record. Fails with ErrMissingField naming the first
// absent field.
func (s Schema) Validate(bag map[string]any) (map[string]any, error) {
	for name := range s.Options {
		if _, ok := bag[name]; !ok {
			return nil, missing(name)
		}
	}
	for _, name := range s.Timestamps {
		if _, ok := bag[name]; !ok {
			return nil, missing(name)
		}
	}
	for _, name := range s.Strings {
		if _, ok := bag[name]; !ok {
			return nil, missing(name)
		}
	}
	return s.ValidatePartial(bag)
}

// ValidatePartial checks only the fields present in bag: option fields
// must match one of their allowed values and timestamp fields must parse,
// then the normalized record is extracted. Fails with ErrEmptyUpdate when
// no declared field is present at all.
func (s Schema) ValidatePartial(bag map[string]any) (map[string]any, error) {
	for name, allowed := range s.Options {
		v, ok := bag[name]
		if !ok {
			continue
		}
		str, ok := v.(string)
		if !ok || !contains(allowed, str) {
			return nil, fmt.Errorf("%w: provided %s value is invalid", ErrInvalidOption, name)
		}
	}
	for _, name := range s.Timestamps {
		v, ok := bag[name]
		if !ok {
			continue
		}
		str, ok := v.(string)
		if !ok {
			return nil, badTimestamp(name)
		}
		if _, err := EpochMS(str); err != nil {
			return nil, badTimestamp(name)
		}
	}
	for _, name := range s.Strings {
		v, ok := bag[name]
		if !ok {
			continue
		}
		if _, ok := v.(string); !ok {
			return nil, fmt.Errorf("%w: provided %s value is invalid", ErrInvalidOption, name)
		}
	}
	return s.extract(bag)
}

// extract copies option and string fields verbatim and converts timestamp
// fields to epoch milliseconds. The callers above have already verified
// constraints; extract only shapes the record.
func (s Schema) extract(bag map[string]any) (map[string]any, error) {
	record := make(map[string]any)

	for name := range s.Options {
		if v, ok := bag[name]; ok {
			record[name] = v
		}
	}
	for _, name := range s.Strings {
		if v, ok := bag[name]; ok {
			record[name] = v
		}
	}
	for _, name := range s.Timestamps {
		v, ok := bag[name]
		if !ok {
			continue
		}
		str, ok := v.(string)
		if !ok {
			return nil, badTimestamp(name)
		}
		ms, err := EpochMS(str)
		if err != nil {
			return nil, badTimestamp(name)
		}
		record[name] = ms
	}

	if len(record) == 0 {
		return nil, ErrEmptyUpdate
	}
	return record, nil
}

// EpochMS parses a base-10 string of milliseconds since the epoch.
func EpochMS(s string) (int64, error) {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}
	return ms, nil
}

// Color accepts exactly #RRGGBB with hex digits, case-insensitive.
func Color(s string) error {
	if !colorPattern.MatchString(s) {
		return ErrInvalidColor
	}
	return nil
}

func missing(name string) error {
	return fmt.Errorf("%w: no %s value provided", ErrMissingField, name)
}

func badTimestamp(name string) error {
	return fmt.Errorf("%w: provided %s value is invalid", ErrInvalidTimestamp, name)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
