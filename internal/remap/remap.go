// Package remap translates tagfile object ids into packfile object names.
package remap

import (
	"fmt"
	"strconv"
	"strings"

	"tag2pack/internal/diagnostic"
	"tag2pack/internal/tagfile"
)

const (
	// SourcePrefix starts every tagfile object id.
	SourcePrefix = "object"
	// TargetPrefix starts every packfile object name.
	TargetPrefix = "#"
	// Null is the packfile literal for "no reference".
	Null = "null"
)

// Func maps a source id to a target name.
type Func func(id string) (string, error)

// Direct keeps the numeral text and swaps the prefix: "object12" -> "#12".
func Direct(id string) (string, error) {
	digits, null, err := parse(id)
	if err != nil {
		return "", err
	}

	if null {
		return Null, nil
	}

	return TargetPrefix + digits, nil
}

// Offset shifts the numeral by a fixed amount, for references to objects
// appended after that many pre-existing packfile objects.
type Offset int

// Remap translates id, keeping the null sentinel null.
func (o Offset) Remap(id string) (string, error) {
	digits, null, err := parse(id)
	if err != nil {
		return "", err
	}

	if null {
		return Null, nil
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return "", fmt.Errorf("%w: malformed object id %q", diagnostic.ErrSchemaResolution, id)
	}

	return TargetPrefix + strconv.Itoa(n+int(o)), nil
}

// parse returns the numeral of id. Only "" and the tagfile null id are null.
func parse(id string) (string, bool, error) {
	if id == "" || id == tagfile.NullID {
		return "", true, nil
	}

	digits, ok := strings.CutPrefix(id, SourcePrefix)
	if !ok || digits == "" || strings.TrimFunc(digits, isDigit) != "" {
		return "", false, fmt.Errorf("%w: malformed object id %q", diagnostic.ErrSchemaResolution, id)
	}

	return digits, false, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
