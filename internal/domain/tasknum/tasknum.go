// Package tasknum implements the task-number scheme for checklist items.
//
// Every checklist item carries a human-readable task number of the form
// PREFIX-NNN, where PREFIX is derived from the owning machine's name and
// NNN is a zero-padded sequence number. The sequence is global per machine
// prefix across all plans, not per plan: the next number for a prefix is
// one past the highest numeric suffix already persisted for that prefix.
package tasknum

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// FallbackPrefix is used when a machine name yields no initials.
const FallbackPrefix = "M"

// ErrMalformedTaskNo is returned when a task number has no parseable
// numeric suffix.
var ErrMalformedTaskNo = errors.New("malformed task number")

// Prefix derives the task-number prefix from a machine's display name:
// the first character of each whitespace-separated word, uppercased and
// concatenated ("Hydraulic Press" becomes "HP"). A name with no words
// falls back to FallbackPrefix.
func Prefix(machineName string) string {
	words := strings.Fields(machineName)
	if len(words) == 0 {
		return FallbackPrefix
	}

	var b strings.Builder
	for _, word := range words {
		first := []rune(word)[0]
		b.WriteRune(unicode.ToUpper(first))
	}
	return b.String()
}

// Format renders a sequence number as PREFIX-NNN with the numeric part
// zero-padded to three digits. Values of 1000 and above keep their
// natural width; they are never truncated.
func Format(prefix string, seq int) string {
	return fmt.Sprintf("%s-%03d", prefix, seq)
}

// Suffix parses the numeric suffix of a task number such as "HP-012".
// Returns ErrMalformedTaskNo if no numeric suffix is present.
func Suffix(taskNo string) (int, error) {
	idx := strings.LastIndex(taskNo, "-")
	if idx < 0 || idx == len(taskNo)-1 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTaskNo, taskNo)
	}

	n, err := strconv.Atoi(taskNo[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTaskNo, taskNo)
	}
	return n, nil
}
