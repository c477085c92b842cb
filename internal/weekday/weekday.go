// Package weekday models the set of weekdays on which the room is bookable.
//
// The set is stored and transmitted as a 7-bit integer (Monday = 1, Tuesday = 2,
// ... Sunday = 64). Inside the program it is always a Set; the integer encoding
// only appears at the storage and wire boundaries via Value and FromValue.
package weekday

import (
	"fmt"
	"math/bits"
	"strings"
	"time"
)

// Set is a subset of {Monday..Sunday}. The zero value is the empty set.
type Set uint8

const (
	Monday Set = 1 << iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Weekdays is Monday through Friday.
const Weekdays = Monday | Tuesday | Wednesday | Thursday | Friday

// Weekend is Saturday and Sunday.
const Weekend = Saturday | Sunday

// Every is all seven days.
const Every = Weekdays | Weekend

const maxValue = int64(Every)

// names in Monday-first order, matching bit order.
var names = [7]string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// FromValue decodes the integer encoding. Values outside [0, 127] are rejected.
func FromValue(v int64) (Set, error) {
	if v < 0 || v > maxValue {
		return 0, fmt.Errorf("weekday set value %d out of range [0, %d]", v, maxValue)
	}
	return Set(v), nil
}

// FromNames builds a Set from weekday display names ("Monday", "tuesday", ...).
// Unknown names are rejected; duplicates are harmless.
func FromNames(selected []string) (Set, error) {
	var s Set
	for _, name := range selected {
		bit, ok := bitForName(name)
		if !ok {
			return 0, fmt.Errorf("unknown weekday %q", name)
		}
		s |= bit
	}
	return s, nil
}

func bitForName(name string) (Set, bool) {
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return Set(1) << i, true
		}
	}
	return 0, false
}

// Value returns the integer encoding for storage.
func (s Set) Value() int64 { return int64(s) }

// IsEmpty reports whether no day is active.
func (s Set) IsEmpty() bool { return s == 0 }

// Count returns the number of active days.
func (s Set) Count() int { return bits.OnesCount8(uint8(s)) }

// Contains reports whether the given calendar weekday is active.
func (s Set) Contains(d time.Weekday) bool {
	// time.Weekday counts from Sunday; our bits count from Monday.
	idx := (int(d) + 6) % 7
	return s&(Set(1)<<idx) != 0
}

// Indices returns the 0-based Monday-first indices of active days in
// ascending order.
func (s Set) Indices() []int {
	idx := make([]int, 0, s.Count())
	for i := 0; i < 7; i++ {
		if s&(Set(1)<<i) != 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// Names returns the display names of active days in Monday-first order.
// With simplify, three common sets collapse to a single label.
func (s Set) Names(simplify bool) []string {
	if simplify {
		switch s {
		case Every:
			return []string{"Every day"}
		case Weekend:
			return []string{"During weekend"}
		case Weekdays:
			return []string{"Every week day"}
		}
	}
	out := make([]string, 0, s.Count())
	for i, n := range names {
		if s&(Set(1)<<i) != 0 {
			out = append(out, n)
		}
	}
	return out
}

// Abbreviation returns a comma-joined token per day, Monday first: the
// uppercased first letter when the day is active, "_" otherwise.
// Only Friday active yields "_,_,_,_,F,_,_".
func (s Set) Abbreviation() string {
	tokens := make([]string, 7)
	for i, n := range names {
		if s&(Set(1)<<i) != 0 {
			tokens[i] = strings.ToUpper(n[:1])
		} else {
			tokens[i] = "_"
		}
	}
	return strings.Join(tokens, ",")
}

// String renders the simplified display form, e.g. "Every week day" or
// "Monday, Wednesday".
func (s Set) String() string {
	return strings.Join(s.Names(true), ", ")
}
