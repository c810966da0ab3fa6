package segment

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrNoLabels is returned when a label enumeration is empty.
	ErrNoLabels = errors.New("label enumeration must not be empty")
	// ErrDuplicateLabelValue is returned when two labels share a value.
	ErrDuplicateLabelValue = errors.New("duplicate label value")
	// ErrDuplicateLabelName is returned when two labels share a name.
	ErrDuplicateLabelName = errors.New("duplicate label name")
	// ErrEmptyLabelName is returned for a label without a name.
	ErrEmptyLabelName = errors.New("label name cannot be empty")
	// ErrInvalidLabelValue is returned when a label key is not an integer.
	ErrInvalidLabelValue = errors.New("label value must be an integer")
)

// FallbackLabel names the single segment produced when the enumeration is empty
// and the partition key is missing.
const FallbackLabel = "ALL"

// Label is one expected value of the partition key and its display name.
type Label struct {
	Value int64
	Name  string
}

// Labels is an ordered enumeration of partition key values.
type Labels []Label

// DefaultLabels are the operating modes of the reference testbench.
var DefaultLabels = Labels{
	{Value: 0, Name: "NORMAL"},
	{Value: 1, Name: "ANESTHESIA"},
	{Value: 2, Name: "PSYCHEDELIC"},
	{Value: 3, Name: "FLOW"},
	{Value: 4, Name: "MEDITATION"},
}

// ParseLabels builds an enumeration from a value -> name map, ordered by value.
func ParseLabels(m map[string]string) (Labels, error) {
	labels := make(Labels, 0, len(m))
	for key, name := range m {
		v, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidLabelValue, key)
		}
		labels = append(labels, Label{Value: v, Name: name})
	}
	slices.SortFunc(labels, func(a, b Label) int {
		switch {
		case a.Value < b.Value:
			return -1
		case a.Value > b.Value:
			return 1
		}
		return 0
	})
	if err := labels.Validate(); err != nil {
		return nil, err
	}
	return labels, nil
}

// Validate checks that values and names are unique and names are set.
func (l Labels) Validate() error {
	if len(l) == 0 {
		return ErrNoLabels
	}
	values := make(map[int64]bool, len(l))
	names := make(map[string]bool, len(l))
	for i, lb := range l {
		if lb.Name == "" {
			return fmt.Errorf("labels[%d]: %w", i, ErrEmptyLabelName)
		}
		if values[lb.Value] {
			return fmt.Errorf("labels[%d]: %w: %d", i, ErrDuplicateLabelValue, lb.Value)
		}
		if names[lb.Name] {
			return fmt.Errorf("labels[%d]: %w: %q", i, ErrDuplicateLabelName, lb.Name)
		}
		values[lb.Value] = true
		names[lb.Name] = true
	}
	return nil
}

// Name returns the name of value.
func (l Labels) Name(value int64) (string, bool) {
	for _, lb := range l {
		if lb.Value == value {
			return lb.Name, true
		}
	}
	return "", false
}

// Default is the label used when the partition key was not tracked:
// the first label of the enumeration.
func (l Labels) Default() Label {
	if len(l) == 0 {
		return Label{Name: FallbackLabel}
	}
	return l[0]
}

// Max returns the largest label value.
func (l Labels) Max() int64 {
	var m int64
	for i, lb := range l {
		if i == 0 || lb.Value > m {
			m = lb.Value
		}
	}
	return m
}
