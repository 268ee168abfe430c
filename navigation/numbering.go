package navigation

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// PageNumber is either an arabic number or a Roman numeral.
type PageNumber struct {
	Arabic int    `json:"arabic,omitempty"`
	Roman  string `json:"roman,omitempty"`
}

func (n PageNumber) IsRoman() bool {
	return n.Roman != ""
}

func (n PageNumber) String() string {
	if n.IsRoman() {
		return n.Roman
	}
	return strconv.Itoa(n.Arabic)
}

// Label is the running header text, e.g. "page 12" or "page iv".
func (n PageNumber) Label() string {
	return "page " + strings.ToLower(n.String())
}

// PageNumberMap maps unit ids onto their display number.
type PageNumberMap map[string]PageNumber

// FormatFunc resolves the numbering format in effect for an entry.
type FormatFunc func(e Entry) NumberFormat

// Numberer assigns display numbers to a sequence.
type Numberer struct {
	Start    int
	FormatOf FormatFunc
	Logger   *zap.Logger
}

// Number walks seq in order. Roman entries take the running counter as a
// numeral; the first arabic entry resets the counter to Start, exactly once,
// after which it keeps counting.
func (n Numberer) Number(seq Sequence) PageNumberMap {
	start := n.Start
	if start <= 0 {
		start = 1
	}
	logger := n.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	numbers := make(PageNumberMap, len(seq.Entries))
	counter := start
	reset := false
	for _, e := range seq.Entries {
		format := NumberFormatArabic
		if n.FormatOf != nil {
			if f := n.FormatOf(e); f != NumberFormatNone {
				format = f
			}
		}

		if format == NumberFormatRoman {
			roman, err := ToRoman(counter)
			if err == nil {
				numbers[e.Unit.ID] = PageNumber{Roman: roman}
				counter++
				continue
			}
			logger.Warn("page number out of roman range, using arabic",
				zap.String("unit", e.Unit.ID), zap.Int("number", counter), zap.Error(err))
		} else if !reset {
			counter = start
			reset = true
		}
		numbers[e.Unit.ID] = PageNumber{Arabic: counter}
		counter++
	}
	return numbers
}

// Number numbers seq using only the units' own overrides.
func Number(seq Sequence, start int) PageNumberMap {
	return Numberer{
		Start: start,
		FormatOf: func(e Entry) NumberFormat {
			return e.Unit.NumberFormat
		},
	}.Number(seq)
}
