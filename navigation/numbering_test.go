package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNumberArabic(t *testing.T) {
	numbers := Number(seqOf(SourceTree, "a", "b", "c"), 0)
	assert.Equal(t, PageNumberMap{
		"a": {Arabic: 1},
		"b": {Arabic: 2},
		"c": {Arabic: 3},
	}, numbers)
}

func TestNumberRomanThenArabicResets(t *testing.T) {
	seq := newSequence(ModeReadable, SourceTree, []Unit{
		withFormat(page("pref", "", 1), NumberFormatRoman),
		withFormat(page("foreword", "", 2), NumberFormatRoman),
		withFormat(page("toc", "", 3), NumberFormatRoman),
		page("one", "", 4),
		page("two", "", 5),
	})
	numbers := Number(seq, 1)
	assert.Equal(t, "I", numbers["pref"].String())
	assert.Equal(t, "II", numbers["foreword"].String())
	assert.Equal(t, "III", numbers["toc"].String())
	assert.Equal(t, PageNumber{Arabic: 1}, numbers["one"])
	assert.Equal(t, PageNumber{Arabic: 2}, numbers["two"])
}

func TestNumberResetsOnlyOnce(t *testing.T) {
	seq := newSequence(ModeReadable, SourceTree, []Unit{
		page("a", "", 1),
		withFormat(page("b", "", 2), NumberFormatRoman),
		page("c", "", 3),
	})
	numbers := Number(seq, 1)
	assert.Equal(t, PageNumber{Arabic: 1}, numbers["a"])
	assert.Equal(t, PageNumber{Roman: "II"}, numbers["b"])
	assert.Equal(t, PageNumber{Arabic: 3}, numbers["c"])
}

func TestNumberStartOffset(t *testing.T) {
	seq := newSequence(ModeReadable, SourceTree, []Unit{
		withFormat(page("a", "", 1), NumberFormatRoman),
		withFormat(page("b", "", 2), NumberFormatRoman),
		page("c", "", 3),
		page("d", "", 4),
	})
	numbers := Number(seq, 5)
	assert.Equal(t, "V", numbers["a"].String())
	assert.Equal(t, "VI", numbers["b"].String())
	assert.Equal(t, 5, numbers["c"].Arabic)
	assert.Equal(t, 6, numbers["d"].Arabic)
}

func TestNumberRomanOverflowFallsBack(t *testing.T) {
	seq := newSequence(ModeReadable, SourceTree, []Unit{
		withFormat(page("a", "", 1), NumberFormatRoman),
		withFormat(page("b", "", 2), NumberFormatRoman),
	})
	numbers := Number(seq, MaxRoman)
	assert.Equal(t, "MMMMCMXCIX", numbers["a"].Roman)
	assert.Equal(t, PageNumber{Arabic: MaxRoman + 1}, numbers["b"])
}

func TestNumberRomanOverflowIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	seq := newSequence(ModeReadable, SourceTree, []Unit{
		withFormat(page("a", "", 1), NumberFormatRoman),
	})
	numbers := Numberer{
		Start:    MaxRoman + 1,
		FormatOf: func(e Entry) NumberFormat { return e.Unit.NumberFormat },
		Logger:   zap.New(core),
	}.Number(seq)

	assert.Equal(t, PageNumber{Arabic: MaxRoman + 1}, numbers["a"])
	entries := logs.FilterMessage("page number out of roman range, using arabic").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].ContextMap()["unit"])
	assert.Equal(t, int64(MaxRoman+1), entries[0].ContextMap()["number"])
}

func TestNumberInheritsFromTopmostAncestor(t *testing.T) {
	units := []Unit{
		withFormat(page("front", "", 1), NumberFormatRoman),
		page("preface", "front", 1),
		page("dedication", "front", 2),
		page("body", "", 2),
		page("ch1", "body", 1),
		withFormat(page("odd", "body", 2), NumberFormatRoman),
	}
	r := NewResolver(Book{Units: units}, Settings{})
	seq := r.Resolve(ModeReadable)
	assert.Equal(t, []string{"preface", "dedication", "ch1", "odd"}, seq.IDs())

	numbers := r.Number(seq)
	assert.Equal(t, "I", numbers["preface"].String())
	assert.Equal(t, "II", numbers["dedication"].String())
	assert.Equal(t, PageNumber{Arabic: 1}, numbers["ch1"])
	assert.Equal(t, "II", numbers["odd"].String())
}

func TestNumberInheritsFromTopMenuItem(t *testing.T) {
	units := []Unit{
		withFormat(page("front", "", 9), NumberFormatRoman),
		page("preface", "", 1),
		page("ch1", "", 2),
	}
	menu := []MenuItemProxy{
		proxy("m-front", "front", ""),
		proxy("m-preface", "preface", "m-front"),
		proxy("m-ch1", "ch1", ""),
	}
	r := NewResolver(Book{Units: units, Menu: menu}, Settings{HasMenu: true})
	seq := r.Resolve(ModeReadable)
	assert.Equal(t, []string{"preface", "ch1"}, seq.IDs())

	numbers := r.Number(seq)
	assert.Equal(t, PageNumber{Roman: "I"}, numbers["preface"])
	assert.Equal(t, PageNumber{Arabic: 1}, numbers["ch1"])
}

func TestNumberMenuCycleIsArabic(t *testing.T) {
	units := []Unit{
		withFormat(page("a", "", 1), NumberFormatRoman),
		page("b", "", 2),
	}
	menu := []MenuItemProxy{
		proxy("M1", "a", "M2"),
		proxy("M2", "b", "M1"),
	}
	r := NewResolver(Book{Units: units, Menu: menu}, Settings{HasMenu: true})
	numbers := r.Number(r.Resolve(ModeStructural))
	assert.Equal(t, PageNumber{Roman: "I"}, numbers["a"])
	assert.Equal(t, PageNumber{Arabic: 1}, numbers["b"])
}

func TestPageNumberLabel(t *testing.T) {
	assert.Equal(t, "page 12", PageNumber{Arabic: 12}.Label())
	assert.Equal(t, "page iv", PageNumber{Roman: "IV"}.Label())
	assert.False(t, PageNumber{Arabic: 1}.IsRoman())
}
