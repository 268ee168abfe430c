package navigation

import (
	"errors"
	"fmt"
)

// MaxRoman is the largest value expressible in plain ASCII numerals.
const MaxRoman = 4999

var ErrRomanRange = errors.New("roman numerals are limited to 0..4999")

var (
	romanOnes      = [...]string{"", "I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX"}
	romanTens      = [...]string{"", "X", "XX", "XXX", "XL", "L", "LX", "LXX", "LXXX", "XC"}
	romanHundreds  = [...]string{"", "C", "CC", "CCC", "CD", "D", "DC", "DCC", "DCCC", "CM"}
	romanThousands = [...]string{"", "M", "MM", "MMM", "MMMM"}
)

// ToRoman converts n to subtractive Roman notation. Zero is written "N".
func ToRoman(n int) (string, error) {
	if n < 0 || n > MaxRoman {
		return "", fmt.Errorf("convert %d: %w", n, ErrRomanRange)
	}
	if n == 0 {
		return "N", nil
	}
	return romanThousands[n/1000] +
		romanHundreds[n%1000/100] +
		romanTens[n%100/10] +
		romanOnes[n%10], nil
}
