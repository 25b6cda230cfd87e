// Package password converts a bounded summary of asset and expense records to
// and from a short dash-grouped katakana string that can be typed on another
// device.
package password

import (
	"strings"

	"github.com/samber/lo"
)

// Alphabet is the ordered symbol set. Only the first 32 symbols are produced by
// Encode: each symbol carries 5 bits.
const Alphabet = "アイウエオカキクケコサシスセソタチツテトナニヌネノハヒフヘホマミムメモヤユヨラリルレロワヲン"

const (
	groupSize = 4
	separator = "-"
	bitsPer   = 5
)

var (
	symbols     = []rune(Alphabet)
	symbolIndex = lo.SliceToMap(lo.Range(len(symbols)), func(i int) (rune, int) { return symbols[i], i })
)

// DecodeResult is the recovered payload of a symbol string.
// Skipped holds the positions of characters not in the alphabet; they were
// ignored. Unreachable holds the positions of symbols Encode never emits
// (index 32 and above); they were decoded but their extra bit corrupts the
// preceding data.
// Positions are rune offsets into the input after separators are removed.
type DecodeResult struct {
	Data        []byte
	Skipped     []int
	Unreachable []int
}

// Clean reports whether every character was a symbol Encode can produce.
func (r DecodeResult) Clean() bool {
	return len(r.Skipped) == 0 && len(r.Unreachable) == 0
}

// Encode packs data into symbols 5 bits at a time, most significant bit first.
// Leftover bits are shifted up to fill one final symbol. The output is grouped
// by four and joined with dashes.
func Encode(data []byte) string {
	var (
		out  []rune
		acc  uint32
		bits uint
	)
	for _, b := range data {
		acc = acc<<8 | uint32(b)
		bits += 8
		for bits >= bitsPer {
			out = append(out, symbols[(acc>>(bits-bitsPer))&31])
			bits -= bitsPer
		}
	}
	if bits > 0 {
		out = append(out, symbols[(acc<<(bitsPer-bits))&31])
	}
	return group(out)
}

// Decode reverses Encode. Separators are removed and input is upper-cased.
// Unknown characters are skipped and reported; trailing bits that do not fill a
// byte are discarded.
func Decode(s string) DecodeResult {
	var (
		res  DecodeResult
		acc  uint32
		bits uint
	)
	for pos, r := range []rune(normalize(s)) {
		idx, ok := symbolIndex[r]
		if !ok {
			res.Skipped = append(res.Skipped, pos)
			continue
		}
		if idx >= 32 {
			res.Unreachable = append(res.Unreachable, pos)
		}
		acc = acc<<bitsPer | uint32(idx)
		bits += bitsPer
		if bits >= 8 {
			res.Data = append(res.Data, byte(acc>>(bits-8)))
			bits -= 8
		}
	}
	return res
}

// InAlphabet reports whether every character of s, ignoring separators, is an
// alphabet symbol.
func InAlphabet(s string) bool {
	return lo.EveryBy([]rune(normalize(s)), func(r rune) bool {
		_, ok := symbolIndex[r]
		return ok
	})
}

func normalize(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, separator, ""))
}

func group(rs []rune) string {
	chunks := lo.Map(lo.Chunk(rs, groupSize), func(c []rune, _ int) string { return string(c) })
	return strings.Join(chunks, separator)
}
