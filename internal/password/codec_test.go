package password

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestEncodeVectors(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"empty", nil, ""},
		{"single zero byte", []byte{0x00}, "アア"},
		{"single 0xff", []byte{0xFF}, "ミヘ"},
		{"five zero bytes", make([]byte, 5), "アアアア-アアアア"},
		{"three bytes", []byte{0x00, 0x00, 0x00}, "アアアア-ア"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.in); got != tt.want {
				t.Errorf("Encode(%x) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncodeOnlyReachableSymbols(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	reachable := string([]rune(Alphabet)[:32])
	for _, r := range strings.ReplaceAll(Encode(data), separator, "") {
		if !strings.ContainsRune(reachable, r) {
			t.Fatalf("Encode emitted %q outside the first 32 symbols", r)
		}
	}
}

func TestEncodeGroupsOfFour(t *testing.T) {
	out := Encode([]byte("hello, world"))
	groups := strings.Split(out, separator)
	for i, g := range groups {
		n := len([]rune(g))
		if i < len(groups)-1 && n != 4 {
			t.Errorf("group %d has %d symbols, want 4", i, n)
		}
		if n == 0 || n > 4 {
			t.Errorf("group %d has %d symbols", i, n)
		}
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("a"),
		[]byte(`{"assets":[],"expenses":[],"checksum":0}`),
		[]byte("カタカナ UTF-8 payload"),
		{0x00, 0xFF, 0x80, 0x7F, 0x01},
	}

	for _, in := range inputs {
		res := Decode(Encode(in))
		if !bytes.Equal(res.Data, in) {
			t.Errorf("Decode(Encode(%q)) = %q", in, res.Data)
		}
		if !res.Clean() {
			t.Errorf("Decode(Encode(%q)) reported skipped=%v unreachable=%v", in, res.Skipped, res.Unreachable)
		}
	}
}

func TestDecodeReportsSkippedPositions(t *testing.T) {
	res := Decode("アアX-アZ")
	if want := []int{2, 4}; !reflect.DeepEqual(res.Skipped, want) {
		t.Errorf("Skipped = %v, want %v", res.Skipped, want)
	}
	if !bytes.Equal(res.Data, []byte{0x00}) {
		t.Errorf("Data = %x, want 00", res.Data)
	}
	if res.Clean() {
		t.Error("Clean() = true, want false")
	}
}

func TestDecodeReportsUnreachableSymbols(t *testing.T) {
	res := Decode("アン")
	if want := []int{1}; !reflect.DeepEqual(res.Unreachable, want) {
		t.Errorf("Unreachable = %v, want %v", res.Unreachable, want)
	}
	if len(res.Skipped) != 0 {
		t.Errorf("Skipped = %v, want none", res.Skipped)
	}
}

func TestDecodeDiscardsTrailingBits(t *testing.T) {
	if res := Decode("ミ"); len(res.Data) != 0 {
		t.Errorf("Decode(single symbol) = %x, want no bytes", res.Data)
	}
}

func TestInAlphabet(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"アイウエ-オカ", true},
		{"ワヲン", true},
		{"アイa", false},
		{"あいう", false},
		{"アイ ウ", false},
	}

	for _, tt := range tests {
		if got := InAlphabet(tt.in); got != tt.want {
			t.Errorf("InAlphabet(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
