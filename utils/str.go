package utils

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func StrToInt(s string) int {
	if s == "" {
		return 0
	}
	i, _ := strconv.Atoi(s)
	return i
}

func StrToInt64(s string) int64 {
	i, _ := strconv.ParseInt(s, 10, 64)
	return i
}

func StrToFloat64(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// ZeroIndex renders num as a zero padded index of fixed width, e.g.
// ZeroIndex(7, 3) == "007".
func ZeroIndex(num, width int) string {
	s := strconv.Itoa(num)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

func ContainsAll(group, sub []string) bool {
out:
	for _, s := range sub {
		for _, a := range group {
			if a == s {
				continue out
			}
		}
		return false
	}
	return true
}

func ContainsAny(group, sub []string) bool {
	for _, s := range sub {
		for _, a := range group {
			if a == s {
				return true
			}
		}
	}
	return false
}

// Latin1ToUtf8 decodes Windows-1252 bytes, the usual encoding of legacy
// Belgian CSV and shapefile attribute exports.
func Latin1ToUtf8(s []byte) (d []byte, e error) {
	reader := transform.NewReader(strings.NewReader(string(s)), charmap.Windows1252.NewDecoder())
	d, e = io.ReadAll(reader)
	return
}

func Utf8ToLatin1(s []byte) (d []byte, e error) {
	reader := transform.NewReader(strings.NewReader(string(s)), charmap.Windows1252.NewEncoder())
	d, e = io.ReadAll(reader)
	return
}

// CharsetReader wraps r with a decoder for the named charset. Supported:
// "latin1"/"windows-1252", "iso-8859-1", and the UTF-8 pass-through.
func CharsetReader(r io.Reader, charset string) io.Reader {
	switch strings.ToLower(charset) {
	case "latin1", "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder())
	case "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return r
	}
}

func PurifyForUtf8(s string) string {
	return strings.ToValidUTF8(strings.ReplaceAll(s, "\x00", ""), "")
}
