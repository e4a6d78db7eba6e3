// Package pkgfile reads the pre-lexed "package" wire format: a token stream
// serialized ahead of time so a translation unit can skip the lexer. It
// only reads; nothing in this module ever writes the format.
package pkgfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"

	"github.com/mna/gale/lexer"
	"github.com/mna/gale/token"
)

// Magic is the format's leading 64-bit identifier, the ASCII bytes "adpt"
// (little-endian) chosen to spell out under a hex dump.
const Magic uint64 = 0x74706461

// EndianMarker detects a byte-swapped file: a conforming writer always
// emits this exact 16-bit pattern next.
const EndianMarker uint16 = 0x00EF

// Version is the iteration-version integer a conforming package file's
// header must match. A file built against a different compiler iteration
// is rejected rather than partially trusted.
const Version uint64 = 1

// compressedBase is the first tag of the reserved decompression range
// (0x80..0x8B); tags in this range expand to one of the twelve built-in
// scalar type names instead of carrying their own payload.
const compressedBase = 0x80

// compressedNames lists the built-in type names the compressed tag range
// expands to, in tag order (tag compressedBase+i decompresses to
// compressedNames[i]).
var compressedNames = [...]string{
	"bool", "byte", "ubyte", "short", "ushort", "int", "uint",
	"long", "ulong", "float", "double", "usize",
}

// Read decodes r as a package wire-format stream, producing the same
// []lexer.TokenAndValue shape the lexer itself produces (so the parser is
// agnostic to which of the two token sources fed it). Every token's Pos is
// synthesized as a sequential offset within unit, since the binary format
// does not retain byte offsets into an original source buffer.
func Read(unit token.UnitID, r io.Reader) ([]lexer.TokenAndValue, error) {
	br := bufio.NewReader(r)

	var magic uint64
	if err := binary.Read(br, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("pkgfile: reading magic: %w", err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("pkgfile: bad magic %#x, want %#x", magic, Magic)
	}

	var endian uint16
	if err := binary.Read(br, binary.LittleEndian, &endian); err != nil {
		return nil, fmt.Errorf("pkgfile: reading endian marker: %w", err)
	}
	if endian != EndianMarker {
		return nil, fmt.Errorf("pkgfile: bad endian marker %#x, want %#x (byte-swapped file?)", endian, EndianMarker)
	}

	var version uint64
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("pkgfile: reading version: %w", err)
	}
	if version != Version {
		return nil, fmt.Errorf("pkgfile: version %d does not match compiler version %d", version, Version)
	}

	var count uint64
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("pkgfile: reading token count: %w", err)
	}

	toks := make([]lexer.TokenAndValue, 0, count)
	for i := uint64(0); i < count; i++ {
		tv, err := readToken(br, unit, int32(i))
		if err != nil {
			return nil, fmt.Errorf("pkgfile: token %d: %w", i, err)
		}
		toks = append(toks, tv)
	}
	return toks, nil
}

func readToken(br *bufio.Reader, unit token.UnitID, idx int32) (lexer.TokenAndValue, error) {
	tag, err := br.ReadByte()
	if err != nil {
		return lexer.TokenAndValue{}, err
	}
	pos := token.Pos{Unit: unit, Offset: idx}

	if tag >= compressedBase && int(tag) < compressedBase+len(compressedNames) {
		// decompressed names are keywords, so the expanded token matches what
		// the lexer itself would have produced for the same source text.
		name := compressedNames[tag-compressedBase]
		return lexer.TokenAndValue{Token: token.LookupKw(name), Pos: pos, Value: lexer.Value{Raw: name}}, nil
	}

	tok := token.Token(tag)
	if !hasPayload(tok) {
		return lexer.TokenAndValue{Token: tok, Pos: pos}, nil
	}

	payload, err := readCString(br)
	if err != nil {
		return lexer.TokenAndValue{}, err
	}
	val := lexer.Value{Raw: payload, Str: payload}
	switch tok {
	case token.GENERIC_INT:
		n, err := strconv.ParseInt(payload, 10, 64)
		if err != nil && !errRangeOnly(err) {
			return lexer.TokenAndValue{}, fmt.Errorf("malformed integer payload %q", payload)
		}
		val.Int = n
	case token.GENERIC_FLOAT:
		f, err := strconv.ParseFloat(payload, 64)
		if err != nil && !errRangeOnly(err) {
			return lexer.TokenAndValue{}, fmt.Errorf("malformed float payload %q", payload)
		}
		val.Float = f
	}
	return lexer.TokenAndValue{Token: tok, Pos: pos, Value: val}, nil
}

func errRangeOnly(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

// hasPayload reports whether tok's wire record carries a NUL-terminated
// string payload, per the format's fixed set of payload-bearing kinds.
func hasPayload(tok token.Token) bool {
	switch tok {
	case token.IDENT, token.STRING, token.CSTRING, token.GENERIC_INT, token.GENERIC_FLOAT:
		return true
	}
	return false
}

func readCString(br *bufio.Reader) (string, error) {
	s, err := br.ReadString(0)
	if err != nil {
		return "", err
	}
	return s[:len(s)-1], nil
}
