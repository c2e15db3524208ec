// Package output formats generated entropy bytes for display or
// storage in any of the CLI's supported encodings.
package output

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"os"
)

// Format names an output encoding.
type Format int

const (
	Hex Format = iota
	HexUpper
	Raw
	Base64
	Base64URL
	Uuencode
	Text
	Octal
	Binary
)

// ParseFormat parses a format name as accepted on the CLI.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "hex":
		return Hex, nil
	case "hex-upper":
		return HexUpper, nil
	case "raw":
		return Raw, nil
	case "base64":
		return Base64, nil
	case "base64url":
		return Base64URL, nil
	case "uuencode":
		return Uuencode, nil
	case "text":
		return Text, nil
	case "octal":
		return Octal, nil
	case "binary":
		return Binary, nil
	default:
		return 0, fmt.Errorf("unknown output format %q", s)
	}
}

// WriteOutput writes bytes in the given format to outputFile, or to
// stdout when outputFile is empty.
func WriteOutput(bytes []byte, format Format, outputFile string) error {
	if outputFile == "" {
		w := bufio.NewWriter(os.Stdout)
		if err := formatOutput(bytes, format, w); err != nil {
			return err
		}
		return w.Flush()
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := formatOutput(bytes, format, w); err != nil {
		return err
	}
	return w.Flush()
}

func formatOutput(bytes []byte, format Format, out io.Writer) error {
	switch format {
	case Hex:
		for _, b := range bytes {
			if _, err := fmt.Fprintf(out, "%02x", b); err != nil {
				return err
			}
		}
		return writeNewline(out)
	case HexUpper:
		for _, b := range bytes {
			if _, err := fmt.Fprintf(out, "%02X", b); err != nil {
				return err
			}
		}
		return writeNewline(out)
	case Raw:
		_, err := out.Write(bytes)
		return err
	case Base64:
		_, err := fmt.Fprintln(out, base64.StdEncoding.EncodeToString(bytes))
		return err
	case Base64URL:
		_, err := fmt.Fprintln(out, base64.RawURLEncoding.EncodeToString(bytes))
		return err
	case Uuencode:
		return writeUuencode(bytes, out)
	case Text:
		return writePrintableText(bytes, out)
	case Octal:
		for i, b := range bytes {
			if i > 0 {
				if _, err := fmt.Fprint(out, " "); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(out, "%03o", b); err != nil {
				return err
			}
		}
		return writeNewline(out)
	case Binary:
		for i, b := range bytes {
			if i > 0 {
				if _, err := fmt.Fprint(out, " "); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(out, "%08b", b); err != nil {
				return err
			}
		}
		return writeNewline(out)
	default:
		return fmt.Errorf("unsupported output format %d", format)
	}
}

func writeNewline(out io.Writer) error {
	_, err := fmt.Fprintln(out)
	return err
}

// writePrintableText maps each byte into the 94 printable ASCII
// characters '!' (33) through '~' (126).
func writePrintableText(bytes []byte, out io.Writer) error {
	mapped := make([]byte, len(bytes))
	for i, b := range bytes {
		mapped[i] = (b % 94) + 33
	}
	if _, err := out.Write(mapped); err != nil {
		return err
	}
	return writeNewline(out)
}

// writeUuencode writes bytes in traditional uuencode format: a
// "begin 644 data" header, 45-byte chunks each prefixed with a length
// character, and a "`\nend\n" trailer.
func writeUuencode(bytes []byte, out io.Writer) error {
	if _, err := fmt.Fprintln(out, "begin 644 data"); err != nil {
		return err
	}

	for start := 0; start < len(bytes); start += 45 {
		end := start + 45
		if end > len(bytes) {
			end = len(bytes)
		}
		chunk := bytes[start:end]

		if _, err := out.Write([]byte{byte(len(chunk)) + 32}); err != nil {
			return err
		}

		for t := 0; t < len(chunk); t += 3 {
			var triple [3]byte
			copy(triple[:], chunk[t:])

			c0 := (triple[0] >> 2) + 32
			c1 := (((triple[0] & 0x03) << 4) | (triple[1] >> 4)) + 32
			c2 := (((triple[1] & 0x0F) << 2) | (triple[2] >> 6)) + 32
			c3 := (triple[2] & 0x3F) + 32

			if _, err := out.Write([]byte{c0, c1, c2, c3}); err != nil {
				return err
			}
		}

		if err := writeNewline(out); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(out, "`"); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out, "end")
	return err
}
