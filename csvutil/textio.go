package csvutil

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// lookupCharset resolves an encoding name. A nil Encoding means plain UTF-8,
// which is validated rather than decoded.
func lookupCharset(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "utf-8-sig", "utf8-sig", "utf_8_sig":
		return unicode.UTF8BOM, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc, nil
}

// newReadChain decodes in from the configured charset into UTF-8 and turns a
// bare "\r" terminator into "\n" so encoding/csv sees its native line endings.
func newReadChain(in io.Reader, cfg *Config) (io.Reader, error) {
	enc, err := lookupCharset(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	var t transform.Transformer = encoding.UTF8Validator
	if enc != nil {
		t = enc.NewDecoder()
	}
	if cfg.Newline == "\r" {
		t = transform.Chain(t, runes.Map(crToLF))
	}
	return transform.NewReader(ioReader{r: in}, t), nil
}

// newWriteChain is the inverse of newReadChain. The returned writer must be
// closed to flush the transform; closing it does not close out.
func newWriteChain(out io.Writer, cfg *Config) (*transform.Writer, error) {
	enc, err := lookupCharset(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	var t transform.Transformer = encoding.UTF8Validator
	if cfg.Newline == "\r" {
		t = transform.Chain(t, runes.Map(lfToCR))
	}
	if enc != nil {
		t = transform.Chain(t, enc.NewEncoder())
	}
	return transform.NewWriter(ioWriter{w: out}, t), nil
}

func crToLF(r rune) rune {
	if r == '\r' {
		return '\n'
	}
	return r
}

func lfToCR(r rune) rune {
	if r == '\n' {
		return '\r'
	}
	return r
}
