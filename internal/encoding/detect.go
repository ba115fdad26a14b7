package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffSize is how much of an import is inspected before deciding on its charset.
const sniffSize = 4096

const fallbackCharset = "windows-1252"

type bom struct {
	prefix  []byte
	charset string
	// strip is set when the marker has to be dropped by hand; the UTF-16 decoders consume theirs.
	strip   bool
	decoder xenc.Encoding
}

var boms = []bom{
	{prefix: []byte{0xEF, 0xBB, 0xBF}, charset: "UTF-8", strip: true},
	{prefix: []byte{0xFF, 0xFE}, charset: "UTF-16LE", decoder: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
	{prefix: []byte{0xFE, 0xFF}, charset: "UTF-16BE", decoder: unicode.UTF16(unicode.BigEndian, unicode.UseBOM)},
}

// singleByte maps the charsets chardet reports for spreadsheet exports to their decoders.
var singleByte = map[string]xenc.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-9":   charmap.ISO8859_9,
	"ISO-8859-15":  charmap.ISO8859_15,
}

// Sniff inspects the start of an imported invoice file and returns a reader that yields
// UTF-8, together with the charset it decided on. A byte order mark wins; otherwise valid
// UTF-8 is passed through, then chardet is asked, and Windows-1252 is the last resort.
func Sniff(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	for _, b := range boms {
		if !bytes.HasPrefix(head, b.prefix) {
			continue
		}

		if b.strip {
			_, _ = br.Discard(len(b.prefix))
			return br, b.charset, nil
		}

		return transform.NewReader(br, b.decoder.NewDecoder()), b.charset, nil
	}

	if utf8.Valid(head) {
		return br, "UTF-8", nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(head); err == nil {
		if result.Charset == "UTF-8" {
			return br, result.Charset, nil
		}

		if dec, ok := singleByte[result.Charset]; ok {
			return transform.NewReader(br, dec.NewDecoder()), result.Charset, nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), fallbackCharset, nil
}

// NewUTF8Reader is Sniff without the charset.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	utf8r, _, err := Sniff(r)
	return utf8r, err
}
