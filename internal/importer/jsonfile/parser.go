package jsonfile

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	enc "github.com/MrJamesThe3rd/invoicer/internal/encoding"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// Parser reads either a single invoice object or an array of them.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]invoice.Form, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReader(utf8r)

	first, err := firstToken(br)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}

	dec := json.NewDecoder(br)

	switch first {
	case '[':
		var forms []invoice.Form
		if err := dec.Decode(&forms); err != nil {
			return nil, fmt.Errorf("decode invoices: %w", err)
		}

		return forms, nil
	case '{':
		var form invoice.Form
		if err := dec.Decode(&form); err != nil {
			return nil, fmt.Errorf("decode invoice: %w", err)
		}

		return []invoice.Form{form}, nil
	}

	return nil, fmt.Errorf("expected an invoice object or array, got %q", first)
}

// firstToken peeks at the first non-space byte without consuming it.
func firstToken(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}

		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}

		return b, br.UnreadByte()
	}
}
