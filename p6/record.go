package p6

import (
	"bytes"
	"encoding/xml"
	"io"
)

// record decodes one entity element into value and notes which child elements
// carried a non-blank, non-nil value.
type record[T any] struct {
	name    xml.Name
	value   T
	present map[string]bool
}

func (r *record[T]) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r.name = start.Name
	r.present = make(map[string]bool)

	tokens := []xml.Token{start.Copy()}
	field := ""
	for depth := 1; depth > 0; {
		token, err := d.Token()
		if err != nil {
			return err
		}
		token = xml.CopyToken(token)
		switch t := token.(type) {
		case xml.StartElement:
			if depth == 1 {
				field = t.Name.Local
				if isNil(t) {
					field = ""
				}
			}
			depth++
		case xml.CharData:
			if depth == 2 && field != "" && len(bytes.TrimSpace(t)) > 0 {
				r.present[field] = true
			}
		case xml.EndElement:
			depth--
		}
		tokens = append(tokens, token)
	}

	return xml.NewTokenDecoder(&tokenReplay{tokens: tokens}).Decode(&r.value)
}

func (r *record[T]) missing(fields []string) []string {
	var absent []string
	for _, field := range fields {
		if !r.present[field] {
			absent = append(absent, field)
		}
	}
	return absent
}

type tokenReplay struct {
	tokens []xml.Token
}

func (r *tokenReplay) Token() (xml.Token, error) {
	if len(r.tokens) == 0 {
		return nil, io.EOF
	}
	token := r.tokens[0]
	r.tokens = r.tokens[1:]
	return token, nil
}

func isNil(start xml.StartElement) bool {
	for _, attr := range start.Attr {
		if attr.Name.Local == "nil" && (attr.Value == "true" || attr.Value == "1") {
			return true
		}
	}
	return false
}
