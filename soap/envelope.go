package soap

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
)

var errEmptyBody = errors.New("soap body carries no response element")

const NamespaceEnvelope = "http://schemas.xmlsoap.org/soap/envelope/"

func encodeEnvelope(headers []any, body any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	envelope := xml.StartElement{
		Name: xml.Name{Local: "soap:Envelope"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "xmlns:soap"}, Value: NamespaceEnvelope}},
	}
	if err := enc.EncodeToken(envelope); err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}

	if len(headers) > 0 {
		header := xml.StartElement{Name: xml.Name{Local: "soap:Header"}}
		if err := enc.EncodeToken(header); err != nil {
			return nil, fmt.Errorf("encode header: %w", err)
		}
		for _, item := range headers {
			if err := enc.Encode(item); err != nil {
				return nil, fmt.Errorf("encode header block: %w", err)
			}
		}
		if err := enc.EncodeToken(header.End()); err != nil {
			return nil, fmt.Errorf("encode header: %w", err)
		}
	}

	bodyStart := xml.StartElement{Name: xml.Name{Local: "soap:Body"}}
	if err := enc.EncodeToken(bodyStart); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	if body != nil {
		if err := enc.Encode(body); err != nil {
			return nil, fmt.Errorf("encode body content: %w", err)
		}
	}
	if err := enc.EncodeToken(bodyStart.End()); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	if err := enc.EncodeToken(envelope.End()); err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("flush envelope: %w", err)
	}
	return buf.Bytes(), nil
}

type responseEnvelope struct {
	XMLName xml.Name     `xml:"Envelope"`
	Body    responseBody `xml:"Body"`
}

// responseBody decodes the first non-fault child of soap:Body into out while
// keeping the namespace context of the whole document.
type responseBody struct {
	out     any
	fault   *Fault
	decoded bool
}

func (b *responseBody) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "Fault":
				fault := &Fault{}
				if err := d.DecodeElement(fault, &t); err != nil {
					return fmt.Errorf("decode fault: %w", err)
				}
				b.fault = fault
			case b.out != nil && !b.decoded:
				if err := d.DecodeElement(b.out, &t); err != nil {
					return err
				}
				b.decoded = true
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// decodeEnvelope fails with errEmptyBody when out is set but the body holds
// neither a response element nor a fault.
func decodeEnvelope(data []byte, out any) (*Fault, error) {
	envelope := responseEnvelope{Body: responseBody{out: out}}
	if err := xml.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	if out != nil && envelope.Body.fault == nil && !envelope.Body.decoded {
		return nil, errEmptyBody
	}
	return envelope.Body.fault, nil
}
