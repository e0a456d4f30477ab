package wssecurity

import (
	"encoding/base64"
	"encoding/xml"
)

const (
	NamespaceWSSE = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-secext-1.0.xsd"
	NamespaceWSU  = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-utility-1.0.xsd"

	PasswordTextURI   = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-username-token-profile-1.0#PasswordText"
	PasswordDigestURI = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-username-token-profile-1.0#PasswordDigest"
	Base64BinaryURI   = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-soap-message-security-1.0#Base64Binary"
)

// SecurityHeader is the wsse:Security SOAP header element. The soap prefix of
// mustUnderstand is declared by the enclosing envelope.
type SecurityHeader struct {
	XMLName        xml.Name      `xml:"wsse:Security"`
	WSSE           string        `xml:"xmlns:wsse,attr"`
	WSU            string        `xml:"xmlns:wsu,attr"`
	MustUnderstand string        `xml:"soap:mustUnderstand,attr"`
	UsernameToken  UsernameToken `xml:"wsse:UsernameToken"`
	Timestamp      Timestamp     `xml:"wsu:Timestamp"`
}

type UsernameToken struct {
	ID       string        `xml:"wsu:Id,attr"`
	Username string        `xml:"wsse:Username"`
	Password PasswordValue `xml:"wsse:Password"`
	Nonce    NonceValue    `xml:"wsse:Nonce"`
	Created  string        `xml:"wsu:Created"`
}

type PasswordValue struct {
	Type  string `xml:"Type,attr"`
	Value string `xml:",chardata"`
}

type NonceValue struct {
	EncodingType string `xml:"EncodingType,attr"`
	Value        string `xml:",chardata"`
}

type Timestamp struct {
	ID      string `xml:"wsu:Id,attr"`
	Created string `xml:"wsu:Created"`
	Expires string `xml:"wsu:Expires"`
}

// Header renders the block as the wsse:Security element.
func (b *Block) Header() *SecurityHeader {
	created := formatTimestamp(b.Created)
	return &SecurityHeader{
		WSSE:           NamespaceWSSE,
		WSU:            NamespaceWSU,
		MustUnderstand: "1",
		UsernameToken: UsernameToken{
			ID:       b.TokenID,
			Username: b.Username,
			Password: PasswordValue{Type: b.PasswordType.uri(), Value: b.Token},
			Nonce: NonceValue{
				EncodingType: Base64BinaryURI,
				Value:        base64.StdEncoding.EncodeToString(b.Nonce),
			},
			Created: created,
		},
		Timestamp: Timestamp{
			ID:      b.TimestampID,
			Created: created,
			Expires: formatTimestamp(b.Expires),
		},
	}
}
