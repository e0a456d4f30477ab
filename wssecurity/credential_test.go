package wssecurity

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestBuild_ExpiresThirtyMinutesAfterCreated(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	block, err := Build("jdoe", "secret", now)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !block.Created.Equal(now) {
		t.Fatalf("expected created %s, got %s", now, block.Created)
	}
	if got := block.Expires.Sub(block.Created); got != 30*time.Minute {
		t.Fatalf("expected 30m window, got %s", got)
	}
	if len(block.Nonce) != 16 {
		t.Fatalf("expected 128-bit nonce, got %d bytes", len(block.Nonce))
	}
	if block.Token != "secret" || block.PasswordType != PasswordText {
		t.Fatalf("unexpected token/type: %q %q", block.Token, block.PasswordType)
	}
}

func TestBuild_FreshNonceAndIDsPerCall(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	seen := make(map[string]struct{})
	for i := 0; i < 64; i++ {
		block, err := Build("jdoe", "secret", now)
		if err != nil {
			t.Fatalf("build %d: %v", i, err)
		}
		key := string(block.Nonce)
		if _, dup := seen[key]; dup {
			t.Fatalf("nonce reused on call %d", i)
		}
		seen[key] = struct{}{}
		if block.TokenID == block.TimestampID {
			t.Fatalf("token and timestamp share id %q", block.TokenID)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy unavailable")
}

func TestBuild_RandomSourceFailure(t *testing.T) {
	t.Parallel()

	b := Builder{Username: "jdoe", Password: "secret", Rand: failingReader{}}
	_, err := b.Build(time.Now())
	var buildErr *CredentialBuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("expected CredentialBuildError, got %v", err)
	}
	if !strings.Contains(err.Error(), "entropy unavailable") {
		t.Fatalf("expected cause in message, got %v", err)
	}
}

func TestBuild_RejectsEmptyCredentials(t *testing.T) {
	t.Parallel()

	if _, err := Build("", "secret", time.Now()); !errors.Is(err, ErrEmptyUsername) {
		t.Fatalf("expected ErrEmptyUsername, got %v", err)
	}
	if _, err := Build("jdoe", "", time.Now()); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestBuild_PasswordDigest(t *testing.T) {
	t.Parallel()

	entropy := bytes.Repeat([]byte{0x2a}, 48)
	now := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	b := Builder{
		Username:     "jdoe",
		Password:     "secret",
		PasswordType: PasswordDigest,
		Rand:         bytes.NewReader(entropy),
	}
	block, err := b.Build(now)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := PasswordDigestValue(entropy[:16], "2024-01-05T10:00:00.000Z", "secret")
	if block.Token != want {
		t.Fatalf("expected digest %q, got %q", want, block.Token)
	}
	if strings.Contains(block.Token, "secret") {
		t.Fatalf("digest token must not contain the password")
	}
}

func TestParsePasswordType(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]PasswordType{"": PasswordText, "TEXT": PasswordText, " digest ": PasswordDigest} {
		got, err := ParsePasswordType(input)
		if err != nil || got != want {
			t.Fatalf("ParsePasswordType(%q) = %q, %v", input, got, err)
		}
	}
	if _, err := ParsePasswordType("kerberos"); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}

func TestBlockString_HidesToken(t *testing.T) {
	t.Parallel()

	block, err := Build("jdoe", "hunter2", time.Now())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if strings.Contains(block.String(), "hunter2") {
		t.Fatalf("String leaked password: %s", block.String())
	}
}

type decodedSecurity struct {
	Token struct {
		ID       string `xml:"Id,attr"`
		Username string `xml:"Username"`
		Password struct {
			Type  string `xml:"Type,attr"`
			Value string `xml:",chardata"`
		} `xml:"Password"`
		Nonce   string `xml:"Nonce"`
		Created string `xml:"Created"`
	} `xml:"UsernameToken"`
	Timestamp struct {
		ID      string `xml:"Id,attr"`
		Created string `xml:"Created"`
		Expires string `xml:"Expires"`
	} `xml:"Timestamp"`
}

func TestHeader_MarshalsUsernameTokenAndTimestamp(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	block, err := Build("jdoe", "secret", now)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	payload, err := xml.Marshal(block.Header())
	if err != nil {
		t.Fatalf("marshal header: %v", err)
	}
	text := string(payload)
	for _, fragment := range []string{
		`<wsse:Security xmlns:wsse="` + NamespaceWSSE + `"`,
		`soap:mustUnderstand="1"`,
		`<wsse:Username>jdoe</wsse:Username>`,
		`EncodingType="` + Base64BinaryURI + `"`,
	} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("expected %q in header:\n%s", fragment, text)
		}
	}

	var decoded decodedSecurity
	if err := xml.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode header: %v", err)
	}
	if decoded.Token.Password.Type != PasswordTextURI || decoded.Token.Password.Value != "secret" {
		t.Fatalf("unexpected password element: %+v", decoded.Token.Password)
	}
	nonce, err := base64.StdEncoding.DecodeString(decoded.Token.Nonce)
	if err != nil || !bytes.Equal(nonce, block.Nonce) {
		t.Fatalf("nonce did not round trip: %v", err)
	}
	if decoded.Timestamp.Created != "2024-01-05T10:00:00.000Z" || decoded.Timestamp.Expires != "2024-01-05T10:30:00.000Z" {
		t.Fatalf("unexpected timestamp: %+v", decoded.Timestamp)
	}
	if decoded.Token.Created != decoded.Timestamp.Created {
		t.Fatalf("token and timestamp created differ: %q vs %q", decoded.Token.Created, decoded.Timestamp.Created)
	}
	if !strings.HasPrefix(decoded.Token.ID, "UsernameToken-") || !strings.HasPrefix(decoded.Timestamp.ID, "Timestamp-") {
		t.Fatalf("unexpected wsu ids: %q %q", decoded.Token.ID, decoded.Timestamp.ID)
	}
}
