package wssecurity

import (
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTTL is the validity window written to wsu:Expires.
	DefaultTTL = 30 * time.Minute

	nonceSize       = 16
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

type PasswordType string

const (
	PasswordText   PasswordType = "text"
	PasswordDigest PasswordType = "digest"
)

// ParsePasswordType accepts "text" (default when empty) and "digest".
func ParsePasswordType(value string) (PasswordType, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", string(PasswordText):
		return PasswordText, nil
	case string(PasswordDigest):
		return PasswordDigest, nil
	default:
		return "", fmt.Errorf("unsupported password type %q (supported: text, digest)", value)
	}
}

func (t PasswordType) uri() string {
	if t == PasswordDigest {
		return PasswordDigestURI
	}
	return PasswordTextURI
}

// CredentialBuildError reports that no credential block could be produced.
// No call can be authenticated without one, so callers treat it as fatal.
type CredentialBuildError struct {
	Err error
}

func (e *CredentialBuildError) Error() string {
	return fmt.Sprintf("build ws-security credential: %v", e.Err)
}

func (e *CredentialBuildError) Unwrap() error {
	return e.Err
}

var (
	ErrEmptyUsername = errors.New("username is required")
	ErrEmptyPassword = errors.New("password is required")
)

// Block is the credential material attached to exactly one call.
type Block struct {
	Username     string
	Token        string
	PasswordType PasswordType
	Nonce        []byte
	Created      time.Time
	Expires      time.Time
	TokenID      string
	TimestampID  string
}

// String never includes the token.
func (b *Block) String() string {
	return fmt.Sprintf(
		"Block{user=%s type=%s created=%s expires=%s}",
		b.Username,
		b.PasswordType,
		formatTimestamp(b.Created),
		formatTimestamp(b.Expires),
	)
}

// Builder mints credential blocks for a fixed username/password pair.
// Rand defaults to crypto/rand and TTL to DefaultTTL.
type Builder struct {
	Username     string
	Password     string
	PasswordType PasswordType
	Rand         io.Reader
	TTL          time.Duration
}

// Build creates a PasswordText block using crypto/rand.
func Build(username, password string, now time.Time) (*Block, error) {
	b := Builder{Username: username, Password: password}
	return b.Build(now)
}

func (b Builder) Build(now time.Time) (*Block, error) {
	if strings.TrimSpace(b.Username) == "" {
		return nil, &CredentialBuildError{Err: ErrEmptyUsername}
	}
	if b.Password == "" {
		return nil, &CredentialBuildError{Err: ErrEmptyPassword}
	}

	source := b.Rand
	if source == nil {
		source = rand.Reader
	}
	ttl := b.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	passwordType := b.PasswordType
	if passwordType == "" {
		passwordType = PasswordText
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(source, nonce); err != nil {
		return nil, &CredentialBuildError{Err: fmt.Errorf("read nonce: %w", err)}
	}
	tokenID, err := uuid.NewRandomFromReader(source)
	if err != nil {
		return nil, &CredentialBuildError{Err: fmt.Errorf("generate token id: %w", err)}
	}
	timestampID, err := uuid.NewRandomFromReader(source)
	if err != nil {
		return nil, &CredentialBuildError{Err: fmt.Errorf("generate timestamp id: %w", err)}
	}

	created := now.UTC()
	block := &Block{
		Username:     b.Username,
		PasswordType: passwordType,
		Nonce:        nonce,
		Created:      created,
		Expires:      created.Add(ttl),
		TokenID:      "UsernameToken-" + tokenID.String(),
		TimestampID:  "Timestamp-" + timestampID.String(),
	}
	switch passwordType {
	case PasswordText:
		block.Token = b.Password
	case PasswordDigest:
		block.Token = PasswordDigestValue(nonce, formatTimestamp(created), b.Password)
	default:
		return nil, &CredentialBuildError{Err: fmt.Errorf("unsupported password type %q", passwordType)}
	}
	return block, nil
}

// PasswordDigestValue is Base64(SHA-1(nonce + created + password)) as defined by
// the UsernameToken profile.
func PasswordDigestValue(nonce []byte, created, password string) string {
	h := sha1.New()
	h.Write(nonce)
	h.Write([]byte(created))
	h.Write([]byte(password))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func formatTimestamp(value time.Time) string {
	return value.UTC().Format(timestampLayout)
}
