package p6

import (
	"encoding"
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Optional holds a field the service may leave unset. xsi:nil, an empty
// element and a missing element all decode as absent.
type Optional[T any] struct {
	value T
	valid bool
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, valid: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.valid
}

func (o Optional[T]) IsPresent() bool {
	return o.valid
}

func (o *Optional[T]) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	if isNil(start) {
		*o = Optional[T]{}
		return d.Skip()
	}

	var raw string
	if err := d.DecodeElement(&raw, &start); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*o = Optional[T]{}
		return nil
	}

	var value T
	if err := decodeText(raw, &value); err != nil {
		return fmt.Errorf("decode %s: %w", start.Name.Local, err)
	}
	*o = Some(value)
	return nil
}

func decodeText(raw string, dst any) error {
	switch target := dst.(type) {
	case encoding.TextUnmarshaler:
		return target.UnmarshalText([]byte(raw))
	case *string:
		*target = raw
	case *int64:
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		*target = parsed
	case *bool:
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		*target = parsed
	default:
		return fmt.Errorf("unsupported optional type %T", dst)
	}
	return nil
}

// Decimal is a numeric quantity such as hours or units. The service types
// these as xs:double, so float64 keeps every digit it can send.
type Decimal float64

// String renders the shortest exact form and always keeps a fractional part,
// so 8 renders as "8.0".
func (d Decimal) String() string {
	value := float64(d)
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return strconv.FormatFloat(value, 'g', -1, 64)
	}
	text := strconv.FormatFloat(value, 'f', -1, 64)
	if !strings.Contains(text, ".") {
		text += ".0"
	}
	return text
}

func (d *Decimal) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		return errors.New("empty decimal value")
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("parse decimal %q: %w", raw, err)
	}
	*d = Decimal(parsed)
	return nil
}

const dateLayout = "2006-01-02"

var (
	zonedLayouts = []string{time.RFC3339Nano}
	localLayouts = []string{"2006-01-02T15:04:05.999999999"}
	dateLayouts  = []string{dateLayout, "2006-01-02Z07:00"}
)

// Timestamp is an xs:date or xs:dateTime value. Values without a zone offset
// are taken as UTC.
type Timestamp struct {
	t        time.Time
	dateOnly bool
}

func TimestampOf(value time.Time) Timestamp {
	return Timestamp{t: value}
}

func DateOf(year int, month time.Month, day int) Timestamp {
	return Timestamp{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), dateOnly: true}
}

func ParseTimestamp(value string) (Timestamp, error) {
	raw := strings.TrimSpace(value)
	for _, layout := range zonedLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return Timestamp{t: parsed}, nil
		}
	}
	for _, layout := range localLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return Timestamp{t: parsed}, nil
		}
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return Timestamp{t: parsed, dateOnly: true}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("parse timestamp %q: unsupported format", value)
}

func (ts Timestamp) Time() time.Time {
	return ts.t
}

func (ts Timestamp) IsDateOnly() bool {
	return ts.dateOnly
}

func (ts Timestamp) IsZero() bool {
	return ts.t.IsZero()
}

// String renders dates as 2006-01-02 and date-times as RFC 3339 in UTC.
func (ts Timestamp) String() string {
	if ts.t.IsZero() {
		return ""
	}
	if ts.dateOnly {
		return ts.t.Format(dateLayout)
	}
	return ts.t.UTC().Format(time.RFC3339Nano)
}

func (ts *Timestamp) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		return errors.New("empty timestamp value")
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

func formatID(value int64) string {
	return strconv.FormatInt(value, 10)
}

func formatBool(value bool) string {
	return strconv.FormatBool(value)
}
