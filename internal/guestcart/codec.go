// Package guestcart holds the cookie-backed cart of anonymous shoppers.
//
// The cookie never carries prices: only painting ids, optional custom sizes
// and quantities. Decoding is lenient, entries that fail validation are
// dropped and a payload that is not JSON at all decodes to an empty cart.
package guestcart

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Version is the current envelope schema version.
const Version = 1

// MaxLines bounds the number of distinct lines kept in a cookie.
const MaxLines = 50

// MaxQuantity is the largest quantity a single line may carry.
const MaxQuantity = 20

// ErrInvalidKey is returned by ParseKey for malformed line keys.
var ErrInvalidKey = errors.New("invalid cart line key")

// Line is one guest cart entry.
type Line struct {
	PaintingID uint `json:"paintingId" validate:"required,gt=0"`
	WidthCm    *int `json:"widthCm,omitempty" validate:"omitempty,gt=0,lte=1000"`
	HeightCm   *int `json:"heightCm,omitempty" validate:"omitempty,gt=0,lte=1000"`
	Quantity   int  `json:"quantity" validate:"required,gte=1,lte=20"`
}

// Key returns the composite line key of l.
func (l Line) Key() string {
	return LineKey(l.PaintingID, l.WidthCm, l.HeightCm)
}

type envelope struct {
	Version int               `json:"v"`
	Lines   []json.RawMessage `json:"lines"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode parses a cookie value. Both the versioned envelope and a bare JSON
// array of lines are accepted.
func Decode(raw string) []Line {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var entries []json.RawMessage
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			return nil
		}
	} else {
		var env envelope
		if err := json.Unmarshal([]byte(raw), &env); err != nil || env.Version > Version {
			return nil
		}
		entries = env.Lines
	}

	lines := make([]Line, 0, len(entries))
	for _, entry := range entries {
		line, ok := decodeLine(entry)
		if !ok {
			continue
		}
		lines = append(lines, line)
		if len(lines) == MaxLines {
			break
		}
	}
	return lines
}

func decodeLine(entry json.RawMessage) (Line, bool) {
	var line Line
	if err := json.Unmarshal(entry, &line); err != nil {
		return Line{}, false
	}
	if err := validate.Struct(line); err != nil {
		return Line{}, false
	}
	return line, true
}

// Encode serializes lines into the versioned envelope. An empty cart encodes
// to the empty string, which callers treat as "delete the cookie".
func Encode(lines []Line) (string, error) {
	if len(lines) == 0 {
		return "", nil
	}
	if len(lines) > MaxLines {
		lines = lines[:MaxLines]
	}
	payload := struct {
		Version int    `json:"v"`
		Lines   []Line `json:"lines"`
	}{Version: Version, Lines: lines}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// LineKey builds "paintingId|width|height" with "-" for an absent size.
func LineKey(paintingID uint, widthCm, heightCm *int) string {
	return fmt.Sprintf("%d|%s|%s", paintingID, dimension(widthCm), dimension(heightCm))
}

func dimension(v *int) string {
	if v == nil || *v <= 0 {
		return "-"
	}
	return strconv.Itoa(*v)
}

// ParseKey splits a line key into its painting id and optional size.
func ParseKey(key string) (uint, *int, *int, error) {
	parts := strings.Split(strings.TrimSpace(key), "|")
	if len(parts) != 3 {
		return 0, nil, nil, ErrInvalidKey
	}
	id, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil || id == 0 {
		return 0, nil, nil, ErrInvalidKey
	}
	width, err := parseDimension(parts[1])
	if err != nil {
		return 0, nil, nil, err
	}
	height, err := parseDimension(parts[2])
	if err != nil {
		return 0, nil, nil, err
	}
	return uint(id), width, height, nil
}

func parseDimension(s string) (*int, error) {
	if s == "-" || s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return nil, ErrInvalidKey
	}
	return &n, nil
}
