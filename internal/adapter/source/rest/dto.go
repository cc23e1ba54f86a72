package rest

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// MovieRow is a row of the movies table as returned by PostgREST.
// Older tables store year and rating as text, so both are decoded leniently.
type MovieRow struct {
	ID          json.RawMessage `json:"id"`
	CreatedAt   string          `json:"created_at"`
	Title       *string         `json:"title"`
	Director    *string         `json:"director"`
	Year        FlexNumber      `json:"year"`
	Rating      FlexNumber      `json:"rating"`
	Poster      *string         `json:"poster"`
	Description *string         `json:"description"`
}

// MovieBody is the JSON body sent for inserts and updates.
// id and created_at are left to the server.
type MovieBody struct {
	Title       string  `json:"title"`
	Director    string  `json:"director"`
	Year        int     `json:"year"`
	Rating      float64 `json:"rating"`
	Poster      string  `json:"poster"`
	Description string  `json:"description"`
}

// ErrorResponse is the PostgREST error envelope
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// FlexNumber decodes a JSON number, a numeric string or null.
// Valid is false when the value was absent or could not be parsed.
type FlexNumber struct {
	Value float64
	Valid bool
	Raw   string
}

// UnmarshalJSON implements json.Unmarshaler
func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	*n = FlexNumber{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	n.Raw = raw

	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		n.Value = v
		n.Valid = true
	}
	return nil
}

// rowID renders the id column as a string whether the table uses uuid,
// text or bigint identifiers.
func rowID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
