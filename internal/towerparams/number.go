package towerparams

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/roman-kulish/los-clearance/internal/geo"
)

// Number is a float that may be encoded as a JSON number or a numeric
// string. Null and empty strings leave it unset; unparsable strings set it
// to NaN so that downstream validation rejects the record.
type Number struct {
	Value float64
	Set   bool
}

// Num returns a set Number.
func Num(v float64) Number {
	return Number{Value: v, Set: true}
}

// Or returns the value if set, def otherwise.
func (n Number) Or(def float64) float64 {
	if !n.Set {
		return def
	}
	return n.Value
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Set || math.IsNaN(n.Value) || math.IsInf(n.Value, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] != '"' {
		if err := json.Unmarshal(data, &n.Value); err != nil {
			n.Value = math.NaN()
		}
		n.Set = true
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		v = math.NaN()
	}
	*n = Number{Value: v, Set: true}
	return nil
}

// Coordinate is a latitude or longitude given either as decimal degrees or
// as a DMS string such as "40-26-46.0 N".
type Coordinate struct {
	Number
	// Text is the original string form, if any.
	Text string
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	if c.Text != "" {
		return json.Marshal(c.Text)
	}
	return c.Number.MarshalJSON()
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	*c = Coordinate{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '"' {
		return c.Number.UnmarshalJSON(data)
	}

	if err := json.Unmarshal(data, &c.Text); err != nil {
		return err
	}
	if strings.TrimSpace(c.Text) == "" {
		return nil
	}

	v, err := geo.ParseCoordinate(c.Text)
	if err != nil {
		v = math.NaN()
	}
	c.Number = Num(v)
	return nil
}

// text decodes a JSON string or number into its textual form.
func text(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return string(raw)
}
