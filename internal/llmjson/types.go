package llmjson

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// String accepts a JSON string or number. Models asked for "2.4M" sometimes
// answer 2400000.
type String string

func (s *String) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = String(v)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = String(n.String())
	return nil
}

// Number accepts a JSON number or a numeric string such as "87" or "$12.50".
// Anything else decodes to zero rather than failing the whole document.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		v = strings.TrimSpace(strings.NewReplacer("$", "", ",", "", "%", "").Replace(v))
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = Number(f)
		return nil
	}

	var f *float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f == nil {
		*n = 0
		return nil
	}
	*n = Number(*f)
	return nil
}
