package commerce

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// flexString decodes a JSON string, number or boolean as text. Objects and
// arrays keep their raw JSON; null decodes as "".
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*s = ""
	case data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}

		*s = flexString(v)
	default:
		*s = flexString(data)
	}

	return nil
}

// flexInt decodes a JSON number or numeric string. Anything else decodes as 0.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	text := strings.Trim(string(bytes.TrimSpace(data)), `"`)

	if v, err := strconv.ParseFloat(text, 64); err == nil {
		*n = flexInt(v)
		return nil
	}

	*n = 0

	return nil
}

// optionalInt is a flexInt that remembers whether a value was present.
type optionalInt struct {
	value int
	set   bool
}

func (o *optionalInt) UnmarshalJSON(data []byte) error {
	text := strings.Trim(string(bytes.TrimSpace(data)), `"`)

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		*o = optionalInt{}
		return nil
	}

	*o = optionalInt{value: int(v), set: true}

	return nil
}

func (o optionalInt) ptr() *int {
	if !o.set {
		return nil
	}

	v := o.value

	return &v
}

// recoverID pulls an identifier out of a node that failed to decode.
// Bare strings and numbers are taken as the identifier itself.
func recoverID(node json.RawMessage, keys ...string) string {
	node = bytes.TrimSpace(node)
	if len(node) == 0 {
		return ""
	}

	switch node[0] {
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(node, &fields); err != nil {
			return ""
		}

		for _, key := range keys {
			var id flexString
			if raw, ok := fields[key]; ok && json.Unmarshal(raw, &id) == nil && id != "" && raw[0] != '{' && raw[0] != '[' {
				return string(id)
			}
		}
	case '"', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var id flexString
		if err := json.Unmarshal(node, &id); err == nil {
			return strings.TrimSpace(string(id))
		}
	}

	return ""
}

var globalIDPattern = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)

func decodeBase64(s string) string {
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return ""
	}

	return string(decoded)
}
