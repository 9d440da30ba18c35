package filter

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
)

// listEncoding names the shape a list-valued query value was written in.
type listEncoding string

const (
	encodingJSONArray   listEncoding = "json_array"
	encodingBracketList listEncoding = "bracket_list"
	encodingDelimited   listEncoding = "delimited"
)

var (
	errNotJSONArray = errors.New("value is not a JSON array")
	errNotBracketed = errors.New("value is not a bracketed list")
	errEmptyValue   = errors.New("value is empty")
)

// listAttempt is one step of the decode chain for list-valued keys.
type listAttempt struct {
	encoding listEncoding
	parse    func(raw string) ([]string, error)
}

// listAttempts is tried in order; the first attempt that succeeds wins.
// A single bare value is the one-element delimited list.
var listAttempts = []listAttempt{
	{encoding: encodingJSONArray, parse: parseJSONArray},
	{encoding: encodingBracketList, parse: parseBracketList},
	{encoding: encodingDelimited, parse: parseDelimited},
}

// parseList runs the attempt chain and reports which encoding matched. The
// returned error is the last attempt's failure when none matched.
func parseList(raw string) ([]string, listEncoding, error) {
	var lastErr error
	for _, a := range listAttempts {
		items, err := a.parse(raw)
		if err == nil {
			return items, a.encoding, nil
		}
		lastErr = err
	}
	return nil, "", lastErr
}

func parseJSONArray(raw string) ([]string, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &elems); err != nil {
		return nil, errNotJSONArray
	}
	if elems == nil {
		// literal null
		return nil, errNotJSONArray
	}

	out := make([]string, 0, len(elems))
	for _, e := range elems {
		var s string
		if err := json.Unmarshal(e, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
			continue
		}
		var n json.Number
		if err := json.Unmarshal(e, &n); err == nil {
			out = append(out, n.String())
		}
	}
	return out, nil
}

// parseBracketList accepts the hand-written form [a, b, "c"].
func parseBracketList(raw string) ([]string, error) {
	v := strings.TrimSpace(raw)
	if len(v) < 2 || v[0] != '[' || v[len(v)-1] != ']' {
		return nil, errNotBracketed
	}
	inner := v[1 : len(v)-1]
	out := make([]string, 0)
	for _, part := range strings.Split(inner, ",") {
		part = strings.Trim(strings.TrimSpace(part), `"'`)
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}

func parseDelimited(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errEmptyValue
	}
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}

// toSizes keeps known sizes in canonical form and returns the rejected tokens.
func toSizes(tokens []string) ([]Size, []string) {
	var out []Size
	var rejected []string
	for _, t := range tokens {
		s, ok := ParseSize(t)
		if !ok {
			rejected = append(rejected, t)
			continue
		}
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out, rejected
}

// toColors keeps known colours in canonical form and returns the rejected tokens.
func toColors(tokens []string) ([]Color, []string) {
	var out []Color
	var rejected []string
	for _, t := range tokens {
		c, ok := ParseColor(t)
		if !ok {
			rejected = append(rejected, t)
			continue
		}
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out, rejected
}

func sizeTokens(in []Size) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}

func colorTokens(in []Color) []string {
	out := make([]string, len(in))
	for i, c := range in {
		out[i] = string(c)
	}
	return out
}
