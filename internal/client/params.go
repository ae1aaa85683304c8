// ABOUTME: Ordered query parameters for gateway requests
// ABOUTME: Drops empty values before encoding so filters can be passed through as-is

package client

import (
	"net/url"
	"strconv"
	"strings"
)

// Param is a single query parameter
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of query parameters
type Params []Param

// Query builds Params from alternating key/value strings.
// A trailing key without a value is ignored.
func Query(kv ...string) Params {
	params := make(Params, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		params = append(params, Param{Key: kv[i], Value: kv[i+1]})
	}
	return params
}

// Encode returns the URL-encoded query, skipping empty values
func (p Params) Encode() string {
	values := url.Values{}
	order := make([]string, 0, len(p))
	for _, param := range p {
		if param.Value == "" {
			continue
		}
		if _, seen := values[param.Key]; !seen {
			order = append(order, param.Key)
		}
		values.Add(param.Key, param.Value)
	}

	// url.Values.Encode sorts keys; keep caller order instead.
	var sb strings.Builder
	for _, key := range order {
		for _, v := range values[key] {
			if sb.Len() > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(url.QueryEscape(key))
			sb.WriteByte('=')
			sb.WriteString(url.QueryEscape(v))
		}
	}
	return sb.String()
}

// positive returns a parameter for n, or an empty one that Encode drops
func positive(key string, n int) Param {
	if n <= 0 {
		return Param{Key: key}
	}
	return Param{Key: key, Value: strconv.Itoa(n)}
}
