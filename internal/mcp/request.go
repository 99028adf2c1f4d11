package mcp

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// dateLayout is the upstream date format.
const dateLayout = "2006-01-02"

// windowDays is the span of the default date window.
const windowDays = 30

// UpstreamRequest is a fully resolved call against the AppVector API.
type UpstreamRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
}

// ArgumentError reports an invalid or missing tool argument. It is raised
// before any upstream call is made.
type ArgumentError struct {
	Message string
}

func (e *ArgumentError) Error() string {
	return e.Message
}

func argumentErrorf(format string, args ...any) *ArgumentError {
	return &ArgumentError{Message: fmt.Sprintf(format, args...)}
}

// DateWindow returns the default [today-30d, today] range for the given instant.
func DateWindow(now time.Time) (start, end string) {
	return now.AddDate(0, 0, -windowDays).Format(dateLayout), now.Format(dateLayout)
}

// buildUpstreamRequest validates args against the catalog entry, fills
// defaults and places every value in the query, body or path.
func buildUpstreamRequest(ct CatalogTool, args map[string]any, now time.Time) (*UpstreamRequest, error) {
	values := make(map[string]any, len(ct.Params))
	for _, p := range ct.Params {
		v, err := normalizeArg(p, args[p.Name])
		if err != nil {
			return nil, err
		}
		if v != nil {
			values[p.Name] = v
		}
	}

	for _, p := range ct.Params {
		if p.Required && values[p.Name] == nil {
			return nil, missingArgument(p)
		}
	}
	for _, p := range ct.Params {
		if err := checkEnum(p, values[p.Name]); err != nil {
			return nil, err
		}
	}

	windowStart, windowEnd := DateWindow(now)
	req := &UpstreamRequest{
		Method: strings.ToUpper(ct.Method),
		Query:  url.Values{},
	}
	if req.Method != "GET" {
		req.Body = map[string]any{}
	}
	pathValues := make(map[string]string)

	for _, p := range ct.Params {
		if p.OmitWhen != "" && values[p.OmitWhen] != nil {
			continue
		}
		v := values[p.Name]
		if v == nil {
			switch {
			case p.DefaultFrom == DefaultWindowStart:
				v = windowStart
			case p.DefaultFrom == DefaultWindowEnd:
				v = windowEnd
			case p.Default != nil:
				v = p.Default
			default:
				continue
			}
		}

		if s, ok := scalarString(v); ok {
			pathValues[p.Name] = s
		}
		switch p.In {
		case InQuery:
			addQuery(req.Query, p.wireName(), v)
		case InBody:
			req.Body[p.wireName()] = v
		}
	}

	path, err := expandPath(ct.Path, pathValues)
	if err != nil {
		return nil, err
	}
	req.Path = path
	return req, nil
}

// normalizeArg converts a raw JSON argument into the parameter's Go type.
// Absent and empty values normalize to nil.
func normalizeArg(p CatalogParam, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch p.Type {
	case TypeString:
		var s string
		switch v := raw.(type) {
		case string:
			s = v
		case float64:
			s = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			s = strconv.FormatBool(v)
		default:
			return nil, argumentErrorf("%s must be a string", p.Name)
		}
		if p.Trim {
			s = strings.TrimSpace(s)
		}
		if s == "" {
			return nil, nil
		}
		return s, nil

	case TypeInteger:
		var n int64
		switch v := raw.(type) {
		case float64:
			if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
				return nil, argumentErrorf("%s must be an integer", p.Name)
			}
			n = int64(v)
		case int:
			n = int64(v)
		case int64:
			n = v
		case string:
			if v == "" {
				return nil, nil
			}
			parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return nil, argumentErrorf("%s must be an integer", p.Name)
			}
			n = parsed
		default:
			return nil, argumentErrorf("%s must be an integer", p.Name)
		}
		// A required identifier of zero is treated as missing.
		if p.Required && n == 0 {
			return nil, nil
		}
		return n, nil

	case TypeBoolean:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			if v == "" {
				return nil, nil
			}
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, argumentErrorf("%s must be a boolean", p.Name)
			}
			return b, nil
		default:
			return nil, argumentErrorf("%s must be a boolean", p.Name)
		}

	case TypeArray:
		var items []string
		switch v := raw.(type) {
		case []any:
			for _, item := range v {
				s, ok := scalarString(item)
				if !ok {
					return nil, argumentErrorf("%s must be a list of strings", p.Name)
				}
				items = append(items, s)
			}
		case []string:
			items = append(items, v...)
		case string:
			if v != "" {
				items = []string{v}
			}
		default:
			return nil, argumentErrorf("%s must be a list of strings", p.Name)
		}
		if len(items) == 0 {
			return nil, nil
		}
		return items, nil
	}
	return nil, argumentErrorf("%s has unsupported type %s", p.Name, p.Type)
}

func missingArgument(p CatalogParam) *ArgumentError {
	if p.Message != "" {
		return &ArgumentError{Message: p.Message}
	}
	if p.Type == TypeArray {
		return argumentErrorf("At least one %s is required", p.Name)
	}
	return argumentErrorf("%s is required", p.Name)
}

func checkEnum(p CatalogParam, v any) error {
	if len(p.Enum) == 0 || v == nil {
		return nil
	}
	s, _ := v.(string)
	for _, allowed := range p.Enum {
		if s == allowed {
			return nil
		}
	}
	quoted := make([]string, len(p.Enum))
	for i, allowed := range p.Enum {
		quoted[i] = "'" + allowed + "'"
	}
	if len(quoted) == 2 {
		return argumentErrorf("%s must be either %s or %s", p.Name, quoted[0], quoted[1])
	}
	return argumentErrorf("%s must be one of %s", p.Name, strings.Join(quoted, ", "))
}

// scalarString renders a string, number or boolean for use in a path or query.
func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	}
	return "", false
}

// addQuery encodes v under key. Booleans become "1"/"0" and lists repeat the key.
func addQuery(q url.Values, key string, v any) {
	switch x := v.(type) {
	case bool:
		if x {
			q.Set(key, "1")
		} else {
			q.Set(key, "0")
		}
	case []string:
		for _, item := range x {
			q.Add(key, item)
		}
	default:
		if s, ok := scalarString(x); ok {
			q.Set(key, s)
		}
	}
}

// expandPath substitutes {name} placeholders with path-escaped values.
func expandPath(template string, values map[string]string) (string, error) {
	var missing string
	path := placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := values[name]
		if !ok || v == "" {
			if missing == "" {
				missing = name
			}
			return m
		}
		return url.PathEscape(v)
	})
	if missing != "" {
		return "", argumentErrorf("%s is required", missing)
	}
	return path, nil
}
