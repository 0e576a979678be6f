package descriptor

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

const (
	sequenceSentinel = "[]"
	objectSentinel   = "{}"
)

// Parse converts the native form of a descriptor into a Descriptor.
//
// Accepted inputs:
//
//	"Number", "Number?", "Number*", "Number|gte:0|lte:100"  primitive or alias
//	"/^[a-z]+$/", "/^[a-z]+$/?"                              regex literal
//	[]any{"Number"}                                          array of Number
//	[]any{"Number", "String"}                                tuple
//	[]any{"Number", "[]?"}                                   nullable array
//	map[string]any{"*": "Number"}                            wildcard object
//	map[string]any{"x": "Number", "{}*": true}               optional exact object
//
// Any slice or string-keyed map type is accepted, as are *regexp.Regexp,
// *regexp2.Regexp and Descriptor values (returned unchanged). The input is
// never modified.
func Parse(native any) (Descriptor, error) {
	switch v := native.(type) {
	case nil:
		return Descriptor{}, &SyntaxError{Msg: "descriptor is nil"}
	case Descriptor:
		if err := Validate(v); err != nil {
			return Descriptor{}, err
		}
		return v, nil
	case *Descriptor:
		if v == nil {
			return Descriptor{}, &SyntaxError{Msg: "descriptor is empty"}
		}
		if err := Validate(*v); err != nil {
			return Descriptor{}, err
		}
		return *v, nil
	case string:
		return parseString(v)
	case *regexp2.Regexp:
		return Descriptor{Kind: KindRegex, Pattern: &Pattern{source: v.String(), re: v}}, nil
	case *regexp.Regexp:
		re, err := regexp2.Compile(v.String(), regexp2.RE2)
		if err != nil {
			return Descriptor{}, &SyntaxError{Input: "/" + v.String() + "/", Msg: err.Error()}
		}
		re.MatchTimeout = MatchTimeout
		return Descriptor{Kind: KindRegex, Pattern: &Pattern{source: v.String(), re: re}}, nil
	}

	rv := reflect.ValueOf(native)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return parseSequence(rv)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Descriptor{}, &SyntaxError{Input: fmt.Sprintf("%T", native), Msg: "object descriptor keys must be strings"}
		}
		return parseObject(rv)
	}
	return Descriptor{}, &SyntaxError{Input: fmt.Sprintf("%T", native), Msg: "unsupported descriptor value"}
}

// MustParse is like Parse but panics on error.
func MustParse(native any) Descriptor {
	d, err := Parse(native)
	if err != nil {
		panic(err)
	}
	return d
}

func parseString(raw string) (Descriptor, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Descriptor{}, &SyntaxError{Input: strconv.Quote(raw), Msg: "empty type name"}
	}
	if strings.HasPrefix(s, sequenceSentinel) || strings.HasPrefix(s, objectSentinel) {
		return Descriptor{}, &SyntaxError{Input: strconv.Quote(raw), Msg: "annotation sentinel is only valid inside an array or object descriptor"}
	}

	if s[0] == '/' {
		end := regexEnd(s)
		if end < 0 {
			return Descriptor{}, &SyntaxError{Input: strconv.Quote(raw), Msg: "unterminated regex literal"}
		}
		d, err := Regex(s[1:end])
		if err != nil {
			return Descriptor{}, err
		}
		anns, err := parseSuffix(raw, s[end+1:])
		if err != nil {
			return Descriptor{}, err
		}
		d.Annotations = anns
		return d, nil
	}

	name, suffix := s, ""
	if i := strings.IndexAny(s, "?*|"); i >= 0 {
		name, suffix = strings.TrimSpace(s[:i]), s[i:]
	}
	if !isName(name) {
		return Descriptor{}, &SyntaxError{Input: strconv.Quote(raw), Msg: fmt.Sprintf("invalid type name %q", name)}
	}
	anns, err := parseSuffix(raw, suffix)
	if err != nil {
		return Descriptor{}, err
	}

	d := Alias(name)
	if IsPrimitive(name) {
		d = Prim(name)
	}
	d.Annotations = anns
	return d, nil
}

// regexEnd returns the index of the slash closing the regex literal that
// starts at s[0], or -1. Escaped slashes and slashes inside a character
// class do not close the literal.
func regexEnd(s string) int {
	inClass := false
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				return i
			}
		}
	}
	return -1
}

// parseSuffix parses an annotation suffix such as "?", "*|gte:0" or
// "|minlen:1|maxlen:10".
func parseSuffix(raw, suffix string) ([]Annotation, error) {
	head, chain, hasChain := strings.Cut(suffix, "|")

	var anns []Annotation
	switch strings.TrimSpace(head) {
	case "":
	case "?":
		anns = append(anns, Annotation{Kind: Nullable})
	case "*":
		anns = append(anns, Annotation{Kind: Optional})
	default:
		return nil, &SyntaxError{Input: strconv.Quote(raw), Msg: fmt.Sprintf("unexpected %q; expected '?', '*' or a filter chain", strings.TrimSpace(head))}
	}
	if !hasChain {
		return anns, nil
	}

	for _, part := range strings.Split(chain, "|") {
		name, arg, hasArg := strings.Cut(strings.TrimSpace(part), ":")
		if !isName(name) {
			return nil, &SyntaxError{Input: strconv.Quote(raw), Msg: fmt.Sprintf("invalid filter reference %q", part)}
		}
		anns = append(anns, Annotation{Kind: Filter, Filter: FilterRef{Name: name, Arg: arg, HasArg: hasArg}})
	}
	return anns, nil
}

func parseSequence(rv reflect.Value) (Descriptor, error) {
	n := rv.Len()
	elems := make([]any, 0, n)
	var anns []Annotation

	for i := 0; i < n; i++ {
		el := rv.Index(i).Interface()
		if s, ok := el.(string); ok && strings.HasPrefix(strings.TrimSpace(s), sequenceSentinel) {
			if i != n-1 {
				return Descriptor{}, &SyntaxError{Input: strconv.Quote(s), Msg: "array annotation must be the last element"}
			}
			var err error
			if anns, err = parseSuffix(s, strings.TrimSpace(s)[len(sequenceSentinel):]); err != nil {
				return Descriptor{}, err
			}
			continue
		}
		elems = append(elems, el)
	}

	if len(elems) == 0 {
		return Descriptor{}, &SyntaxError{Input: "[]", Msg: "array descriptor needs at least one element type"}
	}

	descs := make([]Descriptor, len(elems))
	for i, el := range elems {
		d, err := Parse(el)
		if err != nil {
			return Descriptor{}, fmt.Errorf("element %d: %w", i, err)
		}
		descs[i] = d
	}

	var d Descriptor
	if len(descs) == 1 {
		d = ArrayOf(descs[0])
	} else {
		d = Descriptor{Kind: KindTuple, Elements: descs}
	}
	d.Annotations = anns
	return d, nil
}

func parseObject(rv reflect.Value) (Descriptor, error) {
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)

	var anns []Annotation
	sentinelSeen := false
	fields := make(map[string]Descriptor, len(keys))

	for _, key := range keys {
		raw := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key())).Interface()

		if trimmed := strings.TrimSpace(key); strings.HasPrefix(trimmed, objectSentinel) {
			if sentinelSeen {
				return Descriptor{}, &SyntaxError{Input: strconv.Quote(key), Msg: "object descriptor has more than one annotation key"}
			}
			sentinelSeen = true
			var err error
			if anns, err = parseSuffix(key, trimmed[len(objectSentinel):]); err != nil {
				return Descriptor{}, err
			}
			continue
		}

		d, err := Parse(raw)
		if err != nil {
			return Descriptor{}, fmt.Errorf("key %q: %w", key, err)
		}
		fields[key] = d
	}

	if wild, ok := fields[WildcardKey]; ok {
		if len(fields) > 1 {
			return Descriptor{}, &SyntaxError{Input: strconv.Quote(WildcardKey), Msg: "wildcard key cannot be combined with named keys"}
		}
		d := MapOf(wild)
		d.Annotations = anns
		return d, nil
	}

	return Descriptor{Kind: KindObject, Fields: fields, Annotations: anns}, nil
}

// isName reports whether s is a valid type, alias or filter name.
func isName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && ((r >= '0' && r <= '9') || r == '.' || r == '-'):
		default:
			return false
		}
	}
	return true
}
