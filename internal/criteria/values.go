package criteria

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	apperrors "github.com/rhq-project/rhq-coregui/internal/errors"
	"github.com/spf13/cast"
)

// Interval is a closed time range in epoch milliseconds.
type Interval struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// NewInterval rejects ranges that end before they start.
func NewInterval(start, end int64) (Interval, error) {
	if start > end {
		return Interval{}, apperrors.Detail(apperrors.ErrInvalidFilterValue,
			"interval start %d is after end %d", start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// QueryArgs binds the interval to the placeholders of its override fragment.
func (i Interval) QueryArgs() []any {
	return []any{i.Start, i.End}
}

// ArgsProvider is implemented by composite filter values that bind more than
// one placeholder.
type ArgsProvider interface {
	QueryArgs() []any
}

func coerce(def *FilterDef, value any) (any, error) {
	switch def.Kind {
	case KindString:
		return cast.ToStringE(value)
	case KindInt:
		return toInt(value)
	case KindInt64:
		return toInt64(value)
	case KindBool:
		return cast.ToBoolE(value)
	case KindIntList:
		return toIntList(value)
	case KindStringList:
		return toStringList(value)
	case KindEnum:
		s, err := cast.ToStringE(value)
		if err != nil {
			return nil, err
		}
		return enumValue(def, s)
	case KindEnumList:
		list, err := toStringList(value)
		if err != nil {
			return nil, err
		}
		for i, s := range list {
			if list[i], err = enumValue(def, s); err != nil {
				return nil, err
			}
		}
		return list, nil
	case KindInterval:
		return toInterval(value)
	default:
		return nil, fmt.Errorf("unsupported filter kind %d", def.Kind)
	}
}

func enumValue(def *FilterDef, s string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for _, allowed := range def.Enum {
		if allowed == upper {
			return upper, nil
		}
	}
	return "", fmt.Errorf("%q is not one of %s", s, strings.Join(def.Enum, ", "))
}

func isSlice(value any) bool {
	kind := reflect.ValueOf(value).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

// toInt64 accepts integral numbers and base 10 strings only. Leading zeros
// and hex prefixes are not reinterpreted and fractions are not truncated.
func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt64 || v < math.MinInt64 {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		return int64(v), nil
	case float32:
		return toInt64(float64(v))
	}
	return cast.ToInt64E(value)
}

func toInt(value any) (int, error) {
	n, err := toInt64(value)
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt || n < math.MinInt {
		return 0, fmt.Errorf("%d is out of range", n)
	}
	return int(n), nil
}

func toIntList(value any) ([]int, error) {
	if !isSlice(value) {
		n, err := toInt(value)
		if err != nil {
			return nil, err
		}
		return []int{n}, nil
	}
	rv := reflect.ValueOf(value)
	list := make([]int, rv.Len())
	for i := range list {
		n, err := toInt(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		list[i] = n
	}
	return list, nil
}

func toStringList(value any) ([]string, error) {
	if s, ok := value.(string); ok {
		return []string{s}, nil
	}
	if !isSlice(value) {
		s, err := cast.ToStringE(value)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
	return cast.ToStringSliceE(value)
}

func toInterval(value any) (Interval, error) {
	switch v := value.(type) {
	case Interval:
		return NewInterval(v.Start, v.End)
	case *Interval:
		if v == nil {
			return Interval{}, fmt.Errorf("nil interval")
		}
		return NewInterval(v.Start, v.End)
	case map[string]any:
		start, err := toInt64(v["start"])
		if err != nil {
			return Interval{}, fmt.Errorf("interval start: %w", err)
		}
		end, err := toInt64(v["end"])
		if err != nil {
			return Interval{}, fmt.Errorf("interval end: %w", err)
		}
		return NewInterval(start, end)
	}

	if isSlice(value) {
		rv := reflect.ValueOf(value)
		if rv.Len() != 2 {
			return Interval{}, fmt.Errorf("interval needs exactly two bounds, got %d", rv.Len())
		}
		start, err := toInt64(rv.Index(0).Interface())
		if err != nil {
			return Interval{}, fmt.Errorf("interval start: %w", err)
		}
		end, err := toInt64(rv.Index(1).Interface())
		if err != nil {
			return Interval{}, fmt.Errorf("interval end: %w", err)
		}
		return NewInterval(start, end)
	}
	return Interval{}, fmt.Errorf("cannot use %T as an interval", value)
}
