package bridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"poultry_farm_backend/internal/services"
)

// Args are the positional arguments of one invocation, kept raw until a handler
// knows what type each position has.
type Args []json.RawMessage

func (a Args) present(i int) bool {
	if i >= len(a) {
		return false
	}
	raw := bytes.TrimSpace(a[i])
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

func argError(i int, format string, args ...interface{}) error {
	return fmt.Errorf("%w: argument %d %s", services.ErrValidation, i+1, fmt.Sprintf(format, args...))
}

// Bind decodes position i into dst. A missing argument is a validation error.
// Numeric fields inside the object accept numeric strings, as positional numbers do.
func (a Args) Bind(i int, dst interface{}) error {
	if !a.present(i) {
		return argError(i, "is required")
	}
	err := json.Unmarshal(a[i], dst)
	var typeErr *json.UnmarshalTypeError
	if err == nil || !errors.As(err, &typeErr) || typeErr.Value != "string" {
		if err != nil {
			return argError(i, "is malformed: %v", err)
		}
		return nil
	}
	if err := a.bindWeak(i, dst); err != nil {
		return argError(i, "is malformed: %v", err)
	}
	return nil
}

func (a Args) bindWeak(i int, dst interface{}) error {
	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(a[i]))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	// Drop whatever the failed strict decode left behind.
	target := reflect.ValueOf(dst).Elem()
	target.Set(reflect.Zero(target.Type()))

	weak, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	return weak.Decode(raw)
}

// number reads a JSON number or a numeric string, which form inputs often send.
func (a Args) number(i int) (json.Number, error) {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(a[i]))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", argError(i, "is malformed: %v", err)
	}
	switch n := v.(type) {
	case json.Number:
		return n, nil
	case string:
		s := strings.TrimSpace(n)
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return "", argError(i, "must be a number, got %q", n)
		}
		return json.Number(s), nil
	}
	return "", argError(i, "must be a number")
}

func (a Args) Int64(i int) (int64, error) {
	if !a.present(i) {
		return 0, argError(i, "is required")
	}
	n, err := a.number(i)
	if err != nil {
		return 0, err
	}
	v, err := n.Int64()
	if err != nil {
		return 0, argError(i, "must be an integer, got %s", n.String())
	}
	return v, nil
}

// ID is a positive Int64.
func (a Args) ID(i int) (int64, error) {
	v, err := a.Int64(i)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, argError(i, "must be a positive id")
	}
	return v, nil
}

func (a Args) OptionalInt64(i int) (*int64, error) {
	if !a.present(i) {
		return nil, nil
	}
	v, err := a.Int64(i)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (a Args) Float64(i int) (float64, error) {
	if !a.present(i) {
		return 0, argError(i, "is required")
	}
	n, err := a.number(i)
	if err != nil {
		return 0, err
	}
	v, err := n.Float64()
	if err != nil {
		return 0, argError(i, "must be a number, got %s", n.String())
	}
	return v, nil
}

func (a Args) String(i int) (string, error) {
	if !a.present(i) {
		return "", argError(i, "is required")
	}
	var s string
	if err := json.Unmarshal(a[i], &s); err != nil {
		return "", argError(i, "must be a string")
	}
	return s, nil
}

func (a Args) OptionalString(i int) (*string, error) {
	if !a.present(i) {
		return nil, nil
	}
	s, err := a.String(i)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
