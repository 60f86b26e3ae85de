package abi

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var bigIntType = reflect.TypeOf(&big.Int{})

// ToGoValue converts a generic (JSON-decoded) value into the Go value
// go-ethereum packs for the given ABI type.
func ToGoValue(t abi.Type, v any) (any, error) {
	switch t.T {
	case abi.AddressTy:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected address string, got %T", v)
		}
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("invalid address: %s", s)
		}
		return common.HexToAddress(s), nil

	case abi.BoolTy:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %T", v)
		}
		return b, nil

	case abi.UintTy, abi.IntTy:
		n, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		if err := checkIntRange(t, n); err != nil {
			return nil, err
		}
		return intToGoType(t, n), nil

	case abi.StringTy:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		return s, nil

	case abi.BytesTy:
		return toBytes(v)

	case abi.FixedBytesTy:
		b, err := toBytes(v)
		if err != nil {
			return nil, err
		}
		if len(b) != t.Size {
			return nil, fmt.Errorf("expected %d bytes for bytes%d, got %d", t.Size, t.Size, len(b))
		}
		rv := reflect.New(t.GetType()).Elem()
		reflect.Copy(rv, reflect.ValueOf(b))
		return rv.Interface(), nil

	case abi.SliceTy:
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("expected array for %s, got %T", t.String(), v)
		}
		rv := reflect.MakeSlice(t.GetType(), len(items), len(items))
		if err := fillElements(rv, *t.Elem, items); err != nil {
			return nil, err
		}
		return rv.Interface(), nil

	case abi.ArrayTy:
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("expected array for %s, got %T", t.String(), v)
		}
		if len(items) != t.Size {
			return nil, fmt.Errorf("expected %d elements for %s, got %d", t.Size, t.String(), len(items))
		}
		rv := reflect.New(t.GetType()).Elem()
		if err := fillElements(rv, *t.Elem, items); err != nil {
			return nil, err
		}
		return rv.Interface(), nil

	case abi.TupleTy:
		items, err := tupleItems(t, v)
		if err != nil {
			return nil, err
		}
		rv := reflect.New(t.GetType()).Elem()
		for i, elem := range t.TupleElems {
			cv, err := ToGoValue(*elem, items[i])
			if err != nil {
				return nil, fmt.Errorf("component %s: %w", t.TupleRawNames[i], err)
			}
			rv.Field(i).Set(reflect.ValueOf(cv))
		}
		return rv.Interface(), nil
	}

	return nil, fmt.Errorf("unsupported parameter type: %s", t.String())
}

// FromGoValue converts an unpacked Go value back into the generic form:
// addresses and bytes as 0x-hex, integers as decimal strings, arrays and tuples as lists.
func FromGoValue(t abi.Type, v any) (any, error) {
	switch t.T {
	case abi.AddressTy:
		addr, ok := v.(common.Address)
		if !ok {
			return nil, fmt.Errorf("unexpected address value %T", v)
		}
		return addr.Hex(), nil

	case abi.BoolTy, abi.StringTy:
		return v, nil

	case abi.UintTy, abi.IntTy:
		if n, ok := v.(*big.Int); ok {
			return n.String(), nil
		}
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return strconv.FormatUint(rv.Uint(), 10), nil
		case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return strconv.FormatInt(rv.Int(), 10), nil
		}
		return nil, fmt.Errorf("unexpected integer value %T", v)

	case abi.BytesTy:
		b, ok := v.([]byte)
		if !ok {
			return nil, fmt.Errorf("unexpected bytes value %T", v)
		}
		return hexutil.Encode(b), nil

	case abi.FixedBytesTy, abi.HashTy, abi.FunctionTy:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Array {
			return nil, fmt.Errorf("unexpected fixed bytes value %T", v)
		}
		b := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(b), rv)
		return hexutil.Encode(b), nil

	case abi.SliceTy, abi.ArrayTy:
		rv := reflect.ValueOf(v)
		out := make([]any, rv.Len())
		for i := range out {
			cv, err := FromGoValue(*t.Elem, rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		return out, nil

	case abi.TupleTy:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Ptr {
			rv = rv.Elem()
		}
		out := make([]any, len(t.TupleElems))
		for i, elem := range t.TupleElems {
			cv, err := FromGoValue(*elem, rv.Field(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		return out, nil
	}

	return fmt.Sprint(v), nil
}

func fillElements(rv reflect.Value, elem abi.Type, items []any) error {
	for i, item := range items {
		cv, err := ToGoValue(elem, item)
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		rv.Index(i).Set(reflect.ValueOf(cv))
	}
	return nil
}

// tupleItems accepts a positional list or an object keyed by component name
func tupleItems(t abi.Type, v any) ([]any, error) {
	switch x := v.(type) {
	case []any:
		if len(x) != len(t.TupleElems) {
			return nil, fmt.Errorf("expected %d tuple components, got %d", len(t.TupleElems), len(x))
		}
		return x, nil
	case map[string]any:
		items := make([]any, len(t.TupleElems))
		for i, name := range t.TupleRawNames {
			item, ok := x[name]
			if !ok {
				return nil, fmt.Errorf("missing tuple component %q", name)
			}
			items[i] = item
		}
		return items, nil
	}
	return nil, fmt.Errorf("expected list or object for tuple, got %T", v)
}

func toBigInt(v any) (*big.Int, error) {
	switch x := v.(type) {
	case json.Number:
		return parseDecimal(x.String())
	case string:
		return parseDecimal(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || x != math.Trunc(x) {
			return nil, fmt.Errorf("expected integer, got %v", x)
		}
		n, _ := new(big.Float).SetFloat64(x).Int(nil)
		return n, nil
	case int:
		return big.NewInt(int64(x)), nil
	case int64:
		return big.NewInt(x), nil
	case uint64:
		return new(big.Int).SetUint64(x), nil
	case *big.Int:
		return new(big.Int).Set(x), nil
	}
	return nil, fmt.Errorf("expected number or decimal string, got %T", v)
}

func parseDecimal(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer: %q", s)
	}
	return n, nil
}

func checkIntRange(t abi.Type, n *big.Int) error {
	if t.T == abi.UintTy {
		if n.Sign() < 0 {
			return fmt.Errorf("negative value %s for unsigned type %s", n, t.String())
		}
		if n.BitLen() > t.Size {
			return fmt.Errorf("value %s overflows %s", n, t.String())
		}
		return nil
	}
	limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
	minimum := new(big.Int).Neg(limit)
	if n.Cmp(minimum) < 0 || n.Cmp(limit) >= 0 {
		return fmt.Errorf("value %s overflows %s", n, t.String())
	}
	return nil
}

// intToGoType narrows n to uint8..int64 where go-ethereum expects native integers
func intToGoType(t abi.Type, n *big.Int) any {
	goType := t.GetType()
	if goType == bigIntType {
		return n
	}
	rv := reflect.New(goType).Elem()
	if t.T == abi.UintTy {
		rv.SetUint(n.Uint64())
	} else {
		rv.SetInt(n.Int64())
	}
	return rv.Interface()
}

func toBytes(v any) ([]byte, error) {
	switch x := v.(type) {
	case []byte:
		return x, nil
	case string:
		s := strings.TrimPrefix(strings.TrimPrefix(x, "0x"), "0X")
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid hex: %w", err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("expected hex string, got %T", v)
}
