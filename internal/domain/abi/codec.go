package abi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/models"
)

// ABI is a parsed contract interface. It keeps the declaration order of the
// raw JSON alongside go-ethereum's packer so overloads and tuple components
// can be reported faithfully.
type ABI struct {
	packer      abi.ABI
	functions   []*Function
	bySignature map[string]*Function
	constructor *models.ConstructorInfo
}

// Function is a single declared function (one per overload)
type Function struct {
	Info   models.FunctionInfo
	method abi.Method
}

// entry is one element of the raw interface description
type entry struct {
	Type            string  `json:"type"`
	Name            string  `json:"name"`
	Inputs          []param `json:"inputs"`
	Outputs         []param `json:"outputs"`
	StateMutability string  `json:"stateMutability"`
	Constant        bool    `json:"constant"`
	Payable         bool    `json:"payable"`
}

type param struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	InternalType string  `json:"internalType"`
	Components   []param `json:"components"`
}

// Parse parses a JSON interface description
func Parse(abiJSON string) (*ABI, error) {
	var entries []entry
	if err := json.Unmarshal([]byte(abiJSON), &entries); err != nil {
		return nil, domain.WrapError(domain.KindAbiParse, err, "invalid ABI JSON")
	}

	named, err := nameTupleComponents([]byte(abiJSON))
	if err != nil {
		return nil, domain.WrapError(domain.KindAbiParse, err, "invalid ABI JSON")
	}
	packer, err := abi.JSON(bytes.NewReader(named))
	if err != nil {
		return nil, domain.WrapError(domain.KindAbiParse, err, "invalid ABI")
	}

	methodsBySig := make(map[string]abi.Method, len(packer.Methods))
	for _, m := range packer.Methods {
		methodsBySig[m.Sig] = m
	}

	a := &ABI{
		packer:      packer,
		bySignature: make(map[string]*Function),
	}

	for _, e := range entries {
		switch e.Type {
		case "function", "":
			sig := e.Name + "(" + strings.Join(lo.Map(e.Inputs, func(p param, _ int) string {
				return canonicalType(p)
			}), ",") + ")"
			method, ok := methodsBySig[sig]
			if !ok {
				return nil, domain.NewError(domain.KindAbiParse, "function %s could not be resolved", sig)
			}
			fn := &Function{
				Info: models.FunctionInfo{
					Name:       e.Name,
					Signature:  sig,
					Selector:   hexutil.Encode(method.ID),
					Inputs:     toParamInfos(e.Inputs),
					Outputs:    toParamInfos(e.Outputs),
					Mutability: e.mutability(),
				},
				method: method,
			}
			a.functions = append(a.functions, fn)
			a.bySignature[sig] = fn
		case "constructor":
			a.constructor = &models.ConstructorInfo{
				Inputs:     toParamInfos(e.Inputs),
				Mutability: e.mutability(),
			}
		}
	}

	return a, nil
}

// Constructor returns the declared constructor, or nil
func (a *ABI) Constructor() *models.ConstructorInfo {
	return a.constructor
}

// HasConstructorWithArgs reports whether deploying requires constructor arguments
func (a *ABI) HasConstructorWithArgs() bool {
	return a.constructor != nil && len(a.constructor.Inputs) > 0
}

// Functions partitions every declared function into read and write groups, each sorted by name
func (a *ABI) Functions() models.ParsedFunctions {
	result := models.ParsedFunctions{
		Read:  []models.FunctionInfo{},
		Write: []models.FunctionInfo{},
	}
	for _, fn := range a.functions {
		if fn.Info.IsReadOnly() {
			result.Read = append(result.Read, fn.Info)
		} else {
			result.Write = append(result.Write, fn.Info)
		}
	}
	sort.SliceStable(result.Read, func(i, j int) bool { return result.Read[i].Name < result.Read[j].Name })
	sort.SliceStable(result.Write, func(i, j int) bool { return result.Write[i].Name < result.Write[j].Name })
	return result
}

// Function returns the first-declared overload with the given name.
// Use ResolveFunction when overloads must be told apart.
func (a *ABI) Function(name string) (*Function, bool) {
	return lo.Find(a.functions, func(fn *Function) bool { return fn.Info.Name == name })
}

// FunctionBySignature looks a function up by canonical signature, e.g. "transfer(address,uint256)"
func (a *ABI) FunctionBySignature(signature string) (*Function, bool) {
	fn, ok := a.bySignature[strings.ReplaceAll(signature, " ", "")]
	return fn, ok
}

// Overloads returns every function declared with the given name, in declaration order
func (a *ABI) Overloads(name string) []*Function {
	return lo.Filter(a.functions, func(fn *Function, _ int) bool { return fn.Info.Name == name })
}

// FunctionNames returns the distinct declared function names
func (a *ABI) FunctionNames() []string {
	return lo.Uniq(lo.Map(a.functions, func(fn *Function, _ int) string { return fn.Info.Name }))
}

// ResolveFunction resolves a function reference. A reference containing
// parentheses is matched against canonical signatures; a bare name must
// identify exactly one overload.
func (a *ABI) ResolveFunction(ref string) (*Function, error) {
	if strings.Contains(ref, "(") {
		if fn, ok := a.FunctionBySignature(ref); ok {
			return fn, nil
		}
		return nil, domain.NewError(domain.KindFunctionNotFound, "function '%s' not found", ref)
	}

	overloads := a.Overloads(ref)
	switch len(overloads) {
	case 0:
		return nil, domain.NewError(domain.KindFunctionNotFound, "function '%s' not found", ref)
	case 1:
		return overloads[0], nil
	default:
		sigs := lo.Map(overloads, func(fn *Function, _ int) string { return fn.Info.Signature })
		return nil, domain.Validation("function '%s' is overloaded, use one of: %s", ref, strings.Join(sigs, ", "))
	}
}

// Encode converts generic argument values and packs them behind the function selector
func (a *ABI) Encode(fn *Function, args []any) ([]byte, error) {
	values, err := convertArguments(fn.method.Inputs, args)
	if err != nil {
		return nil, err
	}
	packed, err := fn.method.Inputs.Pack(values...)
	if err != nil {
		return nil, domain.WrapError(domain.KindAbiEncode, err, "failed to encode %s", fn.Info.Signature)
	}
	data := make([]byte, 0, len(fn.method.ID)+len(packed))
	data = append(data, fn.method.ID...)
	return append(data, packed...), nil
}

// EncodeConstructor packs constructor arguments (without selector) for appending to init bytecode
func (a *ABI) EncodeConstructor(args []any) ([]byte, error) {
	if a.constructor == nil {
		if len(args) > 0 {
			return nil, domain.Validation("contract has no constructor but %d arguments were provided", len(args))
		}
		return []byte{}, nil
	}
	values, err := convertArguments(a.packer.Constructor.Inputs, args)
	if err != nil {
		return nil, err
	}
	packed, err := a.packer.Constructor.Inputs.Pack(values...)
	if err != nil {
		return nil, domain.WrapError(domain.KindAbiEncode, err, "failed to encode constructor arguments")
	}
	return packed, nil
}

// Decode converts return data into a generic value. No outputs yields nil,
// a single output is returned bare and several outputs as a list.
func (a *ABI) Decode(fn *Function, data []byte) (any, error) {
	outputs := fn.method.Outputs
	if len(outputs) == 0 {
		return nil, nil
	}
	values, err := outputs.Unpack(data)
	if err != nil {
		return nil, domain.WrapError(domain.KindAbiDecode, err, "failed to decode %s output", fn.Info.Signature)
	}
	if len(values) != len(outputs) {
		return nil, domain.NewError(domain.KindAbiDecode, "expected %d outputs, got %d", len(outputs), len(values))
	}

	converted := make([]any, len(values))
	for i, v := range values {
		cv, err := FromGoValue(outputs[i].Type, v)
		if err != nil {
			return nil, err
		}
		converted[i] = cv
	}
	if len(converted) == 1 {
		return converted[0], nil
	}
	return converted, nil
}

func convertArguments(inputs abi.Arguments, args []any) ([]any, error) {
	if len(args) != len(inputs) {
		return nil, domain.Validation("expected %d parameters, got %d", len(inputs), len(args))
	}
	values := make([]any, len(args))
	for i, arg := range args {
		v, err := ToGoValue(inputs[i].Type, arg)
		if err != nil {
			return nil, domain.WrapError(domain.KindAbiEncode, err, "parameter %d (%s)", i, inputs[i].Type.String())
		}
		values[i] = v
	}
	return values, nil
}

func (e entry) mutability() models.Mutability {
	switch e.StateMutability {
	case "pure":
		return models.MutabilityPure
	case "view":
		return models.MutabilityView
	case "payable":
		return models.MutabilityPayable
	case "nonpayable":
		return models.MutabilityNonPayable
	}
	// pre-0.5 ABIs
	if e.Constant {
		return models.MutabilityView
	}
	if e.Payable {
		return models.MutabilityPayable
	}
	return models.MutabilityNonPayable
}

// nameTupleComponents gives unnamed tuple components positional names (field0, field1, ...)
// so go-ethereum can build a struct type for them.
func nameTupleComponents(raw []byte) ([]byte, error) {
	var entries []map[string]any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	for _, e := range entries {
		nameComponents(e["inputs"])
		nameComponents(e["outputs"])
	}
	return json.Marshal(entries)
}

func nameComponents(params any) {
	list, _ := params.([]any)
	for _, p := range list {
		param, ok := p.(map[string]any)
		if !ok {
			continue
		}
		components, ok := param["components"].([]any)
		if !ok {
			continue
		}
		for i, c := range components {
			comp, ok := c.(map[string]any)
			if !ok {
				continue
			}
			if name, _ := comp["name"].(string); abi.ToCamelCase(name) == "" {
				comp["name"] = fmt.Sprintf("field%d", i)
			}
		}
		nameComponents(components)
	}
}

// canonicalType expands tuple types into their component list, e.g. tuple[] -> (uint256,bool)[]
func canonicalType(p param) string {
	if !strings.HasPrefix(p.Type, "tuple") {
		return p.Type
	}
	inner := lo.Map(p.Components, func(c param, _ int) string { return canonicalType(c) })
	return fmt.Sprintf("(%s)%s", strings.Join(inner, ","), strings.TrimPrefix(p.Type, "tuple"))
}

func toParamInfos(params []param) []models.ParamInfo {
	infos := make([]models.ParamInfo, 0, len(params))
	for _, p := range params {
		info := models.ParamInfo{
			Name:         p.Name,
			Type:         p.Type,
			InternalType: p.InternalType,
		}
		if len(p.Components) > 0 {
			info.Components = toParamInfos(p.Components)
		}
		infos = append(infos, info)
	}
	return infos
}
