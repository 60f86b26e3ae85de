package models

// Mutability is a function's declared state mutability
type Mutability string

const (
	MutabilityPure       Mutability = "pure"
	MutabilityView       Mutability = "view"
	MutabilityNonPayable Mutability = "nonpayable"
	MutabilityPayable    Mutability = "payable"
)

// IsReadOnly reports whether calls cannot change state
func (m Mutability) IsReadOnly() bool {
	return m == MutabilityPure || m == MutabilityView
}

// ParamInfo describes one function or constructor parameter
type ParamInfo struct {
	Name         string      `json:"name"`
	Type         string      `json:"type"`
	InternalType string      `json:"internalType,omitempty"`
	Components   []ParamInfo `json:"components,omitempty"`
}

// FunctionInfo describes one declared function (one entry per overload)
type FunctionInfo struct {
	Name       string      `json:"name"`
	Signature  string      `json:"signature"`
	Selector   string      `json:"selector"`
	Inputs     []ParamInfo `json:"inputs"`
	Outputs    []ParamInfo `json:"outputs"`
	Mutability Mutability  `json:"mutability"`
}

func (f FunctionInfo) IsReadOnly() bool {
	return f.Mutability.IsReadOnly()
}

// ConstructorInfo describes a contract constructor
type ConstructorInfo struct {
	Inputs     []ParamInfo `json:"inputs"`
	Mutability Mutability  `json:"mutability"`
}

func (c ConstructorInfo) IsPayable() bool {
	return c.Mutability == MutabilityPayable
}

// ParsedFunctions partitions functions by mutability
type ParsedFunctions struct {
	Read  []FunctionInfo `json:"read"`
	Write []FunctionInfo `json:"write"`
}
