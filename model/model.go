// Package model defines the immutable contract snapshot consumed by every
// analysis stage. A ContractModel is produced once by the external source
// front end and never mutated afterwards; re-analysis starts from a fresh
// snapshot.
package model

// Visibility describes who may call a function.
// Example: "public", "external", "internal", "private"
type Visibility string

const (
	Public   Visibility = "public"
	External Visibility = "external"
	Internal Visibility = "internal"
	Private  Visibility = "private"
)

// Valid reports whether the visibility is one of the known values.
func (v Visibility) Valid() bool {
	switch v {
	case Public, External, Internal, Private:
		return true
	}
	return false
}

// Mutability describes how a function interacts with state and value.
// Example: "pure", "view", "payable", "nonpayable"
type Mutability string

const (
	Pure       Mutability = "pure"
	View       Mutability = "view"
	Payable    Mutability = "payable"
	NonPayable Mutability = "nonpayable"
)

// Valid reports whether the mutability is one of the known values.
func (m Mutability) Valid() bool {
	switch m {
	case Pure, View, Payable, NonPayable:
		return true
	}
	return false
}

// ReadOnly reports whether the function cannot mutate contract state.
func (m Mutability) ReadOnly() bool {
	return m == Pure || m == View
}

// SecurityLevel classifies how sensitive a function or facet is.
type SecurityLevel string

const (
	SecurityLow      SecurityLevel = "low"
	SecurityMedium   SecurityLevel = "medium"
	SecurityHigh     SecurityLevel = "high"
	SecurityCritical SecurityLevel = "critical"
)

// Rank orders security levels so the maximum over a facet's members can be
// taken. An empty or unknown level ranks below low.
func (s SecurityLevel) Rank() int {
	switch s {
	case SecurityLow:
		return 1
	case SecurityMedium:
		return 2
	case SecurityHigh:
		return 3
	case SecurityCritical:
		return 4
	}
	return 0
}

// MaxSecurity returns the higher of two security levels.
func MaxSecurity(a, b SecurityLevel) SecurityLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Parameter is a single function parameter.
// Example: {Name: "amount", Type: "uint256"}
type Parameter struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// FunctionDescriptor describes one function of the original contract.
// GasEstimate and CodeSize are estimates supplied by the front end; when
// they are zero the clustering stage derives its own estimates.
type FunctionDescriptor struct {
	Name        string        `json:"name"`
	Selector    Selector      `json:"selector"`
	Visibility  Visibility    `json:"visibility"`
	Mutability  Mutability    `json:"mutability"`
	Parameters  []Parameter   `json:"parameters,omitempty"`
	Modifiers   []string      `json:"modifiers,omitempty"`
	GasEstimate uint64        `json:"gasEstimate,omitempty"`
	CodeSize    int           `json:"codeSize,omitempty"`
	Body        string        `json:"body,omitempty"` // raw body text, scanned heuristically
	Security    SecurityLevel `json:"security,omitempty"`
}

// Signature returns the canonical signature used for selector derivation.
// Example: "transfer(address,uint256)"
func (f *FunctionDescriptor) Signature() string {
	sig := f.Name + "("
	for i, p := range f.Parameters {
		if i > 0 {
			sig += ","
		}
		sig += p.Type
	}
	return sig + ")"
}

// VariableDescriptor describes one state variable and its automatic
// storage layout position.
type VariableDescriptor struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Slot      int    `json:"slot"`
	Offset    int    `json:"offset"`          // byte offset within the slot
	Size      int    `json:"size"`            // byte size of the value
	Constant  bool   `json:"constant,omitempty"`
	Immutable bool   `json:"immutable,omitempty"`
}

// OccupiesStorage reports whether the variable actually lives in a storage
// slot. Constants and immutables are inlined into code.
func (v *VariableDescriptor) OccupiesStorage() bool {
	return !v.Constant && !v.Immutable
}

// EventDescriptor describes a declared event.
type EventDescriptor struct {
	Name       string      `json:"name"`
	Parameters []Parameter `json:"parameters,omitempty"`
}

// ModifierDescriptor describes a declared modifier. The body text is
// scanned the same way function bodies are.
type ModifierDescriptor struct {
	Name string `json:"name"`
	Body string `json:"body,omitempty"`
}

// ContractModel is the immutable snapshot of one monolithic contract.
type ContractModel struct {
	Name      string               `json:"name"`
	Functions []FunctionDescriptor `json:"functions"`
	Variables []VariableDescriptor `json:"variables,omitempty"`
	Events    []EventDescriptor    `json:"events,omitempty"`
	Modifiers []ModifierDescriptor `json:"modifiers,omitempty"`
	Inherits  []string             `json:"inherits,omitempty"`
	CodeSize  int                  `json:"codeSize,omitempty"` // estimated total bytecode size
}

// Function returns the descriptor with the given name, or nil.
func (m *ContractModel) Function(name string) *FunctionDescriptor {
	for i := range m.Functions {
		if m.Functions[i].Name == name {
			return &m.Functions[i]
		}
	}
	return nil
}

// FunctionNames returns all function names in declaration order.
func (m *ContractModel) FunctionNames() []string {
	names := make([]string, 0, len(m.Functions))
	for i := range m.Functions {
		names = append(names, m.Functions[i].Name)
	}
	return names
}

// Variable returns the variable descriptor with the given name, or nil.
func (m *ContractModel) Variable(name string) *VariableDescriptor {
	for i := range m.Variables {
		if m.Variables[i].Name == name {
			return &m.Variables[i]
		}
	}
	return nil
}

// HasModifier reports whether the contract declares a modifier with the
// given name.
func (m *ContractModel) HasModifier(name string) bool {
	for i := range m.Modifiers {
		if m.Modifiers[i].Name == name {
			return true
		}
	}
	return false
}
