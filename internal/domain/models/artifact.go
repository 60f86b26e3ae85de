package models

import "encoding/json"

// Artifact is a compiled contract artifact from forge's out/ directory
type Artifact struct {
	ABI              json.RawMessage `json:"abi"`
	Bytecode         BytecodeObject  `json:"bytecode"`
	DeployedBytecode BytecodeObject  `json:"deployedBytecode"`
}

// BytecodeObject wraps the hex bytecode of an artifact
type BytecodeObject struct {
	Object string `json:"object"`
}

// ArtifactInfo is an entry of the artifact listing
type ArtifactInfo struct {
	Name               string `json:"name"`
	SourcePath         string `json:"sourcePath"`
	ArtifactPath       string `json:"artifactPath"`
	HasConstructorArgs bool   `json:"hasConstructorArgs"`
}

// ArtifactDetails is a single artifact with its parsed constructor
type ArtifactDetails struct {
	Name        string           `json:"name"`
	SourcePath  string           `json:"sourcePath"`
	ABI         json.RawMessage  `json:"abi"`
	Constructor *ConstructorInfo `json:"constructor,omitempty"`
	HasBytecode bool             `json:"hasBytecode"`
}
