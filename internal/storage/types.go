package storage

import (
	"fmt"

	"github.com/mvp-joe/codecorpus/internal/extract"
)

// TrainingExample is the stable wire schema for one accepted unit, the
// training-pair projection the downstream trainer consumes.
type TrainingExample struct {
	TaskType  string `json:"task_type"`
	Language  string `json:"language"`
	FuncName  string `json:"func_name"`
	Name      string `json:"name"`
	Body      string `json:"body"`
	Signature string `json:"signature"`
	Input     string `json:"input"`
	Output    string `json:"output"`
}

// StorageObject is the externally persisted form of an accepted batch.
// The gateway exclusively writes it; downstream training reads it.
type StorageObject struct {
	TaskType string            `json:"task_type"`
	Language string            `json:"language"`
	Objects  []TrainingExample `json:"objects"`
}

// TaskTypeCodeGen labels the function-synthesis training task.
const TaskTypeCodeGen = "code_generation"

// Project converts an accepted unit to its wire form. Input is the
// natural-language prompt derived from the signature and name; Output is
// the full body.
func Project(unit extract.CodeUnit) TrainingExample {
	return TrainingExample{
		TaskType:  TaskTypeCodeGen,
		Language:  unit.Language,
		FuncName:  unit.Name,
		Name:      unit.Name,
		Body:      unit.Body,
		Signature: unit.Signature,
		Input:     prompt(unit),
		Output:    unit.Body,
	}
}

// prompt renders the training prompt for a unit.
func prompt(unit extract.CodeUnit) string {
	if unit.Docstring != "" {
		return fmt.Sprintf("Write a %s %s named %s with signature %q that does the following: %s",
			unit.Language, unit.Kind, unit.Name, unit.Signature, unit.Docstring)
	}
	return fmt.Sprintf("Write a %s %s named %s with signature %q.",
		unit.Language, unit.Kind, unit.Name, unit.Signature)
}
