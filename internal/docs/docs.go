// Package docs loads the optional keyed description table used to enrich
// generated documentation. It is purely additive: a missing file or key falls
// back to generic boilerplate and never affects codec correctness.
package docs

import (
	"encoding/json"
	"fmt"
	"os"
)

// Entry describes one combinator or abstract type.
type Entry struct {
	Desc   string            `json:"desc"`
	Params map[string]string `json:"params"`
}

// Table is the parsed description source, keyed by qualified name within
// three sections.
type Table struct {
	Type        map[string]Entry `json:"type"`
	Constructor map[string]Entry `json:"constructor"`
	Method      map[string]Entry `json:"method"`
}

// Empty returns a table with no entries; every lookup yields boilerplate.
func Empty() *Table {
	return &Table{
		Type:        map[string]Entry{},
		Constructor: map[string]Entry{},
		Method:      map[string]Entry{},
	}
}

// Load reads a description table from path. A missing file is not an error:
// the empty table is returned and generation proceeds with boilerplate text.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Empty(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read docs file: %w", err)
	}

	t := Empty()
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse docs file: %w", err)
	}
	return t, nil
}

// TypeDesc returns the description of an abstract type.
func (t *Table) TypeDesc(qualType string) string {
	if e, ok := t.Type[qualType]; ok && e.Desc != "" {
		return e.Desc
	}
	return "Telegram API base type."
}

// ConstructorDesc returns the description of a type constructor.
func (t *Table) ConstructorDesc(qualName string) string {
	if e, ok := t.Constructor[qualName]; ok && e.Desc != "" {
		return e.Desc
	}
	return "Telegram API type."
}

// MethodDesc returns the description of an RPC function.
func (t *Table) MethodDesc(qualName string) string {
	if e, ok := t.Method[qualName]; ok && e.Desc != "" {
		return e.Desc
	}
	return "Telegram API function."
}

// Param returns the description of one argument of a constructor or method.
func (t *Table) Param(section, qualName, arg string) string {
	var entries map[string]Entry
	if section == "functions" {
		entries = t.Method
	} else {
		entries = t.Constructor
	}
	if e, ok := entries[qualName]; ok {
		if desc, ok := e.Params[arg]; ok && desc != "" {
			return desc
		}
	}
	return "N/A"
}
