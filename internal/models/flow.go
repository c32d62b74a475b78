package models

import (
	"strings"
)

// Flow is the direction of trade. Only FlowExport and FlowImport are valid for
// analytical purposes; ParseFlow keeps anything else verbatim so callers can
// reject it.
type Flow string

const (
	FlowExport Flow = "Export"
	FlowImport Flow = "Import"
)

// Flows lists the valid flows in their canonical order.
var Flows = []Flow{FlowExport, FlowImport}

var flowAliases = map[string]Flow{
	"export":      FlowExport,
	"exports":     FlowExport,
	"exportacao":  FlowExport,
	"exportação":  FlowExport,
	"exportacoes": FlowExport,
	"exportações": FlowExport,
	"import":      FlowImport,
	"imports":     FlowImport,
	"importacao":  FlowImport,
	"importação":  FlowImport,
	"importacoes": FlowImport,
	"importações": FlowImport,
}

// ParseFlow maps English and Portuguese spellings to a canonical Flow.
// Unrecognized values are returned trimmed but otherwise untouched.
func ParseFlow(s string) Flow {
	trimmed := strings.TrimSpace(s)
	if f, ok := flowAliases[strings.ToLower(trimmed)]; ok {
		return f
	}
	return Flow(trimmed)
}

// IsValid reports whether f is Export or Import.
func (f Flow) IsValid() bool {
	return f == FlowExport || f == FlowImport
}

// String returns the flow label.
func (f Flow) String() string {
	return string(f)
}
