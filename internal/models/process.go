package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LegalProcess is one case-number/venue pair as returned by the extraction
// collaborator. Duplicates are possible, there is no uniqueness constraint
// at this level.
type LegalProcess struct {
	Foro     string `json:"foro"`
	Processo string `json:"processo"`
}

// GroupedProcesses maps a foro to its processo numbers. Foro order is the
// order of first occurrence, processos keep extraction order, and nothing
// is deduplicated. The zero value is usable.
type GroupedProcesses struct {
	order []string
	byKey map[string][]string
}

func NewGroupedProcesses() *GroupedProcesses {
	return &GroupedProcesses{byKey: make(map[string][]string)}
}

// Append adds one processo under the given foro, creating the key on first use.
func (g *GroupedProcesses) Append(foro, processo string) {
	if g.byKey == nil {
		g.byKey = make(map[string][]string)
	}
	if _, ok := g.byKey[foro]; !ok {
		g.order = append(g.order, foro)
	}
	g.byKey[foro] = append(g.byKey[foro], processo)
}

// Foros returns the venue names in first-seen order.
func (g *GroupedProcesses) Foros() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Processos returns the case numbers recorded under foro, in append order.
func (g *GroupedProcesses) Processos(foro string) []string {
	src := g.byKey[foro]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Len is the number of distinct foros.
func (g *GroupedProcesses) Len() int {
	return len(g.order)
}

// TotalProcessos counts every recorded case number across all foros.
func (g *GroupedProcesses) TotalProcessos() int {
	n := 0
	for _, procs := range g.byKey {
		n += len(procs)
	}
	return n
}

func (g *GroupedProcesses) Empty() bool {
	return g == nil || len(g.order) == 0
}

// MarshalJSON writes a JSON object whose keys appear in first-seen foro order.
func (g *GroupedProcesses) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, foro := range g.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(foro)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		procs, err := json.Marshal(g.byKey[foro])
		if err != nil {
			return nil, err
		}
		buf.Write(procs)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object back token by token so the key order stored
// in the serialized history survives the round trip.
func (g *GroupedProcesses) UnmarshalJSON(data []byte) error {
	g.order = nil
	g.byKey = make(map[string][]string)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("grouped processes: expected JSON object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		foro, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("grouped processes: non-string key %v", keyTok)
		}
		var procs []string
		if err := dec.Decode(&procs); err != nil {
			return fmt.Errorf("grouped processes: foro %q: %w", foro, err)
		}
		g.order = append(g.order, foro)
		g.byKey[foro] = procs
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
