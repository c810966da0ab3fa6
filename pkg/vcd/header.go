package vcd

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	initialLineBuffer = 64 * 1024
	// traces with very wide vectors produce long lines.
	maxLineSize = 16 * 1024 * 1024
)

var endDefinitions = []byte("$enddefinitions")

// SymbolTable maps identifier codes to the declarations of wanted signals.
// It is built once by ResolveHeader and read-only afterwards.
type SymbolTable struct {
	byID   map[string]SignalDeclaration
	byName map[string]string
	// ids in declaration order, so snapshots are deterministic.
	order  []string
	digest uint64
	// complete reports whether $enddefinitions was reached.
	complete bool
}

func newSymbolTable() *SymbolTable {
	return &SymbolTable{
		byID:   make(map[string]SignalDeclaration),
		byName: make(map[string]string),
	}
}

// add records decl. A later declaration of the same base name or the same
// identifier replaces the earlier one.
func (t *SymbolTable) add(decl SignalDeclaration) {
	if oldID, ok := t.byName[decl.Name]; ok {
		t.remove(oldID)
	}
	if old, ok := t.byID[decl.ID]; ok {
		delete(t.byName, old.Name)
		t.remove(decl.ID)
	}
	t.byID[decl.ID] = decl
	t.byName[decl.Name] = decl.ID
	t.order = append(t.order, decl.ID)
}

func (t *SymbolTable) remove(id string) {
	delete(t.byID, id)
	t.order = slices.DeleteFunc(t.order, func(s string) bool { return s == id })
}

// Lookup returns the declaration for an identifier code.
func (t *SymbolTable) Lookup(id string) (SignalDeclaration, bool) {
	d, ok := t.byID[id]
	return d, ok
}

func (t *SymbolTable) lookupBytes(id []byte) (SignalDeclaration, bool) {
	d, ok := t.byID[string(id)]
	return d, ok
}

// ByName returns the declaration resolved for a signal name.
func (t *SymbolTable) ByName(name string) (SignalDeclaration, bool) {
	id, ok := t.byName[name]
	if !ok {
		return SignalDeclaration{}, false
	}
	return t.byID[id], true
}

// Has reports whether name was resolved.
func (t *SymbolTable) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Len returns the number of resolved signals.
func (t *SymbolTable) Len() int {
	return len(t.order)
}

// Declarations returns the resolved declarations in declaration order.
func (t *SymbolTable) Declarations() []SignalDeclaration {
	out := make([]SignalDeclaration, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.byID[id])
	}
	return out
}

// Names returns the resolved signal names, sorted.
func (t *SymbolTable) Names() []string {
	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Missing returns the wanted names that were not resolved, in input order.
func (t *SymbolTable) Missing(wanted []string) []string {
	var missing []string
	for _, name := range wanted {
		if !t.Has(name) && !slices.Contains(missing, name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Digest is the xxhash of the declaration section, including lines that
// were not resolved. Traces from the same design share a digest.
func (t *SymbolTable) Digest() uint64 {
	return t.digest
}

// DigestString returns Digest as 16 hex characters.
func (t *SymbolTable) DigestString() string {
	return fmt.Sprintf("%016x", t.digest)
}

// Complete reports whether the end-of-definitions marker was seen.
func (t *SymbolTable) Complete() bool {
	return t.complete
}

// ResolveHeader scans the declaration section of r until $enddefinitions and
// returns the declarations whose base name is in wanted. Names that are not
// found are simply absent; only read failures return an error.
func ResolveHeader(r io.Reader, wanted []string) (*SymbolTable, error) {
	want := make(map[string]struct{}, len(wanted))
	for _, name := range wanted {
		want[name] = struct{}{}
	}
	return scanHeader(r, func(name string) bool {
		_, ok := want[name]
		return ok
	})
}

// ScanHeader returns every supported declaration of the trace header.
func ScanHeader(r io.Reader) (*SymbolTable, error) {
	return scanHeader(r, func(string) bool { return true })
}

func scanHeader(r io.Reader, accept func(name string) bool) (*SymbolTable, error) {
	table := newSymbolTable()
	digest := xxhash.New()
	sc := newLineScanner(r)
	for sc.Scan() {
		line := sc.Bytes()
		_, _ = digest.Write(line)
		_, _ = digest.Write([]byte{'\n'})

		if bytes.Contains(line, endDefinitions) {
			table.complete = true
			break
		}

		decl, ok := parseVarLine(string(bytes.TrimSpace(line)))
		if !ok {
			continue
		}
		if accept(decl.Name) {
			table.add(decl)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	table.digest = digest.Sum64()
	return table, nil
}

// parseVarLine parses `$var <kind> <width> <id> <name>[range] ... $end`.
func parseVarLine(line string) (SignalDeclaration, bool) {
	if !strings.HasPrefix(line, "$var") {
		return SignalDeclaration{}, false
	}
	fields := strings.Fields(line)
	if len(fields) < 5 || fields[0] != "$var" {
		return SignalDeclaration{}, false
	}
	kind, ok := ParseKind(fields[1])
	if !ok {
		return SignalDeclaration{}, false
	}
	width, err := strconv.Atoi(fields[2])
	if err != nil || width <= 0 {
		return SignalDeclaration{}, false
	}
	name := baseName(fields[4])
	if name == "" || name == "$end" {
		return SignalDeclaration{}, false
	}
	return SignalDeclaration{
		ID:    fields[3],
		Name:  name,
		Width: width,
		Kind:  kind,
	}, true
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, initialLineBuffer), maxLineSize)
	return sc
}
