package cel

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"
)

// ErrInvalidIdentifier is returned when a signal name cannot be bound as a
// CEL variable.
var ErrInvalidIdentifier = errors.New("invalid CEL identifier")

// reserved words that the CEL grammar refuses as identifiers.
var reserved = map[string]struct{}{
	"true": {}, "false": {}, "null": {}, "in": {},
	"as": {}, "break": {}, "const": {}, "continue": {}, "else": {},
	"for": {}, "function": {}, "if": {}, "import": {}, "let": {},
	"loop": {}, "package": {}, "namespace": {}, "return": {}, "var": {},
	"void": {}, "while": {},
}

// ValidIdentifier reports whether name can be declared as a CEL variable.
func ValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	if _, ok := reserved[name]; ok {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

type EnvBuilder struct {
	opts []cel.EnvOption
	err  error
}

func NewEnvBuilder() *EnvBuilder {
	return &EnvBuilder{}
}

func (b *EnvBuilder) WithVariable(name string, t *cel.Type) *EnvBuilder {
	if b.err != nil {
		return b
	}
	if !ValidIdentifier(name) {
		b.err = fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
		return b
	}
	b.opts = append(b.opts, cel.Variable(name, t))
	return b
}

// WithSignals declares each name as an int variable holding one sample.
func (b *EnvBuilder) WithSignals(names ...string) *EnvBuilder {
	for _, name := range names {
		b.WithVariable(name, cel.IntType)
	}
	return b
}

// WithDerived declares each name as a double variable holding one sample.
func (b *EnvBuilder) WithDerived(names ...string) *EnvBuilder {
	for _, name := range names {
		b.WithVariable(name, cel.DoubleType)
	}
	return b
}

// WithSignalLists declares each name as a list(int) holding a whole column.
func (b *EnvBuilder) WithSignalLists(names ...string) *EnvBuilder {
	for _, name := range names {
		b.WithVariable(name, cel.ListType(cel.IntType))
	}
	return b
}

// WithDerivedLists declares each name as a list(double) holding a whole column.
func (b *EnvBuilder) WithDerivedLists(names ...string) *EnvBuilder {
	for _, name := range names {
		b.WithVariable(name, cel.ListType(cel.DoubleType))
	}
	return b
}

func (b *EnvBuilder) WithOption(opt ...cel.EnvOption) *EnvBuilder {
	if b.err != nil {
		return b
	}
	b.opts = append(b.opts, opt...)
	return b
}

func (b *EnvBuilder) Build() (*cel.Env, error) {
	if b.err != nil {
		return nil, b.err
	}
	return cel.NewEnv(b.opts...)
}
