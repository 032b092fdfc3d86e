package expr

import (
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
	"github.com/sahilm/fuzzy"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Math(),
		ext.Strings(),

		// `fuzzy` reports whether all characters of the pattern appear in
		// the string in order, ignoring case.
		// Example: row.name.fuzzy("usdlr").
		cel.Function("fuzzy",
			cel.MemberOverload("string_fuzzy_string", []*cel.Type{cel.StringType, cel.StringType}, cel.BoolType,
				cel.BinaryBinding(func(s, pattern ref.Val) ref.Val {
					str, ok := s.Value().(string)
					if !ok {
						return types.NewErr("fuzzy: invalid string")
					}

					p, ok := pattern.Value().(string)
					if !ok {
						return types.NewErr("fuzzy: invalid pattern")
					}

					return types.Bool(FuzzyMatch(str, p))
				}),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return nil
}

// FuzzyMatch reports whether pattern fuzzy-matches s. An empty pattern always
// matches.
func FuzzyMatch(s, pattern string) bool {
	if strings.TrimSpace(pattern) == "" {
		return true
	}

	return len(fuzzy.Find(pattern, []string{s})) > 0
}
