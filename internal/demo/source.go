package demo

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"reflect"
	"runtime"
	"sort"
	"strings"

	"slidedeck/internal/ui"
)

// Canonical first and last lines of every demo snippet
const (
	ImportLine = `import "slidedeck/internal/ui"`
	RunLine    = "ui.Run()"
)

// ErrNoSource is returned when a builder's source text cannot be found
var ErrNoSource = errors.New("source not available")

// Source returns the display text of fn: its body without the func header,
// dedented, framed by the import and run lines. fn must be a function
// literal or declaration whose source file is readable at run time.
func Source(fn func(ui *ui.Page)) (string, error) {
	if fn == nil {
		return "", fmt.Errorf("%w: nil function", ErrNoSource)
	}
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return "", fmt.Errorf("%w: unknown function", ErrNoSource)
	}
	file, line := f.FileLine(f.Entry())
	body, err := functionBody(file, line)
	if err != nil {
		return "", fmt.Errorf("%s: %w", f.Name(), err)
	}
	return Normalize(body), nil
}

// functionBody returns the text between the braces of the function whose
// func keyword is on line of file
func functionBody(file string, line int) (string, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoSource, err)
	}
	fset := token.NewFileSet()
	parsed, err := parser.ParseFile(fset, file, src, parser.SkipObjectResolution)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoSource, err)
	}

	// Several functions may start on the same line; only builders qualify
	var candidates []*ast.BlockStmt
	ast.Inspect(parsed, func(n ast.Node) bool {
		var typ *ast.FuncType
		var body *ast.BlockStmt
		switch fn := n.(type) {
		case *ast.FuncLit:
			typ, body = fn.Type, fn.Body
		case *ast.FuncDecl:
			typ, body = fn.Type, fn.Body
		default:
			return true
		}
		if body != nil && fset.Position(n.Pos()).Line == line && isBuilder(typ) {
			candidates = append(candidates, body)
		}
		return true
	})

	body, err := innermost(candidates)
	if err != nil {
		return "", fmt.Errorf("%w at %s:%d", err, file, line)
	}

	start := fset.Position(body.Lbrace).Offset + 1
	end := fset.Position(body.Rbrace).Offset
	return string(src[start:end]), nil
}

// isBuilder reports whether typ takes exactly one *<pkg>.Page parameter
func isBuilder(typ *ast.FuncType) bool {
	if typ.Params == nil || len(typ.Params.List) != 1 || len(typ.Params.List[0].Names) > 1 {
		return false
	}
	star, ok := typ.Params.List[0].Type.(*ast.StarExpr)
	if !ok {
		return false
	}
	sel, ok := star.X.(*ast.SelectorExpr)
	return ok && sel.Sel.Name == "Page"
}

// innermost picks the candidate nested inside all others. Unrelated
// candidates on one line cannot be told apart.
func innermost(candidates []*ast.BlockStmt) (*ast.BlockStmt, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no builder function", ErrNoSource)
	}
	inner := candidates[0]
	for _, c := range candidates[1:] {
		switch {
		case contains(inner, c):
			inner = c
		case contains(c, inner):
		default:
			return nil, fmt.Errorf("%w: ambiguous builder functions", ErrNoSource)
		}
	}
	return inner, nil
}

func contains(outer, inner ast.Node) bool {
	return outer.Pos() <= inner.Pos() && inner.End() <= outer.End()
}

// Normalize turns a snippet body into its canonical display form: the
// sorted import lines, a blank line, the dedented statements, a blank line
// and the run line
func Normalize(body string) string {
	imports := []string{ImportLine}
	var statements []string
	for _, line := range strings.Split(ui.Dedent(body), "\n") {
		line = strings.TrimRight(line, " \t")
		switch {
		case strings.HasPrefix(line, "import "):
			imports = append(imports, line)
		case line == RunLine:
		default:
			statements = append(statements, line)
		}
	}
	code := strings.Trim(strings.Join(statements, "\n"), "\n")
	return strings.Join(sortImports(imports), "\n") + "\n\n" + code + "\n\n" + RunLine
}

func sortImports(imports []string) []string {
	seen := make(map[string]bool)
	unique := imports[:0]
	for _, line := range imports {
		if !seen[line] {
			seen[line] = true
			unique = append(unique, line)
		}
	}
	sort.SliceStable(unique, func(i, j int) bool {
		return importPath(unique[i]) < importPath(unique[j])
	})
	return unique
}

func importPath(line string) string {
	fields := strings.Fields(strings.TrimPrefix(line, "import "))
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[len(fields)-1], `"`)
}
