package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var sqlMarkerPattern = regexp.MustCompile(`(?i)\b(select|insert|update|delete|with)\b`)

const defaultTarget = "internal/sqlinline"

type violation struct {
	file    string
	name    string
	line    int
	message string
}

// linter collects marker violations across every file it visits so that a
// marker reused in two queries is reported once per duplicate.
type linter struct {
	seen       map[string]string
	violations []violation
}

func newLinter() *linter {
	return &linter{seen: map[string]string{}}
}

func main() {
	flag.Parse()
	targets := flag.Args()
	if len(targets) == 0 {
		targets = []string{defaultTarget}
	}

	l := newLinter()
	for _, target := range targets {
		if err := l.lintTarget(target); err != nil {
			fmt.Fprintf(os.Stderr, "sqllint: %v\n", err)
			os.Exit(1)
		}
	}

	if len(l.violations) > 0 {
		fmt.Fprintln(os.Stderr, "sqllint: SQL audit marker violations")
		for _, v := range l.violations {
			fmt.Fprintf(os.Stderr, "  %s:%d %s (%s)\n", v.file, v.line, v.message, v.name)
		}
		os.Exit(1)
	}
}

func (l *linter) lintTarget(target string) error {
	info, err := os.Stat(target)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		if filepath.Ext(target) != ".go" {
			return nil
		}
		return l.lintFile(target)
	}
	return filepath.WalkDir(target, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || d.Name() == "vendor" || d.Name() == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		return l.lintFile(path)
	})
}

func (l *linter) lintFile(path string) error {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return err
	}
	ast.Inspect(file, func(n ast.Node) bool {
		vs, ok := n.(*ast.ValueSpec)
		if !ok {
			return true
		}
		for _, value := range vs.Values {
			bl, ok := value.(*ast.BasicLit)
			if !ok || bl.Kind != token.STRING {
				continue
			}
			raw, err := unquote(bl.Value)
			if err != nil || !sqlMarkerPattern.MatchString(raw) {
				continue
			}
			pos := fset.Position(bl.Pos())
			v := violation{file: path, line: pos.Line, name: joinNames(vs.Names)}

			id, ok := markerID(firstLine(raw))
			if !ok {
				v.message = "missing or invalid --sql <uuid> marker"
				l.violations = append(l.violations, v)
				continue
			}
			if prev, dup := l.seen[id]; dup {
				v.message = "marker " + id + " already used by " + prev
				l.violations = append(l.violations, v)
				continue
			}
			l.seen[id] = v.name
		}
		return true
	})
	return nil
}

// markerID returns the lowercase uuid of a "--sql <uuid>" line.
func markerID(line string) (string, bool) {
	rest, ok := strings.CutPrefix(line, "--sql ")
	if !ok {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	id, err := uuid.Parse(rest)
	if err != nil || id.String() != rest {
		return "", false
	}
	return rest, true
}

func firstLine(s string) string {
	s = strings.TrimLeft(s, "\n\r \t")
	if idx := strings.IndexAny(s, "\n\r"); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}

func unquote(v string) (string, error) {
	if len(v) == 0 {
		return v, nil
	}
	if v[0] == '`' {
		return v[1 : len(v)-1], nil
	}
	return strconv.Unquote(v)
}

func joinNames(idents []*ast.Ident) string {
	parts := make([]string, 0, len(idents))
	for _, ident := range idents {
		if ident == nil {
			continue
		}
		parts = append(parts, ident.Name)
	}
	return strings.Join(parts, ",")
}
