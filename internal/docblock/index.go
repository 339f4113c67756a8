// Package docblock finds and parses the doc comments of route handlers.
//
// An Index maps handler references produced by the routes package to the
// function declarations of a Go source tree. Parse turns a comment into the
// title, description, resource group and parameters of a documented route.
package docblock

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/mod/modfile"

	"github.com/johnnynv/RouteScribe/pkg/routes"
)

// ErrDeclNotFound is returned when no declaration matches a handler reference
var ErrDeclNotFound = errors.New("declaration not found")

// Lookup resolves the doc comment of a handler declaration. found is true
// when the declaration exists, even if it has no comment.
type Lookup interface {
	Lookup(ref routes.HandlerRef) (comment string, found bool, err error)
}

// Index holds the function declarations of every package under a module
// root, keyed by import path
type Index struct {
	root       string
	modulePath string
	pkgs       map[string]map[string]string
	files      int
}

// NewIndex parses the Go sources under dir. The module path is read from the
// nearest go.mod at or above dir.
func NewIndex(dir string) (*Index, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(err, "resolve source dir")
	}

	root, modulePath, err := findModule(abs)
	if err != nil {
		return nil, err
	}

	idx := &Index{
		root:       root,
		modulePath: modulePath,
		pkgs:       map[string]map[string]string{},
	}
	if err := idx.walk(abs); err != nil {
		return nil, err
	}
	return idx, nil
}

// ModulePath returns the module path read from go.mod
func (idx *Index) ModulePath() string {
	return idx.modulePath
}

// Packages returns the number of indexed packages
func (idx *Index) Packages() int {
	return len(idx.pkgs)
}

// Files returns the number of parsed files
func (idx *Index) Files() int {
	return idx.files
}

// Lookup implements the Lookup interface
func (idx *Index) Lookup(ref routes.HandlerRef) (string, bool, error) {
	if !ref.Valid() {
		return "", false, errors.Wrap(ErrDeclNotFound, "empty handler reference")
	}

	decls, ok := idx.pkgs[ref.Package]
	if !ok {
		return "", false, errors.Wrapf(ErrDeclNotFound, "package %s is not in %s", ref.Package, idx.modulePath)
	}

	comment, ok := decls[declKey(ref.Receiver, ref.Func)]
	if !ok {
		return "", false, errors.Wrapf(ErrDeclNotFound, "%s", ref)
	}
	return comment, true, nil
}

func (idx *Index) walk(start string) error {
	fset := token.NewFileSet()

	return filepath.WalkDir(start, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if p != start && skipDir(name) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			return nil
		}

		file, err := parser.ParseFile(fset, p, nil, parser.ParseComments|parser.SkipObjectResolution)
		if err != nil {
			return errors.Wrapf(err, "parse %s", p)
		}
		idx.files++

		importPath, err := idx.importPath(filepath.Dir(p))
		if err != nil {
			return err
		}
		idx.add(importPath, file)
		// the runtime names functions of package main "main.F"
		if file.Name.Name == "main" {
			idx.add("main", file)
		}
		return nil
	})
}

func (idx *Index) importPath(dir string) (string, error) {
	rel, err := filepath.Rel(idx.root, dir)
	if err != nil {
		return "", errors.Wrapf(err, "relative path of %s", dir)
	}
	if rel == "." {
		return idx.modulePath, nil
	}
	return path.Join(idx.modulePath, filepath.ToSlash(rel)), nil
}

func (idx *Index) add(importPath string, file *ast.File) {
	decls, ok := idx.pkgs[importPath]
	if !ok {
		decls = map[string]string{}
		idx.pkgs[importPath] = decls
	}

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		var recv string
		if fn.Recv != nil && len(fn.Recv.List) > 0 {
			recv = receiverName(fn.Recv.List[0].Type)
		}
		decls[declKey(recv, fn.Name.Name)] = fn.Doc.Text()
	}
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	case *ast.ParenExpr:
		return receiverName(t.X)
	case *ast.Ident:
		return t.Name
	default:
		return ""
	}
}

func declKey(recv, fn string) string {
	if recv == "" {
		return fn
	}
	return recv + "." + fn
}

func skipDir(name string) bool {
	return name == "vendor" || name == "testdata" ||
		strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}

func findModule(dir string) (string, string, error) {
	for d := dir; ; {
		data, err := os.ReadFile(filepath.Join(d, "go.mod"))
		if err == nil {
			modulePath := modfile.ModulePath(data)
			if modulePath == "" {
				return "", "", errors.Errorf("%s has no module directive", filepath.Join(d, "go.mod"))
			}
			return d, modulePath, nil
		}
		if !os.IsNotExist(err) {
			return "", "", errors.Wrap(err, "read go.mod")
		}

		parent := filepath.Dir(d)
		if parent == d {
			return "", "", errors.Errorf("go.mod not found at or above %s", dir)
		}
		d = parent
	}
}

// Comments is a Lookup backed by a map from HandlerRef.String() to comment,
// for applications that ship without sources
type Comments map[string]string

// Lookup implements the Lookup interface
func (c Comments) Lookup(ref routes.HandlerRef) (string, bool, error) {
	comment, ok := c[ref.String()]
	if !ok {
		return "", false, errors.Wrapf(ErrDeclNotFound, "%s", ref)
	}
	return comment, true, nil
}
