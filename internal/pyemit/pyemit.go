// Package pyemit holds a small intermediate representation for generated
// Python source files. Generators describe what a file contains (imports,
// classes, fields, methods); rendering to text happens in one place here,
// keeping layout decisions out of the analysis code.
package pyemit

import (
	"fmt"
	"strings"
)

const indentUnit = "    "

// Decl is a top-level or class-level declaration
type Decl interface {
	render(b *strings.Builder, depth int)
}

// File is one generated Python source file
type File struct {
	Imports []string
	Decls   []Decl
}

// Add appends declarations to the file
func (f *File) Add(decls ...Decl) {
	f.Decls = append(f.Decls, decls...)
}

// Render produces the file text
func (f *File) Render() string {
	var b strings.Builder
	for _, imp := range f.Imports {
		b.WriteString(imp)
		b.WriteByte('\n')
	}
	if len(f.Imports) > 0 {
		b.WriteByte('\n')
	}
	for i, d := range f.Decls {
		if i > 0 {
			b.WriteByte('\n')
		}
		d.render(&b, 0)
	}
	return b.String()
}

// Class declares a Python class with decorators, bases and body declarations
type Class struct {
	Name       string
	Bases      []string
	Decorators []string
	Body       []Decl
}

// Add appends declarations to the class body
func (c *Class) Add(decls ...Decl) {
	c.Body = append(c.Body, decls...)
}

func (c *Class) render(b *strings.Builder, depth int) {
	ind := strings.Repeat(indentUnit, depth)
	for _, d := range c.Decorators {
		fmt.Fprintf(b, "%s%s\n", ind, d)
	}
	bases := ""
	if len(c.Bases) > 0 {
		bases = "(" + strings.Join(c.Bases, ", ") + ")"
	}
	fmt.Fprintf(b, "%sclass %s%s:\n", ind, c.Name, bases)
	if len(c.Body) == 0 {
		fmt.Fprintf(b, "%s%spass\n", ind, indentUnit)
		return
	}
	for i, d := range c.Body {
		// Consecutive fields and assigns stay packed; blocks get air
		if i > 0 && (isBlock(d) || isBlock(c.Body[i-1])) {
			b.WriteByte('\n')
		}
		d.render(b, depth+1)
	}
}

func isBlock(d Decl) bool {
	switch d.(type) {
	case *Class, Method, Raw:
		return true
	}
	return false
}

// Assign is a simple `name = value` statement
type Assign struct {
	Name  string
	Value string
}

func (a Assign) render(b *strings.Builder, depth int) {
	fmt.Fprintf(b, "%s%s = %s\n", strings.Repeat(indentUnit, depth), a.Name, a.Value)
}

// Field is an annotated assignment `name: Type = value`, the shape pydantic
// model fields take
type Field struct {
	Name  string
	Type  string
	Value string
}

func (f Field) render(b *strings.Builder, depth int) {
	ind := strings.Repeat(indentUnit, depth)
	if f.Value == "" {
		fmt.Fprintf(b, "%s%s: %s\n", ind, f.Name, f.Type)
		return
	}
	fmt.Fprintf(b, "%s%s: %s = %s\n", ind, f.Name, f.Type, f.Value)
}

// Method declares a function or method. Body lines are emitted verbatim with
// one extra indent level.
type Method struct {
	Name       string
	Params     []string
	Decorators []string
	Async      bool
	Body       []string
}

func (m Method) render(b *strings.Builder, depth int) {
	ind := strings.Repeat(indentUnit, depth)
	for _, d := range m.Decorators {
		fmt.Fprintf(b, "%s%s\n", ind, d)
	}
	kw := "def"
	if m.Async {
		kw = "async def"
	}
	fmt.Fprintf(b, "%s%s %s(%s):\n", ind, kw, m.Name, strings.Join(m.Params, ", "))
	if len(m.Body) == 0 {
		fmt.Fprintf(b, "%s%spass\n", ind, indentUnit)
		return
	}
	bodyInd := ind + indentUnit
	for _, line := range m.Body {
		if line == "" {
			b.WriteByte('\n')
			continue
		}
		fmt.Fprintf(b, "%s%s\n", bodyInd, line)
	}
}

// Raw holds verbatim lines, for the odd construct the IR has no node for
type Raw []string

func (r Raw) render(b *strings.Builder, depth int) {
	ind := strings.Repeat(indentUnit, depth)
	for _, line := range r {
		if line == "" {
			b.WriteByte('\n')
			continue
		}
		fmt.Fprintf(b, "%s%s\n", ind, line)
	}
}

// StringLiteral quotes a string as a Python single-quoted literal
func StringLiteral(s string) string {
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return "'" + escaped + "'"
}
