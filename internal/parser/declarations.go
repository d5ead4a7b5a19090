package parser

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/token"
)

// parseFunction parses `fn name<generics>(params) -> RetType { body }`.
// The body is required here; trait method signatures (which may omit a
// body) are parsed separately in parseTrait.
func (p *Parser) parseFunction(isPub, isAsync bool) ast.Expr {
	start := p.cur().Span
	p.advance() // 'fn'
	name := p.cur().Literal
	p.expect(token.IDENT)
	generics := p.parseGenericParams()
	params := p.parseParamList()
	var ret ast.Type
	if p.curIs(token.ARROW) {
		p.advance()
		ret = p.parseType()
	}
	body := p.parseBlock()
	return &ast.Function{
		Base: ast.NewBase(p.span(start), nil), Name: name, Generics: generics,
		Params: params, ReturnType: ret, Body: body, IsPub: isPub, IsAsync: isAsync,
	}
}

// parseParamList parses `(name: Type = default, ...)`, shared by functions,
// trait methods, and impl methods.
func (p *Parser) parseParamList() []ast.Param {
	p.expect(token.LPAREN)
	var params []ast.Param
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		if p.curIs(token.SELF) {
			p.advance() // bare `self` receiver, untyped
			params = append(params, ast.Param{Name: "self"})
		} else if p.curIs(token.AMP) && p.peekIs(token.SELF) {
			p.advance()
			p.advance()
			params = append(params, ast.Param{Name: "self"})
		} else {
			params = append(params, p.parseParam())
		}
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	return params
}

// parseStruct parses a field struct (`struct Name<T> { field: Type, ... }`)
// or a unit struct (`struct Name;`).
func (p *Parser) parseStruct(isPub bool) ast.Expr {
	start := p.cur().Span
	p.advance() // 'struct'
	name := p.cur().Literal
	p.expect(token.IDENT)
	generics := p.parseGenericParams()
	if p.curIs(token.SEMI) {
		p.advance()
		return &ast.Struct{Base: ast.NewBase(p.span(start), nil), Name: name, Generics: generics, IsPub: isPub}
	}
	p.expect(token.LBRACE)
	var fields []ast.StructField
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		p.parseAttributes()
		if p.curIs(token.PUB) {
			// field-level visibility isn't tracked separately from the
			// struct's own IsPub; consume and discard the qualifier.
			p.advance()
		}
		fname := p.cur().Literal
		p.expect(token.IDENT)
		p.expect(token.COLON)
		ftype := p.parseType()
		fields = append(fields, ast.StructField{Name: fname, Type: ftype})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.Struct{Base: ast.NewBase(p.span(start), nil), Name: name, Generics: generics, Fields: fields, IsPub: isPub}
}

// parseEnum parses unit, tuple, and struct-like variants in the same
// `enum Name<T> { ... }` body.
func (p *Parser) parseEnum(isPub bool) ast.Expr {
	start := p.cur().Span
	p.advance() // 'enum'
	name := p.cur().Literal
	p.expect(token.IDENT)
	generics := p.parseGenericParams()
	p.expect(token.LBRACE)
	var variants []ast.EnumVariant
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		p.parseAttributes()
		vname := p.cur().Literal
		p.expect(token.IDENT)
		var v ast.EnumVariant
		v.Name = vname
		switch {
		case p.curIs(token.LPAREN):
			p.advance()
			for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
				v.Types = append(v.Types, p.parseType())
				if p.curIs(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RPAREN)
		case p.curIs(token.LBRACE):
			p.advance()
			for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
				fname := p.cur().Literal
				p.expect(token.IDENT)
				p.expect(token.COLON)
				ftype := p.parseType()
				v.Fields = append(v.Fields, ast.StructField{Name: fname, Type: ftype})
				if p.curIs(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RBRACE)
		}
		variants = append(variants, v)
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.Enum{Base: ast.NewBase(p.span(start), nil), Name: name, Generics: generics, Variants: variants, IsPub: isPub}
}

// parseTrait parses `trait Name<T> { fn method(...) -> Ret; fn other() { default body } }`.
func (p *Parser) parseTrait(isPub bool) ast.Expr {
	start := p.cur().Span
	p.advance() // 'trait'
	name := p.cur().Literal
	p.expect(token.IDENT)
	generics := p.parseGenericParams()
	p.expect(token.LBRACE)
	var methods []ast.TraitMethod
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		p.expect(token.FN)
		mname := p.cur().Literal
		p.expect(token.IDENT)
		p.parseGenericParams()
		params := p.parseParamList()
		var ret ast.Type
		if p.curIs(token.ARROW) {
			p.advance()
			ret = p.parseType()
		}
		var def *ast.Block
		if p.curIs(token.LBRACE) {
			def = p.parseBlock()
		} else {
			p.expect(token.SEMI)
		}
		methods = append(methods, ast.TraitMethod{Name: mname, Params: params, ReturnType: ret, Default: def})
	}
	p.expect(token.RBRACE)
	return &ast.Trait{Base: ast.NewBase(p.span(start), nil), Name: name, Generics: generics, Methods: methods, IsPub: isPub}
}

// parseImpl parses `impl<T: Bound> Trait for Type<T> { fn ... }` or, absent
// a trait target, the inherent form `impl<T> Type<T> { fn ... }`.
func (p *Parser) parseImpl() ast.Expr {
	start := p.cur().Span
	p.advance() // 'impl'
	generics := p.parseGenericParams()

	first := p.parseType()
	traitTarget := ""
	var target ast.Type
	if p.curIs(token.FOR) {
		p.advance()
		if nt, ok := first.(*ast.NamedType); ok {
			traitTarget = nt.Name
		}
		target = p.parseType()
	} else {
		target = first
	}

	p.expect(token.LBRACE)
	var methods []*ast.Function
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		p.parseAttributes()
		isPub := false
		if p.curIs(token.PUB) {
			isPub = true
			p.advance()
		}
		isAsync := false
		if p.curIs(token.ASYNC) && p.peekIs(token.FN) {
			isAsync = true
			p.advance()
		}
		if fn, ok := p.parseFunction(isPub, isAsync).(*ast.Function); ok {
			methods = append(methods, fn)
		}
	}
	p.expect(token.RBRACE)
	return &ast.Impl{
		Base: ast.NewBase(p.span(start), nil), Generics: generics,
		TraitTarget: traitTarget, TargetType: target, Methods: methods,
	}
}

func (p *Parser) parseTypeAlias() ast.Expr {
	start := p.cur().Span
	p.advance() // 'type'
	name := p.cur().Literal
	p.expect(token.IDENT)
	p.parseGenericParams()
	p.expect(token.ASSIGN)
	ty := p.parseType()
	if p.curIs(token.SEMI) {
		p.advance()
	}
	return &ast.TypeAlias{Base: ast.NewBase(p.span(start), nil), Name: name, Type: ty}
}

// parseModule parses the file-referencing `mod name;` form and the inline
// `mod name { ... }` form.
func (p *Parser) parseModule(isPub bool) ast.Expr {
	start := p.cur().Span
	p.advance() // 'mod'
	name := p.cur().Literal
	p.expect(token.IDENT)
	if p.curIs(token.SEMI) {
		p.advance()
		return &ast.Module{Base: ast.NewBase(p.span(start), nil), Name: name, IsPub: isPub}
	}
	body := p.parseBlock()
	return &ast.Module{Base: ast.NewBase(p.span(start), nil), Name: name, Body: body, IsPub: isPub}
}

// parsePathSegment reads one path segment, accepting `self`/`super` (and
// other keyword-shaped idents) alongside plain identifiers, since paths
// routinely reuse keywords as segment names (`use self::sub;`).
func (p *Parser) parsePathSegment() string {
	seg := p.cur().Literal
	p.advance()
	return seg
}

func (p *Parser) parseImport() ast.Expr {
	start := p.cur().Span
	p.advance() // 'import'
	var path []string
	path = append(path, p.parsePathSegment())
	for p.curIs(token.COLONCOLON) {
		p.advance()
		path = append(path, p.parsePathSegment())
	}
	alias := ""
	if p.curIs(token.IDENT) && p.cur().Literal == "as" {
		p.advance()
		alias = p.parsePathSegment()
	}
	if p.curIs(token.SEMI) {
		p.advance()
	}
	return &ast.Import{Base: ast.NewBase(p.span(start), nil), Path: path, Alias: alias}
}

// parseUse parses `use a::b::c;` and the brace-group form
// `use a::b::{c, d};`, flattening grouped imports into one Use per item.
func (p *Parser) parseUse() ast.Expr {
	start := p.cur().Span
	p.advance() // 'use'
	var prefix []string
	prefix = append(prefix, p.parsePathSegment())
	for p.curIs(token.COLONCOLON) {
		p.advance()
		if p.curIs(token.LBRACE) {
			p.advance()
			var items []ast.Expr
			for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
				seg := p.parsePathSegment()
				full := append(append([]string{}, prefix...), seg)
				items = append(items, &ast.Use{Base: ast.NewBase(p.span(start), nil), Path: full})
				if p.curIs(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RBRACE)
			if p.curIs(token.SEMI) {
				p.advance()
			}
			if len(items) == 1 {
				return items[0]
			}
			return &ast.Block{Base: ast.NewBase(p.span(start), nil), Exprs: items}
		}
		prefix = append(prefix, p.parsePathSegment())
	}
	if p.curIs(token.SEMI) {
		p.advance()
	}
	return &ast.Use{Base: ast.NewBase(p.span(start), nil), Path: prefix}
}

func (p *Parser) parseExport() ast.Expr {
	start := p.cur().Span
	p.advance() // 'export'
	item := p.parseDeclOrExpr()
	return &ast.Export{Base: ast.NewBase(p.span(start), nil), Item: item}
}

// parseLet parses `let [mut] pattern [: Type] = expr;`. A bare identifier
// binding produces Let/LetMut; any other pattern shape produces LetPattern.
func (p *Parser) parseLet() ast.Expr {
	start := p.cur().Span
	p.advance() // 'let'
	mut := false
	if p.curIs(token.MUT) {
		mut = true
		p.advance()
	}

	if p.curIs(token.IDENT) && !p.peekIs(token.COMMA) && !p.peekIs(token.LPAREN) &&
		!p.peekIs(token.LBRACE) && !p.peekIs(token.LBRACKET) {
		name := p.cur().Literal
		p.advance()
		ty := p.parseOptionalTypeAnnotation()
		var value ast.Expr
		if p.curIs(token.ASSIGN) {
			p.advance()
			value = p.parseExpression(ASSIGN)
		}
		if p.curIs(token.SEMI) {
			p.advance()
		}
		if mut {
			return &ast.LetMut{Base: ast.NewBase(p.span(start), nil), Name: name, Type: ty, Value: value}
		}
		return &ast.Let{Base: ast.NewBase(p.span(start), nil), Name: name, Type: ty, Value: value}
	}

	pat := p.parsePattern()
	var value ast.Expr
	if p.curIs(token.ASSIGN) {
		p.advance()
		value = p.parseExpression(ASSIGN)
	}
	if p.curIs(token.SEMI) {
		p.advance()
	}
	return &ast.LetPattern{Base: ast.NewBase(p.span(start), nil), Pattern: pat, Mutable: mut, Value: value}
}

func (p *Parser) parseVar() ast.Expr {
	start := p.cur().Span
	p.advance() // 'var'
	name := p.cur().Literal
	p.expect(token.IDENT)
	ty := p.parseOptionalTypeAnnotation()
	var value ast.Expr
	if p.curIs(token.ASSIGN) {
		p.advance()
		value = p.parseExpression(ASSIGN)
	}
	if p.curIs(token.SEMI) {
		p.advance()
	}
	return &ast.Var{Base: ast.NewBase(p.span(start), nil), Name: name, Type: ty, Value: value}
}

func (p *Parser) parseConst() ast.Expr {
	start := p.cur().Span
	p.advance() // 'const'
	name := p.cur().Literal
	p.expect(token.IDENT)
	ty := p.parseOptionalTypeAnnotation()
	p.expect(token.ASSIGN)
	value := p.parseExpression(ASSIGN)
	if p.curIs(token.SEMI) {
		p.advance()
	}
	return &ast.Const{Base: ast.NewBase(p.span(start), nil), Name: name, Type: ty, Value: value}
}

func (p *Parser) parseStatic() ast.Expr {
	start := p.cur().Span
	p.advance() // 'static'
	name := p.cur().Literal
	p.expect(token.IDENT)
	ty := p.parseOptionalTypeAnnotation()
	p.expect(token.ASSIGN)
	value := p.parseExpression(ASSIGN)
	if p.curIs(token.SEMI) {
		p.advance()
	}
	return &ast.Static{Base: ast.NewBase(p.span(start), nil), Name: name, Type: ty, Value: value}
}
