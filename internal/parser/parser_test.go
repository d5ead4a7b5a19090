package parser

import (
	"testing"

	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/lexer"
)

func testParser(input string) *Parser {
	return New(lexer.New(input))
}

func checkParserErrors(t *testing.T, p *Parser) {
	errs := p.Errors()
	if len(errs) == 0 {
		return
	}
	t.Errorf("parser has %d errors", len(errs))
	for _, e := range errs {
		t.Errorf("parser error: %s", e.Error())
	}
	t.FailNow()
}

func TestIntegerAndFloatLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"5", 5},
		{"0x1F", 31},
		{"0b101", 5},
		{"0o17", 15},
		{"1_000", 1000},
	}
	for _, tt := range tests {
		p := testParser(tt.input)
		prog := p.ParseProgram()
		checkParserErrors(t, p)
		if len(prog.Exprs) != 1 {
			t.Fatalf("%q: expected 1 top-level expr, got %d", tt.input, len(prog.Exprs))
		}
		lit, ok := prog.Exprs[0].(*ast.IntLiteral)
		if !ok {
			t.Fatalf("%q: expected *ast.IntLiteral, got %T", tt.input, prog.Exprs[0])
		}
		if lit.Value != tt.expected {
			t.Errorf("%q: value = %d, want %d", tt.input, lit.Value, tt.expected)
		}
	}
}

func TestLetBindings(t *testing.T) {
	t.Run("plain let", func(t *testing.T) {
		p := testParser(`let x = 5;`)
		prog := p.ParseProgram()
		checkParserErrors(t, p)
		let, ok := prog.Exprs[0].(*ast.Let)
		if !ok {
			t.Fatalf("expected *ast.Let, got %T", prog.Exprs[0])
		}
		if let.Name != "x" {
			t.Errorf("name = %q, want x", let.Name)
		}
	})

	t.Run("let mut with type annotation", func(t *testing.T) {
		p := testParser(`let mut count: Int = 0;`)
		prog := p.ParseProgram()
		checkParserErrors(t, p)
		let, ok := prog.Exprs[0].(*ast.LetMut)
		if !ok {
			t.Fatalf("expected *ast.LetMut, got %T", prog.Exprs[0])
		}
		if let.Type == nil || let.Type.String() != "Int" {
			t.Errorf("type = %v, want Int", let.Type)
		}
	})

	t.Run("destructuring let", func(t *testing.T) {
		p := testParser(`let (a, b) = pair;`)
		prog := p.ParseProgram()
		checkParserErrors(t, p)
		if _, ok := prog.Exprs[0].(*ast.LetPattern); !ok {
			t.Fatalf("expected *ast.LetPattern, got %T", prog.Exprs[0])
		}
	})
}

func TestBinaryPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"2 ** 3 ** 2", "(2 ** (3 ** 2))"},
		{"a = b = c", "(a = (b = c))"},
		{"a && b || c", "((a && b) || c)"},
	}
	for _, tt := range tests {
		p := testParser(tt.input)
		prog := p.ParseProgram()
		checkParserErrors(t, p)
		if len(prog.Exprs) != 1 {
			t.Fatalf("%q: expected 1 expr, got %d", tt.input, len(prog.Exprs))
		}
		if got := prog.Exprs[0].String(); got != tt.want {
			t.Errorf("%q: String() = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIfMatchExpressions(t *testing.T) {
	p := testParser(`
		match x {
			0 => "zero",
			n if n < 0 => "negative",
			_ => "positive",
		}
	`)
	prog := p.ParseProgram()
	checkParserErrors(t, p)
	m, ok := prog.Exprs[0].(*ast.Match)
	if !ok {
		t.Fatalf("expected *ast.Match, got %T", prog.Exprs[0])
	}
	if len(m.Arms) != 3 {
		t.Fatalf("expected 3 arms, got %d", len(m.Arms))
	}
	if m.Arms[1].Guard == nil {
		t.Errorf("arm 1 should have a guard")
	}
}

func TestFunctionDeclaration(t *testing.T) {
	p := testParser(`fn add<T>(a: T, b: T = default) -> T { a + b }`)
	prog := p.ParseProgram()
	checkParserErrors(t, p)
	fn, ok := prog.Exprs[0].(*ast.Function)
	if !ok {
		t.Fatalf("expected *ast.Function, got %T", prog.Exprs[0])
	}
	if fn.Name != "add" || len(fn.Generics) != 1 || fn.Generics[0] != "T" {
		t.Errorf("unexpected function shape: %+v", fn)
	}
	if len(fn.Params) != 2 || fn.Params[1].Default == nil {
		t.Errorf("expected second param to carry a default")
	}
}

func TestStructAndEnumDeclarations(t *testing.T) {
	t.Run("struct", func(t *testing.T) {
		p := testParser(`pub struct Point { x: Int, y: Int }`)
		prog := p.ParseProgram()
		checkParserErrors(t, p)
		s, ok := prog.Exprs[0].(*ast.Struct)
		if !ok {
			t.Fatalf("expected *ast.Struct, got %T", prog.Exprs[0])
		}
		if !s.IsPub || len(s.Fields) != 2 {
			t.Errorf("unexpected struct shape: %+v", s)
		}
	})

	t.Run("enum with mixed variant shapes", func(t *testing.T) {
		p := testParser(`
			enum Shape {
				Circle(Float),
				Rect { w: Float, h: Float },
				Empty,
			}
		`)
		prog := p.ParseProgram()
		checkParserErrors(t, p)
		e, ok := prog.Exprs[0].(*ast.Enum)
		if !ok {
			t.Fatalf("expected *ast.Enum, got %T", prog.Exprs[0])
		}
		if len(e.Variants) != 3 {
			t.Fatalf("expected 3 variants, got %d", len(e.Variants))
		}
		if len(e.Variants[0].Types) != 1 {
			t.Errorf("Circle should carry one tuple field")
		}
		if len(e.Variants[1].Fields) != 2 {
			t.Errorf("Rect should carry two struct fields")
		}
	})
}

func TestPatternMatchingShapes(t *testing.T) {
	p := testParser(`
		match v {
			[first, ...rest] => first,
			Point { x, y: 0 } => x,
			1 | 2 | 3 => v,
			0..=9 => v,
			_ => v,
		}
	`)
	prog := p.ParseProgram()
	checkParserErrors(t, p)
	m := prog.Exprs[0].(*ast.Match)
	if _, ok := m.Arms[0].Pattern.(*ast.ListPattern); !ok {
		t.Errorf("arm 0 pattern = %T, want *ast.ListPattern", m.Arms[0].Pattern)
	}
	if _, ok := m.Arms[1].Pattern.(*ast.StructPattern); !ok {
		t.Errorf("arm 1 pattern = %T, want *ast.StructPattern", m.Arms[1].Pattern)
	}
	if _, ok := m.Arms[2].Pattern.(*ast.OrPattern); !ok {
		t.Errorf("arm 2 pattern = %T, want *ast.OrPattern", m.Arms[2].Pattern)
	}
	if _, ok := m.Arms[3].Pattern.(*ast.RangePattern); !ok {
		t.Errorf("arm 3 pattern = %T, want *ast.RangePattern", m.Arms[3].Pattern)
	}
}

func TestGenericNestedTypeAnnotation(t *testing.T) {
	p := testParser(`let x: Vec<Option<Int>> = y;`)
	prog := p.ParseProgram()
	checkParserErrors(t, p)
	let := prog.Exprs[0].(*ast.Let)
	named, ok := let.Type.(*ast.NamedType)
	if !ok || named.Name != "Vec" || len(named.Args) != 1 {
		t.Fatalf("unexpected outer type: %+v", let.Type)
	}
	inner, ok := named.Args[0].(*ast.NamedType)
	if !ok || inner.Name != "Option" {
		t.Fatalf("unexpected inner type: %+v", named.Args[0])
	}
}

func TestBlockSetDictDisambiguation(t *testing.T) {
	t.Run("empty block is an empty dict", func(t *testing.T) {
		p := testParser(`{}`)
		prog := p.ParseProgram()
		checkParserErrors(t, p)
		if _, ok := prog.Exprs[0].(*ast.Dict); !ok {
			t.Fatalf("expected *ast.Dict, got %T", prog.Exprs[0])
		}
	})

	t.Run("brace with comma-separated bare values is a set", func(t *testing.T) {
		p := testParser(`{1, 2, 3}`)
		prog := p.ParseProgram()
		checkParserErrors(t, p)
		if _, ok := prog.Exprs[0].(*ast.Set); !ok {
			t.Fatalf("expected *ast.Set, got %T", prog.Exprs[0])
		}
	})

	t.Run("brace with key colon value pairs is a dict", func(t *testing.T) {
		p := testParser(`{"a": 1, "b": 2}`)
		prog := p.ParseProgram()
		checkParserErrors(t, p)
		if _, ok := prog.Exprs[0].(*ast.Dict); !ok {
			t.Fatalf("expected *ast.Dict, got %T", prog.Exprs[0])
		}
	})

	t.Run("brace block of statements stays a block", func(t *testing.T) {
		p := testParser(`{ let x = 1; x + 1 }`)
		prog := p.ParseProgram()
		checkParserErrors(t, p)
		if _, ok := prog.Exprs[0].(*ast.Block); !ok {
			t.Fatalf("expected *ast.Block, got %T", prog.Exprs[0])
		}
	})
}

func TestFStringInterpolation(t *testing.T) {
	p := testParser("f\"hello {name}, you are {age + 1} next year\"")
	prog := p.ParseProgram()
	checkParserErrors(t, p)
	fs, ok := prog.Exprs[0].(*ast.FString)
	if !ok {
		t.Fatalf("expected *ast.FString, got %T", prog.Exprs[0])
	}
	var exprParts int
	for _, part := range fs.Parts {
		if part.Expr != nil {
			exprParts++
		}
	}
	if exprParts != 2 {
		t.Errorf("expected 2 interpolated parts, got %d", exprParts)
	}
}

func TestActorSendAsk(t *testing.T) {
	t.Run("send lowers to ast.Send", func(t *testing.T) {
		p := testParser(`actor.send(msg)`)
		prog := p.ParseProgram()
		checkParserErrors(t, p)
		if _, ok := prog.Exprs[0].(*ast.Send); !ok {
			t.Fatalf("expected *ast.Send, got %T", prog.Exprs[0])
		}
	})

	t.Run("ask lowers to ast.Ask", func(t *testing.T) {
		p := testParser(`actor.ask(msg)`)
		prog := p.ParseProgram()
		checkParserErrors(t, p)
		if _, ok := prog.Exprs[0].(*ast.Ask); !ok {
			t.Fatalf("expected *ast.Ask, got %T", prog.Exprs[0])
		}
	})

	t.Run("other method calls stay ast.MethodCall", func(t *testing.T) {
		p := testParser(`list.push(1)`)
		prog := p.ParseProgram()
		checkParserErrors(t, p)
		if _, ok := prog.Exprs[0].(*ast.MethodCall); !ok {
			t.Fatalf("expected *ast.MethodCall, got %T", prog.Exprs[0])
		}
	})
}

func TestTryCatchBothSpellings(t *testing.T) {
	t.Run("unparenthesized catch binding", func(t *testing.T) {
		p := testParser(`try { risky() } catch e { handle(e) }`)
		prog := p.ParseProgram()
		checkParserErrors(t, p)
		tc, ok := prog.Exprs[0].(*ast.TryCatch)
		if !ok || tc.CatchName != "e" {
			t.Fatalf("unexpected try/catch shape: %+v", prog.Exprs[0])
		}
	})

	t.Run("parenthesized catch binding", func(t *testing.T) {
		p := testParser(`try { risky() } catch (e) { handle(e) }`)
		prog := p.ParseProgram()
		checkParserErrors(t, p)
		tc, ok := prog.Exprs[0].(*ast.TryCatch)
		if !ok || tc.CatchName != "e" {
			t.Fatalf("unexpected try/catch shape: %+v", prog.Exprs[0])
		}
	})
}

func TestVecAndDataFrameMacros(t *testing.T) {
	t.Run("vec! list form", func(t *testing.T) {
		p := testParser(`vec![1, 2, 3]`)
		prog := p.ParseProgram()
		checkParserErrors(t, p)
		m, ok := prog.Exprs[0].(*ast.MacroInvocation)
		if !ok || m.Name != "vec" || len(m.Args) != 3 {
			t.Fatalf("unexpected vec! shape: %+v", prog.Exprs[0])
		}
	})

	t.Run("vec! repeat form", func(t *testing.T) {
		p := testParser(`vec![0; 10]`)
		prog := p.ParseProgram()
		checkParserErrors(t, p)
		m, ok := prog.Exprs[0].(*ast.MacroInvocation)
		if !ok || m.RepeatCount == nil {
			t.Fatalf("unexpected vec! repeat shape: %+v", prog.Exprs[0])
		}
	})

	t.Run("dataframe! literal", func(t *testing.T) {
		p := testParser(`dataframe!{ x: [1, 2], y: [3, 4] }`)
		prog := p.ParseProgram()
		checkParserErrors(t, p)
		df, ok := prog.Exprs[0].(*ast.DataFrame)
		if !ok || len(df.Columns) != 2 {
			t.Fatalf("unexpected dataframe! shape: %+v", prog.Exprs[0])
		}
	})
}

func TestImplWithTraitTarget(t *testing.T) {
	p := testParser(`
		impl<T: Display> Show for Box<T> {
			fn show(self) -> String { self.value }
		}
	`)
	prog := p.ParseProgram()
	checkParserErrors(t, p)
	impl, ok := prog.Exprs[0].(*ast.Impl)
	if !ok {
		t.Fatalf("expected *ast.Impl, got %T", prog.Exprs[0])
	}
	if impl.TraitTarget != "Show" {
		t.Errorf("trait target = %q, want Show", impl.TraitTarget)
	}
	if len(impl.Methods) != 1 {
		t.Fatalf("expected 1 method, got %d", len(impl.Methods))
	}
}

func TestErrorRecoverySynchronizes(t *testing.T) {
	p := testParser(`let = ; let y = 2;`)
	prog := p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatalf("expected at least one parser error")
	}
	if len(prog.Exprs) != 2 {
		t.Fatalf("expected parser to recover and still emit 2 top-level items, got %d", len(prog.Exprs))
	}
	if _, ok := prog.Exprs[1].(*ast.Let); !ok {
		t.Errorf("second item should still parse as *ast.Let, got %T", prog.Exprs[1])
	}
}
