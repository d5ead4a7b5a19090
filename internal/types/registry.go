package types

// StructDef is a registered struct declaration's field shape.
type StructDef struct {
	Name       string
	Generics   []string
	FieldOrder []string
	Fields     map[string]Type
}

// EnumVariantDef is one variant's payload shape within an EnumDef.
type EnumVariantDef struct {
	Name       string
	Types      []Type // tuple-variant payload
	FieldOrder []string
	Fields     map[string]Type // struct-variant payload
}

// EnumDef is a registered enum declaration's variant shapes.
type EnumDef struct {
	Name     string
	Generics []string
	Variants map[string]*EnumVariantDef
}

// TraitDef is a registered trait declaration's method signatures.
type TraitDef struct {
	Name     string
	Generics []string
	Methods  map[string]*TFunc
}

// ImplDef records one `impl [Trait for] Type` block's methods, keyed by
// the target type's head name so method-call inference can look up
// `receiver.method(...)` against every impl block touching that type.
type ImplDef struct {
	TraitTarget string
	TargetName  string
	Methods     map[string]*TFunc
}
