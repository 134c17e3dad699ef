package ir

import "testing"

func TestUnionOf_NullLast(t *testing.T) {
	u := UnionOf(Null(), Str())
	union, ok := u.(*Union)
	if !ok {
		t.Fatalf("UnionOf returned %T, want *Union", u)
	}
	if len(union.Members) != 2 {
		t.Fatalf("len(Members) = %d, want 2", len(union.Members))
	}
	if !IsNull(union.Members[1]) {
		t.Error("null member should be sorted last")
	}
}

func TestUnionOf_Dedup(t *testing.T) {
	u := UnionOf(Str(), Str(), Num())
	union, ok := u.(*Union)
	if !ok {
		t.Fatalf("UnionOf returned %T, want *Union", u)
	}
	if len(union.Members) != 2 {
		t.Errorf("len(Members) = %d, want 2", len(union.Members))
	}
}

func TestUnionOf_FlattensNested(t *testing.T) {
	// **T: the pointer rule applies twice, so the inner union must not
	// survive as a member and null must not repeat.
	u := UnionOf(UnionOf(Num(), Null()), Null())
	union, ok := u.(*Union)
	if !ok {
		t.Fatalf("UnionOf returned %T, want *Union", u)
	}
	if len(union.Members) != 2 {
		t.Fatalf("Members = %v, want [number, null]", union.Members)
	}
	if !Equal(union.Members[0], Num()) || !IsNull(union.Members[1]) {
		t.Errorf("Members = %v, want [number, null]", union.Members)
	}

	flat := UnionOf(UnionOf(Str(), Num()), Str())
	if len(flat.(*Union).Members) != 2 {
		t.Errorf("flattened members = %v", flat.(*Union).Members)
	}
}

func TestUnionOf_SingleCollapses(t *testing.T) {
	u := UnionOf(Str(), Str())
	if _, ok := u.(*Primitive); !ok {
		t.Errorf("single-member union should collapse, got %T", u)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b TypeExpr
		want bool
	}{
		{"same primitive", Str(), Str(), true},
		{"different primitive", Str(), Num(), false},
		{"same ref", Ref("User", "a"), Ref("User", "a"), true},
		{"ref different module", Ref("User", "a"), Ref("User", "b"), false},
		{"seq", SeqOf(Str()), SeqOf(Str()), true},
		{"seq mismatch", SeqOf(Str()), SeqOf(Num()), false},
		{"mapping", MapOf(Str(), Num()), MapOf(Str(), Num()), true},
		{"kind mismatch", Str(), SeqOf(Str()), false},
		{"literal", Lit("a", "b"), Lit("a", "b"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnnotation_RequiresPost(t *testing.T) {
	a := Annotation{Name: "avatar", Type: File()}
	if !a.RequiresPost() {
		t.Error("file annotation should require POST")
	}
	b := Annotation{Name: "files", Type: SeqOf(File())}
	if !b.RequiresPost() {
		t.Error("sequence of files should require POST")
	}
	c := Annotation{Name: "q", Type: Str()}
	if c.RequiresPost() {
		t.Error("string annotation should not require POST")
	}
}

func TestAnnotation_HasDefault(t *testing.T) {
	a := Annotation{Name: "limit", Type: Num(), Default: &Value{V: int64(10)}}
	if !a.HasDefault() {
		t.Error("HasDefault() = false, want true")
	}
	n := Annotation{Name: "none", Type: Str(), Default: &Value{V: nil}}
	if !n.HasDefault() {
		t.Error("explicit null default should still count as a default")
	}
	b := Annotation{Name: "q", Type: Str()}
	if b.HasDefault() {
		t.Error("HasDefault() = true, want false")
	}
}

func TestTypeName_String(t *testing.T) {
	n := TypeName{Name: "User", Module: "example.com/api"}
	if got := n.String(); got != "example.com/api:User" {
		t.Errorf("String() = %q", got)
	}
	if (TypeName{}).String() != "" {
		t.Error("zero TypeName should render empty")
	}
	if !(TypeName{}).IsZero() {
		t.Error("zero TypeName should be zero")
	}
}
