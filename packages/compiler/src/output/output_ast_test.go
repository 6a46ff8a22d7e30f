package output

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIsEquivalent(t *testing.T) {
	cases := []struct {
		name string
		a, b OutputExpression
		want bool
	}{
		{"same variable", Variable("a", nil, nil), Variable("a", nil, nil), true},
		{"different variables", Variable("a", nil, nil), Variable("b", nil, nil), false},
		{"same literal", Literal(1, nil, nil), Literal(1, nil, nil), true},
		{"different literals", Literal(1, nil, nil), Literal(2, nil, nil), false},
		{"literal vs variable", Literal("a", nil, nil), Variable("a", nil, nil), false},
		{"same property read",
			Prop(Variable("a", nil, nil), "x"), Prop(Variable("a", nil, nil), "x"), true},
		{"different property names",
			Prop(Variable("a", nil, nil), "x"), Prop(Variable("a", nil, nil), "y"), false},
		{"same binary",
			Plus(Variable("a", nil, nil), Literal(1, nil, nil)),
			Plus(Variable("a", nil, nil), Literal(1, nil, nil)), true},
		{"different operators",
			Plus(Variable("a", nil, nil), Literal(1, nil, nil)),
			Equals(Variable("a", nil, nil), Literal(1, nil, nil)), false},
		{"same call",
			CallMethod(Variable("a", nil, nil), "fn", []OutputExpression{Literal(1, nil, nil)}),
			CallMethod(Variable("a", nil, nil), "fn", []OutputExpression{Literal(1, nil, nil)}), true},
		{"different args",
			CallMethod(Variable("a", nil, nil), "fn", []OutputExpression{Literal(1, nil, nil)}),
			CallMethod(Variable("a", nil, nil), "fn", []OutputExpression{Literal(2, nil, nil)}), false},
		{"same external reference",
			ImportExpr(&ExternalReference{Name: strPtr("x"), ModuleName: strPtr("m")}, nil, nil),
			ImportExpr(&ExternalReference{Name: strPtr("x"), ModuleName: strPtr("m")}, nil, nil), true},
		{"different external modules",
			ImportExpr(&ExternalReference{Name: strPtr("x"), ModuleName: strPtr("m")}, nil, nil),
			ImportExpr(&ExternalReference{Name: strPtr("x"), ModuleName: strPtr("n")}, nil, nil), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.IsEquivalent(tc.b); got != tc.want {
				t.Errorf("IsEquivalent = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestClone(t *testing.T) {
	original := Variable("a", nil, nil)
	clone := original.Clone()
	if clone == OutputExpression(original) {
		t.Fatal("Expected Clone to return a new node")
	}
	if !clone.IsEquivalent(original) {
		t.Error("Expected the clone to stay equivalent to the original")
	}
}

func TestIsConstant(t *testing.T) {
	if !Literal(1, nil, nil).IsConstant() {
		t.Error("Expected a literal to be constant")
	}
	if !LiteralArr([]OutputExpression{Literal(1, nil, nil)}, nil, nil).IsConstant() {
		t.Error("Expected an array of literals to be constant")
	}
	if LiteralArr([]OutputExpression{Variable("a", nil, nil)}, nil, nil).IsConstant() {
		t.Error("Expected an array containing a variable not to be constant")
	}
	if Variable("a", nil, nil).IsConstant() {
		t.Error("Expected a variable not to be constant")
	}
}

func TestFindReadVarNames(t *testing.T) {
	stmts := []OutputStatement{
		ToStmt(Plus(Variable("a", nil, nil), Variable("b", nil, nil))),
		NewDeclareVarStmt("decl", Variable("c", nil, nil), nil, StmtModifierNone, nil, nil),
		NewIfStmt(Variable("cond", nil, nil), []OutputStatement{
			ToStmt(CallMethod(Variable("d", nil, nil), "fn", nil)),
		}, nil, nil, nil),
	}

	got := FindReadVarNames(stmts)

	want := map[string]bool{"a": true, "b": true, "c": true, "cond": true, "d": true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindReadVarNames mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceVarInExpression(t *testing.T) {
	replacement := Prop(ThisExpr, "parent")
	expression := Plus(Prop(Variable("self", nil, nil), "a"), Variable("other", nil, nil))

	result := ReplaceVarInExpression("self", replacement, expression)

	want := Plus(Prop(replacement, "a"), Variable("other", nil, nil))
	if !result.IsEquivalent(want) {
		t.Errorf("Expected only reads of the named variable to be replaced")
	}
	// the original expression is left untouched
	if !expression.IsEquivalent(Plus(Prop(Variable("self", nil, nil), "a"), Variable("other", nil, nil))) {
		t.Errorf("Expected the source expression to stay unchanged")
	}
}

func TestVariableSetBuildsAssignment(t *testing.T) {
	assign := Variable("a", nil, nil).Set(Literal(1, nil, nil))
	if assign.Operator != BinaryOperatorAssign {
		t.Errorf("Expected an assignment operator")
	}
	if asVar, ok := assign.Lhs.(*ReadVarExpr); !ok || asVar.Name != "a" {
		t.Errorf("Expected the variable read on the left side")
	}

	propAssign := Prop(ThisExpr, "field").Set(Literal(2, nil, nil))
	if propAssign.Operator != BinaryOperatorAssign {
		t.Errorf("Expected a property assignment operator")
	}
}
