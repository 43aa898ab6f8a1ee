package smt

import "testing"

func TestInterning(t *testing.T) {
	ctx := NewContext()

	if ctx.BVLit(7) != ctx.BVLit(7) {
		t.Error("equal literals are distinct terms")
	}
	if ctx.BVConst("x") != ctx.BVConst("x") {
		t.Error("equal constants are distinct terms")
	}
	if ctx.BVConst("x") == ctx.BVConst("y") {
		t.Error("different constants interned together")
	}

	x, y := ctx.BVConst("x"), ctx.BVConst("y")
	if ctx.Add(x, y) != ctx.Add(x, y) {
		t.Error("equal additions are distinct terms")
	}
	if ctx.Add(x, y) == ctx.Add(y, x) {
		t.Error("bvadd interned commutatively")
	}
	if ctx.Eq(x, y) != ctx.Eq(x, y) {
		t.Error("equal equalities are distinct terms")
	}
}

func TestSimplify(t *testing.T) {
	ctx := NewContext()
	x := ctx.BVConst("x")
	y := ctx.BVConst("y")

	tests := []struct {
		name string
		term *Term
		want *Term
	}{
		{"fold add", ctx.Add(ctx.BVLit(200), ctx.BVLit(100)), ctx.BVLit(44)},
		{"fold sub", ctx.Sub(ctx.BVLit(1), ctx.BVLit(2)), ctx.BVLit(255)},
		{"add zero right", ctx.Add(x, ctx.BVLit(0)), x},
		{"add zero left", ctx.Add(ctx.BVLit(0), x), x},
		{"sub zero", ctx.Sub(x, ctx.BVLit(0)), x},
		{"sub self", ctx.Sub(x, x), ctx.BVLit(0)},
		{"eq self", ctx.Eq(x, x), ctx.Bool(true)},
		{"eq equal literals", ctx.Eq(ctx.BVLit(3), ctx.BVLit(3)), ctx.Bool(true)},
		{"eq distinct literals", ctx.Eq(ctx.BVLit(3), ctx.BVLit(4)), ctx.Bool(false)},
		{"not true", ctx.Not(ctx.Bool(true)), ctx.Bool(false)},
		{"double negation", ctx.Not(ctx.Not(ctx.Eq(x, y))), ctx.Eq(x, y)},
		{"and true left", ctx.And(ctx.Bool(true), ctx.Eq(x, y)), ctx.Eq(x, y)},
		{"and true right", ctx.And(ctx.Eq(x, y), ctx.Bool(true)), ctx.Eq(x, y)},
		{"and false", ctx.And(ctx.Eq(x, y), ctx.Bool(false)), ctx.Bool(false)},
		{"and self", ctx.And(ctx.Eq(x, y), ctx.Eq(x, y)), ctx.Eq(x, y)},
		{"nested fold", ctx.Add(ctx.Add(ctx.BVLit(0), ctx.BVLit(1)), ctx.BVLit(1)), ctx.BVLit(2)},
		{"fold inside eq", ctx.Eq(ctx.Add(ctx.BVLit(1), ctx.BVLit(1)), ctx.BVLit(2)), ctx.Bool(true)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := ctx.Simplify(test.term)
			if got != test.want {
				t.Errorf("Simplify(%s) = %s, want %s", test.term, got, test.want)
			}
		})
	}
}

func TestSimplifyIdempotent(t *testing.T) {
	ctx := NewContext()
	x := ctx.BVConst("x")
	term := ctx.And(ctx.Bool(true), ctx.Eq(ctx.Add(x, ctx.BVLit(0)), ctx.BVLit(5)))

	once := ctx.Simplify(term)
	twice := ctx.Simplify(once)
	if once != twice {
		t.Errorf("Simplify not idempotent: %s vs %s", once, twice)
	}
}
