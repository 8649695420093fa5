package lang

import (
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/expr-lang/expr"
)

// exprPair is one randomly generated integer expression written both in
// ClearSys and in expr-lang syntax.
type exprPair struct {
	clearsys string
	oracle   string
}

// genExpr builds a random expression over small integers. Comparisons are
// mapped to a ternary in the oracle since expr-lang yields booleans.
func genExpr(r *rand.Rand, depth int) exprPair {
	if depth == 0 || r.IntN(4) == 0 {
		n := strconv.Itoa(r.IntN(20))

		return exprPair{clearsys: n, oracle: n}
	}

	l := genExpr(r, depth-1)
	rt := genExpr(r, depth-1)

	switch op := []string{"+", "-", "*", "==", "<", ">"}[r.IntN(6)]; op {
	case "==", "<", ">":
		return exprPair{
			clearsys: "(" + l.clearsys + " " + op + " " + rt.clearsys + ")",
			oracle:   "((" + l.oracle + ") " + op + " (" + rt.oracle + ") ? 1 : 0)",
		}

	default:
		return exprPair{
			clearsys: "(" + l.clearsys + " " + op + " " + rt.clearsys + ")",
			oracle:   "(" + l.oracle + " " + op + " " + rt.oracle + ")",
		}
	}
}

// Integer arithmetic and comparison agree with an independent evaluator.
func TestRun_ExprOracle(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	for range 200 {
		pair := genExpr(r, 4)

		program, err := expr.Compile(pair.oracle)
		if err != nil {
			t.Fatalf("expr.Compile(%q) error: %v", pair.oracle, err)
		}

		want, err := expr.Run(program, nil)
		if err != nil {
			t.Fatalf("expr.Run(%q) error: %v", pair.oracle, err)
		}

		wantInt, ok := want.(int)
		if !ok {
			t.Fatalf("expr.Run(%q) = %T, want int", pair.oracle, want)
		}

		_, got, err := run(t, mainReturning("return "+pair.clearsys+";"))
		if err != nil {
			t.Fatalf("Run(%q) error: %v", pair.clearsys, err)
		}

		if got != wantInt {
			t.Errorf("%s = %d, oracle %s = %d", pair.clearsys, got, pair.oracle, wantInt)
		}
	}
}
