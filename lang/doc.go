// Package lang implements the ClearSys language: a lexer, a hand-written
// recursive descent parser, a lexically scoped environment and a tree-walking
// evaluator.
//
// # Grammar
//
// Informal EBNF:
//
//	Program   → FuncDecl* EOF
//	FuncDecl  → 'subr' IDENT '(' Params? ')' 'returns' TYPE Block
//	Params    → TYPE IDENT (',' TYPE IDENT)*
//	Block     → '{' Stmt* '}'
//	Stmt      → TYPE IDENT '=' Expr ';'
//	          | IDENT AssignOp Expr ';'
//	          | 'while' '(' Expr ')' Block
//	          | 'if' '(' Expr ')' Block ('else' Block)?
//	          | 'return' Expr? ';'
//	          | Expr ';'
//	AssignOp  → '=' | '+=' | '-=' | '*=' | '/='
//	Expr      → Additive (('==' | '<' | '>') Additive)*
//	Additive  → Term (('+' | '-') Term)*
//	Term      → Primary (('*' | '/') Primary)*
//	Primary   → INT | STRING | IDENT | IDENT '(' Args? ')' | '(' Expr ')'
//	Args      → Expr (',' Expr)*
//
// All binary operators are left-associative. Comments run from "//" to the
// end of the line.
//
// # Example
//
//	subr add(int a, int b) returns int {
//	    return a + b;
//	}
//
//	subr main() returns int {
//	    int x = add(4, 6);
//	    if (x == 10) {
//	        print("Result: ");
//	        print(x);
//	        print("\n");
//	    }
//	    return 0;
//	}
//
// # Scoping
//
// Every call runs in a fresh root scope holding only its parameters, so a
// function never sees its caller's variables. Each block, and each iteration
// of a while body, gets a new child scope that is released when the block
// exits by any path. Inner declarations may shadow outer ones; declaring a
// name twice in the same scope is an error.
//
// # Values
//
// Values are integers (64-bit, wrapping on overflow) and text. Comparisons
// produce the integer 1 or 0, and a condition is true when it is a non-zero
// integer. Operators applied to text are type errors.
//
// # Built-ins
//
// print(x) writes the text of a single int or text value to the output
// without a trailing newline. The name print is reserved.
//
// # Errors
//
// Every error derives from one of the Err* sentinels and can be classified
// with errors.Is. Errors tied to source carry a [Position]. Evaluation stops
// at the first error; output already printed is not withdrawn.
package lang
