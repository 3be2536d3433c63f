// Package query compiles and evaluates row filter expressions.
//
// An expression is a C-like arithmetic/logical formula over the numeric
// columns of one record:
//
//	lat>=55.5 && lat<=72
//	Total>3 || #0%10==0
//	sqrt(pow(#1,2)+pow(#2,2)) < 100
//
// Columns are referenced by header label (exact match first, then ignoring
// case) or by 1-based position as #N; #0 is the 1-based record number.
//
// Operators, highest precedence first:
//
//	- + !                unary
//	^                    power (left associative)
//	* /
//	+ - %                % is the floating point remainder
//	> < >= <= == !=      yield 1 or 0
//	&&
//	||
//
// Functions: log10 ln log exp sin cos tan asin acos atan abs fabs int floor
// round sqrt pow. pow takes two arguments, the others one. round rounds
// halves up.
//
// # Compile once, evaluate per row
//
// Compilation runs in three passes: Tokenize, Parse (to a postfix token list)
// and Resolve (binding names against a header). The resulting Program is
// immutable; evaluate it once per row:
//
//	prog, err := query.Compile("Total>3", query.Environment{
//	    Labels: []string{"Lon", "Lat", "Year", "Total"},
//	    Source: "cpool.out",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ok, err := prog.Match(query.Row{Values: values, Ordinal: n})
//
// When the same expression is applied to several files, parse it once with
// ParseExpression and resolve it per header, or through a Cache.
//
// A Machine owns an evaluation stack and can be reused for many rows by one
// goroutine. ApplyFilter spreads rows across several machines.
//
// # Errors
//
// Tokenize and Parse return *SyntaxError, whose Caret method points at the
// offending character. Resolve returns *ResolveError naming the identifier
// and source file. Evaluation only fails for rows shorter than the program
// expects; arithmetic anomalies yield Inf or NaN like native floating point.
package query
