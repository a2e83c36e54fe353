// Package calculator implements the string calculator kata.
//
// Add takes a delimited string of integers and returns their sum:
//
//	calc := calculator.New()
//	calc.Add("")            // 0
//	calc.Add("1,2\n3")      // 6
//	calc.Add("//;\n1;2")    // 3
//	calc.Add("//[***]\n1***2***3") // 6
//	calc.Add("2,1001")      // 2, numbers above 1000 are ignored
//	calc.Add("1,-2,-3")     // error: negatives not allowed: -2, -3
//
// The grammar for a custom delimiter header is:
//
//	//<delimiter>\n
//	//[<delimiter>][<delimiter>]...\n
package calculator
