package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/calculator"
)

// calcCmd represents the calc command
var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "String calculator",
	Run:   requireSubcommand,
}

var calcAddCmd = &cobra.Command{
	Use:   "add <numbers>",
	Short: "Sum the numbers in a delimited string",
	Long: `Sum the numbers in a delimited string.

Numbers are separated by commas or newlines. A first line of the form
"//;" or "//[***][%]" declares custom delimiters. Negative numbers are
rejected and numbers above 1000 are ignored. A literal \n in the argument
is read as a newline.

Example:
  tdd101ctl calc add "1,2,3"
  tdd101ctl calc add '//[***]\n1***2***3'`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sum, err := calculate(args[0])
		if err != nil {
			exitWithError("Unable to add", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), sum)
	},
}

func init() {
	rootCmd.AddCommand(calcCmd)
	calcCmd.AddCommand(calcAddCmd)
}

func calculate(input string) (int, error) {
	return calculator.New().Add(strings.ReplaceAll(input, `\n`, "\n"))
}
