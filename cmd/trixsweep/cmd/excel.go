package cmd

import (
	"fmt"

	"github.com/rustyeddy/trixsweep/journal"
	"github.com/spf13/cobra"
)

var excelCmd = &cobra.Command{
	Use:   "excel <in.csv> [out.csv]",
	Short: "Convert a CSV file for spreadsheets with a decimal comma",
	Long: `Excel rewrites a comma separated file with ';' as the separator and ','
as the decimal mark, prefixed with a UTF-8 byte order mark.

Without an output path the result is written next to the input as
<name>_excel.csv.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runExcel,
}

func init() {
	rootCmd.AddCommand(excelCmd)
}

func runExcel(cmd *cobra.Command, args []string) error {
	in := args[0]
	out := journal.ExcelPath(in)
	if len(args) == 2 {
		out = args[1]
	}
	if err := journal.NewExcel().ConvertFile(in, out); err != nil {
		return err
	}
	fmt.Printf("✓ Converted %s -> %s\n", in, out)
	return nil
}
