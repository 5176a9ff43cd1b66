package journal

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"golang.org/x/text/transform"
)

// ExcelPath derives the name of the Excel friendly twin of a CSV file.
func ExcelPath(path string) string {
	return strings.TrimSuffix(path, ".csv") + "_excel.csv"
}

// Excel converts comma separated, dot decimal CSV into the semicolon
// separated, comma decimal dialect that spreadsheet programs in most
// European locales open directly.
type Excel struct {
	p *message.Printer
}

func NewExcel() *Excel {
	return &Excel{p: message.NewPrinter(language.German)}
}

// Cell rewrites one value. Numbers that fit a float64 exactly are printed
// with a decimal comma and no grouping; every other cell, longer numbers
// included, has each '.' replaced by ','.
func (x *Excel) Cell(s string) string {
	if isPlainNumber(s) && significantDigits(s) <= maxExactDigits {
		v, _ := strconv.ParseFloat(s, 64)
		digits := 0
		if i := strings.IndexByte(s, '.'); i >= 0 {
			digits = len(s) - i - 1
		}
		return x.p.Sprintf("%v", number.Decimal(v,
			number.NoSeparator(),
			number.MinFractionDigits(digits),
			number.MaxFractionDigits(digits),
		))
	}
	return strings.ReplaceAll(s, ".", ",")
}

// maxExactDigits is the longest decimal a float64 round-trips unchanged.
const maxExactDigits = 15

func significantDigits(s string) int {
	s = strings.TrimLeft(strings.Replace(strings.TrimPrefix(s, "-"), ".", "", 1), "0")
	return len(s)
}

func isPlainNumber(s string) bool {
	if s == "" || s == "-" || s == "." || strings.Count(s, ".") > 1 {
		return false
	}
	if s[0] == '-' {
		s = s[1:]
	}
	return s != "" && s != "." && strings.Trim(s, "0123456789.") == ""
}

// Convert copies r to w, rewriting every cell. The output starts with a
// UTF-8 byte order mark; a BOM on the input is dropped.
func (x *Excel) Convert(r io.Reader, w io.Writer) error {
	in := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	in.FieldsPerRecord = -1

	bw := bufio.NewWriter(w)
	tw := transform.NewWriter(bw, unicode.UTF8BOM.NewEncoder())
	out := csv.NewWriter(tw)
	out.Comma = ';'

	for {
		rec, err := in.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read csv: %w", err)
		}
		for i := range rec {
			rec[i] = x.Cell(rec[i])
		}
		if err := out.Write(rec); err != nil {
			return err
		}
	}
	out.Flush()
	if err := out.Error(); err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return bw.Flush()
}

// ConvertFile writes the Excel twin of in to out.
func (x *Excel) ConvertFile(in, out string) error {
	src, err := os.Open(in)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := x.Convert(src, dst); err != nil {
		dst.Close()
		return fmt.Errorf("convert %s: %w", in, err)
	}
	return dst.Close()
}
