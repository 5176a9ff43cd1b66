package journal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExcelCell(t *testing.T) {
	t.Parallel()

	x := NewExcel()
	tests := []struct {
		in, want string
	}{
		{"0.5", "0,5"},
		{"1000", "1000"},
		{"1234567.25", "1234567,25"},
		{"12345678901234567890", "12345678901234567890"},
		{"0.12345678901234567890", "0,12345678901234567890"},
		{"-9007199254740993.5", "-9007199254740993,5"},
		{"-18.181818", "-18,181818"},
		{"BTCUSDT", "BTCUSDT"},
		{"2024-03-01", "2024-03-01"},
		{"1.5e-05", "1,5e-05"},
		{"v1.2.3", "v1,2,3"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, x.Cell(tt.in), tt.in)
	}
}

func TestExcelConvert(t *testing.T) {
	t.Parallel()

	in := "\ufeffpair,wallet,win_rate\nBTCUSDT,1234.5,0.25\n"
	var out bytes.Buffer
	require.NoError(t, NewExcel().Convert(strings.NewReader(in), &out))

	assert.Equal(t, "\ufeffpair;wallet;win_rate\nBTCUSDT;1234,5;0,25\n", out.String())
}

func TestExcelConvertFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "ETHUSDT_results_0001.csv")
	require.NoError(t, os.WriteFile(src, []byte("a,b\n1.5,x\n"), 0644))

	dst := ExcelPath(src)
	assert.Equal(t, filepath.Join(dir, "ETHUSDT_results_0001_excel.csv"), dst)
	require.NoError(t, NewExcel().ConvertFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "a;b\n1,5;x\n"))

	assert.Error(t, NewExcel().ConvertFile(filepath.Join(dir, "missing.csv"), dst))
}
