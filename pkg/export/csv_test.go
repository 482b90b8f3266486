package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/GlebRadaev/fedha/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var table = domain.Table{
	Title:   "Members",
	Columns: []string{"Member ID", "Name", "Age", "Shares"},
	Rows: [][]string{
		{"1", "Amina Otieno", "22", "5000.00"},
		{"2", "Kamau, Brian", "30", "1000.00"},
	},
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, table))

	expected := "Member ID,Name,Age,Shares\n" +
		"1,Amina Otieno,22,5000.00\n" +
		"2,\"Kamau, Brian\",30,1000.00\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, domain.Table{Columns: []string{"Loan Revenue"}}))
	assert.Equal(t, "Loan Revenue\n", buf.String())
}

func TestTableCSVIsDeterministic(t *testing.T) {
	first, sum1, err := TableCSV(table)
	require.NoError(t, err)
	second, sum2, err := TableCSV(table)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, sum1, sum2)
	assert.Len(t, sum1, 64)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "members.csv")

	checksum, err := WriteFile(path, table)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	_, expected, _ := TableCSV(table)
	assert.Equal(t, expected, checksum)
	assert.Contains(t, string(data), "Member ID,Name,Age,Shares\n")
}

func TestWriteFileUnwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := WriteFile(filepath.Join(blocker, "out.csv"), table)
	assert.Error(t, err)
}
