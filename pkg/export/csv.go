package export

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/GlebRadaev/fedha/internal/domain"
)

// WriteTable writes the header row followed by one line per row.
func WriteTable(w io.Writer, table domain.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Columns); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// TableCSV serialises the table and returns the payload with its SHA-256 checksum.
func TableCSV(table domain.Table) ([]byte, string, error) {
	buffer := &bytes.Buffer{}
	if err := WriteTable(buffer, table); err != nil {
		return nil, "", err
	}
	data := buffer.Bytes()
	checksum := sha256.Sum256(data)
	return data, hex.EncodeToString(checksum[:]), nil
}

// WriteFile stores the table at path, creating parent directories as needed.
func WriteFile(path string, table domain.Table) (string, error) {
	data, checksum, err := TableCSV(table)
	if err != nil {
		return "", fmt.Errorf("can't encode %s: %w", table.Title, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("can't create export dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("can't write export: %w", err)
	}
	return checksum, nil
}
