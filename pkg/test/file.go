package test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func ReadFile(t *testing.T, file string) []byte {
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	return data
}

//WriteFile stores the data in a file below a temporary test directory and returns its path
func WriteFile(t *testing.T, fileName string, data string) string {
	file := filepath.Join(t.TempDir(), fileName)
	require.NoError(t, os.WriteFile(file, []byte(data), 0600))
	return file
}
