package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShell_ViewAndExit(t *testing.T) {
	path := seededFile(t)

	out, _, err := execute(t, "2\n4\n", "--file", path, "shell")
	require.NoError(t, err)

	assert.Contains(t, out, "1. Add\n2. View All\n3. Sell\n4. Save and Exit\n")
	assert.Contains(t, out, "--- Available Items ---")
	assert.Contains(t, out, "Name: Sofa")
	assert.Contains(t, out, "Name: Chair")
	assert.Contains(t, out, "Saved 2 item(s) to "+path+".")
	assert.True(t, strings.HasSuffix(out, "Exiting... Goodbye!\n"))
}

func TestShell_AddAndSell(t *testing.T) {
	path := seededFile(t)

	input := strings.Join([]string{
		"1", "5", "Desk", "4", "210.50", // add
		"3", "5", "3", // sell
		"4",
	}, "\n") + "\n"

	out, _, err := execute(t, input, "--file", path, "shell")
	require.NoError(t, err)

	assert.Contains(t, out, "Item added successfully!")
	assert.Contains(t, out, "Sale successful! 1 left of Desk.")
	assert.Equal(t, "1,Sofa,5,499.99\n2,Chair,10,89.5\n5,Desk,1,210.5\n", readFile(t, path))
}

func TestShell_RepromptsOnBadInput(t *testing.T) {
	path := seededFile(t)

	input := strings.Join([]string{
		"abc",                          // not a number
		"9",                            // not a menu entry
		"1", "x", "6", "", "Lamp", "2", // bad id, blank name
		"cheap", "35", // bad price
		"4",
	}, "\n") + "\n"

	out, _, err := execute(t, input, "--file", path, "shell")
	require.NoError(t, err)

	assert.Contains(t, out, "Invalid input! Please enter a whole number.")
	assert.Contains(t, out, "Invalid choice! Please select between 1-4.")
	assert.Contains(t, out, "Invalid input! Please enter a number.")
	assert.Contains(t, out, "Item added successfully!")
	assert.Contains(t, readFile(t, path), "6,Lamp,2,35\n")
}

func TestShell_DomainErrorsKeepLooping(t *testing.T) {
	path := seededFile(t)

	input := strings.Join([]string{
		"3", "1", "100", // insufficient stock
		"3", "42", "1", // unknown id
		"1", "7", "Stool", "-2", "10", // negative quantity
		"4",
	}, "\n") + "\n"

	out, _, err := execute(t, input, "--file", path, "shell")
	require.NoError(t, err)

	assert.Contains(t, out, "Error: INSUFFICIENT_STOCK: not enough stock: requested 100, available 5 (id=1)")
	assert.Contains(t, out, "Error: NOT_FOUND: item with id 42 not found (id=42)")
	assert.Contains(t, out, "Error: INVALID: invalid item (id=7): quantity must not be negative")
	assert.Contains(t, out, "Exiting... Goodbye!")
	assert.Equal(t, "1,Sofa,5,499.99\n2,Chair,10,89.5\n", readFile(t, path))
}

func TestShell_EndOfInputSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "furniture_data.txt")

	// No trailing "4": input ends after the add.
	out, _, err := execute(t, "1\n1\nSofa\n5\n499.99\n", "--file", path, "--no-autosave", "shell")
	require.NoError(t, err)

	assert.Contains(t, out, "Item added successfully!")
	assert.Contains(t, out, "Exiting... Goodbye!")
	assert.Equal(t, "1,Sofa,5,499.99\n", readFile(t, path))
}

func TestShell_SaveFailureStillExits(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	path := filepath.Join(blocker, "furniture_data.txt")
	cfgPath := filepath.Join(dir, "stockroom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("storage:\n  recovery: empty\n"), 0o644))

	out, errOut, err := execute(t, "4\n", "--config", cfgPath, "--file", path, "shell")
	require.NoError(t, err)
	assert.Contains(t, errOut, "starting with an empty catalog")
	assert.Contains(t, out, "Failed to save data:")
	assert.Contains(t, out, "Exiting... Goodbye!")
}

func TestShell_OverlongLineIsReportedThenSaves(t *testing.T) {
	path := seededFile(t)

	input := "1\n7\n" + strings.Repeat("x", 70*1024) + "\n4\n"
	out, _, err := execute(t, input, "--file", path, "--no-autosave", "shell")
	require.NoError(t, err)

	assert.Contains(t, out, "Input error: bufio.Scanner: token too long")
	assert.Contains(t, out, "Saved 2 item(s) to "+path+".")
	assert.True(t, strings.HasSuffix(out, "Exiting... Goodbye!\n"))
	assert.Equal(t, "1,Sofa,5,499.99\n2,Chair,10,89.5\n", readFile(t, path))
}
