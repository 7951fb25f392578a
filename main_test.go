package main

import (
	"testing"
)

// TestMain_Imports verifies that main package compiles and imports work
func TestMain_Imports(t *testing.T) {
	// The actual main() function calls os.Exit via cmd.Execute, which
	// makes it difficult to test directly
}

// Note: The main function is minimal and delegates to cmd.Execute()
// Testing is done in the cmd package tests
