// service/main_test.go
package service

import (
	"go-notes-api/logger"
	"os"
	"testing"
)

// TestMain runs setup before any tests in this package are executed.
func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}
