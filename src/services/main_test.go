// backend/src/services/main_test.go
package services

import (
	"os"
	"testing"

	"github.com/username/cartera/backend/src/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}
