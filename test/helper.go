package test

import (
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/holiman/uint256"
	log "github.com/sirupsen/logrus"
)

// InitLogging sets the log level from XCM_LOG_LEVEL, defaulting to warn so test output stays quiet.
func InitLogging() {
	lvl, err := log.ParseLevel(os.Getenv("XCM_LOG_LEVEL"))
	if err != nil {
		lvl = log.WarnLevel
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}

func NoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

// ExpectError asserts that err matches target via errors.Is
func ExpectError(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("Error mismatch:\nExpected:\t%v\nActual:\t\t%v", target, err)
	}
}

// ExpectEqual asserts the provided interfaces are deep equal
func ExpectEqual(t *testing.T, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("Values not equal:\nExpected:\t%v\nActual:\t\t%v", want, got)
	}
}

// ExpectBalance compares balances by value
func ExpectBalance(t *testing.T, want, got *uint256.Int) {
	t.Helper()
	if want.Cmp(got) != 0 {
		t.Fatalf("Balances not equal:\nExpected:\t%s\nActual:\t\t%s", want.ToBig(), got.ToBig())
	}
}
