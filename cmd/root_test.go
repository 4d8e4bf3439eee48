package cmd

import (
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/cerc-io/xcm-emulator/pkg/config"
	"github.com/cerc-io/xcm-emulator/test"
)

func TestInitFuncsReadsLogEnv(t *testing.T) {
	level := log.GetLevel()
	defer func() {
		log.SetLevel(level)
		log.SetReportCaller(false)
	}()

	t.Setenv(config.LOGRUS_LEVEL, "debug")
	initFuncs(rootCmd, nil)
	test.ExpectEqual(t, log.DebugLevel, log.GetLevel())

	t.Setenv(config.LOGRUS_LEVEL, "warn")
	initFuncs(rootCmd, nil)
	test.ExpectEqual(t, log.WarnLevel, log.GetLevel())
}
