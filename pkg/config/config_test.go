package config_test

import (
	"testing"

	"github.com/spf13/viper"

	"github.com/cerc-io/xcm-emulator/pkg/config"
	"github.com/cerc-io/xcm-emulator/test"
)

func TestInitFromEnv(t *testing.T) {
	viper.Reset()
	t.Setenv(config.RUN_SCENARIOS, "reset conservation")
	t.Setenv(config.RUN_FAIL_FAST, "true")
	t.Setenv(config.LOGRUS_LEVEL, "debug")
	t.Setenv(config.PROM_HTTP_ADDR, "0.0.0.0")
	t.Setenv(config.PROM_HTTP_PORT, "9090")

	cfg := config.NewConfig()
	cfg.Init()

	test.ExpectEqual(t, []string{"reset", "conservation"}, cfg.Run.Scenarios)
	test.ExpectEqual(t, true, cfg.Run.FailFast)
	test.ExpectEqual(t, false, cfg.Run.NoColor)
	test.ExpectEqual(t, "debug", cfg.Log.Level)
	test.ExpectEqual(t, "0.0.0.0:9090", cfg.Prom.Addr())
}

func TestInitDefaults(t *testing.T) {
	viper.Reset()
	cfg := config.NewConfig()
	cfg.Init()

	test.ExpectEqual(t, 0, len(cfg.Run.Scenarios))
	test.ExpectEqual(t, false, cfg.Prom.Metrics)
	test.ExpectEqual(t, "", cfg.Log.File)
}
