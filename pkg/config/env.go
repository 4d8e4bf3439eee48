// Copyright © 2023 Vulcanize, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package config

// ENV variables
const (
	RUN_SCENARIOS = "RUN_SCENARIOS"
	RUN_FAIL_FAST = "RUN_FAIL_FAST"
	RUN_NO_COLOR  = "RUN_NO_COLOR"

	LOGRUS_LEVEL = "LOGRUS_LEVEL"
	LOGRUS_FILE  = "LOGRUS_FILE"

	PROM_METRICS   = "PROM_METRICS"
	PROM_HTTP      = "PROM_HTTP"
	PROM_HTTP_ADDR = "PROM_HTTP_ADDR"
	PROM_HTTP_PORT = "PROM_HTTP_PORT"
)

// TOML bindings
const (
	RUN_SCENARIOS_TOML = "run.scenarios"
	RUN_FAIL_FAST_TOML = "run.failFast"
	RUN_NO_COLOR_TOML  = "run.noColor"

	LOGRUS_LEVEL_TOML = "log.level"
	LOGRUS_FILE_TOML  = "log.file"

	PROM_METRICS_TOML   = "prom.metrics"
	PROM_HTTP_TOML      = "prom.http"
	PROM_HTTP_ADDR_TOML = "prom.httpAddr"
	PROM_HTTP_PORT_TOML = "prom.httpPort"
)

// CLI flags
const (
	RUN_SCENARIOS_CLI = "scenarios"
	RUN_FAIL_FAST_CLI = "fail-fast"
	RUN_NO_COLOR_CLI  = "no-color"

	LOGRUS_LEVEL_CLI = "log-level"
	LOGRUS_FILE_CLI  = "log-file"

	PROM_METRICS_CLI   = "prom-metrics"
	PROM_HTTP_CLI      = "prom-http"
	PROM_HTTP_ADDR_CLI = "prom-httpAddr"
	PROM_HTTP_PORT_CLI = "prom-httpPort"
)
