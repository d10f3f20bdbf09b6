// Package autoload configures the global logger from the environment when
// blank-imported:
//
//	import _ "github.com/estateplan/intake-agent/pkg/logger/autoload"
package autoload

import (
	configx "github.com/estateplan/intake-agent/pkg/config"
	logx "github.com/estateplan/intake-agent/pkg/logger"
)

func init() {
	conf := configx.MustNew[logx.Config]("LOG")
	logx.Init(*conf)
}
