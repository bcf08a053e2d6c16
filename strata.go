package main

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	strata "github.com/heliumos/strata/core"
	"github.com/heliumos/strata/core/input"
	"github.com/heliumos/strata/core/util"
)

func main() {
	preseedPath := pflag.String("preseed", "", "path to a TOML preseed file with pre-answered prompts")
	logLevel := pflag.String("log-level", "info", "log level (debug, info, warn, error)")
	pflag.Parse()

	log := logrus.New()

	preseed := strata.Preseed{}
	if *preseedPath != "" {
		loaded, err := strata.LoadPreseed(*preseedPath)
		if err != nil {
			log.Error(err)
			os.Exit(2)
		}
		preseed = *loaded
	}

	if preseed.LogLevel != "" {
		*logLevel = preseed.LogLevel
	}
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		log.Errorf("invalid log level %q: %v", *logLevel, err)
		os.Exit(2)
	}
	log.SetLevel(level)

	if os.Geteuid() != 0 {
		log.Error("this installer must run as root")
		os.Exit(2)
	}

	pipeline := strata.NewPipeline(util.ShellRunner{}, input.NewTerminal(), log, preseed)
	if err := pipeline.Run(); err != nil {
		if errors.Is(err, strata.ErrNoDevice) {
			log.Error(err)
			os.Exit(1)
		}
		log.Error(err)
		os.Exit(2)
	}
}
