package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/cappuccinotm/azdohooks/app/cmd"
	"github.com/cappuccinotm/azdohooks/app/errs"
	"github.com/cappuccinotm/azdohooks/pkg/logx"
	"github.com/fatih/color"
	"github.com/hashicorp/logutils"
	"github.com/jessevdk/go-flags"
)

var version = "unknown"

func main() {
	var opts cmd.Run
	p := flags.NewParser(&opts, flags.Default)
	if _, err := p.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	setupLog(opts.Verbose)
	opts.SetCommon(cmd.CommonOpts{Version: version, Logger: logx.Std()})

	if err := opts.Execute(nil); err != nil {
		renderError(err)
		os.Exit(1)
	}
}

// renderError maps the flow errors to the messages shown to the user.
func renderError(err error) {
	var azErr errs.ErrAzureDevOpsAPI
	var ddErr errs.ErrDatadogAPI

	switch {
	case errors.Is(err, errs.ErrAborted):
		fmt.Println("Exiting.")
	case errors.As(err, &azErr) && azErr.IsCredential():
		color.Red("Invalid Azure DevOps token! Please check that your Azure DevOps token " +
			"is valid and has admin access to the organization.")
	case errors.As(err, &azErr):
		color.Red("%d error from Azure DevOps API: %s", azErr.ResponseStatus, azErr.Body)
	case errors.As(err, &ddErr):
		color.Red("Invalid Datadog API key! Please check your Datadog site and API key.\n%d %s",
			ddErr.ResponseStatus, ddErr.Body)
	default:
		log.Printf("[ERROR] failed to execute command %+v", err)
	}
}

func setupLog(dbg bool) {
	filter := &logutils.LevelFilter{
		Levels:   []logutils.LogLevel{"DEBUG", "INFO", "WARN", "ERROR"},
		MinLevel: "INFO",
		Writer:   os.Stdout,
	}

	logFlags := log.Ldate | log.Ltime

	if dbg {
		logFlags = log.Ldate | log.Ltime | log.Lmicroseconds
		filter.MinLevel = "DEBUG"
	}

	log.SetFlags(logFlags)
	log.SetOutput(filter)
}
