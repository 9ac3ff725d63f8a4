package main

import (
	"flag"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	errors "github.com/zgalor/weberr"

	"github.com/opsglue/jira-module/pkg/client/jira"
	"github.com/opsglue/jira-module/pkg/module"
)

func main() {
	defaultsFile := flag.String("defaults", "",
		"optional YAML file with connection defaults")
	flag.Parse()

	// stdout is reserved for the host protocol; diagnostics go to stderr.
	logger := zerolog.New(os.Stderr).With().
		Timestamp().
		Str("invocation_id", uuid.New().String()).
		Logger()

	if flag.NArg() != 1 {
		fail(logger, errors.BadRequest.UserErrorf("usage: jira-module [flags] <args-file>"))
	}

	changed, meta, err := run(flag.Arg(0), *defaultsFile, logger)
	if err != nil {
		fail(logger, err)
	}
	if err := module.ExitJSON(os.Stdout, changed, meta); err != nil {
		logger.Error().Err(err).Msg("cannot write result")
		os.Exit(1)
	}
}

func run(argsFile, defaultsFile string, logger zerolog.Logger) (bool, map[string]interface{}, error) {
	if err := jira.RegisterClientMetrics(); err != nil {
		return false, nil, err
	}

	params, err := module.ParseParams(argsFile)
	if err != nil {
		return false, nil, err
	}
	if defaultsFile != "" {
		if err := params.ApplyDefaults(defaultsFile); err != nil {
			return false, nil, err
		}
	}

	request, err := params.ToRequest()
	if err != nil {
		return false, nil, err
	}
	logger.Info().
		Str("operation", string(request.Operation)).
		Str("issue", request.Issue).
		Msg("dispatching operation")

	client, err := jira.NewClient(params.ClientConfig())
	if err != nil {
		return false, nil, err
	}
	return client.Execute(request)
}

func fail(logger zerolog.Logger, err error) {
	logger.Error().Err(err).Msg("invocation failed")
	_ = module.FailJSON(os.Stdout, err)
	os.Exit(1)
}
