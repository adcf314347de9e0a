package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"text2phenotype.com/postag/api"
	"text2phenotype.com/postag/corpus"
	"text2phenotype.com/postag/logger"
	"text2phenotype.com/postag/pipeline"
	"text2phenotype.com/postag/s3client"
	"text2phenotype.com/postag/types"
	"text2phenotype.com/postag/worker"
)

type Config struct {
	ConfigPath    string `envconfig:"POSTAG_CONFIG_PATH" required:"true"`
	CorpusRoot    string `envconfig:"POSTAG_CORPUS_ROOT" default:"corpus"`
	CorpusSource  string `envconfig:"POSTAG_CORPUS_SOURCE" default:"file"`
	RestAPIActive bool   `envconfig:"POSTAG_REST_API_ACTIVE" default:"false"`
	RestAPIPort   string `envconfig:"POSTAG_REST_API_PORT" default:"10000"`
	WorkerActive  bool   `envconfig:"POSTAG_WORKER_ACTIVE" default:"true"`
}

const (
	pipelineStartMaxRetries = 5
	sourceS3                = "s3"
)

func main() {
	logger.SetupLogging()
	posLogger := logger.NewLogger("Main")
	fatalErrLogger := posLogger.Fatal().Caller()
	configName := flag.String("config", "", "tag one split with the named configuration and exit")
	split := flag.String("split", "", "split to tag (defaults to the configuration's split)")
	subset := flag.Int("subset", corpus.AllDocuments, "number of leading documents to tag, negative for all (defaults to the configuration's subset)")
	supervise := flag.Bool("supervise", false, "run as a child process and report its panics as log records")
	flag.Parse()
	if *supervise {
		logger.Supervise(os.Args[0], withoutFlag(os.Args[1:], "supervise")...)
	}
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		fatalErrLogger.Err(err).Msg("Failed to read environment")
		os.Exit(1)
	}

	var s3Client *s3client.Client
	var source corpus.Source = corpus.FileSource{}
	if config.CorpusSource == sourceS3 {
		client, err := s3client.New()
		if err != nil {
			fatalErrLogger.Err(err).Msg("Failed to create S3 client for corpus")
			os.Exit(1)
		}
		s3Client = client
		source = client
	}

	//Load Pipeline
	pipelineChannel := make(chan pipeline.Pipeline)
	go func() {
		for retry := 0; retry < pipelineStartMaxRetries; retry++ {
			cfgs, err := types.LoadConfigurations(config.ConfigPath)
			if err != nil {
				posLogger.Err(err).Msg("Failed to load configurations. Retrying in 5 sec")
				time.Sleep(5 * time.Second)
				continue
			}
			posLogger.Info().Msgf("Loaded %d configurations", len(cfgs))

			ppln, err := pipeline.New(pipeline.Params{
				CorpusRoot:     config.CorpusRoot,
				Source:         source,
				Configurations: cfgs,
			})
			if err != nil {
				posLogger.Err(err).Msg("Failed to start tagging pipeline. Retrying in 5 sec")
				time.Sleep(5 * time.Second)
				continue
			}
			posLogger.Info().Msg("Pipeline loaded")
			pipelineChannel <- ppln
			return
		}
		fatalErrLogger.Msg("Could not start pipeline after 5 retries, exiting")
		os.Exit(1)
	}()

	// block until pipeline loads
	ppln := <-pipelineChannel

	if *configName != "" {
		if err := runOnce(os.Stdout, ppln, *configName, *split, flagInt(flag.CommandLine, "subset", *subset)); err != nil {
			fatalErrLogger.Err(err).Msg("Tagging failed")
			os.Exit(1)
		}
		return
	}

	if config.RestAPIActive {
		serve := func() {
			posLogger.Info().Msg("Starting API service")
			apiRequest := &api.Request{
				Pipeline: ppln,
			}
			http.HandleFunc("/", apiRequest.ProcessData)
			host := fmt.Sprintf(":%s", config.RestAPIPort)
			posLogger.Info().Msgf("REST API on %s", host)
			err := http.ListenAndServe(host, nil)
			fatalErrLogger.Err(err).Msg("REST API stopped with error")
		}
		if !config.WorkerActive {
			serve()
			return
		}
		go serve()
	}

	if !config.WorkerActive {
		posLogger.Info().Msg("Neither worker nor REST API is active, exiting")
		return
	}

	posLogger.Info().Msg("Start tagging Worker")
	for {
		rmqWorker, err := worker.New(ppln, s3Client)
		if err != nil {
			posLogger.Fatal().Err(err).Msg("Could not initialize RMQ worker")
			os.Exit(1)
		}
		err = rmqWorker.StartWorker()
		if err != nil {
			posLogger.Err(err).Msg("Worker returned with error. Launching new in 5 seconds")
			time.Sleep(5 * time.Second)
		}
	}
}

// flagInt returns &value when the named flag was given on the command line
// and nil otherwise, so that unset flags leave configuration values alone.
func flagInt(flags *flag.FlagSet, name string, value int) *int {
	var set bool
	flags.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	if !set {
		return nil
	}
	return &value
}

// runOnce tags one split and writes the JSON response to w. A nil subset
// keeps the subset of the configuration.
func runOnce(w io.Writer, ppln pipeline.Pipeline, configName string, split string, subset *int) error {
	resp, err := ppln(pipeline.Request{
		Tid:    "cli",
		Config: configName,
		Split:  split,
		Subset: subset,
	})
	if err != nil {
		return err
	}
	body, err := pipeline.Render(resp)
	if err != nil {
		return err
	}
	_, err = w.Write(append(body, '\n'))
	return err
}

func withoutFlag(args []string, name string) []string {
	kept := make([]string, 0, len(args))
	for _, arg := range args {
		trimmed := strings.TrimLeft(arg, "-")
		if trimmed == name || strings.HasPrefix(trimmed, name+"=") {
			continue
		}
		kept = append(kept, arg)
	}
	return kept
}
