package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"tavern.club/faro/game"
	"tavern.club/faro/logging"
	"tavern.club/faro/natspub"
	"tavern.club/faro/rest"
	"tavern.club/faro/util"
	"tavern.club/faro/ws"
)

var mainLogger = logging.GetZeroLogger("main::main", nil)

var timingsFile *string

func init() {
	timingsFile = flag.String("timings", "", "YAML file containing stage timings")
}

func main() {
	err := run()
	if err != nil {
		mainLogger.Error().Msg(err.Error())
		os.Exit(1)
	}
}

func run() error {
	logLevel := util.Env.GetZeroLogLogLevel()
	fmt.Printf("Setting log level to %s\n", logLevel)
	zerolog.SetGlobalLevel(logLevel)
	flag.Parse()

	timings := game.DefaultTimings()
	timingsPath := *timingsFile
	if timingsPath == "" {
		timingsPath = util.Env.GetTimingsFile()
	}
	if timingsPath != "" {
		var err error
		timings, err = game.ParseTimingsConfig(timingsPath)
		if err != nil {
			return err
		}
	}

	stats, err := createStatsTracker()
	if err != nil {
		return err
	}

	var publisher game.EventPublisher
	if natsURL := util.Env.GetNatsURL(); natsURL != "" {
		natsPublisher, err := natspub.NewPublisher(natsURL)
		if err != nil {
			return err
		}
		publisher = natsPublisher
	} else {
		mainLogger.Info().Msg("No NATS url configured, table events stay in-process")
		publisher = game.NewNoopEventPublisher()
	}

	manager := game.NewManager(timings, stats, publisher, util.Env.GetAdminAddrs(), util.Env.GetRakeBps())

	go rest.RunRestServer(manager, util.Env.GetRestPort())

	return ws.Run(manager, util.Env.GetWSPort())
}

func createStatsTracker() (game.StatsTracker, error) {
	method := util.Env.GetPersistMethod()
	switch method {
	case "memory":
		return game.NewMemoryStatsTracker(), nil
	case "redis":
		redisURL := fmt.Sprintf("%s:%d", util.Env.GetRedisHost(), util.Env.GetRedisPort())
		mainLogger.Info().Msgf("Using redis at %s for lifetime stats", redisURL)
		return game.NewRedisStatsTracker(redisURL, util.Env.GetRedisPW(), util.Env.GetRedisDB()), nil
	default:
		return nil, fmt.Errorf("Unknown persist method [%s]", method)
	}
}
