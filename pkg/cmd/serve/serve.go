package serve

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // by design
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/spf13/cobra"
	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mpapenbr/f1-visual-simulator/log"
	"github.com/mpapenbr/f1-visual-simulator/pkg/cmd/util"
	"github.com/mpapenbr/f1-visual-simulator/pkg/config"
	"github.com/mpapenbr/f1-visual-simulator/pkg/endpoints/public"
	"github.com/mpapenbr/f1-visual-simulator/pkg/endpoints/raceapi"
	"github.com/mpapenbr/f1-visual-simulator/pkg/publish/nats"
	"github.com/mpapenbr/f1-visual-simulator/pkg/race"
	"github.com/mpapenbr/f1-visual-simulator/pkg/sim"
	"github.com/mpapenbr/f1-visual-simulator/pkg/utils"
	"github.com/mpapenbr/f1-visual-simulator/pkg/utils/broadcast"
)

const lapBufferSize = 16

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "starts the simulator server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer(cmd.Context())
		},
	}
	cmd.Flags().IntVarP(&config.Port,
		"port",
		"p",
		3000,
		"HTTP server listen port")
	cmd.Flags().StringVar(&config.StaticDir,
		"static-dir",
		"build",
		"directory containing the frontend bundle")
	cmd.Flags().IntVar(&config.FrameRate,
		"frame-rate",
		race.DefaultFrameRate,
		"frames per second used to advance the race")
	cmd.Flags().StringVar(&config.NatsURL,
		"nats-url",
		"",
		"URL of the NATS server lap updates are published to (empty: disabled)")
	cmd.Flags().StringVar(&config.NatsSubjectPrefix,
		"nats-subject-prefix",
		nats.DefaultSubjectPrefix,
		"prefix of the NATS subjects")
	cmd.Flags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"enables telemetry")
	cmd.Flags().StringVar(&config.TelemetryEndpoint,
		"telemetry-endpoint",
		"localhost:4317",
		"Endpoint that receives open telemetry data (use stdout to print)")
	cmd.Flags().IntVar(&config.ProfilingPort,
		"profiling-port",
		0,
		"port to use for providing profiling data")
	return cmd
}

//nolint:funlen // by design
func startServer(ctx context.Context) error {
	if _, err := util.SetupLogger(); err != nil {
		return err
	}
	log.Debug("Config:",
		log.Int("port", config.Port),
		log.String("staticDir", config.StaticDir),
		log.Int("frameRate", config.FrameRate),
		log.String("natsUrl", config.NatsURL),
		log.String("raceConfig", config.RaceConfigFile),
	)

	if config.ProfilingPort > 0 {
		log.Info("Starting profiling server on port", log.Int("port", config.ProfilingPort))
		go func() {
			//nolint:gosec // by design
			err := http.ListenAndServe(
				fmt.Sprintf("localhost:%d", config.ProfilingPort),
				nil)
			if err != nil {
				log.Error("Profiling server stopped", log.ErrorField(err))
			}
		}()
	}

	waitForRequiredServices()

	var telemetry *config.Telemetry
	if config.EnableTelemetry {
		log.Info("Enabling telemetry")
		var err error
		if telemetry, err = config.SetupTelemetry(ctx); err != nil {
			log.Warn("Could not setup telemetry", log.ErrorField(err))
		}
		err = otlpruntime.Start(otlpruntime.WithMinimumReadMemStatsInterval(time.Second))
		if err != nil {
			log.Warn("Could not start runtime metrics", log.ErrorField(err))
		}
	}

	raceCfg, err := config.LoadRaceConfig(config.RaceConfigFile)
	if err != nil {
		return err
	}

	lapChan := make(chan race.Snapshot, lapBufferSize)
	bcst := broadcast.NewBroadcastServer("laps", lapChan)
	ctrlOpts := []race.ControllerOption{
		race.WithRaceConfig(raceCfg),
		race.WithLapListener(race.ChannelListener(lapChan)),
	}
	if config.Seed != 0 {
		ctrlOpts = append(ctrlOpts, race.WithRandom(sim.NewSeeded(uint64(config.Seed))))
	}
	ctrl := race.NewController(ctrlOpts...)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go race.NewRunner(ctrl, race.WithFrameRate(config.FrameRate)).Run(runCtx)

	if config.NatsURL != "" {
		conn, err := nats.Connect(config.NatsURL, log.Default().Named("nats"))
		if err != nil {
			return err
		}
		defer conn.Close()
		pub := nats.NewPublisher(conn, nats.WithSubjectPrefix(config.NatsSubjectPrefix))
		sub := bcst.Subscribe()
		go pub.Run(runCtx, sub)
		log.Info("Publishing laps to NATS",
			log.String("url", config.NatsURL),
			log.String("subject", pub.LapSubject()))
	}

	//nolint:gosec // by design
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Port),
		Handler: newHandler(ctrl, bcst, public.StaticFS(config.StaticDir)),
	}
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", log.String("addr", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()
	setupGoRoutinesDump()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case v := <-sigChan:
		log.Debug("Got signal ", log.Any("signal", v))
	case err := <-errChan:
		if err != nil {
			log.Error("server could not be started", log.ErrorField(err))
			return err
		}
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("server shutdown", log.ErrorField(err))
	}
	bcst.Close()
	if telemetry != nil {
		telemetry.Shutdown()
	}
	log.Info("Server terminated")
	return nil
}

//nolint:whitespace // can't make both editor and linter happy
func newHandler(
	ctrl *race.Controller,
	bcst broadcast.BroadcastServer[race.Snapshot],
	static fs.FS,
) http.Handler {
	mux := http.NewServeMux()
	raceapi.NewRaceManager(ctrl, raceapi.WithBroadcast(bcst)).Register(mux)
	public.NewPublicManager(public.WithStaticFS(static)).Register(mux)
	return h2c.NewHandler(newCORS().Handler(mux), &http2.Server{})
}

func setupGoRoutinesDump() {
	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGQUIT)
		buf := make([]byte, 1<<20)
		for {
			<-sigs
			stacklen := runtime.Stack(buf, true)
			fmt.Printf("=== received SIGQUIT ===\n*** goroutine dump...\n%s\n*** end\n",
				buf[:stacklen])
		}
	}()
}

func waitForRequiredServices() {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}

	wg := sync.WaitGroup{}
	checkTCP := func(addr string) {
		defer wg.Done()
		if err := utils.WaitForTCP(addr, timeout); err != nil {
			log.Fatal("required services not ready", log.ErrorField(err))
		}
	}

	if natsAddr := utils.ExtractFromNatsURL(config.NatsURL); natsAddr != "" {
		wg.Add(1)
		go checkTCP(natsAddr)
	}
	log.Debug("Waiting for connection checks to return")
	wg.Wait()
	log.Debug("Required services are available")
}

func newCORS() *cors.Cors {
	// the frontend may be served from a dev server on another port
	return cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{
			"Accept",
			"Accept-Encoding",
			"Content-Encoding",
		},
		MaxAge: int(2 * time.Hour / time.Second),
	})
}
