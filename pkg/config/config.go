package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	Port              int    // listen port of the HTTP server
	StaticDir         string // directory containing the built frontend
	WaitForServices   string // duration to wait for other services to be ready
	LogLevel          string // sets the log level (zap log level values)
	LogFormat         string // text vs json
	LogFilter         string // zapfilter rules applied on top of the log level
	EnableTelemetry   bool   // enable telemetry
	TelemetryEndpoint string // endpoint for telemetry ("stdout": stdout exporter)
	ProfilingPort     int    // port for profiling
	NatsURL           string // URL of NATS server (empty: publishing disabled)
	NatsSubjectPrefix string // prefix for lap/finished subjects
	FrameRate         int    // frames per second of the race runner
	RaceConfigFile    string // yaml file with a race configuration
	Seed              int64  // seed for the random source (0: random)
)
