// Package boot carries the shared startup path for services: flag parsing
// with environment variable overrides, logging setup, a management HTTP
// server with a health check, and metrics reporting.
package boot

import (
	"flag"
	"net/http"
	_ "net/http/pprof" // imported for side-effect of registering HTTP handlers
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/bitmap357/hospital-test/environment"
	"github.com/bitmap357/hospital-test/libs/awsutil"
	"github.com/bitmap357/hospital-test/libs/golog"
	"github.com/samuel/go-metrics/metrics"
	"github.com/samuel/go-metrics/reporter"
)

type Service struct {
	MetricsRegistry metrics.Registry

	flags struct {
		debug           bool
		env             string
		managementAddr  string
		libratoUsername string
		libratoToken    string
		awsAccessKey    string
		awsSecretKey    string
		awsToken        string
		awsRegion       string
		jsonLogs        bool
	}
	name           string
	awsSessionOnce sync.Once
	awsSession     *session.Session
	awsSessionErr  error
}

// NewService should be called at the start of a service. It parses flags and sets up a management server.
func NewService(name string, healthCheckHandler http.Handler) *Service {
	svc := &Service{name: name}
	flag.BoolVar(&svc.flags.debug, "debug", false, "Enable debug logging")
	flag.StringVar(&svc.flags.env, "env", "", "Execution environment")
	flag.StringVar(&svc.flags.managementAddr, "management_addr", ":9000", "`host:port` of management HTTP server")
	flag.StringVar(&svc.flags.libratoUsername, "librato_username", "", "Librato metrics username")
	flag.StringVar(&svc.flags.libratoToken, "librato_token", "", "Librato metrics token")
	flag.StringVar(&svc.flags.awsAccessKey, "aws_access_key", "", "Access `key` for AWS")
	flag.StringVar(&svc.flags.awsSecretKey, "aws_secret_key", "", "Secret `key` for AWS")
	flag.StringVar(&svc.flags.awsToken, "aws_token", "", "Temporary access `token` for AWS")
	flag.StringVar(&svc.flags.awsRegion, "aws_region", "us-east-1", "AWS `region`")
	flag.BoolVar(&svc.flags.jsonLogs, "json_logs", false, "Enable JSON formatted logs")

	ParseFlags(strings.ToUpper(name) + "_")

	if svc.flags.env == "" {
		golog.Fatalf("-env flag required")
	}
	environment.SetCurrent(svc.flags.env)

	if svc.flags.jsonLogs {
		golog.Default().SetHandler(golog.WriterHandler(os.Stderr, golog.JSONFormatter()))
	}

	if svc.flags.debug {
		golog.Default().SetLevel(golog.DEBUG)
	}

	http.Handle("/health-check", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if healthCheckHandler != nil {
			healthCheckHandler.ServeHTTP(w, r)
			return
		}
		w.Write([]byte("OK"))
	}))

	// Start management server
	go func() {
		golog.Fatalf("%s", http.ListenAndServe(svc.flags.managementAddr, nil))
	}()

	metricsRegistry := metrics.NewRegistry()
	svc.MetricsRegistry = metricsRegistry.Scope("svc." + name)

	metricsRegistry.Add("runtime", metrics.RuntimeMetrics)

	if svc.flags.libratoUsername != "" && svc.flags.libratoToken != "" {
		source := svc.flags.env + "-" + name
		statsReporter := reporter.NewLibratoReporter(
			metricsRegistry, time.Minute, true, svc.flags.libratoUsername, svc.flags.libratoToken, source)
		statsReporter.Start()
	}

	return svc
}

// ParseFlags parses command line flags letting an environment variable,
// named by upper-casing the flag name and prepending the prefix, provide
// a default for any flag not set on the command line.
func ParseFlags(prefix string) {
	flag.Parse()
	set := make(map[string]struct{})
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = struct{}{}
	})
	flag.VisitAll(func(f *flag.Flag) {
		if _, ok := set[f.Name]; ok {
			return
		}
		name := prefix + strings.ToUpper(strings.Replace(f.Name, ".", "_", -1))
		if v := os.Getenv(name); v != "" {
			if err := f.Value.Set(v); err != nil {
				golog.Fatalf("Invalid value for flag %s from environment %s: %s", f.Name, name, err)
			}
		}
	})
}

// AWSSession returns an AWS session.
func (svc *Service) AWSSession() (*session.Session, error) {
	svc.awsSessionOnce.Do(func() {
		awsConfig, err := awsutil.Config(svc.flags.awsRegion, svc.flags.awsAccessKey, svc.flags.awsSecretKey, svc.flags.awsToken)
		if err != nil {
			svc.awsSessionErr = err
			return
		}
		svc.awsSession = session.New(awsConfig)
	})
	return svc.awsSession, svc.awsSessionErr
}

// Environment returns the execution environment passed at startup.
func (svc *Service) Environment() string {
	return svc.flags.env
}

// WaitForTermination waits for an INT or TERM signal.
func WaitForTermination() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	sig := <-ch
	golog.Infof("Quitting due to signal %s", sig.String())
}
