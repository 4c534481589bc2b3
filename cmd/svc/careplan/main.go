package main

import (
	"encoding/hex"
	"flag"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/bitmap357/hospital-test/boot"
	"github.com/bitmap357/hospital-test/cmd/svc/careplan/internal/dal"
	"github.com/bitmap357/hospital-test/cmd/svc/careplan/internal/extraction"
	"github.com/bitmap357/hospital-test/cmd/svc/careplan/internal/handlers"
	"github.com/bitmap357/hospital-test/cmd/svc/careplan/internal/notify"
	"github.com/bitmap357/hospital-test/cmd/svc/careplan/internal/service"
	"github.com/bitmap357/hospital-test/cmd/svc/careplan/internal/workers"
	"github.com/bitmap357/hospital-test/libs/clock"
	"github.com/bitmap357/hospital-test/libs/crypt"
	"github.com/bitmap357/hospital-test/libs/dbutil"
	"github.com/bitmap357/hospital-test/libs/golog"
)

var config struct {
	dbHost              string
	dbPort              int
	dbName              string
	dbUser              string
	dbPassword          string
	dbCACert            string
	dbTLSCert           string
	dbTLSKey            string
	dbTLS               bool
	listenAddr          string
	sqsReminderQueueURL string
	contentKey          string
	extractionAPIKey    string
	extractionModel     string
	extractionBaseURL   string
}

func init() {
	flag.StringVar(&config.dbHost, "db_host", "localhost", "the host at which we should attempt to connect to the database")
	flag.IntVar(&config.dbPort, "db_port", 3306, "the port on which we should attempt to connect to the database")
	flag.StringVar(&config.dbName, "db_name", "careplan", "the name of the database which we should connect to")
	flag.StringVar(&config.dbUser, "db_user", "careplan", "the name of the user we should connect to the database as")
	flag.StringVar(&config.dbPassword, "db_password", "careplan", "the password we should use when connecting to the database")
	flag.StringVar(&config.dbCACert, "db_ca_cert", "", "the ca cert to use when connecting to the database")
	flag.StringVar(&config.dbTLSCert, "db_tls_cert", "", "the tls cert to use when connecting to the database")
	flag.StringVar(&config.dbTLSKey, "db_tls_key", "", "the tls key to use when connecting to the database")
	flag.BoolVar(&config.dbTLS, "db_tls", false, "enable TLS for the database connection")
	flag.StringVar(&config.listenAddr, "listen_addr", ":8080", "host:port to listen on for API requests")
	flag.StringVar(&config.sqsReminderQueueURL, "sqs_reminder_queue_url", "", "the sqs url for outgoing step reminder notifications")
	flag.StringVar(&config.contentKey, "content_key", "", "hex encoded 32 byte key used to seal note content")
	flag.StringVar(&config.extractionAPIKey, "extraction_api_key", "", "API key for the extraction model endpoint")
	flag.StringVar(&config.extractionModel, "extraction_model", "gpt-4o-mini", "model used to extract follow-up items from notes")
	flag.StringVar(&config.extractionBaseURL, "extraction_base_url", "", "base URL of the extraction model endpoint (production endpoint when empty)")
}

func main() {
	bootSvc := boot.NewService("careplan", nil)

	golog.Infof("Initializing database connection on %s:%d, user: %s, db: %s...", config.dbHost, config.dbPort, config.dbUser, config.dbName)
	db, err := dbutil.ConnectMySQL(&dbutil.DBConfig{
		Host:      config.dbHost,
		Port:      config.dbPort,
		Name:      config.dbName,
		User:      config.dbUser,
		Password:  config.dbPassword,
		CACert:    config.dbCACert,
		TLSCert:   config.dbTLSCert,
		TLSKey:    config.dbTLSKey,
		EnableTLS: config.dbTLS,
	})
	if err != nil {
		golog.Fatalf("failed to initialize db connection: %s", err)
	}

	key, err := contentKey(config.contentKey)
	if err != nil {
		golog.Fatalf("Invalid content key: %s", err)
	}
	box, err := crypt.NewAESGCM(key)
	if err != nil {
		golog.Fatalf("Failed to initialize note content encryption: %s", err)
	}

	if config.sqsReminderQueueURL == "" {
		golog.Fatalf("SQS reminder queue not configured")
	}
	awsSession, err := bootSvc.AWSSession()
	if err != nil {
		golog.Fatalf("Failed to create AWS session: %s", err)
	}
	publisher := notify.NewPublisher(sqs.New(awsSession), config.sqsReminderQueueURL)

	clk := clock.New()
	extractor := extraction.NewClient(
		config.extractionAPIKey, config.extractionModel, config.extractionBaseURL,
		clk, bootSvc.MetricsRegistry.Scope("extraction"))

	dl := dal.New(db)
	svc := service.New(dl, extractor, box, clk)

	w := workers.New(dl, publisher, clk, bootSvc.MetricsRegistry.Scope("workers"))
	w.Start()
	defer w.Stop(time.Second * 5)

	go func() {
		golog.Infof("Listening on %s...", config.listenAddr)
		golog.Fatalf("%s", http.ListenAndServe(config.listenAddr, handlers.New(svc)))
	}()

	boot.WaitForTermination()
}

// contentKey decodes the configured key, generating an ephemeral one when
// the flag is absent. Notes sealed under an ephemeral key become unreadable
// once the process exits.
func contentKey(hexKey string) ([]byte, error) {
	if hexKey == "" {
		golog.Warningf("No content key configured, generating an ephemeral key. Notes sealed under it will be unreadable after restart.")
		return crypt.GenerateKey()
	}
	return hex.DecodeString(hexKey)
}
