package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/config"
	"github.com/roronoazoero/ML-Project-F1-prediction-2025/store"
)

var (
	msgsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "f1features_collector_messages_received_total",
		Help: "Total number of MQTT messages received by collector.",
	})
	recordsStored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "f1features_collector_records_stored_total",
		Help: "Session records inserted into the store, by kind.",
	}, []string{"kind"})
	msgsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "f1features_collector_messages_failed_total",
		Help: "Total number of messages rejected or failed to store.",
	})
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbPool, err := pgxpool.New(ctx, cfg.Database.GetURL())
	if err != nil {
		log.Fatalf("db pool init failed: %v", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatalf("db ping failed: %v", err)
	}
	sessions := store.NewPostgres(dbPool)
	if err := sessions.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema setup failed: %v", err)
	}

	go serveHTTP(cfg.Metrics.Addr)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTT.URL)
	opts.SetClientID("f1features-collector-" + time.Now().Format("20060102150405"))
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetDefaultPublishHandler(func(client mqtt.Client, message mqtt.Message) {
		processMessage(ctx, sessions, message.Payload())
	})
	opts.OnConnect = func(client mqtt.Client) {
		token := client.Subscribe(cfg.MQTT.Topic, 1, nil)
		token.Wait()
		if token.Error() != nil {
			log.Printf("mqtt subscribe error: %v", token.Error())
			return
		}
		log.Printf("collector subscribed to topic=%s", cfg.MQTT.Topic)
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Printf("mqtt connection lost: %v", err)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if token.Error() != nil {
		log.Fatalf("mqtt connection failed: %v", token.Error())
	}

	log.Printf("collector running, mqtt=%s db=ok metrics=%s", cfg.MQTT.URL, cfg.Metrics.Addr)

	<-ctx.Done()
	log.Printf("collector shutting down")
	client.Disconnect(250)
}

func serveHTTP(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("metrics server listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("metrics server failed: %v", err)
	}
}
