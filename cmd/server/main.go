package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auth-control-plane/internal/audit"
	auditrepo "auth-control-plane/internal/audit/repository"
	"auth-control-plane/internal/config"
	"auth-control-plane/internal/db"
	identityrepo "auth-control-plane/internal/identity/repository"
	"auth-control-plane/internal/identity/service"
	mfarepo "auth-control-plane/internal/mfa/repository"
	"auth-control-plane/internal/monitor"
	monitorotel "auth-control-plane/internal/monitor/otel"
	"auth-control-plane/internal/monitor/producer"
	"auth-control-plane/internal/policy/engine"
	"auth-control-plane/internal/security"
	"auth-control-plane/internal/server"
	sessionrepo "auth-control-plane/internal/session/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	privateKey, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
	if err != nil {
		log.Fatalf("signing key: %v", err)
	}
	publicKey, err := security.ParsePublicKey(cfg.JWTPublicKey)
	if err != nil {
		log.Fatalf("verify key: %v", err)
	}
	tokens := security.NewTokenProvider(privateKey, publicKey,
		cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL(), cfg.RefreshTTL())
	hasher := security.NewHasher(cfg.BcryptCost)

	ctx := context.Background()
	providers, err := monitorotel.NewProviders(ctx, cfg.OTLPEndpoint, "auth-control-plane", cfg.Env != "production")
	if err != nil {
		log.Fatalf("otel: %v", err)
	}
	providers.SetGlobal()

	var emitter monitor.Emitter
	kafkaProducer, err := producer.NewKafkaProducer(cfg.MonitorKafkaBrokersList(), cfg.MonitorKafkaTopic)
	if err != nil {
		log.Fatalf("kafka: %v", err)
	}
	if kafkaProducer != nil {
		emitter = kafkaProducer
		log.Printf("monitoring alerts -> kafka topic %s", cfg.MonitorKafkaTopic)
	} else {
		emitter = monitorotel.NewEmitter(providers.LoggerProvider)
	}

	identities := identityrepo.NewPostgresRepository(conn)
	sessions := sessionrepo.NewPostgresRepository(conn)
	challenges := mfarepo.NewPostgresRepository(conn)
	audits := auditrepo.NewPostgresRepository(conn)

	evaluator := engine.NewOPAEvaluator()
	auditLogger := audit.NewLogger(audits, emitter)

	svc := service.NewAuthService(
		identities,
		sessions,
		challenges,
		evaluator,
		auditLogger,
		emitter,
		hasher,
		tokens,
		cfg.ChallengeTTL(),
		cfg.MFARequiredAlways,
	)

	srv := server.New(cfg.HTTPAddr, server.NewHandler(svc, conn, evaluator), cfg.Env)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	if interval := cfg.SweepInterval(); interval > 0 {
		go runSweep(sweepCtx, interval, sessions, challenges)
	}

	go func() {
		log.Printf("http server listening on %s", cfg.HTTPAddr)
		if err := srv.Serve(); err != nil {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}

	// In-flight monitor emissions run detached; give them a moment to land.
	time.Sleep(monitor.ShutdownDrainDuration)
	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			log.Printf("kafka close: %v", err)
		}
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("otel shutdown: %v", err)
	}
	log.Println("stopped")
}

// runSweep periodically marks expired sessions revoked and drops expired MFA
// challenges. Safe to run alongside logins and renewals; both sweeps are
// single conditional statements in Postgres.
func runSweep(ctx context.Context, interval time.Duration, sessions *sessionrepo.PostgresRepository, challenges *mfarepo.PostgresRepository) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := sessions.SweepExpired(ctx); err != nil {
				log.Printf("sweep: sessions: %v", err)
			} else if n > 0 {
				log.Printf("sweep: revoked %d expired sessions", n)
			}
			if n, err := challenges.SweepExpired(ctx); err != nil {
				log.Printf("sweep: challenges: %v", err)
			} else if n > 0 {
				log.Printf("sweep: removed %d expired challenges", n)
			}
		}
	}
}
