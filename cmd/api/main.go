package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"dealerhub/internal/adapters/dealersvc"
	server "dealerhub/internal/adapters/http_server"
	"dealerhub/internal/adapters/observability"
	redisad "dealerhub/internal/adapters/redis"
	"dealerhub/internal/adapters/sentimentsvc"
	"dealerhub/internal/app"
	"dealerhub/internal/shared"
	mysqlrepo "dealerhub/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	gateway := dealersvc.New(cfg.DealerSvcURL, cfg.RemoteRPS)
	classifier := sentimentsvc.New(cfg.SentimentURL)

	q := app.NewResolver(repo, gateway, classifier, cache, cfg.CacheTTL)
	s := app.NewSubmitter(repo, gateway, classifier, nil)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, S: s, Auth: server.NewTokenAuthorizer(cfg.SessionToken)})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
