package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-lancers-notifier/internal/app"
	"go-lancers-notifier/internal/config"
	"go-lancers-notifier/internal/logger"
)

func main() {
	cfgFile := flag.String("config", "", "a config file (default is "+config.DefaultPath+")")
	debug := flag.Bool("debug", false, "verbose/debug output")
	flag.Parse()

	log, err := logger.New(true, *debug)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}
	// the server only previews; notifications go through the cli
	cfg.Teams.DryRun = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("initializing", zap.Error(err))
	}
	defer a.Close()

	if !*debug {
		gin.SetMode(gin.ReleaseMode)
	}
	h := &handlers{previewer: a, records: a.Store()}
	if repo := a.Repository(); repo != nil {
		h.runs = repo
	}

	addr := cfg.Server.Addr
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	srv := &http.Server{Addr: addr, Handler: newRouter(h, log)}

	go func() {
		log.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}
