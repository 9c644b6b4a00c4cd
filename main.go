package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"chalkpad/internal/api"
	"chalkpad/internal/board"
	"chalkpad/internal/config"
	chalknet "chalkpad/internal/net"
	"chalkpad/internal/ui"
)

const browseTimeout = 3 * time.Second

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	if len(os.Args) > 1 && os.Args[1] == "find" {
		if err := runFind(); err != nil {
			log.Fatalf("[MDNS] %v", err)
		}
		return
	}
	runHost(cfg)
}

// runFind lists the boards advertised on the local network.
func runFind() error {
	found := 0
	err := chalknet.Browse(browseTimeout, func(name, addr string) {
		found++
		fmt.Printf("%s\thttp://%s\n", name, addr)
	})
	if err != nil {
		return err
	}
	if found == 0 {
		fmt.Println("no boards found")
	}
	return nil
}

func runHost(cfg *config.Config) {
	log.Println("Starting ChalkPad")
	b := board.NewController(ui.PenFromConfig(cfg.Pen))
	b.SetFormat(cfg.CaptureFormat)

	opts := ui.Options{
		Title:          cfg.ServiceName,
		Width:          cfg.WindowWidth,
		Height:         cfg.WindowHeight,
		CaptureQuality: cfg.CaptureQuality,
	}

	var shutdown []func()
	if cfg.ServeHTTP {
		e := api.NewServer(b, api.CaptureDefaults{Format: cfg.CaptureFormat, Quality: cfg.CaptureQuality},
			chalknet.NewInputServer(b), log.StandardLogger())
		go func() {
			if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("[HTTP] server stopped: %v", err)
			}
		}()
		shutdown = append(shutdown, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := e.Shutdown(ctx); err != nil {
				log.Warnf("[HTTP] shutdown: %v", err)
			}
		})

		link, port, err := chalknet.ShareLink(chalknet.GetOutgoingIP(), cfg.HTTPAddr)
		if err != nil {
			log.Warnf("[HTTP] no share link: %v", err)
		} else {
			opts.ShareLink = link
		}

		if cfg.Advertise && port > 0 {
			srv, err := chalknet.Advertise(cfg.ServiceName, port)
			if err != nil {
				log.Warnf("[MDNS] advertise failed: %v", err)
			} else {
				shutdown = append(shutdown, func() { _ = srv.Shutdown() })
			}
		}
	}

	ui.RunApp(b, opts)

	for i := len(shutdown) - 1; i >= 0; i-- {
		shutdown[i]()
	}
}
