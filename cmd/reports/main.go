// Command reports regenerates stored PDF reports for every detection, or for
// a single detection with -id.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/iris/internal/api"
	"github.com/JaimeStill/iris/internal/config"
	"github.com/JaimeStill/iris/internal/detections"
	"github.com/JaimeStill/iris/internal/infrastructure"
	"github.com/JaimeStill/iris/pkg/pagination"
)

func main() {
	var (
		id          = flag.String("id", "", "Regenerate a single detection's report")
		concurrency = flag.Int("concurrency", 4, "Number of reports rendered at once")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatal("load .env failed:", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		log.Fatal("infrastructure init failed:", err)
	}
	if err := infra.Start(); err != nil {
		log.Fatal("infrastructure start failed:", err)
	}
	infra.Lifecycle.WaitForStartup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runtime := api.NewRuntime(cfg, infra)
	sys := api.NewDomain(runtime, cfg.Chat.HistoryWindow, cfg.Chat.ContextLimit).Detections

	ids := []string{*id}
	if *id == "" {
		ids, err = detectionIDs(ctx, sys, cfg.API.Pagination)
		if err != nil {
			log.Fatal("list detections failed:", err)
		}
	}

	s := regenerate(ctx, sys, ids, *concurrency)
	for _, f := range s.failed {
		fmt.Printf("FAIL %s: %v\n", f.id, f.err)
	}
	fmt.Printf("regenerated %d of %d reports, %d failed\n", s.succeeded, len(ids), len(s.failed))

	if err := infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		log.Println("shutdown:", err)
	}
	if len(s.failed) > 0 {
		os.Exit(1)
	}
}

type failure struct {
	id  string
	err error
}

type summary struct {
	mu        sync.Mutex
	succeeded int
	failed    []failure
}

func (s *summary) record(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failed = append(s.failed, failure{id: id, err: err})
		return
	}
	s.succeeded++
}

// regenerate renders each report with at most limit in flight. A failed
// report is recorded and never cancels the rest.
func regenerate(ctx context.Context, sys detections.System, ids []string, limit int) *summary {
	s := &summary{}

	var g errgroup.Group
	g.SetLimit(max(limit, 1))

	for _, id := range ids {
		if ctx.Err() != nil {
			s.record(id, ctx.Err())
			continue
		}
		g.Go(func() error {
			_, err := sys.Regenerate(ctx, id)
			s.record(id, err)
			return nil
		})
	}

	g.Wait()
	return s
}

func detectionIDs(ctx context.Context, sys detections.System, cfg pagination.Config) ([]string, error) {
	var ids []string
	page := pagination.PageRequest{Page: 1, PageSize: cfg.MaxPageSize}

	for {
		result, err := sys.List(ctx, page, detections.Filters{})
		if err != nil {
			return nil, err
		}
		for _, d := range result.Data {
			ids = append(ids, d.ID)
		}
		if page.Page >= result.TotalPages {
			return ids, nil
		}
		page.Page++
	}
}
