package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/partnerhub-backend/internal/app"
	"github.com/yungbote/partnerhub-backend/internal/modules/leads"
	"github.com/yungbote/partnerhub-backend/internal/platform/shutdown"
)

type idList []string

func (l *idList) String() string { return strings.Join(*l, ",") }

func (l *idList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if s := strings.TrimSpace(part); s != "" {
			*l = append(*l, s)
		}
	}
	return nil
}

func main() {
	var ids idList
	flag.Var(&ids, "id", "CRM object id to re-sync (repeatable or comma-separated)")
	objectType := flag.String("type", "contacts", "CRM object type (contacts, 0-1, ...)")
	dryRun := flag.Bool("dry-run", false, "fetch and normalize only; print the row without writing")
	concurrency := flag.Int("concurrency", 4, "max parallel syncs")
	flag.Parse()

	if len(ids) == 0 {
		fmt.Fprintln(os.Stderr, "usage: replay_lead -id <objectId> [-id ...] [-type contacts] [-dry-run]")
		os.Exit(2)
	}
	if *concurrency < 1 {
		*concurrency = 1
	}

	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	a, err := app.NewIngestion(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	var (
		mu     sync.Mutex
		failed int
		enc    = json.NewEncoder(os.Stdout)
	)
	enc.SetIndent("", "  ")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*concurrency)
	for _, id := range ids {
		g.Go(func() error {
			out, err := a.Modules.Leads.Sync(gctx, leads.SyncInput{
				ObjectType: *objectType,
				ObjectID:   id,
				DryRun:     *dryRun,
				Trigger:    "replay",
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// One bad id should not stop the rest of the batch.
				failed++
				a.Log.Error("Replay failed", "object_id", id, "error", err)
				return nil
			}
			return enc.Encode(out.Lead)
		})
	}
	if err := g.Wait(); err != nil {
		a.Log.Error("Replay output failed", "error", err)
		a.Close()
		os.Exit(1)
	}
	if failed > 0 {
		a.Log.Warn("Replay finished with failures", "failed", failed, "total", len(ids))
		a.Close()
		os.Exit(1)
	}
	a.Log.Info("Replay finished", "total", len(ids), "dry_run", *dryRun)
}
