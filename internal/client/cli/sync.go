package cli

import (
	"context"
	"fmt"
)

func (a *App) pending(ctx context.Context) {
	n, err := a.engine.PendingCount(ctx, "")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%d action(s) waiting for sync\n", n)
}

func (a *App) sync(ctx context.Context) {
	if !a.hub.Online() {
		fmt.Println("Offline; queued actions will sync automatically on reconnect")
		return
	}
	stats, err := a.engine.Drain(ctx)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if stats.Coalesced {
		fmt.Println("Sync already in progress")
		return
	}
	fmt.Printf("Synced %d of %d, %d still queued\n", stats.Synced, stats.Attempted, stats.Failed)
}

func (a *App) status(ctx context.Context) {
	n, err := a.engine.PendingCount(ctx, "")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("mode=%s pending=%d api=%s\n", a.modeLabel(), n, a.config.APIBaseURL)
}
