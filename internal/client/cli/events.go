package cli

import (
	"context"
	"fmt"
	"os"
)

func (a *App) listEvents(ctx context.Context) {
	raw, fromCache, err := a.eventService.List(ctx)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%s%s\n", raw, cachedSuffix(fromCache))
}

func (a *App) showEvent(ctx context.Context, eventID string) {
	raw, fromCache, err := a.eventService.Get(ctx, eventID)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%s%s\n", raw, cachedSuffix(fromCache))
}

func (a *App) addEvent(ctx context.Context, name string, keys []string) {
	res, err := a.eventService.Create(ctx, name, keys)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if res.Pending() {
		fmt.Printf("Saved offline as %s, will sync on reconnect\n", res.LocalID)
		return
	}
	fmt.Printf("Created: %s\n", res.Value)
}

func (a *App) appendEvent(ctx context.Context, eventID string) {
	data, err := GetMultiline(a.reader, "Enter record", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	res, err := a.eventService.Append(ctx, eventID, data)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if res.Pending() {
		fmt.Println("Record saved offline, will sync on reconnect")
		return
	}
	fmt.Println("Record appended")
}
