package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/arogyahealth/arogya-go/internal/common"
)

func (a *App) login(ctx context.Context) {
	userName, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, userName, password); err != nil {
		fmt.Println("Login unsuccessful:", err)
		return
	}
	fmt.Println("Login successful")
}

func (a *App) logout(ctx context.Context) {
	if err := a.authService.Logout(ctx); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("Logged out; queued offline actions are kept")
}

func (a *App) whoami(ctx context.Context) {
	profile, fromCache, err := a.authService.Me(ctx)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%s <%s> role=%s%s\n", profile.FullName, profile.Email, profile.Role, cachedSuffix(fromCache))
}

func cachedSuffix(fromCache bool) string {
	if fromCache {
		return " (cached)"
	}
	return ""
}
