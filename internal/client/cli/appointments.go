package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/arogyahealth/arogya-go/internal/client/services"
)

func (a *App) listAppointments(ctx context.Context) {
	raw, fromCache, err := a.appointmentService.List(ctx)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%s%s\n", raw, cachedSuffix(fromCache))
}

func (a *App) showVitals(ctx context.Context, appointmentID string) {
	raw, fromCache, err := a.appointmentService.GetVitals(ctx, appointmentID)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%s%s\n", raw, cachedSuffix(fromCache))
}

func (a *App) addVitals(ctx context.Context, appointmentID string) {
	var v services.Vitals
	var err error

	if v.Pulse, err = a.readInt("Pulse (bpm)"); err != nil {
		fmt.Println("error:", err)
		return
	}
	if v.SpO2, err = a.readInt("SpO2 (%)"); err != nil {
		fmt.Println("error:", err)
		return
	}
	temp, err := GetSimpleText(a.reader, "Temperature (°C, empty to skip)", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if temp != "" {
		if v.Temperature, err = strconv.ParseFloat(temp, 64); err != nil {
			fmt.Println("error:", err)
			return
		}
	}

	res, err := a.appointmentService.AddVitals(ctx, appointmentID, v)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if res.Pending() {
		fmt.Println("Reading saved offline, will sync on reconnect")
		return
	}
	fmt.Println("Reading recorded")
}

func (a *App) analyze(ctx context.Context, documentURL string) {
	question, err := GetSimpleText(a.reader, "Enter question", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	res, err := a.agentService.Analyze(ctx, documentURL, question)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if res.Pending() {
		fmt.Println("Analysis request saved offline, will sync on reconnect")
		return
	}
	fmt.Printf("%s\n", res.Value)
}

func (a *App) readInt(prompt string) (int, error) {
	s, err := GetSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
