// Command dashboard prints a terminal summary of the latest forecast run:
// per-state KPIs for a selected state and the top states by critical risk
// probability.
//
// Usage:
//
//	go run ./cmd/dashboard -state TX -top 15
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/config"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/domain"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/storage"
)

const forecastRemedy = "run `go run ./cmd/forecast` to produce the forecast file"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	forecastPath := flag.String("forecast", filepath.Join(cfg.ForecastDir, "next_week_forecast_enhanced.csv"), "path to the forecast CSV")
	state := flag.String("state", "", "state code to highlight (optional)")
	top := flag.Int("top", 15, "number of top-risk states to list")
	flag.Parse()

	if err := run(*forecastPath, *state, *top); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

func run(forecastPath, state string, top int) error {
	forecasts, err := storage.ReadForecasts(forecastPath, forecastRemedy)
	if err != nil {
		return err
	}
	if len(forecasts) == 0 {
		return fmt.Errorf("forecast file %s has no rows", forecastPath)
	}

	fmt.Println("=== HorizonCare — Next Week Hospital Stress Forecast ===")
	fmt.Printf("Forecast week: %s   States: %d   Run: %s\n",
		forecasts[0].ForecastWeek.Format("2006-01-02"), len(forecasts), forecasts[0].RunID)
	fmt.Println()

	if state != "" {
		if err := printState(forecasts, state); err != nil {
			return err
		}
		fmt.Println()
	}

	printTopRisk(forecasts, top)
	return nil
}

func printState(forecasts []domain.ForecastRecord, state string) error {
	var rec *domain.ForecastRecord
	for i := range forecasts {
		if forecasts[i].State == state {
			rec = &forecasts[i]
			break
		}
	}
	if rec == nil {
		return fmt.Errorf("no forecast for state %q", state)
	}

	risk := "LOW"
	if rec.CriticalPred == 1 {
		risk = "HIGH"
	}

	fmt.Printf("--- %s ---\n", domain.StateLabel(rec.State))
	fmt.Printf("  ICU forecast (next week):        %.1f%%\n", rec.ICUPctPred)
	fmt.Printf("  Inpatient forecast (next week):  %.1f%%\n", rec.InpatientPctPred)
	fmt.Printf("  Critical stress risk:            %s (%.2f)\n", risk, rec.CriticalProba)
	fmt.Printf("  Disease burden (next week):      %.0f\n", rec.DiseaseBurdenPred)
	fmt.Printf("  Recommendation: %s\n", rec.Recommendation)
	if rec.SuggestedNeighbor != "" {
		fmt.Printf("  Suggested neighbor state: %s\n", domain.StateLabel(rec.SuggestedNeighbor))
	}
	return nil
}

func printTopRisk(forecasts []domain.ForecastRecord, top int) {
	if top > len(forecasts) {
		top = len(forecasts)
	}

	fmt.Printf("Top %d states by critical risk probability\n", top)
	fmt.Printf("  %-20s %8s %10s %7s %5s %9s\n", "STATE", "ICU%", "INPATIENT%", "PROBA", "CRIT", "NEIGHBOR")
	for _, f := range forecasts[:top] {
		fmt.Printf("  %-20s %7.1f%% %9.1f%% %7.2f %5d %9s\n",
			domain.StateLabel(f.State), f.ICUPctPred, f.InpatientPctPred, f.CriticalProba, f.CriticalPred, f.SuggestedNeighbor)
	}
}
