// Command genmock generates a synthetic raw CDC weekly export for local
// development and tests. The output matches the real export's header layout,
// including proportion-encoded percent columns and scattered missing cells,
// so the full preprocess-train-forecast chain can run without real data.
//
// Usage:
//
//	go run ./cmd/genmock -out data/raw/Weekly_Hospital_Respiratory_Data.csv -weeks 30
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/domain"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/pipeline"
)

// firstWeek is the week-ending date of the first generated week. Saturday,
// matching the CDC reporting cadence.
var firstWeek = time.Date(2024, time.November, 2, 0, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the synthetic raw CSV")
	weeks := flag.Int("weeks", 30, "number of weeks to generate")
	seed := flag.Int64("seed", 42, "random seed")
	missingRate := flag.Float64("missing-rate", 0.03, "probability a metric cell is left empty")
	proportions := flag.Bool("proportions", true, "encode percent columns as 0-1 proportions")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *weeks < 1 {
		return fmt.Errorf("-weeks must be at least 1")
	}

	rng := rand.New(rand.NewSource(*seed))
	rows := generate(rng, *weeks, *missingRate, *proportions)

	if dir := filepath.Dir(*out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(pipeline.RequiredColumns); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	log.Printf("wrote %d rows (%d states x %d weeks) to %s", len(rows), len(domain.USStates), *weeks, *out)
	return nil
}

// stateProfile gives each state a stable size and baseline so generated
// series look like real occupancy curves instead of white noise.
type stateProfile struct {
	beds        float64
	icuBeds     float64
	baseOcc     float64 // baseline inpatient occupancy percent
	baseICU     float64
	surgePhase  float64
	diseaseBase float64
}

func generate(rng *rand.Rand, weeks int, missingRate float64, proportions bool) [][]string {
	profiles := make(map[string]stateProfile, len(domain.USStates))
	for _, st := range domain.USStates {
		beds := 2000 + rng.Float64()*30000
		profiles[st] = stateProfile{
			beds:        beds,
			icuBeds:     beds * (0.08 + rng.Float64()*0.06),
			baseOcc:     55 + rng.Float64()*25,
			baseICU:     50 + rng.Float64()*30,
			surgePhase:  rng.Float64() * 2 * math.Pi,
			diseaseBase: beds * 0.02,
		}
	}

	var rows [][]string
	for w := 0; w < weeks; w++ {
		week := firstWeek.AddDate(0, 0, 7*w).Format("2006-01-02")
		// Winter surge shape shared across states, phase-shifted per state.
		season := math.Sin(2 * math.Pi * float64(w) / 26.0)

		for _, st := range domain.USStates {
			p := profiles[st]
			surge := 10 * math.Sin(2*math.Pi*float64(w)/26.0+p.surgePhase)

			occPct := clamp(p.baseOcc+surge+rng.NormFloat64()*3, 20, 99)
			icuPct := clamp(p.baseICU+surge*1.3+rng.NormFloat64()*4, 15, 99)

			disease := p.diseaseBase * (1 + 0.6*season)
			covid := disease * (0.5 + rng.Float64()*0.2)
			flu := disease * (0.3 + rng.Float64()*0.2)
			rsv := disease * (0.1 + rng.Float64()*0.1)

			hosp := math.Round(p.beds / 180)

			cells := []float64{
				math.Round(p.beds),
				math.Round(p.beds * occPct / 100),
				math.Round(p.icuBeds),
				math.Round(p.icuBeds * icuPct / 100),
				pct(occPct, proportions),
				pct(icuPct, proportions),
				math.Round(covid),
				math.Round(flu),
				math.Round(rsv),
				math.Round(covid * 0.2),
				math.Round(flu * 0.15),
				math.Round(rsv * 0.1),
				hosp,
				hosp,
				pct(clamp(90+rng.NormFloat64()*5, 60, 100), proportions),
				pct(clamp(90+rng.NormFloat64()*5, 60, 100), proportions),
			}

			row := []string{week, st}
			for _, v := range cells {
				if rng.Float64() < missingRate {
					row = append(row, "")
					continue
				}
				row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func pct(v float64, proportions bool) float64 {
	if proportions {
		return v / 100
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
