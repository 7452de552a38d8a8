package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/stemsi/qna-backend/internal/config"
	"github.com/stemsi/qna-backend/internal/logger"
	"github.com/stemsi/qna-backend/internal/model"
	"github.com/stemsi/qna-backend/internal/seed"
	"golang.org/x/term"
)

func main() {
	cfg := config.Load()

	var (
		path   string
		asJSON bool
	)
	flag.StringVar(&path, "file", cfg.SeedFile, "Seed file to check (empty checks the embedded dataset)")
	flag.BoolVar(&asJSON, "json", !term.IsTerminal(int(os.Stdout.Fd())), "Print the report as JSON (default when stdout is not a terminal)")
	flag.Parse()

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	questions, err := seed.Load(path)
	if err != nil {
		log.Error().Err(err).Msg("Seed check failed")
		os.Exit(1)
	}

	report := inspect(questions)
	if asJSON {
		if err := json.NewEncoder(os.Stdout).Encode(report.summary()); err != nil {
			log.Error().Err(err).Msg("Failed to write report")
			os.Exit(1)
		}
		return
	}

	fmt.Println("=== Seed Report ===")
	fmt.Printf("Questions:     %d\n", report.total)
	fmt.Printf("Unique ids:    %d\n", report.unique)
	fmt.Printf("Without tags:  %d\n", report.untagged)
	if len(report.duplicates) > 0 {
		fmt.Printf("Duplicate ids: %v (later entries win)\n", report.duplicates)
	}
	if len(report.emptyIDs) > 0 {
		fmt.Printf("Empty ids at positions: %v\n", report.emptyIDs)
	}

	tags := make([]string, 0, len(report.tagCounts))
	for t := range report.tagCounts {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	for _, t := range tags {
		fmt.Printf("  tag %-20s %d\n", t, report.tagCounts[t])
	}
}

type seedReport struct {
	total      int
	unique     int
	untagged   int
	duplicates []model.QuestionID
	emptyIDs   []int
	tagCounts  map[string]int
}

type reportSummary struct {
	Total      int                `json:"total"`
	Unique     int                `json:"unique"`
	Untagged   int                `json:"untagged"`
	Duplicates []model.QuestionID `json:"duplicates"`
	EmptyIDs   []int              `json:"empty_ids"`
	Tags       map[string]int     `json:"tags"`
}

func (r seedReport) summary() reportSummary {
	return reportSummary{
		Total:      r.total,
		Unique:     r.unique,
		Untagged:   r.untagged,
		Duplicates: r.duplicates,
		EmptyIDs:   r.emptyIDs,
		Tags:       r.tagCounts,
	}
}

func inspect(questions []model.Question) seedReport {
	r := seedReport{total: len(questions), tagCounts: make(map[string]int)}
	seen := make(map[model.QuestionID]int, len(questions))

	for i, q := range questions {
		if q.ID == "" {
			r.emptyIDs = append(r.emptyIDs, i)
		}
		seen[q.ID]++
		if seen[q.ID] == 2 {
			r.duplicates = append(r.duplicates, q.ID)
		}
		if len(q.Tags) == 0 {
			r.untagged++
		}
		for _, t := range q.Tags {
			r.tagCounts[t]++
		}
	}
	r.unique = len(seen)
	return r
}
