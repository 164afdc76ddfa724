// Package main provides a performance benchmarking tool for the alloctrack CLI.
// It generates synthetic datasets of increasing size, imports each one into a
// scratch sqlite store and times the exceptions command, treating the first
// successful run as cold and averaging the rest as warm.
//
// Prerequisites:
// - alloctrack binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated datasets and scratch databases
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dannybechar/allocation-tracker/internal/importer"
	"github.com/dannybechar/allocation-tracker/schema"
)

// BenchmarkResult holds the timings for one dataset size and history backend.
type BenchmarkResult struct {
	Employees int
	History   string
	ColdTime  string
	WarmTime  string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir   string
	Timeout   time.Duration
	Runs      int
	Sizes     []int
	Histories []string
	From      string
	To        string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:   os.Args[1],
		Timeout:   5 * time.Minute,
		Runs:      4,
		Sizes:     []int{100, 1000, 10000},
		Histories: []string{"none", "sqlite"},
		From:      "2026-01-01",
		To:        "2026-12-31",
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the alloctrack binary exists and the work dir is usable
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("alloctrack"); err != nil {
		return fmt.Errorf("alloctrack binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// runBenchmarks generates, imports and analyzes one dataset per configured size
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: sizes %v, %v timeout, %d runs per phase\n",
		config.Sizes, config.Timeout, config.Runs)

	for _, size := range config.Sizes {
		fmt.Printf("Benchmarking %d employees\n", size)

		datasetPath := filepath.Join(config.WorkDir, fmt.Sprintf("dataset_%d.yaml", size))
		if err := importer.WriteDatasetFile(datasetPath, generateDataset(size)); err != nil {
			return nil, fmt.Errorf("writing dataset: %w", err)
		}

		dbPath := filepath.Join(config.WorkDir, fmt.Sprintf("entities_%d.db", size))
		_ = os.Remove(dbPath)
		env := []string{"ALLOCTRACK_DB_BACKEND=sqlite", "ALLOCTRACK_DB_CONNECT=" + dbPath}
		if output, err := runAlloctrack(env, "import", datasetPath); err != nil {
			return nil, fmt.Errorf("importing dataset: %v\nOutput: %s", err, string(output))
		}

		for _, history := range config.Histories {
			historyEnv := append([]string{"ALLOCTRACK_HISTORY_BACKEND=" + history}, env...)
			if history == "sqlite" {
				historyPath := filepath.Join(config.WorkDir, fmt.Sprintf("history_%d.db", size))
				_ = os.Remove(historyPath)
				historyEnv = append(historyEnv, "ALLOCTRACK_HISTORY_DB_CONNECT="+historyPath)
			}
			results = append(results, runPhase(config, size, history, historyEnv))
		}
	}

	return results, nil
}

// runPhase times the exceptions command against one dataset with one history backend
func runPhase(config BenchmarkConfig, size int, history string, env []string) BenchmarkResult {
	fmt.Printf("  history=%s (%d runs)\n", history, config.Runs)

	args := []string{"exceptions", "--from", config.From, "--to", config.To, "--output", "csv", "--output-file", os.DevNull}
	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()
		done := make(chan error, 1)
		go func() {
			_, err := runAlloctrack(env, args...)
			done <- err
		}()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	result := BenchmarkResult{Employees: size, History: history, ColdTime: "TIMEOUT", WarmTime: "TIMEOUT"}
	if len(times) > 0 {
		result.ColdTime = fmt.Sprintf("%.3fs", times[0])
	}
	if len(times) > 1 {
		var sum float64
		for _, t := range times[1:] {
			sum += t
		}
		result.WarmTime = fmt.Sprintf("%.3fs", sum/float64(len(times)-1))
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", result.ColdTime, result.WarmTime)
	return result
}

func runAlloctrack(env []string, args ...string) ([]byte, error) {
	cmd := exec.Command("alloctrack", args...)
	cmd.Env = append(os.Environ(), env...)
	return cmd.CombinedOutput()
}

// generateDataset builds a deterministic dataset where roughly a third of the
// employees end up under, over or on vacation during the year.
func generateDataset(employees int) *schema.Dataset {
	rng := rand.New(rand.NewPCG(uint64(employees), 42))
	ds := &schema.Dataset{}

	clients := max(employees/20, 1)
	for i := 1; i <= clients; i++ {
		ds.Clients = append(ds.Clients, schema.Client{ID: int64(i), Name: "Client " + strconv.Itoa(i)})
		clientID := int64(i)
		ds.Projects = append(ds.Projects, schema.Project{ID: int64(i), Name: "Project " + strconv.Itoa(i), ClientID: &clientID})
	}

	year := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	var commitmentID int64
	for i := 1; i <= employees; i++ {
		emp := schema.Employee{
			ID:              int64(i),
			Name:            "Employee " + strconv.Itoa(i),
			CapacityPercent: []int{50, 80, 100}[rng.IntN(3)],
			Billable:        rng.IntN(10) > 0,
		}
		if rng.IntN(4) == 0 {
			emp.VacationDays = float64(rng.IntN(40)) / 2
		}
		ds.Employees = append(ds.Employees, emp)

		for range rng.IntN(4) {
			commitmentID++
			start := year.AddDate(0, rng.IntN(12), 0)
			end := start.AddDate(0, 1+rng.IntN(6), -1)
			target := schema.ClientTarget
			if rng.IntN(2) == 0 {
				target = schema.ProjectTarget
			}
			ds.Commitments = append(ds.Commitments, schema.Commitment{
				ID:         commitmentID,
				EmployeeID: emp.ID,
				TargetType: target,
				TargetID:   int64(1 + rng.IntN(clients)),
				StartDate:  &start,
				EndDate:    &end,
				Percent:    10 * (1 + rng.IntN(10)),
			})
		}
	}
	return ds
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/alloctrack_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"employees", "history", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{strconv.Itoa(result.Employees), result.History, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-8d %-7s: Cold: %s, Warm: %s\n", result.Employees, strings.ToUpper(result.History), result.ColdTime, result.WarmTime)
	}
}
