package testing

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/nocturnelabs/restringer"
)

// RunConfig contains configuration for running a deobfuscation case.
type RunConfig struct {
	Timeout       time.Duration
	Verbose       bool
	MaxIterations int
}

// DefaultRunConfig returns a default run configuration.
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		Timeout:       10 * time.Second,
		Verbose:       false,
		MaxIterations: restringer.DefaultMaxIterations,
	}
}

// RunResult represents the result of deobfuscating one case.
type RunResult struct {
	Success      bool
	Output       string
	Changed      bool
	LimitReached bool
	Duration     time.Duration
	Error        error
}

// DeobfuscationCase represents a single deobfuscation test case.
type DeobfuscationCase struct {
	Name        string
	SourceCode  string
	ExpectedOut string
	ShouldError bool
	Config      *RunConfig
}

// TestFramework runs DeobfuscationCase values against the engine
// in-process, with no subprocess or filesystem round trip.
type TestFramework struct {
	config *RunConfig
}

// NewTestFramework creates a new test framework instance.
func NewTestFramework(config *RunConfig) (*TestFramework, error) {
	if config == nil {
		config = DefaultRunConfig()
	}
	return &TestFramework{config: config}, nil
}

// Cleanup is a no-op retained for API symmetry with callers that
// defer it unconditionally; the in-process framework holds no
// temporary resources to release.
func (tf *TestFramework) Cleanup() error { return nil }

// RunTest executes a single deobfuscation case.
func (tf *TestFramework) RunTest(test *DeobfuscationCase) *RunResult {
	start := time.Now()
	result := &RunResult{}

	cfg := tf.config
	if test.Config != nil {
		cfg = test.Config
	}

	ctx := context.Background()
	var cancel context.CancelFunc
	if cfg.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	r, err := restringer.New(test.SourceCode, restringer.WithMaxIterations(cfg.MaxIterations))
	if err != nil {
		result.Duration = time.Since(start)
		if test.ShouldError {
			result.Success = true
			return result
		}
		result.Error = fmt.Errorf("parsing input: %w", err)
		return result
	}

	changed, limitReached, err := r.Deobfuscate(ctx)
	result.Changed = changed
	result.LimitReached = limitReached
	result.Output = r.Script()
	result.Duration = time.Since(start)

	if err != nil {
		if test.ShouldError {
			result.Success = true
		} else {
			result.Error = fmt.Errorf("deobfuscating: %w", err)
		}
		return result
	}

	if test.ShouldError {
		result.Error = fmt.Errorf("deobfuscation succeeded but was expected to fail")
		return result
	}

	if test.ExpectedOut != "" && !strings.Contains(result.Output, test.ExpectedOut) {
		result.Error = fmt.Errorf("expected output %q not found in actual output %q", test.ExpectedOut, result.Output)
		return result
	}

	result.Success = true
	return result
}

// RunTestSuite executes a collection of cases as subtests.
func (tf *TestFramework) RunTestSuite(cases []*DeobfuscationCase, t *testing.T) {
	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			result := tf.RunTest(c)

			if tf.config.Verbose {
				t.Logf("case %s completed in %v (changed=%v limitReached=%v)", c.Name, result.Duration, result.Changed, result.LimitReached)
			}

			if !result.Success {
				if result.Error != nil {
					t.Errorf("case failed: %v", result.Error)
				} else {
					t.Errorf("case failed without a specific error")
				}
			}
		})
	}
}

// BenchmarkFramework provides infrastructure for performance testing.
type BenchmarkFramework struct {
	framework *TestFramework
}

// NewBenchmarkFramework creates a new benchmark framework.
func NewBenchmarkFramework(config *RunConfig) (*BenchmarkFramework, error) {
	framework, err := NewTestFramework(config)
	if err != nil {
		return nil, err
	}
	return &BenchmarkFramework{framework: framework}, nil
}

// BenchmarkCase represents a benchmark case.
type BenchmarkCase struct {
	Name       string
	SourceCode string
}

// RunBenchmark executes a benchmark case.
func (bf *BenchmarkFramework) RunBenchmark(benchmark *BenchmarkCase, b *testing.B) {
	c := &DeobfuscationCase{
		Name:       benchmark.Name,
		SourceCode: benchmark.SourceCode,
		Config:     bf.framework.config,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result := bf.framework.RunTest(c)
		if !result.Success {
			b.Fatalf("benchmark failed: %v", result.Error)
		}
	}
}

// Cleanup cleans up benchmark framework resources.
func (bf *BenchmarkFramework) Cleanup() error {
	return bf.framework.Cleanup()
}

// GoldenFileTest represents a golden file test case comparing
// deobfuscated output against a saved .js fixture.
type GoldenFileTest struct {
	Name         string
	SourceCode   string
	GoldenFile   string
	UpdateGolden bool
}

// RunGoldenFileTest executes a golden file test.
func (tf *TestFramework) RunGoldenFileTest(test *GoldenFileTest, t *testing.T) {
	c := &DeobfuscationCase{
		Name:       test.Name,
		SourceCode: test.SourceCode,
		Config:     tf.config,
	}

	result := tf.RunTest(c)
	if !result.Success {
		t.Fatalf("deobfuscation failed: %v", result.Error)
	}

	goldenPath := test.GoldenFile

	if test.UpdateGolden {
		if err := os.WriteFile(goldenPath, []byte(result.Output), 0644); err != nil {
			t.Fatalf("failed to update golden file: %v", err)
		}
		t.Logf("updated golden file: %s", goldenPath)
		return
	}

	goldenData, err := os.ReadFile(goldenPath)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.WriteFile(goldenPath, []byte(result.Output), 0644); err != nil {
				t.Fatalf("failed to create golden file: %v", err)
			}
			t.Logf("created golden file: %s", goldenPath)
			return
		}
		t.Fatalf("failed to read golden file: %v", err)
	}

	if expected := string(goldenData); result.Output != expected {
		t.Errorf("output differs from golden file %s", goldenPath)
		t.Errorf("expected:\n%s", expected)
		t.Errorf("actual:\n%s", result.Output)
	}
}

// TestReporter provides test result reporting.
type TestReporter struct {
	writer io.Writer
}

// NewTestReporter creates a new test reporter.
func NewTestReporter(writer io.Writer) *TestReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &TestReporter{writer: writer}
}

// ReportTestResult reports a single test result.
func (tr *TestReporter) ReportTestResult(c *DeobfuscationCase, result *RunResult) {
	status := "PASS"
	if !result.Success {
		status = "FAIL"
	}

	fmt.Fprintf(tr.writer, "[%s] %s (%.2fs)\n", status, c.Name, result.Duration.Seconds())

	if !result.Success && result.Error != nil {
		fmt.Fprintf(tr.writer, "  Error: %v\n", result.Error)
	}
}

// ReportSummary reports a summary of test results.
func (tr *TestReporter) ReportSummary(results []*RunResult) {
	total := len(results)
	passed := 0
	failed := 0
	totalDuration := time.Duration(0)

	for _, result := range results {
		if result.Success {
			passed++
		} else {
			failed++
		}
		totalDuration += result.Duration
	}

	fmt.Fprintf(tr.writer, "\n--- Test Summary ---\n")
	fmt.Fprintf(tr.writer, "Total: %d, Passed: %d, Failed: %d\n", total, passed, failed)
	fmt.Fprintf(tr.writer, "Total Duration: %.2fs\n", totalDuration.Seconds())

	if failed > 0 {
		fmt.Fprintf(tr.writer, "SOME TESTS FAILED\n")
	} else {
		fmt.Fprintf(tr.writer, "ALL TESTS PASSED\n")
	}
}
