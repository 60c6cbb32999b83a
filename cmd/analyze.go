package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/SaminMaharjan/coughai/configs"
	"github.com/SaminMaharjan/coughai/screening"
	"github.com/SaminMaharjan/coughai/transcode"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.wav> [file.wav...]",
	Short: "Analyze cough recordings and score respiratory conditions",
	Long: `Decode each WAV file, extract signal statistics and cepstral
features, and score the recording against the built-in condition rules.

Files are processed independently: a file that fails to decode or
analyze is reported with its error and does not stop the remaining
files. The exit status is non-zero when any file fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

// fileReport is the per-file output of the analyze command.
type fileReport struct {
	File     string                          `json:"file" yaml:"file"`
	Error    string                          `json:"error,omitempty" yaml:"error,omitempty"`
	Analysis *analysisSummary                `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	Result   *screening.ClassificationResult `json:"result,omitempty" yaml:"result,omitempty"`
	Stats    []screening.CoefficientStat     `json:"coefficient_stats,omitempty" yaml:"coefficient_stats,omitempty"`
}

// analysisSummary carries the record scalars without the bulky flat
// feature set.
type analysisSummary struct {
	Duration         float64 `json:"duration" yaml:"duration"`
	RMS              float64 `json:"rms" yaml:"rms"`
	ZeroCrossingRate float64 `json:"zero_crossing_rate" yaml:"zero_crossing_rate"`
	SpectralCentroid float64 `json:"spectral_centroid" yaml:"spectral_centroid"`
	NumFrames        int     `json:"num_frames" yaml:"num_frames"`
	SampleRate       int     `json:"sample_rate" yaml:"sample_rate"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return err
	}
	if err := configs.ValidateConfig(cfg); err != nil {
		return err
	}

	decoder := transcode.NewDecoder(&transcode.DecoderConfig{
		MaxDuration: cfg.Analysis.MaxDuration,
	})

	analyzer, err := screening.NewAnalyzer(nil)
	if err != nil {
		return err
	}
	classifier := screening.NewClassifier()

	reports := make([]fileReport, len(args))
	records := make([]*screening.Record, len(args))

	for i, file := range args {
		reports[i].File = file

		waveform, err := decoder.DecodeFile(file)
		if err != nil {
			reports[i].Error = err.Error()
			continue
		}

		record, err := analyzer.Analyze(waveform)
		if err != nil {
			reports[i].Error = err.Error()
			continue
		}

		records[i] = record
		reports[i].Analysis = &analysisSummary{
			Duration:         record.Duration,
			RMS:              record.RMS,
			ZeroCrossingRate: record.ZeroCrossingRate,
			SpectralCentroid: record.SpectralCentroid,
			NumFrames:        record.NumFrames,
			SampleRate:       record.SampleRate,
		}
		if cfg.Verbose {
			reports[i].Stats = record.CoefficientStats()
		}
	}

	// Indexes line up: files that failed earlier hold a nil record, and
	// the batch flags those items without disturbing their neighbors
	for i, item := range classifier.ClassifyBatch(records) {
		if reports[i].Error != "" {
			continue
		}
		if item.Err != nil {
			reports[i].Error = item.Err.Error()
			continue
		}
		reports[i].Result = item.Result
	}

	if err := printReports(cfg, reports); err != nil {
		return err
	}

	failed := 0
	for _, report := range reports {
		if report.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d recordings failed", failed, len(args))
	}

	return nil
}

// printReports renders the reports in the configured output format
func printReports(cfg *configs.Config, reports []fileReport) error {
	switch cfg.OutputFormat {
	case "json":
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(reports)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
	default:
		for i := range reports {
			printTextReport(&reports[i])
		}
	}

	return nil
}

// printTextReport renders one report for terminal reading
func printTextReport(report *fileReport) {
	fmt.Printf("%s\n", report.File)

	if report.Error != "" {
		fmt.Printf("  error: %s\n", report.Error)
		fmt.Println()
		return
	}

	a := report.Analysis
	fmt.Printf("  duration: %.2fs  rms: %.4f  zcr: %.4f  centroid: %.1f Hz  frames: %d\n",
		a.Duration, a.RMS, a.ZeroCrossingRate, a.SpectralCentroid, a.NumFrames)

	result := report.Result
	fmt.Printf("  dominant: %s (%s confidence)\n", result.Dominant, result.Confidence)
	for _, score := range result.Scores {
		fmt.Printf("    %-12s %6.2f%%  (score %.2f, %s)\n",
			score.Condition, score.Probability, score.Score, score.Confidence)
	}

	if len(report.Stats) > 0 {
		fmt.Println("  coefficient stats (mean / variance):")
		for _, cs := range report.Stats {
			fmt.Printf("    c%-2d %12.3f %14.3f\n", cs.Coefficient, cs.Mean, cs.Variance)
		}
	}

	fmt.Println()
}
