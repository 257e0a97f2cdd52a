package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/common"
)

var (
	inputDir     string
	outputDir    string
	workbookName string
	profilesFile string
	textEngine   string
	logLevel     string
	scanInput    bool
	watchInput   bool
	debounce     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "invoice-batch [files...]",
	Short: "Extract Amazon and Flipkart invoice data into one Excel workbook",
	Long: `invoice-batch reads vendor invoice PDFs, recognizes their layout and writes
one workbook with a Summary sheet plus one sheet per invoice holding its header
fields and line items.

Files are taken from the arguments (bare names resolve inside --input), from
every PDF under --input with --scan, or from the built-in default list.
Unrecognized invoices leave a debug_<name>.txt text dump in --output.`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         runBatch,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&inputDir, "input", "input", "directory holding the invoice PDFs (env INVOICE_INPUT_DIR)")
	f.StringVar(&outputDir, "output", "output", "directory for the workbook and debug dumps (env INVOICE_OUTPUT_DIR)")
	f.StringVar(&workbookName, "workbook", "invoices.xlsx", "workbook file name inside --output (env INVOICE_WORKBOOK)")
	f.StringVar(&profilesFile, "profiles", "", "YAML file replacing the built-in layout profiles (env INVOICE_PROFILES_FILE)")
	f.StringVar(&textEngine, "engine", "native", "text engine: native or pdftotext (env INVOICE_TEXT_ENGINE)")
	f.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error (env LOG_LEVEL)")
	f.BoolVar(&scanInput, "scan", false, "process every PDF under --input (env INVOICE_SCAN_INPUT)")
	f.BoolVar(&watchInput, "watch", false, "keep running and rebuild the workbook when --input changes (env INVOICE_WATCH)")
	f.DurationVar(&debounce, "debounce", 2*time.Second, "quiet period before a rebuild in --watch mode (env INVOICE_WATCH_DEBOUNCE)")
}

// loadConfig reads the environment, then applies the flags set on the command line.
func loadConfig(cmd *cobra.Command, args []string) *common.Config {
	cfg := common.LoadConfig()
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input.Dir = inputDir
	}
	if flags.Changed("output") {
		cfg.Output.Dir = outputDir
	}
	if flags.Changed("workbook") {
		cfg.Output.Workbook = workbookName
	}
	if flags.Changed("profiles") {
		cfg.Profiles.File = profilesFile
	}
	if flags.Changed("engine") {
		cfg.Text.Engine = textEngine
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("scan") {
		cfg.Input.Scan = scanInput
	}
	if flags.Changed("watch") {
		cfg.Input.Watch = watchInput
	}
	if flags.Changed("debounce") {
		cfg.Input.Debounce = debounce
	}
	cfg.Input.Files = args
	return cfg
}
