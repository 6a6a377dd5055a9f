package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Display
	topN           int
	showSpaces     bool
	excludeLetters bool

	// Export
	saveCSV         bool
	outputFile      string
	copyToClipboard bool
	pdfOutputFile   string

	// Filtering
	useGitignore bool

	// Token Counting
	countTokens    bool
	tokenizerType  string
	tokenizerModel string
	tokenizerFile  string
	numThreads     int

	// Web Specific
	traverseLinks bool
	linkDepth     int

	// Interactive Mode
	interactiveMode bool

	cfgFile string
)

// version is the application version, set via ldflags.
var version string = "dev"

var rootCmd = &cobra.Command{
	Use:   "charfreq [PATHS...]",
	Short: "charfreq tabulates character frequencies across a repository.",
	Long: `charfreq walks local directories, Git repositories, and web pages,
reads their text content, and reports how often each character occurs.
Results can be printed, copied, or exported as CSV or PDF.`,
	Version: version,
	Args:    cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// initConfig and skip-set loading run via cobra.OnInitialize.

		var roots []string
		var err error
		if interactiveMode {
			roots, err = runInteractiveFinder()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Interactive mode error: %v\n", err)
				os.Exit(1)
			}
			if roots == nil {
				// User aborted interactive selection
				os.Exit(0)
			}
			fmt.Printf("Processing interactively selected paths: %v\n", roots)
		} else {
			roots = args
			if len(roots) == 0 {
				fmt.Fprintln(os.Stderr, "Error: no paths given (pass a repository path or use --interactive)")
				_ = cmd.Usage()
				os.Exit(1)
			}
		}

		// --- Initialize Tokenizer (if requested) ---
		var tk Tokenizer
		if countTokens {
			tk, err = getTokenizer()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error initializing tokenizer: %v\n", err)
				countTokens = false
				fmt.Fprintln(os.Stderr, "Token counting disabled due to error.")
			} else {
				defer tk.Close()
			}
		}

		// --- Scan every input into one result ---
		result := NewScanResult()
		var webTokens int64
		var tempDirsToClean []string

		defer func() {
			for _, dir := range tempDirsToClean {
				fmt.Printf("Cleaning up temporary directory: %s\n", dir)
				_ = os.RemoveAll(dir)
			}
		}()

		for _, input := range roots {
			switch {
			case isWebURL(input):
				depth := 0
				if traverseLinks {
					depth = linkDepth
					fmt.Printf("Starting web traversal from %s (max depth: %d)\n", input, depth)
				}
				visited := make(map[string]bool)
				var tokens int64
				tokens, err = scanWebURL(input, 0, depth, visited, result, tk)
				webTokens += tokens
			case isGitURL(input):
				var tempDir string
				tempDir, err = cloneGitRepo(input)
				if err == nil {
					tempDirsToClean = append(tempDirsToClean, tempDir)
					err = scanRoot(tempDir, result)
				}
			default:
				fmt.Printf("Scanning repository: %s\n", input)
				err = scanRoot(input, result)
			}

			// Per-file problems are recorded on the result; an error here
			// is an unanticipated one and aborts the run.
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", input, err)
				os.Exit(1)
			}
		}

		// --- Parallel token counting over the processed files ---
		var totalTokens int64
		if countTokens && tk != nil {
			totalTokens = countCorpusTokens(tk, result.Processed, numThreads) + webTokens
		}

		// --- Report ---
		opts := ReportOptions{
			TopN:           topN,
			ShowSpaces:     showSpaces,
			ExcludeLetters: excludeLetters,
		}
		rows := buildRows(result.Tally, result.Tally.Total(), opts)

		if pdfOutputFile != "" {
			if err := writePDF(rows, result, totalTokens, countTokens, pdfOutputFile); err != nil {
				fmt.Fprintf(os.Stderr, "Error generating PDF: %v\n", err)
				os.Exit(1)
			}
		} else {
			report := formatReport(result, rows, totalTokens, countTokens)
			switch {
			case outputFile != "":
				if err := os.WriteFile(outputFile, []byte(report), 0644); err != nil {
					fmt.Fprintf(os.Stderr, "Error writing to file %s: %v\n", outputFile, err)
					os.Exit(1)
				}
				fmt.Printf("Report saved to %s\n", outputFile)
			case copyToClipboard:
				if err := clipboard.WriteAll(report); err != nil {
					fmt.Fprintf(os.Stderr, "Error writing to clipboard: %v\n", err)
					fmt.Println("\n--- Report (clipboard failed) ---")
					fmt.Println(report)
				} else {
					fmt.Println("Report copied to clipboard.")
				}
			default:
				fmt.Println(report)
			}
		}

		// The CSV snapshot is written regardless of where the report went.
		if saveCSV {
			path, err := writeCSV(rows)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error saving CSV: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("\nResults saved to %s\n", path)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig, initSkips)

	// Display
	rootCmd.Flags().IntVar(&topN, "top", 50, "Number of top characters to display")
	viper.BindPFlag("top", rootCmd.Flags().Lookup("top"))
	rootCmd.Flags().BoolVar(&showSpaces, "show-spaces", false, "Include whitespace characters in the output")
	viper.BindPFlag("show_spaces", rootCmd.Flags().Lookup("show-spaces"))
	rootCmd.Flags().BoolVar(&excludeLetters, "exclude-letters", false, "Exclude alphabetic characters from the output")
	viper.BindPFlag("exclude_letters", rootCmd.Flags().Lookup("exclude-letters"))

	// Export
	rootCmd.Flags().BoolVar(&saveCSV, "save-csv", false, "Save results as CSV in the current working directory")
	viper.BindPFlag("save_csv", rootCmd.Flags().Lookup("save-csv"))
	rootCmd.Flags().StringVarP(&outputFile, "file", "f", "", "Save the report to the specified file")
	viper.BindPFlag("file", rootCmd.Flags().Lookup("file"))
	rootCmd.Flags().BoolVarP(&copyToClipboard, "clipboard", "c", false, "Copy the report to the clipboard")
	viper.BindPFlag("clipboard", rootCmd.Flags().Lookup("clipboard"))
	rootCmd.Flags().StringVar(&pdfOutputFile, "pdf", "", "Save the report as PDF")
	viper.BindPFlag("pdf", rootCmd.Flags().Lookup("pdf"))

	// Filtering
	rootCmd.Flags().BoolVar(&useGitignore, "gitignore", false, "Also skip paths matched by a root-level .gitignore")
	viper.BindPFlag("gitignore", rootCmd.Flags().Lookup("gitignore"))

	// Token Counting
	rootCmd.Flags().BoolVar(&countTokens, "tokens", false, "Also report the total token count of the corpus")
	viper.BindPFlag("tokens", rootCmd.Flags().Lookup("tokens"))
	rootCmd.Flags().StringVar(&tokenizerType, "tokenizer", "tiktoken", "Tokenizer to use: tiktoken or huggingface")
	viper.BindPFlag("tokenizer", rootCmd.Flags().Lookup("tokenizer"))
	viper.BindPFlag("default_tokenizer", rootCmd.Flags().Lookup("tokenizer"))
	rootCmd.Flags().StringVar(&tokenizerModel, "model", "", "Model name for tokenizer (e.g., gpt-4o, gpt2)")
	viper.BindPFlag("model", rootCmd.Flags().Lookup("model"))
	rootCmd.Flags().StringVar(&tokenizerFile, "tokenizer-file", "", "Path to local tokenizer file")
	viper.BindPFlag("tokenizer_file", rootCmd.Flags().Lookup("tokenizer-file"))
	rootCmd.Flags().IntVarP(&numThreads, "threads", "t", 0, "Number of threads for token counting (0 for auto)")
	viper.BindPFlag("threads", rootCmd.Flags().Lookup("threads"))

	// Web Specific
	rootCmd.Flags().BoolVar(&traverseLinks, "traverse-links", false, "Traverse links when processing URLs")
	viper.BindPFlag("traverse_links", rootCmd.Flags().Lookup("traverse-links"))
	rootCmd.Flags().IntVar(&linkDepth, "link-depth", 1, "Maximum depth to traverse links")
	viper.BindPFlag("link_depth", rootCmd.Flags().Lookup("link-depth"))

	// Interactive Mode
	rootCmd.Flags().BoolVar(&interactiveMode, "interactive", false, "Opens interactive path picker")
	viper.BindPFlag("interactive", rootCmd.Flags().Lookup("interactive"))

	viper.SetDefault("top", 50)
	viper.SetDefault("show_spaces", false)
	viper.SetDefault("exclude_letters", false)
	viper.SetDefault("save_csv", false)
	viper.SetDefault("gitignore", false)
	viper.SetDefault("tokens", false)
	viper.SetDefault("default_tokenizer", "tiktoken")
	viper.SetDefault("threads", 0)
	viper.SetDefault("traverse_links", false)
	viper.SetDefault("link_depth", 1)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home/.config/charfreq with name "config".
		viper.AddConfigPath(filepath.Join(home, ".config", "charfreq"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.AutomaticEnv() // read in environment variables that match CHARFREQ_*
	viper.SetEnvPrefix("CHARFREQ")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
	}

	syncFlagsFromConfig()
}

// syncFlagsFromConfig copies config/env values into the flag variables.
// BindPFlag makes viper reflect the flags, not the other way around, so
// every bound key is pulled back here — but only when the flag was left at
// its default, keeping the precedence default < config < env < flag.
func syncFlagsFromConfig() {
	flags := rootCmd.Flags()
	if !flags.Changed("top") {
		topN = viper.GetInt("top")
	}
	if !flags.Changed("show-spaces") {
		showSpaces = viper.GetBool("show_spaces")
	}
	if !flags.Changed("exclude-letters") {
		excludeLetters = viper.GetBool("exclude_letters")
	}
	if !flags.Changed("save-csv") {
		saveCSV = viper.GetBool("save_csv")
	}
	if !flags.Changed("file") {
		outputFile = viper.GetString("file")
	}
	if !flags.Changed("clipboard") {
		copyToClipboard = viper.GetBool("clipboard")
	}
	if !flags.Changed("pdf") {
		pdfOutputFile = viper.GetString("pdf")
	}
	if !flags.Changed("gitignore") {
		useGitignore = viper.GetBool("gitignore")
	}
	if !flags.Changed("tokens") {
		countTokens = viper.GetBool("tokens")
	}
	if !flags.Changed("tokenizer") {
		tokenizerType = viper.GetString("default_tokenizer")
	}
	if !flags.Changed("model") {
		tokenizerModel = viper.GetString("model")
	}
	if !flags.Changed("tokenizer-file") {
		tokenizerFile = viper.GetString("tokenizer_file")
	}
	if !flags.Changed("threads") {
		numThreads = viper.GetInt("threads")
	}
	if !flags.Changed("traverse-links") {
		traverseLinks = viper.GetBool("traverse_links")
	}
	if !flags.Changed("link-depth") {
		linkDepth = viper.GetInt("link_depth")
	}
	if !flags.Changed("interactive") {
		interactiveMode = viper.GetBool("interactive")
	}
}

func main() {
	rootCmd.Execute()
}
