package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/docparse/bounds-matcher/api"
	"github.com/docparse/bounds-matcher/config"
	bmerrors "github.com/docparse/bounds-matcher/internal/errors"
	"github.com/docparse/bounds-matcher/internal/export"
	"github.com/docparse/bounds-matcher/internal/input"
	"github.com/docparse/bounds-matcher/internal/jobs"
	"github.com/docparse/bounds-matcher/internal/matcher"
	"github.com/docparse/bounds-matcher/internal/persistence"
)

func main() {
	// Define command-line flags
	var (
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
		inputPath  = flag.String("input", "", "Path to the match request JSON file")
		outputPath = flag.String("output", "", "Path for the result JSON (default: stdout)")
		xlsxPath   = flag.String("xlsx", "", "Optional path for an XLSX report of the batch")
		configPath = flag.String("config", "", "Optional matcher settings JSON file")
		serve      = flag.Bool("serve", false, "Run the HTTP matching service instead of a one-shot batch")
		port       = flag.String("port", "8080", "Port to run the server on (with -serve)")
		dataDir    = flag.String("data-dir", "./batch_data", "Directory to store batch history (with -serve)")
	)

	flag.Parse()

	// Handle help flag
	if *help {
		fmt.Printf("Bounds Matcher - locates named entities in PDF documents\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s -input request.json                      # Match and print results\n", os.Args[0])
		fmt.Printf("  %s -input request.json -output result.json  # Write results to a file\n", os.Args[0])
		fmt.Printf("  %s -input request.json -xlsx report.xlsx    # Also write an XLSX report\n", os.Args[0])
		fmt.Printf("  %s -serve -port 9000                        # Run as an HTTP service\n", os.Args[0])
		return
	}

	// Handle version flag
	if *version {
		fmt.Printf("Bounds Matcher v1.0.0\n")
		fmt.Printf("Strategy-chain entity matching with exact, partial, aggregation and fuzzy fallbacks\n")
		return
	}

	settings, err := loadSettings(*configPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	if *serve {
		runServer(settings, *port, *dataDir)
		return
	}

	if *inputPath == "" {
		log.Fatalf("Missing -input: provide a match request file or run with -serve (see -help)")
	}
	runBatch(settings, *inputPath, *outputPath, *xlsxPath)
}

// loadSettings reads the optional settings file and fills defaults.
func loadSettings(path string) (config.MatcherSettings, error) {
	if path == "" {
		settings := config.MatcherSettings{}
		settings.ApplyDefaults()
		return settings, nil
	}
	settings, err := config.LoadSettings(path)
	if err != nil {
		return config.MatcherSettings{}, err
	}
	if conflicts := settings.Validate(); len(conflicts) > 0 {
		return config.MatcherSettings{}, fmt.Errorf("invalid settings: %v", conflicts)
	}
	return settings, nil
}

// runBatch executes one request file and writes the outputs. Missing
// input and missing PDF are fatal before any matching begins.
func runBatch(settings config.MatcherSettings, inputPath, outputPath, xlsxPath string) {
	req, err := input.Load(inputPath)
	if err != nil {
		log.Fatalf("Failed to load match request: %v", err)
	}

	service, err := matcher.Open(req.PDFFile, settings)
	if err != nil {
		if errors.Is(err, bmerrors.ErrDocumentNotFound) {
			log.Fatalf("Document not found: %s", req.PDFFile)
		}
		log.Fatalf("Failed to open document: %v", err)
	}
	defer func() {
		if closeErr := service.Close(); closeErr != nil {
			log.Printf("Warning: failed to close document: %v", closeErr)
		}
	}()

	result := service.MatchAll(req.Entities)
	log.Printf("Matched %d/%d entities (%d partial, %d unmatched)",
		result.Statistics.Matched, result.Statistics.TotalEntities,
		result.Statistics.PartialMatched, result.Statistics.Unmatched)

	if outputPath == "" {
		data, err := export.ResultJSON(result)
		if err != nil {
			log.Fatalf("Failed to render result: %v", err)
		}
		fmt.Print(string(data))
	} else {
		if err := export.WriteJSON(outputPath, result); err != nil {
			log.Fatalf("Failed to write result: %v", err)
		}
		log.Printf("Result written to %s", outputPath)
	}

	if xlsxPath != "" {
		if err := export.WriteXLSX(xlsxPath, result); err != nil {
			log.Fatalf("Failed to write XLSX report: %v", err)
		}
		log.Printf("Report written to %s", xlsxPath)
	}
}

// runServer starts the HTTP matching service.
func runServer(settings config.MatcherSettings, port, dataDir string) {
	log.Printf("Using data directory: %s", dataDir)

	manager := jobs.NewManager(4)
	manager.Start()
	defer manager.Stop()

	store := persistence.NewStore(dataDir)
	handler := api.NewAPI(settings, manager, store)

	router := gin.Default()
	api.SetupRoutes(router, handler)

	log.Printf("Starting server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
