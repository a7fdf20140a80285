package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/brogergvhs/noveld/internal/chapters"
	"github.com/brogergvhs/noveld/internal/config"
	"github.com/brogergvhs/noveld/internal/downloader"
	"github.com/brogergvhs/noveld/internal/providers/webnovelpub"
	"github.com/brogergvhs/noveld/internal/ui"
	"github.com/brogergvhs/noveld/internal/util"

	"github.com/spf13/cobra"
)

var (
	// selection
	flagChapter string
	flagRange   string
	flagList    string

	// runtime
	flagOutput          string
	flagRetryDelay      int
	flagRequestInterval int
	flagTimeout         int
	flagDryRun          bool
	flagNoProgress      bool
	flagBaseURL         string

	// headers/auth
	flagCookie           string
	flagCookieFile       string
	flagUserAgent        string
	flagCloudflareBypass bool
)

func init() {
	downloadCmd := &cobra.Command{
		Use:   "download <novel-id>",
		Short: "Download a novel into a single Markdown file. Uses the defaults from the selected config, overwritten by CLI flags",
		Example: "  noveld download the-novels-extra-07082217\n" +
			"  noveld download the-novels-extra-07082217 --retry-delay 5 --range 1-50",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				_ = cmd.Usage()
				return fmt.Errorf("expected exactly one novel id, got %d", len(args))
			}
			return nil
		},
		RunE: runDownload,
	}

	// selection
	downloadCmd.Flags().StringVar(&flagChapter, "chapter", "", "download a single chapter by listing position (e.g. 5)")
	downloadCmd.Flags().StringVar(&flagRange, "range", "", "download a range of chapters by listing position (e.g. 5-12)")
	downloadCmd.Flags().StringVar(&flagList, "list", "", "download specific chapters by listing position (e.g. 1,3,5)")

	// runtime
	downloadCmd.Flags().StringVar(&flagOutput, "output", "", "output folder for the Markdown file")
	downloadCmd.Flags().IntVar(&flagRetryDelay, "retry-delay", config.DefaultRetryDelay, "delay in seconds between attempts to download a chapter again")
	downloadCmd.Flags().IntVar(&flagRequestInterval, "request-interval", 0, "minimum milliseconds between two requests to the site")
	downloadCmd.Flags().IntVar(&flagTimeout, "timeout", 0, "HTTP timeout in seconds (default none)")
	downloadCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "list the chapters that would be downloaded, don’t download")
	downloadCmd.Flags().BoolVar(&flagNoProgress, "no-progress", false, "disable the progress bar")
	downloadCmd.Flags().StringVar(&flagBaseURL, "base-url", "", "site origin (default "+config.DefaultBaseURL+")")

	// headers/auth
	downloadCmd.Flags().StringVar(&flagCookie, "cookie", "", "cookie string, e.g. \"key=value; other=123\"")
	downloadCmd.Flags().StringVar(&flagCookieFile, "cookie-file", "", "path to a text file with cookies (one header line)")
	downloadCmd.Flags().StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")
	downloadCmd.Flags().BoolVar(&flagCloudflareBypass, "cloudflare-bypass", false, "use a browser-like TLS fingerprint and headers")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	novelID := args[0]

	cfg, usedPath, err := config.LoadMerged(config.Options{
		IgnoreConfig:      flagIgnoreConfig,
		Debug:             flagDebug,
		Output:            flagOutput,
		RequestIntervalMS: flagRequestInterval,
		Timeout:           flagTimeout,
		NoProgress:        flagNoProgress,
		BaseURL:           flagBaseURL,
		Cookie:            flagCookie,
		CookieFile:        flagCookieFile,
		UserAgent:         flagUserAgent,
		CloudflareBypass:  flagCloudflareBypass,
	})
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("retry-delay") {
		if flagRetryDelay < 0 {
			return errors.New("--retry-delay must not be negative")
		}
		cfg.RetryDelay = flagRetryDelay
	}

	selection, err := chapters.ParseSelection(flagChapter, flagRange, flagList)
	if err != nil {
		return err
	}

	logSvc := ui.NewLogger(cfg.Debug)
	logSvc.Debugf("Config file: %s\n", usedPath)

	if cfg.Debug {
		fmt.Println("Full config:")
		cfg.Print()
		fmt.Println()
	}

	client, err := util.NewHTTPClient(util.HTTPClientOptions{
		Timeout:          time.Duration(cfg.Timeout) * time.Second,
		UserAgent:        util.PickUserAgent(cfg.UserAgent),
		Cookie:           cfg.Cookie,
		CookieFile:       cfg.CookieFile,
		RequestInterval:  time.Duration(cfg.RequestIntervalMS) * time.Millisecond,
		CloudflareBypass: cfg.CloudflareBypass,
		DebugLogger:      logSvc,
	})
	if err != nil {
		return err
	}

	ctx, stop := util.SetupInterruptHandler(cmd.Context())
	defer stop()

	site := webnovelpub.New(webnovelpub.Options{
		BaseURL: cfg.BaseURL,
		Client:  client,
		Log:     logSvc,
	})

	novel, list, err := site.OpenList(ctx, novelID)
	if err != nil {
		return err
	}
	stdout := cmd.OutOrStdout()
	fmt.Fprintf(stdout, "Title: %s\n", novel.Title)

	if flagDryRun {
		n := 0
		for idx := 1; !selection.Past(idx); idx++ {
			ch, ok := list.Next(ctx)
			if !ok {
				break
			}
			if !selection.Contains(idx) {
				continue
			}
			n++
			fmt.Fprintf(stdout, "%4d) %s\n      %s\n", idx, ch.Title, ch.URL)
		}
		fmt.Fprintf(stdout, "\nDry-run: %d chapters selected.\n", n)
		return nil
	}

	if err := os.MkdirAll(cfg.Output, 0755); err != nil {
		return fmt.Errorf("cannot create output folder: %w", err)
	}

	out, err := util.CreateOutput(cfg.Output, chapters.OutputName(novel.Title))
	if err != nil {
		return err
	}
	fmt.Printf("Output: %s\n\n", out.Path)

	stats := &ui.Stats{}

	var (
		pm     *ui.MPBProgressManager
		handle *ui.ProgressHandle
	)
	if cfg.Progress && !cfg.Debug {
		pm = ui.NewProgressManager(os.Stdout)
		handle = pm.Register(novel.Title, stats)
		logSvc.SetOutput(pm.Writer())
	}

	dl := downloader.New(downloader.Options{
		Source:     site,
		Log:        logSvc,
		RetryDelay: time.Duration(cfg.RetryDelay) * time.Second,
		Selection:  selection,
		Stats:      stats,
		Progress:   handle,
	})

	start := time.Now()
	dlErr := dl.Download(ctx, novel, list, out)

	if pm != nil {
		handle.MarkDone()
		pm.Close()
		logSvc.SetOutput(os.Stdout)
	}

	if err := out.Close(); err != nil {
		dlErr = errors.Join(dlErr, fmt.Errorf("unable to write file: %w", err))
	}
	util.RemoveIfEmpty(out.Path)

	fmt.Println()
	fmt.Println("Download Summary:")
	fmt.Printf("Chapters: %d\n", stats.TotalChapters.Load())
	if n := stats.TotalSkipped.Load(); n > 0 {
		fmt.Printf("Skipped:  %d\n", n)
	}
	fmt.Printf("Retries:  %d\n", stats.TotalRetries.Load())
	fmt.Printf("Data:     %s\n", util.Human(stats.TotalBytes.Load()))
	fmt.Printf("Time:     %s\n", time.Since(start).Round(time.Second))

	if dlErr != nil {
		return dlErr
	}

	fmt.Println("\nAll done.")
	return nil
}
