package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tartampluch/orbita/internal/config"
	"github.com/tartampluch/orbita/internal/credentials"
	"github.com/tartampluch/orbita/internal/importer"
	"github.com/tartampluch/orbita/internal/locale"
	"github.com/tartampluch/orbita/internal/server"
	"github.com/tartampluch/orbita/internal/store"
)

// errImportFailed signals an import whose Result reported success=false.
var errImportFailed = errors.New(config.ErrImportFailed)

// cli carries the runtime options and collaborators shared by every command.
type cli struct {
	opts    *config.Options
	fetcher importer.SourceFetcher

	// setupLog installs the default logger once flags are parsed.
	setupLog  func(debug bool) io.Closer
	logCloser io.Closer

	// import flags
	format       string
	sourceURL    string
	photosDir    string
	photoBaseURL string
	dbPath       string
	lang         string
	user         string

	addr  string
	debug bool
}

func newCLI(opts *config.Options) *cli {
	return &cli{
		opts:     opts,
		fetcher:  importer.NewHTTPFetcher(),
		setupLog: setupLogging,
	}
}

func (c *cli) close() {
	if c.logCloser != nil {
		_ = c.logCloser.Close()
	}
}

// root assembles the command tree. Flag defaults come from the environment
// so that an explicit flag always wins.
func (c *cli) root() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           config.CmdRoot,
		Short:         config.DescRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.setupLog != nil {
				c.logCloser = c.setupLog(c.debug)
			}
			logStartupInfo()
		},
	}
	rootCmd.PersistentFlags().BoolVar(&c.debug, config.FlagDebug, c.opts.Debug, config.FlagDescDebug)

	importCmd := &cobra.Command{
		Use:   config.CmdImport,
		Short: config.DescImport,
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.runImport,
	}
	f := importCmd.Flags()
	f.StringVar(&c.format, config.FlagFormat, "", config.FlagDescFormat)
	f.StringVar(&c.sourceURL, config.FlagURL, "", config.FlagDescURL)
	f.StringVar(&c.user, config.FlagUser, c.opts.SourceUser, config.FlagDescUser)
	f.StringVar(&c.photosDir, config.FlagPhotos, "", config.FlagDescPhotos)
	f.StringVar(&c.photoBaseURL, config.FlagPhotoBaseURL, c.opts.PhotoBaseURL, config.FlagDescPhotoBaseURL)
	f.StringVar(&c.dbPath, config.FlagDB, c.opts.DatabasePath, config.FlagDescDB)
	f.StringVar(&c.lang, config.FlagLang, c.opts.Language, config.FlagDescLang)

	serveCmd := &cobra.Command{
		Use:   config.CmdServe,
		Short: config.DescServe,
		Args:  cobra.NoArgs,
		RunE:  c.runServe,
	}
	serveCmd.Flags().StringVar(&c.addr, config.FlagAddr, c.opts.ListenAddr, config.FlagDescAddr)
	serveCmd.Flags().StringVar(&c.dbPath, config.FlagDB, c.opts.DatabasePath, config.FlagDescDB)

	loginCmd := &cobra.Command{
		Use:   config.CmdLogin,
		Short: config.DescLogin,
		Args:  cobra.NoArgs,
		RunE:  c.runLogin,
	}
	loginCmd.Flags().StringVar(&c.user, config.FlagUser, c.opts.SourceUser, config.FlagDescUser)

	versionCmd := &cobra.Command{
		Use:   config.CmdVersion,
		Short: config.DescVersion,
		Args:  cobra.NoArgs,
		// Version output must stay clean of startup logs.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd.OutOrStdout())
		},
	}

	rootCmd.AddCommand(importCmd, serveCmd, loginCmd, versionCmd)
	return rootCmd
}

// runImport reads one source, optionally matches photos and persists the
// contacts, then prints the Result as JSON.
func (c *cli) runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var name string
	switch {
	case len(args) == 1:
		name = args[0]
	case c.sourceURL != "":
		name = sourceName(c.sourceURL)
	default:
		return errors.New(config.ErrSourceMissing)
	}

	format := c.format
	if format == "" {
		detected, err := importer.DetectFormat(name)
		if err != nil {
			return err
		}
		format = detected
	}

	src, err := c.openSource(cmd, args)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	imp := importer.New(locale.New(c.lang))
	res := imp.ImportFile(format, src)

	if c.photosDir != "" {
		photos, err := importer.ScanPhotoDir(c.photosDir, c.photoBaseURL)
		if err != nil {
			return err
		}
		res.Contacts = importer.MapPhotos(res.Contacts, photos)
	}

	if res.Success && c.dbPath != "" {
		st, err := store.Open(c.dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		if err := st.Save(ctx, res.Contacts); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}

	if !res.Success {
		return errImportFailed
	}
	return nil
}

// openSource opens the local file argument, or fetches --url with the
// password resolved from the environment or the keyring.
func (c *cli) openSource(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrReadSource, err)
		}
		return f, nil
	}

	if c.fetcher == nil {
		return nil, errors.New(config.ErrFetcherMissing)
	}
	password, err := credentials.Resolve(c.user, c.opts.SourcePassword)
	if err != nil {
		return nil, err
	}
	return c.fetcher.Fetch(cmd.Context(), c.sourceURL, c.user, password)
}

// sourceName extracts a file name from a URL path for format detection.
func sourceName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return path.Base(u.Path)
}

func (c *cli) runServe(cmd *cobra.Command, args []string) error {
	var contacts server.ContactStore
	if c.dbPath != "" {
		st, err := store.Open(c.dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		contacts = st
	}

	if err := server.NewImportServer(c.addr, contacts).Start(cmd.Context()); err != nil {
		return err
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return nil
}

// runLogin reads a password line from stdin and stores it in the keyring.
func (c *cli) runLogin(cmd *cobra.Command, args []string) error {
	if c.user == "" {
		return errors.New(config.ErrUserRequired)
	}

	fmt.Fprint(cmd.ErrOrStderr(), config.MsgPasswordPrompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", config.ErrPasswordRead, err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return errors.New(config.ErrPasswordRead)
	}

	if err := credentials.Store(c.user, password); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), config.MsgPasswordStored, c.user)
	return nil
}
