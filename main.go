package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/terminalmumble/app"
	"github.com/CrestNiraj12/terminalmumble/domain"
	"github.com/CrestNiraj12/terminalmumble/infra/auth"
	"github.com/CrestNiraj12/terminalmumble/infra/config"
	"github.com/CrestNiraj12/terminalmumble/infra/editor"
	"github.com/CrestNiraj12/terminalmumble/infra/logging"
	"github.com/CrestNiraj12/terminalmumble/infra/qwacker"
	"github.com/CrestNiraj12/terminalmumble/postdetail"
	"github.com/CrestNiraj12/terminalmumble/session"
	"github.com/CrestNiraj12/terminalmumble/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type cliMode int

const (
	cliRun cliMode = iota
	cliVersion
	cliHelp
	cliNewPost
	cliInvalid
)

type cliOptions struct {
	PostID string
	Text   string // --new
	Image  string
}

func parseCLIArgs(args []string) (cliMode, cliOptions, string) {
	var opts cliOptions
	var showVersion, showHelp bool

	fs := pflag.NewFlagSet("terminalmumble", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVarP(&showVersion, "version", "v", false, "print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "print usage and exit")
	fs.StringVar(&opts.PostID, "post", "", "ID of the mumble to open")
	fs.StringVar(&opts.Text, "new", "", "publish a new mumble with this text and exit")
	fs.StringVar(&opts.Image, "image", "", "image file to attach to --new")

	if err := fs.Parse(args); err != nil {
		return cliInvalid, opts, err.Error()
	}
	if showVersion {
		return cliVersion, opts, ""
	}
	if showHelp {
		return cliHelp, opts, ""
	}

	rest := fs.Args()
	if len(rest) == 1 && rest[0] == "help" {
		return cliHelp, opts, ""
	}
	if len(rest) > 1 || (len(rest) == 1 && opts.PostID != "") {
		return cliInvalid, opts, fmt.Sprintf("unexpected argument: %s", strings.Join(rest, " "))
	}
	if len(rest) == 1 {
		opts.PostID = rest[0]
	}
	opts.PostID = strings.TrimSpace(opts.PostID)

	if fs.Changed("new") {
		if strings.TrimSpace(opts.Text) == "" {
			return cliInvalid, opts, "--new needs text"
		}
		return cliNewPost, opts, ""
	}
	if opts.Image != "" {
		return cliInvalid, opts, "--image is only valid with --new"
	}
	return cliRun, opts, ""
}

func usage() string {
	return "Usage: terminalmumble [--version|-v] [--help|-h] [--post ID | ID] [--new TEXT [--image PATH]]"
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

var errNoPosts = errors.New("no mumbles to show")

// resolvePostID picks the post to open: the explicit ID, then the one shown
// last time, then the newest post.
func resolvePostID(ctx context.Context, explicit string, state config.UIState, posts app.PostService, token string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if state.LastPostID != "" {
		return state.LastPostID, nil
	}
	page, err := posts.Posts(ctx, token, app.PostsQuery{Limit: 1})
	if err != nil {
		return "", fmt.Errorf("finding newest mumble: %w", err)
	}
	if len(page.Posts) == 0 {
		return "", errNoPosts
	}
	return page.Posts[0].ID, nil
}

func tokenProvider(cfg config.Config) auth.TokenProvider {
	if cfg.Token != "" {
		return auth.StaticTokenProvider(cfg.Token)
	}
	return auth.NewFileTokenProvider(cfg.TokenPath)
}

func publish(ctx context.Context, posts app.PostService, sess domain.Session, opts cliOptions) (domain.Post, error) {
	if !sess.Authenticated() {
		return domain.Post{}, domain.ErrNoSession
	}
	var image *app.Upload
	if opts.Image != "" {
		f, err := os.Open(opts.Image)
		if err != nil {
			return domain.Post{}, fmt.Errorf("opening image: %w", err)
		}
		defer f.Close()
		image = &app.Upload{Filename: filepath.Base(opts.Image), Content: f}
	}
	return posts.CreatePost(ctx, opts.Text, image, sess.AccessToken)
}

func main() {
	mode, opts, msg := parseCLIArgs(os.Args[1:])
	switch mode {
	case cliVersion:
		v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
		fmt.Printf("terminalmumble %s\ncommit: %s\nbuilt: %s\n", v, c, d)
		return
	case cliHelp:
		fmt.Println(usage())
		return
	case cliInvalid:
		fmt.Fprintf(os.Stderr, "%s\n%s\n", msg, usage())
		os.Exit(2)
	}

	// 1. Load config from environment.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogPath, cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// 2. Build infrastructure.
	tp := tokenProvider(cfg)
	raw, err := auth.LoadSession(tp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "session: %v\n", err)
		os.Exit(1)
	}
	if raw.Expired(time.Now()) {
		logger.Warn("access token expired", zap.Time("expires_at", raw.ExpiresAt))
	}

	client := qwacker.NewClient(cfg.APIURL, &http.Client{Timeout: 30 * time.Second})

	// 3. Build services (concrete types satisfy app.* interfaces).
	userSvc := qwacker.NewUserService(client)
	postSvc := qwacker.NewPostService(client, userSvc)
	likeSvc := qwacker.NewLikeService(client)
	replySvc := qwacker.NewReplyService(client)

	ctx := context.Background()

	if mode == cliNewPost {
		post, err := publish(ctx, postSvc, raw, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "terminalmumble: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("posted %s\n", post.ID)
		return
	}

	uiState, err := config.LoadUIState(cfg.UIStatePath)
	if err != nil {
		logger.Warn("ui state unreadable", zap.Error(err))
	}
	postID, err := resolvePostID(ctx, opts.PostID, uiState, postSvc, raw.AccessToken)
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminalmumble: %v\n", err)
		os.Exit(1)
	}

	enricher := session.NewEnricher(userSvc, logger)

	// 4. Wire root TUI model.
	rootModel := tui.NewApp(tui.Deps{
		Posts:       postSvc,
		Coordinator: postdetail.NewCoordinator(postID, likeSvc, replySvc, logger),
		Watcher:     session.NewWatcher(enricher),
		Session:     raw,
		LoadSession: func() (domain.Session, error) { return auth.LoadSession(tp) },
		Editor:      editor.NewEnvEditor(),
		Logger:      logger,
	})

	// 5. Run.
	p := tea.NewProgram(rootModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "terminalmumble: %v\n", err)
		os.Exit(1)
	}

	if err := config.SaveUIState(cfg.UIStatePath, config.UIState{LastPostID: postID}); err != nil {
		logger.Warn("saving ui state failed", zap.Error(err))
	}
}
