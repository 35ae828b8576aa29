// Command selfplay plays bots from the registry against each other and
// stores every move in a parquet file.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/CharaWein/chessGo/bots"
	"github.com/CharaWein/chessGo/config"
	"github.com/CharaWein/chessGo/engine"
	"github.com/CharaWein/chessGo/game"
	"github.com/CharaWein/chessGo/record"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "JSON config file")
	white := flag.String("white", "engine", "bot playing white")
	black := flag.String("black", "newborn", "bot playing black")
	games := flag.Int("games", 10, "number of games to play")
	maxPlies := flag.Int("max-plies", 300, "stop a game after this many plies (0 = no limit)")
	swap := flag.Bool("swap", true, "swap colours after every game")
	outDir := flag.String("out-dir", "data/selfplay", "output directory for parquet files")
	budget := flag.Duration("budget", 0, "override the per-move time budget")
	noTUI := flag.Bool("no-tui", false, "log progress instead of showing the live view")
	workers := flag.Int("workers", 1, "games played in parallel")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *budget > 0 {
		cfg.TurnBudgetMs = int(budget.Milliseconds())
	}

	logger, closeLog, err := newLogger(cfg, *outDir, *noTUI)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()

	if *workers < 1 {
		*workers = 1
	}
	seed := cfg.EffectiveSeed()
	newRegistry := func(worker int) *bots.Registry {
		return bots.DefaultRegistry(cfg.Engine(), seed+100*int64(worker),
			engine.WithEvaluator(cfg.Evaluator()),
			engine.WithLogger(logger.With().Str("component", "engine").Int("worker", worker).Logger()),
		)
	}
	registry := newRegistry(0)
	for _, name := range []string{*white, *black} {
		if _, ok := registry.Get(name); !ok {
			fmt.Fprintf(os.Stderr, "unknown bot %q, have %v\n", name, registry.Names())
			os.Exit(2)
		}
	}

	w, err := record.NewWriter(*outDir, "selfplay")
	if err != nil {
		logger.Fatal().Err(err).Msg("open record writer")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	run := runner{
		newRegistry: newRegistry,
		white:       *white,
		black:       *black,
		games:       *games,
		workers:     *workers,
		maxPlies:    *maxPlies,
		swap:        *swap,
		writer:      w,
		logger:      logger,
		updates:     make(chan gameUpdate, 16),
	}
	go run.loop(ctx)

	if *noTUI {
		for u := range run.updates {
			logger.Info().
				Int64("game", u.ID).
				Str("white", u.White).
				Str("black", u.Black).
				Str("outcome", u.Outcome.String()).
				Int("plies", u.Plies).
				Msg("game finished")
		}
	} else {
		p := tea.NewProgram(newModel(run.updates, run.games))
		if _, err := p.Run(); err != nil {
			logger.Error().Err(err).Msg("tui")
		}
		cancel()
		for range run.updates {
		}
	}

	path, err := w.Close()
	if err != nil {
		logger.Fatal().Err(err).Msg("close record writer")
	}
	logger.Info().Str("path", path).Int("rows", w.Rows()).Int("games", w.Games()).Msg("records written")
	if path != "" {
		fmt.Println(path)
	}
}

// newLogger logs to the console, or to a file in outDir while the live
// view owns the terminal.
func newLogger(cfg config.Config, outDir string, console bool) (zerolog.Logger, func(), error) {
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	closeFn := func() {}
	if !console {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return zerolog.Nop(), closeFn, fmt.Errorf("create out dir: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(outDir, "selfplay.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), closeFn, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}
	return zerolog.New(out).Level(cfg.Level()).With().Timestamp().Logger(), closeFn, nil
}

type gameUpdate struct {
	ID      int64
	White   string
	Black   string
	Outcome chess.Outcome
	Method  chess.Method
	Plies   int
	Err     error
}

type runner struct {
	newRegistry  func(worker int) *bots.Registry
	white, black string
	games        int
	workers      int
	maxPlies     int
	swap         bool
	logger       zerolog.Logger
	updates      chan gameUpdate

	mu     sync.Mutex // guards writer
	writer *record.Writer
}

// loop hands game numbers to the workers. Bots keep per-search state, so
// every worker plays with its own registry.
func (r *runner) loop(ctx context.Context) {
	defer close(r.updates)

	jobs := make(chan int)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < r.games; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	})
	for w := 0; w < r.workers; w++ {
		registry := r.newRegistry(w)
		g.Go(func() error {
			for i := range jobs {
				r.play(ctx, registry, i)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (r *runner) play(ctx context.Context, registry *bots.Registry, i int) {
	white, black := r.white, r.black
	if r.swap && i%2 == 1 {
		white, black = black, white
	}

	s := game.NewSession(int64(i), game.WithLogger(r.logger))
	err := game.PlayOut(ctx, s, registry.MustGet(white), registry.MustGet(black), r.maxPlies)

	r.mu.Lock()
	werr := r.writer.Write(s.Records())
	r.mu.Unlock()
	if werr != nil {
		r.logger.Error().Err(werr).Int("game", i).Msg("write records")
	}
	if err != nil {
		r.logger.Error().Err(err).Int("game", i).Msg("game aborted")
	}

	select {
	case r.updates <- gameUpdate{
		ID:      int64(i),
		White:   white,
		Black:   black,
		Outcome: s.Outcome(),
		Method:  s.Method(),
		Plies:   s.Ply(),
		Err:     err,
	}:
	case <-ctx.Done():
	}
}
