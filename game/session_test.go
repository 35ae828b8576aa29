package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CharaWein/chessGo/bots"
	"github.com/notnil/chess"
)

func TestPlayOutRecordsEveryMove(t *testing.T) {
	s := NewSession(3)
	err := PlayOut(context.Background(), s, bots.NewNewbornBot(), bots.NewRandomBot(5), 30)
	if err != nil {
		t.Fatal(err)
	}

	records := s.Records()
	if len(records) != s.Ply() || s.Ply() == 0 {
		t.Fatalf("%d records for %d plies", len(records), s.Ply())
	}
	for i, r := range records {
		if r.Game != 3 || int(r.Ply) != i || r.White != (i%2 == 0) {
			t.Fatalf("record %d malformed: %+v", i, r)
		}
		wantPlayer := "Newborn"
		if !r.White {
			wantPlayer = "Random Bot"
		}
		if r.Player != wantPlayer || r.Depth != -1 {
			t.Fatalf("record %d: %+v", i, r)
		}
	}
	if records[0].FEN != chess.StartingPosition().String() {
		t.Fatalf("first record FEN = %s", records[0].FEN)
	}
}

func TestPlayOutStopsAtPlyLimit(t *testing.T) {
	s := NewSession(1)
	if err := PlayOut(context.Background(), s, bots.NewRandomBot(1), bots.NewRandomBot(2), 6); err != nil {
		t.Fatal(err)
	}
	if s.Ply() != 6 {
		t.Fatalf("played %d plies, want 6", s.Ply())
	}
}

func TestPlayOutHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := PlayOut(ctx, NewSession(1), bots.NewRandomBot(1), bots.NewRandomBot(2), 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestPlayBotRecordsSearch(t *testing.T) {
	opt, err := WithFEN("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	s := NewSession(9, opt)

	rec, err := s.PlayBot(context.Background(), bots.NewMinimaxBot(3, 5*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if rec.UCI != "a1a8" || !rec.Mate || rec.Depth < 1 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if s.Outcome() != chess.WhiteWon || s.Method() != chess.Checkmate {
		t.Fatalf("outcome %s by %s", s.Outcome(), s.Method())
	}

	if _, err := s.PlayBot(context.Background(), bots.NewRandomBot(1)); !errors.Is(err, ErrGameOver) {
		t.Fatalf("err = %v, want ErrGameOver", err)
	}
}

func TestPlayHuman(t *testing.T) {
	s := NewSession(1)
	if _, err := s.PlayHuman("me", chess.E2, chess.E5, chess.NoPieceType); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("err = %v, want ErrIllegalMove", err)
	}
	rec, err := s.PlayHuman("me", chess.E2, chess.E4, chess.NoPieceType)
	if err != nil {
		t.Fatal(err)
	}
	if rec.UCI != "e2e4" || rec.Player != "me" || !rec.White {
		t.Fatalf("record %+v", rec)
	}

	opt, err := WithFEN("8/P3k3/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	promo := NewSession(2, opt)
	rec, err = promo.PlayHuman("me", chess.A7, chess.A8, chess.NoPieceType)
	if err != nil {
		t.Fatal(err)
	}
	if rec.UCI != "a7a8q" {
		t.Fatalf("default promotion = %s", rec.UCI)
	}
}

func TestWithFENRejectsGarbage(t *testing.T) {
	if _, err := WithFEN("not a position"); err == nil {
		t.Fatalf("expected an error")
	}
}

// gatedBot blocks in BestMove until released.
type gatedBot struct {
	started chan struct{}
	release chan struct{}
}

func (b gatedBot) BestMove(game *chess.Game) *chess.Move {
	close(b.started)
	<-b.release
	return game.ValidMoves()[0]
}

func (gatedBot) Name() string { return "gated" }

func TestBotToMove(t *testing.T) {
	s := NewSession(1)
	if s.BotToMove(chess.White) || !s.BotToMove(chess.Black) {
		t.Fatalf("white to move: bot should move only against a black human")
	}

	opt, err := WithFEN("R5k1/5ppp/8/8/8/8/8/6K1 b - - 1 1")
	if err != nil {
		t.Fatal(err)
	}
	mated := NewSession(2, opt)
	if mated.BotToMove(chess.White) || mated.BotToMove(chess.Black) {
		t.Fatalf("finished game still waits for a bot")
	}
}

func TestStaleSearchLeavesTurnPending(t *testing.T) {
	s := NewSession(1)
	bot := gatedBot{started: make(chan struct{}), release: make(chan struct{})}

	errc := make(chan error, 1)
	go func() {
		_, err := s.PlayBot(context.Background(), bot)
		errc <- err
	}()
	<-bot.started

	// The human answers first; the search result no longer fits.
	if _, err := s.PlayHuman("me", chess.E2, chess.E4, chess.NoPieceType); err != nil {
		t.Fatal(err)
	}
	close(bot.release)
	if err := <-errc; !errors.Is(err, ErrStale) {
		t.Fatalf("err = %v, want ErrStale", err)
	}

	if s.Ply() != 1 || !s.BotToMove(chess.White) {
		t.Fatalf("bot turn not pending after a stale search: ply %d", s.Ply())
	}
	if fresh := NewSession(2); !fresh.BotToMove(chess.Black) {
		t.Fatalf("new game with a black human must wait for the bot")
	}
}
