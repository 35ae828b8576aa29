package main

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"time"

	"github.com/CharaWein/chessGo/board"
	"github.com/CharaWein/chessGo/config"
	"github.com/CharaWein/chessGo/engine"
	"github.com/gorilla/websocket"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"
)

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type analysisRequest struct {
	FEN      string `json:"fen"`
	BudgetMs int    `json:"budget_ms"`
	MaxDepth int    `json:"max_depth"`
}

type iterationPayload struct {
	Depth     int    `json:"depth"`
	Move      string `json:"move"`
	Score     int    `json:"score"`
	Ties      int    `json:"ties"`
	Nodes     uint64 `json:"nodes"`
	QNodes    uint64 `json:"qnodes"`
	ElapsedMs int64  `json:"elapsed_ms"`
	TimedOut  bool   `json:"timed_out"`
}

type resultPayload struct {
	FEN       string `json:"fen"`
	Move      string `json:"move"`
	SAN       string `json:"san"`
	Score     int    `json:"score"`
	Depth     int    `json:"depth"`
	Nodes     uint64 `json:"nodes"`
	QNodes    uint64 `json:"qnodes"`
	CacheSize int    `json:"cache_size"`
	ElapsedMs int64  `json:"elapsed_ms"`
	TimedOut  bool   `json:"timed_out"`
	Mate      bool   `json:"mate"`
	Forced    bool   `json:"forced"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

var errNoLegalMoves = errors.New("position has no legal moves")

type server struct {
	cfg       config.Config
	maxBudget time.Duration
	logger    zerolog.Logger
	seed      int64
}

func newServer(cfg config.Config, maxBudget time.Duration, logger zerolog.Logger) *server {
	return &server{cfg: cfg, maxBudget: maxBudget, logger: logger, seed: cfg.EffectiveSeed()}
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// client queues outgoing messages for the connection's writer goroutine.
type client struct {
	send chan []byte
	done chan struct{}
}

func (c *client) sendJSON(msg wsMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		return false
	}
	select {
	case c.send <- data:
		return true
	case <-c.done:
		return false
	}
}

func (s *server) serveWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade")
		return
	}

	c := &client{send: make(chan []byte, 16), done: make(chan struct{})}
	go func() {
		defer close(c.done)
		defer conn.Close()
		if err := writeLoop(conn, c.send); err != nil {
			s.logger.Debug().Err(err).Msg("websocket write")
		}
	}()
	defer close(c.send)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	keepAlive(conn)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.logger.Debug().Err(err).Msg("websocket read")
			return
		}
		var req analysisRequest
		if err := json.Unmarshal(data, &req); err != nil {
			c.sendJSON(wsMessage{Type: "error", Payload: mustMarshal(errorPayload{Error: "invalid request: " + err.Error()})})
			continue
		}
		if err := s.analyze(ctx, req, c); err != nil {
			c.sendJSON(wsMessage{Type: "error", Payload: mustMarshal(errorPayload{Error: err.Error()})})
		}
		rearm(conn)
	}
}

// analyze searches one position, streaming every iteration to c.
func (s *server) analyze(ctx context.Context, req analysisRequest, c *client) error {
	pos, err := board.FromFEN(req.FEN)
	if err != nil {
		return err
	}
	if len(pos.AppendLegalMoves(nil, false)) == 0 {
		return errNoLegalMoves
	}

	cfg := s.cfg.Engine()
	if req.BudgetMs > 0 {
		cfg.TurnBudget = time.Duration(req.BudgetMs) * time.Millisecond
	}
	if s.maxBudget > 0 && cfg.TurnBudget > s.maxBudget {
		cfg.TurnBudget = s.maxBudget
	}
	if req.MaxDepth > 0 {
		cfg.MaxDepth = req.MaxDepth
	}

	e := engine.New(cfg,
		engine.WithEvaluator(s.cfg.Evaluator()),
		engine.WithRand(rand.New(rand.NewSource(s.seed))),
		engine.WithLogger(s.logger.With().Str("fen", req.FEN).Logger()),
		engine.WithIterationHook(func(it engine.Iteration) {
			c.sendJSON(wsMessage{Type: "iteration", Payload: mustMarshal(iterationPayload{
				Depth:     it.Depth,
				Move:      it.Move.String(),
				Score:     it.Score,
				Ties:      it.Ties,
				Nodes:     it.Nodes,
				QNodes:    it.QNodes,
				ElapsedMs: it.Elapsed.Milliseconds(),
				TimedOut:  it.TimedOut,
			})})
		}),
	)

	res := e.Think(ctx, pos, engine.StartTimer())
	out := resultPayload{
		FEN:       pos.Position().String(),
		Move:      res.Move.String(),
		Score:     res.Score,
		Depth:     res.Depth,
		Nodes:     res.Nodes,
		QNodes:    res.QNodes,
		CacheSize: res.CacheSize,
		ElapsedMs: res.Elapsed.Milliseconds(),
		TimedOut:  res.TimedOut,
		Mate:      res.Mate,
		Forced:    res.Forced,
	}
	if cm, ok := pos.ToChess(res.Move); ok {
		out.SAN = chess.AlgebraicNotation{}.Encode(pos.Position(), cm)
	}
	s.logger.Info().Str("fen", out.FEN).Str("move", out.Move).Int("depth", out.Depth).Int("score", out.Score).Msg("analysis done")
	c.sendJSON(wsMessage{Type: "result", Payload: mustMarshal(out)})
	return nil
}
