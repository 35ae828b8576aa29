package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"
	"sync"
	"time"

	"github.com/CharaWein/chessGo/bots"
	"github.com/CharaWein/chessGo/config"
	"github.com/CharaWein/chessGo/engine"
	"github.com/CharaWein/chessGo/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/notnil/chess"
)

var (
	screenWidth  int
	screenHeight int
	squareSize   int
)

var (
	lightSquare = color.RGBA{240, 217, 181, 255}
	darkSquare  = color.RGBA{181, 136, 99, 255}
	selected    = color.RGBA{120, 170, 90, 255}
	whiteFill   = color.RGBA{250, 250, 245, 255}
	blackFill   = color.RGBA{30, 30, 30, 255}
)

type Game struct {
	session      *game.Session
	selected     chess.Square
	dragging     *chess.Piece
	dragX, dragY int
	playerColor  chess.Color
	gameStarted  bool
	boardOffsetX int
	boardOffsetY int

	botMutex    sync.Mutex
	botThinking bool
	bots        *bots.Registry
	currentBot  string
	lastInfo    string
}

func NewGame(registry *bots.Registry, bot string) *Game {
	screenWidth, screenHeight = ebiten.ScreenSizeInFullscreen()

	// Leave room for the status lines above and below the board.
	boardHeight := screenHeight - 80
	squareSize = boardHeight / 8
	if screenWidth/8 < squareSize {
		squareSize = screenWidth / 8
	}

	boardWidth := squareSize * 8
	return &Game{
		bots:         registry,
		currentBot:   bot,
		selected:     chess.NoSquare,
		boardOffsetX: (screenWidth - boardWidth) / 2,
		boardOffsetY: (screenHeight - boardHeight) / 2,
	}
}

func (g *Game) Update() error {
	if !g.gameStarted {
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			x, y := ebiten.CursorPosition()
			btnWidth := 200
			btnHeight := 60
			btnY := screenHeight/2 + 100

			if y > btnY && y < btnY+btnHeight {
				if x > screenWidth/2-btnWidth-20 && x < screenWidth/2-20 {
					g.startGame(chess.White)
				} else if x > screenWidth/2+20 && x < screenWidth/2+20+btnWidth {
					g.startGame(chess.Black)
				}
			}
		}
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		g.botMutex.Lock()
		g.currentBot = g.bots.Next(g.currentBot)
		g.botMutex.Unlock()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.gameStarted = false
		return nil
	}

	// Any turn left to the bot gets a search, including after a new game
	// started while an old search was still running.
	if g.session.BotToMove(g.playerColor) {
		if !g.isThinking() {
			g.startBotMove()
		}
		return nil
	}
	if g.isThinking() || g.session.Outcome() != chess.NoOutcome {
		return nil
	}

	pos := g.session.Position()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if sq, ok := g.squareAt(ebiten.CursorPosition()); ok {
			piece := pos.Board().Piece(sq)
			if piece != chess.NoPiece && piece.Color() == g.playerColor {
				g.selected = sq
				g.dragging = &piece
			}
		}
	}
	if g.dragging != nil {
		g.dragX, g.dragY = ebiten.CursorPosition()
	}

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) && g.dragging != nil {
		if target, ok := g.squareAt(ebiten.CursorPosition()); ok && target != g.selected {
			if _, err := g.session.PlayHuman("human", g.selected, target, chess.Queen); err != nil {
				log.Printf("move rejected: %v", err)
			}
		}
		g.selected = chess.NoSquare
		g.dragging = nil
	}
	return nil
}

// squareAt maps screen coordinates to a board square, seen from the
// player's side.
func (g *Game) squareAt(x, y int) (chess.Square, bool) {
	x -= g.boardOffsetX
	y -= g.boardOffsetY
	if x < 0 || x >= squareSize*8 || y < 0 || y >= squareSize*8 {
		return chess.NoSquare, false
	}
	file, rank := x/squareSize, 7-y/squareSize
	if g.playerColor == chess.Black {
		file, rank = 7-file, 7-rank
	}
	return chess.Square(file + rank*8), true
}

func (g *Game) screenPos(sq chess.Square) (float64, float64) {
	file, rank := int(sq)%8, int(sq)/8
	if g.playerColor == chess.Black {
		file, rank = 7-file, 7-rank
	}
	return float64(file*squareSize + g.boardOffsetX), float64((7-rank)*squareSize + g.boardOffsetY)
}

func (g *Game) startGame(player chess.Color) {
	g.playerColor = player
	g.session = game.NewSession(time.Now().Unix())
	g.gameStarted = true
	g.lastInfo = ""
}

func (g *Game) isThinking() bool {
	g.botMutex.Lock()
	defer g.botMutex.Unlock()
	return g.botThinking
}

func (g *Game) startBotMove() {
	g.botMutex.Lock()
	if g.botThinking || !g.session.BotToMove(g.playerColor) {
		g.botMutex.Unlock()
		return
	}
	g.botThinking = true
	bot := g.bots.MustGet(g.currentBot)
	session := g.session
	g.botMutex.Unlock()

	go func() {
		rec, err := session.PlayBot(context.Background(), bot)

		g.botMutex.Lock()
		defer g.botMutex.Unlock()
		g.botThinking = false
		if err != nil {
			log.Printf("bot move error: %v", err)
			return
		}
		if rec.Depth >= 0 {
			g.lastInfo = fmt.Sprintf("%s: %s depth %d score %d nodes %d (%dms)", bot.Name(), rec.UCI, rec.Depth, rec.Score, rec.Nodes, rec.ElapsedMs)
		} else {
			g.lastInfo = fmt.Sprintf("%s: %s", bot.Name(), rec.UCI)
		}
	}()
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.botMutex.Lock()
	botName := g.bots.MustGet(g.currentBot).Name()
	thinking := g.botThinking
	info := g.lastInfo
	g.botMutex.Unlock()

	ebitenutil.DebugPrintAt(screen, "Bot: "+botName+"  (B: next bot, N: new game)", 20, screenHeight-40)

	if !g.gameStarted {
		ebitenutil.DebugPrintAt(screen, "Chess in Go", screenWidth/2-40, screenHeight/2-50)
		ebitenutil.DebugPrintAt(screen, "Choose your colour:", screenWidth/2-60, screenHeight/2)

		vector.DrawFilledRect(screen, float32(screenWidth/2-220), float32(screenHeight/2+100), 200, 60, color.RGBA{200, 200, 200, 255}, false)
		ebitenutil.DebugPrintAt(screen, "Play white", screenWidth/2-160, screenHeight/2+122)
		vector.DrawFilledRect(screen, float32(screenWidth/2+20), float32(screenHeight/2+100), 200, 60, color.RGBA{50, 50, 50, 255}, false)
		ebitenutil.DebugPrintAt(screen, "Play black", screenWidth/2+80, screenHeight/2+122)
		return
	}

	pos := g.session.Position()
	for sq := chess.A1; sq <= chess.H8; sq++ {
		x, y := g.screenPos(sq)
		clr := color.Color(lightSquare)
		if (int(sq)%8+int(sq)/8)%2 == 0 {
			clr = darkSquare
		}
		if sq == g.selected && g.dragging != nil {
			clr = selected
		}
		vector.DrawFilledRect(screen, float32(x), float32(y), float32(squareSize), float32(squareSize), clr, false)

		piece := pos.Board().Piece(sq)
		if piece != chess.NoPiece && (g.dragging == nil || sq != g.selected) {
			drawPiece(screen, piece, x+float64(squareSize)/2, y+float64(squareSize)/2)
		}
	}
	if g.dragging != nil {
		drawPiece(screen, *g.dragging, float64(g.dragX), float64(g.dragY))
	}

	status := "Your move"
	switch {
	case g.session.Outcome() != chess.NoOutcome:
		status = fmt.Sprintf("Result: %s (%s)", g.session.Outcome(), g.session.Method())
	case thinking:
		status = "Bot is thinking..."
	case pos.Turn() != g.playerColor:
		status = "Bot to move"
	}
	ebitenutil.DebugPrintAt(screen, status, 20, 20)
	if info != "" {
		ebitenutil.DebugPrintAt(screen, info, 20, 40)
	}
}

// drawPiece draws a disc in the piece's colour with its letter on top.
func drawPiece(screen *ebiten.Image, piece chess.Piece, cx, cy float64) {
	fill, ring := color.Color(whiteFill), color.Color(blackFill)
	if piece.Color() == chess.Black {
		fill, ring = blackFill, whiteFill
	}
	r := float32(squareSize) * 0.38
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), r, ring, true)
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), r-2, fill, true)

	letter := piece.Type().String()
	if piece.Color() == chess.White {
		letter = upper(letter)
	}
	op := &ebiten.DrawImageOptions{}
	scale := float64(squareSize) / 40
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(cx-3*scale, cy-8*scale)
	if piece.Color() == chess.White {
		op.ColorScale.Scale(0, 0, 0, 1)
	}
	screen.DrawImage(glyph(letter), op)
}

var glyphs = map[string]*ebiten.Image{}

func glyph(letter string) *ebiten.Image {
	if img, ok := glyphs[letter]; ok {
		return img
	}
	img := ebiten.NewImage(8, 16)
	ebitenutil.DebugPrint(img, letter)
	glyphs[letter] = img
	return img
}

func upper(s string) string {
	if len(s) == 1 && s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0] - 'a' + 'A')
	}
	return s
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	configPath := flag.String("config", "", "JSON config file")
	bot := flag.String("bot", "engine", "bot to start with")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	registry := bots.DefaultRegistry(cfg.Engine(), cfg.EffectiveSeed(), engine.WithEvaluator(cfg.Evaluator()))
	if _, ok := registry.Get(*bot); !ok {
		log.Fatalf("unknown bot %q, have %v", *bot, registry.Names())
	}

	g := NewGame(registry, *bot)
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Chess in Go")
	ebiten.SetWindowResizable(true)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
