package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"connect4/board"
	"connect4/bots"
	"connect4/game"
)

var (
	colorBlack     = color.RGBA{0, 0, 0, 255}
	colorBlue      = color.RGBA{0, 0, 255, 255}
	colorRed       = color.RGBA{255, 0, 0, 255}
	colorYellow    = color.RGBA{255, 255, 0, 255}
	colorGreen     = color.RGBA{0, 200, 0, 255}
	colorDarkGreen = color.RGBA{0, 150, 0, 255}
	colorDarkRed   = color.RGBA{150, 0, 0, 255}
	colorOverlay   = color.RGBA{0, 0, 0, 200}
	colorShadow    = color.RGBA{30, 30, 30, 255}
)

const (
	buttonWidth   = 200
	buttonHeight  = 70
	buttonSpacing = 30
)

var botCycle = bots.Names()

// Game is the desktop window. The top row is a header showing the disc about
// to be dropped; the grid sits below it.
type Game struct {
	ctrl       *game.Controller
	log        *zap.SugaredLogger
	squareSize int
	depth      int
	delay      time.Duration

	botMutex    sync.Mutex
	botThinking bool
	botFailed   bool // no automatic retry until a new game or bot
	botName     string
	botIndex    int
	lastErr     string

	hoverCol int
}

func NewGame(ctrl *game.Controller, botName string, squareSize, depth int, delay time.Duration, log *zap.SugaredLogger) *Game {
	g := &Game{
		ctrl:       ctrl,
		log:        log,
		squareSize: squareSize,
		depth:      depth,
		delay:      delay,
		botName:    ctrl.Bot().Name(),
		hoverCol:   board.CenterCol,
	}
	for i, name := range botCycle {
		if name == botName {
			g.botIndex = i
		}
	}
	return g
}

func (g *Game) width() int  { return board.Cols * g.squareSize }
func (g *Game) height() int { return (board.Rows + 1) * g.squareSize }

func (g *Game) Update() error {
	x, y := ebiten.CursorPosition()
	if col := x / g.squareSize; x >= 0 && col < board.Cols {
		g.hoverCol = col
	}

	g.botMutex.Lock()
	thinking := g.botThinking
	g.botMutex.Unlock()

	if g.ctrl.Outcome().Over {
		if thinking || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			return nil
		}
		tryAgain, exit := g.buttons()
		switch {
		case image.Pt(x, y).In(tryAgain):
			g.ctrl.Reset()
			g.clearBotFailure()
		case image.Pt(x, y).In(exit):
			return ebiten.Termination
		}
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyB) && !thinking {
		g.nextBot()
	}

	if g.ctrl.BotToMove() {
		if g.botMoveDue() {
			g.startBotMove()
		}
		return nil
	}

	if !thinking && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		_, err := g.ctrl.PlayHuman(g.hoverCol)
		switch {
		case err == nil:
			g.setLastErr("")
		case errors.Is(err, board.ErrColumnFull):
			g.setLastErr(fmt.Sprintf("Column %d is full", g.hoverCol+1))
		default:
			g.log.Warnw("human move rejected", "column", g.hoverCol, "error", err)
		}
	}
	return nil
}

func (g *Game) setLastErr(msg string) {
	g.botMutex.Lock()
	g.lastErr = msg
	g.botMutex.Unlock()
}

// botMoveDue reports whether a new bot move should be started.
func (g *Game) botMoveDue() bool {
	g.botMutex.Lock()
	defer g.botMutex.Unlock()
	return !g.botThinking && !g.botFailed && g.ctrl.BotToMove()
}

func (g *Game) startBotMove() {
	g.botMutex.Lock()
	g.botThinking = true
	g.botMutex.Unlock()

	go func() {
		time.Sleep(g.delay)
		_, err := g.ctrl.PlayBot()
		g.finishBotMove(err)
	}()
}

// finishBotMove records the end of a bot move. A failed move stays failed
// until clearBotFailure, so a broken bot is not asked again every frame.
func (g *Game) finishBotMove(err error) {
	g.botMutex.Lock()
	defer g.botMutex.Unlock()
	g.botThinking = false
	if err != nil {
		g.log.Errorw("bot move failed", "error", err)
		g.botFailed = true
		g.lastErr = "Bot failed, press B to switch bots"
	}
}

func (g *Game) clearBotFailure() {
	g.botMutex.Lock()
	defer g.botMutex.Unlock()
	g.botFailed = false
	g.lastErr = ""
}

func (g *Game) nextBot() {
	g.botIndex = (g.botIndex + 1) % len(botCycle)
	bot, err := bots.NewBot(botCycle[g.botIndex], g.ctrl.BotPiece(), g.depth, g.log)
	if err != nil {
		g.log.Errorw("switch bot", "error", err)
		return
	}
	g.ctrl.SetBot(bot)
	g.clearBotFailure()

	g.botMutex.Lock()
	g.botName = bot.Name()
	g.botMutex.Unlock()
}

// buttons returns the Try Again and Exit rectangles of the game over overlay.
func (g *Game) buttons() (image.Rectangle, image.Rectangle) {
	startX := (g.width() - (buttonWidth*2 + buttonSpacing)) / 2
	y := g.height()/2 + 20
	tryAgain := image.Rect(startX, y, startX+buttonWidth, y+buttonHeight)
	exit := tryAgain.Add(image.Pt(buttonWidth+buttonSpacing, 0))
	return tryAgain, exit
}

func pieceColor(p board.Piece) color.Color {
	switch p {
	case board.Player1:
		return colorRed
	case board.Player2:
		return colorYellow
	default:
		return colorBlack
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBlack)

	sq := float32(g.squareSize)
	radius := sq/2 - 5
	pos := g.ctrl.Board()
	outcome := g.ctrl.Outcome()

	if !outcome.Over && g.ctrl.Turn() == g.ctrl.HumanPiece() {
		cx := float32(g.hoverCol)*sq + sq/2
		vector.DrawFilledCircle(screen, cx, sq/2, radius, pieceColor(g.ctrl.HumanPiece()), true)
	}

	vector.DrawFilledRect(screen, 0, sq, sq*board.Cols, sq*board.Rows, colorBlue, false)
	for r := 0; r < board.Rows; r++ {
		for c := 0; c < board.Cols; c++ {
			cx := float32(c)*sq + sq/2
			cy := float32(r+1)*sq + sq/2
			vector.DrawFilledCircle(screen, cx, cy, radius, pieceColor(pos[r][c]), true)
		}
	}

	g.botMutex.Lock()
	status := "Your move"
	if g.botThinking {
		status = "Bot is thinking..."
	}
	botInfo := fmt.Sprintf("Bot: %s  [B] switch", g.botName)
	lastErr := g.lastErr
	g.botMutex.Unlock()

	ebitenutil.DebugPrintAt(screen, botInfo, 10, 4)
	if !outcome.Over {
		ebitenutil.DebugPrintAt(screen, status, 10, 20)
	}
	if lastErr != "" {
		ebitenutil.DebugPrintAt(screen, lastErr, 10, 36)
	}

	if outcome.Over {
		g.drawGameOver(screen, outcome)
	}
}

func (g *Game) drawGameOver(screen *ebiten.Image, outcome game.Outcome) {
	w, h := float32(g.width()), float32(g.height())
	vector.DrawFilledRect(screen, 0, 0, w, h, colorOverlay, false)

	msg := "It's a Draw!"
	switch outcome.Winner {
	case g.ctrl.HumanPiece():
		msg = "You Win!"
	case g.ctrl.BotPiece():
		msg = "Bot Wins!"
	}
	ebitenutil.DebugPrintAt(screen, msg, g.width()/2-len(msg)*3, g.height()/2-100)

	x, y := ebiten.CursorPosition()
	tryAgain, exit := g.buttons()
	drawButton(screen, "Try Again", tryAgain, colorGreen, colorDarkGreen, image.Pt(x, y).In(tryAgain))
	drawButton(screen, "Exit", exit, colorRed, colorDarkRed, image.Pt(x, y).In(exit))
}

func drawButton(screen *ebiten.Image, label string, r image.Rectangle, base, hover color.Color, hovered bool) {
	clr := base
	if hovered {
		clr = hover
	}
	x, y := float32(r.Min.X), float32(r.Min.Y)
	w, h := float32(r.Dx()), float32(r.Dy())
	vector.DrawFilledRect(screen, x+4, y+4, w, h, colorShadow, false)
	vector.DrawFilledRect(screen, x, y, w, h, clr, false)
	ebitenutil.DebugPrintAt(screen, label, r.Min.X+r.Dx()/2-len(label)*3, r.Min.Y+r.Dy()/2-8)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width(), g.height()
}
