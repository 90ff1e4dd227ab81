// Package preview shows the result of a pending line sort in the terminal and
// asks for confirmation before it is applied.
package preview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/sortlines/internal/config"
	"github.com/kobzarvs/sortlines/internal/sortlines"
)

// Decision is the outcome of a preview session.
type Decision int

const (
	Pending Decision = iota
	Accept
	Cancel
)

// View renders a document with its sort blocks highlighted. It shows either
// the current lines or the lines after the sort.
type View struct {
	before     []string
	after      []string
	inBlock    []bool
	blocks     int
	changed    int
	showAfter  bool
	scroll     int
	viewHeight int
	tabWidth   int
	title      string

	styleMain       tcell.Style
	styleBlock      tcell.Style
	styleLineNumber tcell.Style
	styleStatus     tcell.Style
}

// New builds a view of lines with blocks applied in the "after" state.
func New(opts config.PreviewOptions, title string, lines []string, blocks []sortlines.Block) *View {
	after := make([]string, len(lines))
	copy(after, lines)
	inBlock := make([]bool, len(lines))
	changed := 0
	for _, b := range blocks {
		for i, line := range b.Lines {
			row := b.Range.First + i
			if row < 0 || row >= len(lines) {
				continue
			}
			inBlock[row] = true
			if after[row] != line {
				changed++
			}
			after[row] = line
		}
	}

	tabWidth := opts.TabWidth
	if tabWidth < 1 {
		tabWidth = 1
	}
	mainFg := parseColor(opts.Foreground, tcell.ColorWhite)
	mainBg := parseColor(opts.Background, tcell.ColorBlack)
	blockFg := parseColor(opts.BlockForeground, mainFg)
	blockBg := parseColor(opts.BlockBackground, tcell.ColorNavy)
	lineNumberFg := parseColor(opts.LineNumberForeground, tcell.ColorGray)
	statusFg := parseColor(opts.StatuslineForeground, tcell.ColorBlack)
	statusBg := parseColor(opts.StatuslineBackground, tcell.ColorGray)
	return &View{
		before:          lines,
		after:           after,
		inBlock:         inBlock,
		blocks:          len(blocks),
		changed:         changed,
		showAfter:       true,
		tabWidth:        tabWidth,
		title:           title,
		styleMain:       tcell.StyleDefault.Foreground(mainFg).Background(mainBg),
		styleBlock:      tcell.StyleDefault.Foreground(blockFg).Background(blockBg),
		styleLineNumber: tcell.StyleDefault.Foreground(lineNumberFg).Background(mainBg),
		styleStatus:     tcell.StyleDefault.Foreground(statusFg).Background(statusBg),
	}
}

// Changed returns the number of lines the sort moves.
func (v *View) Changed() int {
	return v.changed
}

func (v *View) lines() []string {
	if v.showAfter {
		return v.after
	}
	return v.before
}

// HandleKey updates the view for ev and reports whether the session is over.
func (v *View) HandleKey(ev *tcell.EventKey) Decision {
	switch ev.Key() {
	case tcell.KeyEnter:
		return Accept
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return Cancel
	case tcell.KeyTab:
		v.showAfter = !v.showAfter
	case tcell.KeyUp:
		v.scrollBy(-1)
	case tcell.KeyDown:
		v.scrollBy(1)
	case tcell.KeyPgUp:
		v.scrollBy(-v.pageSize())
	case tcell.KeyPgDn:
		v.scrollBy(v.pageSize())
	case tcell.KeyHome:
		v.scroll = 0
	case tcell.KeyEnd:
		v.scrollBy(len(v.before))
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'y':
			return Accept
		case 'n', 'q':
			return Cancel
		case 'k':
			v.scrollBy(-1)
		case 'j':
			v.scrollBy(1)
		}
	}
	return Pending
}

func (v *View) pageSize() int {
	if v.viewHeight < 1 {
		return 1
	}
	return v.viewHeight
}

func (v *View) scrollBy(n int) {
	v.scroll += n
	maxScroll := len(v.before) - v.pageSize()
	if v.scroll > maxScroll {
		v.scroll = maxScroll
	}
	if v.scroll < 0 {
		v.scroll = 0
	}
}

// Render draws the view with a status line on the last row.
func (v *View) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	viewHeight := h - 1
	if viewHeight < 0 {
		viewHeight = 0
	}
	v.viewHeight = viewHeight

	s.SetStyle(v.styleMain)
	s.Clear()

	lines := v.lines()
	gutterWidth := gutterWidth(len(lines))
	for y := 0; y < viewHeight; y++ {
		row := v.scroll + y
		if row >= len(lines) {
			clearLine(s, y, w, v.styleMain)
			continue
		}
		style := v.styleMain
		if v.inBlock[row] {
			style = v.styleBlock
		}
		clearLine(s, y, w, style)
		numStr := fmt.Sprintf(" %*d ", gutterWidth-2, row+1)
		drawString(s, 0, y, w, numStr, v.styleLineNumber)
		drawLine(s, gutterWidth, y, w, lines[row], v.tabWidth, style)
	}

	state := "after"
	if !v.showAfter {
		state = "before"
	}
	left := fmt.Sprintf(" %s [%s] %d block(s), %d line(s) moved", v.title, state, v.blocks, v.changed)
	right := "enter:apply esc:cancel tab:toggle "
	status := composeStatusLine(left, right, w)
	for x, r := range status {
		s.SetContent(x, h-1, r, nil, v.styleStatus)
	}
	s.HideCursor()
	s.Show()
}

// Run shows the view until the user accepts or cancels.
func Run(s tcell.Screen, v *View) Decision {
	v.Render(s)
	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			return Cancel
		case *tcell.EventKey:
			if d := v.HandleKey(ev); d != Pending {
				return d
			}
		case *tcell.EventResize:
			s.Sync()
		}
		v.Render(s)
	}
}

func gutterWidth(lineCount int) int {
	if lineCount < 1 {
		lineCount = 1
	}
	digits := len(strconv.Itoa(lineCount))
	if digits < 2 {
		digits = 2
	}
	return 1 + digits + 1
}

func clearLine(s tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

func drawString(s tcell.Screen, x, y, w int, str string, style tcell.Style) {
	for _, r := range str {
		if x >= w {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// drawLine draws line starting at column startX, expanding tabs and giving
// wide runes two cells.
func drawLine(s tcell.Screen, startX, y, w int, line string, tabWidth int, style tcell.Style) {
	col := 0
	for _, r := range line {
		x := startX + col
		if x >= w {
			return
		}
		if r == '\t' {
			col += tabWidth - (col % tabWidth)
			continue
		}
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > w {
			return
		}
		s.SetContent(x, y, r, nil, style)
		col += rw
	}
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	spaceCount := width - len(leftRunes) - len(rightRunes)
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	line = append(line, []rune(strings.Repeat(" ", spaceCount))...)
	line = append(line, rightRunes...)
	return line
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
