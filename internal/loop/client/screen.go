package client

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/tomz197/neoncatch/internal/avatar"
	"github.com/tomz197/neoncatch/internal/draw"
	"github.com/tomz197/neoncatch/internal/loop"
	"github.com/tomz197/neoncatch/internal/object"
)

const tweetIntent = "https://twitter.com/intent/tweet"

// drawFrame draws the current frame.
func (c *Client) drawFrame(now time.Time) error {
	// On view or inactivity transitions, do a full terminal clear so UI
	// elements from the previous view don't persist on screen.
	if c.view != c.prevView || c.inactive != c.wasInactive {
		c.chunkWriter.Clear()
		c.canvas.ForceRedraw()
		c.prevView = c.view
		c.wasInactive = c.inactive
	}

	c.canvas.Clear()
	c.links = c.links[:0]

	cols, rows := c.canvas.Size()
	switch {
	case c.tooSmall:
		c.drawTooSmall(cols, rows)
	case c.view == ViewShutdown:
		c.drawShutdownScreen(rows, now)
	case c.inactive:
		c.drawInactivityScreen(rows, now)
	case c.view == ViewPlaying:
		c.drawPlayfield(cols, rows)
		c.drawHUD(cols)
	case c.view == ViewStart:
		c.drawStartScreen(rows, now)
	case c.view == ViewEnded:
		c.drawPlayfield(cols, rows)
		c.drawHUD(cols)
		c.drawEndScreen(rows, now)
	}

	c.canvas.Render(c.chunkWriter, c.palette)

	// Links go over the already rendered label text.
	for _, l := range c.links {
		label := c.palette.Render(draw.StyleLink, l.label)
		c.chunkWriter.WriteAt(l.col+1, l.row+1, draw.Hyperlink(l.url, label))
	}

	return c.chunkWriter.Flush()
}

// field is the playfield area below the HUD and above the help line.
func field(cols, rows int) draw.Rect {
	return draw.Rect{Col: 1, Row: 2, Cols: cols - 2, Rows: rows - 4}
}

// drawPlayfield draws the frame, the entities and the player.
func (c *Client) drawPlayfield(cols, rows int) {
	cv := c.canvas
	f := field(cols, rows)
	s := &c.snap

	for row := f.Row - 1; row <= f.Row+f.Rows; row++ {
		cv.Set(0, row, '│', draw.StyleFrame)
		cv.Set(cols-1, row, '│', draw.StyleFrame)
	}
	for col := 1; col < cols-1; col++ {
		cv.Set(col, f.Row-1, '─', draw.StyleFrame)
		cv.Set(col, f.Row+f.Rows, '─', draw.StyleFrame)
	}
	cv.Set(0, f.Row-1, '┌', draw.StyleFrame)
	cv.Set(cols-1, f.Row-1, '┐', draw.StyleFrame)
	cv.Set(0, f.Row+f.Rows, '└', draw.StyleFrame)
	cv.Set(cols-1, f.Row+f.Rows, '┘', draw.StyleFrame)

	for i := range s.Particles {
		p := &s.Particles[i]
		col, row := f.Project(p.X, p.Y)
		if !f.Contains(col, row) {
			continue
		}
		cv.Set(col, row, sparkRune(p.Fade()), sparkStyle(p.Fade()))
	}

	c.drawAvatar(f, s.PlayerX)

	for i := range s.Tokens {
		t := &s.Tokens[i]
		col, row := f.Project(t.X, t.Y)
		if row < f.Row || row >= f.Row+f.Rows {
			continue
		}
		label := tokenLabel(t.Category)
		c.clippedText(f, col-len(label)/2, row, label, draw.CategoryStyle(t.Category))
	}

	for i := range s.Texts {
		t := &s.Texts[i]
		col, row := f.Project(t.X, t.Y)
		if row < f.Row || row >= f.Row+f.Rows {
			continue
		}
		c.clippedText(f, col-textWidth(t.Value)/2, row, t.Value, floatStyle(t.Value, t.Opacity()))
	}

	help := "←/→ or a/d move · r restart · q quit"
	cv.TextCentered(rows-1, help, draw.StyleDim)
}

// drawAvatar draws the player sprite centered on x with its middle row on
// the catch line.
func (c *Client) drawAvatar(f draw.Rect, x float64) {
	hitboxY := c.ctrl.World().Tuning.HitboxY
	col, row := f.Project(x, hitboxY)
	left := col - c.avatar.Width()/2
	top := row - c.avatar.Height()/2

	for y := 0; y < c.avatar.Height(); y++ {
		for dx := 0; dx < c.avatar.Width(); dx++ {
			r, accent := c.avatar.At(dx, y)
			if r == avatar.Transparent || !f.Contains(left+dx, top+y) {
				continue
			}
			style := draw.StylePlayer
			if accent {
				style = draw.StyleAccent
			}
			c.canvas.Set(left+dx, top+y, r, style)
		}
	}

	name := c.playerLabel()
	c.clippedText(f, col-textWidth(name)/2, top+c.avatar.Height(), name, draw.StyleDim)
}

// clippedText writes s but keeps it inside f.
func (c *Client) clippedText(f draw.Rect, col, row int, s string, st draw.Style) {
	if row < f.Row || row >= f.Row+f.Rows {
		return
	}
	for _, r := range s {
		if f.Contains(col, row) {
			c.canvas.Set(col, row, r, st)
		}
		col++
	}
}

// drawHUD draws the status line above the playfield.
// Fields use fixed widths so the line does not jitter as values change.
func (c *Client) drawHUD(cols int) {
	s := &c.snap
	cv := c.canvas

	col := 1
	col += cv.Text(col, 0, "POWER ", draw.StyleDim)
	col += cv.Text(col, 0, fmt.Sprintf("%-6d", s.Power), draw.StyleBold)
	col += cv.Text(col, 0, " Time ", draw.StyleDim)
	col += cv.Text(col, 0, fmt.Sprintf("%-3d", hudSeconds(s.TimeLeft)), draw.StyleBold)
	col += cv.Text(col, 0, " Lives ", draw.StyleDim)
	col += cv.Text(col, 0, fmt.Sprintf("%-4s", hearts(s.Lives)), draw.StyleLoss)
	col += cv.Text(col, 0, " Best ", draw.StyleDim)
	col += cv.Text(col, 0, fmt.Sprintf("%-6d", s.Best), draw.StyleBold)

	combo := comboText(s.Combo, s.Multiplier)
	comboStyle := draw.StyleBold
	if s.Multiplier > 1 {
		comboStyle = draw.StyleGain
	}
	right := cols - 1 - textWidth(combo)
	if right-len("Combo ") > col {
		cv.Text(right-len("Combo "), 0, "Combo ", draw.StyleDim)
		cv.Text(right, 0, combo, comboStyle)
	}
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(rows int, now time.Time) {
	titleArt := []string{
		` _  _ ___ ___  _  _    ___   _  _____ ___ _  _ `,
		`| \| | __/ _ \| \| |  / __| /_\|_   _/ __| || |`,
		"| .` | _| (_) | .` | | (__ / _ \\ | || (__| __ |",
		`|_|\_|___\___/|_|\_|  \___/_/ \_\|_| \___|_||_|`,
	}

	cv := c.canvas
	top := max(1, rows/2-11)
	for i, line := range titleArt {
		cv.TextCentered(top+i, line, draw.StyleTitle)
	}
	row := top + len(titleArt) + 1
	cv.TextCentered(row, "~ Catch verifiable items · Build combos · Avoid FAKE & SYBIL ~", draw.StyleDim)

	row += 2
	row = c.drawPortrait(row)

	row++
	row = c.drawLegend(row)

	row++
	controls := []string{
		"← → / a d  . . . .  Move",
		"SPACE  . . . . . .  Start",
		"R  . . . . . . . .  Restart",
		"Q  . . . . . . . .  Quit",
	}
	for _, line := range controls {
		cv.TextCentered(row, line, draw.StyleNone)
		row++
	}

	if c.snap.Best > 0 {
		row++
		cv.TextCentered(row, fmt.Sprintf("Your best: %d POWER", c.snap.Best), draw.StyleGain)
	}

	if blinkOn(now) {
		cv.TextCentered(row+2, ">>  Press SPACE to Start  <<", draw.StyleBold)
	}
}

// drawPortrait draws the avatar with the player's name under it and returns
// the next free row.
func (c *Client) drawPortrait(row int) int {
	cols, _ := c.canvas.Size()
	left := (cols - c.avatar.Width()) / 2
	for y := 0; y < c.avatar.Height(); y++ {
		for x := 0; x < c.avatar.Width(); x++ {
			r, accent := c.avatar.At(x, y)
			if r == avatar.Transparent {
				continue
			}
			style := draw.StylePlayer
			if accent {
				style = draw.StyleAccent
			}
			c.canvas.Set(left+x, row+y, r, style)
		}
	}
	row += c.avatar.Height()
	c.canvas.TextCentered(row, c.playerLabel(), draw.StyleDim)
	return row + 1
}

// drawLegend lists every token category in its color and returns the next
// free row.
func (c *Client) drawLegend(row int) int {
	lines := [][]object.Category{object.GoodCategories, object.BadCategories}
	for _, cats := range lines {
		width := 0
		for i, cat := range cats {
			if i > 0 {
				width += 3
			}
			width += textWidth("● " + cat.Label())
		}
		cols, _ := c.canvas.Size()
		col := (cols - width) / 2
		for i, cat := range cats {
			if i > 0 {
				col += 3
			}
			col += c.canvas.Text(col, row, "● "+cat.Label(), draw.CategoryStyle(cat))
		}
		row++
	}
	return row
}

// drawEndScreen draws the score card over the last frame.
func (c *Client) drawEndScreen(rows int, now time.Time) {
	cv := c.canvas
	s := &c.snap
	cols, _ := cv.Size()

	title := "Time!"
	if s.Outcome == loop.OutcomeOutOfLives {
		title = "Out of lives!"
	}

	card := draw.Rect{Col: cols/2 - 20, Row: rows/2 - 6, Cols: 40, Rows: 12}
	cv.Fill(card, draw.Blank, draw.StyleNone)

	row := card.Row + 1
	cv.TextCentered(row, title, draw.StyleTitle)
	row += 2
	cv.TextCentered(row, "Total POWER", draw.StyleDim)
	row++
	cv.TextCentered(row, fmt.Sprintf("%d", s.Power), draw.StyleGain)
	row += 2

	summary := fmt.Sprintf("Caught %d · Mistakes %d · Best %d", c.stats.good, c.stats.bad, s.Best)
	cv.TextCentered(row, summary, draw.StyleNone)
	if s.NewBest {
		row++
		cv.TextCentered(row, "New best!", draw.StyleGain)
	}
	row += 2

	label := "Share your score"
	col := (cols - textWidth(label)) / 2
	cv.Text(col, row, label, draw.StyleLink)
	c.links = append(c.links, link{col: col, row: row, url: ShareLink(s.Power, c.shareURL), label: label})

	if blinkOn(now) {
		cv.TextCentered(row+2, ">>  Press SPACE to Play again  <<", draw.StyleBold)
	}
}

// drawInactivityScreen draws the idle disconnect warning.
func (c *Client) drawInactivityScreen(rows int, now time.Time) {
	cv := c.canvas
	center := rows / 2
	left := max(0, int(math.Ceil((c.idleTimeout - now.Sub(c.lastInput)).Seconds())))

	cv.TextCentered(center-2, "INACTIVITY WARNING", draw.StyleLoss)
	cv.TextCentered(center, fmt.Sprintf("You will be disconnected in %d seconds.", left), draw.StyleNone)
	cv.TextCentered(center+2, "Press any key to continue", draw.StyleDim)
}

// drawShutdownScreen draws the server shutdown notice.
func (c *Client) drawShutdownScreen(rows int, now time.Time) {
	cv := c.canvas
	center := rows / 2
	left := max(0, int(math.Ceil(c.shutdownAt.Sub(now).Seconds())))

	cv.TextCentered(center-3, "SERVER SHUTTING DOWN", draw.StyleLoss)
	cv.TextCentered(center-1, "The server is restarting for maintenance.", draw.StyleNone)
	cv.TextCentered(center, "Please reconnect in a moment.", draw.StyleNone)
	cv.TextCentered(center+2, fmt.Sprintf("Disconnecting in %d seconds...", left), draw.StyleDim)
	cv.TextCentered(center+4, "Press Q to disconnect now", draw.StyleDim)
}

func (c *Client) drawTooSmall(cols, rows int) {
	c.canvas.Text(0, rows/2, fmt.Sprintf("Too small: %dx%d", cols, rows), draw.StyleLoss)
	c.canvas.Text(0, rows/2+1, fmt.Sprintf("Need %dx%d", MinCols, MinRows), draw.StyleDim)
}

func (c *Client) playerLabel() string {
	if c.username == "" {
		return "you"
	}
	name := []rune(c.username)
	if len(name) > 16 {
		name = append(name[:15], '…')
	}
	return string(name)
}

// ShareLink builds the tweet intent announcing power. page, if set, is
// attached as the link to play.
func ShareLink(power int, page string) string {
	q := url.Values{}
	q.Set("text", fmt.Sprintf("I scored %d POWER in Billions Neon! @billions_ntwk", power))
	if page != "" {
		q.Set("url", page)
	}
	return tweetIntent + "?" + q.Encode()
}

// hudSeconds rounds remaining time up so "0" only shows once time is out.
func hudSeconds(timeLeft float64) int {
	return int(math.Ceil(math.Max(0, timeLeft)))
}

// hearts renders lives as hearts, or a dash when none are left.
func hearts(lives int) string {
	if lives <= 0 {
		return "—"
	}
	return strings.Repeat("♥", lives)
}

func comboText(combo, mult int) string {
	return fmt.Sprintf("%d (%dx)", combo, mult)
}

func tokenLabel(c object.Category) string {
	return "●" + c.Label()
}

func floatStyle(value string, opacity float64) draw.Style {
	if opacity < 0.35 {
		return draw.StyleDim
	}
	if strings.HasPrefix(value, "-") {
		return draw.StyleLoss
	}
	return draw.StyleGain
}

func sparkRune(fade float64) rune {
	switch {
	case fade > 0.66:
		return '*'
	case fade > 0.33:
		return '+'
	default:
		return '·'
	}
}

func sparkStyle(fade float64) draw.Style {
	if fade > 0.5 {
		return draw.StyleSpark
	}
	return draw.StyleSparkDim
}

func textWidth(s string) int {
	return len([]rune(s))
}

func blinkOn(now time.Time) bool {
	return now.UnixMilli()/600%2 == 0
}
