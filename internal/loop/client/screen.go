package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/novarush/internal/loop/config"
	"github.com/tomz197/novarush/internal/loop/server"
	"github.com/tomz197/novarush/internal/score"
)

var titleArt = []string{
	` _  _  _____   ___     ___ _   _ ___ _  _ `,
	`| \| |/ _ \ \ / /_\   | _ \ | | / __| || |`,
	"| .` | (_) \\ V / _ \\  |   / |_| \\__ \\ __ |",
	`|_|\_|\___/ \_/_/ \_\ |_|_\\___/|___/_||_|`,
}

// recordNoticeDuration is how long another session's record stays on screen.
const recordNoticeDuration = 5 * time.Second

// drawFrame draws the text screens shown between rounds.
func (c *Client) drawFrame() error {
	// On state, inactivity or size transitions, do a full terminal clear
	// so text from the previous screen doesn't persist.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged || c.layoutDirty {
		c.chunkWriter.SetOffset(0, 0)
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
		c.layoutDirty = false
	}

	c.chunkWriter.SetOffset(c.layout.offsetCol, c.layout.offsetRow)
	centerX := c.layout.cols / 2
	centerY := c.layout.rows / 2

	switch {
	case c.state.GameState == GameStateShutdown:
		c.drawShutdownScreen(centerX, centerY)
	case c.state.isInactive:
		c.drawInactivityScreen(centerX, centerY)
	case c.state.GameState == GameStateStart:
		c.drawStartScreen(centerX, centerY, c.lobby.GetSnapshot())
	case c.state.GameState == GameStateOver:
		c.drawOverScreen(centerX, centerY, c.lobby.GetSnapshot())
	}

	return c.chunkWriter.Flush()
}

// writeCentered writes s centred on column centerX. Width is measured in cells.
func (c *Client) writeCentered(centerX, row int, s string) {
	col := max(centerX-lipgloss.Width(s)/2, 1)
	c.chunkWriter.WriteAt(col, row, s)
}

// writeBlink writes s on even half-seconds and blanks it otherwise.
func (c *Client) writeBlink(centerX, row int, s string) {
	if time.Now().UnixMilli()/600%2 == 0 {
		c.writeCentered(centerX, row, s)
		return
	}
	c.writeCentered(centerX, row, strings.Repeat(" ", lipgloss.Width(s)))
}

func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-2, "INACTIVITY WARNING")

	left := int(config.InactivityDisconnect - time.Since(c.lastInput).Seconds())
	c.writeCentered(centerX, centerY, fmt.Sprintf("You will be disconnected in %3d seconds.", max(left, 0)))
	c.writeCentered(centerX, centerY+2, "Press any key to continue")
}

func (c *Client) drawStartScreen(centerX, centerY int, snap *server.Snapshot) {
	titleStartY := centerY - 8
	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, lipgloss.Width(line))
	}
	for i, line := range titleArt {
		c.chunkWriter.WriteAt(max(centerX-titleWidth/2, 1), titleStartY+i, line)
	}

	row := titleStartY + len(titleArt) + 1
	c.writeCentered(centerX, row, "~ Dodge the meteors, graze them for points ~")

	row += 2
	c.writeCentered(centerX, row, "Controls")
	controls := []string{
		"A D / < >  . . .  Steer",
		"SPACE  . . . . .  Start",
		"Q  . . . . . . . . Quit",
	}
	for i, line := range controls {
		c.writeCentered(centerX, row+1+i, line)
	}
	row += len(controls) + 2

	if best, ok := snap.Best(); ok {
		c.writeCentered(centerX, row, "Best  "+leaderLine(0, best))
	} else {
		c.writeCentered(centerX, row, "No high scores yet")
	}
	c.writeCentered(centerX, row+1, fmt.Sprintf("Players online: %-4d", snap.Players))

	c.writeBlink(centerX, row+3, ">>  Press SPACE to Start  <<")
}

func (c *Client) drawOverScreen(centerX, centerY int, snap *server.Snapshot) {
	lines := c.state.Result.Lines()
	row := centerY - 6 - len(snap.TopScores)/2

	for i, line := range lines {
		c.writeCentered(centerX, row+i, line)
	}
	row += len(lines)
	if !c.state.Recorded {
		c.writeCentered(centerX, row, "saving...")
	} else {
		c.writeCentered(centerX, row, "         ")
	}
	row += 2

	if len(snap.TopScores) > 0 {
		c.writeCentered(centerX, row, "HIGH SCORES")
		for i, e := range snap.TopScores {
			c.writeCentered(centerX, row+1+i, leaderLine(i, e))
		}
		row += len(snap.TopScores) + 2
	}

	if c.state.RecordBy != "" && time.Since(c.state.RecordTime) < recordNoticeDuration {
		c.writeCentered(centerX, row, fmt.Sprintf("%s just set a new record!", c.state.RecordBy))
	}
	row += 2

	c.writeBlink(centerX, row, ">>  SPACE to play again, Q to quit  <<")
}

func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	c.writeCentered(centerX, centerY-1, "The server is restarting for maintenance.")
	c.writeCentered(centerX, centerY, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	c.writeCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %2d seconds...", remaining))
	c.writeCentered(centerX, centerY+4, "Press Q to disconnect now")
}

// leaderLine formats a leaderboard row with the player's name when known.
func leaderLine(i int, e server.LeaderEntry) string {
	line := score.Format(i, e.Entry)
	if e.Username != "" {
		line += "  " + truncateName(e.Username)
	}
	return line
}

func truncateName(name string) string {
	r := []rune(name)
	if len(r) > config.MaxUsernameLength {
		return string(r[:config.MaxUsernameLength])
	}
	return name
}
