// Command scores prints or clears the local high-score list.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"

	"github.com/tomz197/novarush/internal/app"
	"github.com/tomz197/novarush/internal/score"
)

func usage() {
	color.Yellow("SYNOPSIS")
	fmt.Println("  scores [-clear] [-raw]")
	fmt.Println()
	color.Yellow("DESCRIPTION")
	fmt.Println("  Shows the Nova Rush high scores stored on this machine.")
	fmt.Println()
	color.Yellow("PARAMETERS")
	color.Cyan("  -clear")
	fmt.Println("      Delete every stored score.")
	color.Cyan("  -raw")
	fmt.Println("      Print the stored value as written to disk.")
}

func main() {
	clearScores := flag.Bool("clear", false, "delete every stored score")
	raw := flag.Bool("raw", false, "print the stored value as written to disk")
	flag.Usage = usage
	flag.Parse()

	settings, err := app.LoadSettings()
	if err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
	logger := app.NewLogger(os.Stderr, "scores", settings.LogLevel)
	store := app.OpenStore(settings, logger)

	if *clearScores {
		if err := store.Clear(); err != nil {
			color.Red("%v", err)
			os.Exit(1)
		}
		color.Green("High scores cleared (%s)", settings.ScoreFile)
		return
	}

	if *raw {
		value, err := store.Raw()
		if err != nil {
			color.Red("%v", err)
			os.Exit(1)
		}
		fmt.Println(value)
		return
	}

	entries := store.Load()

	if len(entries) == 0 {
		color.Yellow("No high scores yet.")
		return
	}
	fmt.Println(renderTable(entries))
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	bestStyle   = cellStyle.Foreground(lipgloss.Color("#FFA500"))
)

func renderTable(entries []score.Entry) string {
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			score.Rank(i),
			strconv.Itoa(e.Score),
			fmt.Sprintf("%ds", e.Time),
			strconv.Itoa(e.NearMisses),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("#", "SCORE", "TIME", "NEAR MISSES").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == 0:
				return bestStyle
			default:
				return cellStyle
			}
		}).
		String()
}
