// Package main provides a tool to preview the colors a tavle config assigns
// to conditional format rules.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/hylla/tavle/internal/config"
)

func main() {
	fs := flag.NewFlagSet("palette", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config TOML with [[rules]] entries")
	showGrid := fs.Bool("grid", false, "also print the ANSI 256 color grid")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath, config.Default("palette.db"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	fmt.Println("=== FORMAT RULE COLORS ===")
	displayRuleColors(cfg.Rules)

	if *showGrid {
		fmt.Println("\n\n=== ANSI 256 COLORS ===")
		display256Colors()
	}
}

func displayRuleColors(rules []config.RuleConfig) {
	if len(rules) == 0 {
		fmt.Println("no rules configured; pass --config to preview your palette")
		return
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("62"))).
		Headers("Field", "Operator", "Value", "Background", "Border", "Sample").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == 0 {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230"))
			}
			return lipgloss.NewStyle()
		})

	for _, rule := range rules {
		value := rule.Value
		if strings.EqualFold(rule.Operator, "in") {
			value = strings.Join(rule.Values, ", ")
		}
		t.Row(
			rule.Field,
			strings.ToLower(rule.Operator),
			value,
			rule.BackgroundColor,
			rule.BorderColor,
			ruleSample(rule),
		)
	}

	fmt.Println(t.Render())
}

// ruleSample renders a card-shaped swatch the way the board would style a
// matching card.
func ruleSample(rule config.RuleConfig) string {
	style := lipgloss.NewStyle().
		Width(16).
		Align(lipgloss.Center)
	if rule.BackgroundColor != "" {
		style = style.
			Background(lipgloss.Color(rule.BackgroundColor)).
			Foreground(contrastColor(rule.BackgroundColor))
	}
	if rule.BorderColor != "" {
		style = style.
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(rule.BorderColor))
	}
	return style.Render("card title")
}

func display256Colors() {
	fmt.Println("Standard 16 Colors:")
	displayColorBlock(0, 15, 8)

	fmt.Println("\n\n216 Color Cube (16-231):")
	for i := 0; i < 6; i++ {
		displayColorBlock(16+i*36, 16+(i+1)*36-1, 6)
		fmt.Println()
	}

	fmt.Println("\nGrayscale (232-255):")
	displayColorBlock(232, 255, 12)
}

func displayColorBlock(start, end, perRow int) {
	count := 0
	for i := start; i <= end; i++ {
		style := lipgloss.NewStyle().
			Background(lipgloss.Color(strconv.Itoa(i))).
			Foreground(contrastColor(strconv.Itoa(i))).
			Width(6).
			Align(lipgloss.Center)

		fmt.Print(style.Render(fmt.Sprintf("%3d", i)))

		count++
		if count%perRow == 0 {
			fmt.Println()
		} else {
			fmt.Print(" ")
		}
	}
	if count%perRow != 0 {
		fmt.Println()
	}
}

// contrastColor picks a readable foreground for a background color. Hex
// backgrounds get white; numeric ANSI backgrounds use a simple brightness
// heuristic.
func contrastColor(background string) lipgloss.Color {
	index, err := strconv.Atoi(strings.TrimSpace(background))
	if err != nil {
		return lipgloss.Color("15")
	}
	switch {
	case index < 16:
		if index == 0 || index == 1 || index == 4 || index == 5 || index == 8 {
			return lipgloss.Color("15")
		}
		return lipgloss.Color("0")
	case index >= 232:
		if index < 244 {
			return lipgloss.Color("15")
		}
		return lipgloss.Color("0")
	default:
		return lipgloss.Color("15")
	}
}
