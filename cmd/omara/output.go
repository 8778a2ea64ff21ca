package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/query"
)

var (
	colorAccent = lipgloss.Color("#7aa2f7")
	colorDim    = lipgloss.Color("#565f89")
	colorFav    = lipgloss.Color("#e0af68")
	colorError  = lipgloss.Color("#f7768e")

	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleFav    = lipgloss.NewStyle().Foreground(colorFav)
	styleError  = lipgloss.NewStyle().Foreground(colorError)
	styleHeader = lipgloss.NewStyle().Bold(true).Underline(true)
)

func cell(s string, width int) string {
	return lipgloss.NewStyle().Width(width).MaxWidth(width).Render(s)
}

func printItems(w io.Writer, items []model.ClothingItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, styleDim.Render("No items."))
		return
	}

	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
		cell(styleHeader.Render("ID"), 22),
		cell(styleHeader.Render("Name"), 30),
		cell(styleHeader.Render("Category"), 14),
		cell(styleHeader.Render("Color"), 10),
		cell(styleHeader.Render("Season"), 8),
		cell(styleHeader.Render("Worn"), 6),
		cell(styleHeader.Render("Price"), 9),
	))
	for _, it := range items {
		name := it.Name
		if it.IsFavorite {
			name = styleFav.Render("★ ") + name
		}
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
			cell(styleDim.Render(it.ID), 22),
			cell(name, 30),
			cell(it.Category, 14),
			cell(it.Color, 10),
			cell(string(it.SeasonOrAll()), 8),
			cell(fmt.Sprint(it.WearCount), 6),
			cell(formatPrice(it.Price), 9),
		))
		if len(it.Tags) > 0 {
			fmt.Fprintln(w, cell("", 22)+styleDim.Render("#"+strings.Join(it.Tags, " #")))
		}
	}
}

type categoryRow struct {
	Name  string
	Items int
	Image string
}

func printCategories(w io.Writer, rows []categoryRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, styleDim.Render("No categories."))
		return
	}
	for _, r := range rows {
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
			cell(styleTitle.Render(r.Name), 16),
			cell(fmt.Sprintf("%d item(s)", r.Items), 12),
			styleDim.Render(r.Image),
		))
	}
}

func printOutfits(w io.Writer, outfits []model.Outfit, items []model.ClothingItem) {
	if len(outfits) == 0 {
		fmt.Fprintln(w, styleDim.Render("No outfits."))
		return
	}
	for _, o := range outfits {
		header := styleTitle.Render(o.Name) + " " + styleDim.Render(o.ID)
		if o.Occasion != "" {
			header += " " + o.Occasion
		}
		fmt.Fprintln(w, header)

		resolved := query.ResolveOutfit(o, items)
		for _, it := range resolved {
			fmt.Fprintf(w, "  - %s (%s)\n", it.Name, it.Category)
		}
		if missing := len(o.Items) - len(resolved); missing > 0 {
			fmt.Fprintln(w, styleDim.Render(fmt.Sprintf("  %d item(s) no longer in the wardrobe", missing)))
		}
	}
}

func printStats(w io.Writer, ds model.DataStats, ws model.WardrobeStats) {
	row := func(label, value string) {
		fmt.Fprintln(w, cell(styleDim.Render(label), 20)+value)
	}

	fmt.Fprintln(w, styleTitle.Render("Wardrobe"))
	row("Total items", fmt.Sprint(ws.TotalItems))
	row("Favorites", fmt.Sprint(ws.FavoriteItems))
	row("Most worn category", ws.MostWornCategory)
	row("Recently added", fmt.Sprint(len(ws.RecentlyAdded)))
	names := make([]string, 0, len(ws.LeastWornItems))
	for _, it := range ws.LeastWornItems {
		names = append(names, fmt.Sprintf("%s (%d)", it.Name, it.WearCount))
	}
	row("Least worn", strings.Join(names, ", "))

	fmt.Fprintln(w)
	fmt.Fprintln(w, styleTitle.Render("Storage"))
	row("Items", fmt.Sprint(ds.ItemCount))
	row("Categories", fmt.Sprint(ds.CategoryCount))
	row("Last sync", ds.LastSync)
	row("Version", ds.Version)
}
