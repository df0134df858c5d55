package ui

import (
	"github.com/mattn/go-runewidth"
	tm "github.com/nsf/termbox-go"
)

const (
	symbolHorizontal = iota
	symbolBarEmpty
	symbolBarFull
)

var symbols = []rune{'─', '░', '█'}

func init() {
	if runewidth.IsEastAsian() {
		symbols = []rune{'-', '.', '#'}
	}
}

// putText draws text from x, skipping a cell after every wide rune.
func putText(x, y int, text string, fg, bg tm.Attribute) {
	xoff := 0
	for i, r := range []rune(text) {
		tm.SetCell(x+i+xoff, y, r, fg, bg)
		if runewidth.RuneWidth(r) == 2 {
			xoff++
		}
	}
}

func centerOffset(w int, text string) int {
	offset := (w - runewidth.StringWidth(text)) / 2
	if offset < 0 {
		return 0
	}
	return offset
}

func fill(x, y, w int, r rune, fg, bg tm.Attribute) {
	for i := 0; i < w; i++ {
		tm.SetCell(x+i, y, r, fg, bg)
	}
}

func printHLineText(x, y, w int, text string) {
	fill(x, y, w, symbols[symbolHorizontal], tm.ColorWhite, tm.ColorDefault)
	putText(x+centerOffset(w, text), y, text, tm.ColorWhite, tm.ColorDefault)
}

func printText(x, y, w int, text string, fg, bg tm.Attribute) {
	fill(x, y, w, ' ', fg, bg)
	putText(x, y, runewidth.Truncate(text, w, "..."), fg, bg)
}

func printCenterText(x, y, w int, text string, fg, bg tm.Attribute) {
	fill(x, y, w, ' ', fg, bg)
	putText(x+centerOffset(w, text), y, text, fg, bg)
}

// printProgressBar draws done/total as a bar of width w.
func printProgressBar(x, y, w int, done, total int, clr tm.Attribute) {
	barw := progressWidth(w, done, total)
	fill(x, y, w, symbols[symbolBarEmpty], clr, tm.ColorDefault)
	fill(x, y, barw, symbols[symbolBarFull], clr|tm.AttrBold, tm.ColorDefault)
}

func progressWidth(w, done, total int) int {
	if total <= 0 || done <= 0 {
		return 0
	}
	if done >= total {
		return w
	}
	return int(int64(w) * int64(done) / int64(total))
}
