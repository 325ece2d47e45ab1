// Package lcd renders fixed-width text rows on a character display.
//
// Panel matches the method set of *hd44780i2c.Device from
// tinygo.org/x/drivers, so the PCF8574 backpack driver plugs in directly.
package lcd

import (
	"tinygo.org/x/drivers/hd44780i2c"
)

// Panel is the controller surface the Display needs.
type Panel interface {
	ClearDisplay()
	SetCursor(x, y uint8)
	Print(data []byte)
	BacklightOn(on bool)
	DisplayOn(on bool)
}

var _ Panel = (*hd44780i2c.Device)(nil)

// maxCols bounds the row buffer; 40 is the widest HD44780 geometry.
const maxCols = 40

// Display is a cols x rows character display.
type Display struct {
	p    Panel
	cols uint8
	rows uint8
	row  [maxCols]byte
}

// New wraps p. cols is capped at 40.
func New(p Panel, cols, rows uint8) *Display {
	if cols > maxCols {
		cols = maxCols
	}
	return &Display{p: p, cols: cols, rows: rows}
}

func (d *Display) Cols() uint8 { return d.cols }
func (d *Display) Rows() uint8 { return d.rows }

// Begin powers the display and backlight and clears it.
func (d *Display) Begin() {
	d.p.DisplayOn(true)
	d.p.BacklightOn(true)
	d.p.ClearDisplay()
}

// WriteLine overwrites row from column 0. Text longer than the row is
// truncated; shorter text is padded with spaces so stale characters from a
// previous, longer line are erased. Rows out of range are ignored.
func (d *Display) WriteLine(row uint8, text string) {
	if row >= d.rows {
		return
	}
	n := copy(d.row[:d.cols], text)
	for i := n; i < int(d.cols); i++ {
		d.row[i] = ' '
	}
	d.p.SetCursor(0, row)
	d.p.Print(d.row[:d.cols])
}

// PowerDown clears the display and switches off the backlight and panel.
func (d *Display) PowerDown() {
	d.p.ClearDisplay()
	d.p.BacklightOn(false)
	d.p.DisplayOn(false)
}
