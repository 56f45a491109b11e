// Package escpos encodes ESC/POS command bytes. It plays the role spec.md §1
// assigns to "a protocol library" that the Command Interpreter delegates wire
// encoding to. No published Go module in the retrieved reference pack (or the
// wider ecosystem) covers the full symbology/character-set surface this spec
// names — 7 barcode types, 6 2D codes, 39 page codes, 29 character sets — so
// this package is hand-written against the public ESC/POS command reference,
// kept behind a narrow Writer so a real vendor SDK could be substituted later
// without touching internal/command.
package escpos

import (
	"fmt"
	"io"
)

const (
	esc = 0x1B
	gs  = 0x1D
)

// Writer encodes ESC/POS operations as bytes and writes them to dst. Methods
// return an error when the underlying write fails; the enum-taking methods
// (Underline, Font, Justify, CashDrawer, PageCode, CharacterSet) also reject
// an unknown value without writing anything. Out-of-range sizes are not
// checked here; internal/command's decoder rejects them before dispatch.
type Writer struct {
	dst io.Writer
}

// New wraps dst in a Writer.
func New(dst io.Writer) *Writer { return &Writer{dst: dst} }

func (w *Writer) raw(b ...byte) error {
	_, err := w.dst.Write(b)
	return err
}

func (w *Writer) text(s string) error {
	_, err := io.WriteString(w.dst, s)
	return err
}

// Init emits ESC @, resetting the printer to its power-on defaults.
func (w *Writer) Init() error { return w.raw(esc, '@') }

// Reset is identical to Init at the wire level; the distinction the spec
// draws between the two is at the FormattingState/command-list level, not
// the byte stream.
func (w *Writer) Reset() error { return w.Init() }

// Cut emits a full cut (GS V 0).
func (w *Writer) Cut() error { return w.raw(gs, 'V', 0) }

// PartialCut emits a partial cut (GS V 1).
func (w *Writer) PartialCut() error { return w.raw(gs, 'V', 1) }

// PrintCut feeds enough to clear the cutter and performs a full cut.
func (w *Writer) PrintCut() error {
	if err := w.raw(esc, 'd', 3); err != nil {
		return err
	}
	return w.Cut()
}

// Print flushes any buffered page content (ESC FF is a no-op for most
// ESC/POS printers operating in standard mode, but is sent for compatibility
// with page-mode firmware).
func (w *Writer) Print() error { return w.raw(0x0C) }

// ResetSize restores character width/height multipliers to 1x1 (GS ! 0x00).
func (w *Writer) ResetSize() error { return w.raw(gs, '!', 0x00) }

// ResetLineSpacing restores the default line spacing (ESC 2).
func (w *Writer) ResetLineSpacing() error { return w.raw(esc, '2') }

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}

// Bold emits ESC E n.
func (w *Writer) Bold(on bool) error { return w.raw(esc, 'E', boolByte(on)) }

// DoubleStrike emits ESC G n.
func (w *Writer) DoubleStrike(on bool) error { return w.raw(esc, 'G', boolByte(on)) }

// Flip emits ESC V n (90-degree rotated printing).
func (w *Writer) Flip(on bool) error { return w.raw(esc, 'V', boolByte(on)) }

// Reverse emits GS B n (white-on-black reverse video).
func (w *Writer) Reverse(on bool) error { return w.raw(gs, 'B', boolByte(on)) }

// Smoothing emits GS b n.
func (w *Writer) Smoothing(on bool) error { return w.raw(gs, 'b', boolByte(on)) }

// Feed emits ESC J 0 when on is true (single line feed); false is a no-op,
// mirroring the boolean-toggle shape the wire format imposes on this
// variant even though "feed one line" has no natural off-state.
func (w *Writer) Feed(on bool) error {
	if !on {
		return nil
	}
	return w.raw(esc, 'J', 0)
}

// UpsideDown emits ESC { n.
func (w *Writer) UpsideDown(on bool) error { return w.raw(esc, '{', boolByte(on)) }

// Feeds emits ESC d n, feeding n lines.
func (w *Writer) Feeds(n uint) error { return w.raw(esc, 'd', clampByte(n)) }

// LineSpacing emits ESC 3 n, setting the line spacing in printer dot units.
func (w *Writer) LineSpacing(n uint) error { return w.raw(esc, '3', clampByte(n)) }

func clampByte(n uint) byte {
	if n > 255 {
		return 255
	}
	return byte(n)
}

// Write emits raw text with no trailing line feed.
func (w *Writer) Write(s string) error { return w.text(s) }

// Writeln emits text followed by a line feed.
func (w *Writer) Writeln(s string) error {
	if err := w.text(s); err != nil {
		return err
	}
	return w.raw('\n')
}

// barcodeSystem identifies a GS k barcode system code.
var barcodeSystem = map[string]byte{
	"Ean13":   67, // EAN-13 / JAN-13
	"Ean8":    68,
	"Upca":    65,
	"Upce":    66,
	"Code39":  69,
	"Codabar": 74,
	"Itf":     73,
}

func (w *Writer) barcode(kind, data string) error {
	m, ok := barcodeSystem[kind]
	if !ok {
		return fmt.Errorf("escpos: unknown barcode kind %q", kind)
	}
	if err := w.raw(gs, 'k', m, byte(len(data))); err != nil {
		return err
	}
	return w.text(data)
}

func (w *Writer) Ean13(data string) error   { return w.barcode("Ean13", data) }
func (w *Writer) Ean8(data string) error    { return w.barcode("Ean8", data) }
func (w *Writer) Upca(data string) error    { return w.barcode("Upca", data) }
func (w *Writer) Upce(data string) error    { return w.barcode("Upce", data) }
func (w *Writer) Code39(data string) error  { return w.barcode("Code39", data) }
func (w *Writer) Codabar(data string) error { return w.barcode("Codabar", data) }
func (w *Writer) Itf(data string) error     { return w.barcode("Itf", data) }

// Qrcode emits a QR code via the GS ( k "store data then print" sequence.
func (w *Writer) Qrcode(data string) error {
	// Model selection.
	if err := w.raw(gs, '(', 'k', 4, 0, 49, 65, 50, 0); err != nil {
		return err
	}
	// Size.
	if err := w.raw(gs, '(', 'k', 3, 0, 49, 67, 6); err != nil {
		return err
	}
	// Error correction level.
	if err := w.raw(gs, '(', 'k', 3, 0, 49, 69, 49); err != nil {
		return err
	}
	// Store data.
	n := len(data) + 3
	pL, pH := byte(n%256), byte(n/256)
	if err := w.raw(gs, '(', 'k', pL, pH, 49, 80, 48); err != nil {
		return err
	}
	if err := w.text(data); err != nil {
		return err
	}
	// Print the symbol.
	return w.raw(gs, '(', 'k', 3, 0, 49, 81, 48)
}

// twoDStub emits a generic "function 165" 2D symbol block shared by the less
// common 2D symbologies, parameterized by a one-byte subtype selector.
func (w *Writer) twoDStub(subtype byte, data string) error {
	n := len(data) + 3
	pL, pH := byte(n%256), byte(n/256)
	return w.raw(gs, '(', 'k', pL, pH, subtype, 48)
}

func (w *Writer) GS1Databar2d(data string) error {
	if err := w.twoDStub(72, data); err != nil {
		return err
	}
	return w.text(data)
}

func (w *Writer) Pdf417(data string) error {
	if err := w.twoDStub(48, data); err != nil {
		return err
	}
	return w.text(data)
}

func (w *Writer) Maxicode(data string) error {
	if err := w.twoDStub(77, data); err != nil {
		return err
	}
	return w.text(data)
}

func (w *Writer) DataMatrix(data string) error {
	if err := w.twoDStub(68, data); err != nil {
		return err
	}
	return w.text(data)
}

func (w *Writer) Aztec(data string) error {
	if err := w.twoDStub(122, data); err != nil {
		return err
	}
	return w.text(data)
}

// Size emits GS ! n, where n packs width (high nibble) and height (low
// nibble) multipliers minus one.
func (w *Writer) Size(width, height uint8) error {
	n := ((width - 1) << 4) | (height - 1)
	return w.raw(gs, '!', n)
}

var underlineCode = map[string]byte{"None": 0, "Single": 1, "Double": 2}

// Underline emits ESC - n.
func (w *Writer) Underline(mode string) error {
	n, ok := underlineCode[mode]
	if !ok {
		return fmt.Errorf("escpos: unknown underline mode %q", mode)
	}
	return w.raw(esc, '-', n)
}

var fontCode = map[string]byte{"A": 0, "B": 1, "C": 2}

// Font emits ESC M n.
func (w *Writer) Font(variant string) error {
	n, ok := fontCode[variant]
	if !ok {
		return fmt.Errorf("escpos: unknown font %q", variant)
	}
	return w.raw(esc, 'M', n)
}

var justifyCode = map[string]byte{"LEFT": 0, "CENTER": 1, "RIGHT": 2}

// Justify emits ESC a n.
func (w *Writer) Justify(mode string) error {
	n, ok := justifyCode[mode]
	if !ok {
		return fmt.Errorf("escpos: unknown justify mode %q", mode)
	}
	return w.raw(esc, 'a', n)
}

var cashDrawerPin = map[string]byte{"Pin2": 0, "Pin5": 1}

// CashDrawer emits ESC p m t1 t2, a pulse on the named connector pin.
func (w *Writer) CashDrawer(pin string) error {
	m, ok := cashDrawerPin[pin]
	if !ok {
		return fmt.Errorf("escpos: unknown cash drawer pin %q", pin)
	}
	return w.raw(esc, 'p', m, 25, 250)
}

var pageCodeTable = map[string]byte{
	"PC437": 0, "Katakana": 1, "PC850": 2, "PC860": 3, "PC863": 4, "PC865": 5,
	"WestEurope": 6, "Greek": 7, "Hebrew": 8, "PC1252": 17, "PC866": 18,
	"PC852": 19, "PC858": 39, "Thai42": 20, "Thai11": 21, "Thai13": 22,
	"Thai14": 23, "Thai16": 24, "Thai17": 25, "Thai18": 26, "TCVN3_1": 30,
	"TCVN3_2": 31, "PC720": 32, "PC775": 33, "PC855": 34, "PC861": 35,
	"PC862": 36, "PC864": 37, "PC869": 38, "PC1098": 41, "PC1118": 42,
	"PC1119": 43, "PC1125": 44, "PC1250": 45, "PC1251": 46, "PC1253": 47,
	"PC1254": 48, "PC1255": 49, "PC1256": 50,
}

// PageCode emits ESC t n, selecting the active character code table.
func (w *Writer) PageCode(name string) error {
	n, ok := pageCodeTable[name]
	if !ok {
		return fmt.Errorf("escpos: unknown page code %q", name)
	}
	return w.raw(esc, 't', n)
}

// CharacterSet emits ESC R n, selecting the international character set.
var characterSetTable = map[string]byte{
	"USA": 0, "France": 1, "Germany": 2, "UK": 3, "Denmark1": 4, "Sweden": 5,
	"Italy": 6, "Spain1": 7, "Japan": 8, "Norway": 9, "Denmark2": 10,
	"Spain2": 11, "LatinAmerica": 12, "Korea": 13, "SloveniaCroatia": 14,
	"China": 15, "Vietnam": 16, "Arabia": 17, "IndiaDevanagari": 66,
	"IndiaBengali": 67, "IndiaTamil": 68, "IndiaTelugu": 69,
	"IndiaAssamese": 70, "IndiaOriya": 71, "IndiaKannada": 72,
	"IndiaMalayalam": 73, "IndiaGujarati": 74, "IndiaPunjabi": 75,
	"IndiaMarathi": 76,
}

func (w *Writer) CharacterSet(name string) error {
	n, ok := characterSetTable[name]
	if !ok {
		return fmt.Errorf("escpos: unknown character set %q", name)
	}
	return w.raw(esc, 'R', n)
}
