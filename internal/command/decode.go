package command

import (
	"encoding/json"
	"fmt"

	"reika-bridge/internal/bridgeerr"
)

// wireCommand mirrors the JSON shape {"command": Name, "parameters": value}.
type wireCommand struct {
	Command    Name            `json:"command"`
	Parameters json.RawMessage `json:"parameters"`
}

// noParamNames never carry a parameters field.
var noParamNames = map[Name]bool{
	Print: true, Init: true, Reset: true, Cut: true, PartialCut: true,
	PrintCut: true, ResetSize: true, ResetLineSpacing: true,
}

var boolParamNames = map[Name]bool{
	Bold: true, DoubleStrike: true, Flip: true, Reverse: true,
	Smoothing: true, Feed: true, UpsideDown: true,
}

var uintParamNames = map[Name]bool{
	Feeds: true, LineSpacing: true,
}

var stringParamNames = map[Name]bool{
	Write: true, Writeln: true,
	Ean13: true, Ean8: true, Upca: true, Upce: true, Code39: true, Codabar: true, Itf: true,
	Qrcode: true, GS1Databar2d: true, Pdf417: true, Maxicode: true, DataMatrix: true, Aztec: true,
}

// DecodeList parses a JSON array of wire commands into validated Command
// values. Any malformed entry produces a bridgeerr.InvalidInput error and
// aborts decoding the whole list (spec.md §6 S6: a single bad command rejects
// the entire request with HTTP 400, before any transport write occurs).
func DecodeList(raw json.RawMessage) ([]Command, error) {
	var wire []wireCommand
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, bridgeerr.InvalidInput("invalid command list: %v", err)
	}

	out := make([]Command, 0, len(wire))
	for i, w := range wire {
		cmd, err := decodeOne(w)
		if err != nil {
			return nil, bridgeerr.InvalidInput("command %d: %v", i, err)
		}
		out = append(out, cmd)
	}
	return out, nil
}

func decodeOne(w wireCommand) (Command, error) {
	switch {
	case noParamNames[w.Command]:
		return Command{Name: w.Command}, nil

	case boolParamNames[w.Command]:
		var v bool
		if err := unmarshalParams(w.Parameters, &v); err != nil {
			return Command{}, err
		}
		c := Command{Name: w.Command}
		if v {
			c.Bool = 1
		}
		return c, nil

	case uintParamNames[w.Command]:
		var v uint
		if err := unmarshalParams(w.Parameters, &v); err != nil {
			return Command{}, err
		}
		return Command{Name: w.Command, Uint: v}, nil

	case stringParamNames[w.Command]:
		var v string
		if err := unmarshalParams(w.Parameters, &v); err != nil {
			return Command{}, err
		}
		return Command{Name: w.Command, Str: v}, nil

	case w.Command == Size:
		var v [2]uint8
		if err := unmarshalParams(w.Parameters, &v); err != nil {
			return Command{}, err
		}
		if v[0] < 1 || v[0] > 8 || v[1] < 1 || v[1] > 8 {
			return Command{}, fmt.Errorf("size values must be in 1..=8, got %v", v)
		}
		return Command{Name: Size, Size: v}, nil

	case w.Command == PageCode:
		var v PageCodeName
		if err := unmarshalParams(w.Parameters, &v); err != nil {
			return Command{}, err
		}
		if !ValidPageCodes[v] {
			return Command{}, fmt.Errorf("unknown page code %q", v)
		}
		return Command{Name: PageCode, PageCode: v}, nil

	case w.Command == CharacterSet:
		var v CharacterSetName
		if err := unmarshalParams(w.Parameters, &v); err != nil {
			return Command{}, err
		}
		if !ValidCharacterSets[v] {
			return Command{}, fmt.Errorf("unknown character set %q", v)
		}
		return Command{Name: CharacterSet, CharSet: v}, nil

	case w.Command == Underline:
		var v UnderlineMode
		if err := unmarshalParams(w.Parameters, &v); err != nil {
			return Command{}, err
		}
		if v != UnderlineNone && v != UnderlineSingle && v != UnderlineDouble {
			return Command{}, fmt.Errorf("unknown underline mode %q", v)
		}
		return Command{Name: Underline, Underline: v}, nil

	case w.Command == Font:
		var v FontVariant
		if err := unmarshalParams(w.Parameters, &v); err != nil {
			return Command{}, err
		}
		if v != FontA && v != FontB && v != FontC {
			return Command{}, fmt.Errorf("unknown font %q", v)
		}
		return Command{Name: Font, Font: v}, nil

	case w.Command == Justify:
		var v JustifyMode
		if err := unmarshalParams(w.Parameters, &v); err != nil {
			return Command{}, err
		}
		if v != JustifyLeft && v != JustifyCenter && v != JustifyRight {
			return Command{}, fmt.Errorf("unknown justify mode %q", v)
		}
		return Command{Name: Justify, Justify: v}, nil

	case w.Command == CashDrawer:
		var v CashDrawerPin
		if err := unmarshalParams(w.Parameters, &v); err != nil {
			return Command{}, err
		}
		if v != CashDrawerPin2 && v != CashDrawerPin5 {
			return Command{}, fmt.Errorf("unknown cash drawer pin %q", v)
		}
		return Command{Name: CashDrawer, CashDrawer: v}, nil

	default:
		return Command{}, fmt.Errorf("unknown command %q", w.Command)
	}
}

func unmarshalParams(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing parameters")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid parameters: %v", err)
	}
	return nil
}
