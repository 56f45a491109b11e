package command

// FormattingState is the projection of the printer's formatting registers
// that the reprint injector must preserve across an injected marker block
// (spec.md §3). The zero value is not the documented default state (its
// Underline, Justify, size and Font fields are empty); use
// DefaultFormattingState for that.
type FormattingState struct {
	Bold          bool
	Underline     UnderlineMode
	DoubleStrike  bool
	Reverse       bool
	Justify       JustifyMode
	SizeW, SizeH  uint8
	Smoothing     bool
	Flip          bool
	UpsideDown    bool
	Font          FontVariant
}

// DefaultFormattingState returns the formatting registers a freshly
// Init/Reset printer holds (spec.md §3 table).
func DefaultFormattingState() FormattingState {
	return FormattingState{
		Underline: UnderlineNone,
		Justify:   JustifyLeft,
		SizeW:     1,
		SizeH:     1,
		Font:      FontA,
	}
}

// Apply updates s in place to reflect the effect of executing cmd, exactly as
// the physical printer's registers would change. Init and Reset reset every
// field to the documented default regardless of how many times the caller's
// list toggles formatting elsewhere (spec.md §4.4 "Init/Reset handling").
func (s *FormattingState) Apply(cmd Command) {
	switch cmd.Name {
	case Init, Reset:
		*s = DefaultFormattingState()
	case ResetSize:
		s.SizeW, s.SizeH = 1, 1
	case ResetLineSpacing:
		// Line spacing is not tracked in FormattingState; it has no bearing
		// on the reprint marker's formatting-safety invariant.
	case Bold:
		s.Bold = cmd.BoolValue()
	case DoubleStrike:
		s.DoubleStrike = cmd.BoolValue()
	case Flip:
		s.Flip = cmd.BoolValue()
	case Reverse:
		s.Reverse = cmd.BoolValue()
	case Smoothing:
		s.Smoothing = cmd.BoolValue()
	case UpsideDown:
		s.UpsideDown = cmd.BoolValue()
	case Underline:
		s.Underline = cmd.Underline
	case Font:
		s.Font = cmd.Font
	case Justify:
		s.Justify = cmd.Justify
	case Size:
		s.SizeW, s.SizeH = cmd.Size[0], cmd.Size[1]
	}
}

// Project replays cmds against DefaultFormattingState (the documented
// defaults) and returns the resulting state. Encountering
// Init or Reset anywhere in cmds resets the projection, so the result is
// correct regardless of what came before it.
func Project(cmds []Command) FormattingState {
	s := DefaultFormattingState()
	for _, c := range cmds {
		s.Apply(c)
	}
	return s
}

// ResetToDefault emits the minimal set of commands that return every
// non-default field of s to its documented default (spec.md §4.4).
func ResetToDefault(s FormattingState) []Command {
	d := DefaultFormattingState()
	var out []Command
	if s.Bold != d.Bold {
		out = append(out, boolCmd(Bold, d.Bold))
	}
	if s.Underline != d.Underline {
		out = append(out, Command{Name: Underline, Underline: d.Underline})
	}
	if s.DoubleStrike != d.DoubleStrike {
		out = append(out, boolCmd(DoubleStrike, d.DoubleStrike))
	}
	if s.Reverse != d.Reverse {
		out = append(out, boolCmd(Reverse, d.Reverse))
	}
	if s.Justify != d.Justify {
		out = append(out, Command{Name: Justify, Justify: d.Justify})
	}
	if s.SizeW != d.SizeW || s.SizeH != d.SizeH {
		out = append(out, Command{Name: ResetSize})
	}
	if s.Smoothing != d.Smoothing {
		out = append(out, boolCmd(Smoothing, d.Smoothing))
	}
	if s.Flip != d.Flip {
		out = append(out, boolCmd(Flip, d.Flip))
	}
	if s.UpsideDown != d.UpsideDown {
		out = append(out, boolCmd(UpsideDown, d.UpsideDown))
	}
	if s.Font != d.Font {
		out = append(out, Command{Name: Font, Font: d.Font})
	}
	return out
}

// Restore emits the minimal set of commands that re-apply every non-default
// field of s, in an order that does not observably alter the final state
// (spec.md §4.4). Restoring from the documented default is a no-op.
func Restore(s FormattingState) []Command {
	d := DefaultFormattingState()
	var out []Command
	if s.Justify != d.Justify {
		out = append(out, Command{Name: Justify, Justify: s.Justify})
	}
	if s.Font != d.Font {
		out = append(out, Command{Name: Font, Font: s.Font})
	}
	if s.SizeW != d.SizeW || s.SizeH != d.SizeH {
		out = append(out, Command{Name: Size, Size: [2]uint8{s.SizeW, s.SizeH}})
	}
	if s.Underline != d.Underline {
		out = append(out, Command{Name: Underline, Underline: s.Underline})
	}
	if s.Bold != d.Bold {
		out = append(out, boolCmd(Bold, s.Bold))
	}
	if s.DoubleStrike != d.DoubleStrike {
		out = append(out, boolCmd(DoubleStrike, s.DoubleStrike))
	}
	if s.Reverse != d.Reverse {
		out = append(out, boolCmd(Reverse, s.Reverse))
	}
	if s.Smoothing != d.Smoothing {
		out = append(out, boolCmd(Smoothing, s.Smoothing))
	}
	if s.Flip != d.Flip {
		out = append(out, boolCmd(Flip, s.Flip))
	}
	if s.UpsideDown != d.UpsideDown {
		out = append(out, boolCmd(UpsideDown, s.UpsideDown))
	}
	return out
}

func boolCmd(name Name, v bool) Command {
	c := Command{Name: name}
	if v {
		c.Bool = 1
	}
	return c
}
