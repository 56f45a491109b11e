// Package reprint implements the Reprint Marker Injector: it rewrites a
// command list to carry identical anti-fraud marker blocks at its head,
// midpoint, and tail without disturbing the formatting state the original
// commands depend on (spec.md §4.4). It is built entirely on
// reika-bridge/internal/command's FormattingState projection, which is the
// "small pure function over the command variants" the design notes (spec.md
// §9) call for.
package reprint

import (
	"time"

	"reika-bridge/internal/command"
)

// TimestampFormat is the marker block's timestamp layout in Go's reference
// time notation, equivalent to "YYYY-MM-DD HH:MM:SS".
const TimestampFormat = "2006-01-02 15:04:05"

// markerBlock returns the fixed reverse-video marker sequence (spec.md §4.4),
// stamped with now in local time per the spec's unresolved-timezone note
// (spec.md §9 Open Questions).
func markerBlock(now time.Time) []command.Command {
	return []command.Command{
		{Name: command.Justify, Justify: command.JustifyCenter},
		boolCmd(command.Reverse, true),
		{Name: command.Writeln, Str: "================================"},
		{Name: command.Writeln, Str: "     ** REPRINT COPY **"},
		{Name: command.Writeln, Str: now.Format(TimestampFormat)},
		{Name: command.Writeln, Str: "  REIKA-escpos"},
		{Name: command.Writeln, Str: "================================"},
		boolCmd(command.Reverse, false),
	}
}

func boolCmd(name command.Name, v bool) command.Command {
	c := command.Command{Name: name}
	if v {
		c.Bool = 1
	}
	return c
}

// cutNames is the set of variants that sever the receipt. A caller-supplied
// trailing cut (S4's input always ends in one) must not survive into the
// middle of Inject's output, or the bottom marker block would print after
// the paper has already been cut.
var cutNames = map[command.Name]bool{
	command.Cut:        true,
	command.PartialCut: true,
	command.PrintCut:   true,
}

// stripTrailingCuts drops any cut commands from the end of cmds so Inject can
// place its own single final cut after the bottom marker block instead of
// before it.
func stripTrailingCuts(cmds []command.Command) []command.Command {
	end := len(cmds)
	for end > 0 && cutNames[cmds[end-1].Name] {
		end--
	}
	return cmds[:end]
}

// midpoint returns the index into cmds immediately before the k-th content
// command (0-indexed), where k = floor(content_count / 2). It always falls on
// a content boundary (spec.md §4.4 "Midpoint", testable property 5).
func midpoint(cmds []command.Command) int {
	total := 0
	for _, c := range cmds {
		if c.Name.IsContent() {
			total++
		}
	}
	k := total / 2

	contentIndex := -1
	for i, c := range cmds {
		if c.Name.IsContent() {
			contentIndex++
			if contentIndex == k {
				return i
			}
		}
	}
	return len(cmds)
}

// Inject rewrites cmds to contain top, midpoint, and bottom reprint marker
// blocks, preserving the formatting state the original commands rely on
// across each injection point (spec.md §4.4, testable property 4).
func Inject(cmds []command.Command, now time.Time) []command.Command {
	split := midpoint(cmds)
	before := cmds[:split]
	after := cmds[split:]

	marker := markerBlock(now)

	// The marker block leaves Justify at CENTER. Restore only re-applies
	// non-default fields, so a LEFT target needs an explicit Justify(LEFT).
	restoreAfterMarker := func(s command.FormattingState) []command.Command {
		out := command.Restore(s)
		if s.Justify == command.JustifyLeft {
			out = append([]command.Command{{Name: command.Justify, Justify: command.JustifyLeft}}, out...)
		}
		return out
	}

	var out []command.Command
	out = append(out, command.Command{Name: command.Init})
	out = append(out, marker...)
	out = append(out, restoreAfterMarker(command.DefaultFormattingState())...)

	out = append(out, before...)

	mid := command.Project(before)
	out = append(out, command.ResetToDefault(mid)...)
	out = append(out, marker...)
	out = append(out, restoreAfterMarker(mid)...)

	out = append(out, stripTrailingCuts(after)...)

	final := command.Project(cmds)
	out = append(out, command.ResetToDefault(final)...)
	out = append(out, marker...)
	out = append(out, restoreAfterMarker(final)...)
	out = append(out, command.Command{Name: command.PrintCut})

	return out
}
