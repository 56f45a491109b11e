package reprint

import (
	"bytes"
	"testing"
	"time"

	"reika-bridge/internal/command"
)

func boolP(name command.Name, v bool) command.Command {
	c := command.Command{Name: name}
	if v {
		c.Bool = 1
	}
	return c
}

func names(cmds []command.Command) []command.Name {
	out := make([]command.Name, len(cmds))
	for i, c := range cmds {
		out[i] = c.Name
	}
	return out
}

func contains(names []command.Name, seq []command.Name) bool {
	if len(seq) > len(names) {
		return false
	}
	for i := 0; i+len(seq) <= len(names); i++ {
		match := true
		for j, n := range seq {
			if names[i+j] != n {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func TestInjectBeginsWithInitAndMarker(t *testing.T) {
	t.Parallel()

	cmds := []command.Command{
		{Name: command.Writeln, Str: "A"},
		{Name: command.PrintCut},
	}
	out := Inject(cmds, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	if out[0].Name != command.Init {
		t.Fatalf("expected first command to be Init, got %s", out[0].Name)
	}
	if out[1].Name != command.Justify || out[1].Justify != command.JustifyCenter {
		t.Errorf("expected marker block to begin with Justify(CENTER), got %+v", out[1])
	}
}

func TestInjectPreservesFormattingIdempotence(t *testing.T) {
	t.Parallel()

	// Mirrors spec.md §8 property 4's literal example.
	cmds := []command.Command{
		boolP(command.Bold, true),
		{Name: command.Writeln, Str: "X"},
		boolP(command.Bold, false),
		{Name: command.PrintCut},
	}
	injected := Inject(cmds, time.Now())

	wantFinal := command.Project(cmds)
	gotFinal := command.Project(injected)
	if gotFinal != wantFinal {
		t.Errorf("reprint injection changed final formatting state: got %+v want %+v", gotFinal, wantFinal)
	}
}

func TestInjectMidMarkerIsNotBoldWhileContentStaysBold(t *testing.T) {
	t.Parallel()

	cmds := []command.Command{
		boolP(command.Bold, true),
		{Name: command.Writeln, Str: "X"},
		boolP(command.Bold, false),
	}
	injected := Inject(cmds, time.Now())

	// Find the midpoint marker's Writeln("** REPRINT COPY **") line (the
	// second marker block; the first is the top marker) and check the
	// formatting state at that point has Bold=false, while the content after
	// it (X) still runs with Bold=true.
	markerIdx := -1
	seen := 0
	for i, c := range injected {
		if c.Name == command.Writeln && c.Str == "     ** REPRINT COPY **" {
			seen++
			if seen == 2 {
				markerIdx = i
				break
			}
		}
	}
	if markerIdx < 0 {
		t.Fatal("expected a midpoint marker block in injected output")
	}
	stateAtMarker := command.Project(injected[:markerIdx+1])
	if stateAtMarker.Bold {
		t.Errorf("expected marker text to print with Bold=false, got state %+v", stateAtMarker)
	}

	contentIdx := -1
	for i, c := range injected {
		if c.Name == command.Writeln && c.Str == "X" {
			contentIdx = i
			break
		}
	}
	if contentIdx < 0 {
		t.Fatal("expected content X in injected output")
	}
	if stateAtContent := command.Project(injected[:contentIdx+1]); !stateAtContent.Bold {
		t.Errorf("expected content X to print with Bold=true, got state %+v", stateAtContent)
	}
}

func TestMidpointFallsOnContentBoundary(t *testing.T) {
	t.Parallel()

	// 4 content commands (A,B,C,D): k = floor(4/2) = 2, split immediately
	// before the 0-indexed 2nd content command, i.e. before C.
	cmds := []command.Command{
		boolP(command.Bold, true),
		{Name: command.Writeln, Str: "A"},
		{Name: command.Writeln, Str: "B"},
		{Name: command.Writeln, Str: "C"},
		{Name: command.Writeln, Str: "D"},
		boolP(command.Bold, false),
		{Name: command.PrintCut},
	}
	got := midpoint(cmds)
	if cmds[got].Str != "C" {
		t.Fatalf("expected midpoint split immediately before C, got index %d (%+v)", got, cmds[got])
	}
}

func TestInjectOrderMatchesDocumentedTrace(t *testing.T) {
	t.Parallel()

	cmds := []command.Command{
		boolP(command.Bold, true),
		{Name: command.Writeln, Str: "A"},
		{Name: command.Writeln, Str: "B"},
		{Name: command.Writeln, Str: "C"},
		{Name: command.Writeln, Str: "D"},
		boolP(command.Bold, false),
		{Name: command.PrintCut},
	}
	out := Inject(cmds, time.Now())
	n := names(out)

	// begins with Init, then marker (Justify/Reverse), then Bold(true)
	if !contains(n, []command.Name{command.Init, command.Justify, command.Reverse}) {
		t.Error("expected stream to begin Init, Justify, Reverse (top marker)")
	}
	if !contains(n, []command.Name{command.Bold, command.Writeln, command.Writeln}) {
		t.Error("expected Bold(true), A, B to survive after the top marker")
	}
	// ends with the bottom marker, its Justify(LEFT) restore, then PrintCut
	if n[len(n)-1] != command.PrintCut {
		t.Errorf("expected stream to end in PrintCut, got %s", n[len(n)-1])
	}
}

func TestInjectBottomMarkerPrecedesTheFinalCut(t *testing.T) {
	t.Parallel()

	// S4's literal input already ends in PrintCut; Inject must not let that
	// survive ahead of the bottom marker block, or the marker prints on a
	// severed strip after the cut.
	cmds := []command.Command{
		{Name: command.Writeln, Str: "A"},
		{Name: command.PrintCut},
	}
	out := Inject(cmds, time.Now())
	n := names(out)

	cutCount := 0
	lastCutIdx := -1
	for i, name := range n {
		if name == command.PrintCut {
			cutCount++
			lastCutIdx = i
		}
	}
	if cutCount != 1 {
		t.Fatalf("expected exactly one PrintCut in the injected stream, got %d", cutCount)
	}
	if lastCutIdx != len(n)-1 {
		t.Fatalf("expected the single PrintCut to be the final command, got it at index %d of %d", lastCutIdx, len(n))
	}

	markerIdx := -1
	for i := len(out) - 1; i >= 0; i-- {
		if out[i].Name == command.Writeln && out[i].Str == "  REIKA-escpos" {
			markerIdx = i
			break
		}
	}
	if markerIdx < 0 {
		t.Fatal("expected a bottom marker block in the injected output")
	}
	if markerIdx >= lastCutIdx {
		t.Errorf("expected the bottom marker (index %d) to precede the final cut (index %d)", markerIdx, lastCutIdx)
	}
}

func TestInjectDispatchesCleanly(t *testing.T) {
	t.Parallel()

	cmds := []command.Command{
		{Name: command.Writeln, Str: "receipt line"},
		{Name: command.PrintCut},
	}
	out := Inject(cmds, time.Now())

	var buf bytes.Buffer
	if err := command.DispatchList(&buf, out, nil, ""); err != nil {
		t.Fatalf("DispatchList on injected commands: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("REIKA-escpos")) {
		t.Error("expected marker text in dispatched output")
	}
}
