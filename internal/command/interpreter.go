package command

import (
	"fmt"
	"io"
	"time"

	"reika-bridge/internal/bridgeerr"
	"reika-bridge/internal/escpos"
	"reika-bridge/internal/telemetry"
)

// Run wraps cmds with a leading Init and a trailing PrintCut (spec.md §4.3
// "every execution issues a protocol-level init before the first command and
// a print_cut after the last") and dispatches the result. Use Run for a plain
// /print job; the reprint path builds its own complete, already-bracketed
// list (internal/reprint.Inject already embeds its own Init and PrintCut per
// spec.md §4.4) and should call DispatchList directly to avoid a doubled
// preamble/postamble.
func Run(dst io.Writer, cmds []Command, log *telemetry.Logger, traceID string) error {
	full := make([]Command, 0, len(cmds)+2)
	full = append(full, Command{Name: Init})
	full = append(full, cmds...)
	full = append(full, Command{Name: PrintCut})
	return DispatchList(dst, full, log, traceID)
}

// DispatchList walks cmds in order against an ESC/POS encoder writing to dst,
// with no implicit preamble or postamble. It stops at the first dispatch
// failure — there is no mid-stream resume, since a partial write already
// means the physical paper state is unknown (spec.md §8 property 1).
//
// log and traceID are used purely for observability; a nil log is tolerated
// for callers (like tests) that only need dispatch, not a full job trace.
// Each per-command line is tagged "command:<variant>" so one variant can be
// isolated with telemetry.Logger.EnableTraceTag.
func DispatchList(dst io.Writer, cmds []Command, log *telemetry.Logger, traceID string) error {
	w := escpos.New(dst)

	total := len(cmds)
	for i, c := range cmds {
		start := time.Now()
		err := dispatch(w, c)
		elapsed := time.Since(start)

		if log != nil {
			log.TraceTag("command:"+string(c.Name), "dispatched command",
				"trace_id", traceID,
				"index", i,
				"total", total,
				"variant", string(c.Name),
				"elapsed", elapsed.String(),
				"ok", err == nil,
			)
		}

		if err != nil {
			return bridgeerr.Printer(fmt.Sprintf("command %d (%s)", i, c.Name), err)
		}
	}

	if log != nil {
		log.Info("command list complete", "trace_id", traceID, "total", total)
	}
	return nil
}

// dispatch encodes a single Command against w. Validation of parameter shape
// already happened in DecodeList; this switch only maps variants to wire
// encoding calls.
func dispatch(w *escpos.Writer, c Command) error {
	switch c.Name {
	case Print:
		return w.Print()
	case Init:
		return w.Init()
	case Reset:
		return w.Reset()
	case Cut:
		return w.Cut()
	case PartialCut:
		return w.PartialCut()
	case PrintCut:
		return w.PrintCut()
	case ResetSize:
		return w.ResetSize()
	case ResetLineSpacing:
		return w.ResetLineSpacing()

	case Bold:
		return w.Bold(c.BoolValue())
	case DoubleStrike:
		return w.DoubleStrike(c.BoolValue())
	case Flip:
		return w.Flip(c.BoolValue())
	case Reverse:
		return w.Reverse(c.BoolValue())
	case Smoothing:
		return w.Smoothing(c.BoolValue())
	case Feed:
		return w.Feed(c.BoolValue())
	case UpsideDown:
		return w.UpsideDown(c.BoolValue())

	case Feeds:
		return w.Feeds(c.Uint)
	case LineSpacing:
		return w.LineSpacing(c.Uint)

	case Write:
		return w.Write(c.Str)
	case Writeln:
		return w.Writeln(c.Str)

	case Ean13:
		return w.Ean13(c.Str)
	case Ean8:
		return w.Ean8(c.Str)
	case Upca:
		return w.Upca(c.Str)
	case Upce:
		return w.Upce(c.Str)
	case Code39:
		return w.Code39(c.Str)
	case Codabar:
		return w.Codabar(c.Str)
	case Itf:
		return w.Itf(c.Str)

	case Qrcode:
		return w.Qrcode(c.Str)
	case GS1Databar2d:
		return w.GS1Databar2d(c.Str)
	case Pdf417:
		return w.Pdf417(c.Str)
	case Maxicode:
		return w.Maxicode(c.Str)
	case DataMatrix:
		return w.DataMatrix(c.Str)
	case Aztec:
		return w.Aztec(c.Str)

	case Size:
		return w.Size(c.Size[0], c.Size[1])

	case PageCode:
		return w.PageCode(string(c.PageCode))
	case CharacterSet:
		return w.CharacterSet(string(c.CharSet))
	case Underline:
		return w.Underline(string(c.Underline))
	case Font:
		return w.Font(string(c.Font))
	case Justify:
		return w.Justify(string(c.Justify))
	case CashDrawer:
		return w.CashDrawer(string(c.CashDrawer))

	default:
		return fmt.Errorf("unhandled command variant %q", c.Name)
	}
}

// CheckConnection issues only Init against dst and reports whether it
// succeeded, with no retry and no reconnect (spec.md §4.1 health-probe
// operation). Callers are responsible for publishing the result to the
// status broadcaster.
func CheckConnection(dst io.Writer) bool {
	return escpos.New(dst).Init() == nil
}
