package analyzer

import (
	"time"

	"github.com/blackwell-systems/behaviorwatch/internal/event"
)

// DeepFocusBlocks extracts sustained engagement intervals from a session.
// A block is broken by any interruption event or by a gap longer than the idle
// threshold, and is reported only when it lasts at least opts.DeepFocusMin.
//
// When a block is broken by an interruption, the interruption time is
// remembered so that a block resuming shortly afterwards starts there rather
// than at its own first event. Events must be sorted by timestamp.
func DeepFocusBlocks(sorted []event.Event, start, end time.Time, opts Options) []FocusBlock {
	idle := opts.idleMs()
	minMs := opts.DeepFocusMin.Milliseconds()
	sessionStart := start.UnixMilli()
	sessionEnd := end.UnixMilli()

	blocks := []FocusBlock{}
	emit := func(from, to int64) {
		if to-from >= minMs {
			blocks = append(blocks, FocusBlock{
				StartAt:    time.UnixMilli(from).UTC(),
				EndAt:      time.UnixMilli(to).UTC(),
				DurationMs: to - from,
			})
		}
	}

	var (
		open         bool
		blockStart   int64
		blockEnd     int64
		hasLastEnd   bool
		lastBlockEnd int64
	)
	prev := sessionStart

	for i, e := range sorted {
		ts := e.UnixMilli()
		gapMs := ts - prev
		prev = ts

		if e.IsInterruption() || gapMs > idle {
			if open {
				emit(blockStart, blockEnd)
			}
			if e.IsInterruption() {
				hasLastEnd, lastBlockEnd = true, ts
			} else {
				hasLastEnd, lastBlockEnd = open, blockEnd
			}
			open = false
			continue
		}

		if !open {
			switch {
			case i == 0:
				blockStart = sessionStart
			case hasLastEnd && ts-lastBlockEnd <= idle:
				blockStart = lastBlockEnd
			default:
				blockStart = ts
			}
			open = true
		}
		blockEnd = ts
	}

	if open {
		if sessionEnd-blockEnd <= idle && sessionEnd > blockEnd {
			blockEnd = sessionEnd
		}
		emit(blockStart, blockEnd)
	}

	return blocks
}
