package decoder

import (
	"context"
	"time"
)

// idlePoll is how long Run sleeps when the decoder can't make progress
// (not enough buffered input) before checking again, mirroring the
// teacher's decodeLoop poll interval.
const idlePoll = 10 * time.Millisecond

// Run drives the decoder to completion or cancellation, calling Process()
// as fast as CanProcess() allows and backing off by idlePoll otherwise.
// onStep, if non-nil, runs after every Process() call so a caller can drain
// the output sink incrementally instead of polling it separately. Run
// returns when ctx is canceled or, for a closed input (see CloseInput),
// once the decoder can no longer make progress.
func (d *Decoder) Run(ctx context.Context, onStep func()) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if d.CanProcess() {
			d.Process()
			if onStep != nil {
				onStep()
			}
			continue
		}

		if d.Finished() {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(idlePoll):
		}
	}
}
