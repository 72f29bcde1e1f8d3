package draft

import (
	"fmt"

	"github.com/dmitrijs2005/quotewizard/internal/quote"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

// OverlayOnto applies the stored document as a JSON merge patch over base.
// Fields an older draft never wrote keep base's values, so defaults added
// after the draft was saved still come through.
func (d *Draft) OverlayOnto(base quote.Snapshot) (quote.Snapshot, error) {
	baseDoc, err := encodeSnapshot(base)
	if err != nil {
		return quote.Snapshot{}, err
	}
	merged, err := jsonpatch.MergePatch(baseDoc, d.Document)
	if err != nil {
		return quote.Snapshot{}, fmt.Errorf("merge draft: %w", err)
	}
	return decodeSnapshot(merged)
}
