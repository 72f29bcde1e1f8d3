package draft

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/dmitrijs2005/quotewizard/internal/quote"
)

var errEmptyPayload = errors.New("empty draft payload")

// codec follows encoding/json semantics so drafts stay readable by any
// JSON tooling.
var codec = sonic.ConfigStd

func encodeSnapshot(s quote.Snapshot) ([]byte, error) {
	b, err := codec.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

func decodeSnapshot(b []byte) (quote.Snapshot, error) {
	var s quote.Snapshot
	if len(b) == 0 {
		return s, errEmptyPayload
	}
	if err := codec.Unmarshal(b, &s); err != nil {
		return quote.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}
