package chart

import "io"

// Run executes the full pipeline: normalize raw events, assign running
// counts, fill the period grid, rank per period. The returned summary
// describes skipped malformed events and is never nil on success.
func Run(events []RawEvent, cfg Config) ([]RankedRow, *SkipSummary, error) {
	if len(events) == 0 {
		if cfg.Strict {
			return nil, nil, ErrEmptyInput
		}
		return nil, &SkipSummary{}, nil
	}

	normalized, summary := Normalize(events)
	if len(normalized) == 0 {
		if cfg.Strict {
			return nil, nil, ErrEmptyInput
		}
		return nil, summary, nil
	}

	counted, err := CountPlays(normalized)
	if err != nil {
		return nil, nil, err
	}

	grid, err := FillGrid(counted, cfg)
	if err != nil {
		return nil, nil, err
	}

	return Rank(grid, cfg.topN()), summary, nil
}

// RunTo runs the pipeline and writes the exported dataset to w.
func RunTo(w io.Writer, events []RawEvent, cfg Config) (*SkipSummary, error) {
	rows, summary, err := Run(events, cfg)
	if err != nil {
		return nil, err
	}
	if err := Export(w, rows); err != nil {
		return nil, err
	}
	return summary, nil
}
