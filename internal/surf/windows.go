package surf

import (
	"math"
	"sort"
)

// GroupGoodWindows run-length-encodes a chronologically ordered scored
// series into maximal contiguous runs at or above threshold. Hours below
// threshold close the current run and never appear in any window.
func GroupGoodWindows(scored []ScoreResult, threshold int) []Window {
	var windows []Window
	var buffer []ScoreResult

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		windows = append(windows, buildWindow(buffer))
		buffer = buffer[:0]
	}

	for _, hour := range scored {
		if hour.Score >= threshold {
			buffer = append(buffer, hour)
			continue
		}
		flush()
	}
	flush()

	return windows
}

func buildWindow(buffer []ScoreResult) Window {
	var sum float64
	tagCounts := make(map[string]int)
	tagOrder := make([]string, 0)

	for _, hour := range buffer {
		sum += float64(hour.Score)
		for _, tag := range hour.Reasons {
			if tagCounts[tag] == 0 {
				tagOrder = append(tagOrder, tag)
			}
			tagCounts[tag]++
		}
	}

	// Top tags by occurrence count; first-seen order breaks ties so the
	// result is deterministic.
	firstSeen := make(map[string]int, len(tagOrder))
	for i, tag := range tagOrder {
		firstSeen[tag] = i
	}
	sort.SliceStable(tagOrder, func(i, j int) bool {
		ci, cj := tagCounts[tagOrder[i]], tagCounts[tagOrder[j]]
		if ci != cj {
			return ci > cj
		}
		return firstSeen[tagOrder[i]] < firstSeen[tagOrder[j]]
	})
	if len(tagOrder) > maxHighlights {
		tagOrder = tagOrder[:maxHighlights]
	}

	return Window{
		Start:      buffer[0].Time,
		End:        buffer[len(buffer)-1].Time,
		ScoreAvg:   int(math.Round(sum / float64(len(buffer)))),
		Hours:      len(buffer),
		Highlights: tagOrder,
	}
}
