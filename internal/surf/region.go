package surf

import (
	"context"
	"log"
	"sort"
	"sync"
)

// SpotAnalyzer runs the window analysis for one spot. Satisfied by *Service;
// narrowed to an interface so region comparison is testable without live
// providers.
type SpotAnalyzer interface {
	AnalyzeSpot(ctx context.Context, spot SpotProfile, prefs Preferences) AnalysisResult
}

// CompareSpots runs the Window Analyzer across every spot of a region with
// shared preferences and ranks spots by their single best window. Spots
// whose analysis yields no window are silently excluded; the region result
// is still a success.
func CompareSpots(ctx context.Context, region string, spots []SpotProfile, prefs Preferences, analyzer SpotAnalyzer, topK int) RegionRanking {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		ranks []SpotRank
	)

	for _, spot := range spots {
		spot := spot
		wg.Add(1)
		go func() {
			defer wg.Done()

			result := analyzer.AnalyzeSpot(ctx, spot, prefs)
			if result.Status == StatusError {
				// Log and continue; one broken spot must not sink the region.
				log.Printf("region %s: analysis failed for %s: %s", region, spot.ID, result.Message)
				return
			}
			if len(result.Windows) == 0 {
				return
			}

			best := bestWindow(result.Windows)

			mu.Lock()
			ranks = append(ranks, SpotRank{
				SpotID:   spot.ID,
				SpotName: spot.Name,
				AvgScore: best.AvgScore,
				Peak:     best.Peak,
				BestHour: best.BestHour,
				Window:   best,
			})
			mu.Unlock()
		}()
	}

	wg.Wait()

	if ranks == nil {
		ranks = []SpotRank{}
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].AvgScore != ranks[j].AvgScore {
			return ranks[i].AvgScore > ranks[j].AvgScore
		}
		return ranks[i].Peak > ranks[j].Peak
	})

	if topK > 0 && len(ranks) > topK {
		ranks = ranks[:topK]
	}

	ranking := RegionRanking{
		Region:   region,
		Status:   StatusSuccess,
		Rankings: ranks,
	}
	if len(ranks) == 0 {
		ranking.Status = StatusNoData
		ranking.Message = "no spot in the region has a surfable window"
		return ranking
	}
	ranking.BestSpot = &ranks[0]
	return ranking
}

// bestWindow picks the window with the highest average score, longer on
// ties (windows arrive chronologically sorted).
func bestWindow(windows []AnalyzerWindow) *AnalyzerWindow {
	best := &windows[0]
	for i := 1; i < len(windows); i++ {
		w := &windows[i]
		if w.AvgScore > best.AvgScore ||
			(w.AvgScore == best.AvgScore && w.Hours > best.Hours) {
			best = w
		}
	}
	return best
}
