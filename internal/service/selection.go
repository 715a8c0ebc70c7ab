package service

import (
	"sort"

	"farmbot/internal/core/domain"
)

// SelectByViews drops clips whose view count is strictly below minViews,
// orders the survivors by views descending and truncates to limit. Ties keep
// their discovery order (stable sort). A limit of 0 means unbounded.
func SelectByViews(pool []domain.Clip, minViews, limit int) []domain.Clip {
	selected := make([]domain.Clip, 0, len(pool))
	for _, clip := range pool {
		if clip.Views >= minViews {
			selected = append(selected, clip)
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Views > selected[j].Views
	})

	if limit > 0 && len(selected) > limit {
		selected = selected[:limit]
	}
	return selected
}

// SelectRecent keeps, for each creator, the perCreator most recent clips
// ordered by creation time descending, then truncates the concatenation to
// limit. Creators appear in discovery order; ties within a creator keep
// their discovery order. A limit of 0 means unbounded.
func SelectRecent(pool []domain.Clip, perCreator, limit int) []domain.Clip {
	var order []string
	groups := make(map[string][]domain.Clip)
	for _, clip := range pool {
		if _, seen := groups[clip.CreatorName]; !seen {
			order = append(order, clip.CreatorName)
		}
		groups[clip.CreatorName] = append(groups[clip.CreatorName], clip)
	}

	selected := make([]domain.Clip, 0, len(pool))
	for _, creator := range order {
		clips := groups[creator]
		sort.SliceStable(clips, func(i, j int) bool {
			return clips[i].CreatedAt.After(clips[j].CreatedAt)
		})
		if perCreator > 0 && len(clips) > perCreator {
			clips = clips[:perCreator]
		}
		selected = append(selected, clips...)
	}

	if limit > 0 && len(selected) > limit {
		selected = selected[:limit]
	}
	return selected
}
