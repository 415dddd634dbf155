package cycle

import "study_server_go/models"

// Summarize computes the figures shown next to a list.
func Summarize(snap models.ListSnapshot) models.ListSummary {
	completed := 0
	for _, item := range snap.Items {
		if item.IsCompleted {
			completed++
		}
	}

	total := len(snap.Items)
	progress := 0.0
	if total > 0 {
		progress = float64(completed) / float64(total) * 100
	}

	totalTime := TotalTime(snap.Items)
	return models.ListSummary{
		CompletedItems: completed,
		TotalItems:     total,
		Progress:       progress,
		TotalTime:      totalTime,
		TotalTimeLabel: FormatTime(totalTime),
		DurationLabel:  FormatDuration(snap.List.CycleDuration),
		CycleCount:     len(snap.Cycles),
	}
}

// Details bundles a snapshot with its summary.
func Details(snap models.ListSnapshot) models.ListDetails {
	return models.ListDetails{ListSnapshot: snap, Summary: Summarize(snap)}
}
