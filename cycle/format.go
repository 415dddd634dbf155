package cycle

import "fmt"

// FormatTime renders a number of minutes as "1h 30min", "1h" or "45min".
func FormatTime(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60
	if hours > 0 {
		if mins > 0 {
			return fmt.Sprintf("%dh %dmin", hours, mins)
		}
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dmin", mins)
}

// FormatDuration renders a cycle duration in days, naming the week and month
// presets and falling back to "N dias" for everything else.
func FormatDuration(days int) string {
	switch days {
	case 1:
		return "1 dia"
	case 7:
		return "1 semana"
	case 14:
		return "2 semanas"
	case 30:
		return "1 mês"
	}
	return fmt.Sprintf("%d dias", days)
}

// NoticeMessage is the text shown to the user when a cycle completes.
func NoticeMessage(cycleNumber, totalTime, cycleCount int) string {
	return fmt.Sprintf("🎉 Ciclo %d concluído!\n\nTempo total: %s\nTotal de ciclos: %d",
		cycleNumber, FormatTime(totalTime), cycleCount)
}
