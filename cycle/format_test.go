package cycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTime(t *testing.T) {
	cases := map[int]string{
		0:   "0min",
		45:  "45min",
		60:  "1h",
		90:  "1h 30min",
		125: "2h 5min",
		600: "10h",
	}
	for minutes, want := range cases {
		assert.Equal(t, want, FormatTime(minutes), "minutes=%d", minutes)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[int]string{
		1:  "1 dia",
		3:  "3 dias",
		5:  "5 dias",
		7:  "1 semana",
		14: "2 semanas",
		30: "1 mês",
	}
	for days, want := range cases {
		assert.Equal(t, want, FormatDuration(days), "days=%d", days)
	}
}

func TestNoticeMessage(t *testing.T) {
	assert.Equal(t, "🎉 Ciclo 3 concluído!\n\nTempo total: 1h 30min\nTotal de ciclos: 3", NoticeMessage(3, 90, 3))
}
