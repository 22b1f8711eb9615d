package templates

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BarberBookingService/internal/domain"
)

func sampleFacts() Facts {
	return Facts{
		ClientName:   "Jean Dupont",
		Date:         time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Time:         "14:00",
		ServiceTitle: "Coupe Tendance",
		StylistName:  "Youssef Nouri",
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "lundi 10 mars 2025", FormatDate(d, "fr"))
	assert.Equal(t, "Monday, March 10, 2025", FormatDate(d, "en"))
	assert.Equal(t, "dimanche 17 août 2025", FormatDate(time.Date(2025, 8, 17, 0, 0, 0, 0, time.UTC), "fr"))
	assert.Empty(t, FormatDate(time.Time{}, "fr"))
}

func TestEngine_RenderConfirmation_FieldOrder(t *testing.T) {
	e, err := NewEngine("fr")
	require.NoError(t, err)

	text, err := e.Render(domain.MessageConfirmation, sampleFacts())
	require.NoError(t, err)

	assert.Equal(t,
		"Bonjour Jean Dupont, nous confirmons votre rendez-vous du lundi 10 mars 2025 à 14:00 pour Coupe Tendance avec Youssef Nouri. À bientôt!",
		text)

	positions := []int{
		strings.Index(text, "Jean Dupont"),
		strings.Index(text, "lundi 10 mars 2025"),
		strings.Index(text, "14:00"),
		strings.Index(text, "Coupe Tendance"),
		strings.Index(text, "Youssef Nouri"),
	}
	for i := 1; i < len(positions); i++ {
		assert.Greater(t, positions[i], positions[i-1])
	}
}

func TestEngine_RenderReminder_IgnoresServiceAndStylist(t *testing.T) {
	e, err := NewEngine("fr")
	require.NoError(t, err)

	text, err := e.Render(domain.MessageReminder, sampleFacts())
	require.NoError(t, err)

	assert.Contains(t, text, "demain le lundi 10 mars 2025 à 14:00")
	assert.NotContains(t, text, "Coupe Tendance")
	assert.NotContains(t, text, "Youssef Nouri")
}

func TestEngine_Render_Fallbacks(t *testing.T) {
	e, err := NewEngine("fr")
	require.NoError(t, err)

	f := sampleFacts()
	f.ServiceTitle = ""
	f.StylistName = ""

	text, err := e.Render(domain.MessageConfirmation, f)
	require.NoError(t, err)
	assert.Contains(t, text, "pour votre service avec notre barbier")
}

func TestEngine_Render_UnknownType(t *testing.T) {
	e, err := NewEngine("fr")
	require.NoError(t, err)

	text, err := e.Render("birthday", sampleFacts())
	assert.Empty(t, text)
	assert.ErrorIs(t, err, ErrUnknownMessageType)
}

func TestNewEngine_UnsupportedLocale(t *testing.T) {
	_, err := NewEngine("de")
	assert.ErrorIs(t, err, ErrUnsupportedLocale)
}

func TestEngine_Subject(t *testing.T) {
	e, err := NewEngine("en")
	require.NoError(t, err)
	assert.Equal(t, "Appointment reminder", e.Subject(domain.MessageReminder))
}
