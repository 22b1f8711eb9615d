package templates

import (
	"fmt"
	"time"

	"github.com/m04kA/BarberBookingService/internal/domain"
)

type catalog struct {
	bodies   map[domain.MessageType]string
	subjects map[domain.MessageType]string
	service  string
	stylist  string
	weekdays [7]string
	months   [12]string
}

var catalogs = map[string]catalog{
	"fr": {
		bodies: map[domain.MessageType]string{
			domain.MessageConfirmation: "Bonjour {{.Name}}, nous confirmons votre rendez-vous du {{.Date}} à {{.Time}} pour {{.Service}} avec {{.Stylist}}. À bientôt!",
			domain.MessageReschedule:   "Bonjour {{.Name}}, nous devons malheureusement reprogrammer votre rendez-vous pour {{.Service}}. Pouvez-vous nous contacter pour choisir une nouvelle date? Merci de votre compréhension.",
			domain.MessageReminder:     "Bonjour {{.Name}}, nous vous rappelons votre rendez-vous demain le {{.Date}} à {{.Time}}. À bientôt!",
		},
		subjects: map[domain.MessageType]string{
			domain.MessageConfirmation: "Confirmation de votre rendez-vous",
			domain.MessageReschedule:   "Votre rendez-vous doit être reprogrammé",
			domain.MessageReminder:     "Rappel de votre rendez-vous",
		},
		service:  "votre service",
		stylist:  "notre barbier",
		weekdays: [7]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"},
		months: [12]string{"janvier", "février", "mars", "avril", "mai", "juin",
			"juillet", "août", "septembre", "octobre", "novembre", "décembre"},
	},
	"en": {
		bodies: map[domain.MessageType]string{
			domain.MessageConfirmation: "Hello {{.Name}}, we confirm your appointment on {{.Date}} at {{.Time}} for {{.Service}} with {{.Stylist}}. See you soon!",
			domain.MessageReschedule:   "Hello {{.Name}}, unfortunately we need to reschedule your appointment for {{.Service}}. Could you contact us to choose a new date? Thank you for your understanding.",
			domain.MessageReminder:     "Hello {{.Name}}, this is a reminder of your appointment tomorrow, {{.Date}} at {{.Time}}. See you soon!",
		},
		subjects: map[domain.MessageType]string{
			domain.MessageConfirmation: "Your appointment is confirmed",
			domain.MessageReschedule:   "Your appointment needs to be rescheduled",
			domain.MessageReminder:     "Appointment reminder",
		},
		service: "your service",
		stylist: "our barber",
	},
}

// FormatDate длинный формат даты: "lundi 10 mars 2025" для fr, "Monday, March 10, 2025" иначе
func FormatDate(date time.Time, locale string) string {
	if date.IsZero() {
		return ""
	}
	c, ok := catalogs[locale]
	if !ok || c.months[0] == "" {
		return date.Format("Monday, January 2, 2006")
	}
	return fmt.Sprintf("%s %d %s %d",
		c.weekdays[date.Weekday()], date.Day(), c.months[date.Month()-1], date.Year())
}
