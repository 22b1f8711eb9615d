package templates

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"
	"time"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

var (
	// ErrUnknownMessageType возвращается вместе с пустой строкой для неизвестного типа сообщения
	ErrUnknownMessageType = errors.New("templates: unknown message type")

	// ErrUnsupportedLocale возвращается при создании движка с неизвестной локалью
	ErrUnsupportedLocale = errors.New("templates: unsupported locale")

	// ErrRender возвращается при ошибке выполнения шаблона
	ErrRender = errors.New("templates: render failed")
)

// Facts данные записи, подставляемые в шаблон
type Facts struct {
	ClientName   string
	Date         time.Time
	Time         types.TimeString
	ServiceTitle string
	StylistName  string
}

// view то, что видит шаблон: дата уже отформатирована, пустые поля заменены
type view struct {
	Name    string
	Date    string
	Time    string
	Service string
	Stylist string
}

// Engine рендерит тексты сообщений клиенту на одном языке
type Engine struct {
	locale    string
	templates map[domain.MessageType]*template.Template
	subjects  map[domain.MessageType]string
}

// NewEngine разбирает шаблоны локали заранее, с missingkey=error
func NewEngine(locale string) (*Engine, error) {
	set, ok := catalogs[locale]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLocale, locale)
	}

	e := &Engine{
		locale:    locale,
		templates: make(map[domain.MessageType]*template.Template, len(set.bodies)),
		subjects:  set.subjects,
	}
	for messageType, body := range set.bodies {
		t, err := template.New(messageType.TemplateName()).Option("missingkey=error").Parse(body)
		if err != nil {
			return nil, fmt.Errorf("templates: parse %s/%s: %w", locale, messageType, err)
		}
		e.templates[messageType] = t
	}
	return e, nil
}

// Locale язык движка
func (e *Engine) Locale() string {
	return e.locale
}

// Render текст сообщения. Для неизвестного типа возвращает "" и ErrUnknownMessageType
func (e *Engine) Render(messageType domain.MessageType, f Facts) (string, error) {
	t, ok := e.templates[messageType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMessageType, messageType)
	}

	fallback := catalogs[e.locale]
	v := view{
		Name:    f.ClientName,
		Date:    FormatDate(f.Date, e.locale),
		Time:    f.Time.String(),
		Service: orDefault(f.ServiceTitle, fallback.service),
		Stylist: orDefault(f.StylistName, fallback.stylist),
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRender, messageType, err)
	}
	return buf.String(), nil
}

// Subject тема письма для email-доставки
func (e *Engine) Subject(messageType domain.MessageType) string {
	return e.subjects[messageType]
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
