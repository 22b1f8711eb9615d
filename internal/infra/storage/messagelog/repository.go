package messagelog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/dbmetrics"
	"github.com/m04kA/BarberBookingService/pkg/psqlbuilder"
)

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("messagelog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("messagelog.repository: failed to execute query")
)

// previewLength сколько символов текста сохраняется в журнале
const previewLength = 100

// Repository журнал сообщений клиентам (таблица whatsapp_logs)
type Repository struct {
	db dbmetrics.DBExecutor
}

func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет запись журнала; текст обрезается до превью
func (r *Repository) Create(ctx context.Context, l *domain.MessageLog) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert("whatsapp_logs").
		Columns("id", "appointment_id", "channel", "phone", "template_name", "message_preview", "status", "provider_id").
		Values(l.ID, l.AppointmentID, l.Channel, l.Recipient, l.TemplateName, Preview(l.MessagePreview), l.Status, l.ProviderID).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	l.CreatedAt = createdAt.Time

	return nil
}

// Preview первые previewLength символов (по рунам) с многоточием
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}
