package port

// Fields - структурированные поля записи лога
type Fields map[string]interface{}

// Merge возвращает новую карту: поля f, поверх которых записаны extra.
// Исходные карты не меняются, поэтому дочерний логгер не портит родительский.
func (f Fields) Merge(extra Fields) Fields {
	merged := make(Fields, len(f)+len(extra))
	for k, v := range f {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// LoggerPort - логгер, который получают use case'ы и адаптеры.
// Реализации: slog в stdout, Fluent Bit и их объединение.
type LoggerPort interface {
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	// Error пишет err отдельным полем "error"; err может быть nil
	Error(msg string, err error, fields Fields)

	// WithFields не меняет получателя, а возвращает дочерний логгер
	WithFields(fields Fields) LoggerPort
}
