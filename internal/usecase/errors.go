package usecase

import "errors"

var (
	// ErrRangeBoundsRequired — для произвольного диапазона не задано начало или конец.
	ErrRangeBoundsRequired = errors.New("range bounds required")
	// ErrInvertedRange — начало диапазона позже конца.
	ErrInvertedRange = errors.New("range start is after range end")
	// ErrInvalidRange — диапазон не удалось вычислить.
	ErrInvalidRange = errors.New("invalid range")
	// ErrNotQueued — запись не удалось поставить в офлайн-очередь.
	ErrNotQueued = errors.New("registration could not be queued")
)

// Тексты уведомлений для пользователя.
const (
	MsgBoundsRequired  = "Selecciona una fecha de inicio y fin"
	MsgInvertedRange   = "La fecha de inicio no puede ser mayor a la final"
	MsgInvalidRange    = "Por favor define un rango valido para exportar"
	MsgNothingToExport = "No hay datos para exportar en el rango seleccionado"
	MsgQueuedOffline   = "Sin conexion. El registro se enviara automaticamente cuando vuelvas en linea."
	MsgNotQueued       = "No se pudo guardar el registro para enviarlo mas tarde."
	MsgRegistered      = "Usuario registrado correctamente."
	MsgRegisterFailed  = "No se pudo registrar al usuario."
)

// NoticeMessage — текст для пользователя по ошибке валидации диапазона; "" для прочих ошибок.
func NoticeMessage(err error) string {
	switch {
	case errors.Is(err, ErrRangeBoundsRequired):
		return MsgBoundsRequired
	case errors.Is(err, ErrInvertedRange):
		return MsgInvertedRange
	case errors.Is(err, ErrInvalidRange):
		return MsgInvalidRange
	default:
		return ""
	}
}

// IsRangeError — ошибка относится к вводу диапазона (400, а не 5xx).
func IsRangeError(err error) bool {
	return NoticeMessage(err) != ""
}
