package domain

import "encoding/json"

// QueueTypeUserRegistration — очередь отложенных регистраций пользователей.
const QueueTypeUserRegistration = "user-registration"

// QueueEntry — отложенная мутация. Записи не меняются на месте:
// только добавляются или удаляются целиком по набору id.
type QueueEntry struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt string          `json:"createdAt"`
}

// Registration — данные формы регистрации сотрудника.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SubmitResult — чем закончилась отправка формы регистрации.
type SubmitResult struct {
	Queued  bool        `json:"queued"`
	Entry   *QueueEntry `json:"entry,omitempty"`
	Message string      `json:"message"`
}

// SyncOutcome — итог одного прохода синхронизации очереди.
type SyncOutcome struct {
	Attempted int     `json:"attempted"`
	Synced    int     `json:"synced"`
	Failed    int     `json:"failed"`
	Notice    *Notice `json:"notice,omitempty"`
}
