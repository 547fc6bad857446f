package notifications

import "time"

// Notification es un registro fire-and-forget dirigido a un usuario.
// La escritura es best-effort en todos los emisores; el camino de lectura
// existe solo para que el usuario vea sus notificaciones.
type Notification struct {
	ID        string
	UserID    string
	Kind      string
	Message   string
	Read      bool
	CreatedAt time.Time
}
