package auth

// Claims es la identidad verificada que entrega el proveedor:
// id opaco + email + nombre para mostrar.
type Claims struct {
	UserID      string
	Email       string
	DisplayName string
}
