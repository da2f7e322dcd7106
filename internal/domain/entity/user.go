package entity

// Niveles de acceso (ordinales). Mayor nivel incluye los permisos de los inferiores.
const (
	AccessLevelViewer = 1 // solo consulta
	AccessLevelEditor = 2 // alta, edición y baja de artículos
	AccessLevelAdmin  = 3 // reportes y administración
)

// Roles conocidos (etiquetas, la autorización usa AccessLevel).
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User representa un registro del directorio de usuarios (inmutable en tiempo de ejecución).
type User struct {
	ID           int64
	Email        string // único, comparación exacta
	PasswordHash string // bcrypt; nunca texto plano fuera del fixture de semilla
	Name         string
	Role         string
	AccessLevel  int
}
